package clipboard

import "testing"

func TestMemory(t *testing.T) {
	var m Memory
	if m.Text() != "" || m.Writes() != 0 {
		t.Fatalf("expected empty clipboard, got %q (%d writes)", m.Text(), m.Writes())
	}

	_ = m.WriteText("first")
	_ = m.WriteText("second")

	if m.Text() != "second" {
		t.Fatalf("expected last write to win, got %q", m.Text())
	}
	if m.Writes() != 2 {
		t.Fatalf("expected 2 writes, got %d", m.Writes())
	}
}
