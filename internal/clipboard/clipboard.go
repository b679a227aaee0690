// Package clipboard provides domain.Clipboard implementations.
package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/hammamikhairi/nutriveda/internal/domain"
)

// Compile-time interface checks.
var (
	_ domain.Clipboard = System{}
	_ domain.Clipboard = (*Memory)(nil)
)

// System writes to the OS clipboard (pbcopy, xclip/xsel/wl-copy, or the
// Windows clipboard API).
type System struct{}

// Available reports whether a clipboard backend was found on this machine.
func (System) Available() bool { return !clipboard.Unsupported }

// WriteText copies text to the system clipboard.
func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard: %w: no clipboard utility found", domain.ErrNotConfigured)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: write: %w", err)
	}
	return nil
}

// Memory keeps the last written text. Used for tests and headless runs.
type Memory struct {
	mu   sync.Mutex
	text string
	n    int
}

// WriteText stores text.
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.n++
	return nil
}

// Text returns the last written text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns how many times WriteText was called.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.n
}
