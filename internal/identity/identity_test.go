package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/logger"
)

func quiet() *logger.Logger { return logger.New(logger.LevelOff, nil) }

func TestNoneFailsOpen(t *testing.T) {
	var p None
	s, err := p.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Absent())

	unsubscribe := p.Subscribe(func(domain.Session) { t.Fatal("None must never emit") })
	unsubscribe()
	assert.NoError(t, p.SignOut(context.Background()))
}

func TestLocalEmitsInOrder(t *testing.T) {
	p := NewLocal(quiet())
	var got []string
	p.Subscribe(func(s domain.Session) { got = append(got, "a:"+s.Mode().String()) })
	unsubB := p.Subscribe(func(s domain.Session) { got = append(got, "b:"+s.Mode().String()) })

	_, err := p.SignIn("user-1", "asha@example.com")
	require.NoError(t, err)
	p.ContinueAsGuest()
	unsubB()
	unsubB()
	require.NoError(t, p.SignOut(context.Background()))

	assert.Equal(t, []string{
		"a:authenticated", "b:authenticated",
		"a:guest", "b:guest",
		"a:guest",
	}, got)

	s, err := p.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Absent())
}

func TestLocalSignIn(t *testing.T) {
	p := NewLocal(quiet())

	_, err := p.SignIn("  ", "x@example.com")
	assert.ErrorIs(t, err, domain.ErrNoSession)

	_, err = p.SignIn("user-1", domain.GuestEmail)
	assert.Error(t, err, "the guest address is reserved")

	s, err := p.SignIn("user-1", "asha@example.com")
	require.NoError(t, err)
	assert.False(t, s.IsGuest())

	var refreshed domain.Session
	p.Subscribe(func(s domain.Session) { refreshed = s })
	p.Refresh()
	assert.Equal(t, s, refreshed)
}

func TestLocalGuestSession(t *testing.T) {
	p := NewLocal(quiet())
	s := p.ContinueAsGuest()
	assert.Empty(t, s.UserID)
	assert.Equal(t, domain.GuestEmail, s.Email)
	assert.True(t, s.IsGuest())
	assert.False(t, s.Absent())
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := NewToken([]byte("secret"), quiet(), WithClock(func() time.Time { return now }))

	var events []domain.Session
	p.Subscribe(func(s domain.Session) { events = append(events, s) })

	raw, err := p.Issue("user-1", "asha@example.com", time.Hour)
	require.NoError(t, err)

	s, err := p.SignInWithToken(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.Session{UserID: "user-1", Email: "asha@example.com"}, s)

	cur, err := p.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, s, cur)

	require.NoError(t, p.SignOut(context.Background()))
	require.Len(t, events, 2)
	assert.True(t, events[1].Absent())
}

func TestTokenRejectsBadTokens(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	p := NewToken([]byte("secret"), quiet(), WithClock(clock))
	other := NewToken([]byte("other-secret"), quiet(), WithClock(clock))

	forged, err := other.Issue("user-1", "asha@example.com", time.Hour)
	require.NoError(t, err)
	expired, err := p.Issue("user-1", "asha@example.com", -time.Minute)
	require.NoError(t, err)
	anonymous, err := p.Issue("", "asha@example.com", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"wrong secret", forged},
		{"expired", expired},
		{"no subject", anonymous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := p.SignInWithToken(tt.raw)
			assert.Error(t, err)
			assert.True(t, s.Absent())

			cur, err := p.CurrentSession(context.Background())
			require.NoError(t, err, "current session fails open")
			assert.True(t, cur.Absent())
		})
	}
}

func TestTokenExpiresWhileStored(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := NewToken([]byte("secret"), quiet(), WithClock(func() time.Time { return now }))

	raw, err := p.Issue("user-1", "asha@example.com", time.Minute)
	require.NoError(t, err)
	_, err = p.SignInWithToken(raw)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	cur, err := p.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.True(t, cur.Absent())
}
