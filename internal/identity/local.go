package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/logger"
)

// Local is an in-process identity provider. The terminal front-end uses it
// for "login <id> <email>" and "guest".
type Local struct {
	mu      sync.RWMutex
	current domain.Session
	hub     hub
	log     *logger.Logger
}

// NewLocal returns a provider with no session.
func NewLocal(log *logger.Logger) *Local {
	return &Local{log: log}
}

// CurrentSession returns the active session.
func (l *Local) CurrentSession(context.Context) (domain.Session, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current, nil
}

// Subscribe registers fn for session events.
func (l *Local) Subscribe(fn func(domain.Session)) func() {
	return l.hub.subscribe(fn)
}

// SignIn starts an authenticated session.
func (l *Local) SignIn(userID, email string) (domain.Session, error) {
	userID = strings.TrimSpace(userID)
	email = strings.TrimSpace(email)
	if userID == "" {
		return domain.Session{}, fmt.Errorf("identity: sign in: %w: empty user id", domain.ErrNoSession)
	}
	if strings.EqualFold(email, domain.GuestEmail) {
		return domain.Session{}, fmt.Errorf("identity: sign in: %s is reserved for guests", domain.GuestEmail)
	}
	s := domain.Session{UserID: userID, Email: email}
	l.set(s)
	l.log.Info("signed in as %s", userID)
	return s, nil
}

// ContinueAsGuest starts a local-only session carrying the guest email.
func (l *Local) ContinueAsGuest() domain.Session {
	s := domain.NewGuestSession()
	l.set(s)
	l.log.Info("continuing as guest")
	return s
}

// Refresh re-emits the current session, as a token refresh would.
func (l *Local) Refresh() {
	l.mu.RLock()
	s := l.current
	l.mu.RUnlock()
	l.hub.emit(s)
}

// SignOut clears the session and emits the absent session.
func (l *Local) SignOut(context.Context) error {
	l.set(domain.Session{})
	l.log.Info("signed out")
	return nil
}

func (l *Local) set(s domain.Session) {
	l.mu.Lock()
	l.current = s
	l.mu.Unlock()
	l.hub.emit(s)
}
