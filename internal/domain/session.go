package domain

// GuestEmail is the reserved address used for guest sessions. The identity
// provider never assigns it to a real account.
const GuestEmail = "guest@nutriveda.app"

// SessionMode classifies a session.
type SessionMode int

const (
	ModeGuest SessionMode = iota
	ModeAuthenticated
)

// String returns a human-readable mode.
func (m SessionMode) String() string {
	switch m {
	case ModeGuest:
		return "guest"
	case ModeAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is the identity the app currently runs under. It is replaced
// wholesale on every auth event. The zero value is the absent session.
type Session struct {
	UserID string
	Email  string
}

// NewGuestSession returns the session created by "continue as guest".
func NewGuestSession() Session {
	return Session{Email: GuestEmail}
}

// Absent reports whether no session exists at all.
func (s Session) Absent() bool {
	return s.UserID == "" && s.Email == ""
}

// IsGuest reports whether the session must stay local-only.
func (s Session) IsGuest() bool {
	return s.UserID == "" || s.Email == GuestEmail
}

// Mode derives the session mode from IsGuest.
func (s Session) Mode() SessionMode {
	if s.IsGuest() {
		return ModeGuest
	}
	return ModeAuthenticated
}
