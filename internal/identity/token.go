package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/logger"
)

// Claims is the access-token payload issued by the auth service. Subject
// carries the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Token derives sessions from HS256-signed access tokens.
type Token struct {
	secret []byte
	now    func() time.Time
	log    *logger.Logger

	mu  sync.RWMutex
	raw string
	hub hub
}

// TokenOption configures a Token provider.
type TokenOption func(*Token)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(t *Token) { t.now = now }
}

// NewToken returns a provider verifying tokens with secret.
func NewToken(secret []byte, log *logger.Logger, opts ...TokenOption) *Token {
	t := &Token{secret: secret, now: time.Now, log: log}
	for _, o := range opts {
		o(t)
	}
	return t
}

// CurrentSession re-verifies the stored token. An expired or invalid
// token yields the absent session.
func (t *Token) CurrentSession(context.Context) (domain.Session, error) {
	t.mu.RLock()
	raw := t.raw
	t.mu.RUnlock()
	if raw == "" {
		return domain.Session{}, nil
	}
	s, err := t.parse(raw)
	if err != nil {
		t.log.Warn("identity: stored token rejected: %v", err)
		return domain.Session{}, nil
	}
	return s, nil
}

// Subscribe registers fn for session events.
func (t *Token) Subscribe(fn func(domain.Session)) func() {
	return t.hub.subscribe(fn)
}

// SignInWithToken verifies raw and, on success, makes it the active
// session. On failure the provider falls back to the absent session and
// the error is returned to the caller.
func (t *Token) SignInWithToken(raw string) (domain.Session, error) {
	s, err := t.parse(raw)
	if err != nil {
		t.log.Warn("identity: sign in rejected: %v", err)
		t.set("", domain.Session{})
		return domain.Session{}, err
	}
	t.set(raw, s)
	t.log.Info("signed in as %s", s.UserID)
	return s, nil
}

// Refresh swaps in a newly issued token and re-emits the session.
func (t *Token) Refresh(raw string) (domain.Session, error) {
	return t.SignInWithToken(raw)
}

// SignOut drops the token and emits the absent session.
func (t *Token) SignOut(context.Context) error {
	t.set("", domain.Session{})
	return nil
}

// Issue signs a token for userID. The terminal front-end uses it to mint
// local tokens when a secret is configured.
func (t *Token) Issue(userID, email string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("identity: sign token: %w", err)
	}
	return signed, nil
}

func (t *Token) parse(raw string) (domain.Session, error) {
	if raw == "" {
		return domain.Session{}, fmt.Errorf("identity: %w: empty token", domain.ErrNoSession)
	}
	claims := &Claims{}
	// Expiry is checked below against the injected clock.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("identity: parse token: %w", err)
	}
	if !token.Valid {
		return domain.Session{}, errors.New("identity: invalid token")
	}
	now := t.now()
	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return domain.Session{}, errors.New("identity: token expired")
	}
	if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
		return domain.Session{}, errors.New("identity: token not yet valid")
	}
	if claims.Subject == "" {
		return domain.Session{}, fmt.Errorf("identity: %w: token has no subject", domain.ErrNoSession)
	}
	return domain.Session{UserID: claims.Subject, Email: claims.Email}, nil
}

func (t *Token) set(raw string, s domain.Session) {
	t.mu.Lock()
	t.raw = raw
	t.mu.Unlock()
	t.hub.emit(s)
}
