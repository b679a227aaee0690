// Package identity provides domain.SessionProvider implementations.
package identity

import (
	"context"
	"sync"

	"github.com/hammamikhairi/nutriveda/internal/domain"
)

// Compile-time interface checks.
var (
	_ domain.SessionProvider = None{}
	_ domain.SessionProvider = (*Local)(nil)
	_ domain.SessionProvider = (*Token)(nil)
)

// None is used when no identity service is configured. It always reports
// the absent session and never emits events.
type None struct{}

func (None) CurrentSession(context.Context) (domain.Session, error) { return domain.Session{}, nil }

func (None) Subscribe(func(domain.Session)) func() { return func() {} }

func (None) SignOut(context.Context) error { return nil }

// hub fans session events out to subscribers in registration order.
type hub struct {
	mu   sync.Mutex
	next int
	subs []subscriber
}

type subscriber struct {
	id int
	fn func(domain.Session)
}

func (h *hub) subscribe(fn func(domain.Session)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	h.subs = append(h.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, s := range h.subs {
				if s.id == id {
					h.subs = append(h.subs[:i], h.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// emit calls every subscriber synchronously. The lock is not held during
// callbacks so a subscriber may unsubscribe itself.
func (h *hub) emit(s domain.Session) {
	h.mu.Lock()
	subs := append([]subscriber(nil), h.subs...)
	h.mu.Unlock()
	for _, sub := range subs {
		sub.fn(s)
	}
}
