package conversation

import (
	"fmt"
	"sync"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/kitchen"
	"github.com/hammamikhairi/nutriveda/internal/logger"
)

// PrintFunc prints one line of plain text. Styling is up to the caller,
// e.g. display.Printer.PrintHint.
type PrintFunc func(text string)

// SessionNotifier tells the user about session transitions and when the
// initial load finishes. Hand its Observe method to Controller.Subscribe.
type SessionNotifier struct {
	log     *logger.Logger
	printFn PrintFunc

	mu      sync.Mutex
	session domain.Session
	ready   bool
}

// NewSessionNotifier creates a notifier. If printFn is nil, lines go to
// stdout unstyled.
func NewSessionNotifier(log *logger.Logger, printFn PrintFunc) *SessionNotifier {
	if printFn == nil {
		printFn = func(text string) { fmt.Println(text) }
	}
	return &SessionNotifier{log: log, printFn: printFn}
}

// Observe compares s with the last state seen and prints what changed.
func (n *SessionNotifier) Observe(s kitchen.State) {
	n.mu.Lock()
	prev, wasReady := n.session, n.ready
	n.session, n.ready = s.Session, s.Ready
	n.mu.Unlock()

	if s.Session != prev {
		n.log.Debug("session changed: %s -> %s", describe(prev), describe(s.Session))
		switch {
		case s.Session.Absent():
			n.printFn("Signed out.")
		case s.Session.IsGuest():
			n.printFn("Browsing as guest. Changes stay on this device.")
		default:
			n.printFn(fmt.Sprintf("Signed in as %s.", s.Session.Email))
		}
	}

	if s.Ready && !wasReady && !s.Session.IsGuest() {
		n.printFn(fmt.Sprintf("Loaded %d recipes, %d favorites and %d shopping items.",
			len(s.Recipes), countFavorites(s.Recipes), len(s.Shopping)))
	}
}

func describe(s domain.Session) string {
	if s.Absent() {
		return "absent"
	}
	if s.IsGuest() {
		return "guest"
	}
	return s.UserID
}

func countFavorites(recipes []domain.Recipe) int {
	n := 0
	for _, r := range recipes {
		if r.IsFavorite {
			n++
		}
	}
	return n
}
