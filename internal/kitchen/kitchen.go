// Package kitchen owns the in-memory view model and keeps it in step with
// the remote store.
//
// Every mutation runs in two phases. Phase 1 updates local state under the
// controller lock and publishes it before the method returns; it never
// fails. Phase 2 queues the matching remote writes on a single writer
// goroutine, unless the session is a guest. Remote failures are logged and
// counted, never rolled back and never retried.
package kitchen

import (
	"context"
	"sync"

	"github.com/hammamikhairi/nutriveda/internal/catalog"
	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/logger"
	"github.com/hammamikhairi/nutriveda/internal/merge"
	"github.com/hammamikhairi/nutriveda/internal/metrics"
)

// ClearPrompt is shown to the Confirmer before the shopping list is
// cleared.
const ClearPrompt = "Are you sure you want to clear the shopping list?"

// State is the view model.
type State struct {
	Session  domain.Session
	Profile  domain.UserPreferences
	Recipes  []domain.Recipe
	Shopping []domain.ShoppingItem
	// Ready is set once the session's data is in place, even when the
	// initial load failed part way.
	Ready bool
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Profile = s.Profile.Clone()
	out.Recipes = make([]domain.Recipe, len(s.Recipes))
	for i, r := range s.Recipes {
		out.Recipes[i] = r.Clone()
	}
	out.Shopping = append([]domain.ShoppingItem{}, s.Shopping...)
	return out
}

// Recipe returns the recipe with the given id.
func (s State) Recipe(id string) (domain.Recipe, bool) {
	if i := merge.IndexOf(s.Recipes, id); i >= 0 {
		return s.Recipes[i], true
	}
	return domain.Recipe{}, false
}

// Option configures the controller.
type Option func(*Controller)

// WithCatalog replaces the seed catalog.
func WithCatalog(recipes []domain.Recipe) Option {
	return func(c *Controller) {
		c.catalog = merge.Guest(recipes)
	}
}

// WithConfirmer sets the prompt used to gate ClearShoppingList.
func WithConfirmer(confirm domain.Confirmer) Option {
	return func(c *Controller) { c.confirm = confirm }
}

// WithRecommender sets the engine used by Recommend.
func WithRecommender(engine domain.RecommendationEngine) Option {
	return func(c *Controller) { c.recommender = engine }
}

// WithProvider sets the identity provider signed out by Logout.
func WithProvider(p domain.SessionProvider) Option {
	return func(c *Controller) { c.provider = p }
}

// WithIDGenerator overrides shopping item id generation.
func WithIDGenerator(gen IDGenerator) Option {
	return func(c *Controller) { c.newID = gen }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(rec metrics.Recorder) Option {
	return func(c *Controller) { c.metrics = rec }
}

// WithContext sets the context remote writes run with. Defaults to
// context.Background.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) { c.baseCtx = ctx }
}

// Controller is the single owner of State.
type Controller struct {
	store       domain.RemoteStore
	log         *logger.Logger
	catalog     []domain.Recipe
	confirm     domain.Confirmer
	recommender domain.RecommendationEngine
	provider    domain.SessionProvider
	newID       IDGenerator
	metrics     metrics.Recorder
	baseCtx     context.Context

	mu         sync.Mutex
	state      State
	loadedUser string
	// gen changes on every session transition. Loads started under an
	// older generation discard their results.
	gen     uint64
	subs    []subscriber
	nextSub int

	w *writer
}

type subscriber struct {
	id int
	fn func(State)
}

// New creates a controller in the absent session. The catalog defaults
// to catalog.Default.
func New(store domain.RemoteStore, log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		log:     log,
		catalog: catalog.Default(),
		newID:   NewID,
		metrics: metrics.Nop{},
		baseCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetLocked(domain.Session{})
	c.w = newWriter(c.baseCtx, log.Named("writer"), c.metrics)
	return c
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Subscribe registers fn to receive every published state. Subscribers
// run on the mutating goroutine after the lock is released, so they may
// call back into the controller. The State passed in must not be
// modified.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Wait blocks until every queued remote write has finished.
func (c *Controller) Wait() { c.w.wait() }

// Close drains queued remote writes and stops the writer. Mutations
// after Close still apply locally but are no longer persisted.
func (c *Controller) Close() { c.w.close() }

// commit publishes the current state and releases c.mu. Callers must
// hold c.mu.
func (c *Controller) commit() {
	snap := c.state.Clone()
	subs := make([]func(State), len(c.subs))
	for i, s := range c.subs {
		subs[i] = s.fn
	}
	c.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

// enqueueLocked queues a remote write for the current session. Guest
// sessions never reach the store.
func (c *Controller) enqueueLocked(op string, run func(ctx context.Context, userID string) error) {
	s := c.state.Session
	if s.IsGuest() || c.store == nil {
		return
	}
	if !c.w.enqueue(job{op: op, userID: s.UserID, run: run}) {
		c.log.Warn("writer closed, dropping %s for %s", op, s.UserID)
	}
}

// resetLocked puts the state back to defaults for session s.
func (c *Controller) resetLocked(s domain.Session) {
	c.state = State{
		Session:  s,
		Profile:  domain.DefaultPreferences(),
		Recipes:  merge.Guest(c.catalog),
		Shopping: []domain.ShoppingItem{},
	}
	c.loadedUser = ""
}
