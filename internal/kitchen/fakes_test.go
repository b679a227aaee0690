package kitchen

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/logger"
	"github.com/hammamikhairi/nutriveda/internal/store/memory"
)

var _ domain.RemoteStore = (*recordingStore)(nil)

type call struct {
	op     string
	userID string
	arg    string
}

// recordingStore wraps a memory store, recording every call. Writes can be
// held on a gate or made to fail per operation.
type recordingStore struct {
	inner *memory.Store

	mu    sync.Mutex
	calls []call
	fail  map[string]error
	gate  chan struct{}
}

func newRecordingStore() *recordingStore {
	return &recordingStore{
		inner: memory.NewStore(logger.New(logger.LevelOff, nil)),
		fail:  make(map[string]error),
	}
}

// hold makes writes block until the returned func is called.
func (s *recordingStore) hold() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

func (s *recordingStore) failOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

func (s *recordingStore) snapshot() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]call(nil), s.calls...)
}

func (s *recordingStore) writes() []call {
	var out []call
	for _, c := range s.snapshot() {
		if !strings.HasPrefix(c.op, "get_") {
			out = append(out, c)
		}
	}
	return out
}

func (s *recordingStore) read(op, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{op: op, userID: userID})
	return s.fail[op]
}

func (s *recordingStore) write(op, userID, arg string, do func() error) error {
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	err := s.fail[op]
	s.calls = append(s.calls, call{op: op, userID: userID, arg: arg})
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return do()
}

func (s *recordingStore) GetProfile(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	if err := s.read("get_profile", userID); err != nil {
		return nil, err
	}
	return s.inner.GetProfile(ctx, userID)
}

func (s *recordingStore) GetSavedRecipes(ctx context.Context, userID string) ([]domain.Recipe, error) {
	if err := s.read("get_saved_recipes", userID); err != nil {
		return nil, err
	}
	return s.inner.GetSavedRecipes(ctx, userID)
}

func (s *recordingStore) GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingItem, error) {
	if err := s.read("get_shopping_list", userID); err != nil {
		return nil, err
	}
	return s.inner.GetShoppingList(ctx, userID)
}

func (s *recordingStore) UpdateProfile(ctx context.Context, userID string, prefs domain.UserPreferences) error {
	return s.write(OpUpdateProfile, userID, prefs.Name, func() error {
		return s.inner.UpdateProfile(ctx, userID, prefs)
	})
}

func (s *recordingStore) AddFavorite(ctx context.Context, userID string, recipe domain.Recipe) error {
	return s.write(OpAddFavorite, userID, recipe.ID, func() error {
		return s.inner.AddFavorite(ctx, userID, recipe)
	})
}

func (s *recordingStore) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	return s.write(OpRemoveFavorite, userID, recipeID, func() error {
		return s.inner.RemoveFavorite(ctx, userID, recipeID)
	})
}

func (s *recordingStore) AddShoppingItem(ctx context.Context, userID string, item domain.ShoppingItem) error {
	return s.write(OpAddShoppingItem, userID, item.Name, func() error {
		return s.inner.AddShoppingItem(ctx, userID, item)
	})
}

func (s *recordingStore) UpdateShoppingItem(ctx context.Context, userID, id string, patch domain.ShoppingPatch) error {
	arg := id
	if patch.Checked != nil {
		arg += "=" + strconv.FormatBool(*patch.Checked)
	}
	return s.write(OpUpdateShoppingItem, userID, arg, func() error {
		return s.inner.UpdateShoppingItem(ctx, userID, id, patch)
	})
}

func (s *recordingStore) DeleteShoppingItem(ctx context.Context, userID, id string) error {
	return s.write(OpDeleteShoppingItem, userID, id, func() error {
		return s.inner.DeleteShoppingItem(ctx, userID, id)
	})
}

func (s *recordingStore) ClearShoppingList(ctx context.Context, userID string) error {
	return s.write(OpClearShoppingList, userID, "", func() error {
		return s.inner.ClearShoppingList(ctx, userID)
	})
}

// countingRecorder is a metrics.Recorder for assertions.
type countingRecorder struct {
	mu       sync.Mutex
	writes   map[string]int
	failures map[string]int
	loads    []error
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{writes: map[string]int{}, failures: map[string]int{}}
}

func (r *countingRecorder) RemoteWrite(op string, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes[op]++
	if err != nil {
		r.failures[op]++
	}
}

func (r *countingRecorder) InitialLoad(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads = append(r.loads, err)
}

func (r *countingRecorder) Pending(int) {}

func (r *countingRecorder) failed(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures[op]
}

func (r *countingRecorder) loadResults() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.loads...)
}

// fakeEngine returns a fixed recipe.
type fakeEngine struct {
	recipe *domain.Recipe
	err    error
	got    []domain.UserPreferences
}

func (e *fakeEngine) Recommend(_ context.Context, prefs domain.UserPreferences) (*domain.Recipe, error) {
	e.got = append(e.got, prefs)
	if e.err != nil {
		return nil, e.err
	}
	if e.recipe == nil {
		return nil, nil
	}
	r := e.recipe.Clone()
	return &r, nil
}
