package kitchen

import (
	"context"
	"errors"
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/nutriveda/internal/catalog"
	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/identity"
	"github.com/hammamikhairi/nutriveda/internal/logger"
	"github.com/hammamikhairi/nutriveda/internal/merge"
)

var v4 = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

var asha = domain.Session{UserID: "user-1", Email: "asha@example.com"}

func quiet() *logger.Logger { return logger.New(logger.LevelOff, nil) }

func yes() domain.Confirmer { return domain.ConfirmFunc(func(string) bool { return true }) }

func setup(t *testing.T, opts ...Option) (*Controller, *recordingStore) {
	t.Helper()
	store := newRecordingStore()
	c := New(store, quiet(), opts...)
	t.Cleanup(c.Close)
	return c, store
}

func threeIngredients() domain.Recipe {
	return domain.Recipe{
		ID:   "x",
		Name: "Jeera Rice",
		Ingredients: []domain.Ingredient{
			{Name: "Rice", Quantity: "1 cup"},
			{Name: "Cumin", Quantity: "1 tsp"},
			{Name: "Ghee"},
		},
	}
}

func TestNewStartsAbsent(t *testing.T) {
	c, _ := setup(t)
	s := c.Snapshot()
	assert.True(t, s.Session.Absent())
	assert.False(t, s.Ready)
	assert.Equal(t, domain.DefaultPreferences(), s.Profile)
	assert.Equal(t, merge.Guest(catalog.Default()), s.Recipes)
	assert.Empty(t, s.Shopping)
}

func TestGuestNeverReachesStore(t *testing.T) {
	sessions := []struct {
		name    string
		session domain.Session
	}{
		{"absent", domain.Session{}},
		{"guest", domain.NewGuestSession()},
		{"guest email with id", domain.Session{UserID: "user-9", Email: domain.GuestEmail}},
	}

	for _, tt := range sessions {
		t.Run(tt.name, func(t *testing.T) {
			c, store := setup(t, WithConfirmer(yes()))
			ctx := context.Background()
			c.SetSession(ctx, tt.session)

			c.ToggleFavorite("1")
			items := c.AddToShoppingList(threeIngredients())
			c.ToggleShoppingItem(items[0].ID)
			c.RemoveShoppingItem(items[1].ID)
			c.UpdateProfile(domain.UserPreferences{Name: "Local"})
			require.True(t, c.ClearShoppingList())
			c.Wait()

			assert.Empty(t, store.snapshot(), "guest sessions must not call the store")
			s := c.Snapshot()
			assert.True(t, s.Ready)
			assert.Equal(t, "Local", s.Profile.Name)
		})
	}
}

func TestGuestAddThreeIngredients(t *testing.T) {
	c, store := setup(t)
	c.SetSession(context.Background(), domain.NewGuestSession())

	c.AddToShoppingList(threeIngredients())
	c.Wait()

	list := c.Snapshot().Shopping
	require.Len(t, list, 3)
	for _, item := range list {
		assert.False(t, item.Checked)
		assert.Equal(t, "Jeera Rice", item.RecipeName)
	}
	assert.Empty(t, store.snapshot())
}

func TestToggleFavoriteIsOptimistic(t *testing.T) {
	c, store := setup(t)
	c.SetSession(context.Background(), asha)
	release := store.hold()

	c.ToggleFavorite("1")

	r, ok := c.Snapshot().Recipe("1")
	require.True(t, ok)
	assert.True(t, r.IsFavorite, "local state changes before the remote call resolves")
	assert.Empty(t, store.writes())

	release()
	c.Wait()
	assert.Equal(t, []call{{op: OpAddFavorite, userID: "user-1", arg: "1"}}, store.writes())

	c.ToggleFavorite("1")
	c.Wait()
	assert.Equal(t, call{op: OpRemoveFavorite, userID: "user-1", arg: "1"}, store.writes()[1])
}

func TestRemoteFailureDoesNotRollBack(t *testing.T) {
	rec := newCountingRecorder()
	c, store := setup(t, WithMetrics(rec))
	c.SetSession(context.Background(), asha)
	store.failOn(OpAddFavorite, errors.New("network down"))

	c.ToggleFavorite("1")
	c.Wait()

	r, _ := c.Snapshot().Recipe("1")
	assert.True(t, r.IsFavorite)
	assert.Equal(t, 1, rec.failed(OpAddFavorite))
	require.Len(t, store.writes(), 1, "failed writes are not retried")
}

func TestAddToShoppingListWritesInIngredientOrder(t *testing.T) {
	c, store := setup(t)
	c.SetSession(context.Background(), asha)

	items := c.AddToShoppingList(threeIngredients())
	c.Wait()

	require.Len(t, items, 3)
	assert.Equal(t, []call{
		{op: OpAddShoppingItem, userID: "user-1", arg: "Rice"},
		{op: OpAddShoppingItem, userID: "user-1", arg: "Cumin"},
		{op: OpAddShoppingItem, userID: "user-1", arg: "Ghee"},
	}, store.writes())

	remote, err := store.inner.GetShoppingList(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, items, remote)
}

func TestShoppingIDsAreDistinctV4(t *testing.T) {
	c, _ := setup(t)
	recipes := catalog.Default()

	total := 0
	seen := map[string]bool{}
	for round := 0; round < 5; round++ {
		for _, r := range recipes {
			total += len(r.Ingredients)
			for _, item := range c.AddToShoppingList(r) {
				assert.Regexp(t, v4, item.ID)
				assert.False(t, seen[item.ID], "id %s reused", item.ID)
				seen[item.ID] = true
			}
		}
	}
	assert.Len(t, seen, total)
	assert.Len(t, c.Snapshot().Shopping, total)
}

func TestFallbackIDShape(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := fallbackID(r.Uint64)
		require.Regexp(t, v4, id)
		seen[id] = true
	}
	assert.Len(t, seen, 1000)
}

func TestToggleAndRemoveShoppingItem(t *testing.T) {
	c, store := setup(t)
	c.SetSession(context.Background(), asha)
	items := c.AddToShoppingList(threeIngredients())

	c.ToggleShoppingItem(items[2].ID)
	c.RemoveShoppingItem(items[0].ID)
	c.Wait()

	list := c.Snapshot().Shopping
	require.Len(t, list, 2)
	assert.Equal(t, items[1].ID, list[0].ID)
	assert.True(t, list[1].Checked)

	writes := store.writes()
	require.Len(t, writes, 5)
	assert.Equal(t, call{op: OpUpdateShoppingItem, userID: "user-1", arg: items[2].ID + "=true"}, writes[3])
	assert.Equal(t, call{op: OpDeleteShoppingItem, userID: "user-1", arg: items[0].ID}, writes[4])
}

func TestUnknownIDsPublishNothing(t *testing.T) {
	c, store := setup(t)
	c.SetSession(context.Background(), asha)

	published := 0
	c.Subscribe(func(State) { published++ })

	c.ToggleFavorite("nope")
	c.ToggleShoppingItem("nope")
	c.RemoveShoppingItem("nope")
	assert.Nil(t, c.AddToShoppingList(domain.Recipe{Name: "Water"}))
	c.Wait()

	assert.Zero(t, published)
	assert.Empty(t, store.writes())
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	c, _ := setup(t)
	var got []State
	unsubscribe := c.Subscribe(func(s State) { got = append(got, s) })

	c.ToggleFavorite("2")
	unsubscribe()
	c.ToggleFavorite("2")

	require.Len(t, got, 1)
	r, _ := got[0].Recipe("2")
	assert.True(t, r.IsFavorite)
}

func TestSnapshotIsACopy(t *testing.T) {
	c, _ := setup(t)
	s := c.Snapshot()
	s.Recipes[0].IsFavorite = true
	s.Recipes[0].HealthTags[0] = "changed"
	s.Profile.Allergies[0] = "changed"

	fresh := c.Snapshot()
	assert.False(t, fresh.Recipes[0].IsFavorite)
	assert.NotEqual(t, "changed", fresh.Recipes[0].HealthTags[0])
	assert.Equal(t, "Peanuts", fresh.Profile.Allergies[0])
}

func TestClearShoppingListNeedsConfirmation(t *testing.T) {
	t.Run("no confirmer", func(t *testing.T) {
		c, store := setup(t)
		c.SetSession(context.Background(), asha)
		c.AddToShoppingList(threeIngredients())

		assert.False(t, c.ClearShoppingList())
		c.Wait()
		assert.Len(t, c.Snapshot().Shopping, 3)
		assert.Len(t, store.writes(), 3)
	})

	t.Run("declined", func(t *testing.T) {
		var prompts []string
		c, store := setup(t, WithConfirmer(domain.ConfirmFunc(func(p string) bool {
			prompts = append(prompts, p)
			return false
		})))
		c.SetSession(context.Background(), asha)
		c.AddToShoppingList(threeIngredients())

		assert.False(t, c.ClearShoppingList())
		c.Wait()
		assert.Equal(t, []string{ClearPrompt}, prompts)
		assert.Len(t, c.Snapshot().Shopping, 3)
		assert.Len(t, store.writes(), 3)
	})

	t.Run("confirmed", func(t *testing.T) {
		c, store := setup(t, WithConfirmer(yes()))
		c.SetSession(context.Background(), asha)
		c.AddToShoppingList(threeIngredients())

		assert.True(t, c.ClearShoppingList())
		c.Wait()
		assert.Empty(t, c.Snapshot().Shopping)
		writes := store.writes()
		assert.Equal(t, call{op: OpClearShoppingList, userID: "user-1"}, writes[len(writes)-1])
	})
}

func TestInitialLoadMergesRemoteRecords(t *testing.T) {
	c, store := setup(t)
	ctx := context.Background()
	ai := domain.Recipe{ID: "ai-7", Name: "Moong Chilla"}
	require.NoError(t, store.inner.AddFavorite(ctx, "user-1", catalog.Default()[1]))
	require.NoError(t, store.inner.AddFavorite(ctx, "user-1", ai))
	item := domain.ShoppingItem{ID: NewID(), Name: "Moong", Quantity: "1 cup"}
	require.NoError(t, store.inner.AddShoppingItem(ctx, "user-1", item))
	require.NoError(t, store.inner.UpdateProfile(ctx, "user-1", domain.UserPreferences{Name: "Asha", DietaryPreference: domain.DietVegan}))

	c.SetSession(ctx, asha)

	s := c.Snapshot()
	assert.True(t, s.Ready)
	require.Len(t, s.Recipes, 5)
	assert.Equal(t, []bool{false, true, false, false, true}, favorites(s.Recipes))
	assert.Equal(t, "ai-7", s.Recipes[4].ID)
	assert.Equal(t, []domain.ShoppingItem{item}, s.Shopping)

	assert.Equal(t, "Asha", s.Profile.Name)
	assert.Equal(t, domain.DietVegan, s.Profile.DietaryPreference)
	assert.Equal(t, []string{"Peanuts"}, s.Profile.Allergies, "unset remote fields keep the defaults")
	assert.Empty(t, store.writes(), "loading never writes")
}

func TestInitialLoadFailureKeepsPartialState(t *testing.T) {
	rec := newCountingRecorder()
	c, store := setup(t, WithMetrics(rec))
	ctx := context.Background()
	require.NoError(t, store.inner.UpdateProfile(ctx, "user-1", domain.UserPreferences{Name: "Asha"}))
	require.NoError(t, store.inner.AddFavorite(ctx, "user-1", catalog.Default()[0]))
	store.failOn("get_saved_recipes", errors.New("timeout"))

	c.SetSession(ctx, asha)

	s := c.Snapshot()
	assert.True(t, s.Ready, "readiness is set even when the load fails")
	assert.Equal(t, "Asha", s.Profile.Name, "profile step already applied")
	assert.Equal(t, merge.Guest(catalog.Default()), s.Recipes)
	assert.Empty(t, s.Shopping)

	loads := rec.loadResults()
	require.Len(t, loads, 1)
	assert.Error(t, loads[0])

	var ops []string
	for _, call := range store.snapshot() {
		ops = append(ops, call.op)
	}
	assert.Equal(t, []string{"get_profile", "get_saved_recipes"}, ops, "the sequence stops at the first error")
}

func TestRefreshForLoadedUserKeepsState(t *testing.T) {
	c, store := setup(t)
	ctx := context.Background()
	c.SetSession(ctx, asha)
	c.ToggleFavorite("3")
	c.Wait()

	c.SetSession(ctx, domain.Session{UserID: "user-1", Email: "asha.k@example.com"})

	s := c.Snapshot()
	assert.Equal(t, "asha.k@example.com", s.Session.Email)
	r, _ := s.Recipe("3")
	assert.True(t, r.IsFavorite)
	assert.Len(t, store.snapshot(), 4, "one load and one write")
}

func TestGuestRefreshKeepsLocalState(t *testing.T) {
	provider := identity.NewLocal(quiet())
	c, store := setup(t)
	defer c.Bind(context.Background(), provider)()

	provider.ContinueAsGuest()
	c.AddToShoppingList(threeIngredients())
	c.ToggleFavorite("1")

	provider.Refresh()
	provider.ContinueAsGuest()

	s := c.Snapshot()
	assert.True(t, s.Session.IsGuest())
	assert.Len(t, s.Shopping, 3)
	r, _ := s.Recipe("1")
	assert.True(t, r.IsFavorite)
	assert.Empty(t, store.snapshot())
}

func TestLogoutFromAbsentStillResets(t *testing.T) {
	c, _ := setup(t)
	ctx := context.Background()
	c.SetSession(ctx, domain.Session{})
	c.AddToShoppingList(threeIngredients())

	c.SetSession(ctx, domain.Session{})
	assert.Len(t, c.Snapshot().Shopping, 3, "a repeated absent event keeps state")

	c.Logout(ctx)
	assert.Empty(t, c.Snapshot().Shopping)
}

func TestSwitchingUsersResets(t *testing.T) {
	c, _ := setup(t)
	ctx := context.Background()
	c.SetSession(ctx, asha)
	c.ToggleFavorite("1")
	c.AddToShoppingList(threeIngredients())
	c.UpdateProfile(domain.UserPreferences{Name: "Asha"})
	c.Wait()

	c.SetSession(ctx, domain.Session{UserID: "user-2", Email: "ravi@example.com"})

	s := c.Snapshot()
	assert.Equal(t, "user-2", s.Session.UserID)
	assert.Equal(t, merge.Guest(catalog.Default()), s.Recipes)
	assert.Empty(t, s.Shopping)
	assert.Equal(t, domain.DefaultPreferences(), s.Profile)
}

func TestQueuedWriteKeepsOldUser(t *testing.T) {
	c, store := setup(t)
	ctx := context.Background()
	c.SetSession(ctx, asha)
	release := store.hold()

	c.ToggleFavorite("1")
	c.SetSession(ctx, domain.Session{UserID: "user-2", Email: "ravi@example.com"})
	release()
	c.Wait()

	assert.Equal(t, []call{{op: OpAddFavorite, userID: "user-1", arg: "1"}}, store.writes())
	saved, err := store.inner.GetSavedRecipes(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestProfileRoundTripsOnReload(t *testing.T) {
	store := newRecordingStore()
	ctx := context.Background()

	first := New(store, quiet())
	first.SetSession(ctx, asha)
	assert.Equal(t, domain.DefaultPreferences(), first.Snapshot().Profile, "absent remote profile keeps defaults")

	updated := domain.UserPreferences{
		Name:              "Asha",
		Allergies:         []string{"Gluten"},
		DietaryPreference: domain.DietJain,
		Deficiencies:      []string{"B12"},
	}
	first.UpdateProfile(updated)
	first.Close()

	second := New(store, quiet())
	defer second.Close()
	second.SetSession(ctx, asha)
	assert.Equal(t, updated, second.Snapshot().Profile)
}

func TestLogoutResetsToCatalog(t *testing.T) {
	provider := identity.NewLocal(quiet())
	c, _ := setup(t, WithConfirmer(yes()))
	ctx := context.Background()
	unbind := c.Bind(ctx, provider)
	defer unbind()

	_, err := provider.SignIn("user-1", "asha@example.com")
	require.NoError(t, err)
	c.ToggleFavorite("1")
	c.ToggleFavorite("4")
	c.AddToShoppingList(threeIngredients())
	c.AdoptRecipe(domain.Recipe{ID: "ai-1", Name: "Ragi Dosa"})
	c.UpdateProfile(domain.UserPreferences{Name: "Asha"})

	c.Logout(ctx)

	s := c.Snapshot()
	assert.True(t, s.Session.Absent())
	assert.True(t, s.Ready)
	assert.Equal(t, catalog.Default(), s.Recipes, "exactly the static catalog, no favorites")
	assert.Empty(t, s.Shopping)
	assert.Equal(t, domain.DefaultPreferences(), s.Profile)

	cur, err := provider.CurrentSession(ctx)
	require.NoError(t, err)
	assert.True(t, cur.Absent())
}

func TestBindFollowsProvider(t *testing.T) {
	provider := identity.NewLocal(quiet())
	c, store := setup(t)
	ctx := context.Background()
	unbind := c.Bind(ctx, provider)

	assert.True(t, c.Snapshot().Ready, "absent session is ready immediately")

	provider.ContinueAsGuest()
	assert.Equal(t, domain.ModeGuest, c.Snapshot().Session.Mode())

	_, err := provider.SignIn("user-1", "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", c.Snapshot().Session.UserID)
	assert.NotEmpty(t, store.snapshot())

	unbind()
	provider.ContinueAsGuest()
	assert.Equal(t, "user-1", c.Snapshot().Session.UserID, "events after unbind are ignored")
}

type brokenProvider struct{ identity.None }

func (brokenProvider) CurrentSession(context.Context) (domain.Session, error) {
	return domain.Session{UserID: "x"}, errors.New("auth service down")
}

func TestBindFailsOpen(t *testing.T) {
	c, store := setup(t)
	c.Bind(context.Background(), brokenProvider{})

	s := c.Snapshot()
	assert.True(t, s.Session.Absent())
	assert.True(t, s.Ready)
	assert.Empty(t, store.snapshot())
}

func TestRecommendAdoptsRecipe(t *testing.T) {
	engine := &fakeEngine{recipe: &domain.Recipe{Name: "Ragi Porridge", IsFavorite: true}}
	c, store := setup(t, WithRecommender(engine))
	c.SetSession(context.Background(), asha)
	c.UpdateProfile(domain.UserPreferences{Name: "Asha", DietaryPreference: domain.DietVegan})

	r, err := c.Recommend(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, `^ai-`, r.ID)
	assert.False(t, r.IsFavorite)

	s := c.Snapshot()
	require.Len(t, s.Recipes, 5)
	assert.Equal(t, r.ID, s.Recipes[4].ID)
	require.Len(t, engine.got, 1)
	assert.Equal(t, domain.DietVegan, engine.got[0].DietaryPreference)

	c.Wait()
	for _, w := range store.writes() {
		assert.NotEqual(t, OpAddFavorite, w.op, "generated recipes are saved only when favorited")
	}
}

func TestRecommendKeepsIDsUnique(t *testing.T) {
	engine := &fakeEngine{recipe: &domain.Recipe{ID: "1", Name: "Poha"}}
	c, _ := setup(t, WithRecommender(engine))

	a, err := c.Recommend(context.Background())
	require.NoError(t, err)
	b, err := c.Recommend(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, "1", a.ID, "model ids never shadow catalog ids")
	assert.NotEqual(t, a.ID, b.ID)
	s := c.Snapshot()
	assert.Len(t, s.Recipes, 6)
	first, ok := s.Recipe("1")
	require.True(t, ok)
	assert.NotEqual(t, "Poha", first.Name)
}

func TestRecommendErrors(t *testing.T) {
	c, _ := setup(t)
	_, err := c.Recommend(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	boom := errors.New("quota exceeded")
	c2, _ := setup(t, WithRecommender(&fakeEngine{err: boom}))
	_, err = c2.Recommend(context.Background())
	assert.ErrorIs(t, err, boom)

	c3, _ := setup(t, WithRecommender(&fakeEngine{}))
	_, err = c3.Recommend(context.Background())
	assert.Error(t, err)
	assert.Len(t, c3.Snapshot().Recipes, 4)
}

func TestCustomCatalogAndIDs(t *testing.T) {
	n := 0
	gen := func() string {
		n++
		return fallbackID(func() uint64 { return uint64(n) })
	}
	custom := []domain.Recipe{{ID: "10", Name: "Upma", IsFavorite: true, Ingredients: []domain.Ingredient{{Name: "Rava"}}}}
	c, _ := setup(t, WithCatalog(custom), WithIDGenerator(gen))

	s := c.Snapshot()
	require.Len(t, s.Recipes, 1)
	assert.False(t, s.Recipes[0].IsFavorite, "catalog favorites are cleared")

	items := c.AddToShoppingList(s.Recipes[0])
	require.Len(t, items, 1)
	assert.Regexp(t, v4, items[0].ID)
	assert.Equal(t, 1, n)
}

func TestWritesAfterCloseAreDropped(t *testing.T) {
	store := newRecordingStore()
	c := New(store, quiet())
	c.SetSession(context.Background(), asha)
	c.Close()

	c.ToggleFavorite("1")
	c.Wait()

	r, _ := c.Snapshot().Recipe("1")
	assert.True(t, r.IsFavorite)
	assert.Empty(t, store.writes())
}

func favorites(recipes []domain.Recipe) []bool {
	out := make([]bool, len(recipes))
	for i, r := range recipes {
		out[i] = r.IsFavorite
	}
	return out
}
