// Package storetest is a behavioural test suite every domain.RemoteStore
// implementation must pass.
package storetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/nutriveda/internal/catalog"
	"github.com/hammamikhairi/nutriveda/internal/domain"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) domain.RemoteStore

// Run executes the contract suite.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("profile absent is not an error", func(t *testing.T) {
		s := newStore(t)
		p, err := s.GetProfile(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("profile round trip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		prefs := domain.UserPreferences{
			Name:              "Asha",
			Allergies:         []string{"Gluten"},
			DietaryPreference: domain.DietVegan,
			Deficiencies:      []string{},
		}
		require.NoError(t, s.UpdateProfile(ctx, "user-1", prefs))

		got, err := s.GetProfile(ctx, "user-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Asha", got.Name)
		assert.Equal(t, []string{"Gluten"}, got.Allergies)
		assert.Equal(t, domain.DietVegan, got.DietaryPreference)
		assert.Empty(t, got.Deficiencies)

		prefs.Name = "Asha K"
		require.NoError(t, s.UpdateProfile(ctx, "user-1", prefs))
		got, err = s.GetProfile(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "Asha K", got.Name)

		other, err := s.GetProfile(ctx, "user-2")
		require.NoError(t, err)
		assert.Nil(t, other, "profiles are per user")
	})

	t.Run("favorites keep save order and are idempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		cat := catalog.Default()
		ai := domain.Recipe{ID: "ai-7", Name: "Moong Chilla", HealthTags: []string{"High Protein"}}

		require.NoError(t, s.AddFavorite(ctx, "user-1", cat[2]))
		require.NoError(t, s.AddFavorite(ctx, "user-1", ai))
		require.NoError(t, s.AddFavorite(ctx, "user-1", cat[0]))
		require.NoError(t, s.AddFavorite(ctx, "user-1", cat[2]))

		saved, err := s.GetSavedRecipes(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, saved, 3)
		assert.Equal(t, []string{"3", "ai-7", "1"}, []string{saved[0].ID, saved[1].ID, saved[2].ID})
		for _, r := range saved {
			assert.True(t, r.IsFavorite, "saved recipe %s", r.ID)
		}
		assert.Equal(t, ai.HealthTags, saved[1].HealthTags)
		assert.Equal(t, cat[2].Ingredients, saved[0].Ingredients)

		require.NoError(t, s.RemoveFavorite(ctx, "user-1", "ai-7"))
		require.NoError(t, s.RemoveFavorite(ctx, "user-1", "never-saved"))
		saved, err = s.GetSavedRecipes(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, saved, 2)

		none, err := s.GetSavedRecipes(ctx, "user-2")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("shopping items", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		a := domain.ShoppingItem{ID: uuid.NewString(), Name: "Spinach", Quantity: "500g", RecipeName: "Palak Paneer"}
		b := domain.ShoppingItem{ID: uuid.NewString(), Name: "Salt"}
		c := domain.ShoppingItem{ID: uuid.NewString(), Name: "Paneer", Quantity: "200g", RecipeName: "Palak Paneer"}

		for _, item := range []domain.ShoppingItem{a, b, c} {
			require.NoError(t, s.AddShoppingItem(ctx, "user-1", item))
		}

		list, err := s.GetShoppingList(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, []domain.ShoppingItem{a, b, c}, list)

		checked := true
		require.NoError(t, s.UpdateShoppingItem(ctx, "user-1", b.ID, domain.ShoppingPatch{Checked: &checked}))
		require.NoError(t, s.DeleteShoppingItem(ctx, "user-1", a.ID))

		list, err = s.GetShoppingList(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, b.ID, list[0].ID)
		assert.True(t, list[0].Checked)
		assert.False(t, list[1].Checked)

		err = s.UpdateShoppingItem(ctx, "user-1", uuid.NewString(), domain.ShoppingPatch{Checked: &checked})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		err = s.UpdateShoppingItem(ctx, "user-2", b.ID, domain.ShoppingPatch{Checked: &checked})
		assert.ErrorIs(t, err, domain.ErrNotFound, "items are scoped to their owner")

		require.NoError(t, s.DeleteShoppingItem(ctx, "user-1", uuid.NewString()))

		require.NoError(t, s.ClearShoppingList(ctx, "user-1"))
		list, err = s.GetShoppingList(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("shopping item ids must be uuids", func(t *testing.T) {
		s := newStore(t)
		err := s.AddShoppingItem(context.Background(), "user-1", domain.ShoppingItem{ID: "item-1", Name: "Rice"})
		assert.ErrorIs(t, err, domain.ErrInvalidID)

		list, err := s.GetShoppingList(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("shopping item ids are never reused", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		item := domain.ShoppingItem{ID: uuid.NewString(), Name: "Rice"}
		require.NoError(t, s.AddShoppingItem(ctx, "user-1", item))
		assert.Error(t, s.AddShoppingItem(ctx, "user-1", item))
	})

	t.Run("empty user id is rejected", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetSavedRecipes(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrNoSession)
	})
}
