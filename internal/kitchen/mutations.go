package kitchen

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/merge"
)

// Remote operation names, used in logs and metrics.
const (
	OpUpdateProfile      = "update_profile"
	OpAddFavorite        = "add_favorite"
	OpRemoveFavorite     = "remove_favorite"
	OpAddShoppingItem    = "add_shopping_item"
	OpUpdateShoppingItem = "update_shopping_item"
	OpDeleteShoppingItem = "delete_shopping_item"
	OpClearShoppingList  = "clear_shopping_list"
)

// ToggleFavorite flips the favorite flag of a recipe in the working set
// and saves or removes the remote record. An unknown id is a no-op.
func (c *Controller) ToggleFavorite(id string) {
	c.mu.Lock()
	i := merge.IndexOf(c.state.Recipes, id)
	if i < 0 {
		c.mu.Unlock()
		c.log.Debug("toggle favorite: no recipe %q", id)
		return
	}
	c.state.Recipes[i].IsFavorite = !c.state.Recipes[i].IsFavorite
	recipe := c.state.Recipes[i].Clone()

	if recipe.IsFavorite {
		c.enqueueLocked(OpAddFavorite, func(ctx context.Context, userID string) error {
			return c.store.AddFavorite(ctx, userID, recipe)
		})
	} else {
		c.enqueueLocked(OpRemoveFavorite, func(ctx context.Context, userID string) error {
			return c.store.RemoveFavorite(ctx, userID, recipe.ID)
		})
	}
	c.commit()
}

// AddToShoppingList appends one unchecked item per ingredient of recipe,
// tagged with the recipe name. Items are written remotely one by one in
// ingredient order. It returns the new items.
func (c *Controller) AddToShoppingList(recipe domain.Recipe) []domain.ShoppingItem {
	if len(recipe.Ingredients) == 0 {
		return nil
	}
	items := make([]domain.ShoppingItem, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		items[i] = domain.ShoppingItem{
			ID:         c.newID(),
			Name:       ing.Name,
			Quantity:   ing.Quantity,
			RecipeName: recipe.Name,
		}
	}

	c.mu.Lock()
	c.state.Shopping = append(c.state.Shopping, items...)
	for _, item := range items {
		c.enqueueLocked(OpAddShoppingItem, func(ctx context.Context, userID string) error {
			return c.store.AddShoppingItem(ctx, userID, item)
		})
	}
	c.commit()
	return append([]domain.ShoppingItem(nil), items...)
}

// ToggleShoppingItem flips the checked flag of an item. An unknown id is a
// no-op.
func (c *Controller) ToggleShoppingItem(id string) {
	c.mu.Lock()
	i := c.shoppingIndexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		c.log.Debug("toggle shopping item: no item %q", id)
		return
	}
	checked := !c.state.Shopping[i].Checked
	c.state.Shopping[i].Checked = checked

	c.enqueueLocked(OpUpdateShoppingItem, func(ctx context.Context, userID string) error {
		return c.store.UpdateShoppingItem(ctx, userID, id, domain.ShoppingPatch{Checked: &checked})
	})
	c.commit()
}

// RemoveShoppingItem deletes an item. An unknown id is a no-op.
func (c *Controller) RemoveShoppingItem(id string) {
	c.mu.Lock()
	i := c.shoppingIndexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		c.log.Debug("remove shopping item: no item %q", id)
		return
	}
	c.state.Shopping = slices.Delete(c.state.Shopping, i, i+1)

	c.enqueueLocked(OpDeleteShoppingItem, func(ctx context.Context, userID string) error {
		return c.store.DeleteShoppingItem(ctx, userID, id)
	})
	c.commit()
}

// ClearShoppingList empties the list once the Confirmer agrees. Without a
// Confirmer nothing is cleared. It reports whether the list was cleared.
func (c *Controller) ClearShoppingList() bool {
	c.mu.Lock()
	confirm := c.confirm
	c.mu.Unlock()

	if confirm == nil {
		c.log.Warn("clear shopping list: no confirmation prompt configured, refusing")
		return false
	}
	if !confirm.Confirm(ClearPrompt) {
		c.log.Debug("clear shopping list: %v", domain.ErrCanceled)
		return false
	}

	c.mu.Lock()
	c.state.Shopping = []domain.ShoppingItem{}
	c.enqueueLocked(OpClearShoppingList, func(ctx context.Context, userID string) error {
		return c.store.ClearShoppingList(ctx, userID)
	})
	c.commit()
	return true
}

// UpdateProfile replaces the profile wholesale.
func (c *Controller) UpdateProfile(prefs domain.UserPreferences) {
	prefs = prefs.Clone()

	c.mu.Lock()
	c.state.Profile = prefs
	remote := prefs.Clone()
	c.enqueueLocked(OpUpdateProfile, func(ctx context.Context, userID string) error {
		return c.store.UpdateProfile(ctx, userID, remote)
	})
	c.commit()
}

// AdoptRecipe appends a generated recipe to the working set unless its id
// is already present. It is not saved remotely until favorited. It
// reports whether the recipe was added.
func (c *Controller) AdoptRecipe(recipe domain.Recipe) bool {
	c.mu.Lock()
	var added bool
	c.state.Recipes, added = merge.AppendIfAbsent(c.state.Recipes, recipe)
	if !added {
		c.mu.Unlock()
		return false
	}
	c.commit()
	return true
}

// Recommend asks the recommendation engine for a recipe matching the
// current profile and adopts it into the working set under a fresh
// "ai-" id.
func (c *Controller) Recommend(ctx context.Context) (domain.Recipe, error) {
	c.mu.Lock()
	engine := c.recommender
	prefs := c.state.Profile.Clone()
	c.mu.Unlock()

	if engine == nil {
		return domain.Recipe{}, fmt.Errorf("kitchen: recommend: %w", domain.ErrNotConfigured)
	}
	r, err := engine.Recommend(ctx, prefs)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("kitchen: recommend: %w", err)
	}
	if r == nil {
		return domain.Recipe{}, errors.New("kitchen: recommend: engine returned no recipe")
	}

	// Engine-supplied ids are always replaced.
	recipe := r.Clone()
	recipe.IsFavorite = false
	recipe.ID = "ai-" + c.newID()
	if !c.AdoptRecipe(recipe) {
		return domain.Recipe{}, fmt.Errorf("kitchen: recommend: duplicate id %s", recipe.ID)
	}
	return recipe, nil
}

func (c *Controller) shoppingIndexLocked(id string) int {
	for i := range c.state.Shopping {
		if c.state.Shopping[i].ID == id {
			return i
		}
	}
	return -1
}
