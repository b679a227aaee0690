// Package memory provides an in-memory domain.RemoteStore.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/logger"
	"github.com/hammamikhairi/nutriveda/internal/store"
)

// Compile-time interface check.
var _ domain.RemoteStore = (*Store)(nil)

type userRecords struct {
	profile  *domain.UserPreferences
	saved    []domain.Recipe
	shopping []domain.ShoppingItem
}

// Store keeps every user's records in memory. Safe for concurrent access.
type Store struct {
	mu    sync.RWMutex
	users map[string]*userRecords
	log   *logger.Logger
}

// NewStore creates an empty in-memory store.
func NewStore(log *logger.Logger) *Store {
	return &Store{
		users: make(map[string]*userRecords),
		log:   log,
	}
}

// user returns the records for userID, creating them when create is set.
// Callers must hold the lock matching create.
func (s *Store) user(userID string, create bool) *userRecords {
	u, ok := s.users[userID]
	if !ok && create {
		u = &userRecords{}
		s.users[userID] = u
	}
	return u
}

// GetProfile returns the user's profile, or nil when none was stored yet.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	if err := store.ValidateUserID(userID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.user(userID, false)
	if u == nil || u.profile == nil {
		s.log.Debug("profile not found: %s", userID)
		return nil, nil
	}
	p := u.profile.Clone()
	return &p, nil
}

// GetSavedRecipes returns the user's saved recipes in the order they were
// first saved.
func (s *Store) GetSavedRecipes(ctx context.Context, userID string) ([]domain.Recipe, error) {
	if err := store.ValidateUserID(userID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.user(userID, false)
	if u == nil {
		return []domain.Recipe{}, nil
	}
	out := make([]domain.Recipe, len(u.saved))
	for i, r := range u.saved {
		out[i] = r.Clone()
	}
	return out, nil
}

// GetShoppingList returns the user's shopping items in insertion order.
func (s *Store) GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingItem, error) {
	if err := store.ValidateUserID(userID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.user(userID, false)
	if u == nil {
		return []domain.ShoppingItem{}, nil
	}
	return append([]domain.ShoppingItem{}, u.shopping...), nil
}

// UpdateProfile stores prefs, replacing any previous profile.
func (s *Store) UpdateProfile(ctx context.Context, userID string, prefs domain.UserPreferences) error {
	if err := store.ValidateUserID(userID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := prefs.Clone()
	s.user(userID, true).profile = &p
	s.log.Debug("updated profile for %s", userID)
	return nil
}

// AddFavorite saves recipe for the user. Saving an id twice replaces the
// stored copy in place.
func (s *Store) AddFavorite(ctx context.Context, userID string, recipe domain.Recipe) error {
	if err := store.ValidateUserID(userID); err != nil {
		return err
	}
	if recipe.ID == "" {
		return fmt.Errorf("memory: add favorite: %w: empty recipe id", domain.ErrInvalidID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID, true)
	r := recipe.Clone()
	r.IsFavorite = true
	for i := range u.saved {
		if u.saved[i].ID == r.ID {
			u.saved[i] = r
			return nil
		}
	}
	u.saved = append(u.saved, r)
	s.log.Debug("saved recipe %s for %s", r.ID, userID)
	return nil
}

// RemoveFavorite deletes the saved record. Removing an unknown id is not an
// error.
func (s *Store) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	if err := store.ValidateUserID(userID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID, false)
	if u == nil {
		return nil
	}
	for i := range u.saved {
		if u.saved[i].ID == recipeID {
			u.saved = append(u.saved[:i], u.saved[i+1:]...)
			s.log.Debug("removed saved recipe %s for %s", recipeID, userID)
			return nil
		}
	}
	return nil
}

// AddShoppingItem appends item. The id must be a UUID and unused.
func (s *Store) AddShoppingItem(ctx context.Context, userID string, item domain.ShoppingItem) error {
	if err := store.ValidateUserID(userID); err != nil {
		return err
	}
	if err := store.ValidateItemID(item.ID); err != nil {
		return fmt.Errorf("memory: add shopping item: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		for _, existing := range u.shopping {
			if existing.ID == item.ID {
				return fmt.Errorf("memory: add shopping item %s: %w: duplicate id", item.ID, domain.ErrInvalidID)
			}
		}
	}
	u := s.user(userID, true)
	u.shopping = append(u.shopping, item)
	return nil
}

// UpdateShoppingItem applies patch to the item with the given id.
func (s *Store) UpdateShoppingItem(ctx context.Context, userID, id string, patch domain.ShoppingPatch) error {
	if err := store.ValidateUserID(userID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.user(userID, false); u != nil {
		for i := range u.shopping {
			if u.shopping[i].ID == id {
				u.shopping[i] = patch.Apply(u.shopping[i])
				return nil
			}
		}
	}
	return fmt.Errorf("memory: update shopping item %s: %w", id, domain.ErrNotFound)
}

// DeleteShoppingItem removes the item. Deleting an unknown id is not an
// error.
func (s *Store) DeleteShoppingItem(ctx context.Context, userID, id string) error {
	if err := store.ValidateUserID(userID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID, false)
	if u == nil {
		return nil
	}
	for i := range u.shopping {
		if u.shopping[i].ID == id {
			u.shopping = append(u.shopping[:i], u.shopping[i+1:]...)
			return nil
		}
	}
	return nil
}

// ClearShoppingList removes all of the user's shopping items.
func (s *Store) ClearShoppingList(ctx context.Context, userID string) error {
	if err := store.ValidateUserID(userID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.user(userID, false); u != nil {
		s.log.Debug("cleared %d shopping items for %s", len(u.shopping), userID)
		u.shopping = nil
	}
	return nil
}
