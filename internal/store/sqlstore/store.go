// Package sqlstore implements domain.RemoteStore on database/sql. The
// sqlite and postgres packages open the connection and pick the Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/logger"
	"github.com/hammamikhairi/nutriveda/internal/store"
)

// Compile-time interface check.
var _ domain.RemoteStore = (*Store)(nil)

// Dialect captures what differs between SQL engines.
type Dialect struct {
	Name string
	// Schema is applied in order on every open; statements must be
	// idempotent.
	Schema []string
	// Numbered placeholders ($1, $2, ...) instead of "?".
	Numbered bool
}

// Store is a RemoteStore over a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
	log     *logger.Logger
}

// New applies the dialect's schema and returns a ready store. The store
// does not own db; Close closes it anyway for convenience.
func New(ctx context.Context, db *sql.DB, dialect Dialect, log *logger.Logger) (*Store, error) {
	for _, stmt := range dialect.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("sqlstore: apply %s schema: %w", dialect.Name, err)
		}
	}
	return &Store{db: db, dialect: dialect, log: log}, nil
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// rebind rewrites "?" placeholders for dialects that number them.
func (s *Store) rebind(query string) string {
	if !s.dialect.Numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

// GetProfile returns the user's profile, or nil when no row exists.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	if err := store.ValidateUserID(userID); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT name, allergies, dietary_preference, deficiencies FROM profiles WHERE user_id = ?`,
	), userID)

	var (
		p                       domain.UserPreferences
		diet                    string
		allergies, deficiencies []byte
	)
	if err := row.Scan(&p.Name, &allergies, &diet, &deficiencies); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.log.Debug("sqlstore: no profile for %s", userID)
			return nil, nil
		}
		return nil, fmt.Errorf("sqlstore: get profile: %w", err)
	}
	p.DietaryPreference = domain.DietType(diet)
	if err := json.Unmarshal(allergies, &p.Allergies); err != nil {
		return nil, fmt.Errorf("sqlstore: decode allergies: %w", err)
	}
	if err := json.Unmarshal(deficiencies, &p.Deficiencies); err != nil {
		return nil, fmt.Errorf("sqlstore: decode deficiencies: %w", err)
	}
	return &p, nil
}

// GetSavedRecipes returns the user's saved recipes in save order.
func (s *Store) GetSavedRecipes(ctx context.Context, userID string) ([]domain.Recipe, error) {
	if err := store.ValidateUserID(userID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT payload FROM saved_recipes WHERE user_id = ? ORDER BY seq ASC`,
	), userID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: select saved recipes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []domain.Recipe{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("sqlstore: scan saved recipe: %w", err)
		}
		var r domain.Recipe
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("sqlstore: decode saved recipe: %w", err)
		}
		r.IsFavorite = true
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterate saved recipes: %w", err)
	}
	return out, nil
}

// GetShoppingList returns the user's shopping items in insertion order.
func (s *Store) GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingItem, error) {
	if err := store.ValidateUserID(userID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, name, quantity, checked, recipe_name FROM shopping_items WHERE user_id = ? ORDER BY seq ASC`,
	), userID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: select shopping items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []domain.ShoppingItem{}
	for rows.Next() {
		var item domain.ShoppingItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.Checked, &item.RecipeName); err != nil {
			return nil, fmt.Errorf("sqlstore: scan shopping item: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterate shopping items: %w", err)
	}
	return out, nil
}

// UpdateProfile upserts the user's profile row.
func (s *Store) UpdateProfile(ctx context.Context, userID string, prefs domain.UserPreferences) error {
	if err := store.ValidateUserID(userID); err != nil {
		return err
	}
	allergies, err := jsonList(prefs.Allergies)
	if err != nil {
		return fmt.Errorf("sqlstore: encode allergies: %w", err)
	}
	deficiencies, err := jsonList(prefs.Deficiencies)
	if err != nil {
		return fmt.Errorf("sqlstore: encode deficiencies: %w", err)
	}
	_, err = s.exec(ctx, `INSERT INTO profiles (user_id, name, allergies, dietary_preference, deficiencies)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			name = excluded.name,
			allergies = excluded.allergies,
			dietary_preference = excluded.dietary_preference,
			deficiencies = excluded.deficiencies`,
		userID, prefs.Name, allergies, string(prefs.DietaryPreference), deficiencies)
	if err != nil {
		return fmt.Errorf("sqlstore: update profile: %w", err)
	}
	return nil
}

// AddFavorite upserts a saved-recipe record. Re-saving keeps the original
// position.
func (s *Store) AddFavorite(ctx context.Context, userID string, recipe domain.Recipe) error {
	if err := store.ValidateUserID(userID); err != nil {
		return err
	}
	if recipe.ID == "" {
		return fmt.Errorf("sqlstore: add favorite: %w: empty recipe id", domain.ErrInvalidID)
	}
	recipe.IsFavorite = true
	payload, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("sqlstore: encode recipe %s: %w", recipe.ID, err)
	}
	_, err = s.exec(ctx, `INSERT INTO saved_recipes (user_id, recipe_id, payload)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, recipe_id) DO UPDATE SET payload = excluded.payload`,
		userID, recipe.ID, string(payload))
	if err != nil {
		return fmt.Errorf("sqlstore: add favorite %s: %w", recipe.ID, err)
	}
	return nil
}

// RemoveFavorite deletes a saved-recipe record if present.
func (s *Store) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	if err := store.ValidateUserID(userID); err != nil {
		return err
	}
	if _, err := s.exec(ctx, `DELETE FROM saved_recipes WHERE user_id = ? AND recipe_id = ?`, userID, recipeID); err != nil {
		return fmt.Errorf("sqlstore: remove favorite %s: %w", recipeID, err)
	}
	return nil
}

// AddShoppingItem inserts a new item. The id must be a UUID.
func (s *Store) AddShoppingItem(ctx context.Context, userID string, item domain.ShoppingItem) error {
	if err := store.ValidateUserID(userID); err != nil {
		return err
	}
	if err := store.ValidateItemID(item.ID); err != nil {
		return fmt.Errorf("sqlstore: add shopping item: %w", err)
	}
	_, err := s.exec(ctx, `INSERT INTO shopping_items (id, user_id, name, quantity, checked, recipe_name)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, userID, item.Name, item.Quantity, item.Checked, item.RecipeName)
	if err != nil {
		return fmt.Errorf("sqlstore: add shopping item %s: %w", item.ID, err)
	}
	return nil
}

// UpdateShoppingItem applies patch to one of the user's items.
func (s *Store) UpdateShoppingItem(ctx context.Context, userID, id string, patch domain.ShoppingPatch) error {
	if err := store.ValidateUserID(userID); err != nil {
		return err
	}
	if err := store.ValidateItemID(id); err != nil {
		return fmt.Errorf("sqlstore: update shopping item: %w", domain.ErrNotFound)
	}
	if patch.Checked == nil {
		return nil
	}
	res, err := s.exec(ctx, `UPDATE shopping_items SET checked = ? WHERE user_id = ? AND id = ?`,
		*patch.Checked, userID, id)
	if err != nil {
		return fmt.Errorf("sqlstore: update shopping item %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: update shopping item %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("sqlstore: update shopping item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteShoppingItem deletes one of the user's items if present.
func (s *Store) DeleteShoppingItem(ctx context.Context, userID, id string) error {
	if err := store.ValidateUserID(userID); err != nil {
		return err
	}
	if store.ValidateItemID(id) != nil {
		return nil
	}
	if _, err := s.exec(ctx, `DELETE FROM shopping_items WHERE user_id = ? AND id = ?`, userID, id); err != nil {
		return fmt.Errorf("sqlstore: delete shopping item %s: %w", id, err)
	}
	return nil
}

// ClearShoppingList deletes all of the user's items.
func (s *Store) ClearShoppingList(ctx context.Context, userID string) error {
	if err := store.ValidateUserID(userID); err != nil {
		return err
	}
	res, err := s.exec(ctx, `DELETE FROM shopping_items WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("sqlstore: clear shopping list: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		s.log.Debug("sqlstore: cleared %d shopping items for %s", n, userID)
	}
	return nil
}

// jsonList encodes a string list, writing nil as an empty array.
func jsonList(in []string) (string, error) {
	if in == nil {
		in = []string{}
	}
	b, err := json.Marshal(in)
	return string(b), err
}
