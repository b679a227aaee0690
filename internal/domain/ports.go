package domain

import "context"

// SessionProvider wraps an external identity service. Implementations must
// fail open: when the service is missing or unreachable, CurrentSession
// returns the absent session instead of blocking startup.
type SessionProvider interface {
	CurrentSession(ctx context.Context) (Session, error)
	// Subscribe registers fn for login, logout and token refresh events.
	// The returned func removes the subscription.
	Subscribe(fn func(Session)) (unsubscribe func())
	SignOut(ctx context.Context) error
}

// RemoteStore persists per-user records. It is never called for guest
// sessions. GetProfile returns (nil, nil) when no profile row exists yet.
// GetSavedRecipes returns every record with IsFavorite set; the catalog
// merge ignores saved records without it.
type RemoteStore interface {
	GetProfile(ctx context.Context, userID string) (*UserPreferences, error)
	GetSavedRecipes(ctx context.Context, userID string) ([]Recipe, error)
	GetShoppingList(ctx context.Context, userID string) ([]ShoppingItem, error)

	UpdateProfile(ctx context.Context, userID string, prefs UserPreferences) error
	AddFavorite(ctx context.Context, userID string, recipe Recipe) error
	RemoveFavorite(ctx context.Context, userID, recipeID string) error
	AddShoppingItem(ctx context.Context, userID string, item ShoppingItem) error
	UpdateShoppingItem(ctx context.Context, userID, id string, patch ShoppingPatch) error
	DeleteShoppingItem(ctx context.Context, userID, id string) error
	ClearShoppingList(ctx context.Context, userID string) error
}

// RecommendationEngine produces a recipe tailored to the given preferences.
// Implementations can be LLM-backed or rule-based.
type RecommendationEngine interface {
	Recommend(ctx context.Context, prefs UserPreferences) (*Recipe, error)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Clipboard receives exported text.
type Clipboard interface {
	WriteText(text string) error
}

// CommandParser converts a line of prompt input into a command.
type CommandParser interface {
	Parse(ctx context.Context, input string) (Command, error)
}
