// Package store holds helpers shared by the domain.RemoteStore
// implementations in its subpackages.
package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hammamikhairi/nutriveda/internal/domain"
)

// ValidateItemID enforces the remote schema constraint on shopping item
// ids: the canonical 36-character UUID form.
func ValidateItemID(id string) error {
	if len(id) != 36 {
		return fmt.Errorf("%w: %q is not a canonical uuid", domain.ErrInvalidID, id)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q: %v", domain.ErrInvalidID, id, err)
	}
	return nil
}

// ValidateUserID rejects the empty user id. Remote stores are keyed by
// authenticated users only.
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: empty user id", domain.ErrNoSession)
	}
	return nil
}
