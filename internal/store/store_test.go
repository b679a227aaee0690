package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/hammamikhairi/nutriveda/internal/domain"
)

func TestValidateItemID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{uuid.NewString(), false},
		{"7c9e6679-7425-40de-944b-e07fc1f90ae7", false},
		{"", true},
		{"item-1", true},
		{"{7c9e6679-7425-40de-944b-e07fc1f90ae7}", true},
		{"7c9e6679-7425-40de-944b-e07fc1f90aeZ", true},
	}

	for _, tt := range tests {
		err := ValidateItemID(tt.id)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ValidateItemID(%q) = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, domain.ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	}
}

func TestValidateUserID(t *testing.T) {
	if err := ValidateUserID("u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateUserID(""); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
