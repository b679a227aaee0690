package conversation

import (
	"context"
	"testing"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input       string
		wantType    domain.CommandType
		wantPayload string
	}{
		// Listing
		{"list", domain.CommandList, ""},
		{"Recipes", domain.CommandList, ""},
		{"kitchen", domain.CommandKitchen, ""},
		{"my kitchen", domain.CommandKitchen, ""},
		{"favs", domain.CommandKitchen, ""},

		// Search and filters
		{"search paneer", domain.CommandSearch, "paneer"},
		{"find  high protein ", domain.CommandSearch, "high protein"},
		{"cuisine south", domain.CommandCuisine, "south"},
		{"cuisine", domain.CommandCuisine, ""},

		// Recipe actions
		{"1", domain.CommandShow, "1"},
		{"12", domain.CommandShow, "12"},
		{"show dhokla", domain.CommandShow, "dhokla"},
		{"fav 2", domain.CommandFavorite, "2"},
		{"favorite Masala Dosa", domain.CommandFavorite, "Masala Dosa"},
		{"add 3", domain.CommandAddToList, "3"},

		// Shopping list
		{"shopping", domain.CommandShopping, ""},
		{"shop", domain.CommandShopping, ""},
		{"check 1", domain.CommandCheck, "1"},
		{"untick ghee", domain.CommandCheck, "ghee"},
		{"remove 2", domain.CommandRemove, "2"},
		{"clear", domain.CommandClear, ""},
		{"clear list", domain.CommandClear, ""},
		{"copy", domain.CommandCopy, ""},

		// Profile
		{"profile", domain.CommandProfile, ""},
		{"name Asha Rao", domain.CommandSetName, "Asha Rao"},
		{"set-diet vegan", domain.CommandSetDiet, "vegan"},
		{"set allergies peanuts, dairy", domain.CommandSetAllergies, "peanuts, dairy"},
		{"allergies", domain.CommandSetAllergies, ""},
		{"deficiencies iron,b12", domain.CommandSetDeficiencies, "iron,b12"},

		// AI and session
		{"recommend", domain.CommandRecommend, ""},
		{"suggest", domain.CommandRecommend, ""},
		{"login asha@example.com", domain.CommandLogin, "asha@example.com"},
		{"sign in", domain.CommandLogin, ""},
		{"guest", domain.CommandGuest, ""},
		{"sign out", domain.CommandLogout, ""},

		// Meta
		{"help", domain.CommandHelp, ""},
		{"?", domain.CommandHelp, ""},
		{"quit", domain.CommandQuit, ""},
		{"q", domain.CommandQuit, ""},

		// Unknown
		{"something with lots of iron", domain.CommandUnknown, "something with lots of iron"},
		{"1234", domain.CommandUnknown, "1234"},
		{"", domain.CommandUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, err := parser.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cmd.Type != tt.wantType {
				t.Errorf("input=%q: got type %s, want %s", tt.input, cmd.Type, tt.wantType)
			}
			if cmd.Payload != tt.wantPayload {
				t.Errorf("input=%q: got payload %q, want %q", tt.input, cmd.Payload, tt.wantPayload)
			}
		})
	}
}
