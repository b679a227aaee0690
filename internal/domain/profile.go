package domain

import "strings"

// DietType is the user's dietary preference.
type DietType string

const (
	DietVeg    DietType = "Vegetarian"
	DietNonVeg DietType = "Non-Vegetarian"
	DietVegan  DietType = "Vegan"
	DietJain   DietType = "Jain"
)

// String returns the display name of the diet.
func (d DietType) String() string { return string(d) }

var dietNames = map[string]DietType{
	"vegetarian":     DietVeg,
	"veg":            DietVeg,
	"non-vegetarian": DietNonVeg,
	"nonveg":         DietNonVeg,
	"non-veg":        DietNonVeg,
	"vegan":          DietVegan,
	"jain":           DietJain,
}

// DietFromString converts a diet name or alias to a DietType.
func DietFromString(name string) (DietType, bool) {
	if d, ok := dietNames[normalizeKey(name)]; ok {
		return d, true
	}
	return "", false
}

// UserPreferences is the per-user profile that drives recommendations.
type UserPreferences struct {
	Name              string   `json:"name"`
	Allergies         []string `json:"allergies"`
	DietaryPreference DietType `json:"dietaryPreference"`
	Deficiencies      []string `json:"deficiencies"`
}

// DefaultPreferences is the profile shown to guests and to accounts whose
// profile row has not been provisioned yet.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		Name:              "Guest User",
		Allergies:         []string{"Peanuts"},
		DietaryPreference: DietVeg,
		Deficiencies:      []string{"Iron", "Vitamin D"},
	}
}

// Clone returns a deep copy of the preferences.
func (p UserPreferences) Clone() UserPreferences {
	out := p
	out.Allergies = cloneStrings(p.Allergies)
	out.Deficiencies = cloneStrings(p.Deficiencies)
	return out
}

// Overlay returns p with every field that is set in remote copied over it.
// A nil slice or empty string in remote keeps the value from p; an empty
// but non-nil slice clears it.
func (p UserPreferences) Overlay(remote UserPreferences) UserPreferences {
	out := p.Clone()
	if remote.Name != "" {
		out.Name = remote.Name
	}
	if remote.Allergies != nil {
		out.Allergies = cloneStrings(remote.Allergies)
	}
	if remote.DietaryPreference != "" {
		out.DietaryPreference = remote.DietaryPreference
	}
	if remote.Deficiencies != nil {
		out.Deficiencies = cloneStrings(remote.Deficiencies)
	}
	return out
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
