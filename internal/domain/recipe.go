// Package domain defines the core types and interfaces for the kitchen
// assistant. All other packages depend on domain; domain depends on nothing.
package domain

// Recipe is a single dish in the working set. Only IsFavorite changes after
// a recipe is created; every other field is fixed by whoever produced it
// (the static catalog or the recommendation engine).
type Recipe struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Image       string       `json:"image,omitempty" yaml:"image,omitempty"`
	Cuisine     CuisineType  `json:"cuisine" yaml:"cuisine"`
	PrepTime    string       `json:"prepTime" yaml:"prepTime"` // e.g. "30 mins"
	Calories    int          `json:"calories" yaml:"calories"`
	Ingredients []Ingredient `json:"ingredients" yaml:"ingredients"`
	Steps       []string     `json:"steps" yaml:"steps"`
	HealthTags  []string     `json:"healthTags" yaml:"healthTags"`
	IsFavorite  bool         `json:"isFavorite" yaml:"isFavorite"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
}

// Clone returns a deep copy of the recipe.
func (r Recipe) Clone() Recipe {
	out := r
	if r.Ingredients != nil {
		out.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	}
	out.Steps = cloneStrings(r.Steps)
	out.HealthTags = cloneStrings(r.HealthTags)
	return out
}

// Ingredient is a value type with no identity of its own.
type Ingredient struct {
	Name     string `json:"name" yaml:"name"`
	Quantity string `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}

// CuisineType groups recipes by region.
type CuisineType string

const (
	CuisineNorth  CuisineType = "North Indian"
	CuisineSouth  CuisineType = "South Indian"
	CuisineEast   CuisineType = "East Indian"
	CuisineWest   CuisineType = "West Indian"
	CuisineFusion CuisineType = "Fusion"
)

// Cuisines lists every known cuisine in display order.
var Cuisines = []CuisineType{CuisineNorth, CuisineSouth, CuisineEast, CuisineWest, CuisineFusion}

// String returns the display name of the cuisine.
func (c CuisineType) String() string { return string(c) }

// CuisineFromString matches a cuisine by display name or short alias
// ("north", "south", ...). The second return is false for unknown names.
func CuisineFromString(name string) (CuisineType, bool) {
	if c, ok := cuisineNames[normalizeKey(name)]; ok {
		return c, true
	}
	return "", false
}

var cuisineNames = map[string]CuisineType{
	"north indian": CuisineNorth,
	"north":        CuisineNorth,
	"south indian": CuisineSouth,
	"south":        CuisineSouth,
	"east indian":  CuisineEast,
	"east":         CuisineEast,
	"west indian":  CuisineWest,
	"west":         CuisineWest,
	"fusion":       CuisineFusion,
}

// cloneStrings keeps nil and empty distinct; Overlay depends on it.
func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
