package view

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/hammamikhairi/nutriveda/internal/domain"
)

// recipeEnv is what an expression sees, e.g.
//
//	calories < 300 && "Gluten Free" in healthTags
type recipeEnv struct {
	ID          string   `expr:"id"`
	Name        string   `expr:"name"`
	Cuisine     string   `expr:"cuisine"`
	PrepTime    string   `expr:"prepTime"`
	Calories    int      `expr:"calories"`
	Ingredients []string `expr:"ingredients"`
	HealthTags  []string `expr:"healthTags"`
	IsFavorite  bool     `expr:"isFavorite"`
}

func envFor(r domain.Recipe) recipeEnv {
	names := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		names[i] = ing.Name
	}
	return recipeEnv{
		ID:          r.ID,
		Name:        r.Name,
		Cuisine:     string(r.Cuisine),
		PrepTime:    r.PrepTime,
		Calories:    r.Calories,
		Ingredients: names,
		HealthTags:  r.HealthTags,
		IsFavorite:  r.IsFavorite,
	}
}

// Predicate is a compiled boolean expression over a recipe.
type Predicate struct {
	source  string
	program *vm.Program
}

// Compile type-checks source against the recipe fields. The expression
// must evaluate to a bool.
func Compile(source string) (*Predicate, error) {
	program, err := expr.Compile(source, expr.Env(recipeEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("view: compile %q: %w", source, err)
	}
	return &Predicate{source: source, program: program}, nil
}

// String returns the expression source.
func (p *Predicate) String() string { return p.source }

// Match evaluates the predicate. A runtime error counts as no match.
func (p *Predicate) Match(r domain.Recipe) bool {
	out, err := expr.Run(p.program, envFor(r))
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}
