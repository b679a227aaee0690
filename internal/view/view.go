// Package view derives the filtered recipe sequences the front-end shows.
// Everything here is a pure function of its arguments.
package view

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/hammamikhairi/nutriveda/internal/domain"
)

// AllCuisines is the cuisine filter value that matches every recipe.
const AllCuisines = "All"

// Filter holds the current filter criteria.
type Filter struct {
	// Query is matched case-insensitively against name, health tags and
	// cuisine. Empty matches everything.
	Query string
	// Cuisine restricts to one cuisine. Empty or AllCuisines matches all.
	Cuisine string
	// View restricts to favorites when it is domain.ViewKitchen.
	View domain.ViewState
	// Where is an optional compiled expression; nil matches everything.
	Where *Predicate
}

// Project returns the recipes matching f, in input order. The result is a
// fresh slice; recipes are copied by value.
func Project(recipes []domain.Recipe, f Filter) []domain.Recipe {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(f.Query))

	out := make([]domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if !matchesView(r, f.View) || !matchesCuisine(r, f.Cuisine) {
			continue
		}
		if !matchesQuery(fold, r, q) {
			continue
		}
		if f.Where != nil && !f.Where.Match(r) {
			continue
		}
		out = append(out, r.Clone())
	}
	return out
}

func matchesView(r domain.Recipe, v domain.ViewState) bool {
	if v == domain.ViewKitchen {
		return r.IsFavorite
	}
	return true
}

func matchesCuisine(r domain.Recipe, cuisine string) bool {
	return cuisine == "" || cuisine == AllCuisines || string(r.Cuisine) == cuisine
}

func matchesQuery(fold cases.Caser, r domain.Recipe, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(fold.String(r.Name), q) {
		return true
	}
	for _, tag := range r.HealthTags {
		if strings.Contains(fold.String(tag), q) {
			return true
		}
	}
	return strings.Contains(fold.String(string(r.Cuisine)), q)
}

// Cuisines returns the cuisine filter options: AllCuisines followed by
// every known cuisine.
func Cuisines() []string {
	out := make([]string, 0, len(domain.Cuisines)+1)
	out = append(out, AllCuisines)
	for _, c := range domain.Cuisines {
		out = append(out, c.String())
	}
	return out
}

// Remaining counts the shopping items not yet checked off.
func Remaining(items []domain.ShoppingItem) int {
	n := 0
	for _, item := range items {
		if !item.Checked {
			n++
		}
	}
	return n
}
