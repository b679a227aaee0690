package main

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/hammamikhairi/nutriveda/internal/domain"
)

// localUserID derives a stable user id from an email address so the same
// address finds the same records across runs.
func localUserID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+strings.ToLower(strings.TrimSpace(email)))).String()
}

// findRecipe resolves ref against the current state: first as a 1-based
// position in the last listing, then as an id, then as a name (exact,
// then the first partial match).
func (a *cliApp) findRecipe(ref string) (domain.Recipe, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Recipe{}, false
	}
	s := a.ctl.Snapshot()

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(a.listed) {
		if r, ok := s.Recipe(a.listed[n-1].ID); ok {
			return r, true
		}
	}
	if r, ok := s.Recipe(ref); ok {
		return r, true
	}
	for _, r := range s.Recipes {
		if strings.EqualFold(r.Name, ref) {
			return r, true
		}
	}
	lower := strings.ToLower(ref)
	for _, r := range s.Recipes {
		if strings.Contains(strings.ToLower(r.Name), lower) {
			return r, true
		}
	}
	return domain.Recipe{}, false
}

// findItem resolves ref as a 1-based position in the shopping list, then
// as an item name. Names prefer the first unchecked match.
func (a *cliApp) findItem(ref string) (domain.ShoppingItem, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.ShoppingItem{}, false
	}
	items := a.ctl.Snapshot().Shopping

	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(items) {
			return items[n-1], true
		}
		return domain.ShoppingItem{}, false
	}

	var fallback *domain.ShoppingItem
	for i := range items {
		if !strings.EqualFold(items[i].Name, ref) {
			continue
		}
		if !items[i].Checked {
			return items[i], true
		}
		if fallback == nil {
			fallback = &items[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return domain.ShoppingItem{}, false
}
