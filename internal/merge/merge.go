// Package merge combines the static catalog with a user's saved recipes
// into one id-unique working set.
package merge

import "github.com/hammamikhairi/nutriveda/internal/domain"

// Merge builds the working set for an authenticated user.
//
// Catalog recipes keep catalog order and are marked favorite exactly when
// saved holds a favorited record with their id. Stores always return saved
// records with IsFavorite set, so for store input this is plain id
// presence; feeding a merged working set back in as saved yields the same
// working set. Saved recipes whose id is not in the catalog
// follow in store order with their own IsFavorite preserved. A saved id
// that repeats is kept once, at its first position. Inputs are not
// modified; the result shares no slices with them.
func Merge(catalog, saved []domain.Recipe) []domain.Recipe {
	savedIDs := make(map[string]struct{}, len(saved))
	for _, r := range saved {
		if r.IsFavorite {
			savedIDs[r.ID] = struct{}{}
		}
	}

	out := make([]domain.Recipe, 0, len(catalog)+len(saved))
	seen := make(map[string]struct{}, len(catalog)+len(saved))
	for _, r := range catalog {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		c := r.Clone()
		_, c.IsFavorite = savedIDs[r.ID]
		out = append(out, c)
	}

	for _, r := range saved {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r.Clone())
	}
	return out
}

// Guest returns the working set for a guest: the catalog verbatim with no
// favorites.
func Guest(catalog []domain.Recipe) []domain.Recipe {
	out := make([]domain.Recipe, len(catalog))
	for i, r := range catalog {
		out[i] = r.Clone()
		out[i].IsFavorite = false
	}
	return out
}

// AppendIfAbsent adds r to the end of set unless a recipe with the same id
// is already present. The second return reports whether r was added.
func AppendIfAbsent(set []domain.Recipe, r domain.Recipe) ([]domain.Recipe, bool) {
	if IndexOf(set, r.ID) >= 0 {
		return set, false
	}
	return append(set, r.Clone()), true
}

// IndexOf returns the position of the recipe with the given id, or -1.
func IndexOf(set []domain.Recipe, id string) int {
	for i := range set {
		if set[i].ID == id {
			return i
		}
	}
	return -1
}
