package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/nutriveda/internal/domain"
)

// ErrInvalidCatalog is returned when a catalog document fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// document is the on-disk YAML shape:
//
//	recipes:
//	  - id: "1"
//	    name: Palak Paneer
//	    ...
type document struct {
	Recipes []domain.Recipe `yaml:"recipes"`
}

// Decode reads a YAML catalog. Ids must be present and unique; favorite
// flags in the document are ignored because favorites are per-user.
func Decode(r io.Reader) ([]domain.Recipe, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("catalog: %w: empty document", ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	if err := validate(doc.Recipes); err != nil {
		return nil, err
	}
	for i := range doc.Recipes {
		doc.Recipes[i].IsFavorite = false
	}
	return doc.Recipes, nil
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) ([]domain.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

func validate(recipes []domain.Recipe) error {
	if len(recipes) == 0 {
		return fmt.Errorf("catalog: %w: no recipes", ErrInvalidCatalog)
	}
	seen := make(map[string]int, len(recipes))
	for i, r := range recipes {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return fmt.Errorf("catalog: %w: recipe #%d (%q) has no id", ErrInvalidCatalog, i+1, r.Name)
		}
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("catalog: %w: id %q used by recipes #%d and #%d", ErrInvalidCatalog, id, prev+1, i+1)
		}
		seen[id] = i
	}
	return nil
}
