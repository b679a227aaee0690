// Package shopping renders the shopping list for export.
package shopping

import (
	"strings"

	"github.com/hammamikhairi/nutriveda/internal/domain"
)

// Header opens every exported list.
const Header = "My Shopping List:\n\n"

// Format renders items as the plain-text list copied to the clipboard:
//
//	My Shopping List:
//
//	- [ ] Rice (2 cups)
//	- [x] Dal (1 cup) [Dal Tadka]
//
// The space before the recipe tag is always written, so lines without a
// recipe name end in a space. Items without a quantity omit the
// parenthesised part.
func Format(items []domain.ShoppingItem) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = formatLine(item)
	}
	return Header + strings.Join(lines, "\n")
}

func formatLine(item domain.ShoppingItem) string {
	var b strings.Builder
	b.WriteString("- [")
	if item.Checked {
		b.WriteByte('x')
	} else {
		b.WriteByte(' ')
	}
	b.WriteString("] ")
	b.WriteString(item.Name)
	if item.Quantity != "" {
		b.WriteString(" (")
		b.WriteString(item.Quantity)
		b.WriteByte(')')
	}
	b.WriteByte(' ')
	if item.RecipeName != "" {
		b.WriteByte('[')
		b.WriteString(item.RecipeName)
		b.WriteByte(']')
	}
	return b.String()
}
