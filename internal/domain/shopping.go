package domain

// ShoppingItem is one row of the shopping list. Every add-event creates new
// rows; items are never merged by name.
type ShoppingItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Quantity   string `json:"quantity,omitempty"`
	Checked    bool   `json:"checked"`
	RecipeName string `json:"recipeName,omitempty"`
}

// ShoppingPatch is a partial update of a shopping item. Nil fields are left
// unchanged.
type ShoppingPatch struct {
	Checked *bool `json:"checked,omitempty"`
}

// Apply returns item with the patch applied.
func (p ShoppingPatch) Apply(item ShoppingItem) ShoppingItem {
	if p.Checked != nil {
		item.Checked = *p.Checked
	}
	return item
}
