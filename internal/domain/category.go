package domain

// SubCategory is a named group inside a Category.
type SubCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category groups apps on the launcher home grid. Icon and Color are symbolic
// names resolved by the presentation layer.
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	SubCategories []SubCategory `json:"subCategories"`
	Icon          string        `json:"icon,omitempty"`
	Color         string        `json:"color,omitempty"`
}

// HasSubCategory reports whether id names one of the category's subcategories.
func (c Category) HasSubCategory(id string) bool {
	for _, sc := range c.SubCategories {
		if sc.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a copy that does not share the subcategory slice.
func (c Category) Clone() Category {
	out := c
	out.SubCategories = make([]SubCategory, len(c.SubCategories))
	copy(out.SubCategories, c.SubCategories)
	return out
}
