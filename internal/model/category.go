// Package model holds the records persisted by the xpense client.
package model

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#6366f1"

// DefaultCategoryName names the category that receives expenses created
// without an explicit category.
const DefaultCategoryName = "Other"

// Category is a user-defined label with a display color.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CategoryPatch carries the fields of a category save request.
// An empty ID means create; nil fields are left untouched on merge.
type CategoryPatch struct {
	Name  *string
	Color *string
	ID    string
}

// Apply merges the patch into c and returns the result.
func (p CategoryPatch) Apply(c Category) Category {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	return c
}

// FindCategory returns the index of the category with the given id, or -1.
func FindCategory(categories []Category, id string) int {
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}
