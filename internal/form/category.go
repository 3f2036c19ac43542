package form

import (
	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/model"
)

// CategoryForm is the input of the add and edit category screens.
// Name is mandatory when ID is empty.
type CategoryForm struct {
	Name  *string `form:"name" validate:"omitempty,notblank,max=40"`
	Color *string `form:"color" validate:"omitempty,hexcolor"`
	ID    string  `form:"id"`
}

// Validate checks the form.
func (f CategoryForm) Validate() error {
	if f.ID == "" && f.Name == nil {
		return common.NewValidationError("name", "name is required")
	}
	return check(f)
}

// Patch validates the form and converts it to a repository patch.
func (f CategoryForm) Patch() (model.CategoryPatch, error) {
	if err := f.Validate(); err != nil {
		return model.CategoryPatch{}, err
	}
	return model.CategoryPatch{
		ID:    f.ID,
		Name:  f.Name,
		Color: f.Color,
	}, nil
}
