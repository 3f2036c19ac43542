package form

import (
	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/model"
)

// ProfileForm is the input of the settings screen.
type ProfileForm struct {
	Name          *string `form:"name" validate:"omitempty,notblank,max=80"`
	Email         *string `form:"email" validate:"omitempty,email"`
	Currency      *string `form:"currency" validate:"omitempty,len=3,uppercase"`
	Notifications *bool   `form:"notifications"`
}

// Patch validates the form and converts it to a profile patch.
func (f ProfileForm) Patch() (model.ProfilePatch, error) {
	if err := check(f); err != nil {
		return model.ProfilePatch{}, err
	}

	patch := model.ProfilePatch{Name: f.Name, Email: f.Email}
	if f.Currency != nil || f.Notifications != nil {
		patch.Preferences = &model.PreferencesPatch{
			Currency:      f.Currency,
			Notifications: f.Notifications,
		}
	}
	if patch.Empty() {
		return model.ProfilePatch{}, common.NewValidationError("", "nothing to update")
	}
	return patch, nil
}
