package form

import (
	"time"

	"github.com/Veraticus/xpense/internal/model"
	"github.com/Veraticus/xpense/internal/query"
)

// ExpenseForm is the input of the new and edit expense screens.
// Nil fields are left to repository defaults or untouched on edit.
type ExpenseForm struct {
	Amount     *float64 `form:"amount" validate:"omitempty,gte=0"`
	Currency   *string  `form:"currency" validate:"omitempty,len=3,uppercase"`
	Date       *string  `form:"date" validate:"omitempty,datetime=2006-01-02"`
	CategoryID *string  `form:"categoryId" validate:"omitempty,notblank"`
	Note       *string  `form:"note" validate:"omitempty,max=500"`
}

// Validate checks the form.
func (f ExpenseForm) Validate() error {
	return check(f)
}

// Patch validates the form and converts it to a repository patch. The date
// becomes midnight of that day in loc, UTC when loc is nil.
func (f ExpenseForm) Patch(loc *time.Location) (model.ExpensePatch, error) {
	if err := f.Validate(); err != nil {
		return model.ExpensePatch{}, err
	}
	if loc == nil {
		loc = time.UTC
	}

	patch := model.ExpensePatch{
		Amount:     f.Amount,
		Currency:   f.Currency,
		CategoryID: f.CategoryID,
		Note:       f.Note,
	}
	if f.Date != nil {
		day, err := query.ParseDay(*f.Date)
		if err != nil {
			return model.ExpensePatch{}, err
		}
		date := day.Start(loc)
		patch.Date = &date
	}
	return patch, nil
}
