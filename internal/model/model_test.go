package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategoryPatch_Apply(t *testing.T) {
	base := Category{ID: "cat1", Name: "Food", Color: "#6366f1"}

	tests := []struct {
		name  string
		patch CategoryPatch
		want  Category
	}{
		{
			name:  "empty patch leaves category unchanged",
			patch: CategoryPatch{ID: "cat1"},
			want:  base,
		},
		{
			name:  "rename only",
			patch: CategoryPatch{ID: "cat1", Name: Ptr("Groceries")},
			want:  Category{ID: "cat1", Name: "Groceries", Color: "#6366f1"},
		},
		{
			name:  "recolor to empty string",
			patch: CategoryPatch{ID: "cat1", Color: Ptr("")},
			want:  Category{ID: "cat1", Name: "Food", Color: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.patch.Apply(base))
		})
	}
}

func TestExpensePatch_Apply(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	base := Expense{
		ID:         "e1",
		Amount:     10,
		Currency:   "INR",
		Date:       created,
		CategoryID: "cat1",
		Note:       "tea",
		CreatedAt:  created,
		UpdatedAt:  created,
	}

	got := ExpensePatch{Amount: Ptr(42.5), Note: Ptr("")}.Apply(base)

	assert.Equal(t, 42.5, got.Amount)
	assert.Equal(t, "", got.Note)
	assert.Equal(t, "cat1", got.CategoryID)
	assert.Equal(t, created, got.CreatedAt)
}

func TestProfilePatch(t *testing.T) {
	u := User{ID: "u1", Name: "Demo User", Preferences: Preferences{Currency: "INR", Notifications: true}}

	assert.True(t, ProfilePatch{}.Empty())
	assert.True(t, ProfilePatch{Preferences: &PreferencesPatch{}}.Empty())

	p := ProfilePatch{Preferences: &PreferencesPatch{Notifications: Ptr(false)}}
	assert.False(t, p.Empty())

	got := p.Apply(u)
	assert.Equal(t, "INR", got.Preferences.Currency)
	assert.False(t, got.Preferences.Notifications)
	assert.Equal(t, "Demo User", got.Name)
}

func TestFind(t *testing.T) {
	cats := []Category{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, 1, FindCategory(cats, "b"))
	assert.Equal(t, -1, FindCategory(cats, "z"))

	exps := []Expense{{ID: "x"}}
	assert.Equal(t, 0, FindExpense(exps, "x"))
	assert.Equal(t, -1, FindExpense(nil, "x"))
}
