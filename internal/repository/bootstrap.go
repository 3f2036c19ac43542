package repository

import (
	"time"

	"github.com/Veraticus/xpense/internal/model"
)

// BootstrapCategories returns the categories served before any are persisted.
func BootstrapCategories() []model.Category {
	return []model.Category{
		{ID: "cat1", Name: "Food", Color: "#6366f1"},
		{ID: "cat2", Name: "Transport", Color: "#10b981"},
		{ID: "cat3", Name: "Shopping", Color: "#f59e0b"},
		{ID: "cat4", Name: "Bills", Color: "#ef4444"},
		{ID: "cat5", Name: "Other", Color: "#8b5cf6"},
	}
}

// BootstrapExpenses returns the sample expenses served before any are persisted.
func BootstrapExpenses(now time.Time) []model.Expense {
	now = now.UTC()
	return []model.Expense{
		{
			ID:         "1",
			Amount:     1200,
			Currency:   model.DefaultCurrency,
			Date:       now,
			CategoryID: "cat1",
			Note:       "Dinner at Taj",
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:         "2",
			Amount:     450,
			Currency:   model.DefaultCurrency,
			Date:       now.Add(-24 * time.Hour),
			CategoryID: "cat2",
			Note:       "Uber to Office",
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}
}

// DefaultCategoryID picks the category that receives expenses created
// without one: the category named model.DefaultCategoryName, else the first.
func DefaultCategoryID(categories []model.Category) string {
	for _, c := range categories {
		if c.Name == model.DefaultCategoryName {
			return c.ID
		}
	}
	if len(categories) == 0 {
		return ""
	}
	return categories[0].ID
}
