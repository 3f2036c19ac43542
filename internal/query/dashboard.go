package query

import "github.com/Veraticus/xpense/internal/model"

// RecentCount is how many entries the dashboard lists as recent activity.
const RecentCount = 4

// RecentEntry is an expense resolved against its category for display.
type RecentEntry struct {
	Category string
	Color    string
	Expense  model.Expense
}

// Dashboard is the summary view over a full expense snapshot.
type Dashboard struct {
	Currency     string
	Distribution []CategoryTotal
	Recent       []RecentEntry
	Total        float64
	Count        int
}

// Recent returns the first n expenses. Collections are kept newest first,
// so these are the most recently added.
func Recent(expenses []model.Expense, n int) []model.Expense {
	return Paginate(expenses, n).Items
}

// Summarize builds the dashboard for the given snapshot.
func Summarize(expenses []model.Expense, categories []model.Category, currency string) Dashboard {
	recent := Recent(expenses, RecentCount)
	entries := make([]RecentEntry, len(recent))
	for i, e := range recent {
		entry := RecentEntry{Expense: e, Category: UnknownCategory}
		if idx := model.FindCategory(categories, e.CategoryID); idx >= 0 {
			entry.Category = categories[idx].Name
			entry.Color = categories[idx].Color
		}
		entries[i] = entry
	}

	return Dashboard{
		Currency:     currency,
		Total:        Total(expenses),
		Count:        len(expenses),
		Distribution: AggregateByCategory(expenses, categories),
		Recent:       entries,
	}
}
