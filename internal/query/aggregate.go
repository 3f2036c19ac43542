package query

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/xpense/internal/model"
)

// UnknownCategory labels expenses whose category no longer exists.
const UnknownCategory = "Unknown"

// CategoryTotal is the spending attributed to one category.
type CategoryTotal struct {
	Category model.Category
	Total    float64
}

// Total sums the amounts of expenses.
func Total(expenses []model.Expense) float64 {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(decimal.NewFromFloat(e.Amount))
	}
	return sum.InexactFloat64()
}

// AggregateByCategory totals expenses per category in category order,
// leaving out categories whose total is not positive.
func AggregateByCategory(expenses []model.Expense, categories []model.Category) []CategoryTotal {
	sums := make(map[string]decimal.Decimal, len(categories))
	for _, e := range expenses {
		sums[e.CategoryID] = sums[e.CategoryID].Add(decimal.NewFromFloat(e.Amount))
	}

	out := make([]CategoryTotal, 0, len(categories))
	for _, c := range categories {
		sum, ok := sums[c.ID]
		if !ok || !sum.IsPositive() {
			continue
		}
		out = append(out, CategoryTotal{Category: c, Total: sum.InexactFloat64()})
	}
	return out
}

// CategoryName returns the name of the category with the given id, or
// UnknownCategory for a dangling reference.
func CategoryName(categories []model.Category, id string) string {
	if i := model.FindCategory(categories, id); i >= 0 {
		return categories[i].Name
	}
	return UnknownCategory
}
