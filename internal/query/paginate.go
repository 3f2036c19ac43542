package query

import "github.com/Veraticus/xpense/internal/model"

// DefaultPageSize is how many more expenses "load more" reveals.
const DefaultPageSize = 10

// Page is a prefix of a filtered expense list.
type Page struct {
	Items   []model.Expense
	HasMore bool
}

// Paginate returns the first min(limit, len(expenses)) expenses.
// A negative limit is treated as zero.
func Paginate(expenses []model.Expense, limit int) Page {
	if limit < 0 {
		limit = 0
	}
	n := min(limit, len(expenses))
	return Page{
		Items:   expenses[:n:n],
		HasMore: limit < len(expenses),
	}
}

// NextLimit grows limit by one page.
func NextLimit(limit, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if limit < 0 {
		limit = 0
	}
	return limit + pageSize
}
