package query

import (
	"time"

	"github.com/Veraticus/xpense/internal/model"
)

// AllCategories matches every category in Criteria.CategoryID.
const AllCategories = "all"

// Criteria selects expenses. Zero fields match everything.
type Criteria struct {
	From       *Day
	To         *Day
	Location   *time.Location
	CategoryID string
}

// Filter returns the expenses matching c, preserving input order.
// From is inclusive from the start of its day; To is inclusive up to
// 23:59:59 of its day. Days are interpreted in c.Location, UTC if nil.
func Filter(expenses []model.Expense, c Criteria) []model.Expense {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}

	var from, to time.Time
	if c.From != nil {
		from = c.From.Start(loc)
	}
	if c.To != nil {
		to = c.To.End(loc)
	}

	out := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if c.CategoryID != "" && c.CategoryID != AllCategories && e.CategoryID != c.CategoryID {
			continue
		}
		if c.From != nil && e.Date.Before(from) {
			continue
		}
		if c.To != nil && e.Date.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}
