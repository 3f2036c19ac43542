package model

import "time"

// DefaultCurrency is the currency assigned to expenses created without one.
const DefaultCurrency = "INR"

// Expense is a single monetary transaction recorded by the user.
type Expense struct {
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	ID         string    `json:"id"`
	Currency   string    `json:"currency"`
	CategoryID string    `json:"categoryId"`
	Note       string    `json:"note,omitempty"`
	Amount     float64   `json:"amount"`
}

// ExpenseList is the envelope returned when listing expenses.
type ExpenseList struct {
	Items []Expense `json:"items"`
}

// ExpensePatch carries the optional fields of an add or update request.
type ExpensePatch struct {
	Amount     *float64
	Currency   *string
	Date       *time.Time
	CategoryID *string
	Note       *string
}

// Apply merges the patch into e. Timestamps are the caller's responsibility.
func (p ExpensePatch) Apply(e Expense) Expense {
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Currency != nil {
		e.Currency = *p.Currency
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.CategoryID != nil {
		e.CategoryID = *p.CategoryID
	}
	if p.Note != nil {
		e.Note = *p.Note
	}
	return e
}

// FindExpense returns the index of the expense with the given id, or -1.
func FindExpense(expenses []Expense, id string) int {
	for i, e := range expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}
