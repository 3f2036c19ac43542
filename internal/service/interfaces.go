// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/xpense/internal/model"
)

// Logical keys of the persistent store.
const (
	KeyUser       = "xpense_user"
	KeyToken      = "xpense_token"
	KeyExpenses   = "xpense_expenses"
	KeyCategories = "xpense_categories"
)

// AllKeys lists every key the client persists.
var AllKeys = []string{KeyUser, KeyToken, KeyExpenses, KeyCategories}

// AnyVersion disables the version check of a Write.
const AnyVersion int64 = -1

// Entry is a stored JSON-text value and the version it was written at.
type Entry struct {
	Value   string
	Version int64
}

// Write is a single key mutation inside a Commit.
// ExpectVersion 0 requires the key to be absent; AnyVersion skips the check.
type Write struct {
	Key           string
	Value         string
	ExpectVersion int64
	Delete        bool
}

// KeyValueStore is the persistent surface the repository and session sit on.
type KeyValueStore interface {
	// Get returns the entry for key, or an error matching common.ErrNotFound.
	Get(ctx context.Context, key string) (Entry, error)
	// Commit applies all writes atomically or none of them.
	// A failed version check yields common.ErrVersionConflict.
	Commit(ctx context.Context, writes ...Write) error
	Close() error
}

// Repository is the record layer consumed by the presentation layer.
type Repository interface {
	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	SaveCategory(ctx context.Context, patch model.CategoryPatch) (model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// Expense operations
	GetExpenses(ctx context.Context) (model.ExpenseList, error)
	GetExpense(ctx context.Context, id string) (model.Expense, error)
	AddExpense(ctx context.Context, patch model.ExpensePatch) (model.Expense, error)
	ImportExpenses(ctx context.Context, patches []model.ExpensePatch) ([]model.Expense, error)
	UpdateExpense(ctx context.Context, id string, patch model.ExpensePatch) (model.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
}

// Credentials are passed through to an Authenticator untouched.
type Credentials struct {
	Email    string
	Password string
}

// Authenticator is the external identity provider.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (model.User, string, error)
}

// SessionManager holds the current user and token.
type SessionManager interface {
	Login(ctx context.Context, auth Authenticator, creds Credentials) (model.User, error)
	SetSession(ctx context.Context, user model.User, token string) error
	GetSession(ctx context.Context) (model.User, error)
	Token(ctx context.Context) (string, error)
	UpdateProfile(ctx context.Context, patch model.ProfilePatch) (model.User, error)
	Logout(ctx context.Context) error
	Reset(ctx context.Context) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
