package repository

import (
	"context"
	"time"

	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/model"
	"github.com/Veraticus/xpense/internal/service"
)

// GetExpenses returns the persisted expenses newest first, or the bootstrap
// samples if none have been saved.
func (r *Repository) GetExpenses(ctx context.Context) (model.ExpenseList, error) {
	if err := r.latency.Wait(ctx, latencyGetExpenses); err != nil {
		return model.ExpenseList{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items, _, err := r.expenses(ctx)
	if err != nil {
		return model.ExpenseList{}, err
	}
	return model.ExpenseList{Items: items}, nil
}

// GetExpense returns a single expense by id.
func (r *Repository) GetExpense(ctx context.Context, id string) (model.Expense, error) {
	if err := r.latency.Wait(ctx, latencyGetExpenses); err != nil {
		return model.Expense{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items, _, err := r.expenses(ctx)
	if err != nil {
		return model.Expense{}, err
	}
	idx := model.FindExpense(items, id)
	if idx < 0 {
		return model.Expense{}, common.NewNotFoundError("expense", id)
	}
	return items[idx], nil
}

// AddExpense creates an expense from patch, filling defaults for absent
// fields, and prepends it to the collection.
func (r *Repository) AddExpense(ctx context.Context, patch model.ExpensePatch) (model.Expense, error) {
	if err := r.latency.Wait(ctx, latencyAddExpense); err != nil {
		return model.Expense{}, err
	}

	created, err := r.insert(ctx, []model.ExpensePatch{patch})
	if err != nil {
		return model.Expense{}, err
	}

	r.logger.Info("Added expense",
		common.FieldOperation, "add_expense",
		common.FieldID, created[0].ID,
		"amount", created[0].Amount,
		"category", created[0].CategoryID)
	return created[0], nil
}

// ImportExpenses adds several expenses in a single commit. The result is in
// input order; the collection ends up as if each had been added in turn.
func (r *Repository) ImportExpenses(ctx context.Context, patches []model.ExpensePatch) ([]model.Expense, error) {
	if len(patches) == 0 {
		return nil, nil
	}
	if err := r.latency.Wait(ctx, latencyAddExpense); err != nil {
		return nil, err
	}

	created, err := r.insert(ctx, patches)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Imported expenses",
		common.FieldOperation, "import_expenses",
		common.FieldCount, len(created))
	return created, nil
}

func (r *Repository) insert(ctx context.Context, patches []model.ExpensePatch) ([]model.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cats, _, err := r.categories(ctx)
	if err != nil {
		return nil, err
	}
	items, version, err := r.expenses(ctx)
	if err != nil {
		return nil, err
	}

	defaultCategory := DefaultCategoryID(cats)
	now := r.now().UTC()

	created := make([]model.Expense, len(patches))
	for i, patch := range patches {
		e := patch.Apply(model.Expense{})
		if e.Currency == "" {
			e.Currency = r.currency
		}
		if patch.Date == nil {
			e.Date = now
		}
		if e.CategoryID == "" {
			e.CategoryID = defaultCategory
		} else if model.FindCategory(cats, e.CategoryID) < 0 {
			return nil, common.NewValidationError("categoryId", "unknown category "+e.CategoryID)
		}
		e.ID = r.newID()
		e.CreatedAt = now
		e.UpdatedAt = now
		created[i] = e
	}

	next := make([]model.Expense, 0, len(items)+len(created))
	for i := len(created) - 1; i >= 0; i-- {
		next = append(next, created[i])
	}
	next = append(next, items...)

	w, err := put(service.KeyExpenses, next, version)
	if err != nil {
		return nil, err
	}
	if err := r.commit(ctx, w); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateExpense merges patch into the expense with the given id, keeping its
// position and creation time.
func (r *Repository) UpdateExpense(ctx context.Context, id string, patch model.ExpensePatch) (model.Expense, error) {
	if err := r.latency.Wait(ctx, latencyUpdateExpense); err != nil {
		return model.Expense{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items, version, err := r.expenses(ctx)
	if err != nil {
		return model.Expense{}, err
	}
	idx := model.FindExpense(items, id)
	if idx < 0 {
		return model.Expense{}, common.NewNotFoundError("expense", id)
	}

	if patch.CategoryID != nil {
		cats, _, err := r.categories(ctx)
		if err != nil {
			return model.Expense{}, err
		}
		if model.FindCategory(cats, *patch.CategoryID) < 0 {
			return model.Expense{}, common.NewValidationError("categoryId", "unknown category "+*patch.CategoryID)
		}
	}

	prev := items[idx]
	updated := patch.Apply(prev)
	updated.ID = prev.ID
	updated.CreatedAt = prev.CreatedAt
	updated.UpdatedAt = r.now().UTC()
	if !updated.UpdatedAt.After(prev.UpdatedAt) {
		updated.UpdatedAt = prev.UpdatedAt.Add(time.Millisecond)
	}
	items[idx] = updated

	w, err := put(service.KeyExpenses, items, version)
	if err != nil {
		return model.Expense{}, err
	}
	if err := r.commit(ctx, w); err != nil {
		return model.Expense{}, err
	}

	r.logger.Debug("Updated expense",
		common.FieldOperation, "update_expense",
		common.FieldID, id)
	return updated, nil
}

// DeleteExpense removes the expense with the given id. Deleting an unknown id
// is not an error.
func (r *Repository) DeleteExpense(ctx context.Context, id string) error {
	if err := r.latency.Wait(ctx, latencyDeleteExpense); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items, version, err := r.expenses(ctx)
	if err != nil {
		return err
	}

	kept := make([]model.Expense, 0, len(items))
	for _, e := range items {
		if e.ID != id {
			kept = append(kept, e)
		}
	}

	w, err := put(service.KeyExpenses, kept, version)
	if err != nil {
		return err
	}
	if err := r.commit(ctx, w); err != nil {
		return err
	}

	r.logger.Debug("Deleted expense",
		common.FieldOperation, "delete_expense",
		common.FieldID, id,
		"removed", len(kept) < len(items))
	return nil
}
