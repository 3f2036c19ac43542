package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/model"
	"github.com/Veraticus/xpense/internal/service"
	"github.com/Veraticus/xpense/internal/testutil"
)

func TestAddExpense_Defaults(t *testing.T) {
	f := newFixture(t)

	created, err := f.repo.AddExpense(context.Background(), model.ExpensePatch{Amount: model.Ptr(500.0)})
	require.NoError(t, err)

	assert.Equal(t, 500.0, created.Amount)
	assert.Equal(t, "INR", created.Currency)
	assert.Equal(t, "cat5", created.CategoryID)
	assert.Equal(t, "", created.Note)
	assert.WithinDuration(t, testStart, created.Date, time.Second)
	assert.Equal(t, testStart, created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.NotEmpty(t, created.ID)
}

func TestAddExpense_EmptyPatch(t *testing.T) {
	f := newFixture(t)

	created, err := f.repo.AddExpense(context.Background(), model.ExpensePatch{})
	require.NoError(t, err)
	assert.Zero(t, created.Amount)
	assert.Equal(t, "cat5", created.CategoryID)
}

func TestAddExpense_ConfiguredCurrency(t *testing.T) {
	ts := testutil.SetupTestStore(t)
	repo := New(ts.Store, Options{DefaultCurrency: "EUR"})

	created, err := repo.AddExpense(context.Background(), model.ExpensePatch{})
	require.NoError(t, err)
	assert.Equal(t, "EUR", created.Currency)
}

func TestAddExpense_DefaultCategoryWithoutOther(t *testing.T) {
	f := newFixture(t)
	f.store.SeedCategories(
		model.Category{ID: "g", Name: "Groceries"},
		model.Category{ID: "t", Name: "Travel"},
	)

	created, err := f.repo.AddExpense(context.Background(), model.ExpensePatch{})
	require.NoError(t, err)
	assert.Equal(t, "g", created.CategoryID)
}

func TestAddExpense_UnknownCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.repo.AddExpense(context.Background(), model.ExpensePatch{CategoryID: model.Ptr("cat99")})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.False(t, f.store.Has(service.KeyExpenses))
}

func TestAddExpense_PrependsAndAssignsDistinctIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seen := map[string]bool{"1": true, "2": true}
	for i := 0; i < 5; i++ {
		created, err := f.repo.AddExpense(ctx, model.ExpensePatch{Amount: model.Ptr(float64(i))})
		require.NoError(t, err)
		assert.False(t, seen[created.ID], "duplicate id %s", created.ID)
		seen[created.ID] = true
	}

	list, err := f.repo.GetExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 7)
	assert.Equal(t, 4.0, list.Items[0].Amount, "newest first")
	assert.Equal(t, "1", list.Items[5].ID)
	assert.Equal(t, "2", list.Items[6].ID)
}

func TestAddExpense_UUIDByDefault(t *testing.T) {
	ts := testutil.SetupTestStore(t)
	repo := New(ts.Store, Options{})

	a, err := repo.AddExpense(context.Background(), model.ExpensePatch{})
	require.NoError(t, err)
	b, err := repo.AddExpense(context.Background(), model.ExpensePatch{})
	require.NoError(t, err)

	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestImportExpenses(t *testing.T) {
	f := newFixture(t)
	f.store.SeedExpenses(testutil.Expense("old", 1, "cat1", testStart))
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	created, err := f.repo.ImportExpenses(context.Background(), []model.ExpensePatch{
		{Amount: model.Ptr(10.0), Date: &day, Note: model.Ptr("first")},
		{Amount: model.Ptr(20.0), Currency: model.Ptr("USD"), Note: model.Ptr("second")},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "first", created[0].Note)
	assert.Equal(t, day, created[0].Date)
	assert.Equal(t, "USD", created[1].Currency)

	var items []model.Expense
	f.store.MustLoad(service.KeyExpenses, &items)
	notes := []string{items[0].Note, items[1].Note, items[2].ID}
	assert.Equal(t, []string{"second", "first", "old"}, notes)
}

func TestImportExpenses_AllOrNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.repo.ImportExpenses(context.Background(), []model.ExpensePatch{
		{Amount: model.Ptr(1.0)},
		{CategoryID: model.Ptr("missing")},
	})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.False(t, f.store.Has(service.KeyExpenses))

	created, err := f.repo.ImportExpenses(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestUpdateExpense_PreservesCreatedAtAndPosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.repo.AddExpense(ctx, model.ExpensePatch{Amount: model.Ptr(1.0)})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	updated, err := f.repo.UpdateExpense(ctx, "1", model.ExpensePatch{
		Amount:     model.Ptr(1500.0),
		CategoryID: model.Ptr("cat4"),
	})
	require.NoError(t, err)

	assert.Equal(t, "1", updated.ID)
	assert.Equal(t, 1500.0, updated.Amount)
	assert.Equal(t, "cat4", updated.CategoryID)
	assert.Equal(t, "Dinner at Taj", updated.Note)
	assert.Equal(t, testStart, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	list, err := f.repo.GetExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, list.Items[0].ID)
	assert.Equal(t, updated, list.Items[1])
}

func TestUpdateExpense_UpdatedAtAlwaysAdvances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// The clock is frozen, so both updates observe the same instant.
	first, err := f.repo.UpdateExpense(ctx, "2", model.ExpensePatch{Note: model.Ptr("a")})
	require.NoError(t, err)
	second, err := f.repo.UpdateExpense(ctx, "2", model.ExpensePatch{Note: model.Ptr("b")})
	require.NoError(t, err)

	assert.True(t, first.UpdatedAt.After(testStart))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestUpdateExpense_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.repo.UpdateExpense(ctx, "ghost", model.ExpensePatch{Note: model.Ptr("x")})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.repo.UpdateExpense(ctx, "1", model.ExpensePatch{CategoryID: model.Ptr("ghost")})
	assert.ErrorIs(t, err, common.ErrValidation)

	assert.False(t, f.store.Has(service.KeyExpenses))
}

func TestGetExpense(t *testing.T) {
	f := newFixture(t)

	got, err := f.repo.GetExpense(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Uber to Office", got.Note)

	_, err = f.repo.GetExpense(context.Background(), "3")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.DeleteExpense(ctx, "1"))
	list, err := f.repo.GetExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "2", list.Items[0].ID)

	// Absent id is a no-op.
	require.NoError(t, f.repo.DeleteExpense(ctx, "1"))
	list, err = f.repo.GetExpenses(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}
