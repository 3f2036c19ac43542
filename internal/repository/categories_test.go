package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/model"
	"github.com/Veraticus/xpense/internal/service"
	"github.com/Veraticus/xpense/internal/testutil"
	"github.com/Veraticus/xpense/internal/testutil/categories"
)

func TestSaveCategory_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.repo.SaveCategory(ctx, model.CategoryPatch{Name: model.Ptr("Pets")})
	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, model.DefaultCategoryColor, created.Color)

	withColor, err := f.repo.SaveCategory(ctx, model.CategoryPatch{Name: model.Ptr("Gym"), Color: model.Ptr("#000000")})
	require.NoError(t, err)
	assert.Equal(t, "#000000", withColor.Color)

	var stored []model.Category
	f.store.MustLoad(service.KeyCategories, &stored)
	require.Len(t, stored, 7)
	assert.Equal(t, created, stored[5])
	assert.Equal(t, withColor, stored[6])
}

func TestSaveCategory_CreateRequiresName(t *testing.T) {
	f := newFixture(t)

	for _, name := range []*string{nil, model.Ptr(""), model.Ptr("   ")} {
		_, err := f.repo.SaveCategory(context.Background(), model.CategoryPatch{Name: name})
		assert.ErrorIs(t, err, common.ErrValidation)
	}
	assert.False(t, f.store.Has(service.KeyCategories))
}

func TestSaveCategory_Merge(t *testing.T) {
	f := newFixture(t)

	saved, err := f.repo.SaveCategory(context.Background(), model.CategoryPatch{ID: "cat2", Color: model.Ptr("#abcdef")})
	require.NoError(t, err)
	assert.Equal(t, model.Category{ID: "cat2", Name: "Transport", Color: "#abcdef"}, saved)

	cats, err := f.repo.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, saved, cats[1])
	assert.Len(t, cats, 5)
}

func TestSaveCategory_UnknownID(t *testing.T) {
	f := newFixture(t)

	_, err := f.repo.SaveCategory(context.Background(), model.CategoryPatch{ID: "nope", Name: model.Ptr("X")})

	var nf *common.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "category", nf.Kind)
	assert.Equal(t, "nope", nf.ID)
	assert.False(t, f.store.Has(service.KeyCategories))
}

func TestDeleteCategory_ReassignsToNewFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.SeedExpenses(
		testutil.Expense("e1", 100, "cat1", testStart),
		testutil.Expense("e2", 200, "cat3", testStart),
	)

	require.NoError(t, f.repo.DeleteCategory(ctx, "cat1"))

	cats, err := f.repo.GetCategories(ctx)
	require.NoError(t, err)
	ids := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"cat2", "cat3", "cat4", "cat5"}, ids)

	list, err := f.repo.GetExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cat2", list.Items[0].CategoryID)
	assert.Equal(t, "cat3", list.Items[1].CategoryID)
}

func TestDeleteCategory_LeavesNoDanglingReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Bootstrap expenses reference cat1 and cat2.
	for _, id := range []string{"cat1", "cat2", "cat5"} {
		require.NoError(t, f.repo.DeleteCategory(ctx, id))

		cats, err := f.repo.GetCategories(ctx)
		require.NoError(t, err)
		list, err := f.repo.GetExpenses(ctx)
		require.NoError(t, err)

		for _, e := range list.Items {
			assert.GreaterOrEqual(t, model.FindCategory(cats, e.CategoryID), 0,
				"expense %s points at deleted category %s", e.ID, e.CategoryID)
		}
	}
}

func TestDeleteCategory_RefusesLast(t *testing.T) {
	f := newFixture(t)
	f.store.SeedCategories(model.Category{ID: "only", Name: "Only"})

	err := f.repo.DeleteCategory(context.Background(), "only")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorIs(t, err, common.ErrLastCategory)

	var cats []model.Category
	f.store.MustLoad(service.KeyCategories, &cats)
	assert.Len(t, cats, 1)
}

func TestDeleteCategory_UnknownID(t *testing.T) {
	f := newFixture(t)

	err := f.repo.DeleteCategory(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.False(t, f.store.Has(service.KeyExpenses))
}

func TestDeleteCategory_IsAtomic(t *testing.T) {
	f := newFixture(t)
	f.store.SeedExpenses(testutil.Expense("e1", 1, "cat1", testStart))

	// Another writer bumps the category collection after we read it.
	racing := &racingStore{KeyValueStore: f.store.Store, before: func() {
		f.store.SeedCategories(BootstrapCategories()...)
	}}
	repo := New(racing, Options{Clock: f.clock.Now})

	err := repo.DeleteCategory(context.Background(), "cat1")
	require.ErrorIs(t, err, common.ErrVersionConflict)

	var items []model.Expense
	f.store.MustLoad(service.KeyExpenses, &items)
	assert.Equal(t, "cat1", items[0].CategoryID, "expenses must be untouched when the commit fails")
}

func TestAddExpense_DefaultCategoryResolvedAtRuntime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seeded := categories.NewBuilder(t).WithFixture(categories.FixtureMinimal).Models()
	f.store.SeedCategories(seeded...)

	// No "Other": the first category is the default
	e, err := f.repo.AddExpense(ctx, model.ExpensePatch{Amount: model.Ptr(80.0)})
	require.NoError(t, err)
	assert.Equal(t, seeded.MustFind(t, categories.CategoryGroceries).ID, e.CategoryID)

	built, err := categories.NewBuilder(t).
		WithColoredCategory(categories.CategoryOther, "#8b5cf6").
		Build(ctx, f.repo)
	require.NoError(t, err)

	e, err = f.repo.AddExpense(ctx, model.ExpensePatch{Amount: model.Ptr(20.0)})
	require.NoError(t, err)
	assert.Equal(t, built.MustFind(t, categories.CategoryOther).ID, e.CategoryID)
}

func TestDeleteCategory_StandardFixture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cats := categories.NewBuilder(t).WithFixture(categories.FixtureStandard).Models()
	food := cats.MustFind(t, categories.CategoryFood)
	transport := cats.MustFind(t, categories.CategoryTransport)
	f.store.SeedCategories(cats...)
	f.store.SeedExpenses(
		testutil.Expense("e1", 100, food.ID, testStart),
		testutil.Expense("e2", 200, transport.ID, testStart),
	)

	require.NoError(t, f.repo.DeleteCategory(ctx, food.ID))

	remaining, err := f.repo.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Transport", "Shopping", "Bills", "Other"}, categories.Categories(remaining).Names())

	list, err := f.repo.GetExpenses(ctx)
	require.NoError(t, err)
	for _, e := range list.Items {
		assert.Equal(t, transport.ID, e.CategoryID, e.ID)
	}
}
