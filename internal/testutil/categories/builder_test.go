package categories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/xpense/internal/repository"
	"github.com/Veraticus/xpense/internal/testutil"
	"github.com/Veraticus/xpense/internal/testutil/categories"
)

func TestBuilder_Build(t *testing.T) {
	ts := testutil.SetupTestStore(t)
	ts.SeedCategories()
	repo := repository.New(ts.Store, repository.Options{NewID: testutil.SequentialIDs("cat")})

	cats, err := categories.NewBuilder(t).
		WithCategory(categories.CategoryGroceries).
		WithColoredCategory(categories.CategoryTravel, "#123456").
		WithCategory(categories.CategoryGroceries).
		Build(context.Background(), repo)
	require.NoError(t, err)

	assert.Equal(t, []string{"Groceries", "Travel"}, cats.Names())
	assert.Equal(t, "cat-1", cats.MustFind(t, categories.CategoryGroceries).ID)
	assert.Equal(t, "#123456", cats.MustFind(t, categories.CategoryTravel).Color)

	stored, err := repo.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestBuilder_Models(t *testing.T) {
	cats := categories.NewBuilder(t).WithFixture(categories.FixtureStandard).Models()

	require.Len(t, cats, 5)
	assert.Equal(t, "test-cat-1", cats[0].ID)
	assert.Equal(t, "Food", cats[0].Name)
	assert.Nil(t, cats.Find("Missing"))
}

func TestCompositeFixture_Deduplicates(t *testing.T) {
	f := categories.NewCompositeFixture("both", categories.FixtureMinimal, categories.FixtureMinimal, categories.FixtureStandard)

	assert.Equal(t, "both", f.Name())
	assert.Len(t, f.Categories(), 7)
}
