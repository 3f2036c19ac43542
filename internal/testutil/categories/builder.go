// Package categories provides a fluent API for seeding categories in tests.
//
// Example usage:
//
//	cats, err := categories.NewBuilder(t).
//		WithFixture(categories.FixtureMinimal).
//		WithCategory("Custom Category").
//		Build(ctx, repo)
package categories

import (
	"context"
	"fmt"
	"testing"

	"github.com/Veraticus/xpense/internal/model"
	"github.com/Veraticus/xpense/internal/service"
)

// Builder provides a fluent interface for constructing test categories.
type Builder interface {
	// WithCategory adds a single category to the builder.
	WithCategory(name CategoryName) Builder

	// WithColoredCategory adds a category with an explicit color.
	WithColoredCategory(name CategoryName, color string) Builder

	// WithCategories adds multiple categories to the builder.
	WithCategories(names ...CategoryName) Builder

	// WithFixture adds categories from a predefined fixture.
	WithFixture(fixture Fixture) Builder

	// Build saves the categories through repo, in the order they were added.
	Build(ctx context.Context, repo service.Repository) (Categories, error)

	// Models returns the categories with deterministic ids without saving them.
	Models() Categories
}

// CategoryName represents a strongly-typed category name.
type CategoryName string

// String returns the string representation of the category name.
func (c CategoryName) String() string {
	return string(c)
}

// Common category names used across tests.
const (
	CategoryFood          CategoryName = "Food"
	CategoryTransport     CategoryName = "Transport"
	CategoryShopping      CategoryName = "Shopping"
	CategoryBills         CategoryName = "Bills"
	CategoryOther         CategoryName = "Other"
	CategoryGroceries     CategoryName = "Groceries"
	CategoryEntertainment CategoryName = "Entertainment"
	CategoryTravel        CategoryName = "Travel"
	CategoryHealth        CategoryName = "Health"
)

// Categories represents a collection of created test categories.
type Categories []model.Category

// Find returns the category with the given name, or nil if not found.
func (c Categories) Find(name CategoryName) *model.Category {
	for i := range c {
		if c[i].Name == name.String() {
			return &c[i]
		}
	}
	return nil
}

// MustFind returns the category with the given name, or fails the test if not found.
func (c Categories) MustFind(t *testing.T, name CategoryName) model.Category {
	t.Helper()
	cat := c.Find(name)
	if cat == nil {
		t.Fatalf("category %q not found in test data", name)
	}
	return *cat
}

// Names returns all category names as a slice of strings.
func (c Categories) Names() []string {
	names := make([]string, len(c))
	for i, cat := range c {
		names[i] = cat.Name
	}
	return names
}

type entry struct {
	name  CategoryName
	color string
}

// categoryBuilder implements the Builder interface.
type categoryBuilder struct {
	t       *testing.T
	seen    map[CategoryName]struct{}
	entries []entry
}

// NewBuilder creates a new category builder for the given test.
func NewBuilder(t *testing.T) Builder {
	t.Helper()
	return &categoryBuilder{
		t:    t,
		seen: make(map[CategoryName]struct{}),
	}
}

func (b *categoryBuilder) WithCategory(name CategoryName) Builder {
	return b.WithColoredCategory(name, "")
}

func (b *categoryBuilder) WithColoredCategory(name CategoryName, color string) Builder {
	if _, dup := b.seen[name]; dup {
		return b
	}
	b.seen[name] = struct{}{}
	b.entries = append(b.entries, entry{name: name, color: color})
	return b
}

func (b *categoryBuilder) WithCategories(names ...CategoryName) Builder {
	for _, name := range names {
		b.WithCategory(name)
	}
	return b
}

func (b *categoryBuilder) WithFixture(fixture Fixture) Builder {
	return b.WithCategories(fixture.Categories()...)
}

func (b *categoryBuilder) Build(ctx context.Context, repo service.Repository) (Categories, error) {
	b.t.Helper()

	result := make(Categories, 0, len(b.entries))
	for _, e := range b.entries {
		name := e.name.String()
		patch := model.CategoryPatch{Name: &name}
		if e.color != "" {
			color := e.color
			patch.Color = &color
		}

		created, err := repo.SaveCategory(ctx, patch)
		if err != nil {
			return nil, fmt.Errorf("failed to create category %q: %w", name, err)
		}
		result = append(result, created)
	}
	return result, nil
}

func (b *categoryBuilder) Models() Categories {
	result := make(Categories, len(b.entries))
	for i, e := range b.entries {
		color := e.color
		if color == "" {
			color = model.DefaultCategoryColor
		}
		result[i] = model.Category{
			ID:    fmt.Sprintf("test-cat-%d", i+1),
			Name:  e.name.String(),
			Color: color,
		}
	}
	return result
}
