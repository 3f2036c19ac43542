package categories

// Fixture represents a predefined set of categories for testing.
type Fixture interface {
	// Name returns the fixture's descriptive name.
	Name() string

	// Categories returns the category names included in this fixture.
	Categories() []CategoryName
}

// fixture implements the Fixture interface.
type fixture struct {
	name       string
	categories []CategoryName
}

func (f *fixture) Name() string               { return f.name }
func (f *fixture) Categories() []CategoryName { return f.categories }

// Predefined fixtures for common test scenarios.
var (
	// FixtureMinimal has no "Other" category, so defaults fall to the first entry.
	FixtureMinimal = &fixture{
		name: "Minimal",
		categories: []CategoryName{
			CategoryGroceries,
			CategoryTravel,
		},
	}

	// FixtureStandard mirrors the names of the bootstrap set.
	FixtureStandard = &fixture{
		name: "Standard",
		categories: []CategoryName{
			CategoryFood,
			CategoryTransport,
			CategoryShopping,
			CategoryBills,
			CategoryOther,
		},
	}
)

// CompositeFixture allows combining multiple fixtures.
type CompositeFixture struct {
	name     string
	fixtures []Fixture
}

// NewCompositeFixture creates a fixture that combines multiple fixtures.
func NewCompositeFixture(name string, fixtures ...Fixture) Fixture {
	return &CompositeFixture{
		name:     name,
		fixtures: fixtures,
	}
}

func (c *CompositeFixture) Name() string { return c.name }

func (c *CompositeFixture) Categories() []CategoryName {
	seen := make(map[CategoryName]struct{})
	var categories []CategoryName

	for _, f := range c.fixtures {
		for _, cat := range f.Categories() {
			if _, exists := seen[cat]; !exists {
				seen[cat] = struct{}{}
				categories = append(categories, cat)
			}
		}
	}

	return categories
}
