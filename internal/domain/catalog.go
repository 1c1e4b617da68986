package domain

import (
	"fmt"
	"sort"
)

// Catalog is the ordered, immutable set of scenarios served to students.
// Scenarios are kept sorted by ascending ID. It is safe for concurrent use
// because it is never mutated after construction.
type Catalog struct {
	scenarios []Scenario
	index     map[int]int
}

// NewCatalog validates the given scenarios and returns them as a Catalog
// sorted by ID. It fails on the first invalid scenario or duplicate ID.
func NewCatalog(scenarios []Scenario) (*Catalog, error) {
	sorted := make([]Scenario, len(scenarios))
	copy(sorted, scenarios)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	index := make(map[int]int, len(sorted))
	for i := range sorted {
		if err := sorted[i].Validate(); err != nil {
			return nil, err
		}
		if _, exists := index[sorted[i].ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateScenario, sorted[i].ID)
		}
		index[sorted[i].ID] = i
	}

	return &Catalog{scenarios: sorted, index: index}, nil
}

// Size returns the number of scenarios.
func (c *Catalog) Size() int {
	return len(c.scenarios)
}

// FirstID returns the smallest scenario ID, or DoneScenarioID for an empty catalog.
func (c *Catalog) FirstID() int {
	if len(c.scenarios) == 0 {
		return DoneScenarioID
	}
	return c.scenarios[0].ID
}

// NextID returns the smallest scenario ID strictly greater than after.
// The boolean is false when no such scenario exists.
func (c *Catalog) NextID(after int) (int, bool) {
	i := sort.Search(len(c.scenarios), func(i int) bool {
		return c.scenarios[i].ID > after
	})
	if i == len(c.scenarios) {
		return DoneScenarioID, false
	}
	return c.scenarios[i].ID, true
}

// IsLast reports whether id is the highest scenario ID in the catalog.
func (c *Catalog) IsLast(id int) bool {
	return len(c.scenarios) > 0 && c.scenarios[len(c.scenarios)-1].ID == id
}

// Has reports whether the catalog contains a scenario with the given ID.
func (c *Catalog) Has(id int) bool {
	_, ok := c.index[id]
	return ok
}

// Get returns the scenario with the given ID.
func (c *Catalog) Get(id int) (Scenario, bool) {
	i, ok := c.index[id]
	if !ok {
		return Scenario{}, false
	}
	return c.scenarios[i], true
}

// IDs returns every scenario ID in ascending order.
func (c *Catalog) IDs() []int {
	ids := make([]int, len(c.scenarios))
	for i, s := range c.scenarios {
		ids[i] = s.ID
	}
	return ids
}

// Scenarios returns a copy of the scenarios in ascending ID order.
func (c *Catalog) Scenarios() []Scenario {
	out := make([]Scenario, len(c.scenarios))
	copy(out, c.scenarios)
	return out
}
