package catalog

import (
	"fmt"
	"sort"

	pkgerrors "medscore-backend/pkg/errors"
)

// Catalog is an immutable registry of validated definitions. A catalog is
// rebuilt as a whole on reload and swapped atomically by its owner; the
// struct itself is never mutated after New returns.
type Catalog struct {
	algorithms  map[string]*AlgorithmDefinition
	calculators map[string]*CalculatorDefinition
}

// New builds a catalog from definition lists, validating every definition.
// A single invalid definition rejects the whole catalog.
func New(algorithms []*AlgorithmDefinition, calculators []*CalculatorDefinition) (*Catalog, error) {
	c := &Catalog{
		algorithms:  make(map[string]*AlgorithmDefinition, len(algorithms)),
		calculators: make(map[string]*CalculatorDefinition, len(calculators)),
	}

	for _, def := range algorithms {
		if err := ValidateAlgorithm(def); err != nil {
			return nil, err
		}
		if _, exists := c.algorithms[def.ID]; exists {
			return nil, pkgerrors.NewDefinitionError(fmt.Sprintf("duplicate algorithm id %q", def.ID))
		}
		c.algorithms[def.ID] = def
	}

	for _, def := range calculators {
		if err := ValidateCalculator(def); err != nil {
			return nil, err
		}
		if _, exists := c.calculators[def.ID]; exists {
			return nil, pkgerrors.NewDefinitionError(fmt.Sprintf("duplicate calculator id %q", def.ID))
		}
		c.calculators[def.ID] = def
	}

	return c, nil
}

// Algorithm returns the algorithm with the given id
func (c *Catalog) Algorithm(id string) (*AlgorithmDefinition, error) {
	def, ok := c.algorithms[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("algorithm %q", id))
	}
	return def, nil
}

// Calculator returns the calculator with the given id
func (c *Catalog) Calculator(id string) (*CalculatorDefinition, error) {
	def, ok := c.calculators[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("calculator %q", id))
	}
	return def, nil
}

// ListAlgorithms returns algorithms, optionally filtered by category,
// sorted by name.
func (c *Catalog) ListAlgorithms(category string) []*AlgorithmDefinition {
	defs := make([]*AlgorithmDefinition, 0, len(c.algorithms))
	for _, def := range c.algorithms {
		if category != "" && def.Category != category {
			continue
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// ListCalculators returns calculators, optionally filtered by category,
// sorted by name.
func (c *Catalog) ListCalculators(category string) []*CalculatorDefinition {
	defs := make([]*CalculatorDefinition, 0, len(c.calculators))
	for _, def := range c.calculators {
		if category != "" && def.Category != category {
			continue
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Counts returns the number of algorithms and calculators
func (c *Catalog) Counts() (algorithms, calculators int) {
	return len(c.algorithms), len(c.calculators)
}
