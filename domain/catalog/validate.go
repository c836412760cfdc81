package catalog

import (
	"fmt"

	pkgerrors "medscore-backend/pkg/errors"
)

// ValidateParameter checks a single parameter definition
func ValidateParameter(param *ParameterDefinition, owner string) error {
	if param.ID == "" {
		return pkgerrors.NewDefinitionError(fmt.Sprintf("%s: parameter with empty id", owner))
	}
	if param.Name == "" {
		return pkgerrors.NewDefinitionError(fmt.Sprintf("%s: parameter %q has no name", owner, param.ID))
	}
	if !param.Type.IsValid() {
		return pkgerrors.NewDefinitionError(fmt.Sprintf("%s: parameter %q has unknown type %q", owner, param.ID, param.Type))
	}
	if param.Type == ParameterSelect && len(param.Options) == 0 {
		return pkgerrors.NewDefinitionError(fmt.Sprintf("%s: select parameter %q has no options", owner, param.ID))
	}
	if param.Type != ParameterSelect && len(param.Options) > 0 {
		return pkgerrors.NewDefinitionError(fmt.Sprintf("%s: parameter %q has options but is not a select", owner, param.ID))
	}
	return nil
}

func validateParameterList(parameters []ParameterDefinition, owner string) error {
	seen := make(map[string]bool, len(parameters))
	for i := range parameters {
		param := &parameters[i]
		if err := ValidateParameter(param, owner); err != nil {
			return err
		}
		if seen[param.ID] {
			return pkgerrors.NewDefinitionError(fmt.Sprintf("%s: duplicate parameter id %q", owner, param.ID))
		}
		seen[param.ID] = true
	}
	return nil
}

// ValidateAlgorithm checks the structural integrity of an algorithm
// definition: the entry node exists and every edge targets a known node.
// Dangling edges are a load-time error, not a runtime fallback.
func ValidateAlgorithm(def *AlgorithmDefinition) error {
	if def.ID == "" {
		return pkgerrors.NewDefinitionError("algorithm with empty id")
	}
	if def.Name == "" {
		return pkgerrors.NewDefinitionError(fmt.Sprintf("algorithm %q has no name", def.ID))
	}
	if len(def.Nodes) == 0 {
		return pkgerrors.NewDefinitionError(fmt.Sprintf("algorithm %q has no nodes", def.ID))
	}
	if def.EntryNode == "" {
		return pkgerrors.NewDefinitionError(fmt.Sprintf("algorithm %q has no entry node", def.ID))
	}
	if _, ok := def.Nodes[def.EntryNode]; !ok {
		return pkgerrors.NewDefinitionError(fmt.Sprintf("algorithm %q: entry node %q does not exist", def.ID, def.EntryNode))
	}

	for id, node := range def.Nodes {
		if node == nil {
			return pkgerrors.NewDefinitionError(fmt.Sprintf("algorithm %q: node %q is empty", def.ID, id))
		}
		if node.ID != "" && node.ID != id {
			return pkgerrors.NewDefinitionError(fmt.Sprintf("algorithm %q: node keyed %q declares id %q", def.ID, id, node.ID))
		}
		for answer, target := range node.Edges {
			if _, ok := def.Nodes[target]; !ok {
				return pkgerrors.NewDefinitionError(fmt.Sprintf(
					"algorithm %q: node %q edge %q targets unknown node %q", def.ID, id, answer, target))
			}
		}
	}

	stepIDs := make(map[string]bool, len(def.Steps))
	for i := range def.Steps {
		step := &def.Steps[i]
		if step.ID == "" {
			return pkgerrors.NewDefinitionError(fmt.Sprintf("algorithm %q: step with empty id", def.ID))
		}
		if stepIDs[step.ID] {
			return pkgerrors.NewDefinitionError(fmt.Sprintf("algorithm %q: duplicate step id %q", def.ID, step.ID))
		}
		stepIDs[step.ID] = true
		if err := validateParameterList(step.Parameters, fmt.Sprintf("algorithm %q step %q", def.ID, step.ID)); err != nil {
			return err
		}
	}

	return nil
}

// ValidateCalculator checks the structural integrity of a calculator
// definition.
func ValidateCalculator(def *CalculatorDefinition) error {
	if def.ID == "" {
		return pkgerrors.NewDefinitionError("calculator with empty id")
	}
	if def.Name == "" {
		return pkgerrors.NewDefinitionError(fmt.Sprintf("calculator %q has no name", def.ID))
	}
	if len(def.Parameters) == 0 {
		return pkgerrors.NewDefinitionError(fmt.Sprintf("calculator %q has no parameters", def.ID))
	}
	if err := validateParameterList(def.Parameters, fmt.Sprintf("calculator %q", def.ID)); err != nil {
		return err
	}

	seen := make(map[string]bool, len(def.ScreeningQuestions))
	for _, q := range def.ScreeningQuestions {
		if q.ID == "" {
			return pkgerrors.NewDefinitionError(fmt.Sprintf("calculator %q: screening question with empty id", def.ID))
		}
		if seen[q.ID] {
			return pkgerrors.NewDefinitionError(fmt.Sprintf("calculator %q: duplicate screening question id %q", def.ID, q.ID))
		}
		seen[q.ID] = true
	}

	for _, r := range def.Interpretations.Ranges {
		if r.Label == "" {
			return pkgerrors.NewDefinitionError(fmt.Sprintf("calculator %q: interpretation range without label", def.ID))
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return pkgerrors.NewDefinitionError(fmt.Sprintf(
				"calculator %q: interpretation %q has min above max", def.ID, r.Label))
		}
	}

	return nil
}
