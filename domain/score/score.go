// Package score evaluates calculator definitions: an additive score over the
// collected inputs matched against the definition's interpretation table.
package score

import (
	"fmt"
	"strconv"
	"strings"

	"medscore-backend/domain/catalog"
	pkgerrors "medscore-backend/pkg/errors"
)

// ScreeningPolicy decides how elimination-flagged screening questions are
// applied during evaluation.
type ScreeningPolicy string

const (
	// ScreeningAdvisory carries screening answers on the result without
	// short-circuiting evaluation.
	ScreeningAdvisory ScreeningPolicy = "advisory"
	// ScreeningEliminate ends evaluation with an eliminated result when
	// any elimination-flagged question is answered affirmatively.
	ScreeningEliminate ScreeningPolicy = "eliminate"
)

// ParseScreeningPolicy parses a policy name, defaulting to advisory
func ParseScreeningPolicy(s string) (ScreeningPolicy, error) {
	switch s {
	case "", string(ScreeningAdvisory):
		return ScreeningAdvisory, nil
	case string(ScreeningEliminate):
		return ScreeningEliminate, nil
	}
	return "", fmt.Errorf("unknown screening policy %q", s)
}

// Result is the outcome of a calculator evaluation
type Result struct {
	Score float64 `json:"score"`
	// Interpretation is the matched range, nil when no range contains the
	// score.
	Interpretation *catalog.InterpretationRange `json:"interpretation,omitempty"`
	Notes          string                       `json:"notes,omitempty"`
	// Eliminated is set under the eliminate policy when an elimination
	// question was answered affirmatively; EliminatedBy names it.
	Eliminated   bool            `json:"eliminated,omitempty"`
	EliminatedBy string          `json:"eliminatedBy,omitempty"`
	Screening    map[string]bool `json:"screening,omitempty"`
}

// Evaluator evaluates calculators under a fixed screening policy
type Evaluator struct {
	policy ScreeningPolicy
}

// NewEvaluator creates an evaluator with the given screening policy
func NewEvaluator(policy ScreeningPolicy) *Evaluator {
	if policy == "" {
		policy = ScreeningAdvisory
	}
	return &Evaluator{policy: policy}
}

// Evaluate validates the inputs, applies screening, computes the additive
// score and matches it against the interpretation ranges.
func (e *Evaluator) Evaluate(def *catalog.CalculatorDefinition, inputs map[string]interface{}, screening map[string]bool) (*Result, error) {
	if e.policy == ScreeningEliminate {
		for _, q := range def.ScreeningQuestions {
			if q.Eliminates && screening[q.ID] {
				return &Result{
					Eliminated:   true,
					EliminatedBy: q.ID,
					Screening:    screening,
					Notes:        q.Note,
				}, nil
			}
		}
	}

	if missing := catalog.MissingInputs(def.Parameters, inputs); len(missing) > 0 {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
		).WithDetails(map[string]interface{}{"missing": missing})
	}

	var total float64
	for i := range def.Parameters {
		param := &def.Parameters[i]
		contribution, err := contribution(param, inputs[param.ID])
		if err != nil {
			return nil, err
		}
		total += contribution
	}

	result := &Result{
		Score:     total,
		Notes:     def.Interpretations.Notes,
		Screening: screening,
	}
	for i := range def.Interpretations.Ranges {
		r := &def.Interpretations.Ranges[i]
		if r.Contains(total) {
			result.Interpretation = r
			break
		}
	}

	return result, nil
}

// contribution computes one parameter's score contribution
func contribution(param *catalog.ParameterDefinition, value interface{}) (float64, error) {
	switch param.Type {
	case catalog.ParameterNumber:
		n, err := numericValue(value)
		if err != nil {
			return 0, pkgerrors.NewValidationError(
				fmt.Sprintf("parameter %q expects a number, got %v", param.ID, value))
		}
		return n, nil

	case catalog.ParameterBoolean:
		b, ok := value.(bool)
		if !ok {
			return 0, pkgerrors.NewValidationError(
				fmt.Sprintf("parameter %q expects a boolean, got %v", param.ID, value))
		}
		if !b {
			return 0, nil
		}
		if param.Weight != 0 {
			return param.Weight, nil
		}
		return 1, nil

	case catalog.ParameterSelect:
		s, ok := value.(string)
		if !ok {
			return 0, pkgerrors.NewValidationError(
				fmt.Sprintf("parameter %q expects an option value, got %v", param.ID, value))
		}
		opt, ok := param.OptionByValue(s)
		if !ok {
			return 0, pkgerrors.NewValidationError(
				fmt.Sprintf("parameter %q has no option %q", param.ID, s))
		}
		if opt.Score != 0 {
			return opt.Score, nil
		}
		// Options without explicit scores contribute their value when it
		// parses as a number, otherwise nothing.
		if n, err := strconv.ParseFloat(opt.Value, 64); err == nil {
			return n, nil
		}
		return 0, nil
	}

	return 0, pkgerrors.NewDefinitionError(fmt.Sprintf("parameter %q has unknown type %q", param.ID, param.Type))
}

// numericValue coerces a collected input into a float64
func numericValue(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	}
	return 0, fmt.Errorf("not a number: %v", value)
}
