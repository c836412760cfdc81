package queries

import pkgerrors "medscore-backend/pkg/errors"

// ListCalculatorsQuery lists catalog calculators
type ListCalculatorsQuery struct {
	Category string
	Page     int
	PageSize int
}

// Validate implements bus.Query
func (q ListCalculatorsQuery) Validate() error { return nil }

// GetCalculatorQuery fetches one calculator definition
type GetCalculatorQuery struct {
	CalculatorID string
}

// Validate implements bus.Query
func (q GetCalculatorQuery) Validate() error {
	if q.CalculatorID == "" {
		return pkgerrors.NewValidationError("calculator id is required")
	}
	return nil
}

// ListAlgorithmsQuery lists catalog algorithms
type ListAlgorithmsQuery struct {
	Category string
	Page     int
	PageSize int
}

// Validate implements bus.Query
func (q ListAlgorithmsQuery) Validate() error { return nil }

// GetAlgorithmQuery fetches one algorithm definition
type GetAlgorithmQuery struct {
	AlgorithmID string
}

// Validate implements bus.Query
func (q GetAlgorithmQuery) Validate() error {
	if q.AlgorithmID == "" {
		return pkgerrors.NewValidationError("algorithm id is required")
	}
	return nil
}

// EvaluateAlgorithmQuery runs one submission against an algorithm: validate
// the submitted step's inputs, then walk the decision tree with the
// collected answers.
type EvaluateAlgorithmQuery struct {
	AlgorithmID string
	// StepID names the step whose inputs are being submitted; empty when
	// the algorithm collects no step inputs.
	StepID  string
	Inputs  map[string]interface{}
	Answers map[string]interface{}
}

// Validate implements bus.Query
func (q EvaluateAlgorithmQuery) Validate() error {
	if q.AlgorithmID == "" {
		return pkgerrors.NewValidationError("algorithm id is required")
	}
	return nil
}

// EvaluateCalculatorQuery scores a calculator submission
type EvaluateCalculatorQuery struct {
	CalculatorID string
	Inputs       map[string]interface{}
	Screening    map[string]bool
}

// Validate implements bus.Query
func (q EvaluateCalculatorQuery) Validate() error {
	if q.CalculatorID == "" {
		return pkgerrors.NewValidationError("calculator id is required")
	}
	return nil
}

// GetReportQuery formats a terminal node into clinical and printer text
type GetReportQuery struct {
	AlgorithmID string
	NodeID      string
	Inputs      map[string]interface{}
}

// Validate implements bus.Query
func (q GetReportQuery) Validate() error {
	if q.AlgorithmID == "" {
		return pkgerrors.NewValidationError("algorithm id is required")
	}
	if q.NodeID == "" {
		return pkgerrors.NewValidationError("node id is required")
	}
	return nil
}

// ExportDefinitionsQuery exports the full catalog as an admin JSON document
type ExportDefinitionsQuery struct{}

// Validate implements bus.Query
func (q ExportDefinitionsQuery) Validate() error { return nil }

// ListParametersQuery lists an owner's stored parameters
type ListParametersQuery struct {
	OwnerID string
}

// Validate implements bus.Query
func (q ListParametersQuery) Validate() error {
	if q.OwnerID == "" {
		return pkgerrors.NewValidationError("owner id is required")
	}
	return nil
}

// GetParameterQuery fetches one stored parameter value
type GetParameterQuery struct {
	OwnerID     string
	ParameterID string
}

// Validate implements bus.Query
func (q GetParameterQuery) Validate() error {
	if q.OwnerID == "" {
		return pkgerrors.NewValidationError("owner id is required")
	}
	if q.ParameterID == "" {
		return pkgerrors.NewValidationError("parameter id is required")
	}
	return nil
}
