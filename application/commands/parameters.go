package commands

import pkgerrors "medscore-backend/pkg/errors"

// SaveParameterCommand upserts a storable parameter value for an owner
type SaveParameterCommand struct {
	OwnerID     string
	ParameterID string
	Name        string
	Value       interface{}
	Unit        string
}

// Validate implements bus.Command
func (c SaveParameterCommand) Validate() error {
	if c.OwnerID == "" {
		return pkgerrors.NewValidationError("owner id is required")
	}
	if c.ParameterID == "" {
		return pkgerrors.NewValidationError("parameter id is required")
	}
	if c.Value == nil {
		return pkgerrors.NewValidationError("value is required")
	}
	if s, ok := c.Value.(string); ok && s == "" {
		return pkgerrors.NewValidationError("value is required")
	}
	return nil
}

// RemoveParameterCommand deletes a stored parameter; absent ids are a no-op
type RemoveParameterCommand struct {
	OwnerID     string
	ParameterID string
}

// Validate implements bus.Command
func (c RemoveParameterCommand) Validate() error {
	if c.OwnerID == "" {
		return pkgerrors.NewValidationError("owner id is required")
	}
	if c.ParameterID == "" {
		return pkgerrors.NewValidationError("parameter id is required")
	}
	return nil
}

// ClearParametersCommand empties an owner's parameter store
type ClearParametersCommand struct {
	OwnerID string
}

// Validate implements bus.Command
func (c ClearParametersCommand) Validate() error {
	if c.OwnerID == "" {
		return pkgerrors.NewValidationError("owner id is required")
	}
	return nil
}
