package commands

import (
	"medscore-backend/application/ports"

	pkgerrors "medscore-backend/pkg/errors"
)

// ImportFormat identifies an admin import payload format
type ImportFormat string

const (
	// FormatJSON imports full definitions mirroring the catalog model
	FormatJSON ImportFormat = "json"
	// FormatCSV imports parameter definitions only
	FormatCSV ImportFormat = "csv"
)

// ImportDefinitionsCommand imports definitions from an admin upload
type ImportDefinitionsCommand struct {
	Actor   string
	Format  ImportFormat
	Payload []byte
	// CalculatorID receives CSV-imported parameters; required for CSV.
	CalculatorID string
}

// Validate implements bus.Command
func (c ImportDefinitionsCommand) Validate() error {
	if c.Actor == "" {
		return pkgerrors.NewValidationError("actor is required")
	}
	if len(c.Payload) == 0 {
		return pkgerrors.NewValidationError("payload is empty")
	}
	switch c.Format {
	case FormatJSON:
	case FormatCSV:
		if c.CalculatorID == "" {
			return pkgerrors.NewValidationError("calculator id is required for CSV import")
		}
	default:
		return pkgerrors.NewValidationError("unknown import format")
	}
	return nil
}

// DeleteDefinitionCommand removes an admin-managed definition
type DeleteDefinitionCommand struct {
	Actor string
	Kind  ports.DefinitionKind
	ID    string
}

// Validate implements bus.Command
func (c DeleteDefinitionCommand) Validate() error {
	if c.Actor == "" {
		return pkgerrors.NewValidationError("actor is required")
	}
	if c.Kind != ports.KindAlgorithm && c.Kind != ports.KindCalculator {
		return pkgerrors.NewValidationError("unknown definition kind")
	}
	if c.ID == "" {
		return pkgerrors.NewValidationError("definition id is required")
	}
	return nil
}
