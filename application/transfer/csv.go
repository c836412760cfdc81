package transfer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"medscore-backend/domain/catalog"
	pkgerrors "medscore-backend/pkg/errors"
)

// csvHeader is the required column order for parameter CSV imports
var csvHeader = []string{"id", "name", "type", "unit", "tooltip", "storable"}

// ParseParametersCSV decodes a parameter-only CSV import. The first record
// must be the exact header id,name,type,unit,tooltip,storable; row errors
// carry the 1-based row number.
func ParseParametersCSV(payload []byte) ([]catalog.ParameterDefinition, error) {
	reader := csv.NewReader(bytes.NewReader(payload))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, pkgerrors.NewValidationError("CSV payload is empty").WithCause(err)
	}
	if !headerMatches(header) {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf(
			"CSV header must be %q, got %q", strings.Join(csvHeader, ","), strings.Join(header, ",")))
	}

	var parameters []catalog.ParameterDefinition
	seen := make(map[string]int)
	row := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("row %d: malformed CSV record", row)).WithCause(err)
		}

		param, err := parameterFromRecord(record, row)
		if err != nil {
			return nil, err
		}

		if firstRow, dup := seen[param.ID]; dup {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf(
				"row %d: duplicate parameter id %q (first seen on row %d)", row, param.ID, firstRow))
		}
		seen[param.ID] = row
		parameters = append(parameters, param)
	}

	if len(parameters) == 0 {
		return nil, pkgerrors.NewValidationError("CSV contains no parameter rows")
	}

	return parameters, nil
}

func headerMatches(header []string) bool {
	if len(header) != len(csvHeader) {
		return false
	}
	for i, col := range header {
		if strings.ToLower(strings.TrimSpace(col)) != csvHeader[i] {
			return false
		}
	}
	return true
}

func parameterFromRecord(record []string, row int) (catalog.ParameterDefinition, error) {
	var param catalog.ParameterDefinition

	if len(record) != len(csvHeader) {
		return param, pkgerrors.NewValidationError(fmt.Sprintf(
			"row %d: expected %d columns, got %d", row, len(csvHeader), len(record)))
	}

	param = catalog.ParameterDefinition{
		ID:      strings.TrimSpace(record[0]),
		Name:    strings.TrimSpace(record[1]),
		Type:    catalog.ParameterType(strings.TrimSpace(record[2])),
		Unit:    strings.TrimSpace(record[3]),
		Tooltip: strings.TrimSpace(record[4]),
	}

	if param.ID == "" {
		return param, pkgerrors.NewValidationError(fmt.Sprintf("row %d: id is required", row))
	}
	if param.Name == "" {
		return param, pkgerrors.NewValidationError(fmt.Sprintf("row %d: name is required", row))
	}
	if !param.Type.IsValid() {
		return param, pkgerrors.NewValidationError(fmt.Sprintf("row %d: unknown type %q", row, record[2]))
	}
	if param.Type == catalog.ParameterSelect {
		// CSV carries no options; selects must come through JSON import.
		return param, pkgerrors.NewValidationError(fmt.Sprintf(
			"row %d: select parameters cannot be imported via CSV", row))
	}

	switch strings.ToLower(strings.TrimSpace(record[5])) {
	case "true", "yes", "1":
		param.Storable = true
	case "false", "no", "0", "":
		param.Storable = false
	default:
		return param, pkgerrors.NewValidationError(fmt.Sprintf("row %d: invalid storable value %q", row, record[5]))
	}

	return param, nil
}
