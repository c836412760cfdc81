// Package transfer implements the admin import/export codecs. The JSON
// schema mirrors the definition data model exactly; CSV covers
// parameter-only import.
package transfer

import (
	"encoding/json"

	"github.com/google/uuid"

	"medscore-backend/domain/catalog"
	pkgerrors "medscore-backend/pkg/errors"
)

// Document is the admin exchange format for definitions
type Document struct {
	Algorithms  []*catalog.AlgorithmDefinition  `json:"algorithms,omitempty"`
	Calculators []*catalog.CalculatorDefinition `json:"calculators,omitempty"`
}

// ParseJSON decodes and validates an admin definitions document.
// Definitions without an id are assigned one.
func ParseJSON(payload []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, pkgerrors.NewValidationError("invalid JSON document").WithCause(err)
	}

	if len(doc.Algorithms) == 0 && len(doc.Calculators) == 0 {
		return nil, pkgerrors.NewValidationError("document contains no definitions")
	}

	for _, def := range doc.Algorithms {
		if def.ID == "" {
			def.ID = uuid.New().String()
		}
		if err := catalog.ValidateAlgorithm(def); err != nil {
			return nil, err
		}
	}
	for _, def := range doc.Calculators {
		if def.ID == "" {
			def.ID = uuid.New().String()
		}
		if err := catalog.ValidateCalculator(def); err != nil {
			return nil, err
		}
	}

	return &doc, nil
}

// ExportJSON renders the current catalog as an admin definitions document
func ExportJSON(cat *catalog.Catalog) ([]byte, error) {
	doc := Document{
		Algorithms:  cat.ListAlgorithms(""),
		Calculators: cat.ListCalculators(""),
	}
	return json.MarshalIndent(doc, "", "  ")
}
