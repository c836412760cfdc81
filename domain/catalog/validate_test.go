package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "medscore-backend/pkg/errors"
)

func validAlgorithm() *AlgorithmDefinition {
	return &AlgorithmDefinition{
		ID:        "sepsis-screen",
		Name:      "Sepsis Screening",
		EntryNode: "fever",
		Nodes: map[string]*AlgorithmNode{
			"fever": {Content: "Fever above 38C?", Edges: map[string]string{"true": "labs", "false": "done"}},
			"labs":  {Content: "Lactate above 2?", Edges: map[string]string{"true": "done", "false": "done"}},
			"done":  {Content: "Screen complete"},
		},
	}
}

func validCalculator() *CalculatorDefinition {
	return &CalculatorDefinition{
		ID:   "curb-65",
		Name: "CURB-65",
		Parameters: []ParameterDefinition{
			{ID: "confusion", Name: "Confusion", Type: ParameterBoolean},
			{ID: "urea", Name: "Urea", Type: ParameterNumber, Unit: "mmol/L"},
			{ID: "severity", Name: "Severity", Type: ParameterSelect, Options: []Option{
				{Value: "mild", Label: "Mild"},
				{Value: "severe", Label: "Severe", Score: 2},
			}},
		},
	}
}

func TestValidateAlgorithm(t *testing.T) {
	t.Run("valid definition passes", func(t *testing.T) {
		assert.NoError(t, ValidateAlgorithm(validAlgorithm()))
	})

	t.Run("dangling edge target rejected", func(t *testing.T) {
		def := validAlgorithm()
		def.Nodes["labs"].Edges["true"] = "missing"
		err := ValidateAlgorithm(def)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsDefinition(err))
		assert.Contains(t, err.Error(), "missing")
	})

	t.Run("unknown entry node rejected", func(t *testing.T) {
		def := validAlgorithm()
		def.EntryNode = "nowhere"
		assert.Error(t, ValidateAlgorithm(def))
	})

	t.Run("node id mismatch rejected", func(t *testing.T) {
		def := validAlgorithm()
		def.Nodes["fever"].ID = "chills"
		assert.Error(t, ValidateAlgorithm(def))
	})

	t.Run("step with optionless select rejected", func(t *testing.T) {
		def := validAlgorithm()
		def.Steps = []AlgorithmStep{{
			ID: "inputs",
			Parameters: []ParameterDefinition{
				{ID: "source", Name: "Infection source", Type: ParameterSelect},
			},
		}}
		err := ValidateAlgorithm(def)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsDefinition(err))
	})
}

func TestValidateCalculator(t *testing.T) {
	t.Run("valid definition passes", func(t *testing.T) {
		assert.NoError(t, ValidateCalculator(validCalculator()))
	})

	t.Run("select without options rejected", func(t *testing.T) {
		def := validCalculator()
		def.Parameters[2].Options = nil
		err := ValidateCalculator(def)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsDefinition(err))
	})

	t.Run("duplicate parameter ids rejected", func(t *testing.T) {
		def := validCalculator()
		def.Parameters = append(def.Parameters, ParameterDefinition{
			ID: "urea", Name: "Urea again", Type: ParameterNumber,
		})
		assert.Error(t, ValidateCalculator(def))
	})

	t.Run("unknown parameter type rejected", func(t *testing.T) {
		def := validCalculator()
		def.Parameters[0].Type = "date"
		assert.Error(t, ValidateCalculator(def))
	})

	t.Run("inverted interpretation range rejected", func(t *testing.T) {
		def := validCalculator()
		lo, hi := 5.0, 2.0
		def.Interpretations.Ranges = []InterpretationRange{{Min: &lo, Max: &hi, Label: "Backwards"}}
		assert.Error(t, ValidateCalculator(def))
	})
}

func TestCatalogNew(t *testing.T) {
	t.Run("registers and looks up definitions", func(t *testing.T) {
		c, err := New([]*AlgorithmDefinition{validAlgorithm()}, []*CalculatorDefinition{validCalculator()})
		require.NoError(t, err)

		alg, err := c.Algorithm("sepsis-screen")
		require.NoError(t, err)
		assert.Equal(t, "Sepsis Screening", alg.Name)

		_, err = c.Calculator("nope")
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("duplicate ids rejected", func(t *testing.T) {
		_, err := New([]*AlgorithmDefinition{validAlgorithm(), validAlgorithm()}, nil)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsDefinition(err))
	})

	t.Run("one invalid definition rejects the catalog", func(t *testing.T) {
		bad := validAlgorithm()
		bad.EntryNode = "nowhere"
		_, err := New([]*AlgorithmDefinition{bad}, nil)
		assert.Error(t, err)
	})

	t.Run("list filters by category and sorts by name", func(t *testing.T) {
		a := validAlgorithm()
		a.ID, a.Name, a.Category = "b-alg", "Zeta Screen", "emergency"
		b := validAlgorithm()
		b.ID, b.Name, b.Category = "a-alg", "Alpha Screen", "emergency"
		other := validAlgorithm()
		other.ID, other.Name, other.Category = "c-alg", "Cardiology Screen", "cardiology"

		c, err := New([]*AlgorithmDefinition{a, b, other}, nil)
		require.NoError(t, err)

		listed := c.ListAlgorithms("emergency")
		require.Len(t, listed, 2)
		assert.Equal(t, "Alpha Screen", listed[0].Name)
		assert.Equal(t, "Zeta Screen", listed[1].Name)
	})
}

func TestMissingInputs(t *testing.T) {
	parameters := []ParameterDefinition{
		{ID: "age", Name: "Age", Type: ParameterNumber},
		{ID: "diabetic", Name: "Diabetic", Type: ParameterBoolean},
	}

	assert.Equal(t, []string{"diabetic"}, MissingInputs(parameters, map[string]interface{}{"age": 45.0}))
	assert.Nil(t, MissingInputs(parameters, map[string]interface{}{"age": 45.0, "diabetic": false}))
	assert.Equal(t, []string{"age"}, MissingInputs(parameters, map[string]interface{}{"age": "", "diabetic": true}))
}
