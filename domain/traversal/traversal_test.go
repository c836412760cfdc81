package traversal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medscore-backend/domain/catalog"
	pkgerrors "medscore-backend/pkg/errors"
)

func chestPainAlgorithm() *catalog.AlgorithmDefinition {
	return &catalog.AlgorithmDefinition{
		ID:        "chest-pain",
		Name:      "Chest Pain Triage",
		EntryNode: "onset",
		Nodes: map[string]*catalog.AlgorithmNode{
			"onset": {
				ID:      "onset",
				Content: "Was onset within the last 6 hours?",
				Edges:   map[string]string{"true": "ecg", "false": "low"},
			},
			"ecg": {
				ID:      "ecg",
				Content: "Is the ECG abnormal?",
				Edges:   map[string]string{"true": "high", "false": "low"},
			},
			"high": {
				ID:              "high",
				Content:         "High risk",
				Recommendations: []string{"Immediate cardiology consult"},
			},
			"low": {
				ID:      "low",
				Content: "Low risk",
			},
		},
	}
}

func TestValidateStep(t *testing.T) {
	step := &catalog.AlgorithmStep{
		ID: "vitals",
		Parameters: []catalog.ParameterDefinition{
			{ID: "age", Name: "Age", Type: catalog.ParameterNumber},
			{ID: "diabetic", Name: "Diabetic", Type: catalog.ParameterBoolean},
		},
	}

	t.Run("missing field is named", func(t *testing.T) {
		err := ValidateStep(step, map[string]interface{}{"age": 45.0})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
		assert.Contains(t, err.Error(), "diabetic")
		assert.NotContains(t, err.Error(), "age")
	})

	t.Run("false is a valid value", func(t *testing.T) {
		err := ValidateStep(step, map[string]interface{}{"age": 45.0, "diabetic": false})
		assert.NoError(t, err)
	})

	t.Run("empty string is missing", func(t *testing.T) {
		err := ValidateStep(step, map[string]interface{}{"age": "", "diabetic": true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "age")
	})

	t.Run("nil is missing", func(t *testing.T) {
		err := ValidateStep(step, map[string]interface{}{"age": nil, "diabetic": true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "age")
	})
}

func TestWalk(t *testing.T) {
	def := chestPainAlgorithm()
	walker := NewWalker(EdgePolicyError)

	t.Run("terminal with ordered path", func(t *testing.T) {
		outcome, err := walker.Walk(def, map[string]string{"onset": "true", "ecg": "true"})
		require.NoError(t, err)
		assert.Equal(t, OutcomeTerminal, outcome.Status)
		assert.Equal(t, "high", outcome.Node.ID)
		assert.Equal(t, []string{"onset", "ecg", "high"}, outcome.Path)
	})

	t.Run("short branch", func(t *testing.T) {
		outcome, err := walker.Walk(def, map[string]string{"onset": "false"})
		require.NoError(t, err)
		assert.Equal(t, OutcomeTerminal, outcome.Status)
		assert.Equal(t, "low", outcome.Node.ID)
		assert.Equal(t, []string{"onset", "low"}, outcome.Path)
	})

	t.Run("pending names the unanswered node", func(t *testing.T) {
		outcome, err := walker.Walk(def, map[string]string{"onset": "true"})
		require.NoError(t, err)
		assert.Equal(t, OutcomePending, outcome.Status)
		assert.Equal(t, "ecg", outcome.Node.ID)
	})

	t.Run("missing edge errors under error policy", func(t *testing.T) {
		_, err := walker.Walk(def, map[string]string{"onset": "maybe"})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsDefinition(err))
	})

	t.Run("missing edge is early terminal under terminal policy", func(t *testing.T) {
		lenient := NewWalker(EdgePolicyTerminal)
		outcome, err := lenient.Walk(def, map[string]string{"onset": "maybe"})
		require.NoError(t, err)
		assert.Equal(t, OutcomeTerminal, outcome.Status)
		assert.Equal(t, "onset", outcome.Node.ID)
	})

	t.Run("cycle is rejected", func(t *testing.T) {
		cyclic := chestPainAlgorithm()
		cyclic.Nodes["ecg"].Edges["false"] = "onset"
		_, err := walker.Walk(cyclic, map[string]string{"onset": "true", "ecg": "false"})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsDefinition(err))
	})
}

func TestAdvance(t *testing.T) {
	def := chestPainAlgorithm()
	walker := NewWalker(EdgePolicyError)

	t.Run("follows the matching edge", func(t *testing.T) {
		node, err := walker.Advance(def, "onset", "true")
		require.NoError(t, err)
		assert.Equal(t, "ecg", node.ID)
	})

	t.Run("terminal advances to itself", func(t *testing.T) {
		node, err := walker.Advance(def, "low", "true")
		require.NoError(t, err)
		assert.Equal(t, "low", node.ID)
	})

	t.Run("unknown node", func(t *testing.T) {
		_, err := walker.Advance(def, "nope", "true")
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestParseEdgePolicy(t *testing.T) {
	policy, err := ParseEdgePolicy("")
	require.NoError(t, err)
	assert.Equal(t, EdgePolicyError, policy)

	policy, err = ParseEdgePolicy("terminal")
	require.NoError(t, err)
	assert.Equal(t, EdgePolicyTerminal, policy)

	_, err = ParseEdgePolicy("fallthrough")
	assert.Error(t, err)
}

func TestNormalizeAnswer(t *testing.T) {
	assert.Equal(t, "true", NormalizeAnswer(true))
	assert.Equal(t, "false", NormalizeAnswer(false))
	assert.Equal(t, "45", NormalizeAnswer(45.0))
	assert.Equal(t, "mild", NormalizeAnswer("mild"))
	assert.Equal(t, "", NormalizeAnswer(nil))
}
