package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medscore-backend/domain/catalog"
)

func TestClinicalText(t *testing.T) {
	t.Run("terminal node with recommendations", func(t *testing.T) {
		node := &catalog.AlgorithmNode{
			ID:              "low",
			Content:         "Low risk",
			Recommendations: []string{"Routine follow-up"},
		}

		text := ClinicalText("HEART Score", node)

		assert.Contains(t, text, "HEART Score Assessment")
		assert.Contains(t, text, "Result: Low risk")
		assert.Equal(t, 1, strings.Count(text, "- Routine follow-up"))
		// No description paragraph between result and recommendations.
		assert.Contains(t, text, "Result: Low risk\n\nRecommendations:")
	})

	t.Run("description paragraph when present", func(t *testing.T) {
		node := &catalog.AlgorithmNode{
			ID:          "high",
			Content:     "High risk",
			Description: "Score exceeds the admission threshold.",
		}

		text := ClinicalText("HEART Score", node)
		assert.Contains(t, text, "Score exceeds the admission threshold.")
	})

	t.Run("no recommendations placeholder", func(t *testing.T) {
		node := &catalog.AlgorithmNode{ID: "low", Content: "Low risk"}
		text := ClinicalText("HEART Score", node)
		assert.Contains(t, text, NoRecommendationsText)
		assert.NotContains(t, text, "- ")
	})

	t.Run("idempotent", func(t *testing.T) {
		node := &catalog.AlgorithmNode{
			ID:              "low",
			Content:         "Low risk",
			Recommendations: []string{"Routine follow-up", "Repeat in 12 months"},
		}
		assert.Equal(t, ClinicalText("HEART Score", node), ClinicalText("HEART Score", node))
	})
}

func TestPrinterText(t *testing.T) {
	node := &catalog.AlgorithmNode{
		ID:              "low",
		Content:         "Low risk",
		Recommendations: []string{"Routine follow-up"},
	}
	generatedAt := time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)

	t.Run("boolean inputs render as Yes and No", func(t *testing.T) {
		text := PrinterText("HEART Score", node, map[string]interface{}{
			"smoker":   true,
			"diabetic": false,
		}, generatedAt)

		assert.Contains(t, text, "smoker: Yes")
		assert.Contains(t, text, "diabetic: No")
	})

	t.Run("date line and footer", func(t *testing.T) {
		text := PrinterText("HEART Score", node, nil, generatedAt)
		assert.Contains(t, text, "Generated: March 14, 2025")
		assert.True(t, strings.HasSuffix(strings.TrimRight(text, "\n"), AttributionFooter))
	})

	t.Run("inputs sorted by key", func(t *testing.T) {
		text := PrinterText("HEART Score", node, map[string]interface{}{
			"zeta":  1.0,
			"alpha": 2.0,
		}, generatedAt)
		require.Less(t, strings.Index(text, "alpha: 2"), strings.Index(text, "zeta: 1"))
	})

	t.Run("deterministic for a fixed clock", func(t *testing.T) {
		inputs := map[string]interface{}{"age": 45.0, "smoker": true}
		first := PrinterText("HEART Score", node, inputs, generatedAt)
		second := PrinterText("HEART Score", node, inputs, generatedAt)
		assert.Equal(t, first, second)
	})
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "Yes", FormatValue(true))
	assert.Equal(t, "No", FormatValue(false))
	assert.Equal(t, "45", FormatValue(45.0))
	assert.Equal(t, "45.5", FormatValue(45.5))
	assert.Equal(t, "mild", FormatValue("mild"))
	assert.Equal(t, "", FormatValue(nil))
}

func TestPrintDocument(t *testing.T) {
	doc := PrintDocument("HEART Score", "Result: Low risk\nsmoker: Yes")

	assert.Contains(t, doc, "<!DOCTYPE html>")
	assert.Contains(t, doc, "<title>HEART Score</title>")
	assert.Contains(t, doc, "<pre>Result: Low risk\nsmoker: Yes</pre>")

	t.Run("escapes markup in the body", func(t *testing.T) {
		doc := PrintDocument("T<b>", "a < b")
		assert.Contains(t, doc, "T&lt;b&gt;")
		assert.Contains(t, doc, "a &lt; b")
		assert.NotContains(t, doc, "<b>")
	})
}
