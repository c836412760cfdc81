// Package report renders terminal decision nodes into clinical text and a
// printer-friendly variant. Both formatters are pure; the printer variant
// takes the generation time as an argument so output stays deterministic.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"medscore-backend/domain/catalog"
)

// NoRecommendationsText is emitted when a terminal node carries no
// recommendations.
const NoRecommendationsText = "No specific recommendations provided."

// AttributionFooter closes every printer-friendly report.
const AttributionFooter = "Generated by MedScore clinical decision support. Not a substitute for clinical judgment."

// ClinicalText renders a terminal node as clinician-facing text: an
// assessment header, the result content, the optional description and the
// recommendations block.
func ClinicalText(name string, node *catalog.AlgorithmNode) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s Assessment\n\n", name)
	fmt.Fprintf(&b, "Result: %s\n", node.Content)

	if node.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", node.Description)
	}

	b.WriteString("\nRecommendations:\n")
	if len(node.Recommendations) == 0 {
		b.WriteString(NoRecommendationsText)
		b.WriteString("\n")
	} else {
		for _, rec := range node.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}

	return b.String()
}

// PrinterText renders the printer-friendly variant: the clinical text plus a
// generated-date line, a dump of the collected inputs and the attribution
// footer.
func PrinterText(name string, node *catalog.AlgorithmNode, inputs map[string]interface{}, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString(ClinicalText(name, node))
	fmt.Fprintf(&b, "\nGenerated: %s\n", generatedAt.Format("January 2, 2006"))

	if len(inputs) > 0 {
		b.WriteString("\nInputs:\n")
		keys := make([]string, 0, len(inputs))
		for k := range inputs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %s\n", k, FormatValue(inputs[k]))
		}
	}

	b.WriteString("\n")
	b.WriteString(AttributionFooter)
	b.WriteString("\n")

	return b.String()
}

// FormatValue renders a collected input value for the inputs dump. Booleans
// render as Yes/No.
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
