package catalog

// ScreeningQuestion is a yes/no question asked before a calculator's
// parameters. Whether an affirmative answer eliminates the patient from the
// calculator or is advisory only is a runtime policy, not part of the data.
type ScreeningQuestion struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
	// Eliminates flags the question as an elimination question under the
	// eliminate screening policy.
	Eliminates bool   `json:"eliminates,omitempty" yaml:"eliminates,omitempty"`
	Note       string `json:"note,omitempty" yaml:"note,omitempty"`
}

// InterpretationRange maps a score interval to a clinical interpretation.
// Nil bounds are open-ended; both bounds are inclusive.
type InterpretationRange struct {
	Min         *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Label       string   `json:"label" yaml:"label"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Contains reports whether the score falls inside the range
func (r *InterpretationRange) Contains(score float64) bool {
	if r.Min != nil && score < *r.Min {
		return false
	}
	if r.Max != nil && score > *r.Max {
		return false
	}
	return true
}

// Interpretations holds a calculator's score interpretation table
type Interpretations struct {
	Ranges []InterpretationRange `json:"ranges,omitempty" yaml:"ranges,omitempty"`
	Notes  string                `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Reference is a literature reference attached to a definition
type Reference struct {
	Title    string `json:"title" yaml:"title"`
	Citation string `json:"citation,omitempty" yaml:"citation,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
}

// CalculatorDefinition is a declarative scoring tool: a parameter list plus
// an interpretation table.
type CalculatorDefinition struct {
	ID                 string                `json:"id" yaml:"id"`
	Name               string                `json:"name" yaml:"name"`
	Description        string                `json:"description,omitempty" yaml:"description,omitempty"`
	Category           string                `json:"category,omitempty" yaml:"category,omitempty"`
	Parameters         []ParameterDefinition `json:"parameters" yaml:"parameters"`
	ScreeningQuestions []ScreeningQuestion   `json:"screeningQuestions,omitempty" yaml:"screeningQuestions,omitempty"`
	Interpretations    Interpretations       `json:"interpretations,omitempty" yaml:"interpretations,omitempty"`
	References         []Reference           `json:"references,omitempty" yaml:"references,omitempty"`
}

// Parameter returns the parameter with the given id
func (d *CalculatorDefinition) Parameter(id string) (*ParameterDefinition, bool) {
	for i := range d.Parameters {
		if d.Parameters[i].ID == id {
			return &d.Parameters[i], true
		}
	}
	return nil, false
}
