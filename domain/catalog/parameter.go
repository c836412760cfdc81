package catalog

// ParameterType enumerates the supported input field types
type ParameterType string

const (
	ParameterNumber  ParameterType = "number"
	ParameterBoolean ParameterType = "boolean"
	ParameterSelect  ParameterType = "select"
)

// IsValid reports whether the type is one of the supported types
func (t ParameterType) IsValid() bool {
	switch t {
	case ParameterNumber, ParameterBoolean, ParameterSelect:
		return true
	}
	return false
}

// Option is a single choice of a select parameter
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
	// Score is the value the option contributes to an additive score.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// ParameterDefinition describes a single typed input field.
// Definitions are immutable after catalog load.
type ParameterDefinition struct {
	ID      string        `json:"id" yaml:"id"`
	Name    string        `json:"name" yaml:"name"`
	Type    ParameterType `json:"type" yaml:"type"`
	Unit    string        `json:"unit,omitempty" yaml:"unit,omitempty"`
	Tooltip string        `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	// Storable marks the parameter as persistable for reuse across
	// calculators.
	Storable bool `json:"storable,omitempty" yaml:"storable,omitempty"`
	// Weight is the score contribution of a true boolean parameter.
	// Zero means the default weight of 1.
	Weight  float64  `json:"weight,omitempty" yaml:"weight,omitempty"`
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// OptionByValue returns the option with the given value
func (p *ParameterDefinition) OptionByValue(value string) (Option, bool) {
	for _, opt := range p.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

// MissingInputs returns the ids of parameters that have no usable value in
// the input map. A value is missing when the key is absent, the value is
// nil, or the value is an empty string; false and zero are valid values.
func MissingInputs(parameters []ParameterDefinition, inputs map[string]interface{}) []string {
	var missing []string
	for _, param := range parameters {
		value, ok := inputs[param.ID]
		if !ok || value == nil {
			missing = append(missing, param.ID)
			continue
		}
		if s, isString := value.(string); isString && s == "" {
			missing = append(missing, param.ID)
		}
	}
	return missing
}
