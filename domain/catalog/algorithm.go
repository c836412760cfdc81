package catalog

// AlgorithmStep is one screen of inputs collected before or during a
// decision-tree walk.
type AlgorithmStep struct {
	ID          string                `json:"id" yaml:"id"`
	Title       string                `json:"title" yaml:"title"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Question    string                `json:"question,omitempty" yaml:"question,omitempty"`
	Parameters  []ParameterDefinition `json:"parameters" yaml:"parameters"`
}

// AlgorithmNode is one node of an algorithm's decision tree. A node with no
// outgoing edges is terminal and carries the result content.
type AlgorithmNode struct {
	ID              string   `json:"id" yaml:"id"`
	Content         string   `json:"content" yaml:"content"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	Recommendations []string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
	// Edges maps an answer value to the next node id.
	Edges map[string]string `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// IsTerminal reports whether the node ends traversal
func (n *AlgorithmNode) IsTerminal() bool {
	return len(n.Edges) == 0
}

// AlgorithmDefinition is a declarative decision-tree algorithm
type AlgorithmDefinition struct {
	ID          string                    `json:"id" yaml:"id"`
	Name        string                    `json:"name" yaml:"name"`
	Description string                    `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string                    `json:"category,omitempty" yaml:"category,omitempty"`
	EntryNode   string                    `json:"entryNode" yaml:"entryNode"`
	Nodes       map[string]*AlgorithmNode `json:"nodes" yaml:"nodes"`
	Steps       []AlgorithmStep           `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// Step returns the step with the given id
func (d *AlgorithmDefinition) Step(id string) (*AlgorithmStep, bool) {
	for i := range d.Steps {
		if d.Steps[i].ID == id {
			return &d.Steps[i], true
		}
	}
	return nil, false
}

// Node returns the node with the given id
func (d *AlgorithmDefinition) Node(id string) (*AlgorithmNode, bool) {
	node, ok := d.Nodes[id]
	return node, ok
}
