// Package traversal implements the decision-tree walk: required-input
// validation for a step, single-node advancement, and the full walk from an
// algorithm's entry node to a terminal node.
package traversal

import (
	"fmt"
	"strconv"
	"strings"

	"medscore-backend/domain/catalog"
	pkgerrors "medscore-backend/pkg/errors"
)

// EdgePolicy decides what happens when a non-terminal node has no edge
// matching the collected answer.
type EdgePolicy string

const (
	// EdgePolicyError surfaces a missing edge as a definition-integrity
	// error. This is the default: load-time validation already rejects
	// dangling edge targets, so a missing edge key at runtime is a
	// definition bug.
	EdgePolicyError EdgePolicy = "error"
	// EdgePolicyTerminal treats the current node as a terminal reached
	// early, matching the lenient behavior of older definitions.
	EdgePolicyTerminal EdgePolicy = "terminal"
)

// ParseEdgePolicy parses a policy name, defaulting to EdgePolicyError
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch s {
	case "", string(EdgePolicyError):
		return EdgePolicyError, nil
	case string(EdgePolicyTerminal):
		return EdgePolicyTerminal, nil
	}
	return "", fmt.Errorf("unknown edge policy %q", s)
}

// OutcomeStatus describes how a walk ended
type OutcomeStatus string

const (
	// OutcomeTerminal means a terminal node was reached
	OutcomeTerminal OutcomeStatus = "terminal"
	// OutcomePending means the walk stopped at a node whose answer has
	// not been collected yet
	OutcomePending OutcomeStatus = "pending"
)

// Outcome is the result of a walk
type Outcome struct {
	Status OutcomeStatus
	// Node is the terminal node for OutcomeTerminal, or the node awaiting
	// an answer for OutcomePending.
	Node *catalog.AlgorithmNode
	// Path is the ordered list of visited node ids, including Node.
	Path []string
}

// Walker walks algorithm decision trees under a fixed edge policy
type Walker struct {
	policy EdgePolicy
}

// NewWalker creates a walker with the given missing-edge policy
func NewWalker(policy EdgePolicy) *Walker {
	if policy == "" {
		policy = EdgePolicyError
	}
	return &Walker{policy: policy}
}

// ValidateStep checks that every parameter of the step has a usable value.
// The error names all missing fields so the UI can surface them inline.
func ValidateStep(step *catalog.AlgorithmStep, inputs map[string]interface{}) error {
	missing := catalog.MissingInputs(step.Parameters, inputs)
	if len(missing) == 0 {
		return nil
	}
	return pkgerrors.NewValidationError(
		fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
	).WithDetails(map[string]interface{}{"missing": missing})
}

// Advance returns the node that follows nodeID for the given answer. A
// terminal node advances to itself.
func (w *Walker) Advance(def *catalog.AlgorithmDefinition, nodeID, answer string) (*catalog.AlgorithmNode, error) {
	node, ok := def.Node(nodeID)
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("node %q of algorithm %q", nodeID, def.ID))
	}
	if node.IsTerminal() {
		return node, nil
	}

	targetID, ok := node.Edges[answer]
	if !ok {
		if w.policy == EdgePolicyTerminal {
			return node, nil
		}
		return nil, pkgerrors.NewDefinitionError(fmt.Sprintf(
			"algorithm %q: node %q has no edge for answer %q", def.ID, nodeID, answer))
	}

	next, ok := def.Node(targetID)
	if !ok {
		// Unreachable for catalogs built through catalog.New; kept for
		// definitions evaluated before registration.
		return nil, pkgerrors.NewDefinitionError(fmt.Sprintf(
			"algorithm %q: edge target %q does not exist", def.ID, targetID))
	}
	return next, nil
}

// Walk traverses the tree from the entry node, choosing edges from the
// answers map (keyed by node id). It stops at a terminal node, at the first
// node without a collected answer, or with an error under the error edge
// policy. Revisiting a node means the definition encodes a cycle and is
// rejected.
func (w *Walker) Walk(def *catalog.AlgorithmDefinition, answers map[string]string) (*Outcome, error) {
	node, ok := def.Node(def.EntryNode)
	if !ok {
		return nil, pkgerrors.NewDefinitionError(fmt.Sprintf(
			"algorithm %q: entry node %q does not exist", def.ID, def.EntryNode))
	}

	visited := make(map[string]bool, len(def.Nodes))
	path := []string{node.ID}
	visited[node.ID] = true

	for !node.IsTerminal() {
		answer, answered := answers[node.ID]
		if !answered {
			return &Outcome{Status: OutcomePending, Node: node, Path: path}, nil
		}

		next, err := w.Advance(def, node.ID, answer)
		if err != nil {
			return nil, err
		}
		if next.ID == node.ID {
			// Terminal-policy fallback on a missing edge.
			break
		}
		if visited[next.ID] {
			return nil, pkgerrors.NewDefinitionError(fmt.Sprintf(
				"algorithm %q: cycle detected at node %q", def.ID, next.ID))
		}

		node = next
		visited[node.ID] = true
		path = append(path, node.ID)
	}

	return &Outcome{Status: OutcomeTerminal, Node: node, Path: path}, nil
}

// NormalizeAnswer renders a collected input value as an edge key. Booleans
// become "true"/"false", numbers their shortest decimal form.
func NormalizeAnswer(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
