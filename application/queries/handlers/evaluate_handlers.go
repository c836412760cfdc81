package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"medscore-backend/application/ports"
	"medscore-backend/application/queries"
	"medscore-backend/application/queries/bus"
	"medscore-backend/domain/catalog"
	"medscore-backend/domain/score"
	"medscore-backend/domain/traversal"
)

// AlgorithmEvaluation is the result of one algorithm submission
type AlgorithmEvaluation struct {
	AlgorithmID string                  `json:"algorithmId"`
	Status      traversal.OutcomeStatus `json:"status"`
	Node        *catalog.AlgorithmNode  `json:"node"`
	Path        []string                `json:"path"`
}

// EvaluateAlgorithmHandler validates a step submission and walks the
// decision tree
type EvaluateAlgorithmHandler struct {
	catalogs ports.CatalogProvider
	walker   *traversal.Walker
	logger   *zap.Logger
}

// NewEvaluateAlgorithmHandler creates the handler
func NewEvaluateAlgorithmHandler(catalogs ports.CatalogProvider, walker *traversal.Walker, logger *zap.Logger) *EvaluateAlgorithmHandler {
	return &EvaluateAlgorithmHandler{catalogs: catalogs, walker: walker, logger: logger}
}

// Handle implements bus.QueryHandler
func (h *EvaluateAlgorithmHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.EvaluateAlgorithmQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	def, err := fetchAlgorithm(h.catalogs, q.AlgorithmID)
	if err != nil {
		return nil, err
	}

	if q.StepID != "" {
		step, ok := def.Step(q.StepID)
		if !ok {
			return nil, stepNotFound(def.ID, q.StepID)
		}
		if err := traversal.ValidateStep(step, q.Inputs); err != nil {
			return nil, err
		}
	}

	answers := make(map[string]string, len(q.Answers))
	for nodeID, value := range q.Answers {
		answers[nodeID] = traversal.NormalizeAnswer(value)
	}

	outcome, err := h.walker.Walk(def, answers)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Algorithm evaluated",
		zap.String("algorithmID", def.ID),
		zap.String("status", string(outcome.Status)),
		zap.Int("pathLength", len(outcome.Path)),
	)

	return &AlgorithmEvaluation{
		AlgorithmID: def.ID,
		Status:      outcome.Status,
		Node:        outcome.Node,
		Path:        outcome.Path,
	}, nil
}

// EvaluateCalculatorHandler scores a calculator submission
type EvaluateCalculatorHandler struct {
	catalogs  ports.CatalogProvider
	evaluator *score.Evaluator
	logger    *zap.Logger
}

// NewEvaluateCalculatorHandler creates the handler
func NewEvaluateCalculatorHandler(catalogs ports.CatalogProvider, evaluator *score.Evaluator, logger *zap.Logger) *EvaluateCalculatorHandler {
	return &EvaluateCalculatorHandler{catalogs: catalogs, evaluator: evaluator, logger: logger}
}

// Handle implements bus.QueryHandler
func (h *EvaluateCalculatorHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.EvaluateCalculatorQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	def, err := h.catalogs.Current().Calculator(q.CalculatorID)
	if err != nil {
		return nil, err
	}

	result, err := h.evaluator.Evaluate(def, q.Inputs, q.Screening)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Calculator evaluated",
		zap.String("calculatorID", def.ID),
		zap.Float64("score", result.Score),
		zap.Bool("eliminated", result.Eliminated),
	)
	return result, nil
}
