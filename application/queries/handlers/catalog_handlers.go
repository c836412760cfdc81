package handlers

import (
	"context"
	"fmt"

	"medscore-backend/application/ports"
	"medscore-backend/application/queries"
	"medscore-backend/application/queries/bus"
	"medscore-backend/domain/catalog"
	"medscore-backend/pkg/common"
)

// CalculatorSummary is the list-view projection of a calculator
type CalculatorSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Parameters  int    `json:"parameterCount"`
}

// AlgorithmSummary is the list-view projection of an algorithm
type AlgorithmSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Nodes       int    `json:"nodeCount"`
}

// ListCalculatorsHandler lists calculators with category filtering and
// pagination
type ListCalculatorsHandler struct {
	catalogs ports.CatalogProvider
}

// NewListCalculatorsHandler creates the handler
func NewListCalculatorsHandler(catalogs ports.CatalogProvider) *ListCalculatorsHandler {
	return &ListCalculatorsHandler{catalogs: catalogs}
}

// Handle implements bus.QueryHandler
func (h *ListCalculatorsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListCalculatorsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	defs := h.catalogs.Current().ListCalculators(q.Category)
	summaries := make([]CalculatorSummary, 0, len(defs))
	for _, def := range defs {
		summaries = append(summaries, CalculatorSummary{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Category:    def.Category,
			Parameters:  len(def.Parameters),
		})
	}

	page, pageSize := normalizePage(q.Page, q.PageSize)
	start, end := pageBounds(len(summaries), page, pageSize)
	return common.NewPaginatedResult(summaries[start:end], page, pageSize, len(summaries)), nil
}

// GetCalculatorHandler fetches one calculator definition
type GetCalculatorHandler struct {
	catalogs ports.CatalogProvider
}

// NewGetCalculatorHandler creates the handler
func NewGetCalculatorHandler(catalogs ports.CatalogProvider) *GetCalculatorHandler {
	return &GetCalculatorHandler{catalogs: catalogs}
}

// Handle implements bus.QueryHandler
func (h *GetCalculatorHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetCalculatorQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.catalogs.Current().Calculator(q.CalculatorID)
}

// ListAlgorithmsHandler lists algorithms with category filtering and
// pagination
type ListAlgorithmsHandler struct {
	catalogs ports.CatalogProvider
}

// NewListAlgorithmsHandler creates the handler
func NewListAlgorithmsHandler(catalogs ports.CatalogProvider) *ListAlgorithmsHandler {
	return &ListAlgorithmsHandler{catalogs: catalogs}
}

// Handle implements bus.QueryHandler
func (h *ListAlgorithmsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListAlgorithmsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	defs := h.catalogs.Current().ListAlgorithms(q.Category)
	summaries := make([]AlgorithmSummary, 0, len(defs))
	for _, def := range defs {
		summaries = append(summaries, AlgorithmSummary{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Category:    def.Category,
			Nodes:       len(def.Nodes),
		})
	}

	page, pageSize := normalizePage(q.Page, q.PageSize)
	start, end := pageBounds(len(summaries), page, pageSize)
	return common.NewPaginatedResult(summaries[start:end], page, pageSize, len(summaries)), nil
}

// GetAlgorithmHandler fetches one algorithm definition
type GetAlgorithmHandler struct {
	catalogs ports.CatalogProvider
}

// NewGetAlgorithmHandler creates the handler
func NewGetAlgorithmHandler(catalogs ports.CatalogProvider) *GetAlgorithmHandler {
	return &GetAlgorithmHandler{catalogs: catalogs}
}

// Handle implements bus.QueryHandler
func (h *GetAlgorithmHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetAlgorithmQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.catalogs.Current().Algorithm(q.AlgorithmID)
}

func normalizePage(page, pageSize int) (int, int) {
	defaults := common.DefaultPaginationParams()
	if page < 1 {
		page = defaults.Page
	}
	if pageSize < 1 {
		pageSize = defaults.PageSize
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func pageBounds(total, page, pageSize int) (int, int) {
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return start, end
}

// fetchAlgorithm is shared by the evaluate and report handlers
func fetchAlgorithm(catalogs ports.CatalogProvider, id string) (*catalog.AlgorithmDefinition, error) {
	return catalogs.Current().Algorithm(id)
}
