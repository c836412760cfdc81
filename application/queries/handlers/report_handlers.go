package handlers

import (
	"context"
	"fmt"
	"time"

	"medscore-backend/application/ports"
	"medscore-backend/application/queries"
	"medscore-backend/application/queries/bus"
	"medscore-backend/domain/report"
	pkgerrors "medscore-backend/pkg/errors"
)

// Report carries both renderings of a terminal node
type Report struct {
	AlgorithmID string    `json:"algorithmId"`
	Title       string    `json:"title"`
	NodeID      string    `json:"nodeId"`
	Clinical    string    `json:"clinical"`
	Printer     string    `json:"printer"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// GetReportHandler formats a terminal node into clinical and printer text
type GetReportHandler struct {
	catalogs ports.CatalogProvider
	now      func() time.Time
}

// NewGetReportHandler creates the handler
func NewGetReportHandler(catalogs ports.CatalogProvider) *GetReportHandler {
	return &GetReportHandler{catalogs: catalogs, now: time.Now}
}

// Handle implements bus.QueryHandler
func (h *GetReportHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetReportQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	def, err := fetchAlgorithm(h.catalogs, q.AlgorithmID)
	if err != nil {
		return nil, err
	}
	node, ok := def.Node(q.NodeID)
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("node %q of algorithm %q", q.NodeID, def.ID))
	}

	generatedAt := h.now()
	return &Report{
		AlgorithmID: def.ID,
		Title:       fmt.Sprintf("%s Assessment", def.Name),
		NodeID:      node.ID,
		Clinical:    report.ClinicalText(def.Name, node),
		Printer:     report.PrinterText(def.Name, node, q.Inputs, generatedAt),
		GeneratedAt: generatedAt,
	}, nil
}

func stepNotFound(algorithmID, stepID string) error {
	return pkgerrors.NewNotFoundError(fmt.Sprintf("step %q of algorithm %q", stepID, algorithmID))
}
