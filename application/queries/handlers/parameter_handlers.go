package handlers

import (
	"context"
	"fmt"

	"medscore-backend/application/ports"
	"medscore-backend/application/queries"
	"medscore-backend/application/queries/bus"
	"medscore-backend/application/services"
	"medscore-backend/application/transfer"
	pkgerrors "medscore-backend/pkg/errors"
)

// ListParametersHandler lists an owner's stored parameters
type ListParametersHandler struct {
	sessions *services.ParameterSessions
}

// NewListParametersHandler creates the handler
func NewListParametersHandler(sessions *services.ParameterSessions) *ListParametersHandler {
	return &ListParametersHandler{sessions: sessions}
}

// Handle implements bus.QueryHandler
func (h *ListParametersHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListParametersQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.sessions.Session(ctx, q.OwnerID).List(), nil
}

// GetParameterHandler fetches one stored parameter
type GetParameterHandler struct {
	sessions *services.ParameterSessions
}

// NewGetParameterHandler creates the handler
func NewGetParameterHandler(sessions *services.ParameterSessions) *GetParameterHandler {
	return &GetParameterHandler{sessions: sessions}
}

// Handle implements bus.QueryHandler
func (h *GetParameterHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetParameterQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	stored, ok := h.sessions.Session(ctx, q.OwnerID).Get(q.ParameterID)
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("parameter %q", q.ParameterID))
	}
	return stored, nil
}

// ExportDefinitionsHandler exports the catalog as an admin JSON document
type ExportDefinitionsHandler struct {
	catalogs ports.CatalogProvider
}

// NewExportDefinitionsHandler creates the handler
func NewExportDefinitionsHandler(catalogs ports.CatalogProvider) *ExportDefinitionsHandler {
	return &ExportDefinitionsHandler{catalogs: catalogs}
}

// Handle implements bus.QueryHandler. The result is the marshalled document,
// ready to stream to the client.
func (h *ExportDefinitionsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	if _, ok := query.(queries.ExportDefinitionsQuery); !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return transfer.ExportJSON(h.catalogs.Current())
}
