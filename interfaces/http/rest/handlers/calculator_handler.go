// Package handlers implements the REST endpoint handlers. Handlers parse and
// authorize the request, dispatch through the command or query bus, and
// render the result; all domain logic lives behind the buses.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"medscore-backend/application/queries"
	querybus "medscore-backend/application/queries/bus"
	"medscore-backend/pkg/common"
	pkgerrors "medscore-backend/pkg/errors"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// CalculatorHandler serves the calculator endpoints
type CalculatorHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewCalculatorHandler creates the handler
func NewCalculatorHandler(queryBus *querybus.QueryBus, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *CalculatorHandler {
	return &CalculatorHandler{queryBus: queryBus, errors: errors, logger: logger}
}

// ListCalculators handles GET /calculators
func (h *CalculatorHandler) ListCalculators(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPaginationParams(r)

	result, err := h.queryBus.Ask(r.Context(), queries.ListCalculatorsQuery{
		Category: params.Category,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetCalculator handles GET /calculators/{calculatorID}
func (h *CalculatorHandler) GetCalculator(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetCalculatorQuery{
		CalculatorID: chi.URLParam(r, "calculatorID"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// evaluateCalculatorRequest is the body of POST /calculators/{id}/evaluate
type evaluateCalculatorRequest struct {
	Inputs    map[string]interface{} `json:"inputs"`
	Screening map[string]bool        `json:"screening,omitempty"`
}

// EvaluateCalculator handles POST /calculators/{calculatorID}/evaluate
func (h *CalculatorHandler) EvaluateCalculator(w http.ResponseWriter, r *http.Request) {
	var body evaluateCalculatorRequest
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.EvaluateCalculatorQuery{
		CalculatorID: chi.URLParam(r, "calculatorID"),
		Inputs:       body.Inputs,
		Screening:    body.Screening,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
