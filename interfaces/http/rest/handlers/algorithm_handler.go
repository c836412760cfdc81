package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"medscore-backend/application/queries"
	querybus "medscore-backend/application/queries/bus"
	qhandlers "medscore-backend/application/queries/handlers"
	"medscore-backend/domain/report"
	"medscore-backend/pkg/common"
	pkgerrors "medscore-backend/pkg/errors"
)

// AlgorithmHandler serves the algorithm endpoints
type AlgorithmHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewAlgorithmHandler creates the handler
func NewAlgorithmHandler(queryBus *querybus.QueryBus, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *AlgorithmHandler {
	return &AlgorithmHandler{queryBus: queryBus, errors: errors, logger: logger}
}

// ListAlgorithms handles GET /algorithms
func (h *AlgorithmHandler) ListAlgorithms(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPaginationParams(r)

	result, err := h.queryBus.Ask(r.Context(), queries.ListAlgorithmsQuery{
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

// GetAlgorithm handles GET /algorithms/{algorithmID}
func (h *AlgorithmHandler) GetAlgorithm(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetAlgorithmQuery{
		AlgorithmID: chi.URLParam(r, "algorithmID"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// evaluateAlgorithmRequest is the body of POST /algorithms/{id}/evaluate
type evaluateAlgorithmRequest struct {
	StepID  string                 `json:"stepId,omitempty"`
	Inputs  map[string]interface{} `json:"inputs,omitempty"`
	Answers map[string]interface{} `json:"answers,omitempty"`
}

// EvaluateAlgorithm handles POST /algorithms/{algorithmID}/evaluate
func (h *AlgorithmHandler) EvaluateAlgorithm(w http.ResponseWriter, r *http.Request) {
	var body evaluateAlgorithmRequest
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.EvaluateAlgorithmQuery{
		AlgorithmID: chi.URLParam(r, "algorithmID"),
		StepID:      body.StepID,
		Inputs:      body.Inputs,
		Answers:     body.Answers,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// reportRequest is the body of the report endpoints
type reportRequest struct {
	NodeID string                 `json:"nodeId"`
	Inputs map[string]interface{} `json:"inputs,omitempty"`
}

// GetReport handles POST /algorithms/{algorithmID}/report
func (h *AlgorithmHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.askReport(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, rep)
}

// PrintReport handles POST /algorithms/{algorithmID}/report/print, returning
// a standalone HTML document ready for the browser's print dialog.
func (h *AlgorithmHandler) PrintReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.askReport(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	doc := report.PrintDocument(rep.Title, rep.Printer)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}

func (h *AlgorithmHandler) askReport(r *http.Request) (*qhandlers.Report, error) {
	var body reportRequest
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		return nil, pkgerrors.NewValidationError("invalid request body")
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetReportQuery{
		AlgorithmID: chi.URLParam(r, "algorithmID"),
		NodeID:      body.NodeID,
		Inputs:      body.Inputs,
	})
	if err != nil {
		return nil, err
	}
	return result.(*qhandlers.Report), nil
}
