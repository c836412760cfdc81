package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"medscore-backend/application/commands"
	"medscore-backend/application/commands/bus"
	"medscore-backend/application/queries"
	querybus "medscore-backend/application/queries/bus"
	"medscore-backend/pkg/auth"
	"medscore-backend/pkg/common"
	pkgerrors "medscore-backend/pkg/errors"
	"medscore-backend/pkg/utils"
)

// ParameterHandler serves the stored-parameter endpoints. Parameters are
// scoped to the authenticated user.
type ParameterHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewParameterHandler creates the handler
func NewParameterHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *ParameterHandler {
	return &ParameterHandler{commandBus: commandBus, queryBus: queryBus, errors: errors, logger: logger}
}

// ListParameters handles GET /parameters
func (h *ParameterHandler) ListParameters(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListParametersQuery{OwnerID: user.UserID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetParameter handles GET /parameters/{parameterID}
func (h *ParameterHandler) GetParameter(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetParameterQuery{
		OwnerID:     user.UserID,
		ParameterID: chi.URLParam(r, "parameterID"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// saveParameterRequest is the body of PUT /parameters
type saveParameterRequest struct {
	ID    string      `json:"id" validate:"required,max=128"`
	Name  string      `json:"name" validate:"required,max=256"`
	Value interface{} `json:"value"`
	Unit  string      `json:"unit,omitempty" validate:"max=32"`
}

// SaveParameter handles PUT /parameters
func (h *ParameterHandler) SaveParameter(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body saveParameterRequest
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.SaveParameterCommand{
		OwnerID:     user.UserID,
		ParameterID: body.ID,
		Name:        body.Name,
		Value:       body.Value,
		Unit:        body.Unit,
	}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetParameterQuery{
		OwnerID:     user.UserID,
		ParameterID: body.ID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// RemoveParameter handles DELETE /parameters/{parameterID}
func (h *ParameterHandler) RemoveParameter(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.RemoveParameterCommand{
		OwnerID:     user.UserID,
		ParameterID: chi.URLParam(r, "parameterID"),
	}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearParameters handles DELETE /parameters
func (h *ParameterHandler) ClearParameters(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.ClearParametersCommand{
		OwnerID: user.UserID,
	}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
