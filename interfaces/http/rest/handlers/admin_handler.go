package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"medscore-backend/application/commands"
	"medscore-backend/application/commands/bus"
	"medscore-backend/application/ports"
	"medscore-backend/application/queries"
	querybus "medscore-backend/application/queries/bus"
	"medscore-backend/pkg/auth"
	"medscore-backend/pkg/common"
	pkgerrors "medscore-backend/pkg/errors"
)

// AdminHandler serves the admin definition-management endpoints. The router
// guards these routes with the admin role.
type AdminHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewAdminHandler creates the handler
func NewAdminHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{commandBus: commandBus, queryBus: queryBus, errors: errors, logger: logger}
}

// ImportDefinitions handles POST /admin/definitions/import with a raw JSON
// document body.
func (h *AdminHandler) ImportDefinitions(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	payload, err := readBody(r)
	if err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Could not read request body")
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.ImportDefinitionsCommand{
		Actor:   user.UserID,
		Format:  commands.FormatJSON,
		Payload: payload,
	}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

// ImportParametersCSV handles POST /admin/definitions/import-csv?calculator=<id>
// with a raw CSV body.
func (h *AdminHandler) ImportParametersCSV(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	calculatorID := r.URL.Query().Get("calculator")
	if calculatorID == "" {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Query parameter 'calculator' is required")
		return
	}

	payload, err := readBody(r)
	if err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Could not read request body")
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.ImportDefinitionsCommand{
		Actor:        user.UserID,
		Format:       commands.FormatCSV,
		Payload:      payload,
		CalculatorID: calculatorID,
	}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

// ExportDefinitions handles GET /admin/definitions/export. The response body
// is the raw definitions document, re-importable as-is.
func (h *AdminHandler) ExportDefinitions(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ExportDefinitionsQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	payload := result.([]byte)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="definitions.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// DeleteDefinition handles DELETE /admin/definitions/{kind}/{definitionID}
func (h *AdminHandler) DeleteDefinition(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.DeleteDefinitionCommand{
		Actor: user.UserID,
		Kind:  ports.DefinitionKind(chi.URLParam(r, "kind")),
		ID:    chi.URLParam(r, "definitionID"),
	}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
}
