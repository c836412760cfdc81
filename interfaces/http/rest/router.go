// Package rest wires the HTTP surface: routing, middleware, and the
// endpoint handlers.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"medscore-backend/application/commands/bus"
	"medscore-backend/application/ports"
	querybus "medscore-backend/application/queries/bus"
	"medscore-backend/interfaces/http/rest/handlers"
	"medscore-backend/interfaces/http/rest/middleware"
	"medscore-backend/pkg/auth"
	pkgerrors "medscore-backend/pkg/errors"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	catalogs   ports.CatalogProvider
	validator  *auth.JWTValidator
	enableCORS bool
	debug      bool
	logger     *zap.Logger
}

// NewRouter creates a new router instance. A nil validator enables the
// development identity fallback.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	catalogs ports.CatalogProvider,
	validator *auth.JWTValidator,
	enableCORS bool,
	debug bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		catalogs:   catalogs,
		validator:  validator,
		enableCORS: enableCORS,
		debug:      debug,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.medscore.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.debug)
	calculatorHandler := handlers.NewCalculatorHandler(rt.queryBus, errorHandler, rt.logger)
	algorithmHandler := handlers.NewAlgorithmHandler(rt.queryBus, errorHandler, rt.logger)
	parameterHandler := handlers.NewParameterHandler(rt.commandBus, rt.queryBus, errorHandler, rt.logger)
	adminHandler := handlers.NewAdminHandler(rt.commandBus, rt.queryBus, errorHandler, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.logger))

		r.Route("/calculators", func(r chi.Router) {
			r.Get("/", calculatorHandler.ListCalculators)
			r.Get("/{calculatorID}", calculatorHandler.GetCalculator)
			r.Post("/{calculatorID}/evaluate", calculatorHandler.EvaluateCalculator)
		})

		r.Route("/algorithms", func(r chi.Router) {
			r.Get("/", algorithmHandler.ListAlgorithms)
			r.Get("/{algorithmID}", algorithmHandler.GetAlgorithm)
			r.Post("/{algorithmID}/evaluate", algorithmHandler.EvaluateAlgorithm)
			r.Post("/{algorithmID}/report", algorithmHandler.GetReport)
			r.Post("/{algorithmID}/report/print", algorithmHandler.PrintReport)
		})

		r.Route("/parameters", func(r chi.Router) {
			r.Get("/", parameterHandler.ListParameters)
			r.Put("/", parameterHandler.SaveParameter)
			r.Delete("/", parameterHandler.ClearParameters)
			r.Get("/{parameterID}", parameterHandler.GetParameter)
			r.Delete("/{parameterID}", parameterHandler.RemoveParameter)
		})

		r.Route("/admin/definitions", func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Post("/import", adminHandler.ImportDefinitions)
			r.Post("/import-csv", adminHandler.ImportParametersCSV)
			r.Get("/export", adminHandler.ExportDefinitions)
			r.Delete("/{kind}/{definitionID}", adminHandler.DeleteDefinition)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready once the catalog has loaded
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if rt.catalogs.Current() == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"loading"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
