package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"medscore-backend/application/commands"
	"medscore-backend/application/commands/bus"
	"medscore-backend/application/ports"
	"medscore-backend/application/transfer"
	"medscore-backend/domain/catalog"
	pkgerrors "medscore-backend/pkg/errors"
)

// ImportDefinitionsHandler applies an admin import and reloads the catalog
type ImportDefinitionsHandler struct {
	repo     ports.DefinitionRepository
	catalogs ports.CatalogProvider
	logger   *zap.Logger
}

// NewImportDefinitionsHandler creates the handler
func NewImportDefinitionsHandler(repo ports.DefinitionRepository, catalogs ports.CatalogProvider, logger *zap.Logger) *ImportDefinitionsHandler {
	return &ImportDefinitionsHandler{repo: repo, catalogs: catalogs, logger: logger}
}

// Handle implements bus.CommandHandler
func (h *ImportDefinitionsHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.ImportDefinitionsCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	switch c.Format {
	case commands.FormatJSON:
		if err := h.importJSON(ctx, c); err != nil {
			return err
		}
	case commands.FormatCSV:
		if err := h.importCSV(ctx, c); err != nil {
			return err
		}
	default:
		return pkgerrors.NewValidationError(fmt.Sprintf("unknown import format %q", c.Format))
	}

	if err := h.catalogs.Reload(ctx); err != nil {
		return pkgerrors.Wrap(err, "imported definitions saved but catalog reload failed")
	}
	return nil
}

func (h *ImportDefinitionsHandler) importJSON(ctx context.Context, c commands.ImportDefinitionsCommand) error {
	doc, err := transfer.ParseJSON(c.Payload)
	if err != nil {
		return err
	}

	for _, def := range doc.Algorithms {
		if err := h.repo.SaveAlgorithm(ctx, def); err != nil {
			return err
		}
	}
	for _, def := range doc.Calculators {
		if err := h.repo.SaveCalculator(ctx, def); err != nil {
			return err
		}
	}

	h.logger.Info("Definitions imported",
		zap.String("actor", c.Actor),
		zap.Int("algorithms", len(doc.Algorithms)),
		zap.Int("calculators", len(doc.Calculators)),
	)
	return nil
}

// importCSV merges parameter rows into an existing calculator, replacing
// parameters that share an id and appending the rest.
func (h *ImportDefinitionsHandler) importCSV(ctx context.Context, c commands.ImportDefinitionsCommand) error {
	parameters, err := transfer.ParseParametersCSV(c.Payload)
	if err != nil {
		return err
	}

	target, err := h.catalogs.Current().Calculator(c.CalculatorID)
	if err != nil {
		return err
	}

	merged := mergeParameters(target.Parameters, parameters)
	updated := *target
	updated.Parameters = merged

	if err := catalog.ValidateCalculator(&updated); err != nil {
		return err
	}
	if err := h.repo.SaveCalculator(ctx, &updated); err != nil {
		return err
	}

	h.logger.Info("Calculator parameters imported",
		zap.String("actor", c.Actor),
		zap.String("calculatorID", c.CalculatorID),
		zap.Int("rows", len(parameters)),
	)
	return nil
}

func mergeParameters(existing, incoming []catalog.ParameterDefinition) []catalog.ParameterDefinition {
	merged := make([]catalog.ParameterDefinition, len(existing))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, param := range merged {
		index[param.ID] = i
	}

	for _, param := range incoming {
		if i, ok := index[param.ID]; ok {
			merged[i] = param
			continue
		}
		index[param.ID] = len(merged)
		merged = append(merged, param)
	}
	return merged
}

// DeleteDefinitionHandler removes a definition and reloads the catalog
type DeleteDefinitionHandler struct {
	repo     ports.DefinitionRepository
	catalogs ports.CatalogProvider
	logger   *zap.Logger
}

// NewDeleteDefinitionHandler creates the handler
func NewDeleteDefinitionHandler(repo ports.DefinitionRepository, catalogs ports.CatalogProvider, logger *zap.Logger) *DeleteDefinitionHandler {
	return &DeleteDefinitionHandler{repo: repo, catalogs: catalogs, logger: logger}
}

// Handle implements bus.CommandHandler
func (h *DeleteDefinitionHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.DeleteDefinitionCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	// Confirm the definition exists so deletes of unknown ids report 404
	// instead of silently succeeding.
	cat := h.catalogs.Current()
	switch c.Kind {
	case ports.KindAlgorithm:
		if _, err := cat.Algorithm(c.ID); err != nil {
			return err
		}
	case ports.KindCalculator:
		if _, err := cat.Calculator(c.ID); err != nil {
			return err
		}
	}

	if err := h.repo.DeleteDefinition(ctx, c.Kind, c.ID); err != nil {
		return err
	}

	h.logger.Info("Definition deleted",
		zap.String("actor", c.Actor),
		zap.String("kind", string(c.Kind)),
		zap.String("definitionID", c.ID),
	)

	if err := h.catalogs.Reload(ctx); err != nil {
		return pkgerrors.Wrap(err, "definition deleted but catalog reload failed")
	}
	return nil
}
