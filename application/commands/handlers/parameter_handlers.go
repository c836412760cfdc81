package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"medscore-backend/application/commands"
	"medscore-backend/application/commands/bus"
	"medscore-backend/application/services"
)

// SaveParameterHandler upserts a stored parameter and persists the snapshot
type SaveParameterHandler struct {
	sessions *services.ParameterSessions
	logger   *zap.Logger
}

// NewSaveParameterHandler creates the handler
func NewSaveParameterHandler(sessions *services.ParameterSessions, logger *zap.Logger) *SaveParameterHandler {
	return &SaveParameterHandler{sessions: sessions, logger: logger}
}

// Handle implements bus.CommandHandler
func (h *SaveParameterHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.SaveParameterCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	store := h.sessions.Session(ctx, c.OwnerID)
	store.AddParameter(c.ParameterID, c.Name, c.Value, c.Unit)

	if err := h.sessions.Persist(ctx, c.OwnerID); err != nil {
		// The in-memory store already holds the write; persistence is
		// fire-and-forget from the caller's point of view.
		h.logger.Warn("Failed to persist parameter snapshot",
			zap.String("ownerID", c.OwnerID),
			zap.String("parameterID", c.ParameterID),
			zap.Error(err),
		)
	}

	return nil
}

// RemoveParameterHandler deletes a stored parameter
type RemoveParameterHandler struct {
	sessions *services.ParameterSessions
	logger   *zap.Logger
}

// NewRemoveParameterHandler creates the handler
func NewRemoveParameterHandler(sessions *services.ParameterSessions, logger *zap.Logger) *RemoveParameterHandler {
	return &RemoveParameterHandler{sessions: sessions, logger: logger}
}

// Handle implements bus.CommandHandler
func (h *RemoveParameterHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.RemoveParameterCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	store := h.sessions.Session(ctx, c.OwnerID)
	store.RemoveParameter(c.ParameterID)

	if err := h.sessions.Persist(ctx, c.OwnerID); err != nil {
		h.logger.Warn("Failed to persist parameter snapshot",
			zap.String("ownerID", c.OwnerID),
			zap.Error(err),
		)
	}

	return nil
}

// ClearParametersHandler empties an owner's store
type ClearParametersHandler struct {
	sessions *services.ParameterSessions
	logger   *zap.Logger
}

// NewClearParametersHandler creates the handler
func NewClearParametersHandler(sessions *services.ParameterSessions, logger *zap.Logger) *ClearParametersHandler {
	return &ClearParametersHandler{sessions: sessions, logger: logger}
}

// Handle implements bus.CommandHandler
func (h *ClearParametersHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.ClearParametersCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	store := h.sessions.Session(ctx, c.OwnerID)
	store.ClearParameters()

	if err := h.sessions.Persist(ctx, c.OwnerID); err != nil {
		h.logger.Warn("Failed to persist parameter snapshot",
			zap.String("ownerID", c.OwnerID),
			zap.Error(err),
		)
	}

	return nil
}
