package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"medscore-backend/application/ports"
	"medscore-backend/domain/params"
)

// ParameterSessions manages one parameter store per owner, loading each from
// its persisted snapshot on first use and writing the whole snapshot back
// after every mutation (last write wins, no versioning).
type ParameterSessions struct {
	snapshots ports.ParameterSnapshotStore
	logger    *zap.Logger

	mu     sync.Mutex
	stores map[string]*params.Store
}

// NewParameterSessions creates the session manager
func NewParameterSessions(snapshots ports.ParameterSnapshotStore, logger *zap.Logger) *ParameterSessions {
	return &ParameterSessions{
		snapshots: snapshots,
		logger:    logger,
		stores:    make(map[string]*params.Store),
	}
}

// Session returns the owner's store, loading it on first use. A snapshot
// that cannot be read or parsed is logged and treated as empty; persistence
// failures are never fatal to the session.
func (s *ParameterSessions) Session(ctx context.Context, ownerID string) *params.Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if store, ok := s.stores[ownerID]; ok {
		return store
	}

	snapshot, err := s.snapshots.ReadAll(ctx, ownerID)
	if err != nil {
		s.logger.Warn("Parameter snapshot unreadable, starting empty",
			zap.String("ownerID", ownerID),
			zap.Error(err),
		)
		snapshot = nil
	}

	store := params.NewStoreFromSnapshot(snapshot)
	s.stores[ownerID] = store
	return store
}

// Persist writes the owner's current snapshot
func (s *ParameterSessions) Persist(ctx context.Context, ownerID string) error {
	store := s.Session(ctx, ownerID)
	return s.snapshots.WriteAll(ctx, ownerID, store.Snapshot())
}
