package services

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"medscore-backend/application/ports"
	"medscore-backend/domain/catalog"
)

// CatalogService owns the current catalog and rebuilds it from a definition
// source. The catalog itself is immutable; Reload builds a fresh one and
// swaps it atomically, so readers never observe a partially loaded catalog.
type CatalogService struct {
	source  ports.DefinitionSource
	current atomic.Pointer[catalog.Catalog]
	logger  *zap.Logger
}

// NewCatalogService creates the service and performs the initial load
func NewCatalogService(ctx context.Context, source ports.DefinitionSource, logger *zap.Logger) (*CatalogService, error) {
	s := &CatalogService{
		source: source,
		logger: logger,
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the active catalog
func (s *CatalogService) Current() *catalog.Catalog {
	return s.current.Load()
}

// Reload rebuilds the catalog from the definition source. On failure the
// previous catalog stays active.
func (s *CatalogService) Reload(ctx context.Context) error {
	algorithms, calculators, err := s.source.LoadDefinitions(ctx)
	if err != nil {
		return err
	}

	built, err := catalog.New(algorithms, calculators)
	if err != nil {
		return err
	}

	s.current.Store(built)

	algCount, calcCount := built.Counts()
	s.logger.Info("Catalog loaded",
		zap.Int("algorithms", algCount),
		zap.Int("calculators", calcCount),
	)
	return nil
}
