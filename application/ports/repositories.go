// Package ports declares the interfaces the application layer depends on.
// Infrastructure supplies the implementations; the storage medium behind a
// port is swappable without touching application code.
package ports

import (
	"context"

	"medscore-backend/domain/catalog"
	"medscore-backend/domain/params"
)

// ParameterSnapshotStore persists one owner's full parameter mapping as a
// single snapshot. Reads of a missing owner return an empty snapshot; a
// corrupt snapshot is reported as an error and the caller recovers by
// starting empty.
type ParameterSnapshotStore interface {
	ReadAll(ctx context.Context, ownerID string) (params.Snapshot, error)
	WriteAll(ctx context.Context, ownerID string, snapshot params.Snapshot) error
}

// DefinitionKind distinguishes the two definition families
type DefinitionKind string

const (
	KindAlgorithm  DefinitionKind = "algorithm"
	KindCalculator DefinitionKind = "calculator"
)

// DefinitionSource loads the full definition set the catalog is built from
type DefinitionSource interface {
	LoadDefinitions(ctx context.Context) ([]*catalog.AlgorithmDefinition, []*catalog.CalculatorDefinition, error)
}

// DefinitionRepository persists admin-managed definitions
type DefinitionRepository interface {
	DefinitionSource

	SaveAlgorithm(ctx context.Context, def *catalog.AlgorithmDefinition) error
	SaveCalculator(ctx context.Context, def *catalog.CalculatorDefinition) error
	DeleteDefinition(ctx context.Context, kind DefinitionKind, id string) error
}

// CatalogProvider exposes the current immutable catalog. Implementations
// swap the whole catalog atomically on reload.
type CatalogProvider interface {
	Current() *catalog.Catalog
	Reload(ctx context.Context) error
}
