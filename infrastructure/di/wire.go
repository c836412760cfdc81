//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"medscore-backend/application/ports"
	"medscore-backend/application/services"
	"medscore-backend/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideDefinitionRepository,
	ProvideSnapshotStore,
	ProvideCatalogService,
	ProvideParameterSessions,
	ProvideWalker,
	ProvideEvaluator,
	ProvideJWTValidator,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Bind(new(ports.CatalogProvider), new(*services.CatalogService)),
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
