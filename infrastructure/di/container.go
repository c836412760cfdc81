//go:build !wireinject
// +build !wireinject

package di

import (
	"context"

	"medscore-backend/infrastructure/config"
)

// InitializeContainer creates a fully wired container. This mirrors what
// wire generates from the provider set in wire.go.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client := ProvideDynamoDBClient(awsCfg)

	definitionRepo := ProvideDefinitionRepository(cfg, client, logger)
	snapshotStore := ProvideSnapshotStore(cfg, client, logger)

	catalogService, err := ProvideCatalogService(ctx, definitionRepo, logger)
	if err != nil {
		return nil, err
	}
	sessions := ProvideParameterSessions(snapshotStore, logger)

	validator, err := ProvideJWTValidator(cfg)
	if err != nil {
		return nil, err
	}

	commandBus, err := ProvideCommandBus(definitionRepo, catalogService, sessions, logger)
	if err != nil {
		return nil, err
	}

	queryBus, err := ProvideQueryBus(catalogService, sessions, ProvideWalker(cfg), ProvideEvaluator(cfg), logger)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:         cfg,
		Logger:         logger,
		DefinitionRepo: definitionRepo,
		SnapshotStore:  snapshotStore,
		CatalogService: catalogService,
		Sessions:       sessions,
		CommandBus:     commandBus,
		QueryBus:       queryBus,
		JWTValidator:   validator,
	}, nil
}
