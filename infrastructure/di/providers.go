// Package di wires the application together. Providers are plain
// constructors usable both by google/wire and by the hand-written
// initializer in container.go.
package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"medscore-backend/application/commands"
	"medscore-backend/application/commands/bus"
	cmdhandlers "medscore-backend/application/commands/handlers"
	"medscore-backend/application/ports"
	"medscore-backend/application/queries"
	querybus "medscore-backend/application/queries/bus"
	qryhandlers "medscore-backend/application/queries/handlers"
	"medscore-backend/application/services"
	"medscore-backend/domain/score"
	"medscore-backend/domain/traversal"
	"medscore-backend/infrastructure/config"
	dynamostore "medscore-backend/infrastructure/persistence/dynamodb"
	filestore "medscore-backend/infrastructure/persistence/file"
	"medscore-backend/pkg/auth"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	DefinitionRepo ports.DefinitionRepository
	SnapshotStore  ports.ParameterSnapshotStore
	CatalogService *services.CatalogService
	Sessions       *services.ParameterSessions
	CommandBus     *bus.CommandBus
	QueryBus       *querybus.QueryBus
	JWTValidator   *auth.JWTValidator
}

// ProvideLogger creates the logger for the configured environment
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideDefinitionRepository selects the definition backend
func ProvideDefinitionRepository(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) ports.DefinitionRepository {
	if cfg.StoreBackend == config.StoreDynamoDB {
		return dynamostore.NewDefinitionRepository(client, cfg.DynamoDBTable, logger)
	}
	return filestore.NewCatalogRepository(cfg.CatalogDir, logger)
}

// ProvideSnapshotStore selects the parameter snapshot backend
func ProvideSnapshotStore(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) ports.ParameterSnapshotStore {
	if cfg.StoreBackend == config.StoreDynamoDB {
		return dynamostore.NewSnapshotStore(client, cfg.DynamoDBTable, logger)
	}
	return filestore.NewSnapshotStore(cfg.DataDir, logger)
}

// ProvideCatalogService builds the catalog from the definition repository
func ProvideCatalogService(ctx context.Context, repo ports.DefinitionRepository, logger *zap.Logger) (*services.CatalogService, error) {
	return services.NewCatalogService(ctx, repo, logger)
}

// ProvideParameterSessions creates the per-owner parameter session manager
func ProvideParameterSessions(store ports.ParameterSnapshotStore, logger *zap.Logger) *services.ParameterSessions {
	return services.NewParameterSessions(store, logger)
}

// ProvideWalker creates the decision-tree walker with the configured policy
func ProvideWalker(cfg *config.Config) *traversal.Walker {
	return traversal.NewWalker(cfg.EdgePolicy)
}

// ProvideEvaluator creates the score evaluator with the configured policy
func ProvideEvaluator(cfg *config.Config) *score.Evaluator {
	return score.NewEvaluator(cfg.ScreeningPolicy)
}

// ProvideJWTValidator creates the token validator; nil when no secret is
// configured, which enables the development identity fallback.
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if cfg.JWTSecret == "" {
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideCommandBus creates a command bus with all handlers registered
func ProvideCommandBus(
	repo ports.DefinitionRepository,
	catalogs *services.CatalogService,
	sessions *services.ParameterSessions,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()

	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.SaveParameterCommand{}, cmdhandlers.NewSaveParameterHandler(sessions, logger)},
		{commands.RemoveParameterCommand{}, cmdhandlers.NewRemoveParameterHandler(sessions, logger)},
		{commands.ClearParametersCommand{}, cmdhandlers.NewClearParametersHandler(sessions, logger)},
		{commands.ImportDefinitionsCommand{}, cmdhandlers.NewImportDefinitionsHandler(repo, catalogs, logger)},
		{commands.DeleteDefinitionCommand{}, cmdhandlers.NewDeleteDefinitionHandler(repo, catalogs, logger)},
	}
	for _, reg := range registrations {
		if err := commandBus.Register(reg.cmd, reg.handler); err != nil {
			return nil, err
		}
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with all handlers registered
func ProvideQueryBus(
	catalogs *services.CatalogService,
	sessions *services.ParameterSessions,
	walker *traversal.Walker,
	evaluator *score.Evaluator,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.ListCalculatorsQuery{}, qryhandlers.NewListCalculatorsHandler(catalogs)},
		{queries.GetCalculatorQuery{}, qryhandlers.NewGetCalculatorHandler(catalogs)},
		{queries.ListAlgorithmsQuery{}, qryhandlers.NewListAlgorithmsHandler(catalogs)},
		{queries.GetAlgorithmQuery{}, qryhandlers.NewGetAlgorithmHandler(catalogs)},
		{queries.EvaluateAlgorithmQuery{}, qryhandlers.NewEvaluateAlgorithmHandler(catalogs, walker, logger)},
		{queries.EvaluateCalculatorQuery{}, qryhandlers.NewEvaluateCalculatorHandler(catalogs, evaluator, logger)},
		{queries.GetReportQuery{}, qryhandlers.NewGetReportHandler(catalogs)},
		{queries.ExportDefinitionsQuery{}, qryhandlers.NewExportDefinitionsHandler(catalogs)},
		{queries.ListParametersQuery{}, qryhandlers.NewListParametersHandler(sessions)},
		{queries.GetParameterQuery{}, qryhandlers.NewGetParameterHandler(sessions)},
	}
	for _, reg := range registrations {
		if err := queryBus.Register(reg.query, reg.handler); err != nil {
			return nil, err
		}
	}

	return queryBus, nil
}
