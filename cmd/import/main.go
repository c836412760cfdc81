// Command import seeds the configured definition store from an admin
// definitions document. Useful for first-time DynamoDB setup and for bulk
// catalog updates outside the API.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"medscore-backend/application/transfer"
	"medscore-backend/infrastructure/config"
	"medscore-backend/infrastructure/di"
)

func main() {
	var path string
	flag.StringVar(&path, "file", "", "path to a definitions JSON document")
	flag.Parse()

	if path == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	payload, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("Failed to read document", zap.String("file", path), zap.Error(err))
	}

	doc, err := transfer.ParseJSON(payload)
	if err != nil {
		logger.Fatal("Document is invalid", zap.String("file", path), zap.Error(err))
	}

	for _, def := range doc.Algorithms {
		if err := container.DefinitionRepo.SaveAlgorithm(ctx, def); err != nil {
			logger.Fatal("Failed to save algorithm", zap.String("definitionID", def.ID), zap.Error(err))
		}
	}
	for _, def := range doc.Calculators {
		if err := container.DefinitionRepo.SaveCalculator(ctx, def); err != nil {
			logger.Fatal("Failed to save calculator", zap.String("definitionID", def.ID), zap.Error(err))
		}
	}

	logger.Info("Definitions imported",
		zap.String("file", path),
		zap.Int("algorithms", len(doc.Algorithms)),
		zap.Int("calculators", len(doc.Calculators)),
	)
}
