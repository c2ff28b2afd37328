package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"university-intent-service/config"
	vectorRepo "university-intent-service/internal/intent/repository/qdrant"
	"university-intent-service/internal/intent/repository/rulefile"
	"university-intent-service/pkg/log"
	pkgQdrant "university-intent-service/pkg/qdrant"
	"university-intent-service/pkg/voyage"
)

// Rebuilds the labeled-example index in Qdrant from the rule payload.
// Run after editing data/intent_rules.json:
//
//	go run scripts/ingest-examples/main.go [-recreate]
func main() {
	recreate := flag.Bool("recreate", false, "drop and recreate the collection before ingesting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        "info",
		Mode:         "development",
		ColorEnabled: true,
	})

	ctx := context.Background()

	ruleRepo := rulefile.New(cfg.Rules.Path, logger)
	rs, err := ruleRepo.Load(ctx)
	if err != nil {
		logger.Fatalf(ctx, "Failed to load rules: %v", err)
	}
	if len(rs.Examples) == 0 {
		logger.Fatalf(ctx, "Rule payload %s has no examples to ingest", cfg.Rules.Path)
	}

	qdrantClient := pkgQdrant.NewClient(cfg.Qdrant.URL)
	embedder, err := voyage.New(cfg.Voyage.APIKey)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize Voyage API: %v", err)
	}
	if cfg.Voyage.Model != "" {
		embedder.WithModel(cfg.Voyage.Model)
	}

	repo := vectorRepo.New(qdrantClient, embedder, cfg.Qdrant.CollectionName, cfg.Qdrant.VectorSize, logger)

	if *recreate {
		logger.Infof(ctx, "Dropping collection %s...", cfg.Qdrant.CollectionName)
		if err := qdrantClient.DeleteCollection(ctx, cfg.Qdrant.CollectionName); err != nil {
			logger.Warnf(ctx, "Failed to drop collection (may not exist): %v", err)
		}
	}

	if err := repo.EnsureCollection(ctx); err != nil {
		logger.Fatalf(ctx, "Failed to ensure collection: %v", err)
	}

	logger.Infof(ctx, "Ingesting %d examples (version %s)...", len(rs.Examples), rs.Version)
	if err := repo.UpsertExamples(ctx, rs.Examples); err != nil {
		logger.Fatalf(ctx, "Ingest failed: %v", err)
	}

	logger.Infof(ctx, "Ingest complete: %d examples indexed into %s", len(rs.Examples), cfg.Qdrant.CollectionName)
}
