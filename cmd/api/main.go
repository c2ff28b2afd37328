package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"university-intent-service/config"
	"university-intent-service/internal/httpserver"
	"university-intent-service/internal/intent/repository"
	"university-intent-service/internal/intent/repository/cache"
	vectorRepo "university-intent-service/internal/intent/repository/qdrant"
	"university-intent-service/internal/intent/repository/rulefile"
	"university-intent-service/internal/intent/usecase"
	"university-intent-service/pkg/log"
	pkgQdrant "university-intent-service/pkg/qdrant"
	"university-intent-service/pkg/voyage"
)

// @title       University Intent Service API
// @description Hybrid intent detection for university-domain queries: rule matching with a vector-similarity fallback.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting University Intent Service...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Rules path: %s", cfg.Rules.Path)

	// 3. Rule source
	ruleRepo := rulefile.New(cfg.Rules.Path, logger)

	// 4. Vector fallback (optional: without it detection degrades to
	// rule-only, which the decision policy handles).
	var vecRepo repository.VectorRepository
	if cfg.Voyage.APIKey != "" {
		embedder, vErr := voyage.New(cfg.Voyage.APIKey)
		if vErr != nil {
			logger.Error(ctx, "Failed to create Voyage client: ", vErr)
			return
		}
		if cfg.Voyage.Model != "" {
			embedder.WithModel(cfg.Voyage.Model)
		}

		qdrantClient := pkgQdrant.NewClient(cfg.Qdrant.URL)
		vecRepo = vectorRepo.New(qdrantClient, embedder, cfg.Qdrant.CollectionName, cfg.Qdrant.VectorSize, logger)

		if cErr := vecRepo.EnsureCollection(ctx); cErr != nil {
			logger.Warnf(ctx, "Qdrant collection check failed, vector fallback may be degraded: %v", cErr)
		}
	} else {
		logger.Warn(ctx, "VOYAGE_API_KEY not set, vector fallback disabled (rule-only detection)")
	}

	// 5. Result cache
	var resultCache repository.ResultCache
	if cfg.Cache.Enabled {
		switch cfg.Cache.Backend {
		case "redis":
			redisClient := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if pErr := redisClient.Ping(ctx).Err(); pErr != nil {
				logger.Error(ctx, "Failed to connect to Redis: ", pErr)
				return
			}
			resultCache = cache.NewRedis(redisClient, cfg.Cache.TTL)
			logger.Infof(ctx, "Result cache: redis (%s)", cfg.Redis.Addr)
		default:
			resultCache = cache.NewLRU(cfg.Cache.Size, cfg.Cache.TTL)
			logger.Infof(ctx, "Result cache: memory (size=%d, ttl=%s)", cfg.Cache.Size, cfg.Cache.TTL)
		}
	}

	// 6. Detection UseCase — loads and validates the rule table; a
	// malformed payload aborts startup.
	intentUC, err := usecase.New(ctx, logger, cfg.Detection, ruleRepo, vecRepo, resultCache)
	if err != nil {
		logger.Error(ctx, "Failed to initialize intent detection: ", err)
		return
	}

	// 7. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		IntentUC:    intentUC,
		RateLimit:   cfg.RateLimit,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 8. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
