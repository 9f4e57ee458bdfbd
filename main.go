package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sjsage522/newsworker/config"
	"sjsage522/newsworker/internal/ai"
	"sjsage522/newsworker/internal/crawler"
	"sjsage522/newsworker/internal/warehouse"
	"sjsage522/newsworker/logger"
	"sjsage522/newsworker/pkg/errors"
	"sjsage522/newsworker/services/cache"
	"sjsage522/newsworker/services/publisher"
	"sjsage522/newsworker/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	cfg := config.LoadConfig()
	if cfg.SelectorsFile != "" {
		selectors, err := config.LoadSelectors(cfg.SelectorsFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.SelectorsFile).Msg("Failed to load selectors")
		}
		cfg.Selectors = selectors
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("url", cfg.NewsURL).
		Str("extraction_mode", cfg.ExtractionMode).
		Str("browser_mode", cfg.BrowserMode).
		Dur("run_interval", cfg.RunInterval).
		Msg("Starting application")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services := initializeServices(ctx, cfg)
	defer services.Cleanup()

	extractor, err := crawler.NewExtractor(cfg, services.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create extractor")
	}

	factory := func() (*crawler.Harvester, error) {
		session, err := crawler.NewSession(cfg)
		if err != nil {
			return nil, err
		}
		return crawler.NewHarvester(session, extractor, cfg.Selectors, cfg.ContainerTimeout), nil
	}

	opts := []worker.Option{worker.WithInterval(cfg.RunInterval)}
	if services.Publisher != nil {
		opts = append(opts, worker.WithPublisher(services.Publisher))
	}
	if services.Cache != nil {
		opts = append(opts, worker.WithCooldown(cache.NewCooldown(services.Cache, cfg.NewsURL, cfg.Cooldown)))
	}

	loader := warehouse.NewLoader(services.Warehouse, cfg.DatasetID, cfg.TableID)
	w := worker.NewWorker(cfg.NewsURL, factory, loader, opts...)

	err = w.Start(ctx, func(result worker.RunResult) {
		reportRun(os.Stdout, result)
	})
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Worker exited with error")
		return
	}

	log.Info().Msg("Shutting down gracefully...")
}

// reportRun prints the uploaded row count of one run
func reportRun(out io.Writer, result worker.RunResult) {
	if rows, ok := result.Uploaded(); ok {
		fmt.Fprintf(out, "rows uploaded: %d\n", rows)
		return
	}
	fmt.Fprintln(out, "rows uploaded: none")
}

// Services holds all the initialized services
type Services struct {
	Warehouse warehouse.Warehouse
	Model     ai.Model
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.Warehouse != nil {
		s.Warehouse.Close()
	}
}

// initializeServices initializes the warehouse, the model and the optional
// cache and publisher. Setup failures are logged and surface when the
// affected step runs; the harvest always goes ahead.
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	services := &Services{
		Warehouse: newWarehouse(ctx, cfg),
	}

	if cfg.ExtractionMode == config.ModeSemantic {
		services.Model = newModel(ctx, cfg)
	}

	if cfg.MemcacheAddr != "" {
		cacheService := cache.NewMemcacheService(cfg.MemcacheAddr, 2*time.Second)
		if err := cacheService.Ping(); err != nil {
			logger.Warn("Memcache at %s unreachable, cooldown disabled: %v", cfg.MemcacheAddr, err)
		} else {
			services.Cache = cacheService
			logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
		}
	}

	if cfg.RedisAddr != "" {
		redisPublisher := publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		if err := redisPublisher.Ping(); err != nil {
			redisPublisher.Close()
			logger.Warn("Redis at %s unreachable, publishing disabled: %v", cfg.RedisAddr, err)
		} else {
			services.Publisher = redisPublisher
			logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
				cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
		}
	}

	return services
}

// newWarehouse connects to BigQuery, or returns a warehouse that fails every
// load with the reason it could not connect
func newWarehouse(ctx context.Context, cfg *config.Config) warehouse.Warehouse {
	if missing := cfg.MissingWarehouseSettings(); len(missing) > 0 {
		err := errors.NewConfiguration("missing "+strings.Join(missing, ", "), nil)
		logger.Error("Warehouse disabled: %v", err)
		return warehouse.NewUnavailable(err)
	}

	bq, err := warehouse.NewBigQueryWarehouse(ctx, cfg.ProjectID, cfg.DatasetID, cfg.TableID)
	if err != nil {
		logger.Error("Failed to create warehouse client: %v", err)
		return warehouse.NewUnavailable(err)
	}
	return bq
}

// newModel creates the configured model, or one that fails every card with
// the reason the client could not be created
func newModel(ctx context.Context, cfg *config.Config) ai.Model {
	model, err := ai.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to create model: %v", err)
		name := cfg.AIModel
		if name == "" {
			name = cfg.AIProvider
		}
		return ai.NewUnavailable(name, err)
	}
	logger.Info("Using model %s", model.Name())
	return model
}
