package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ticketstory/story-server/internal/config"
	"github.com/ticketstory/story-server/internal/httpapi"
	"github.com/ticketstory/story-server/internal/narrative"
	"github.com/ticketstory/story-server/internal/repository"
	"github.com/ticketstory/story-server/internal/service"
	"github.com/ticketstory/story-server/pkg/cache"
	dbbuilder "github.com/ticketstory/story-server/pkg/database"
	"github.com/ticketstory/story-server/pkg/httpserver"
)

type App struct {
	logger     *zap.Logger
	cache      *cache.Cache
	httpServer *httpserver.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	cacheClient, err := cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
	)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))

	gemini, err := narrative.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		return nil, fmt.Errorf("narrative generator init failed: %w", err)
	}
	generator := narrative.NewCachedGenerator(gemini, cacheClient, cfg.NarrativeCacheTTL, logger)
	logger.Info("Narrative generator initialized", zap.String("model", cfg.GeminiModel))

	pipelineCfg := config.DefaultPipeline()
	summaryService := service.NewSummaryService(
		pipelineCfg,
		generator,
		inMemoryStoreFactory(),
		logger,
		cfg.NarrativeTimeout,
		cfg.NarrativeConcurrency,
	)

	handlers := httpapi.NewHandlers(summaryService, logger, cfg.MaxUploadBytes)

	httpServer, err := httpserver.New(
		httpserver.WithPort(cfg.HTTPPort),
		httpserver.WithLogger(logger),
		httpserver.WithLogging(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}
	httpServer.Route(handlers.Routes)

	return &App{
		logger:     logger,
		cache:      cacheClient,
		httpServer: httpServer,
	}, nil
}

// inMemoryStoreFactory builds one private in-memory analytics database per
// run. A single connection is forced because every sqlite :memory: connection
// would otherwise see its own empty database.
func inMemoryStoreFactory() service.StoreFactory {
	return func(ctx context.Context) (service.TicketStore, func() error, error) {
		db, err := dbbuilder.New(
			dbbuilder.WithDriver("sqlite3"),
			dbbuilder.WithDataSource(":memory:"),
			dbbuilder.WithMaxOpenConns(1),
			dbbuilder.WithMaxIdleConns(1),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("analytics database init failed: %w", err)
		}
		return repository.NewTicketRepository(db), db.Close, nil
	}
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	a.httpServer.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("http shutdown error", zap.Error(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}

	a.logger.Info("graceful shutdown completed")

	_ = a.logger.Sync()
	return nil
}
