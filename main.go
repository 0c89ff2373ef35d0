package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sqlmend/sqlmend/pkg/config"
	"github.com/sqlmend/sqlmend/pkg/db"
	"github.com/sqlmend/sqlmend/pkg/handlers"
	"github.com/sqlmend/sqlmend/pkg/llm"
	"github.com/sqlmend/sqlmend/pkg/logging"
	"github.com/sqlmend/sqlmend/pkg/pipeline"
	"github.com/sqlmend/sqlmend/pkg/schema"
	"github.com/sqlmend/sqlmend/pkg/services"
	"github.com/sqlmend/sqlmend/pkg/vector"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.New(ctx, cfg.Database.ConnectionString(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer database.Close()

	completer, err := llm.NewCompleter(cfg.LLM.Provider, &llm.Config{
		Endpoint:  cfg.LLM.Endpoint,
		Model:     cfg.LLM.Model,
		APIKey:    cfg.LLM.APIKey,
		MaxTokens: cfg.LLM.MaxTokens,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create completion client", zap.Error(err))
	}

	embedEndpoint, embedKey := cfg.LLM.EmbeddingCredentials()
	embedder, err := llm.NewClient(&llm.Config{
		Endpoint:       embedEndpoint,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		APIKey:         embedKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create embedding client", zap.Error(err))
	}

	store := vector.NewMemoryStore()
	index := schema.NewIndex(embedder, store, logger)
	builder := schema.NewBuilder(database, logger)

	loop := pipeline.NewLoop(index, completer, database, pipeline.Options{
		TopK:        cfg.Pipeline.TopK,
		RowLimit:    cfg.Pipeline.RowLimit,
		Temperature: cfg.LLM.Temperature,
	}, logger)

	queryService := services.NewQueryService(loop, services.RetryPolicy{
		Default: cfg.Pipeline.DefaultMaxRetries,
		Ceiling: cfg.Pipeline.MaxRetriesCeiling,
	}, logger)
	schemaService := services.NewSchemaService(builder, index, logger)

	// Warm the index at startup so /query works without a manual
	// refresh. Failure is not fatal; the endpoint reports index_empty
	// until a refresh succeeds.
	if _, err := schemaService.Refresh(ctx); err != nil {
		logger.Warn("Initial schema refresh failed", zap.String("error", logging.SanitizeError(err)))
	}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, database, logger).RegisterRoutes(mux)
	handlers.NewQueryHandler(queryService, logger).RegisterRoutes(mux)
	handlers.NewSchemaHandler(schemaService, logger).RegisterRoutes(mux)

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting sqlmend", zap.String("addr", addr), zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
}

// newLogger builds a production logger, or a development logger for
// local runs.
func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
