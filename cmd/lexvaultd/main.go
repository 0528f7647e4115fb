// lexvaultd is the API daemon: synchronous admission over HTTP plus an
// in-process enrichment worker pool sharing the same durable queue.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"

	"github.com/amara-nwosu/lexvault/internal/ai"
	"github.com/amara-nwosu/lexvault/internal/async"
	"github.com/amara-nwosu/lexvault/internal/classifier"
	"github.com/amara-nwosu/lexvault/internal/common"
	"github.com/amara-nwosu/lexvault/internal/export"
	"github.com/amara-nwosu/lexvault/internal/extract"
	"github.com/amara-nwosu/lexvault/internal/ingest"
	"github.com/amara-nwosu/lexvault/internal/pipeline"
	"github.com/amara-nwosu/lexvault/internal/repository"
	"github.com/amara-nwosu/lexvault/internal/server"
	"github.com/amara-nwosu/lexvault/internal/validator"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	if err := repository.HealthCheck(ctx, pool, 3*time.Second, logger); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}

	docs := repository.NewDocumentRepository(pool, logger)
	jobs := repository.NewJobRepository(pool, logger)
	rejected := repository.NewRejectedDocumentRepository(pool, logger)

	clientCfg := func(url string) ai.ClientConfig {
		return ai.ClientConfig{URL: url, APIKey: cfg.AI.APIKey, Timeout: cfg.AI.Timeout}
	}
	registry := ai.NewRegistry(
		ai.NewClassifierClient(clientCfg(cfg.AI.ClassifierURL), logger),
		ai.NewSummarizerClient(clientCfg(cfg.AI.SummarizerURL), logger),
		ai.NewEmbedderClient(clientCfg(cfg.AI.EmbedderURL), logger),
		ai.NewLegalScorerClient(clientCfg(cfg.AI.LegalScorerURL), logger),
		logger,
	)

	v := validator.New(validator.Config{
		AcceptThreshold: cfg.Validator.AcceptThreshold,
		BorderlineFloor: cfg.Validator.BorderlineFloor,
		HeuristicWeight: cfg.Validator.HeuristicWeight,
		MLWeight:        cfg.Validator.MLWeight,
	}, registry.LegalScorer(), logger)

	engine := classifier.NewEngine(registry.Classifier(), cfg.AI.MinAIScore, logger)
	orchestrator := pipeline.NewOrchestrator(docs, jobs, registry, engine, cfg.Worker.RetryDelay, logger)

	workerPool := async.NewWorkerPool(jobs, orchestrator, logger,
		async.WithWorkers(cfg.Worker.Workers),
		async.WithPollInterval(cfg.Worker.PollInterval),
		async.WithSoftTimeout(cfg.Worker.SoftTimeout),
		async.WithJobTimeout(cfg.Worker.HardTimeout),
	)
	workerPool.Start()

	queue := async.NewDurableQueue(jobs, cfg.Worker.MaxAttempts)
	queue.AttachPool(workerPool)

	admission := ingest.NewService(docs, rejected, queue, v, extract.NewPlainTextExtractor(), logger)
	status := ingest.NewStatusService(docs, jobs)
	exporter := export.NewService(docs, logger)

	srv := server.NewServer(admission, status, exporter, docs, pool, server.Config{
		Addr: cfg.Server.HTTPAddr,
	}, logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("server shutdown", "error", err)
	}
	workerPool.Shutdown(shutdownCtx)
	logger.Info("stopped")
}
