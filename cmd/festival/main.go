package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/festival-guide/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/festival-guide/internal/adapter/kafka"
	"github.com/couchcryptid/festival-guide/internal/catalog"
	"github.com/couchcryptid/festival-guide/internal/config"
	"github.com/couchcryptid/festival-guide/internal/observability"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	opts := catalog.Options{
		SourceName:     cfg.DataPath,
		JitterSigma:    cfg.JitterSigma,
		JitterSeed:     cfg.JitterSeed,
		QueryCacheSize: cfg.QueryCacheSize,
		ReloadInterval: cfg.ReloadInterval,
	}

	// Snapshot publishing is feature-flagged via KAFKA_BROKERS.
	var publisher *kafkaadapter.Publisher
	if cfg.PublishEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		opts.Publisher = publisher
		logger.Info("snapshot publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	cat := catalog.New(catalog.OpenSource(cfg.DataPath, cfg.Encodings), opts, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, cat, httpadapter.Defaults{
		Month:         cfg.DefaultMonth,
		RankingLimit:  cfg.RankingLimit,
		SeasonalLimit: cfg.SeasonalLimit,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Load the dataset and keep it fresh. Readiness stays false until the
	// first load succeeds.
	go func() {
		if err := cat.Run(ctx); err != nil {
			logger.Error("catalog refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
