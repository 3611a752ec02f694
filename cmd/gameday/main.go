package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/jake-tolleson/544Final/internal/adapter/http"
	kafkaadapter "github.com/jake-tolleson/544Final/internal/adapter/kafka"
	"github.com/jake-tolleson/544Final/internal/adapter/tabular"
	"github.com/jake-tolleson/544Final/internal/config"
	"github.com/jake-tolleson/544Final/internal/domain"
	"github.com/jake-tolleson/544Final/internal/observability"
	"github.com/jake-tolleson/544Final/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	matcher, err := domain.NewTeamMatcher(cfg.TeamMatch)
	if err != nil {
		logger.Error("invalid team match mode", "error", err)
		os.Exit(1)
	}

	// Kafka sink is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var sinks []pipeline.Sink
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger, metrics)
		sinks = append(sinks, writer)
		logger.Info("kafka sink enabled",
			"brokers", cfg.KafkaBrokers,
			"games_topic", cfg.KafkaGamesTopic,
			"teams_topic", cfg.KafkaTeamsTopic,
		)
	} else {
		logger.Info("kafka sink disabled")
	}

	reader := tabular.NewReader(cfg, logger)
	store := pipeline.NewStore()
	p := pipeline.New(reader, store, logger, metrics, pipeline.Options{
		Matcher:         matcher,
		SeriesCacheSize: cfg.SeriesCacheSize,
		RefreshInterval: cfg.RefreshInterval,
	}, sinks...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The ops server comes up first; /readyz answers 503 until the first
	// dataset is published.
	srv := httpadapter.NewServer(cfg.HTTPAddr, store, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Run returns after the first build when refresh is disabled, and at
	// shutdown otherwise. Only a failed first build is an error.
	runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("dataset pipeline failed", "error", runErr)
	} else {
		<-ctx.Done()
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
