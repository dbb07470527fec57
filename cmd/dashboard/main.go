package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/heat-scores-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/heat-scores-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/heat-scores-dashboard/internal/adapter/remote"
	"github.com/couchcryptid/heat-scores-dashboard/internal/config"
	"github.com/couchcryptid/heat-scores-dashboard/internal/dashboard"
	"github.com/couchcryptid/heat-scores-dashboard/internal/domain"
	"github.com/couchcryptid/heat-scores-dashboard/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Remote sources are optional; an empty URL keeps the example series.
	var sources dashboard.Sources
	if cfg.SSTSourceURL != "" {
		sources.SST = remote.NewClient(dashboard.SourceSST, cfg.SSTSourceURL, domain.LabelSSTNOAA, cfg.FetchTimeout, metrics, logger)
		logger.Info("sst source enabled", "url", cfg.SSTSourceURL, "timeout", cfg.FetchTimeout)
	}
	if cfg.HeatDaysSourceURL != "" {
		sources.HeatDays = remote.NewClient(dashboard.SourceHeatDays, cfg.HeatDaysSourceURL, domain.LabelHeatDaysKMA, cfg.FetchTimeout, metrics, logger)
		logger.Info("heat-days source enabled", "url", cfg.HeatDaysSourceURL, "timeout", cfg.FetchTimeout)
	}

	var (
		publisher dashboard.Publisher
		kafkaPub  *kafkaadapter.Publisher
	)
	if cfg.PublishEnabled {
		kafkaPub = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPub
		metrics.PublishEnabled.Set(1)
		logger.Info("snapshot publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	opts := dashboard.DefaultOptions()
	opts.Generator.Seed = cfg.GeneratorSeed
	opts.CacheSize = cfg.CacheSize
	opts.CacheTTL = cfg.CacheTTL

	svc := dashboard.New(opts, sources, publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Compute the default views so /readyz flips once the first fetch settles.
	go svc.Warm(ctx)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
