package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/warehouse-capacity-map/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/warehouse-capacity-map/internal/adapter/kafka"
	"github.com/couchcryptid/warehouse-capacity-map/internal/adapter/summary"
	"github.com/couchcryptid/warehouse-capacity-map/internal/config"
	"github.com/couchcryptid/warehouse-capacity-map/internal/domain"
	"github.com/couchcryptid/warehouse-capacity-map/internal/mapview"
	"github.com/couchcryptid/warehouse-capacity-map/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment is authoritative.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Both were validated by config.Load.
	dir, err := domain.DirectoryFor(cfg.CountryCode)
	if err != nil {
		logger.Error("state directory", "error", err)
		os.Exit(1)
	}
	base := domain.MustParseColor(cfg.BaseColor)

	client := summary.NewClient(cfg.SummaryAPIURL, cfg.SummaryTimeout, metrics, logger)
	source := summary.NewCachedSource(client, cfg.SummaryCacheSize, cfg.SummaryCacheTTL, clockwork.NewRealClock(), metrics)
	logger.Info("storage summary source",
		"url", cfg.SummaryAPIURL,
		"cache_size", cfg.SummaryCacheSize,
		"cache_ttl", cfg.SummaryCacheTTL,
	)

	// Navigation events are feature-flagged via NAVIGATION_EVENTS_ENABLED.
	var (
		navigator domain.Navigator
		writer    *kafkaadapter.Writer
	)
	if cfg.NavigationEventsEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		navigator = writer
		metrics.NavigationEnabled.Set(1)
		logger.Info("navigation events enabled", "topic", cfg.KafkaNavigationTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("navigation events disabled")
	}

	svc := mapview.New(mapview.Settings{
		Directory:      dir,
		BaseColor:      base,
		SnapshotTTL:    cfg.SnapshotTTL,
		RefreshTimeout: cfg.RefreshTimeout,
	}, source, navigator, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Warm the country snapshot so /readyz turns green without waiting for traffic.
	go func() {
		if _, err := svc.Snapshot(ctx, ""); err != nil {
			logger.Warn("initial snapshot failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

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

	logger.Info("shutdown complete")
}
