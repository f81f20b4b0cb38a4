package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/haven/internal/api"
	"github.com/MikeSquared-Agency/haven/internal/config"
	"github.com/MikeSquared-Agency/haven/internal/engine"
	"github.com/MikeSquared-Agency/haven/internal/hermes"
	"github.com/MikeSquared-Agency/haven/internal/metrics"
	"github.com/MikeSquared-Agency/haven/internal/report"
	"github.com/MikeSquared-Agency/haven/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("haven starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	schema, err := report.LoadSchema()
	if err != nil {
		slog.Error("failed to load report schema", "error", err)
		os.Exit(1)
	}

	eng := engine.New(engine.Options{
		Threshold:  cfg.IntentThreshold,
		SessionTTL: cfg.SessionTTL,
		Logger:     slog.Default(),
	})
	if cfg.MetricsEnabled {
		eng.AddObserver(metrics.Recorder{})
	}

	// Database (optional: reports stay in memory without it)
	var reports api.ReportStore
	if cfg.DatabaseURL != "" {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		reports = db
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set, reports are kept in memory only")
	}

	// NATS/Hermes (optional: no alerts or remote resets without it)
	if cfg.NatsURL != "" {
		hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer hermesClient.Close()
		eng.AddObserver(hermes.NewNotifier(hermesClient, slog.Default()))

		if err := hermesClient.SubscribeResets(eng); err != nil {
			slog.Error("failed to subscribe to reset requests", "error", err)
			os.Exit(1)
		}
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set, running without safeguarding alerts")
	}

	// Idle session expiry
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		eng.Sessions().Run(ctx, cfg.SweepInterval)
	}()

	// HTTP API
	srv := api.NewServer(eng, schema, api.Options{
		Port:            cfg.Port,
		APIToken:        cfg.APIToken,
		MaxMessageBytes: cfg.MaxMessageBytes,
		Metrics:         cfg.MetricsEnabled,
		Reports:         reports,
		Logger:          slog.Default(),
	})
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("haven ready", "port", cfg.Port, "persistence", reports != nil)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown error", "error", err)
	}
	cancel()
	<-sweepDone
	slog.Info("haven stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
