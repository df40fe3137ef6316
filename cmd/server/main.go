package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/dgref/internal/bootstrap"
	"github.com/JonMunkholm/dgref/internal/config"
	"github.com/JonMunkholm/dgref/internal/logging"
	"github.com/JonMunkholm/dgref/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"database", cfg.Database.Enabled(),
		"assistant", cfg.AI.Enabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
		"edition", cfg.Regulatory.Edition,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Open(ctx, cfg, bootstrap.Options{Database: true})
	if err != nil {
		slog.Error("failed to start services", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	server := web.NewServer(cfg, web.Services{
		Catalog:   app.Catalog,
		Manual:    app.Manual,
		Assistant: app.Assistant,
		Journal:   app.Journal,
		Configs:   app.Configs,
		Syncer:    app.Syncer,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server starting", "addr", cfg.Server.Addr())
		return server.Start(cfg.Server.Addr())
	})

	g.Go(func() error {
		app.Syncer.Schedule(gctx, cfg.Regulatory.SyncInterval)
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
