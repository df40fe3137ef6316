// Package bootstrap wires the catalog, the manual, the assistant and the
// governance stores from configuration. The web server and the CLI share it.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/dgref/internal/admin"
	"github.com/JonMunkholm/dgref/internal/ai"
	"github.com/JonMunkholm/dgref/internal/config"
	"github.com/JonMunkholm/dgref/internal/core"
	"github.com/JonMunkholm/dgref/internal/core/tables"
	"github.com/JonMunkholm/dgref/internal/database"
)

// App holds the services built from a Config.
type App struct {
	Catalog   *core.Store
	Manual    *core.Manual
	Assistant *ai.Assistant
	Journal   core.Journal
	Configs   admin.Store
	Syncer    *admin.Syncer

	pool *pgxpool.Pool
}

// Options controls what Open builds.
type Options struct {
	// Database connects to DATABASE_URL when set. The CLI skips it.
	Database bool
}

// Open builds every service. Without a database the regulatory config and
// the journal live in memory.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	app := &App{
		Catalog: core.NewRegistryStore(),
		Manual:  core.NewManual(core.RegisteredChapters()),
	}

	if err := preload(ctx, app.Catalog); err != nil {
		return nil, err
	}

	initial := admin.Default(cfg.Regulatory.Edition, cfg.Regulatory.Effective())
	if opts.Database && cfg.Database.Enabled() {
		pool, err := connect(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		app.pool = pool
		app.Configs = database.NewRegulatoryStore(pool, initial)
		app.Journal = database.NewJournalStore(pool)
	} else {
		app.Configs = admin.NewMemoryStore(initial)
		app.Journal = core.NewMemoryJournal(core.DefaultJournalCapacity)
	}

	var provider ai.Provider
	if cfg.AI.Enabled() {
		provider = ai.NewGemini(&http.Client{}, cfg.AI.Endpoint, cfg.AI.Model, cfg.AI.APIKey)
	} else {
		slog.Info("assistant disabled: AI_API_KEY not set")
	}
	app.Assistant = ai.NewAssistant(provider, app.Journal, ai.Options{
		Timeout:  cfg.AI.Timeout,
		Grounded: cfg.AI.Grounding,
	})

	app.Syncer = admin.NewSyncer(app.Catalog, app.Configs, admin.SyncOptions{
		FirstUN: tables.FirstUN,
		LastUN:  tables.LastUN,
	})
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// preload builds every table concurrently so the first request does not pay
// for it.
func preload(ctx context.Context, catalog *core.Store) error {
	g, _ := errgroup.WithContext(ctx)
	for _, key := range catalog.Keys() {
		g.Go(func() error {
			t, err := catalog.LoadTable(key)
			if err != nil {
				return fmt.Errorf("load %s: %w", key, err)
			}
			slog.Debug("table loaded", "table", key, "rows", t.Len())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("catalog loaded", "tables", len(catalog.Keys()))
	return nil
}

func connect(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
