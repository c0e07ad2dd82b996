package wire

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/mithrel/peacecards/internal/client"
	"github.com/mithrel/peacecards/internal/config"
	"github.com/mithrel/peacecards/internal/db"
	"github.com/mithrel/peacecards/internal/seed"
)

// App aggregates the major services for easy injection.
type App struct {
	V      *viper.Viper
	Cfg    config.Config
	Log    *log.Logger
	Store  db.Store
	Closer io.Closer
	// Remote is set when Store talks to a peacecards server over HTTP.
	Remote *client.Client
}

// BuildApp wires dependencies from a loaded Viper instance. With remote.url
// set the store is an HTTP client; otherwise db.url is opened locally and
// seeded on first use when db.seed is true.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	cfg := config.FromViper(v)
	logger := log.New(os.Stderr, "peacecards ", log.LstdFlags)
	app := &App{V: v, Cfg: cfg, Log: logger}

	if cfg.RemoteURL != "" {
		app.Remote = client.New(cfg.RemoteURL, cfg.RemoteToken)
		app.Store = app.Remote
		return app, nil
	}

	if err := ensureDataDir(cfg.DataDir); err != nil {
		return nil, err
	}
	store, closer, err := db.Open(ctx, cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if cfg.Seed {
		seeded, err := seed.EnsureSeeded(ctx, store)
		if err != nil {
			_ = closer.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
		if seeded {
			logger.Printf("store: seeded url=%s", cfg.DBURL)
		}
	}
	app.Store = store
	app.Closer = closer
	return app, nil
}

// Close releases the store.
func (a *App) Close() error {
	if a == nil || a.Closer == nil {
		return nil
	}
	return a.Closer.Close()
}

func ensureDataDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	return nil
}
