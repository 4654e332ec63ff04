package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/server"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/storage"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/tmdb"
)

// Serve runs the backend API server until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		config.Server.Port = port
	}

	if config.Server.SecretKey == "" {
		return fmt.Errorf("%w: server.secret_key is not set", shared.ErrInvalidConfig)
	}
	if config.TMDB.APIKey == "" {
		return fmt.Errorf("%w: tmdb.api_key is not set", shared.ErrInvalidConfig)
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	if err := storage.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	catalog := tmdb.NewClient(config.TMDB.APIKey, tmdb.Options{
		BaseURL:   config.TMDB.BaseURL,
		Language:  config.TMDB.Language,
		RateLimit: config.TMDB.RateLimit,
	})

	srv := server.New(config.Server, db, catalog, r.logger)
	r.logger.Info("starting server", "addr", config.Server.Addr())
	return srv.Start(ctx)
}
