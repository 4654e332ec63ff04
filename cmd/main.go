package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/api"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/session"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	client := api.NewClient(config.Client.BaseURL, nil)

	statePath := "state.toml"
	if home, err := shared.HomeDir(); err == nil {
		statePath = filepath.Join(home, "state.toml")
	}
	store, err := session.NewStateStore(statePath)
	if err != nil {
		logger.Fatalf("failed to open state file: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Client:  client,
		Session: session.NewController(client, store, logger),
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "cinerate",
		Usage:    "Track and rate the movies and TV shows you watch",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
