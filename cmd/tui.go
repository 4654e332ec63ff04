package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/ui"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := "cinerate-tui.log"
	if home, err := shared.HomeDir(); err == nil {
		logPath = filepath.Join(home, "tui.log")
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, fileLogger, r.session, r.client, r.ratings, r.watchlist)
	return ui.Run(model)
}
