package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
)

// WatchlistList prints the saved watchlist entries.
func (r *Runner) WatchlistList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	entries, err := r.watchlist.List(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	for _, entry := range entries {
		line := entry.Title
		if entry.Year != 0 {
			line = fmt.Sprintf("%s (%d)", line, entry.Year)
		}
		kind := "movie"
		if entry.Kind() == models.MediaTV {
			kind = "tv"
		}
		r.writePlain("%8d  %-6s %s\n", entry.TMDBID, kind, line)
	}
	return nil
}

// WatchlistAdd saves a catalog title for later. The detail is fetched
// first so the entry carries title, genres and poster.
func (r *Runner) WatchlistAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	item, err := r.client.CatalogDetail(ctx, id, cmd.String("type"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	entry := models.WatchlistEntry{
		TMDBID:     item.ID,
		Title:      item.DisplayTitle(),
		Year:       item.Year(),
		PosterPath: item.PosterPath,
		TMDBRating: item.VoteAverage,
		Genres:     item.GenreNames(),
		Overview:   item.Overview,
		MediaType:  item.Kind(),
	}
	if err := r.watchlist.Add(ctx, entry); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("✓ Added %s to watchlist\n", entry.Title)
}

// WatchlistRemove removes a title by catalog id.
func (r *Runner) WatchlistRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	if err := r.watchlist.Remove(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("✓ Removed from watchlist\n")
}

// WatchlistCheck reports whether a title is on the watchlist.
func (r *Runner) WatchlistCheck(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	member, err := r.watchlist.IsMember(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if member {
		return r.writePlain("✓ On your watchlist\n")
	}
	return r.writePlain("✗ Not on your watchlist\n")
}
