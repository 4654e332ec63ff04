package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
)

// parseIDArg reads the positional catalog id argument.
func parseIDArg(cmd *cli.Command) (int64, error) {
	raw := cmd.StringArg("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: catalog id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: catalog id must be a number", shared.ErrInvalidArgument)
	}
	return id, nil
}

func (r *Runner) printCatalog(cmd *cli.Command, items []models.CatalogItem) error {
	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	for _, item := range items {
		line := item.DisplayTitle()
		if year := item.Year(); year != 0 {
			line = fmt.Sprintf("%s (%d)", line, year)
		}
		kind := "movie"
		if item.Kind() == models.MediaTV {
			kind = "tv"
		}
		r.writePlain("%8d  %-6s %.1f  %s\n", item.ID, kind, item.VoteAverage, line)
	}
	return nil
}

// MoviesSearch queries the catalog for movies and TV shows.
func (r *Runner) MoviesSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	items, err := r.client.SearchCatalog(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.printCatalog(cmd, items)
}

// MoviesPopular lists trending titles.
func (r *Runner) MoviesPopular(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	items, err := r.client.PopularCatalog(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.printCatalog(cmd, items)
}

// MoviesTopRated lists top rated titles.
func (r *Runner) MoviesTopRated(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	items, err := r.client.TopRatedCatalog(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.printCatalog(cmd, items)
}

// MoviesDetail shows the full record for one title.
func (r *Runner) MoviesDetail(ctx context.Context, cmd *cli.Command) error {
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

	if cmd.Bool("json") {
		return r.writeJSON(item, cmd.Bool("pretty"))
	}

	title := item.DisplayTitle()
	if year := item.Year(); year != 0 {
		title = fmt.Sprintf("%s (%d)", title, year)
	}
	r.writePlainHeader(title)
	r.writePlain("TMDB rating: %.1f\n", item.VoteAverage)
	if genres := item.GenreNames(); genres != "" {
		r.writePlain("Genres: %s\n", genres)
	}
	if item.Overview != "" {
		r.writePlain("\n%s\n", item.Overview)
	}
	return nil
}
