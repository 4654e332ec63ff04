package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/library"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
)

// RatingsList prints the saved ratings, optionally filtered.
func (r *Runner) RatingsList(ctx context.Context, cmd *cli.Command) error {
	filter := cmd.String("filter")
	if !slices.Contains(library.Filters, filter) {
		return fmt.Errorf("%w: unknown filter %q", shared.ErrInvalidArgument, filter)
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	if _, err := r.ratings.Load(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	ratings := r.ratings.Filter(filter)
	if cmd.Bool("json") {
		return r.writeJSON(ratings, cmd.Bool("pretty"))
	}

	for _, rating := range ratings {
		line := rating.Title
		if rating.Year != 0 {
			line = fmt.Sprintf("%s (%d)", line, rating.Year)
		}
		r.writePlain("%8d  %2d/10  %s\n", rating.TMDBID, rating.UserRating, line)
		if rating.Comment != "" {
			r.writePlain("          %s\n", rating.Comment)
		}
	}
	return nil
}

// RatingsRate saves a rating for a catalog title. The catalog detail is
// fetched first so the stored record carries title, genres and poster.
func (r *Runner) RatingsRate(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}
	score := cmd.Int("score")
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	item, err := r.client.CatalogDetail(ctx, id, cmd.String("type"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	saved, err := r.ratings.Save(ctx, models.Rating{
		TMDBID:     item.ID,
		Title:      item.DisplayTitle(),
		Year:       item.Year(),
		PosterPath: item.PosterPath,
		TMDBRating: item.VoteAverage,
		UserRating: int(score),
		Comment:    cmd.String("comment"),
		Genres:     item.GenreNames(),
		Overview:   item.Overview,
		MediaType:  item.Kind(),
	})
	if err != nil {
		return err
	}

	return r.writePlain("✓ Rated %s %d/10\n", saved.Title, saved.UserRating)
}

// RatingsDelete removes a rating by catalog id.
func (r *Runner) RatingsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	if err := r.ratings.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("✓ Rating deleted\n")
}

// RatingsStats prints the aggregate snapshot for the library.
func (r *Runner) RatingsStats(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	if _, err := r.ratings.Load(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	stats := r.ratings.Stats()
	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlainHeader("Rating Stats")
	r.writePlain("Total: %d\n", stats.Total)
	r.writePlain("Average: %.2f\n", stats.Average)
	r.writePlain("High: %d  Low: %d\n", stats.Max, stats.Min)
	for score := models.MaxRating; score >= models.MinRating; score-- {
		count := stats.Distribution[fmt.Sprintf("%d", score)]
		r.writePlain("%3d %s %d\n", score, strings.Repeat("█", count), count)
	}
	for _, g := range stats.Genres {
		r.writePlain("Genre %s: %d\n", g.Name, g.Count)
	}
	return nil
}

// RatingsExport downloads the full library snapshot as JSON.
func (r *Runner) RatingsExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	snapshot, err := r.ratings.Export(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		return r.writeJSON(snapshot, true)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return r.writePlain("✓ Exported %d ratings to %s\n", snapshot.TotalRatings, outputPath)
}
