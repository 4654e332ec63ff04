package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
)

// WatchlistRepository persists the per-user watchlist.
type WatchlistRepository struct {
	db *sql.DB
}

// NewWatchlistRepository creates a repository over the given database connection.
func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// ListByUser returns the user's watchlist, newest first.
func (r *WatchlistRepository) ListByUser(userID int64) ([]models.WatchlistEntry, error) {
	rows, err := r.db.Query(`
		SELECT id, tmdb_id, title, year, poster_path, tmdb_rating, genres, overview, media_type, created_at
		FROM watchlist WHERE user_id = ? ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	entries := []models.WatchlistEntry{}
	for rows.Next() {
		var e models.WatchlistEntry
		var year sql.NullInt64
		var posterPath, genres, overview, mediaType, createdAt sql.NullString
		var tmdbRating sql.NullFloat64

		if err := rows.Scan(&e.ID, &e.TMDBID, &e.Title, &year, &posterPath, &tmdbRating,
			&genres, &overview, &mediaType, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}

		e.Year = int(year.Int64)
		e.PosterPath = posterPath.String
		e.TMDBRating = tmdbRating.Float64
		e.Genres = genres.String
		e.Overview = overview.String
		e.MediaType = mediaType.String
		e.CreatedAt = createdAt.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// Add inserts an entry. A duplicate (user, tmdb_id) yields
// [shared.ErrAlreadyExists].
func (r *WatchlistRepository) Add(userID int64, entry models.WatchlistEntry) error {
	_, err := r.db.Exec(`
		INSERT INTO watchlist (user_id, tmdb_id, title, year, poster_path, tmdb_rating, genres, overview, media_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, entry.TMDBID, entry.Title, nullableInt(entry.Year), nullableString(entry.PosterPath),
		nullableFloat(entry.TMDBRating), nullableString(entry.Genres), nullableString(entry.Overview), entry.Kind())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: watchlist entry %d", shared.ErrAlreadyExists, entry.TMDBID)
		}
		return fmt.Errorf("failed to insert watchlist entry: %w", err)
	}
	return nil
}

// Remove deletes the user's entry for tmdbID. Removing a missing entry
// is not an error; the end state is the same.
func (r *WatchlistRepository) Remove(userID, tmdbID int64) error {
	if _, err := r.db.Exec("DELETE FROM watchlist WHERE user_id = ? AND tmdb_id = ?", userID, tmdbID); err != nil {
		return fmt.Errorf("failed to delete watchlist entry: %w", err)
	}
	return nil
}

// Contains reports whether the user has saved tmdbID.
func (r *WatchlistRepository) Contains(userID, tmdbID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM watchlist WHERE user_id = ? AND tmdb_id = ?)",
		userID, tmdbID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check watchlist: %w", err)
	}
	return exists, nil
}
