package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
)

// RatingRepository persists the per-user rating set.
type RatingRepository struct {
	db *sql.DB
}

// NewRatingRepository creates a repository over the given database connection.
func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

const ratingColumns = "id, tmdb_id, title, year, poster_path, tmdb_rating, user_rating, comment, genres, overview, media_type, created_at"

func scanRating(row interface{ Scan(...any) error }) (models.Rating, error) {
	var r models.Rating
	var year sql.NullInt64
	var posterPath, comment, genres, overview, mediaType, createdAt sql.NullString
	var tmdbRating sql.NullFloat64

	err := row.Scan(&r.ID, &r.TMDBID, &r.Title, &year, &posterPath, &tmdbRating,
		&r.UserRating, &comment, &genres, &overview, &mediaType, &createdAt)
	if err != nil {
		return r, err
	}

	r.Year = int(year.Int64)
	r.PosterPath = posterPath.String
	r.TMDBRating = tmdbRating.Float64
	r.Comment = comment.String
	r.Genres = genres.String
	r.Overview = overview.String
	r.MediaType = mediaType.String
	r.CreatedAt = createdAt.String
	return r, nil
}

// ListByUser returns the user's ratings, newest first.
func (r *RatingRepository) ListByUser(userID int64) ([]models.Rating, error) {
	rows, err := r.db.Query(
		"SELECT "+ratingColumns+" FROM ratings WHERE user_id = ? ORDER BY created_at DESC, id DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	ratings := []models.Rating{}
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return ratings, nil
}

// Get returns the user's rating for tmdbID, or [shared.ErrNotFound].
func (r *RatingRepository) Get(userID, tmdbID int64) (*models.Rating, error) {
	row := r.db.QueryRow(
		"SELECT "+ratingColumns+" FROM ratings WHERE user_id = ? AND tmdb_id = ?",
		userID, tmdbID,
	)
	rating, err := scanRating(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: rating %d", shared.ErrNotFound, tmdbID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rating: %w", err)
	}
	return &rating, nil
}

// Upsert inserts or fully overwrites the user's rating for the record's
// tmdb_id. One statement, no read-modify-write.
func (r *RatingRepository) Upsert(userID int64, rating models.Rating) (*models.Rating, error) {
	_, err := r.db.Exec(`
		INSERT INTO ratings (user_id, tmdb_id, title, year, poster_path, tmdb_rating,
			user_rating, comment, genres, overview, media_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, tmdb_id) DO UPDATE SET
			user_rating = excluded.user_rating,
			comment = excluded.comment,
			media_type = excluded.media_type,
			updated_at = CURRENT_TIMESTAMP
	`, userID, rating.TMDBID, rating.Title, nullableInt(rating.Year), nullableString(rating.PosterPath),
		nullableFloat(rating.TMDBRating), rating.UserRating, nullableString(rating.Comment),
		nullableString(rating.Genres), nullableString(rating.Overview), rating.Kind())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert rating: %w", err)
	}

	return r.Get(userID, rating.TMDBID)
}

// Delete removes the user's rating for tmdbID. Deleting a record that
// does not exist yields [shared.ErrNotFound].
func (r *RatingRepository) Delete(userID, tmdbID int64) error {
	result, err := r.db.Exec("DELETE FROM ratings WHERE user_id = ? AND tmdb_id = ?", userID, tmdbID)
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: rating %d", shared.ErrNotFound, tmdbID)
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(i int) any {
	if i == 0 {
		return nil
	}
	return i
}

func nullableFloat(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}
