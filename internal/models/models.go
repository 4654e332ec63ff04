package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
)

// Media kinds as they appear on the wire. Records with an empty kind are
// treated as movies throughout.
const (
	MediaMovie = "movie"
	MediaTV    = "tv"
)

// MinRating and MaxRating bound the user score scale.
const (
	MinRating = 1
	MaxRating = 10
)

// Genre is a named genre attached to a catalog detail response.
type Genre struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// CatalogItem represents a movie or TV entry from the external catalog.
//
// TV entries use name/first_air_date upstream; the server normalizes them
// into Title and ReleaseDate before they reach the client.
type CatalogItem struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	Genres       []Genre `json:"genres,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
	Popularity   float64 `json:"popularity,omitempty"`
	MediaType    string  `json:"media_type,omitempty"`
}

// DisplayTitle returns Title, falling back to the TV-style Name field.
func (c CatalogItem) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// Year extracts the release year from the date string, 0 when absent.
// TV entries fall back to the first-air date.
func (c CatalogItem) Year() int {
	date := c.ReleaseDate
	if date == "" {
		date = c.FirstAirDate
	}
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// Kind returns the media kind, defaulting empty values to movie.
func (c CatalogItem) Kind() string {
	if c.MediaType == MediaTV {
		return MediaTV
	}
	return MediaMovie
}

// GenreNames joins the genre names into the comma-separated form the
// library endpoints store.
func (c CatalogItem) GenreNames() string {
	names := make([]string, 0, len(c.Genres))
	for _, g := range c.Genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return strings.Join(names, ", ")
}

// Rating is a user's score for one catalog title. Identity is
// (user, tmdb_id): saving again overwrites, it never duplicates.
type Rating struct {
	ID         int64   `json:"id,omitempty"`
	TMDBID     int64   `json:"tmdb_id"`
	Title      string  `json:"title"`
	Year       int     `json:"year,omitempty"`
	PosterPath string  `json:"poster_path,omitempty"`
	TMDBRating float64 `json:"tmdb_rating,omitempty"`
	UserRating int     `json:"user_rating"`
	Comment    string  `json:"comment,omitempty"`
	Genres     string  `json:"genres,omitempty"`
	Overview   string  `json:"overview,omitempty"`
	MediaType  string  `json:"media_type,omitempty"`
	CreatedAt  string  `json:"created_at,omitempty"`
}

// Validate checks the fields a rating needs before it can be saved.
func (r Rating) Validate() error {
	if r.TMDBID == 0 {
		return fmt.Errorf("%w: tmdb_id is required", shared.ErrInvalidInput)
	}
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}
	if r.UserRating < MinRating || r.UserRating > MaxRating {
		return fmt.Errorf("%w: user_rating must be between %d and %d", shared.ErrInvalidInput, MinRating, MaxRating)
	}
	return nil
}

// Kind returns the media kind, defaulting empty values to movie.
func (r Rating) Kind() string {
	if r.MediaType == MediaTV {
		return MediaTV
	}
	return MediaMovie
}

// WatchlistEntry is a saved catalog title. Same identity rule as Rating
// but the client never caches these locally.
type WatchlistEntry struct {
	ID         int64   `json:"id,omitempty"`
	TMDBID     int64   `json:"tmdb_id"`
	Title      string  `json:"title"`
	Year       int     `json:"year,omitempty"`
	PosterPath string  `json:"poster_path,omitempty"`
	TMDBRating float64 `json:"tmdb_rating,omitempty"`
	Genres     string  `json:"genres,omitempty"`
	Overview   string  `json:"overview,omitempty"`
	MediaType  string  `json:"media_type,omitempty"`
	CreatedAt  string  `json:"created_at,omitempty"`
}

// Validate checks the fields an entry needs before it can be added.
func (w WatchlistEntry) Validate() error {
	if w.TMDBID == 0 {
		return fmt.Errorf("%w: tmdb_id is required", shared.ErrInvalidInput)
	}
	if w.Title == "" {
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}
	return nil
}

// Kind returns the media kind, defaulting empty values to movie.
func (w WatchlistEntry) Kind() string {
	if w.MediaType == MediaTV {
		return MediaTV
	}
	return MediaMovie
}

// User is the account identity the auth endpoints return.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
}

// Session couples a user with the bearer token authorizing their calls.
// App views are reachable only while a Session exists.
type Session struct {
	User  User
	Token string
}

// GenreCount is one entry of the top-genres ranking.
type GenreCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// YearCount is one entry of the per-year rating counts.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// StatsSnapshot aggregates a rating set. Derived on demand, never stored.
// Distribution always carries the fixed keys "1" through "10".
type StatsSnapshot struct {
	Total        int            `json:"total"`
	Average      float64        `json:"average"`
	Max          int            `json:"max"`
	Min          int            `json:"min"`
	Distribution map[string]int `json:"distribution"`
	Genres       []GenreCount   `json:"genres"`
	ByType       map[string]int `json:"by_type"`
	ByYear       []YearCount    `json:"by_year"`
}

// ExportSnapshot is the full-library download returned by /ratings/export.
type ExportSnapshot struct {
	User         User     `json:"user"`
	ExportDate   string   `json:"export_date"`
	TotalRatings int      `json:"total_ratings"`
	Ratings      []Rating `json:"ratings"`
}
