package library

import (
	"context"
	"sync"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/api"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
)

// Filter keys understood by [RatingStore.Filter].
const (
	FilterAll    = "all"
	FilterMovies = "movies"
	FilterTV     = "tv"
	FilterTen    = "10"
	FilterHigh   = "8-9"
	FilterLow    = "low"
)

// Filters lists the filter keys in display order.
var Filters = []string{FilterAll, FilterMovies, FilterTV, FilterTen, FilterHigh, FilterLow}

// RatingStore is the in-memory mirror of the user's rating set.
//
// The mutex only guards against UI commands and CLI actions touching the
// cache from different goroutines; there is no multi-writer contention by
// design, all user-visible mutation is sequenced through one event loop.
type RatingStore struct {
	api *api.Client

	mu    sync.RWMutex
	cache []models.Rating
}

// NewRatingStore creates a store backed by the given gateway.
func NewRatingStore(client *api.Client) *RatingStore {
	return &RatingStore{api: client}
}

// Load replaces the entire cache with the backend's current set.
func (s *RatingStore) Load(ctx context.Context) ([]models.Rating, error) {
	ratings, err := s.api.Ratings(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cache = ratings
	s.mu.Unlock()
	return s.All(), nil
}

// Save upserts a rating by tmdb_id and reloads the cache on success.
// A failed save leaves the cache untouched.
func (s *RatingStore) Save(ctx context.Context, rating models.Rating) (*models.Rating, error) {
	if err := rating.Validate(); err != nil {
		return nil, err
	}
	committed, err := s.api.SaveRating(ctx, rating)
	if err != nil {
		return nil, err
	}
	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}
	return committed, nil
}

// Delete removes the rating for tmdbID and reloads the cache on success.
// A failed delete leaves the cache untouched.
func (s *RatingStore) Delete(ctx context.Context, tmdbID int64) error {
	if err := s.api.DeleteRating(ctx, tmdbID); err != nil {
		return err
	}
	_, err := s.Load(ctx)
	return err
}

// All returns a copy of the cached rating set.
func (s *RatingStore) All() []models.Rating {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Rating, len(s.cache))
	copy(out, s.cache)
	return out
}

// Len returns the number of cached ratings.
func (s *RatingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// Find returns the cached rating for tmdbID, if present. No network call.
func (s *RatingStore) Find(tmdbID int64) (models.Rating, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.cache {
		if r.TMDBID == tmdbID {
			return r, true
		}
	}
	return models.Rating{}, false
}

// Filter applies one of the fixed predicates to the cache. Unknown keys
// behave like FilterAll. Items with an unset media kind count as movies.
func (s *RatingStore) Filter(key string) []models.Rating {
	all := s.All()
	if key == "" || key == FilterAll {
		return all
	}

	out := make([]models.Rating, 0, len(all))
	for _, r := range all {
		var keep bool
		switch key {
		case FilterMovies:
			keep = r.Kind() == models.MediaMovie
		case FilterTV:
			keep = r.Kind() == models.MediaTV
		case FilterTen:
			keep = r.UserRating == 10
		case FilterHigh:
			keep = r.UserRating == 8 || r.UserRating == 9
		case FilterLow:
			keep = r.UserRating <= 7
		default:
			keep = true
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

// Stats derives the aggregate snapshot from the current cache contents.
func (s *RatingStore) Stats() models.StatsSnapshot {
	return ComputeStats(s.All())
}

// Export downloads the full library snapshot. Pure read, the cache is
// not modified.
func (s *RatingStore) Export(ctx context.Context) (*models.ExportSnapshot, error) {
	return s.api.ExportRatings(ctx)
}
