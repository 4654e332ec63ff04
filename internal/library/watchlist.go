package library

import (
	"context"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/api"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
)

// Watchlist tracks saved titles against the backend collection. It keeps
// no local cache, so IsMember always issues a request.
type Watchlist struct {
	api *api.Client
}

// NewWatchlist creates a controller backed by the given gateway.
func NewWatchlist(client *api.Client) *Watchlist {
	return &Watchlist{api: client}
}

// List fetches the full watchlist.
func (w *Watchlist) List(ctx context.Context) ([]models.WatchlistEntry, error) {
	return w.api.Watchlist(ctx)
}

// Add saves an entry. The backend rejects duplicates per (user, tmdb_id).
func (w *Watchlist) Add(ctx context.Context, entry models.WatchlistEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	return w.api.AddToWatchlist(ctx, entry)
}

// Remove drops the entry for tmdbID.
func (w *Watchlist) Remove(ctx context.Context, tmdbID int64) error {
	return w.api.RemoveFromWatchlist(ctx, tmdbID)
}

// IsMember checks membership with a fresh round trip.
func (w *Watchlist) IsMember(ctx context.Context, tmdbID int64) (bool, error) {
	return w.api.InWatchlist(ctx, tmdbID)
}

// Toggle flips membership and returns the new state. This is
// check-then-act: another session mutating the same entry concurrently
// can race, accepted under the single-user-session assumption.
func (w *Watchlist) Toggle(ctx context.Context, entry models.WatchlistEntry) (bool, error) {
	member, err := w.IsMember(ctx, entry.TMDBID)
	if err != nil {
		return false, err
	}
	if member {
		if err := w.Remove(ctx, entry.TMDBID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := w.Add(ctx, entry); err != nil {
		return false, err
	}
	return true, nil
}
