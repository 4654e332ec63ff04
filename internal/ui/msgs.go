package ui

import (
	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/session"
)

type sessionResumedMsg struct {
	state session.State
	err   error
}

type authDoneMsg struct {
	sess *models.Session
	err  error
}

type popularFetchedMsg struct {
	items []models.CatalogItem
	err   error
}

// searchTickMsg fires after the debounce window. The seq token is
// compared against the model's counter; a mismatch means the query
// changed while the timer was pending and the tick is ignored.
type searchTickMsg struct {
	seq int
}

type searchDoneMsg struct {
	seq   int
	items []models.CatalogItem
	err   error
}

type ratingsLoadedMsg struct {
	ratings []models.Rating
	err     error
}

type watchlistLoadedMsg struct {
	entries []models.WatchlistEntry
	err     error
}

// detailDoneMsg completes a modal fetch. Stale tokens are discarded so a
// slow fetch can never populate a modal opened for a different title.
type detailDoneMsg struct {
	seq    int
	item   *models.CatalogItem
	member bool
	err    error
}

type ratingSavedMsg struct {
	rating *models.Rating
	err    error
}

type ratingDeletedMsg struct {
	err error
}

type watchToggledMsg struct {
	added bool
	err   error
}

type noticeExpiredMsg struct {
	seq int
}
