package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
)

var (
	_ list.Item = catalogItem{}
	_ list.Item = ratingItem{}
	_ list.Item = watchItem{}
)

// catalogItem wraps [models.CatalogItem] to implement [list.Item].
type catalogItem struct {
	item models.CatalogItem
}

func (i catalogItem) FilterValue() string { return i.item.DisplayTitle() }
func (i catalogItem) Title() string {
	title := i.item.DisplayTitle()
	if year := i.item.Year(); year != 0 {
		title = fmt.Sprintf("%s (%d)", title, year)
	}
	return title
}
func (i catalogItem) Description() string {
	kind := "Movie"
	if i.item.Kind() == models.MediaTV {
		kind = "TV"
	}
	return fmt.Sprintf("%s • TMDB %.1f", kind, i.item.VoteAverage)
}

// ratingItem wraps [models.Rating] to implement [list.Item].
type ratingItem struct {
	rating models.Rating
}

func (i ratingItem) FilterValue() string { return i.rating.Title }
func (i ratingItem) Title() string {
	title := i.rating.Title
	if i.rating.Year != 0 {
		title = fmt.Sprintf("%s (%d)", title, i.rating.Year)
	}
	return fmt.Sprintf("%s • %d/10", title, i.rating.UserRating)
}
func (i ratingItem) Description() string {
	if i.rating.Comment != "" {
		return i.rating.Comment
	}
	return i.rating.Genres
}

// watchItem wraps [models.WatchlistEntry] to implement [list.Item].
type watchItem struct {
	entry models.WatchlistEntry
}

func (i watchItem) FilterValue() string { return i.entry.Title }
func (i watchItem) Title() string {
	title := i.entry.Title
	if i.entry.Year != 0 {
		title = fmt.Sprintf("%s (%d)", title, i.entry.Year)
	}
	return title
}
func (i watchItem) Description() string {
	kind := "Movie"
	if i.entry.Kind() == models.MediaTV {
		kind = "TV"
	}
	return fmt.Sprintf("%s • TMDB %.1f", kind, i.entry.TMDBRating)
}
