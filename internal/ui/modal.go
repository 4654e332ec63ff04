package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
)

type modalPhase int

const (
	modalClosed modalPhase = iota
	modalLoading
	modalOpen
)

const defaultScore = 5

// detailModal composes catalog detail, the cached rating (if any) and
// fresh watchlist membership for a single title. Edits made inside the
// modal live only here; closing without saving discards them.
type detailModal struct {
	phase    modalPhase
	seq      int
	item     *models.CatalogItem
	existing *models.Rating
	member   bool
	score    int
	comment  textinput.Model
}

func newDetailModal() detailModal {
	comment := textinput.New()
	comment.Placeholder = "Add a comment"
	comment.CharLimit = 500
	return detailModal{comment: comment}
}

// open moves the modal to the loading phase and returns the sequence
// token the eventual [detailDoneMsg] must carry to be accepted.
func (d *detailModal) open() int {
	d.seq++
	d.phase = modalLoading
	d.item = nil
	d.existing = nil
	return d.seq
}

// populate fills the modal from a completed fetch. The cached rating
// seeds the editable fields; unrated titles start at the default score
// with an empty comment.
func (d *detailModal) populate(item *models.CatalogItem, existing *models.Rating, member bool) {
	d.phase = modalOpen
	d.item = item
	d.existing = existing
	d.member = member
	if existing != nil {
		d.score = existing.UserRating
		d.comment.SetValue(existing.Comment)
	} else {
		d.score = defaultScore
		d.comment.SetValue("")
	}
	d.comment.Blur()
}

// close discards any unsaved edits and resets the modal. A stale fetch
// completing after close carries an old token and is ignored.
func (d *detailModal) close() {
	d.phase = modalClosed
	d.item = nil
	d.existing = nil
	d.comment.Blur()
	d.comment.SetValue("")
}

func (d *detailModal) adjustScore(delta int) {
	d.score += delta
	if d.score < models.MinRating {
		d.score = models.MinRating
	}
	if d.score > models.MaxRating {
		d.score = models.MaxRating
	}
}

// draft builds the rating the save command submits.
func (d *detailModal) draft() models.Rating {
	item := d.item
	return models.Rating{
		TMDBID:     item.ID,
		Title:      item.DisplayTitle(),
		Year:       item.Year(),
		PosterPath: item.PosterPath,
		TMDBRating: item.VoteAverage,
		UserRating: d.score,
		Comment:    strings.TrimSpace(d.comment.Value()),
		Genres:     item.GenreNames(),
		Overview:   item.Overview,
		MediaType:  item.Kind(),
	}
}

// entry builds the watchlist entry the toggle command submits.
func (d *detailModal) entry() models.WatchlistEntry {
	item := d.item
	return models.WatchlistEntry{
		TMDBID:     item.ID,
		Title:      item.DisplayTitle(),
		Year:       item.Year(),
		PosterPath: item.PosterPath,
		TMDBRating: item.VoteAverage,
		Genres:     item.GenreNames(),
		Overview:   item.Overview,
		MediaType:  item.Kind(),
	}
}

func (d *detailModal) render(width int) string {
	if d.item == nil {
		return ""
	}

	item := d.item
	var b strings.Builder

	title := item.DisplayTitle()
	if year := item.Year(); year != 0 {
		title = fmt.Sprintf("%s (%d)", title, year)
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	kind := "Movie"
	if item.Kind() == models.MediaTV {
		kind = "TV Show"
	}
	b.WriteString(fmt.Sprintf("%s • TMDB %.1f", kind, item.VoteAverage))
	if genres := item.GenreNames(); genres != "" {
		b.WriteString(" • " + genres)
	}
	b.WriteString("\n\n")

	if item.Overview != "" {
		b.WriteString(wrap(item.Overview, width-4))
		b.WriteString("\n\n")
	}

	filled := strings.Repeat("★", d.score)
	empty := strings.Repeat("☆", models.MaxRating-d.score)
	label := "Your rating"
	if d.existing == nil {
		label = "Rate it"
	}
	b.WriteString(fmt.Sprintf("%s: %s%s %d/10\n", label, styles.ok.Render(filled), empty, d.score))
	b.WriteString(d.comment.View())
	b.WriteString("\n\n")

	if d.member {
		b.WriteString(styles.warn.Render("On your watchlist"))
	} else {
		b.WriteString(styles.help.Render("Not on your watchlist"))
	}
	b.WriteString("\n\n")

	hints := "↑/↓ score • c comment • s save • w watchlist • esc close"
	if d.existing != nil {
		hints = "↑/↓ score • c comment • s save • d delete • w watchlist • esc close"
	}
	if d.comment.Focused() {
		hints = "enter/esc done editing"
	}
	b.WriteString(styles.help.Render(hints))

	return b.String()
}

// wrap breaks text on word boundaries so overviews fit the terminal.
func wrap(text string, width int) string {
	if width < 20 {
		width = 20
	}
	words := strings.Fields(text)
	var b strings.Builder
	line := 0
	for i, w := range words {
		wlen := lipgloss.Width(w)
		if line+wlen+1 > width && line > 0 {
			b.WriteString("\n")
			line = 0
		} else if i > 0 {
			b.WriteString(" ")
			line++
		}
		b.WriteString(w)
		line += wlen
	}
	return b.String()
}
