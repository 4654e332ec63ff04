package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) resumeSession() tea.Cmd {
	return func() tea.Msg {
		err := m.session.Resume(m.ctx)
		return sessionResumedMsg{state: m.session.State(), err: err}
	}
}

func (m *Model) submitAuth() tea.Cmd {
	username := strings.TrimSpace(m.authInputs[0].Value())
	password := m.authInputs[1].Value()
	display := strings.TrimSpace(m.authInputs[2].Value())
	register := m.mode == authRegister

	return func() tea.Msg {
		if register {
			sess, err := m.session.Register(m.ctx, username, password, display)
			return authDoneMsg{sess: sess, err: err}
		}
		sess, err := m.session.Login(m.ctx, username, password)
		return authDoneMsg{sess: sess, err: err}
	}
}

func (m *Model) fetchPopular() tea.Cmd {
	topRated := m.topRated
	return func() tea.Msg {
		if topRated {
			items, err := m.client.TopRatedCatalog(m.ctx)
			return popularFetchedMsg{items: items, err: err}
		}
		items, err := m.client.PopularCatalog(m.ctx)
		return popularFetchedMsg{items: items, err: err}
	}
}

func (m *Model) scheduleSearch(seq int) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq}
	})
}

func (m *Model) runSearch(seq int, query string) tea.Cmd {
	return func() tea.Msg {
		items, err := m.client.SearchCatalog(m.ctx, query)
		return searchDoneMsg{seq: seq, items: items, err: err}
	}
}

func (m *Model) loadRatings() tea.Cmd {
	return func() tea.Msg {
		ratings, err := m.ratings.Load(m.ctx)
		return ratingsLoadedMsg{ratings: ratings, err: err}
	}
}

func (m *Model) loadWatchlist() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.watchlist.List(m.ctx)
		return watchlistLoadedMsg{entries: entries, err: err}
	}
}

// openDetail starts a modal fetch. The membership check rides along so
// the modal opens with both the detail and an up-to-date watchlist flag.
func (m *Model) openDetail(tmdbID int64, mediaType string) tea.Cmd {
	seq := m.modal.open()
	return func() tea.Msg {
		item, err := m.client.CatalogDetail(m.ctx, tmdbID, mediaType)
		if err != nil {
			return detailDoneMsg{seq: seq, err: err}
		}
		member, err := m.watchlist.IsMember(m.ctx, tmdbID)
		if err != nil {
			return detailDoneMsg{seq: seq, err: err}
		}
		return detailDoneMsg{seq: seq, item: item, member: member}
	}
}

func (m *Model) saveRating() tea.Cmd {
	if m.modal.phase != modalOpen {
		return nil
	}
	draft := m.modal.draft()
	return func() tea.Msg {
		saved, err := m.ratings.Save(m.ctx, draft)
		return ratingSavedMsg{rating: saved, err: err}
	}
}

func (m *Model) deleteRating(tmdbID int64) tea.Cmd {
	return func() tea.Msg {
		return ratingDeletedMsg{err: m.ratings.Delete(m.ctx, tmdbID)}
	}
}

func (m *Model) toggleWatch() tea.Cmd {
	if m.modal.phase != modalOpen {
		return nil
	}
	entry := m.modal.entry()
	return func() tea.Msg {
		added, err := m.watchlist.Toggle(m.ctx, entry)
		return watchToggledMsg{added: added, err: err}
	}
}

func (m *Model) removeWatch(tmdbID int64) tea.Cmd {
	return func() tea.Msg {
		err := m.watchlist.Remove(m.ctx, tmdbID)
		return watchToggledMsg{added: false, err: err}
	}
}

// Run starts the TUI program and blocks until it exits.
func Run(model *Model) error {
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
