package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
)

var pageTabs = []struct {
	page  ViewState
	label string
}{
	{HomeView, "Home"},
	{SearchView, "Search"},
	{RatingsView, "Ratings"},
	{StatsView, "Stats"},
	{WatchlistView, "Watchlist"},
}

func (m *Model) renderAuth() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("CineRate"))
	b.WriteString("\n")

	if m.mode == authRegister {
		b.WriteString("Create an account\n\n")
	} else {
		b.WriteString("Log in\n\n")
	}

	b.WriteString(m.authInputs[0].View())
	b.WriteString("\n")
	b.WriteString(m.authInputs[1].View())
	b.WriteString("\n")
	if m.mode == authRegister {
		b.WriteString(m.authInputs[2].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.notice != "" {
		style := styles.ok
		if m.noticeErr {
			style = styles.err
		}
		b.WriteString(style.Render(m.notice))
		b.WriteString("\n\n")
	}

	toggle := "ctrl+r register"
	if m.mode == authRegister {
		toggle = "ctrl+r log in"
	}
	b.WriteString(styles.help.Render(fmt.Sprintf("tab next field • enter submit • %s • ctrl+c quit", toggle)))
	return b.String()
}

func (m *Model) renderHeader() string {
	tabs := make([]string, 0, len(pageTabs))
	for _, t := range pageTabs {
		if t.page == m.view {
			tabs = append(tabs, styles.ok.Render(t.label))
		} else {
			tabs = append(tabs, styles.help.Render(t.label))
		}
	}

	who := ""
	if sess := m.session.Current(); sess != nil {
		name := sess.User.DisplayName
		if name == "" {
			name = sess.User.Username
		}
		who = styles.help.Render("  " + name)
	}

	return fmt.Sprintf("%s%s", strings.Join(tabs, " | "), who)
}

func (m *Model) renderFooter() string {
	if m.notice != "" {
		style := styles.ok
		if m.noticeErr {
			style = styles.err
		}
		return style.Render(m.notice)
	}

	keys := []key.Binding{m.keys.enter, m.keys.tab, m.keys.quit}
	switch m.view {
	case SearchView:
		keys = []key.Binding{m.keys.enter, m.keys.back, m.keys.tab, m.keys.quit}
	case RatingsView:
		keys = []key.Binding{m.keys.enter, m.keys.filter, m.keys.tab, m.keys.quit}
	case WatchlistView:
		keys = []key.Binding{m.keys.enter, m.keys.delete, m.keys.tab, m.keys.quit}
	}
	return m.help.ShortHelpView(keys)
}

func (m *Model) renderStats() string {
	s := m.stats
	var b strings.Builder
	b.WriteString(styles.title.Render("Your Stats"))
	b.WriteString("\n")

	if s.Total == 0 {
		b.WriteString(styles.help.Render("No ratings yet. Rate something first."))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Rated: %d • Average: %.2f • High: %d • Low: %d\n\n", s.Total, s.Average, s.Max, s.Min))

	b.WriteString("Distribution\n")
	for score := models.MaxRating; score >= models.MinRating; score-- {
		count := s.Distribution[fmt.Sprintf("%d", score)]
		bar := strings.Repeat("█", count)
		b.WriteString(fmt.Sprintf("%3d %s %d\n", score, styles.ok.Render(bar), count))
	}
	b.WriteString("\n")

	if len(s.Genres) > 0 {
		b.WriteString("Top genres: ")
		parts := make([]string, 0, len(s.Genres))
		for _, g := range s.Genres {
			parts = append(parts, fmt.Sprintf("%s (%d)", g.Name, g.Count))
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("Movies: %d • TV: %d\n", s.ByType[models.MediaMovie], s.ByType[models.MediaTV]))

	if len(s.ByYear) > 0 {
		b.WriteString("By year: ")
		parts := make([]string, 0, len(s.ByYear))
		for _, y := range s.ByYear {
			parts = append(parts, fmt.Sprintf("%d (%d)", y.Year, y.Count))
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("\n")
	}

	return b.String()
}
