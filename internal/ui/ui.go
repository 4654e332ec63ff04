package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/api"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/library"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/session"
)

// ViewState represents the current page in the TUI.
type ViewState int

const (
	AuthView ViewState = iota
	HomeView
	SearchView
	RatingsView
	StatsView
	WatchlistView
)

const (
	searchDebounce = 300 * time.Millisecond
	minQueryLen    = 2
	noticeTTL      = 4 * time.Second
)

type authMode int

const (
	authLogin authMode = iota
	authRegister
)

// pageNames maps pages to the identifiers persisted in local state so
// the next launch can restore the last page.
var pageNames = map[ViewState]string{
	HomeView:      "home",
	SearchView:    "search",
	RatingsView:   "ratings",
	StatsView:     "stats",
	WatchlistView: "watchlist",
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	logger    *log.Logger
	session   *session.Controller
	client    *api.Client
	ratings   *library.RatingStore
	watchlist *library.Watchlist

	view   ViewState
	width  int
	height int
	keys   keyMap
	help   help.Model
	spin   spinner.Model

	mode       authMode
	authInputs []textinput.Model
	authFocus  int

	homeList  list.Model
	topRated  bool
	searchIn  textinput.Model
	searchLst list.Model
	searchSeq int
	ratingLst list.Model
	filterIdx int
	watchLst  list.Model
	stats     models.StatsSnapshot

	modal detailModal

	notice    string
	noticeErr bool
	noticeSeq int
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, logger *log.Logger, sess *session.Controller, client *api.Client, ratings *library.RatingStore, watch *library.Watchlist) *Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	display := textinput.New()
	display.Placeholder = "display name (optional)"

	searchIn := textinput.New()
	searchIn.Placeholder = "Search movies and TV shows"
	searchIn.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &Model{
		ctx:        ctx,
		logger:     logger,
		session:    sess,
		client:     client,
		ratings:    ratings,
		watchlist:  watch,
		view:       AuthView,
		keys:       newKeyMap(),
		help:       help.New(),
		spin:       spin,
		authInputs: []textinput.Model{username, password, display},
		homeList:   newPageList("Popular Now"),
		searchIn:   searchIn,
		searchLst:  newPageList("Results"),
		ratingLst:  newPageList("My Ratings"),
		watchLst:   newPageList("Watchlist"),
		modal:      newDetailModal(),
	}
}

func newPageList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return l
}

// Init resumes any persisted session before showing a page.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.resumeSession())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.homeList, &m.searchLst, &m.ratingLst, &m.watchLst} {
			l.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case sessionResumedMsg:
		if msg.err != nil {
			m.view = AuthView
			return m, m.showError(msg.err)
		}
		if msg.state == session.LoggedIn {
			m.gotoPage(m.restoredPage())
			return m, tea.Batch(m.fetchPopular(), m.loadRatings(), m.loadWatchlist())
		}
		m.view = AuthView
		return m, nil

	case authDoneMsg:
		if msg.err != nil {
			return m, m.showError(msg.err)
		}
		m.clearAuthInputs()
		m.gotoPage(HomeView)
		return m, tea.Batch(m.fetchPopular(), m.loadRatings(), m.loadWatchlist())

	case popularFetchedMsg:
		if msg.err != nil {
			return m, m.surface(msg.err)
		}
		m.homeList.SetItems(catalogItems(msg.items))
		return m, nil

	case searchTickMsg:
		// Only the newest pending tick survives; older ones carry a
		// stale token and fall through.
		if msg.seq != m.searchSeq {
			return m, nil
		}
		query := strings.TrimSpace(m.searchIn.Value())
		if len([]rune(query)) < minQueryLen {
			return m, nil
		}
		return m, m.runSearch(msg.seq, query)

	case searchDoneMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		if msg.err != nil {
			return m, m.surface(msg.err)
		}
		m.searchLst.SetItems(catalogItems(msg.items))
		return m, nil

	case ratingsLoadedMsg:
		if msg.err != nil {
			return m, m.surface(msg.err)
		}
		m.refreshRatingList()
		return m, nil

	case watchlistLoadedMsg:
		if msg.err != nil {
			return m, m.surface(msg.err)
		}
		m.watchLst.SetItems(watchItems(msg.entries))
		return m, nil

	case detailDoneMsg:
		if msg.seq != m.modal.seq || m.modal.phase == modalClosed {
			return m, nil
		}
		if msg.err != nil {
			m.modal.close()
			return m, m.surface(msg.err)
		}
		var existing *models.Rating
		if cached, ok := m.ratings.Find(msg.item.ID); ok {
			existing = &cached
		}
		m.modal.populate(msg.item, existing, msg.member)
		return m, nil

	case ratingSavedMsg:
		if msg.err != nil {
			return m, m.surface(msg.err)
		}
		m.modal.close()
		m.refreshRatingList()
		return m, m.showNotice("Rating saved")

	case ratingDeletedMsg:
		if msg.err != nil {
			return m, m.surface(msg.err)
		}
		m.modal.close()
		m.refreshRatingList()
		return m, m.showNotice("Rating deleted")

	case watchToggledMsg:
		if msg.err != nil {
			return m, m.surface(msg.err)
		}
		notice := "Removed from watchlist"
		if msg.added {
			notice = "Added to watchlist"
		}
		if m.modal.phase == modalOpen {
			m.modal.member = msg.added
		}
		return m, tea.Batch(m.showNotice(notice), m.loadWatchlist())

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

// View renders the UI based on the current page and modal state.
func (m *Model) View() string {
	if m.view == AuthView {
		return m.renderAuth()
	}

	var body string
	if m.modal.phase == modalLoading {
		body = fmt.Sprintf("%s %s", m.spin.View(), styles.help.Render("Loading details..."))
	} else if m.modal.phase == modalOpen {
		body = m.modal.render(m.width)
	} else {
		switch m.view {
		case HomeView:
			body = m.homeList.View()
		case SearchView:
			body = fmt.Sprintf("%s\n\n%s", m.searchIn.View(), m.searchLst.View())
		case RatingsView:
			body = fmt.Sprintf("%s\n%s", styles.help.Render("filter: "+library.Filters[m.filterIdx]), m.ratingLst.View())
		case StatsView:
			body = m.renderStats()
		case WatchlistView:
			body = m.watchLst.View()
		}
	}

	return fmt.Sprintf("%s\n%s\n%s", m.renderHeader(), body, m.renderFooter())
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.view == AuthView {
		return m.handleAuthKeys(msg)
	}
	if m.modal.phase != modalClosed {
		return m.handleModalKeys(msg)
	}

	switch msg.String() {
	case "q":
		if m.view != SearchView || !m.searchIn.Focused() {
			return m, tea.Quit
		}
	case "tab":
		m.gotoPage(m.nextPage())
		return m, nil
	case "shift+tab":
		m.gotoPage(m.prevPage())
		return m, nil
	}

	switch m.view {
	case HomeView:
		return m.handleHomeKeys(msg)
	case SearchView:
		return m.handleSearchKeys(msg)
	case RatingsView:
		return m.handleRatingsKeys(msg)
	case StatsView:
		return m, nil
	case WatchlistView:
		return m.handleWatchlistKeys(msg)
	}
	return m, nil
}

func (m *Model) handleAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		fields := 2
		if m.mode == authRegister {
			fields = 3
		}
		if msg.String() == "tab" {
			m.authFocus = (m.authFocus + 1) % fields
		} else {
			m.authFocus = (m.authFocus + fields - 1) % fields
		}
		for i := range m.authInputs {
			if i == m.authFocus {
				m.authInputs[i].Focus()
			} else {
				m.authInputs[i].Blur()
			}
		}
		return m, nil
	case "ctrl+r":
		if m.mode == authLogin {
			m.mode = authRegister
		} else {
			m.mode = authLogin
			if m.authFocus > 1 {
				m.authFocus = 0
				m.authInputs[2].Blur()
				m.authInputs[0].Focus()
			}
		}
		return m, nil
	case "enter":
		return m, m.submitAuth()
	}

	var cmd tea.Cmd
	m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	return m, cmd
}

func (m *Model) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.gotoPage(SearchView)
		return m, nil
	case "t":
		m.topRated = !m.topRated
		if m.topRated {
			m.homeList.Title = "Top Rated"
		} else {
			m.homeList.Title = "Popular Now"
		}
		return m, m.fetchPopular()
	case "r":
		return m, m.fetchPopular()
	case "enter":
		if item, ok := m.homeList.SelectedItem().(catalogItem); ok {
			return m, m.openDetail(item.item.ID, item.item.Kind())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.homeList, cmd = m.homeList.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchIn.Focused() {
		switch msg.String() {
		case "esc", "down":
			m.searchIn.Blur()
			return m, nil
		case "enter":
			// Explicit submit: search right away, skipping the debounce
			// and the length minimum.
			m.searchIn.Blur()
			query := strings.TrimSpace(m.searchIn.Value())
			if query == "" {
				return m, nil
			}
			m.searchSeq++
			return m, m.runSearch(m.searchSeq, query)
		}
		before := m.searchIn.Value()
		var cmd tea.Cmd
		m.searchIn, cmd = m.searchIn.Update(msg)
		if m.searchIn.Value() == before {
			return m, cmd
		}

		// Each edit invalidates every in-flight search. Short queries
		// clear the results synchronously, no request fires for them.
		m.searchSeq++
		query := strings.TrimSpace(m.searchIn.Value())
		if len([]rune(query)) < minQueryLen {
			m.searchLst.SetItems(nil)
			return m, cmd
		}
		return m, tea.Batch(cmd, m.scheduleSearch(m.searchSeq))
	}

	switch msg.String() {
	case "/", "esc":
		m.searchIn.Focus()
		return m, nil
	case "enter":
		if item, ok := m.searchLst.SelectedItem().(catalogItem); ok {
			return m, m.openDetail(item.item.ID, item.item.Kind())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchLst, cmd = m.searchLst.Update(msg)
	return m, cmd
}

func (m *Model) handleRatingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "f":
		m.filterIdx = (m.filterIdx + 1) % len(library.Filters)
		m.refreshRatingList()
		return m, nil
	case "r":
		return m, m.loadRatings()
	case "enter":
		if item, ok := m.ratingLst.SelectedItem().(ratingItem); ok {
			return m, m.openDetail(item.rating.TMDBID, item.rating.Kind())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.ratingLst, cmd = m.ratingLst.Update(msg)
	return m, cmd
}

func (m *Model) handleWatchlistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "d":
		if item, ok := m.watchLst.SelectedItem().(watchItem); ok {
			return m, m.removeWatch(item.entry.TMDBID)
		}
		return m, nil
	case "enter":
		if item, ok := m.watchLst.SelectedItem().(watchItem); ok {
			return m, m.openDetail(item.entry.TMDBID, item.entry.Kind())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.watchLst, cmd = m.watchLst.Update(msg)
	return m, cmd
}

func (m *Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal.phase == modalLoading {
		if msg.String() == "esc" {
			m.modal.close()
		}
		return m, nil
	}

	if m.modal.comment.Focused() {
		switch msg.String() {
		case "enter", "esc":
			m.modal.comment.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.modal.comment, cmd = m.modal.comment.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc", "q":
		m.modal.close()
		return m, nil
	case "up", "k", "+":
		m.modal.adjustScore(1)
		return m, nil
	case "down", "j", "-":
		m.modal.adjustScore(-1)
		return m, nil
	case "c":
		return m, m.modal.comment.Focus()
	case "s":
		return m, m.saveRating()
	case "d":
		if m.modal.existing != nil {
			return m, m.deleteRating(m.modal.item.ID)
		}
		return m, nil
	case "w":
		return m, m.toggleWatch()
	}
	return m, nil
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case HomeView:
		m.homeList, cmd = m.homeList.Update(msg)
	case SearchView:
		m.searchLst, cmd = m.searchLst.Update(msg)
	case RatingsView:
		m.ratingLst, cmd = m.ratingLst.Update(msg)
	case WatchlistView:
		m.watchLst, cmd = m.watchLst.Update(msg)
	}
	return m, cmd
}

func (m *Model) gotoPage(page ViewState) {
	m.modal.close()
	m.view = page
	if name, ok := pageNames[page]; ok {
		m.session.RememberPage(name)
	}
	if page == StatsView {
		m.stats = m.ratings.Stats()
	}
}

var pageOrder = []ViewState{HomeView, SearchView, RatingsView, StatsView, WatchlistView}

func (m *Model) nextPage() ViewState {
	for i, p := range pageOrder {
		if p == m.view {
			return pageOrder[(i+1)%len(pageOrder)]
		}
	}
	return HomeView
}

func (m *Model) prevPage() ViewState {
	for i, p := range pageOrder {
		if p == m.view {
			return pageOrder[(i+len(pageOrder)-1)%len(pageOrder)]
		}
	}
	return HomeView
}

func (m *Model) restoredPage() ViewState {
	for page, name := range pageNames {
		if name == m.session.LastPage() {
			return page
		}
	}
	return HomeView
}

func (m *Model) refreshRatingList() {
	m.ratingLst.SetItems(ratingItems(m.ratings.Filter(library.Filters[m.filterIdx])))
	if m.view == StatsView {
		m.stats = m.ratings.Stats()
	}
}

func (m *Model) clearAuthInputs() {
	for i := range m.authInputs {
		m.authInputs[i].SetValue("")
		m.authInputs[i].Blur()
	}
	m.authFocus = 0
	m.authInputs[0].Focus()
}

// surface reports an async failure, demoting to the auth page when the
// backend rejected our token.
func (m *Model) surface(err error) tea.Cmd {
	if m.session.Handle401(err) {
		m.modal.close()
		m.view = AuthView
		return m.showError(fmt.Errorf("session expired, please log in again"))
	}
	return m.showError(err)
}

func (m *Model) showError(err error) tea.Cmd {
	m.logger.Error("ui error", "error", err)
	return m.setNotice(err.Error(), true)
}

func (m *Model) showNotice(text string) tea.Cmd {
	return m.setNotice(text, false)
}

func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	m.notice = text
	m.noticeErr = isErr
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func catalogItems(items []models.CatalogItem) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = catalogItem{item: it}
	}
	return out
}

func ratingItems(ratings []models.Rating) []list.Item {
	out := make([]list.Item, len(ratings))
	for i, r := range ratings {
		out[i] = ratingItem{rating: r}
	}
	return out
}

func watchItems(entries []models.WatchlistEntry) []list.Item {
	out := make([]list.Item, len(entries))
	for i, e := range entries {
		out[i] = watchItem{entry: e}
	}
	return out
}
