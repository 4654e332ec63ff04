// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-page workflow for rating movies and TV shows:
//  1. [AuthView] : Log in or register against the backend
//  2. [HomeView] : Browse popular titles from the catalog
//  3. [SearchView] : Debounced catalog search
//  4. [RatingsView] : Browse and filter saved ratings
//  5. [StatsView] : Aggregate statistics derived from the rating set
//  6. [WatchlistView] : Titles saved for later
//
// A detail modal overlays the browse pages and composes catalog detail,
// the cached rating (if any) and fresh watchlist membership. Every
// asynchronous completion carries a sequence token; completions whose
// token no longer matches the model's counter are discarded, so stale
// search results or modal fetches can never overwrite newer state.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
