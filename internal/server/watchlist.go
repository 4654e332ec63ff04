package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
)

func (s *Server) handleListWatchlist(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	items, err := s.watchlist.ListByUser(user.ID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleAddWatchlist(w http.ResponseWriter, r *http.Request) {
	var entry models.WatchlistEntry
	if !decodeBody(w, r, &entry) {
		return
	}
	if err := entry.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := currentUser(r)
	if err := s.watchlist.Add(user.ID, entry); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			writeError(w, http.StatusBadRequest, "Already in watchlist")
			return
		}
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleRemoveWatchlist(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	user := currentUser(r)
	if err := s.watchlist.Remove(user.ID, tmdbID); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleCheckWatchlist(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	user := currentUser(r)
	member, err := s.watchlist.Contains(user.ID, tmdbID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"in_watchlist": member})
}
