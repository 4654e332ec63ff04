package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/library"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
)

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	ratings, err := s.ratings.ListByUser(user.ID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

func (s *Server) handleSaveRating(w http.ResponseWriter, r *http.Request) {
	var rating models.Rating
	if !decodeBody(w, r, &rating) {
		return
	}
	if err := rating.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := currentUser(r)
	committed, err := s.ratings.Upsert(user.ID, rating)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, committed)
}

func (s *Server) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	user := currentUser(r)
	if err := s.ratings.Delete(user.ID, tmdbID); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleStats derives the aggregate snapshot from the user's current
// rating set; nothing is precomputed or stored.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	ratings, err := s.ratings.ListByUser(user.ID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, library.ComputeStats(ratings))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	ratings, err := s.ratings.ListByUser(user.ID)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ExportSnapshot{
		User:         *user,
		ExportDate:   time.Now().UTC().Format(time.RFC3339),
		TotalRatings: len(ratings),
		Ratings:      ratings,
	})
}
