package server

import (
	"errors"
	"math/rand"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/tmdb"
)

const popularLimit = 20

type catalogResults struct {
	Results []models.CatalogItem `json:"results"`
}

// handlePopular merges this week's trending movies and TV, shuffled.
func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	movies, err := s.catalog.TrendingMovies(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog unavailable: "+err.Error())
		return
	}
	shows, err := s.catalog.TrendingTV(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog unavailable: "+err.Error())
		return
	}

	results := append(movies, shows...)
	rand.Shuffle(len(results), func(i, j int) {
		results[i], results[j] = results[j], results[i]
	})
	if len(results) > popularLimit {
		results = results[:popularLimit]
	}
	writeJSON(w, http.StatusOK, catalogResults{Results: results})
}

// handleSearch queries both indices and returns the merge sorted by
// popularity.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	ctx := r.Context()

	movies, err := s.catalog.SearchMovies(ctx, query)
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog unavailable: "+err.Error())
		return
	}
	shows, err := s.catalog.SearchTV(ctx, query)
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog unavailable: "+err.Error())
		return
	}

	results := append(movies, shows...)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Popularity > results[j].Popularity
	})
	writeJSON(w, http.StatusOK, catalogResults{Results: results})
}

// handleTopRated merges the top rated movie and TV charts sorted by vote
// average.
func (s *Server) handleTopRated(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	movies, err := s.catalog.TopRatedMovies(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog unavailable: "+err.Error())
		return
	}
	shows, err := s.catalog.TopRatedTV(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog unavailable: "+err.Error())
		return
	}

	if len(movies) > 10 {
		movies = movies[:10]
	}
	if len(shows) > 10 {
		shows = shows[:10]
	}
	results := append(movies, shows...)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].VoteAverage > results[j].VoteAverage
	})
	if len(results) > popularLimit {
		results = results[:popularLimit]
	}
	writeJSON(w, http.StatusOK, catalogResults{Results: results})
}

// handleDetail fetches one title. Movie lookups fall back to the TV
// index, so a bare id still resolves for shows.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	mediaType := r.URL.Query().Get("media_type")
	ctx := r.Context()

	if mediaType == models.MediaTV {
		item, err := s.catalog.TVDetail(ctx, id)
		if err == nil {
			writeJSON(w, http.StatusOK, item)
			return
		}
		if !errors.Is(err, tmdb.ErrNotFound) {
			writeError(w, http.StatusBadGateway, "catalog unavailable: "+err.Error())
			return
		}
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	item, err := s.catalog.MovieDetail(ctx, id)
	if err == nil {
		writeJSON(w, http.StatusOK, item)
		return
	}
	if !errors.Is(err, tmdb.ErrNotFound) {
		writeError(w, http.StatusBadGateway, "catalog unavailable: "+err.Error())
		return
	}

	item, err = s.catalog.TVDetail(ctx, id)
	if err == nil {
		writeJSON(w, http.StatusOK, item)
		return
	}
	if !errors.Is(err, tmdb.ErrNotFound) {
		writeError(w, http.StatusBadGateway, "catalog unavailable: "+err.Error())
		return
	}
	writeError(w, http.StatusNotFound, "Not found")
}
