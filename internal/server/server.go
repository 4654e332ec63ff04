package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/storage"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/tmdb"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg       shared.ServerConfig
	db        *sql.DB
	users     *storage.UserRepository
	ratings   *storage.RatingRepository
	watchlist *storage.WatchlistRepository
	catalog   *tmdb.Client
	logger    *log.Logger
	router    chi.Router
	httpSrv   *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg shared.ServerConfig, db *sql.DB, catalog *tmdb.Client, logger *log.Logger) *Server {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	s := &Server{
		cfg:       cfg,
		db:        db,
		users:     storage.NewUserRepository(db),
		ratings:   storage.NewRatingRepository(db),
		watchlist: storage.NewWatchlistRepository(db),
		catalog:   catalog,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	s.router = r
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/", s.handleRoot)
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)
			r.Get("/me", s.handleMe)
			r.Post("/update_profile", s.handleUpdateProfile)
		})
	})

	s.router.Route("/movies", func(r chi.Router) {
		r.Use(s.requireUser)
		// Static routes before the dynamic id route.
		r.Get("/popular", s.handlePopular)
		r.Get("/search", s.handleSearch)
		r.Get("/top_rated", s.handleTopRated)
		r.Get("/{id}", s.handleDetail)
	})

	s.router.Route("/ratings", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/", s.handleListRatings)
		r.Post("/", s.handleSaveRating)
		r.Get("/stats", s.handleStats)
		r.Get("/export", s.handleExport)
		r.Delete("/{id}", s.handleDeleteRating)
	})

	s.router.Route("/watchlist", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/", s.handleListWatchlist)
		r.Post("/", s.handleAddWatchlist)
		r.Delete("/{id}", s.handleRemoveWatchlist)
		r.Get("/check/{id}", s.handleCheckWatchlist)
	})
}

// Router exposes the handler tree for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr())
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := shared.GenerateID()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "CineRate API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]any{
		"status":    "ok",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.db.PingContext(ctx); err != nil {
		status["status"] = "error"
		status["database"] = err.Error()
	}
	writeJSON(w, http.StatusOK, status)
}
