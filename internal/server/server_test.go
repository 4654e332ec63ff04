package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/api"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/storage"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/tmdb"
)

// fakeTMDB serves canned catalog payloads in the upstream wire shape.
func fakeTMDB(t *testing.T) *httptest.Server {
	t.Helper()

	movie := map[string]any{
		"id": 603, "title": "The Matrix", "release_date": "1999-03-30",
		"poster_path": "/matrix.jpg", "overview": "A hacker learns the truth.",
		"vote_average": 8.2, "popularity": 80.0,
		"genres": []map[string]any{{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}},
	}
	show := map[string]any{
		"id": 1396, "name": "Breaking Bad", "first_air_date": "2008-01-20",
		"poster_path": "/bb.jpg", "overview": "A chemistry teacher breaks bad.",
		"vote_average": 8.9, "popularity": 120.0,
		"genres": []map[string]any{{"id": 18, "name": "Drama"}},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch {
		case strings.HasPrefix(r.URL.Path, "/trending/movie"),
			r.URL.Path == "/search/movie",
			r.URL.Path == "/movie/top_rated":
			json.NewEncoder(w).Encode(map[string]any{"results": []any{movie}})
		case strings.HasPrefix(r.URL.Path, "/trending/tv"),
			r.URL.Path == "/search/tv",
			r.URL.Path == "/tv/top_rated":
			json.NewEncoder(w).Encode(map[string]any{"results": []any{show}})
		case r.URL.Path == "/movie/603":
			json.NewEncoder(w).Encode(movie)
		case r.URL.Path == "/tv/1396":
			json.NewEncoder(w).Encode(show)
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"status_message": "not found"})
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// newTestServer boots a full server over :memory: sqlite and a fake
// catalog, returning a client pointed at it.
func newTestServer(t *testing.T) *api.Client {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	catalog := tmdb.NewClient("test-key", tmdb.Options{
		BaseURL:   fakeTMDB(t).URL,
		RateLimit: 1000,
	})

	cfg := shared.ServerConfig{SecretKey: "test-secret", TokenTTLHours: 1}
	srv := New(cfg, db, catalog, shared.NewLogger(io.Discard))

	httpSrv := httptest.NewServer(srv.Router())
	t.Cleanup(httpSrv.Close)
	return api.NewClient(httpSrv.URL, nil)
}

// register creates an account and installs its token on the client.
func register(t *testing.T, client *api.Client, username string) *api.AuthResponse {
	t.Helper()
	resp, err := client.Register(context.Background(), username, "1234", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	client.SetToken(resp.AccessToken)
	return resp
}

func TestAuthEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("RegisterLoginMe", func(t *testing.T) {
		client := newTestServer(t)

		resp := register(t, client, "alice")
		if resp.AccessToken == "" {
			t.Fatal("register should return a token")
		}
		if resp.User.Username != "alice" {
			t.Errorf("expected alice, got %s", resp.User.Username)
		}

		user, err := client.Me(ctx)
		if err != nil {
			t.Fatalf("me failed: %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("expected alice, got %s", user.Username)
		}

		client.ClearToken()
		login, err := client.Login(ctx, "alice", "1234")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if login.AccessToken == "" {
			t.Error("login should return a token")
		}
	})

	t.Run("RegisterShortPassword", func(t *testing.T) {
		client := newTestServer(t)

		_, err := client.Register(ctx, "bob", "123", "")
		if !api.IsStatus(err, http.StatusBadRequest) {
			t.Errorf("expected 400, got %v", err)
		}
	})

	t.Run("RegisterDuplicateUsername", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		_, err := client.Register(ctx, "alice", "1234", "")
		if !api.IsStatus(err, http.StatusBadRequest) {
			t.Errorf("expected 400, got %v", err)
		}
	})

	t.Run("LoginWrongPassword", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")
		client.ClearToken()

		_, err := client.Login(ctx, "alice", "nope")
		if !api.IsStatus(err, http.StatusUnauthorized) {
			t.Errorf("expected 401, got %v", err)
		}
	})

	t.Run("ProtectedRoutesRejectMissingToken", func(t *testing.T) {
		client := newTestServer(t)

		if _, err := client.Ratings(ctx); !api.IsStatus(err, http.StatusUnauthorized) {
			t.Errorf("expected 401, got %v", err)
		}
		if _, err := client.Me(ctx); !api.IsStatus(err, http.StatusUnauthorized) {
			t.Errorf("expected 401, got %v", err)
		}
	})

	t.Run("GarbageTokenRejected", func(t *testing.T) {
		client := newTestServer(t)
		client.SetToken("not-a-jwt")

		if _, err := client.Me(ctx); !api.IsStatus(err, http.StatusUnauthorized) {
			t.Errorf("expected 401, got %v", err)
		}
	})

	t.Run("UpdateProfile", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		if err := client.UpdateProfile(ctx, "Alice A."); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		user, err := client.Me(ctx)
		if err != nil {
			t.Fatalf("me failed: %v", err)
		}
		if user.DisplayName != "Alice A." {
			t.Errorf("expected Alice A., got %s", user.DisplayName)
		}
	})
}

func TestCatalogEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("PopularMergesBothKinds", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		items, err := client.PopularCatalog(ctx)
		if err != nil {
			t.Fatalf("popular failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}

		kinds := map[string]bool{}
		for _, item := range items {
			kinds[item.Kind()] = true
		}
		if !kinds[models.MediaMovie] || !kinds[models.MediaTV] {
			t.Error("popular should mix movies and TV")
		}
	})

	t.Run("SearchSortsByPopularity", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		items, err := client.SearchCatalog(ctx, "matrix")
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[0].DisplayTitle() != "Breaking Bad" {
			t.Errorf("most popular first, got %s", items[0].DisplayTitle())
		}
	})

	t.Run("SearchRequiresQuery", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		_, err := client.SearchCatalog(ctx, "")
		if !api.IsStatus(err, http.StatusBadRequest) {
			t.Errorf("expected 400, got %v", err)
		}
	})

	t.Run("DetailNormalizesTV", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		item, err := client.CatalogDetail(ctx, 1396, "tv")
		if err != nil {
			t.Fatalf("detail failed: %v", err)
		}
		if item.Title != "Breaking Bad" {
			t.Errorf("TV detail should fill Title from Name, got %q", item.Title)
		}
		if item.Year() != 2008 {
			t.Errorf("expected year 2008, got %d", item.Year())
		}
		if item.GenreNames() != "Drama" {
			t.Errorf("expected Drama, got %q", item.GenreNames())
		}
	})

	t.Run("DetailFallsBackToTV", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		// no media_type hint, id only exists in the TV index
		item, err := client.CatalogDetail(ctx, 1396, "")
		if err != nil {
			t.Fatalf("detail fallback failed: %v", err)
		}
		if item.Kind() != models.MediaTV {
			t.Errorf("expected tv, got %s", item.Kind())
		}
	})

	t.Run("DetailUnknownIDIs404", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		_, err := client.CatalogDetail(ctx, 999999, "")
		if !api.IsStatus(err, http.StatusNotFound) {
			t.Errorf("expected 404, got %v", err)
		}
	})
}

func TestRatingEndpoints(t *testing.T) {
	ctx := context.Background()
	rating := models.Rating{
		TMDBID: 603, Title: "The Matrix", Year: 1999,
		UserRating: 9, Genres: "Action, Science Fiction",
	}

	t.Run("SaveListRoundTrip", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		saved, err := client.SaveRating(ctx, rating)
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if saved.UserRating != 9 {
			t.Errorf("expected 9, got %d", saved.UserRating)
		}

		ratings, err := client.Ratings(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(ratings) != 1 || ratings[0].TMDBID != 603 {
			t.Errorf("unexpected ratings: %+v", ratings)
		}
	})

	t.Run("SaveUpserts", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		if _, err := client.SaveRating(ctx, rating); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		update := rating
		update.UserRating = 4
		if _, err := client.SaveRating(ctx, update); err != nil {
			t.Fatalf("second save failed: %v", err)
		}

		ratings, _ := client.Ratings(ctx)
		if len(ratings) != 1 {
			t.Fatalf("upsert must not duplicate, got %d", len(ratings))
		}
		if ratings[0].UserRating != 4 {
			t.Errorf("expected updated score 4, got %d", ratings[0].UserRating)
		}
	})

	t.Run("SaveRejectsOutOfRangeScore", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		bad := rating
		bad.UserRating = 11
		_, err := client.SaveRating(ctx, bad)
		if !api.IsStatus(err, http.StatusBadRequest) {
			t.Errorf("expected 400, got %v", err)
		}
	})

	t.Run("DeleteMissingIs404", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		err := client.DeleteRating(ctx, 999)
		if !api.IsStatus(err, http.StatusNotFound) {
			t.Errorf("expected 404, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		if _, err := client.SaveRating(ctx, rating); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if err := client.DeleteRating(ctx, 603); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		ratings, _ := client.Ratings(ctx)
		if len(ratings) != 0 {
			t.Errorf("expected empty set, got %d", len(ratings))
		}
	})

	t.Run("RatingsArePerUser", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")
		if _, err := client.SaveRating(ctx, rating); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		register(t, client, "bob")
		ratings, err := client.Ratings(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(ratings) != 0 {
			t.Errorf("bob should see no ratings, got %d", len(ratings))
		}
	})

	t.Run("Stats", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		for i, score := range []int{7, 8, 8} {
			r := rating
			r.TMDBID = int64(100 + i)
			r.UserRating = score
			if _, err := client.SaveRating(ctx, r); err != nil {
				t.Fatalf("save failed: %v", err)
			}
		}

		stats, err := client.RatingStats(ctx)
		if err != nil {
			t.Fatalf("stats failed: %v", err)
		}
		if stats.Total != 3 {
			t.Errorf("expected total 3, got %d", stats.Total)
		}
		if stats.Average != 7.67 {
			t.Errorf("expected average 7.67, got %v", stats.Average)
		}
		if stats.Distribution["8"] != 2 {
			t.Errorf("expected two 8s, got %d", stats.Distribution["8"])
		}
	})

	t.Run("StatsEmptyLibrary", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		stats, err := client.RatingStats(ctx)
		if err != nil {
			t.Fatalf("stats failed: %v", err)
		}
		if stats.Total != 0 || stats.Average != 0 {
			t.Errorf("empty library should have zero stats, got %+v", stats)
		}
		if len(stats.Distribution) != 10 {
			t.Errorf("distribution should carry all 10 buckets, got %d", len(stats.Distribution))
		}
	})

	t.Run("Export", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")
		if _, err := client.SaveRating(ctx, rating); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		snapshot, err := client.ExportRatings(ctx)
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if snapshot.TotalRatings != 1 || len(snapshot.Ratings) != 1 {
			t.Errorf("unexpected snapshot: %+v", snapshot)
		}
		if snapshot.User.Username != "alice" {
			t.Errorf("expected alice, got %s", snapshot.User.Username)
		}
		if snapshot.ExportDate == "" {
			t.Error("export date should be set")
		}
	})
}

func TestWatchlistEndpoints(t *testing.T) {
	ctx := context.Background()
	entry := models.WatchlistEntry{TMDBID: 680, Title: "Pulp Fiction", Year: 1994}

	t.Run("AddCheckRemove", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		if err := client.AddToWatchlist(ctx, entry); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		member, err := client.InWatchlist(ctx, 680)
		if err != nil {
			t.Fatalf("check failed: %v", err)
		}
		if !member {
			t.Error("expected membership after add")
		}

		items, err := client.Watchlist(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}

		if err := client.RemoveFromWatchlist(ctx, 680); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		member, _ = client.InWatchlist(ctx, 680)
		if member {
			t.Error("expected no membership after remove")
		}
	})

	t.Run("DuplicateAddIs400", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		if err := client.AddToWatchlist(ctx, entry); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		err := client.AddToWatchlist(ctx, entry)
		if !api.IsStatus(err, http.StatusBadRequest) {
			t.Errorf("expected 400, got %v", err)
		}
	})

	t.Run("InvalidEntryIs400", func(t *testing.T) {
		client := newTestServer(t)
		register(t, client, "alice")

		err := client.AddToWatchlist(ctx, models.WatchlistEntry{Title: "no id"})
		if !api.IsStatus(err, http.StatusBadRequest) {
			t.Errorf("expected 400, got %v", err)
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	client := newTestServer(t)

	// health is public, no token required
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("health failed: %v", err)
	}
}

func TestUserScenario(t *testing.T) {
	// register, rate from the catalog, check stats, park one on the
	// watchlist, then clean up
	ctx := context.Background()
	client := newTestServer(t)
	register(t, client, "casey")

	results, err := client.SearchCatalog(ctx, "matrix")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected search results")
	}

	var movie models.CatalogItem
	for _, item := range results {
		if item.Kind() == models.MediaMovie {
			movie = item
		}
	}
	if movie.ID == 0 {
		t.Fatal("expected a movie result")
	}

	detail, err := client.CatalogDetail(ctx, movie.ID, movie.Kind())
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}

	saved, err := client.SaveRating(ctx, models.Rating{
		TMDBID:     detail.ID,
		Title:      detail.DisplayTitle(),
		Year:       detail.Year(),
		TMDBRating: detail.VoteAverage,
		UserRating: 9,
		Comment:    "rewatched for the nth time",
		Genres:     detail.GenreNames(),
		MediaType:  detail.Kind(),
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved.Genres != "Action, Science Fiction" {
		t.Errorf("genres should survive the round trip, got %q", saved.Genres)
	}

	stats, err := client.RatingStats(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 1 || stats.Average != 9 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.ByYear[0].Year != 1999 {
		t.Errorf("expected 1999 in by_year, got %+v", stats.ByYear)
	}

	show, err := client.CatalogDetail(ctx, 1396, models.MediaTV)
	if err != nil {
		t.Fatalf("tv detail failed: %v", err)
	}
	if err := client.AddToWatchlist(ctx, models.WatchlistEntry{
		TMDBID:    show.ID,
		Title:     show.DisplayTitle(),
		Year:      show.Year(),
		MediaType: show.Kind(),
	}); err != nil {
		t.Fatalf("watchlist add failed: %v", err)
	}

	if err := client.DeleteRating(ctx, detail.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	ratings, _ := client.Ratings(ctx)
	if len(ratings) != 0 {
		t.Errorf("expected empty library, got %d", len(ratings))
	}

	// the watchlist is independent of the rating set
	member, _ := client.InWatchlist(ctx, show.ID)
	if !member {
		t.Error("watchlist entry should survive rating deletion")
	}
}
