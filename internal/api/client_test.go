package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
	tu "github.com/papajohnpapajohn12-lab/cinerate/internal/testing"
)

func TestClientCall(t *testing.T) {
	t.Run("AttachesBearerToken", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte("{}"))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		client.SetToken("tok-123")

		if err := client.Call(context.Background(), http.MethodGet, "/x", nil, nil); err != nil {
			t.Fatalf("call failed: %v", err)
		}
		if gotAuth != "Bearer tok-123" {
			t.Errorf("expected Bearer tok-123, got %q", gotAuth)
		}
	})

	t.Run("NoTokenNoHeader", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte("{}"))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		if err := client.Call(context.Background(), http.MethodGet, "/x", nil, nil); err != nil {
			t.Fatalf("call failed: %v", err)
		}
		if gotAuth != "" {
			t.Errorf("expected no Authorization header, got %q", gotAuth)
		}
	})

	t.Run("ClearToken", func(t *testing.T) {
		client := NewClient("http://localhost", nil)
		client.SetToken("tok")
		client.ClearToken()
		if client.Token() != "" {
			t.Error("token should be cleared")
		}
	})

	t.Run("ParsesDetailError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		err := client.Call(context.Background(), http.MethodGet, "/x", nil, nil)

		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			t.Fatalf("expected RequestError, got %v", err)
		}
		if reqErr.Status != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", reqErr.Status)
		}
		if reqErr.Message != "Invalid credentials" {
			t.Errorf("expected message Invalid credentials, got %q", reqErr.Message)
		}
		if !IsStatus(err, http.StatusUnauthorized) {
			t.Error("IsStatus should match 401")
		}
		if IsStatus(err, http.StatusNotFound) {
			t.Error("IsStatus should not match 404")
		}
	})

	t.Run("FallbackErrorMessage", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		err := client.Call(context.Background(), http.MethodGet, "/x", nil, nil)

		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			t.Fatalf("expected RequestError, got %v", err)
		}
		if reqErr.Message != "Error 502" {
			t.Errorf("expected fallback message Error 502, got %q", reqErr.Message)
		}
	})

	t.Run("TransportErrorIsUnreachable", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", nil)
		err := client.Call(context.Background(), http.MethodGet, "/x", nil, nil)
		if !errors.Is(err, ErrUnreachable) {
			t.Errorf("expected ErrUnreachable, got %v", err)
		}
	})

	t.Run("MockedTransportError", func(t *testing.T) {
		httpClient := &http.Client{
			Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused")),
		}
		client := NewClient("http://example.invalid", httpClient)

		err := client.Call(context.Background(), http.MethodGet, "/x", nil, nil)
		if !errors.Is(err, ErrUnreachable) {
			t.Errorf("expected ErrUnreachable, got %v", err)
		}
	})

	t.Run("MockedResponseDecodes", func(t *testing.T) {
		resp := tu.JSONResponse(t, http.StatusOK, models.User{ID: 1, Username: "alice"})
		httpClient := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
		client := NewClient("http://example.invalid", httpClient)

		user, err := client.Me(context.Background())
		if err != nil {
			t.Fatalf("me failed: %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("expected alice, got %q", user.Username)
		}
	})

	t.Run("BodyReadFailure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}}
		httpClient := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
		client := NewClient("http://example.invalid", httpClient)

		err := client.Call(context.Background(), http.MethodGet, "/x", nil, nil)
		if err == nil || errors.Is(err, ErrUnreachable) {
			t.Errorf("expected a read error, got %v", err)
		}
	})
}

func TestClientEndpoints(t *testing.T) {
	t.Run("Login", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			var creds map[string]string
			json.NewDecoder(r.Body).Decode(&creds)
			if creds["username"] != "alice" {
				t.Errorf("expected username alice, got %q", creds["username"])
			}
			json.NewEncoder(w).Encode(AuthResponse{
				AccessToken: "tok",
				User:        models.User{ID: 1, Username: "alice"},
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		resp, err := client.Login(context.Background(), "alice", "secret")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if resp.AccessToken != "tok" {
			t.Errorf("expected token tok, got %q", resp.AccessToken)
		}
		if resp.User.Username != "alice" {
			t.Errorf("expected user alice, got %q", resp.User.Username)
		}
	})

	t.Run("SearchCatalogEscapesQuery", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("query"); got != "the matrix" {
				t.Errorf("expected query the matrix, got %q", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"results": []models.CatalogItem{{ID: 603, Title: "The Matrix"}},
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		items, err := client.SearchCatalog(context.Background(), "the matrix")
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(items) != 1 || items[0].ID != 603 {
			t.Errorf("unexpected results: %+v", items)
		}
	})

	t.Run("CatalogDetailPath", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/movies/1396" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("media_type"); got != "tv" {
				t.Errorf("expected media_type tv, got %q", got)
			}
			json.NewEncoder(w).Encode(models.CatalogItem{ID: 1396, Title: "Breaking Bad", MediaType: "tv"})
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		item, err := client.CatalogDetail(context.Background(), 1396, "tv")
		if err != nil {
			t.Fatalf("detail failed: %v", err)
		}
		if item.Title != "Breaking Bad" {
			t.Errorf("expected Breaking Bad, got %q", item.Title)
		}
	})

	t.Run("DeleteRatingPath", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete || r.URL.Path != "/ratings/603" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		if err := client.DeleteRating(context.Background(), 603); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
	})

	t.Run("InWatchlist", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/watchlist/check/603" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`{"in_watchlist":true}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		member, err := client.InWatchlist(context.Background(), 603)
		if err != nil {
			t.Fatalf("check failed: %v", err)
		}
		if !member {
			t.Error("expected membership true")
		}
	})
}
