package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/api"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
)

// authBackend fakes the auth endpoints with a single valid account.
type authBackend struct {
	validToken string
}

func (a *authBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login", "/auth/register":
			var creds map[string]string
			json.NewDecoder(r.Body).Decode(&creds)
			if creds["password"] == "wrong" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
				return
			}
			json.NewEncoder(w).Encode(api.AuthResponse{
				AccessToken: a.validToken,
				User:        models.User{ID: 1, Username: creds["username"]},
			})
		case "/auth/me":
			if r.Header.Get("Authorization") != "Bearer "+a.validToken {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid token"})
				return
			}
			json.NewEncoder(w).Encode(models.User{ID: 1, Username: "alice"})
		case "/auth/update_profile":
			w.Write([]byte("{}"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestController(t *testing.T) (*Controller, *StateStore) {
	t.Helper()
	backend := &authBackend{validToken: "good-token"}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	store, err := NewStateStore(filepath.Join(t.TempDir(), "state.toml"))
	if err != nil {
		t.Fatalf("failed to create state store: %v", err)
	}
	client := api.NewClient(server.URL, nil)
	return NewController(client, store, nil), store
}

func TestControllerLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		controller, store := newTestController(t)

		sess, err := controller.Login(ctx, "alice", "secret")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if controller.State() != LoggedIn {
			t.Errorf("expected LoggedIn, got %v", controller.State())
		}
		if sess.User.Username != "alice" {
			t.Errorf("expected alice, got %s", sess.User.Username)
		}
		if store.Token() != "good-token" {
			t.Errorf("token should be persisted, got %q", store.Token())
		}
	})

	t.Run("EmptyCredentialsFailLocally", func(t *testing.T) {
		controller, _ := newTestController(t)

		if _, err := controller.Login(ctx, "", "x"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if _, err := controller.Login(ctx, "alice", ""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("BadPasswordStaysAuthenticating", func(t *testing.T) {
		controller, store := newTestController(t)

		_, err := controller.Login(ctx, "alice", "wrong")
		if !api.IsStatus(err, http.StatusUnauthorized) {
			t.Errorf("expected 401, got %v", err)
		}
		if controller.State() != Authenticating {
			t.Errorf("failed login should stay Authenticating, got %v", controller.State())
		}
		if store.Token() != "" {
			t.Error("failed login should not persist a token")
		}
	})

	t.Run("FailedLoginKeepsExistingSession", func(t *testing.T) {
		controller, store := newTestController(t)

		if _, err := controller.Login(ctx, "alice", "secret"); err != nil {
			t.Fatalf("first login failed: %v", err)
		}

		if _, err := controller.Login(ctx, "alice", "wrong"); err == nil {
			t.Fatal("expected failure")
		}
		if controller.State() != Authenticating {
			t.Errorf("failed re-login should stay Authenticating, got %v", controller.State())
		}
		if controller.Current() == nil {
			t.Error("existing session should survive a failed attempt")
		}
		if store.Token() != "good-token" {
			t.Error("failed re-login should leave the stored token alone")
		}
	})
}

func TestControllerRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("ShortPasswordFailsLocally", func(t *testing.T) {
		controller, _ := newTestController(t)

		_, err := controller.Register(ctx, "bob", "123", "")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("FailedRegisterStaysAuthenticating", func(t *testing.T) {
		controller, _ := newTestController(t)

		if _, err := controller.Register(ctx, "bob", "wrong", ""); err == nil {
			t.Fatal("expected failure")
		}
		if controller.State() != Authenticating {
			t.Errorf("failed register should stay Authenticating, got %v", controller.State())
		}
	})

	t.Run("MinimumLengthPasswordAccepted", func(t *testing.T) {
		controller, _ := newTestController(t)

		sess, err := controller.Register(ctx, "bob", "1234", "Bob")
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}
		if sess.User.Username != "bob" {
			t.Errorf("expected bob, got %s", sess.User.Username)
		}
		if controller.State() != LoggedIn {
			t.Error("register should log in")
		}
	})
}

func TestControllerResume(t *testing.T) {
	ctx := context.Background()

	t.Run("NoTokenStaysLoggedOut", func(t *testing.T) {
		controller, _ := newTestController(t)

		if err := controller.Resume(ctx); err != nil {
			t.Fatalf("resume failed: %v", err)
		}
		if controller.State() != LoggedOut {
			t.Errorf("expected LoggedOut, got %v", controller.State())
		}
	})

	t.Run("ValidTokenRestoresSession", func(t *testing.T) {
		controller, store := newTestController(t)
		store.SetToken("good-token")

		if err := controller.Resume(ctx); err != nil {
			t.Fatalf("resume failed: %v", err)
		}
		if controller.State() != LoggedIn {
			t.Errorf("expected LoggedIn, got %v", controller.State())
		}
		if controller.Current().User.Username != "alice" {
			t.Error("session user should be populated from /auth/me")
		}
	})

	t.Run("InvalidTokenSilentlyDemotes", func(t *testing.T) {
		controller, store := newTestController(t)
		store.SetToken("stale-token")

		if err := controller.Resume(ctx); err != nil {
			t.Fatalf("invalid token should not surface an error, got %v", err)
		}
		if controller.State() != LoggedOut {
			t.Errorf("expected LoggedOut, got %v", controller.State())
		}
		if store.Token() != "" {
			t.Error("rejected token should be discarded from the store")
		}
	})

	t.Run("UnreachableBackendSurfacesError", func(t *testing.T) {
		store, err := NewStateStore(filepath.Join(t.TempDir(), "state.toml"))
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		store.SetToken("good-token")

		client := api.NewClient("http://127.0.0.1:1", nil)
		controller := NewController(client, store, nil)

		if err := controller.Resume(ctx); !errors.Is(err, api.ErrUnreachable) {
			t.Errorf("expected ErrUnreachable, got %v", err)
		}
		if store.Token() == "" {
			t.Error("token should be kept when the backend is unreachable")
		}
	})
}

func TestControllerLogout(t *testing.T) {
	controller, store := newTestController(t)

	if _, err := controller.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := controller.Logout(); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if controller.State() != LoggedOut || controller.Current() != nil {
		t.Error("logout should discard the session")
	}
	if store.Token() != "" {
		t.Error("logout should clear the persisted token")
	}
}

func TestControllerUpdateDisplayName(t *testing.T) {
	ctx := context.Background()

	t.Run("RequiresSession", func(t *testing.T) {
		controller, _ := newTestController(t)
		if err := controller.UpdateDisplayName(ctx, "New Name"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("MutatesSessionOnSuccess", func(t *testing.T) {
		controller, _ := newTestController(t)
		if _, err := controller.Login(ctx, "alice", "secret"); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		if err := controller.UpdateDisplayName(ctx, "Alice A."); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if controller.Current().User.DisplayName != "Alice A." {
			t.Error("display name should be updated in memory")
		}
	})
}

func TestHandle401(t *testing.T) {
	controller, _ := newTestController(t)
	if _, err := controller.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if controller.Handle401(errors.New("some other error")) {
		t.Error("non-401 errors should not demote")
	}
	if controller.State() != LoggedIn {
		t.Error("session should survive non-401 errors")
	}

	err := &api.RequestError{Status: 401, Message: "Invalid token"}
	if !controller.Handle401(err) {
		t.Error("401 should demote")
	}
	if controller.State() != LoggedOut {
		t.Error("session should be discarded on 401")
	}
}

func TestStateStore(t *testing.T) {
	t.Run("MissingFileStartsEmpty", func(t *testing.T) {
		store, err := NewStateStore(filepath.Join(t.TempDir(), "state.toml"))
		if err != nil {
			t.Fatalf("missing file should be fine: %v", err)
		}
		if store.Token() != "" || store.Page() != "" {
			t.Error("fresh store should be empty")
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.toml")
		store, err := NewStateStore(path)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		if err := store.SetToken("tok"); err != nil {
			t.Fatalf("failed to set token: %v", err)
		}
		if err := store.SetPage("ratings"); err != nil {
			t.Fatalf("failed to set page: %v", err)
		}

		reloaded, err := NewStateStore(path)
		if err != nil {
			t.Fatalf("failed to reload store: %v", err)
		}
		if reloaded.Token() != "tok" {
			t.Errorf("expected token tok, got %q", reloaded.Token())
		}
		if reloaded.Page() != "ratings" {
			t.Errorf("expected page ratings, got %q", reloaded.Page())
		}
	})
}
