package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
)

// ErrUnreachable marks transport failures where no response was received.
var ErrUnreachable = errors.New("cannot connect to server")

// RequestError carries a non-2xx response back to the caller.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is a RequestError with the given status code.
func IsStatus(err error, status int) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Status == status
}

// Client is the single point through which the app talks to the backend.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a gateway for the backend at baseURL.
func NewClient(baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: client}
}

// SetToken installs the bearer token attached to subsequent calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the currently installed bearer token, empty when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// detailPayload matches the backend's error body shape.
type detailPayload struct {
	Detail string `json:"detail"`
}

// Call performs one request against the backend. body is JSON-encoded when
// non-nil; the response is decoded into result when non-nil.
func (c *Client) Call(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := fmt.Sprintf("Error %d", resp.StatusCode)
		var payload detailPayload
		if err := json.Unmarshal(data, &payload); err == nil && payload.Detail != "" {
			message = payload.Detail
		}
		return &RequestError{Status: resp.StatusCode, Message: message}
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

type credentials struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

// Login exchanges credentials for a token and user identity.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := credentials{Username: username, Password: password}
	if err := c.Call(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns a fresh session token.
func (c *Client) Register(ctx context.Context, username, password, displayName string) (*AuthResponse, error) {
	var out AuthResponse
	body := credentials{Username: username, Password: password, DisplayName: displayName}
	if err := c.Call(ctx, http.MethodPost, "/auth/register", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me validates the installed token and returns the current user.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.Call(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile changes the account's display name.
func (c *Client) UpdateProfile(ctx context.Context, displayName string) error {
	body := struct {
		DisplayName string `json:"display_name"`
	}{displayName}
	return c.Call(ctx, http.MethodPost, "/auth/update_profile", body, nil)
}

type resultsPayload struct {
	Results []models.CatalogItem `json:"results"`
}

// SearchCatalog queries the catalog for movies and TV matching query.
func (c *Client) SearchCatalog(ctx context.Context, query string) ([]models.CatalogItem, error) {
	var out resultsPayload
	path := "/movies/search?query=" + url.QueryEscape(query)
	if err := c.Call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// PopularCatalog fetches the trending movie and TV mix for the home view.
func (c *Client) PopularCatalog(ctx context.Context) ([]models.CatalogItem, error) {
	var out resultsPayload
	if err := c.Call(ctx, http.MethodGet, "/movies/popular", nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// TopRatedCatalog fetches the catalog's top rated titles.
func (c *Client) TopRatedCatalog(ctx context.Context) ([]models.CatalogItem, error) {
	var out resultsPayload
	if err := c.Call(ctx, http.MethodGet, "/movies/top_rated", nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// CatalogDetail fetches one title including genres and overview.
func (c *Client) CatalogDetail(ctx context.Context, tmdbID int64, mediaType string) (*models.CatalogItem, error) {
	var out models.CatalogItem
	path := fmt.Sprintf("/movies/%d?media_type=%s", tmdbID, url.QueryEscape(mediaType))
	if err := c.Call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ratings fetches the user's full rating set.
func (c *Client) Ratings(ctx context.Context) ([]models.Rating, error) {
	var out []models.Rating
	if err := c.Call(ctx, http.MethodGet, "/ratings", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveRating upserts a rating and returns the committed record.
func (c *Client) SaveRating(ctx context.Context, rating models.Rating) (*models.Rating, error) {
	var out models.Rating
	if err := c.Call(ctx, http.MethodPost, "/ratings", rating, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRating removes the rating for tmdbID.
func (c *Client) DeleteRating(ctx context.Context, tmdbID int64) error {
	return c.Call(ctx, http.MethodDelete, "/ratings/"+strconv.FormatInt(tmdbID, 10), nil, nil)
}

// RatingStats fetches the server-side aggregate snapshot.
func (c *Client) RatingStats(ctx context.Context) (*models.StatsSnapshot, error) {
	var out models.StatsSnapshot
	if err := c.Call(ctx, http.MethodGet, "/ratings/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportRatings downloads the full library snapshot. Pure read, no mutation.
func (c *Client) ExportRatings(ctx context.Context) (*models.ExportSnapshot, error) {
	var out models.ExportSnapshot
	if err := c.Call(ctx, http.MethodGet, "/ratings/export", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type watchlistPayload struct {
	Items []models.WatchlistEntry `json:"items"`
}

// Watchlist fetches the user's saved titles.
func (c *Client) Watchlist(ctx context.Context) ([]models.WatchlistEntry, error) {
	var out watchlistPayload
	if err := c.Call(ctx, http.MethodGet, "/watchlist", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// AddToWatchlist saves a title.
func (c *Client) AddToWatchlist(ctx context.Context, entry models.WatchlistEntry) error {
	return c.Call(ctx, http.MethodPost, "/watchlist", entry, nil)
}

// RemoveFromWatchlist drops the entry for tmdbID.
func (c *Client) RemoveFromWatchlist(ctx context.Context, tmdbID int64) error {
	return c.Call(ctx, http.MethodDelete, "/watchlist/"+strconv.FormatInt(tmdbID, 10), nil, nil)
}

// InWatchlist checks membership with a fresh round trip.
func (c *Client) InWatchlist(ctx context.Context, tmdbID int64) (bool, error) {
	var out struct {
		InWatchlist bool `json:"in_watchlist"`
	}
	path := "/watchlist/check/" + strconv.FormatInt(tmdbID, 10)
	if err := c.Call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return false, err
	}
	return out.InWatchlist, nil
}

// Health pings the backend's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.Call(ctx, http.MethodGet, "/health", nil, nil)
}
