// Package tmdb implements the read-only client for the external movie
// catalog consumed by the backend proxy.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
)

// ErrNotFound is returned when the catalog has no entry for the requested id.
var ErrNotFound = errors.New("tmdb: not found")

// Client queries the TMDB v3 API with an API key and a shared rate limiter.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Options tunes a [Client]. Zero values pick production defaults.
type Options struct {
	BaseURL   string
	Language  string
	RateLimit float64
	Client    *http.Client
}

// NewClient constructs a catalog client for the given API key.
func NewClient(apiKey string, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.themoviedb.org/3"
	}
	if opts.Language == "" {
		opts.Language = "en-US"
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 4
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    opts.BaseURL,
		apiKey:     apiKey,
		language:   opts.Language,
		httpClient: opts.Client,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
	}
}

type listResponse struct {
	Results []models.CatalogItem `json:"results"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("tmdb: upstream returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode tmdb response: %w", err)
	}
	return nil
}

// normalize drops poster-less results, stamps the media kind, and fills
// in movie-style fields for TV entries.
func normalize(items []models.CatalogItem, mediaType string) []models.CatalogItem {
	out := make([]models.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.PosterPath == "" {
			continue
		}
		item.MediaType = mediaType
		if item.Title == "" {
			item.Title = item.Name
		}
		if item.ReleaseDate == "" {
			item.ReleaseDate = item.FirstAirDate
		}
		out = append(out, item)
	}
	return out
}

// TrendingMovies returns this week's trending movies.
func (c *Client) TrendingMovies(ctx context.Context) ([]models.CatalogItem, error) {
	var resp listResponse
	if err := c.get(ctx, "/trending/movie/week", nil, &resp); err != nil {
		return nil, err
	}
	return normalize(resp.Results, models.MediaMovie), nil
}

// TrendingTV returns this week's trending TV shows.
func (c *Client) TrendingTV(ctx context.Context) ([]models.CatalogItem, error) {
	var resp listResponse
	if err := c.get(ctx, "/trending/tv/week", nil, &resp); err != nil {
		return nil, err
	}
	return normalizeTV(resp.Results), nil
}

// SearchMovies queries the movie index.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]models.CatalogItem, error) {
	params := url.Values{"query": {query}}
	var resp listResponse
	if err := c.get(ctx, "/search/movie", params, &resp); err != nil {
		return nil, err
	}
	return normalize(resp.Results, models.MediaMovie), nil
}

// SearchTV queries the TV index.
func (c *Client) SearchTV(ctx context.Context, query string) ([]models.CatalogItem, error) {
	params := url.Values{"query": {query}}
	var resp listResponse
	if err := c.get(ctx, "/search/tv", params, &resp); err != nil {
		return nil, err
	}
	return normalizeTV(resp.Results), nil
}

// TopRatedMovies returns the catalog's top rated movies.
func (c *Client) TopRatedMovies(ctx context.Context) ([]models.CatalogItem, error) {
	var resp listResponse
	if err := c.get(ctx, "/movie/top_rated", nil, &resp); err != nil {
		return nil, err
	}
	return normalize(resp.Results, models.MediaMovie), nil
}

// TopRatedTV returns the catalog's top rated TV shows.
func (c *Client) TopRatedTV(ctx context.Context) ([]models.CatalogItem, error) {
	var resp listResponse
	if err := c.get(ctx, "/tv/top_rated", nil, &resp); err != nil {
		return nil, err
	}
	return normalizeTV(resp.Results), nil
}

// MovieDetail fetches one movie including genres and overview.
func (c *Client) MovieDetail(ctx context.Context, id int64) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &item); err != nil {
		return nil, err
	}
	item.MediaType = models.MediaMovie
	return &item, nil
}

// TVDetail fetches one TV show including genres and overview, normalized
// into the movie-style field names.
func (c *Client) TVDetail(ctx context.Context, id int64) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", id), nil, &item); err != nil {
		return nil, err
	}
	item.MediaType = models.MediaTV
	if item.Title == "" {
		item.Title = item.Name
	}
	if item.ReleaseDate == "" {
		item.ReleaseDate = item.FirstAirDate
	}
	return &item, nil
}

func normalizeTV(items []models.CatalogItem) []models.CatalogItem {
	return normalize(items, models.MediaTV)
}
