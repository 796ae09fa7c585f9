// Package tmdb talks to The Movie Database v3 API.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"mediashelf/internal/logging"
	"mediashelf/models"
	"mediashelf/services/media"
)

const (
	DefaultBaseURL    = "https://api.themoviedb.org/3"
	DefaultPosterSize = "w500"

	defaultTimeout    = 15 * time.Second
	defaultAttempts   = 3
	defaultRetryDelay = 250 * time.Millisecond
	configurationTTL  = 24 * time.Hour
	detailsTTL        = time.Hour
	maxErrorBody      = 4096
)

var (
	ErrNotFound     = errors.New("tmdb: not found")
	ErrUnauthorized = errors.New("tmdb: unauthorized")
)

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Is maps well-known statuses onto the package sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	APIKey     string
	Language   string
	PosterSize string
	HTTPClient *http.Client
	Attempts   uint
	RetryDelay time.Duration
}

// Client handles TMDB requests. Configuration and detail lookups are cached.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	posterSize string
	httpClient *http.Client
	attempts   uint
	retryDelay time.Duration

	group singleflight.Group

	cacheMu         sync.RWMutex
	configuration   *models.Configuration
	configFetchedAt time.Time
	details         map[string]*detailsCacheEntry
	now             func() time.Time
}

type detailsCacheEntry struct {
	value     any
	fetchedAt time.Time
}

var _ media.Catalog = (*Client)(nil)

// NewClient validates opts and returns a client.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	lang := ""
	if raw := strings.TrimSpace(opts.Language); raw != "" {
		tag, err := language.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse language %q: %w", raw, err)
		}
		lang = tag.String()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	attempts := opts.Attempts
	if attempts == 0 {
		attempts = defaultAttempts
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	posterSize := strings.TrimSpace(opts.PosterSize)
	if posterSize == "" {
		posterSize = DefaultPosterSize
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(opts.APIKey),
		language:   lang,
		posterSize: posterSize,
		httpClient: httpClient,
		attempts:   attempts,
		retryDelay: retryDelay,
		details:    make(map[string]*detailsCacheEntry),
		now:        time.Now,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	if c.language != "" && query.Get("language") == "" {
		query.Set("language", c.language)
	}
	endpoint := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("create request: %w", err))
			}
			req.Header.Set("Accept", "application/json")
			if c.apiKey != "" {
				req.Header.Set("Authorization", "Bearer "+c.apiKey)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				if ctx.Err() != nil {
					return retry.Unrecoverable(ctx.Err())
				}
				return fmt.Errorf("http request: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
				statusErr := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
				if retryableStatus(resp.StatusCode) {
					return statusErr
				}
				return retry.Unrecoverable(statusErr)
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logging.Debugf("[tmdb] retry %d for %s: %v", n+1, path, err)
		}),
	)
}

func getPage[T any](ctx context.Context, c *Client, path string, query url.Values) (*models.ResultPage[T], error) {
	var page models.ResultPage[T]
	if err := c.get(ctx, path, query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Configuration returns the API configuration, fetching it at most once per
// TTL even under concurrent callers.
func (c *Client) Configuration(ctx context.Context) (*models.Configuration, error) {
	c.cacheMu.RLock()
	if c.configuration != nil && c.now().Sub(c.configFetchedAt) < configurationTTL {
		cfg := c.configuration
		c.cacheMu.RUnlock()
		return cfg, nil
	}
	c.cacheMu.RUnlock()

	v, err := c.shared(ctx, "configuration", func(ctx context.Context) (any, error) {
		var cfg models.Configuration
		if err := c.get(ctx, "/configuration", nil, &cfg); err != nil {
			return nil, fmt.Errorf("get configuration: %w", err)
		}

		c.cacheMu.Lock()
		c.configuration = &cfg
		c.configFetchedAt = c.now()
		c.cacheMu.Unlock()

		log.Printf("[tmdb] configuration loaded base=%q", cfg.Images.SecureBaseURL)
		return &cfg, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Configuration), nil
}

// shared runs fn once per key for all concurrent callers. fn gets a context
// detached from the first caller's cancellation and bounded by the retry
// budget; each caller still stops waiting when its own ctx ends.
func (c *Client) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.sharedTimeout())
		defer cancel()
		return fn(sharedCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) sharedTimeout() time.Duration {
	timeout := c.httpClient.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return timeout * time.Duration(c.attempts)
}

func (c *Client) TrendingMovies(ctx context.Context) (*models.ResultPage[models.MovieSummary], error) {
	page, err := getPage[models.MovieSummary](ctx, c, "/trending/movie/day", nil)
	if err != nil {
		return nil, fmt.Errorf("trending movies: %w", err)
	}
	return page, nil
}

func (c *Client) TrendingShows(ctx context.Context) (*models.ResultPage[models.ShowSummary], error) {
	page, err := getPage[models.ShowSummary](ctx, c, "/trending/tv/day", nil)
	if err != nil {
		return nil, fmt.Errorf("trending shows: %w", err)
	}
	return page, nil
}

func (c *Client) SearchMovies(ctx context.Context, query string) (*models.ResultPage[models.MovieSummary], error) {
	page, err := getPage[models.MovieSummary](ctx, c, "/search/movie", url.Values{"query": {query}})
	if err != nil {
		return nil, fmt.Errorf("search movies %q: %w", query, err)
	}
	return page, nil
}

func (c *Client) SearchShows(ctx context.Context, query string) (*models.ResultPage[models.ShowSummary], error) {
	page, err := getPage[models.ShowSummary](ctx, c, "/search/tv", url.Values{"query": {query}})
	if err != nil {
		return nil, fmt.Errorf("search shows %q: %w", query, err)
	}
	return page, nil
}

func (c *Client) MovieDetails(ctx context.Context, id int) (*models.MovieDetails, error) {
	return cachedDetails[models.MovieDetails](ctx, c, "movie", id)
}

func (c *Client) ShowDetails(ctx context.Context, id int) (*models.ShowDetails, error) {
	return cachedDetails[models.ShowDetails](ctx, c, "tv", id)
}

func cachedDetails[T any](ctx context.Context, c *Client, kind string, id int) (*T, error) {
	key := kind + ":" + strconv.Itoa(id)

	c.cacheMu.RLock()
	if entry, ok := c.details[key]; ok && c.now().Sub(entry.fetchedAt) < detailsTTL {
		c.cacheMu.RUnlock()
		return entry.value.(*T), nil
	}
	c.cacheMu.RUnlock()

	v, err := c.shared(ctx, key, func(ctx context.Context) (any, error) {
		var details T
		if err := c.get(ctx, "/"+kind+"/"+strconv.Itoa(id), nil, &details); err != nil {
			return nil, fmt.Errorf("get %s %d: %w", kind, id, err)
		}

		c.cacheMu.Lock()
		c.details[key] = &detailsCacheEntry{value: &details, fetchedAt: c.now()}
		c.cacheMu.Unlock()
		return &details, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

// PosterURL resolves a poster path against the cached configuration.
func (c *Client) PosterURL(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	cfg, err := c.Configuration(ctx)
	if err != nil {
		return "", err
	}
	return ImageURL(cfg, c.posterSize, path), nil
}

// ImageURL joins the configured image base URL, a size and a file path.
// An empty path yields an empty URL.
func ImageURL(cfg *models.Configuration, size, path string) string {
	if path == "" || cfg == nil {
		return ""
	}
	base := cfg.Images.SecureBaseURL
	if base == "" {
		base = cfg.Images.BaseURL
	}
	if size == "" {
		size = DefaultPosterSize
	}
	return strings.TrimRight(base, "/") + "/" + strings.Trim(size, "/") + "/" + strings.TrimLeft(path, "/")
}
