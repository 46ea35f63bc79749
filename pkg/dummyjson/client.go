package dummyjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const (
	// DefaultBaseURL is the public upstream catalog API base URL.
	DefaultBaseURL = "https://dummyjson.com"

	defaultTimeout = 30 * time.Second
	defaultMaxRPS  = 10
)

// ErrNotFound is returned when the upstream reports no record for an id.
var ErrNotFound = errors.New("dummyjson: not found")

// Config holds upstream client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	MaxRPS  int
}

// Client is a minimal HTTP client for the upstream catalog API. It carries no
// business logic; callers receive raw records.
type Client struct {
	httpClient *resty.Client
	rl         ratelimit.Limiter
	baseURL    string
	debug      bool
}

// NewClient constructs a new upstream catalog client with sane defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRPS <= 0 {
		cfg.MaxRPS = defaultMaxRPS
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		rl:         ratelimit.New(cfg.MaxRPS),
		baseURL:    cfg.BaseURL,
		debug:      os.Getenv("ENV") == "development",
	}
}

// ListProducts fetches a page of the full catalog. A limit of 0 asks the
// upstream for the entire catalog in one response.
func (c *Client) ListProducts(ctx context.Context, limit, skip int) (*ProductPage, error) {
	var page ProductPage
	endpoint := fmt.Sprintf("/products?limit=%d&skip=%d", limit, skip)
	if err := c.doGet(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListProductsByCategory fetches a page of products scoped to one category.
func (c *Client) ListProductsByCategory(ctx context.Context, category string, limit, skip int) (*ProductPage, error) {
	var page ProductPage
	endpoint := fmt.Sprintf("/products/category/%s?limit=%d&skip=%d", url.PathEscape(category), limit, skip)
	if err := c.doGet(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct fetches a single product by its upstream id.
func (c *Client) GetProduct(ctx context.Context, id int) (*Product, error) {
	var product Product
	if err := c.doGet(ctx, fmt.Sprintf("/products/%d", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// SearchProducts runs the upstream's single-term search endpoint.
func (c *Client) SearchProducts(ctx context.Context, query string) (*ProductPage, error) {
	var page ProductPage
	endpoint := "/products/search?q=" + url.QueryEscape(query)
	if err := c.doGet(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListCategories fetches the raw category labels known to the upstream.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.doGet(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// doGet performs the HTTP GET against the upstream API and decodes the JSON
// response into result. Outbound calls pass through the rate limiter.
func (c *Client) doGet(ctx context.Context, endpoint string, result any) error {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(c.baseURL + endpoint)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode()).
			Msg("[DUMMYJSON] Response received")
	}

	if resp.StatusCode() == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.IsError() {
		return fmt.Errorf("upstream returned status %d", resp.StatusCode())
	}

	if err := json.Unmarshal([]byte(resp.String()), result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
