package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/model"
)

const (
	feedPath                 = "/api/products/feed"
	apiKeyHeader             = "X-API-Key"
	errorBodyReadLimit int64 = 1024
)

var errBaseURLRequired = errors.New("feed base URL is required")

// Client fetches feed pages from the storefront HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// ClientOption configures optional client behavior.
type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithAPIKey sets the key sent in the X-API-Key header.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// NewClient builds a feed client for the API at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid feed base URL: %w", err)
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// FetchPage implements Fetcher over HTTP.
func (c *Client) FetchPage(ctx context.Context, slug string, page, pageSize int) (model.ProductPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))
	if slug != "" {
		query.Set("slug", slug)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+feedPath+"?"+query.Encode(), nil)
	if err != nil {
		return model.ProductPage{}, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.ProductPage{}, fmt.Errorf("execute feed request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return model.ProductPage{}, fmt.Errorf("feed request failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result model.ProductPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.ProductPage{}, fmt.Errorf("decode feed response: %w", err)
	}
	if result.Items == nil {
		result.Items = []model.Product{}
	}
	return result, nil
}
