package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carhaven/backend/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// catalogQuery selects every car document, most recently created first
const catalogQuery = `*[_type == "car"] | order(_createdAt desc) {
  _id, brand, model, year, currentPrice, previousPrice, mileage, range,
  fuelType, transmission, bodyType, color, isNew, isAvailable, features, gallery
}`

// Config holds the connection settings for the content store query API
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	BaseURL    string // overrides https://<project>.apicdn.sanity.io when set
	RateLimit  float64
	Timeout    time.Duration
}

// Client reads catalog documents from the headless content store
type Client struct {
	httpClient  *http.Client
	endpoint    string
	token       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new content store client
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.apicdn.sanity.io", cfg.ProjectID)
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "2024-01-01"
	}

	perSecond := cfg.RateLimit
	if perSecond <= 0 {
		perSecond = 10
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		endpoint:    fmt.Sprintf("%s/v%s/data/query/%s", baseURL, apiVersion, cfg.Dataset),
		token:       cfg.Token,
		rateLimiter: rate.NewLimiter(rate.Limit(perSecond), int(perSecond)+1),
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// queryResponse is the envelope returned by the query API
type queryResponse struct {
	Result []cmsCar `json:"result"`
	Ms     int      `json:"ms"`
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "CarHaven/1.0")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return resp, nil
}

// FetchCatalog reads the complete catalog in a single request.
// Failures are not retried.
func (c *Client) FetchCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrCatalogUnavailable, err)
	}

	params := url.Values{}
	params.Set("query", catalogQuery)
	reqURL := fmt.Sprintf("%s?%s", c.endpoint, params.Encode())

	if c.debug {
		log.Printf("[CMS] GET %s", c.endpoint)
	}

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		log.Printf("[CMS] Request error: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[CMS] API error - Status: %d, Body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
	}

	var payload queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("[CMS] JSON decode error: %v", err)
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrCatalogUnavailable, err)
	}

	items := MapToCatalogItems(payload.Result)
	if c.debug {
		log.Printf("[CMS] Fetched %d cars in %dms", len(items), payload.Ms)
	}
	return items, nil
}
