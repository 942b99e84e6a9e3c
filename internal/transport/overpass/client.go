// Package overpass is the HTTP client for the spatial point-of-interest service.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/poidex/internal/domain"
	"github.com/kailas-cloud/poidex/internal/metrics"
	"github.com/kailas-cloud/poidex/internal/overpass"
)

const serviceLabel = "overpass"

// Client executes one spatial query attempt. Retry policy lives in the
// resolve usecase, not here.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	attemptTimeout time.Duration
	logger         *zap.Logger
}

// Config holds the spatial-query client settings.
type Config struct {
	BaseURL        string
	AttemptTimeout time.Duration
	UserAgent      string
	Logger         *zap.Logger
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// NewClient creates a spatial-query client.
func NewClient(cfg *Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.AttemptTimeout}
	}
	return &Client{
		httpClient:     httpClient,
		baseURL:        cfg.BaseURL,
		userAgent:      cfg.UserAgent,
		attemptTimeout: cfg.AttemptTimeout,
		logger:         cfg.Logger,
	}
}

// Execute serializes the query and runs it against the service once.
// The attempt is bounded by the configured per-attempt timeout. An empty
// element list is a valid outcome, not an error.
func (c *Client) Execute(ctx context.Context, query *overpass.Query) ([]overpass.Element, error) {
	if c.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
		defer cancel()
	}

	params := url.Values{}
	params.Set("data", query.QL())

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build spatial query request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(serviceLabel, "error").Inc()
		return nil, fmt.Errorf("spatial query: %v: %w", err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestDuration.WithLabelValues(serviceLabel).Observe(duration.Seconds())

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequestsTotal.WithLabelValues(serviceLabel, "error").Inc()
		return nil, fmt.Errorf("spatial query: unexpected status %s: %w",
			resp.Status, domain.ErrUpstream)
	}

	var parsed overpass.Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(serviceLabel, "error").Inc()
		return nil, fmt.Errorf("spatial query: decode response: %v: %w", err, domain.ErrUpstream)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(serviceLabel, "success").Inc()
	return parsed.Elements, nil
}
