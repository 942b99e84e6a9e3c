// Package nominatim is the HTTP client for the geocoding service.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/poidex/internal/domain"
	"github.com/kailas-cloud/poidex/internal/metrics"
)

const serviceLabel = "nominatim"

// Client resolves free-text place names to coordinates.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

// Config holds the geocoding client settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Logger    *zap.Logger
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// place is the wire shape of one geocoding match. The service reports
// coordinates as strings.
type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NewClient creates a geocoding client.
func NewClient(cfg *Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		logger:     cfg.Logger,
	}
}

// Geocode resolves a city name to its single best coordinate match.
// Zero matches yield domain.ErrCityNotFound; transport failures wrap
// domain.ErrUpstream and are never retried at this layer.
func (c *Client) Geocode(ctx context.Context, city string) (domain.Coordinate, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("format", "json")
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(serviceLabel, "error").Inc()
		return domain.Coordinate{}, fmt.Errorf("geocode %q: %v: %w", city, err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestDuration.WithLabelValues(serviceLabel).Observe(duration.Seconds())

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequestsTotal.WithLabelValues(serviceLabel, "error").Inc()
		return domain.Coordinate{}, fmt.Errorf("geocode %q: unexpected status %s: %w",
			city, resp.Status, domain.ErrUpstream)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(serviceLabel, "error").Inc()
		return domain.Coordinate{}, fmt.Errorf("geocode %q: decode response: %v: %w",
			city, err, domain.ErrUpstream)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(serviceLabel, "success").Inc()

	if len(places) == 0 {
		return domain.Coordinate{}, fmt.Errorf("geocode %q: %w", city, domain.ErrCityNotFound)
	}

	coord, err := places[0].coordinate()
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("geocode %q: %v: %w", city, err, domain.ErrUpstream)
	}
	return coord, nil
}

// HealthCheck verifies service availability via the status endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("geocoder status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder status: unexpected status %s", resp.Status)
	}
	return nil
}

func (p place) coordinate() (domain.Coordinate, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse lon %q: %w", p.Lon, err)
	}
	return domain.Coordinate{Latitude: lat, Longitude: lon}, nil
}
