package poidex

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option configures an embedded Client.
type Option func(*clientConfig)

type clientConfig struct {
	nominatimURL    string
	overpassURL     string
	userAgent       string
	radiusMeters    int
	resultLimit     int
	amenityDenylist []string
	maxAttempts     int
	retryDelay      time.Duration
	attemptTimeout  time.Duration
	geocodeTimeout  time.Duration
	logger          *zap.Logger
	httpClient      *http.Client
}

// WithNominatimURL overrides the geocoding service base URL.
func WithNominatimURL(url string) Option {
	return func(c *clientConfig) { c.nominatimURL = url }
}

// WithOverpassURL overrides the point-of-interest service URL.
func WithOverpassURL(url string) Option {
	return func(c *clientConfig) { c.overpassURL = url }
}

// WithUserAgent sets the User-Agent sent to upstream services.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) { c.userAgent = ua }
}

// WithRadius sets the search radius in meters.
func WithRadius(meters int) Option {
	return func(c *clientConfig) { c.radiusMeters = meters }
}

// WithResultLimit caps the number of destinations requested per resolution.
func WithResultLimit(n int) Option {
	return func(c *clientConfig) { c.resultLimit = n }
}

// WithAmenityDenylist replaces the default amenity exclusion set.
func WithAmenityDenylist(values ...string) Option {
	return func(c *clientConfig) { c.amenityDenylist = values }
}

// WithRetry sets the fetch retry policy: attempt count and constant delay.
func WithRetry(maxAttempts int, delay time.Duration) Option {
	return func(c *clientConfig) {
		c.maxAttempts = maxAttempts
		c.retryDelay = delay
	}
}

// WithAttemptTimeout bounds each spatial-query attempt.
func WithAttemptTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.attemptTimeout = d }
}

// WithLogger attaches a logger; the default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

// WithHTTPClient overrides the HTTP client used for both upstreams (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = hc }
}
