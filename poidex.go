// Package poidex resolves free-text city names into categorized lists of
// points of interest. This package is the embedded SDK entry point; the
// HTTP server in cmd/poidex wraps the same pipeline.
package poidex

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/poidex/internal/config"
	"github.com/kailas-cloud/poidex/internal/domain"
	"github.com/kailas-cloud/poidex/internal/repository/rescache"
	"github.com/kailas-cloud/poidex/internal/transport/nominatim"
	overpassClient "github.com/kailas-cloud/poidex/internal/transport/overpass"
	resolveuc "github.com/kailas-cloud/poidex/internal/usecase/resolve"
)

// Destination is the public shape of a resolved point of interest.
// Distance and Rating are reserved fields, always nil.
type Destination struct {
	ID        int64
	Name      string
	Category  string
	Latitude  *float64
	Longitude *float64
	Tags      []string
	Distance  *float64
	Rating    *float64
}

// Client is the poidex SDK entry point. The resolution cache lives inside
// the client: one Client is one cache session.
type Client struct {
	resolver *resolveuc.Service
	cache    *rescache.Cache
}

// New creates a poidex Client with the default pipeline configuration,
// adjusted by options.
func New(opts ...Option) *Client {
	cfg := &clientConfig{
		nominatimURL:    "https://nominatim.openstreetmap.org",
		overpassURL:     "https://overpass-api.de/api/interpreter",
		userAgent:       "poidex/1.0",
		radiusMeters:    50000,
		resultLimit:     20,
		amenityDenylist: config.DefaultAmenityDenylist,
		maxAttempts:     3,
		retryDelay:      5 * time.Second,
		attemptTimeout:  60 * time.Second,
		geocodeTimeout:  10 * time.Second,
		logger:          zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	geocoder := nominatim.NewClient(&nominatim.Config{
		BaseURL:    cfg.nominatimURL,
		Timeout:    cfg.geocodeTimeout,
		UserAgent:  cfg.userAgent,
		Logger:     cfg.logger,
		HTTPClient: cfg.httpClient,
	})

	executor := overpassClient.NewClient(&overpassClient.Config{
		BaseURL:        cfg.overpassURL,
		AttemptTimeout: cfg.attemptTimeout,
		UserAgent:      cfg.userAgent,
		Logger:         cfg.logger,
		HTTPClient:     cfg.httpClient,
	})

	fetcher := resolveuc.NewRetryingFetcher(executor, cfg.maxAttempts, cfg.retryDelay, cfg.logger)
	cache := rescache.New(nil)

	resolver := resolveuc.New(geocoder, fetcher, cache, resolveuc.QueryConfig{
		RadiusMeters:    cfg.radiusMeters,
		ResultLimit:     cfg.resultLimit,
		AmenityDenylist: cfg.amenityDenylist,
		QueryTimeoutSec: int(cfg.attemptTimeout / time.Second),
	}, cfg.logger)

	return &Client{resolver: resolver, cache: cache}
}

// Resolve runs one resolution for the city as entered. Failures degrade to
// an empty list; the caller never sees an error.
func (c *Client) Resolve(ctx context.Context, city string) []Destination {
	return destinationsFromDomain(c.resolver.Resolve(ctx, city))
}

// CachedCities reports how many cities the session cache holds.
func (c *Client) CachedCities() int {
	return c.cache.Len()
}

func destinationsFromDomain(in []domain.Destination) []Destination {
	out := make([]Destination, 0, len(in))
	for _, d := range in {
		out = append(out, Destination{
			ID:        d.ID,
			Name:      d.Name,
			Category:  d.Category,
			Latitude:  d.GeoCode.Latitude,
			Longitude: d.GeoCode.Longitude,
			Tags:      d.Tags,
			Distance:  d.Distance,
			Rating:    d.Rating,
		})
	}
	return out
}
