package resolve

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/poidex/internal/domain"
	"github.com/kailas-cloud/poidex/internal/metrics"
	"github.com/kailas-cloud/poidex/internal/overpass"
)

// QueryConfig parameterizes the spatial query built once per resolution.
type QueryConfig struct {
	RadiusMeters    int
	ResultLimit     int
	AmenityDenylist []string
	QueryTimeoutSec int
}

// Service resolves a city name into a list of destinations, driving the
// pipeline cache → geocode → query build → fetch → normalize → cache store.
type Service struct {
	geo     Geocoder
	fetcher Fetcher
	cache   Cache
	query   QueryConfig
	logger  *zap.Logger
}

// New creates the resolver.
func New(geo Geocoder, fetcher Fetcher, cache Cache, query QueryConfig, logger *zap.Logger) *Service {
	return &Service{
		geo:     geo,
		fetcher: fetcher,
		cache:   cache,
		query:   query,
		logger:  logger,
	}
}

// Resolve runs one resolution for the city as entered. All failures are
// absorbed at this boundary: the caller always gets a (possibly empty)
// destination list, and the reason for an empty one goes to the log only.
func (s *Service) Resolve(ctx context.Context, city string) []domain.Destination {
	if strings.TrimSpace(city) == "" {
		metrics.ResolutionsTotal.WithLabelValues("empty_input").Inc()
		s.logger.Debug("resolution skipped", zap.Error(domain.ErrEmptyCity))
		return []domain.Destination{}
	}

	state := Next(StateIdle, OutcomeAdvance) // StateCacheCheck

	if destinations, ok := s.cache.Get(city); ok {
		state = Next(state, OutcomeCacheHit)
		metrics.ResolutionsTotal.WithLabelValues("cache_hit").Inc()
		s.logger.Debug("resolution served from cache",
			zap.String("city", city),
			zap.String("state", state.String()),
			zap.Int("destinations", len(destinations)),
		)
		return destinations
	}
	state = Next(state, OutcomeCacheMiss) // StateGeocoding

	coord, err := s.geo.Geocode(ctx, city)
	if err != nil {
		if errors.Is(err, domain.ErrCityNotFound) {
			metrics.ResolutionsTotal.WithLabelValues("not_found").Inc()
			s.logger.Warn("city not resolvable to coordinates", zap.String("city", city))
			return []domain.Destination{}
		}
		metrics.ResolutionsTotal.WithLabelValues("geocode_error").Inc()
		s.logger.Warn("geocoding failed", zap.String("city", city), zap.Error(err))
		return []domain.Destination{}
	}
	state = Next(state, OutcomeAdvance) // StateQueryBuild

	query, err := s.buildQuery(coord)
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues("query_error").Inc()
		s.logger.Error("spatial query build failed", zap.String("city", city), zap.Error(err))
		return []domain.Destination{}
	}
	state = Next(state, OutcomeAdvance) // StateFetching

	elements, err := s.fetcher.Fetch(ctx, query)
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues("fetch_error").Inc()
		s.logger.Warn("spatial query fetch failed", zap.String("city", city), zap.Error(err))
		return []domain.Destination{}
	}
	state = Next(state, OutcomeAdvance) // StateNormalizing

	destinations := Normalize(elements)
	state = Next(state, OutcomeAdvance) // StateCacheStore

	s.cache.Put(city, destinations)
	state = Next(state, OutcomeAdvance) // StateDone

	metrics.ResolutionsTotal.WithLabelValues("resolved").Inc()
	s.logger.Info("city resolved",
		zap.String("city", city),
		zap.String("state", state.String()),
		zap.Float64("lat", coord.Latitude),
		zap.Float64("lon", coord.Longitude),
		zap.Int("destinations", len(destinations)),
	)
	return destinations
}

// buildQuery constructs the spatial query for one coordinate. The four
// broad categories are fixed; only amenity carries the denylist.
func (s *Service) buildQuery(coord domain.Coordinate) (*overpass.Query, error) {
	return overpass.NewQuery(coord).
		Radius(s.query.RadiusMeters).
		Select("tourism").
		Select("historic").
		Select("leisure").
		SelectExcluding("amenity", s.query.AmenityDenylist...).
		Limit(s.query.ResultLimit).
		Timeout(s.query.QueryTimeoutSec).
		Build()
}
