package resolve

import (
	"context"

	"github.com/kailas-cloud/poidex/internal/domain"
	"github.com/kailas-cloud/poidex/internal/overpass"
)

// Geocoder resolves a city name to its single best coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (domain.Coordinate, error)
}

// Executor runs exactly one spatial query attempt.
type Executor interface {
	Execute(ctx context.Context, query *overpass.Query) ([]overpass.Element, error)
}

// Fetcher fetches spatial query results, retry policy included.
type Fetcher interface {
	Fetch(ctx context.Context, query *overpass.Query) ([]overpass.Element, error)
}

// Cache stores resolved destination lists keyed by the exact city string
// as entered. There is no expiry; a hit short-circuits the whole pipeline.
type Cache interface {
	Get(city string) ([]domain.Destination, bool)
	Put(city string, destinations []domain.Destination)
}
