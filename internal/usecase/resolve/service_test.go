package resolve

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/poidex/internal/domain"
	"github.com/kailas-cloud/poidex/internal/overpass"
)

// --- Mocks ---

type mockGeocoder struct {
	coord  domain.Coordinate
	err    error
	calls  int
	cities []string
}

func (m *mockGeocoder) Geocode(_ context.Context, city string) (domain.Coordinate, error) {
	m.calls++
	m.cities = append(m.cities, city)
	return m.coord, m.err
}

type mockFetcher struct {
	elements  []overpass.Element
	err       error
	calls     int
	lastQuery *overpass.Query
}

func (m *mockFetcher) Fetch(_ context.Context, q *overpass.Query) ([]overpass.Element, error) {
	m.calls++
	m.lastQuery = q
	return m.elements, m.err
}

type mockCache struct {
	entries map[string][]domain.Destination
	gets    int
	puts    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]domain.Destination)}
}

func (m *mockCache) Get(city string) ([]domain.Destination, bool) {
	m.gets++
	d, ok := m.entries[city]
	return d, ok
}

func (m *mockCache) Put(city string, destinations []domain.Destination) {
	m.puts++
	m.entries[city] = destinations
}

func defaultQueryConfig() QueryConfig {
	return QueryConfig{
		RadiusMeters:    50000,
		ResultLimit:     20,
		AmenityDenylist: []string{"school", "bank", "parking"},
		QueryTimeoutSec: 60,
	}
}

func newTestService(geo *mockGeocoder, fetcher *mockFetcher, cache *mockCache) *Service {
	return New(geo, fetcher, cache, defaultQueryConfig(), zap.NewNop())
}

// --- Tests ---

func TestResolve_EmptyInput(t *testing.T) {
	geo := &mockGeocoder{}
	fetcher := &mockFetcher{}
	svc := newTestService(geo, fetcher, newMockCache())

	for _, city := range []string{"", "   ", "\t\n"} {
		got := svc.Resolve(context.Background(), city)
		if len(got) != 0 {
			t.Errorf("Resolve(%q) = %v, want empty", city, got)
		}
	}
	if geo.calls != 0 || fetcher.calls != 0 {
		t.Errorf("blank input must not reach the network: geo=%d fetch=%d", geo.calls, fetcher.calls)
	}
}

func TestResolve_CacheHitShortCircuits(t *testing.T) {
	cached := []domain.Destination{{ID: 42, Name: "Louvre", Category: "museum"}}
	cache := newMockCache()
	cache.entries["Paris"] = cached

	geo := &mockGeocoder{}
	fetcher := &mockFetcher{}
	svc := newTestService(geo, fetcher, cache)

	got := svc.Resolve(context.Background(), "Paris")

	if !reflect.DeepEqual(got, cached) {
		t.Errorf("got %v, want cached %v", got, cached)
	}
	if geo.calls != 0 {
		t.Errorf("geocoder called %d times on cache hit, want 0", geo.calls)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times on cache hit, want 0", fetcher.calls)
	}
}

func TestResolve_GeocodeNotFound(t *testing.T) {
	geo := &mockGeocoder{err: fmt.Errorf("geocode %q: %w", "Atlantis", domain.ErrCityNotFound)}
	fetcher := &mockFetcher{}
	cache := newMockCache()
	svc := newTestService(geo, fetcher, cache)

	got := svc.Resolve(context.Background(), "Atlantis")

	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times after NotFound, want 0", fetcher.calls)
	}
	if cache.puts != 0 {
		t.Errorf("cache stored %d entries after NotFound, want 0", cache.puts)
	}
}

func TestResolve_GeocodeTransportError(t *testing.T) {
	geo := &mockGeocoder{err: fmt.Errorf("geocode: connection refused: %w", domain.ErrUpstream)}
	fetcher := &mockFetcher{}
	svc := newTestService(geo, fetcher, newMockCache())

	got := svc.Resolve(context.Background(), "Paris")

	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times after transport error, want 0", fetcher.calls)
	}
}

func TestResolve_FetchExhausted(t *testing.T) {
	geo := &mockGeocoder{coord: domain.Coordinate{Latitude: 48.86, Longitude: 2.35}}
	fetcher := &mockFetcher{err: domain.NewExhaustedRetries(3, errors.New("gateway timeout"))}
	cache := newMockCache()
	svc := newTestService(geo, fetcher, cache)

	got := svc.Resolve(context.Background(), "Paris")

	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
	if cache.puts != 0 {
		t.Errorf("cache stored %d entries after fetch failure, want 0", cache.puts)
	}
}

func TestResolve_SuccessStoresCache(t *testing.T) {
	geo := &mockGeocoder{coord: domain.Coordinate{Latitude: 48.86, Longitude: 2.35}}
	fetcher := &mockFetcher{elements: []overpass.Element{
		{ID: 1, Tags: map[string]string{"name": "Louvre", "tourism": "museum"}},
	}}
	cache := newMockCache()
	svc := newTestService(geo, fetcher, cache)

	got := svc.Resolve(context.Background(), "Paris")

	if len(got) != 1 || got[0].Name != "Louvre" || got[0].Category != "museum" {
		t.Fatalf("unexpected destinations: %+v", got)
	}
	if cache.puts != 1 {
		t.Errorf("cache puts = %d, want 1", cache.puts)
	}
	if !reflect.DeepEqual(cache.entries["Paris"], got) {
		t.Error("cached entry differs from returned result")
	}
}

func TestResolve_BuiltQueryCarriesConfig(t *testing.T) {
	geo := &mockGeocoder{coord: domain.Coordinate{Latitude: 10, Longitude: 20}}
	fetcher := &mockFetcher{}
	svc := newTestService(geo, fetcher, newMockCache())

	svc.Resolve(context.Background(), "Paris")

	q := fetcher.lastQuery
	if q == nil {
		t.Fatal("fetcher never received a query")
	}
	if q.RadiusM != 50000 || q.Limit != 20 {
		t.Errorf("query radius/limit = %d/%d, want 50000/20", q.RadiusM, q.Limit)
	}
	if q.Center.Latitude != 10 || q.Center.Longitude != 20 {
		t.Errorf("query center = %+v, want geocoded coordinate", q.Center)
	}

	var amenity *overpass.Selector
	for i := range q.Selectors {
		if q.Selectors[i].Key == "amenity" {
			amenity = &q.Selectors[i]
		}
	}
	if amenity == nil {
		t.Fatal("query has no amenity selector")
	}
	if !reflect.DeepEqual(amenity.Excluded, []string{"school", "bank", "parking"}) {
		t.Errorf("amenity exclusions = %v", amenity.Excluded)
	}
}

func TestResolve_EmptyFetchResultIsCached(t *testing.T) {
	geo := &mockGeocoder{coord: domain.Coordinate{Latitude: 1, Longitude: 2}}
	fetcher := &mockFetcher{elements: []overpass.Element{}}
	cache := newMockCache()
	svc := newTestService(geo, fetcher, cache)

	got := svc.Resolve(context.Background(), "Nowhere Springs")

	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
	if cache.puts != 1 {
		t.Errorf("empty successful result must still be cached, puts = %d", cache.puts)
	}
}

func TestResolve_SecondCallHitsCache(t *testing.T) {
	geo := &mockGeocoder{coord: domain.Coordinate{Latitude: 48.86, Longitude: 2.35}}
	fetcher := &mockFetcher{elements: []overpass.Element{
		{ID: 1, Tags: map[string]string{"name": "Louvre", "tourism": "museum"}},
		{ID: 2, Center: &overpass.LatLon{Lat: 48.85, Lon: 2.29}, Tags: map[string]string{"historic": "tower"}},
	}}
	cache := newMockCache()
	svc := newTestService(geo, fetcher, cache)

	first := svc.Resolve(context.Background(), "Paris")
	second := svc.Resolve(context.Background(), "Paris")

	if !reflect.DeepEqual(first, second) {
		t.Error("second resolution differs from the first")
	}
	if geo.calls != 1 {
		t.Errorf("geocoder calls = %d, want 1", geo.calls)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher calls = %d, want 1", fetcher.calls)
	}
}

func TestResolve_CacheKeyIsExactString(t *testing.T) {
	geo := &mockGeocoder{coord: domain.Coordinate{Latitude: 48.86, Longitude: 2.35}}
	fetcher := &mockFetcher{}
	svc := newTestService(geo, fetcher, newMockCache())

	svc.Resolve(context.Background(), "Paris")
	svc.Resolve(context.Background(), "paris")

	if geo.calls != 2 {
		t.Errorf("geocoder calls = %d, want 2: keys are case-sensitive", geo.calls)
	}
}
