package overpass

import "github.com/kailas-cloud/poidex/internal/domain"

// QueryBuilder is a fluent builder for spatial queries.
type QueryBuilder struct {
	q Query
}

// NewQuery starts building a spatial query around a center coordinate.
func NewQuery(center domain.Coordinate) *QueryBuilder {
	return &QueryBuilder{q: Query{Center: center}}
}

// Radius sets the search radius in meters.
func (b *QueryBuilder) Radius(meters int) *QueryBuilder {
	b.q.RadiusM = meters
	return b
}

// Select adds a selector matching elements that carry the tag key.
func (b *QueryBuilder) Select(key string) *QueryBuilder {
	b.q.Selectors = append(b.q.Selectors, Selector{Key: key})
	return b
}

// SelectExcluding adds a selector for the tag key that rejects the given
// tag values.
func (b *QueryBuilder) SelectExcluding(key string, values ...string) *QueryBuilder {
	b.q.Selectors = append(b.q.Selectors, Selector{Key: key, Excluded: values})
	return b
}

// Limit caps the number of elements requested from the service.
func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	b.q.Limit = n
	return b
}

// Timeout sets the server-side evaluation timeout in seconds.
func (b *QueryBuilder) Timeout(seconds int) *QueryBuilder {
	b.q.TimeoutSec = seconds
	return b
}

// Build validates and returns the query.
func (b *QueryBuilder) Build() (*Query, error) {
	if err := b.q.Validate(); err != nil {
		return nil, err
	}
	return &b.q, nil
}

// MustBuild calls Build and panics on error.
func (b *QueryBuilder) MustBuild() *Query {
	q, err := b.Build()
	if err != nil {
		panic(err)
	}
	return q
}
