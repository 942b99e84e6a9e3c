// Package overpass models spatial queries against an Overpass-style
// point-of-interest service as a typed intermediate representation,
// serialized to query language text only at the fetch boundary.
package overpass

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/poidex/internal/domain"
)

// elementKinds are the geometry kinds included in every selector block.
var elementKinds = []string{"node", "way", "relation"}

// Selector selects elements carrying a tag key, optionally rejecting a set
// of tag values for that key.
type Selector struct {
	Key      string
	Excluded []string
}

// Query is the typed spatial query: a radius around a center, a set of tag
// selectors, and a result cap. It carries no transport concerns.
type Query struct {
	Center     domain.Coordinate
	RadiusM    int
	Selectors  []Selector
	Limit      int
	TimeoutSec int
}

// Validate checks the query for structural correctness.
func (q *Query) Validate() error {
	if q.RadiusM <= 0 {
		return fmt.Errorf("radius must be positive, got %d", q.RadiusM)
	}
	if len(q.Selectors) == 0 {
		return errors.New("at least one selector is required")
	}
	for _, s := range q.Selectors {
		if s.Key == "" {
			return errors.New("selector key must not be empty")
		}
	}
	if q.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", q.Limit)
	}
	return nil
}

// QL serializes the query to Overpass query language. Identical queries
// always produce identical text. Aggregated geometries are asked to report
// a center coordinate so that ways and relations stay usable downstream.
func (q *Query) QL() string {
	var b strings.Builder

	b.WriteString("[out:json]")
	if q.TimeoutSec > 0 {
		fmt.Fprintf(&b, "[timeout:%d]", q.TimeoutSec)
	}
	b.WriteString(";\n(\n")

	around := fmt.Sprintf("(around:%d,%s,%s)",
		q.RadiusM,
		formatCoord(q.Center.Latitude),
		formatCoord(q.Center.Longitude),
	)

	for _, sel := range q.Selectors {
		clause := fmt.Sprintf("[%q]", sel.Key)
		if len(sel.Excluded) > 0 {
			clause += fmt.Sprintf("[%q!~%q]", sel.Key, exclusionPattern(sel.Excluded))
		}
		for _, kind := range elementKinds {
			fmt.Fprintf(&b, "  %s%s%s;\n", kind, around, clause)
		}
	}

	fmt.Fprintf(&b, ");\nout center %d;\n", q.Limit)
	return b.String()
}

// exclusionPattern builds an anchored alternation matching any excluded value.
func exclusionPattern(values []string) string {
	return "^(" + strings.Join(values, "|") + ")$"
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
