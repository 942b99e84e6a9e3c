// Package domain holds the core entities of the destination pipeline.
package domain

// Coordinate is a latitude/longitude pair produced by geocoding.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeoPoint is the optional location of a destination. Nil pointers mean the
// upstream record carried no usable geometry.
type GeoPoint struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Destination is a normalized point of interest for one resolved city.
// Instances are created once per resolution and never mutated afterwards.
type Destination struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	GeoCode  GeoPoint `json:"geoCode"`
	// Tags holds the tag key names present on the upstream record, for
	// future filtering. Values are intentionally not carried.
	Tags []string `json:"tags"`
	// Distance and Rating are reserved: never computed by the pipeline,
	// always nil at creation.
	Distance *float64 `json:"distance"`
	Rating   *float64 `json:"rating"`
}

// UnknownLabel is the fallback for absent names and underivable categories.
const UnknownLabel = "Unknown"

// CategoryPriority is the tag-key order used to derive a destination
// category; the first key present on a record wins.
var CategoryPriority = []string{"tourism", "historic", "leisure", "amenity"}
