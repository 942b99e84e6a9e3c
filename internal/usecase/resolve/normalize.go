package resolve

import (
	"sort"

	"github.com/kailas-cloud/poidex/internal/domain"
	"github.com/kailas-cloud/poidex/internal/overpass"
)

// Normalize maps raw service elements into the stable Destination shape.
// It is total: absent fields degrade to documented defaults, never errors.
// Output order matches input order.
func Normalize(elements []overpass.Element) []domain.Destination {
	destinations := make([]domain.Destination, 0, len(elements))
	for _, el := range elements {
		destinations = append(destinations, normalizeElement(el))
	}
	return destinations
}

func normalizeElement(el overpass.Element) domain.Destination {
	return domain.Destination{
		ID:       el.ID,
		Name:     nameOf(el),
		Category: categoryOf(el),
		GeoCode:  geoCodeOf(el),
		Tags:     tagKeys(el),
	}
}

func nameOf(el overpass.Element) string {
	if name := el.Tags["name"]; name != "" {
		return name
	}
	return domain.UnknownLabel
}

// categoryOf derives the category from the first tag key present, in
// priority order. Value content is passed through verbatim.
func categoryOf(el overpass.Element) string {
	for _, key := range domain.CategoryPriority {
		if v := el.Tags[key]; v != "" {
			return v
		}
	}
	return domain.UnknownLabel
}

// geoCodeOf prefers the element's own coordinates, then the aggregated
// center; both absent leaves the geo code empty.
func geoCodeOf(el overpass.Element) domain.GeoPoint {
	if el.Lat != nil && el.Lon != nil {
		return domain.GeoPoint{Latitude: el.Lat, Longitude: el.Lon}
	}
	if el.Center != nil {
		lat, lon := el.Center.Lat, el.Center.Lon
		return domain.GeoPoint{Latitude: &lat, Longitude: &lon}
	}
	return domain.GeoPoint{}
}

// tagKeys returns the sorted tag key names present on the element.
func tagKeys(el overpass.Element) []string {
	keys := make([]string, 0, len(el.Tags))
	for k := range el.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
