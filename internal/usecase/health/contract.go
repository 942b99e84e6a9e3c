package health

import "context"

// GeocoderChecker checks geocoding service availability.
type GeocoderChecker interface {
	HealthCheck(ctx context.Context) error
}
