package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks. The spatial-query service is not
// pinged: it has no cheap status endpoint and failures there surface
// through the retry path anyway.
type Service struct {
	geocoder GeocoderChecker
}

// New creates a Service. geocoder can be nil.
func New(geocoder GeocoderChecker) *Service {
	return &Service{geocoder: geocoder}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.geocoder != nil {
		if err := s.geocoder.HealthCheck(ctx); err != nil {
			checks["geocoder"] = CheckError
		} else {
			checks["geocoder"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
