// Package chi is the thin JSON API over the destination resolver.
package chi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/poidex/internal/domain"
	healthuc "github.com/kailas-cloud/poidex/internal/usecase/health"
	resolveuc "github.com/kailas-cloud/poidex/internal/usecase/resolve"
)

// Server exposes the resolver over HTTP.
type Server struct {
	resolver *resolveuc.Service
	health   *healthuc.Service
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(resolver *resolveuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{
		resolver: resolver,
		health:   health,
		logger:   logger,
	}
}

// Routes registers the API endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/destinations", s.GetDestinations)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// destinationsResponse is the wire shape of a resolution result.
type destinationsResponse struct {
	City         string               `json:"city"`
	Destinations []domain.Destination `json:"destinations"`
}

// errorResponse is the wire shape of a request error.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetDestinations handles GET /destinations?city=<name>.
// The resolver never fails from the caller's point of view; only a blank
// city parameter is rejected here. An empty list is a valid answer and
// carries no failure reason beyond the server log.
func (s *Server) GetDestinations(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if strings.TrimSpace(city) == "" {
		writeError(w, http.StatusBadRequest, "empty_city", "city query parameter is required")
		return
	}

	destinations := s.resolver.Resolve(r.Context(), city)

	writeJSON(w, http.StatusOK, destinationsResponse{
		City:         city,
		Destinations: destinations,
	})
}

// healthResponse is the wire shape of a health report.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string)
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
