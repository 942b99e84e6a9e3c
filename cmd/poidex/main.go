package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/poidex/internal/config"
	logpkg "github.com/kailas-cloud/poidex/internal/logger"
	"github.com/kailas-cloud/poidex/internal/metrics"
	"github.com/kailas-cloud/poidex/internal/repository/rescache"
	chiTransport "github.com/kailas-cloud/poidex/internal/transport/chi"
	"github.com/kailas-cloud/poidex/internal/transport/nominatim"
	overpassClient "github.com/kailas-cloud/poidex/internal/transport/overpass"
	healthuc "github.com/kailas-cloud/poidex/internal/usecase/health"
	resolveuc "github.com/kailas-cloud/poidex/internal/usecase/resolve"
	"github.com/kailas-cloud/poidex/internal/version"
)

func main() {
	// .env is optional; real environments configure via the environment.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting poidex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("nominatim_url", cfg.Nominatim.BaseURL),
		zap.String("overpass_url", cfg.Overpass.BaseURL),
	)

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Upstream clients — composition root
	geocoder := nominatim.NewClient(&nominatim.Config{
		BaseURL:   cfg.Nominatim.BaseURL,
		Timeout:   time.Duration(cfg.Nominatim.TimeoutSec) * time.Second,
		UserAgent: cfg.Nominatim.UserAgent,
		Logger:    logger,
	})

	executor := overpassClient.NewClient(&overpassClient.Config{
		BaseURL:        cfg.Overpass.BaseURL,
		AttemptTimeout: time.Duration(cfg.Overpass.AttemptTimeoutSec) * time.Second,
		UserAgent:      cfg.Nominatim.UserAgent,
		Logger:         logger,
	})

	fetcher := resolveuc.NewRetryingFetcher(
		executor,
		cfg.Retry.MaxAttempts,
		time.Duration(cfg.Retry.DelayMs)*time.Millisecond,
		logger,
	)

	// Session-scoped cache: created once, lives for the process, no teardown.
	cache := rescache.New(metrics.ResolutionCacheTotal)

	resolver := resolveuc.New(geocoder, fetcher, cache, resolveuc.QueryConfig{
		RadiusMeters:    cfg.Search.RadiusMeters,
		ResultLimit:     cfg.Search.ResultLimit,
		AmenityDenylist: cfg.Search.AmenityDenylist,
		QueryTimeoutSec: cfg.Overpass.AttemptTimeoutSec,
	}, logger)

	healthSvc := healthuc.New(geocoder)

	// Create chi server
	server := chiTransport.NewServer(resolver, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
