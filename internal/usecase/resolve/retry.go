package resolve

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/poidex/internal/domain"
	"github.com/kailas-cloud/poidex/internal/metrics"
	"github.com/kailas-cloud/poidex/internal/overpass"
)

// RetryingFetcher decorates an Executor with a bounded constant-backoff
// retry policy. Attempts are independent; no partial results carry across.
type RetryingFetcher struct {
	exec        Executor
	maxAttempts int
	delay       time.Duration
	logger      *zap.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewRetryingFetcher creates the retry decorator.
func NewRetryingFetcher(exec Executor, maxAttempts int, delay time.Duration, logger *zap.Logger) *RetryingFetcher {
	return &RetryingFetcher{
		exec:        exec,
		maxAttempts: maxAttempts,
		delay:       delay,
		logger:      logger,
		sleep:       sleepCtx,
	}
}

// Fetch runs the query, retrying failed attempts with a constant delay.
// The first success wins immediately; an empty element list is success.
// After the last failure it returns an ExhaustedRetriesError carrying the
// last underlying error.
func (f *RetryingFetcher) Fetch(ctx context.Context, query *overpass.Query) ([]overpass.Element, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		elements, err := f.exec.Execute(ctx, query)
		if err == nil {
			metrics.FetchAttemptsTotal.WithLabelValues("success").Inc()
			return elements, nil
		}

		lastErr = err
		metrics.FetchAttemptsTotal.WithLabelValues("failure").Inc()
		f.logger.Warn("spatial query attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", f.maxAttempts),
			zap.Error(err),
		)

		if attempt < f.maxAttempts {
			if err := f.sleep(ctx, f.delay); err != nil {
				return nil, domain.NewExhaustedRetries(attempt, err)
			}
		}
	}

	return nil, domain.NewExhaustedRetries(f.maxAttempts, lastErr)
}

// sleepCtx waits for d, returning ctx.Err() if the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
