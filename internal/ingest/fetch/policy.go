package fetch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fortuna/hoopsync/internal/logging"
)

// Policy bounds retries for a single segment. After failed attempt n
// (1-based) and while n < MaxRetries, the caller waits BackoffFactor*n.
type Policy struct {
	MaxRetries    int
	BackoffFactor time.Duration
	// Sleep overrides the wait between attempts. It must return ctx.Err()
	// when the context ends first.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Backoff returns the wait after failed attempt n.
func (p Policy) Backoff(attempt int) time.Duration {
	return p.BackoffFactor * time.Duration(attempt)
}

// Run executes fn under the policy and always returns a Result; exhaustion is
// reported as OutcomeFailure rather than an error.
func Run[T any](ctx context.Context, p Policy, logger *slog.Logger, segment string, fn func(context.Context) (T, error)) Result[T] {
	maxRetries := p.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	res := Result[T]{Segment: segment}
	for attempt := 1; attempt <= maxRetries; attempt++ {
		res.Attempts = attempt
		data, err := fn(ctx)
		if err == nil {
			res.Outcome = OutcomeSuccess
			res.Data = data
			res.Err = nil
			return res
		}
		if errors.Is(err, ErrEmpty) {
			logger.Info("segment returned no rows", logging.String(logging.FieldSegment, segment))
			res.Outcome = OutcomeEmpty
			res.Err = err
			return res
		}
		res.Err = err
		if ctx.Err() != nil {
			break
		}

		logging.WarnWithContext(logger, "fetch attempt failed", "fetch_attempt_failed",
			logging.String(logging.FieldSegment, segment),
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", maxRetries),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check upstream availability or raise fetch.max_retries"),
			logging.String(logging.FieldImpact, "segment retried"),
		)
		if attempt < maxRetries {
			if err := sleep(ctx, p.Backoff(attempt)); err != nil {
				res.Err = err
				break
			}
		}
	}

	res.Outcome = OutcomeFailure
	logging.WarnWithContext(logger, "segment fetch failed", "fetch_exhausted",
		logging.String(logging.FieldSegment, segment),
		logging.Int("attempts", res.Attempts),
		logging.Error(res.Err),
		logging.String(logging.FieldImpact, "segment omitted from this run"),
	)
	return res
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
