package fetch_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/hoopsync/internal/ingest/fetch"
	"github.com/fortuna/hoopsync/internal/logging"
)

type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return ctx.Err()
}

func TestRunRetriesWithLinearBackoffThenFails(t *testing.T) {
	rec := &sleepRecorder{}
	policy := fetch.Policy{MaxRetries: 3, BackoffFactor: 5 * time.Second, Sleep: rec.sleep}
	calls := 0
	res := fetch.Run(t.Context(), policy, logging.NewNop(), "Playoffs", func(context.Context) (int, error) {
		calls++
		return 0, fmt.Errorf("attempt %d: timeout", calls)
	})

	assert.Equal(t, fetch.OutcomeFailure, res.Outcome)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, "Playoffs", res.Segment)
	assert.EqualError(t, res.Err, "attempt 3: timeout")
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, rec.waits)
}

func TestRunSucceedsAfterTransientFailure(t *testing.T) {
	rec := &sleepRecorder{}
	policy := fetch.Policy{MaxRetries: 3, BackoffFactor: time.Second, Sleep: rec.sleep}
	calls := 0
	res := fetch.Run(t.Context(), policy, nil, "Regular Season", func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("503")
		}
		return "rows", nil
	})

	assert.Equal(t, fetch.OutcomeSuccess, res.Outcome)
	assert.Equal(t, "rows", res.Data)
	assert.NoError(t, res.Err)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, []time.Duration{time.Second}, rec.waits)
}

func TestRunDoesNotRetryEmpty(t *testing.T) {
	rec := &sleepRecorder{}
	policy := fetch.Policy{MaxRetries: 3, BackoffFactor: time.Second, Sleep: rec.sleep}
	calls := 0
	res := fetch.Run(t.Context(), policy, nil, "Playoffs", func(context.Context) (int, error) {
		calls++
		return 0, fmt.Errorf("playoffs 2024: %w", fetch.ErrEmpty)
	})

	assert.Equal(t, fetch.OutcomeEmpty, res.Outcome)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, res.Err, fetch.ErrEmpty)
	assert.Empty(t, rec.waits)
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	calls := 0
	policy := fetch.Policy{MaxRetries: 5, BackoffFactor: time.Hour}
	res := fetch.Run(ctx, policy, nil, "Regular Season", func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("boom")
	})

	assert.Equal(t, fetch.OutcomeFailure, res.Outcome)
	assert.Equal(t, 1, calls)
}

func TestRunRealSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	policy := fetch.Policy{MaxRetries: 2, BackoffFactor: time.Hour}
	started := time.Now()
	res := fetch.Run(ctx, policy, nil, "s", func(context.Context) (int, error) {
		return 0, errors.New("down")
	})
	assert.Equal(t, fetch.OutcomeFailure, res.Outcome)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.Less(t, time.Since(started), time.Minute)
}

func TestCollectPartitionsByOutcome(t *testing.T) {
	results := []fetch.Result[int]{
		{Segment: "Regular Season", Outcome: fetch.OutcomeSuccess, Data: 100},
		{Segment: "Playoffs", Outcome: fetch.OutcomeFailure, Err: errors.New("x")},
		{Segment: "Commissioner Cup", Outcome: fetch.OutcomeEmpty},
	}
	got := fetch.Collect(results)
	require.Equal(t, []int{100}, got.Data)
	assert.Equal(t, []string{"Regular Season"}, got.Loaded)
	assert.Equal(t, []string{"Commissioner Cup"}, got.Empty)
	assert.Equal(t, []string{"Playoffs"}, got.Failed)
}
