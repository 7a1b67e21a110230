package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fortuna/hoopsync/internal/ingest/fetch"
	"github.com/fortuna/hoopsync/internal/logging"
	"github.com/fortuna/hoopsync/internal/publisher"
	"github.com/fortuna/hoopsync/internal/reconciliation"
	"github.com/fortuna/hoopsync/internal/store"
)

// StatsSource fetches one season segment of game logs.
type StatsSource interface {
	FetchSeason(ctx context.Context, season int, seasonType string) (store.Table, error)
}

// Notifier announces finished jobs.
type Notifier interface {
	PublishRefresh(ctx context.Context, event publisher.RefreshEvent) error
}

// Options carries the file locations, sources and thresholds for a run.
type Options struct {
	BoxscoresPath   string
	PlayerCachePath string
	InjuriesPath    string
	// LockPath, when set, is held for the whole run.
	LockPath string

	Season      int
	SeasonTypes []string

	RosterURL     string
	AllPlayersURL string
	InjuryURL     string

	Policy fetch.Policy

	RosterThreshold  int
	AllTimeThreshold int
	InjuryThreshold  int
	EnrichPositions  bool
}

// Runner executes sync jobs.
type Runner struct {
	opts     Options
	stats    StatsSource
	pages    fetch.PageSource
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	newRunID func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithNotifier publishes a refresh event after every job.
func WithNotifier(n Notifier) Option {
	return func(r *Runner) { r.notifier = n }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithRunID overrides run id generation.
func WithRunID(fn func() string) Option {
	return func(r *Runner) { r.newRunID = fn }
}

// NewRunner constructs a Runner.
func NewRunner(opts Options, stats StatsSource, pages fetch.PageSource, logger *slog.Logger, options ...Option) *Runner {
	r := &Runner{
		opts:     opts,
		stats:    stats,
		pages:    pages,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// run holds per-invocation state. The identity index is built at most once
// and only when a job needs it.
type run struct {
	*Runner
	id       string
	logger   *slog.Logger
	reporter Reporter

	index      *reconciliation.IdentityIndex
	indexErr   error
	indexBuilt bool
}

// Run executes jobs in order and returns one Summary per job. The error is
// non-nil when the store lock could not be taken or any job failed.
func (r *Runner) Run(ctx context.Context, jobs []JobType, reporter Reporter) ([]Summary, error) {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if len(jobs) == 0 {
		jobs = AllJobs
	}

	if r.opts.LockPath != "" {
		lock, err := store.AcquireLock(r.opts.LockPath)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				r.logger.Warn("release store lock", logging.Error(err))
			}
		}()
	}

	st := &run{Runner: r, id: r.newRunID(), reporter: reporter}
	st.logger = r.logger.With(logging.String(logging.FieldRunID, st.id))
	reporter.OnRunStart(st.id, jobs)
	st.logger.Info("sync run started", logging.Any("jobs", jobs))

	summaries := make([]Summary, 0, len(jobs))
	var errs []error
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		summary := st.runJob(ctx, job)
		summaries = append(summaries, summary)
		if summary.Failed() {
			errs = append(errs, fmt.Errorf("%s: %w", job, summary.Err))
		}
	}

	st.logger.Info("sync run finished", logging.Int("jobs", len(summaries)), logging.Int("failed", len(errs)))
	return summaries, errors.Join(errs...)
}

func (st *run) runJob(ctx context.Context, job JobType) Summary {
	st.reporter.OnJobStart(job)
	logger := st.logger.With(logging.String(logging.FieldJob, string(job)))
	started := st.now()

	var summary Summary
	switch job {
	case JobStats:
		summary = st.runStats(ctx, logger)
	case JobProfiles:
		summary = st.runProfiles(ctx, logger)
	case JobInjuries:
		summary = st.runInjuries(ctx, logger)
	default:
		summary = failed(fmt.Errorf("unknown job %q", job))
	}
	summary.Job = job
	summary.Duration = st.now().Sub(started)

	if summary.Failed() {
		logging.ErrorWithContext(logger, "job failed", "job_failed",
			logging.Error(summary.Err),
			logging.String(logging.FieldErrorHint, hintFor(summary.Err)),
		)
	} else {
		logger.Info("job finished",
			logging.String("status", string(summary.Status)),
			logging.Int("added", summary.Added),
			logging.Int("updated", summary.Updated),
			logging.Int("resolved", summary.Resolved),
			logging.Int("skipped", summary.Skipped),
			logging.Duration("duration", summary.Duration),
		)
	}

	st.notify(ctx, logger, summary)
	st.reporter.OnJobComplete(summary)
	return summary
}

func (st *run) progress(job JobType, format string, args ...any) {
	st.reporter.OnProgress(job, fmt.Sprintf(format, args...))
}

func (st *run) notify(ctx context.Context, logger *slog.Logger, s Summary) {
	if st.notifier == nil {
		return
	}
	event := publisher.RefreshEvent{
		RunID:      st.id,
		Job:        string(s.Job),
		Status:     string(s.Status),
		Added:      s.Added,
		Updated:    s.Updated,
		Resolved:   s.Resolved,
		Skipped:    s.Skipped,
		FinishedAt: st.now().UTC(),
	}
	if s.Err != nil {
		event.Error = s.Err.Error()
	}
	if err := st.notifier.PublishRefresh(ctx, event); err != nil {
		logging.WarnWithContext(logger, "refresh event not published", "publish_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check publisher.redis_url"),
			logging.String(logging.FieldImpact, "downstream consumers will not reload automatically"),
		)
	}
}

// identityIndex builds the resolver index from the boxscore corpus on disk.
func (st *run) identityIndex(logger *slog.Logger) (*reconciliation.IdentityIndex, error) {
	if st.indexBuilt {
		return st.index, st.indexErr
	}
	st.indexBuilt = true

	path := st.opts.BoxscoresPath
	if !store.Exists(path) {
		st.indexErr = fmt.Errorf("%w: boxscore corpus %s", ErrFatalPrecondition, path)
		return nil, st.indexErr
	}
	table, err := store.ReadTable(path)
	if err != nil {
		st.indexErr = err
		return nil, err
	}
	observations, err := reconciliation.ObservationsFromTable(table)
	if err != nil {
		st.indexErr = err
		return nil, err
	}
	st.index = reconciliation.BuildIdentityIndex(observations, logger)
	logger.Info("identity index ready",
		logging.Int("keys", st.index.Len()),
		logging.Int("players", len(st.index.Players())),
		logging.Int("collisions", st.index.Collisions()),
	)
	return st.index, nil
}

func failed(err error) Summary {
	return Summary{Status: StatusFailed, Err: err}
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, ErrFatalPrecondition):
		return "seed the database directory with the historical boxscore file"
	case errors.Is(err, reconciliation.ErrStructuralIntegrity):
		return "upstream feed layout changed; inspect the fetched columns"
	case errors.Is(err, ErrNoSegments):
		return "every upstream request failed; check connectivity and source URLs"
	default:
		return "check logs for details"
	}
}
