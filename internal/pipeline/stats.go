package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fortuna/hoopsync/internal/ingest/fetch"
	"github.com/fortuna/hoopsync/internal/logging"
	"github.com/fortuna/hoopsync/internal/reconciliation"
	"github.com/fortuna/hoopsync/internal/store"
)

func (st *run) runStats(ctx context.Context, logger *slog.Logger) Summary {
	path := st.opts.BoxscoresPath
	if !store.Exists(path) {
		return failed(fmt.Errorf("%w: boxscore corpus %s", ErrFatalPrecondition, path))
	}

	historical, err := store.ReadTable(path)
	if err != nil {
		return failed(err)
	}
	logger.Info("historical corpus loaded", logging.Int("rows", historical.Len()))

	results := make([]fetch.Result[store.Table], 0, len(st.opts.SeasonTypes))
	for _, seasonType := range st.opts.SeasonTypes {
		segment := fmt.Sprintf("%d %s", st.opts.Season, seasonType)
		st.progress(JobStats, "fetching %s", segment)
		res := fetch.Run(ctx, st.opts.Policy, logger, segment, func(ctx context.Context) (store.Table, error) {
			table, err := st.stats.FetchSeason(ctx, st.opts.Season, seasonType)
			if err == nil && table.Len() == 0 {
				err = fetch.ErrEmpty
			}
			return table, err
		})
		if res.Outcome == fetch.OutcomeSuccess {
			logger.Info("segment fetched", logging.String(logging.FieldSegment, segment), logging.Int("rows", res.Data.Len()))
		}
		results = append(results, res)
	}

	collected := fetch.Collect(results)
	skipped := len(collected.Failed)
	if len(collected.Data) == 0 {
		if len(collected.Failed) > 0 {
			return Summary{
				Status:  StatusFailed,
				Skipped: skipped,
				Err:     fmt.Errorf("%w: %s", ErrNoSegments, strings.Join(collected.Failed, ", ")),
			}
		}
		return Summary{Status: StatusUpToDate, Message: "no new stats from upstream"}
	}

	fresh := reconciliation.ConcatTables(collected.Data...)
	merged, err := reconciliation.Merge(historical, fresh)
	if err != nil {
		if errors.Is(err, reconciliation.ErrNoFreshData) {
			return Summary{Status: StatusUpToDate, Skipped: skipped, Message: "no new stats from upstream"}
		}
		return Summary{Status: StatusFailed, Skipped: skipped, Err: fmt.Errorf("merge: %w", err)}
	}

	if err := store.WriteTable(path, merged.Table); err != nil {
		return Summary{Status: StatusFailed, Skipped: skipped, Err: err}
	}
	logger.Info("boxscore corpus updated",
		logging.Int("historical_rows", merged.HistoricalRows),
		logging.Int("fresh_rows", merged.FreshRows),
		logging.Int("final_rows", merged.Table.Len()),
	)

	msg := fmt.Sprintf("merged %s", strings.Join(collected.Loaded, ", "))
	if skipped > 0 {
		msg += fmt.Sprintf("; omitted %s", strings.Join(collected.Failed, ", "))
	}
	return Summary{
		Status:  StatusSuccess,
		Added:   merged.Added,
		Updated: merged.Updated,
		Skipped: skipped,
		Message: msg,
	}
}
