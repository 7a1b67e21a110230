package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fortuna/hoopsync/internal/ingest/fetch"
	"github.com/fortuna/hoopsync/internal/ingest/injuries"
	"github.com/fortuna/hoopsync/internal/logging"
	"github.com/fortuna/hoopsync/internal/store"
)

func (st *run) runInjuries(ctx context.Context, logger *slog.Logger) Summary {
	st.progress(JobInjuries, "fetching injury report")
	res := fetch.Run(ctx, st.opts.Policy, logger, "injuries", func(ctx context.Context) ([]store.InjuryReport, error) {
		return injuries.Fetch(ctx, st.pages, st.opts.InjuryURL)
	})
	if res.Outcome == fetch.OutcomeFailure {
		logging.WarnWithContext(logger, "injury file left in place", "injuries_not_refreshed",
			logging.Error(res.Err),
			logging.String(logging.FieldImpact, "previous injury list is still served"),
		)
		return failed(fmt.Errorf("%w: injuries: %w", ErrNoSegments, res.Err))
	}

	reports := res.Data
	summary := Summary{Status: StatusSuccess}

	index, err := st.identityIndex(logger)
	switch {
	case err == nil:
		for i := range reports {
			match, ok := index.Resolve(reports[i].PlayerName, st.opts.InjuryThreshold)
			if !ok {
				summary.Skipped++
				continue
			}
			id := match.ID
			reports[i].PlayerID = &id
			summary.Resolved++
		}
	case errors.Is(err, ErrFatalPrecondition):
		logger.Info("injuries written without player ids", logging.String("reason", err.Error()))
	default:
		logging.WarnWithContext(logger, "identity index unavailable", "index_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "injuries written without player ids"),
		)
	}

	if err := store.WriteInjuries(st.opts.InjuriesPath, reports); err != nil {
		return failed(err)
	}
	summary.Added = len(reports)
	summary.Message = fmt.Sprintf("%d injury reports", len(reports))
	return summary
}
