package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortuna/hoopsync/internal/config"
	"github.com/fortuna/hoopsync/internal/ingest/fetch"
	"github.com/fortuna/hoopsync/internal/ingest/statsapi"
	"github.com/fortuna/hoopsync/internal/logging"
	"github.com/fortuna/hoopsync/internal/pipeline"
	"github.com/fortuna/hoopsync/internal/publisher"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var injuriesOnly bool

	cmd := &cobra.Command{
		Use:   "run [stats|profiles|injuries ...]",
		Short: "Refresh the local store from upstream sources",
		Long: `Run the selected sync jobs in order. With no arguments all three run:
stats, then profiles, then injuries. A failed job does not stop the ones after
it, but the command exits non-zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := selectJobs(args, injuriesOnly)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.loggerValue()
			logger.Debug("configuration loaded", logging.String("path", ctx.configPath))

			deps := buildRunDeps(cmd.Context(), cfg, logger)
			defer deps.close()

			runner := pipeline.NewRunner(runOptions(cfg, time.Now()), deps.stats, deps.pages, logger, deps.options...)
			summaries, runErr := runner.Run(cmd.Context(), jobs, newConsoleReporter(cmd.ErrOrStderr()))

			if len(summaries) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderSummaries(summaries))
			}
			if runErr != nil {
				return fmt.Errorf("sync run failed: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&injuriesOnly, "injuries-only", false, "Only refresh the injury list")
	return cmd
}

func selectJobs(args []string, injuriesOnly bool) ([]pipeline.JobType, error) {
	if injuriesOnly {
		if len(args) > 0 {
			return nil, fmt.Errorf("--injuries-only cannot be combined with job arguments")
		}
		return []pipeline.JobType{pipeline.JobInjuries}, nil
	}
	if len(args) == 0 {
		return pipeline.AllJobs, nil
	}
	jobs := make([]pipeline.JobType, 0, len(args))
	seen := make(map[pipeline.JobType]struct{}, len(args))
	for _, arg := range args {
		job, err := pipeline.ParseJobType(arg)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[job]; dup {
			continue
		}
		seen[job] = struct{}{}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func runOptions(cfg *config.Config, now time.Time) pipeline.Options {
	return pipeline.Options{
		BoxscoresPath:   cfg.BoxscoresPath(),
		PlayerCachePath: cfg.PlayerCachePath(),
		InjuriesPath:    cfg.InjuriesPath(),
		LockPath:        cfg.LockPath(),
		Season:          cfg.SeasonYear(now),
		SeasonTypes:     cfg.Sources.SeasonTypes,
		RosterURL:       cfg.Sources.RosterURL,
		AllPlayersURL:   cfg.Sources.AllPlayersURL,
		InjuryURL:       cfg.Sources.InjuryURL,
		Policy: fetch.Policy{
			MaxRetries:    cfg.Fetch.MaxRetries,
			BackoffFactor: cfg.Backoff(),
		},
		RosterThreshold:  cfg.Resolver.RosterThreshold,
		AllTimeThreshold: cfg.Resolver.AllTimeThreshold,
		InjuryThreshold:  cfg.Resolver.InjuryThreshold,
		EnrichPositions:  cfg.Profiles.EnrichPositions,
	}
}

type runDeps struct {
	stats   pipeline.StatsSource
	pages   fetch.PageSource
	options []pipeline.Option
	closers []func()
}

func (d *runDeps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// buildRunDeps wires the HTTP client, the page renderer and the optional
// refresh publisher from configuration.
func buildRunDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) *runDeps {
	clientOpts := fetch.ClientOptions{
		Timeout:         cfg.Timeout(),
		PolitenessDelay: cfg.PolitenessDelay(),
		UserAgent:       cfg.Sources.UserAgent,
	}
	client := fetch.NewClient(clientOpts, logger)

	deps := &runDeps{
		stats: statsapi.NewClient(client, statsapi.Options{
			BaseURL:  cfg.Sources.StatsURL,
			LeagueID: cfg.Sources.LeagueID,
			Origin:   cfg.Sources.StatsOrigin,
			Referer:  cfg.Sources.StatsReferer,
		}),
		pages: client,
	}

	if cfg.Sources.Renderer == config.RendererBrowser {
		browser := fetch.NewBrowserSource(clientOpts, logger)
		deps.pages = browser
		deps.closers = append(deps.closers, browser.Close)
	}

	if cfg.Publisher.RedisURL != "" {
		pub, err := publisher.NewRedisPublisher(ctx, cfg.Publisher.RedisURL, cfg.Publisher.Stream)
		if err != nil {
			logging.WarnWithContext(logger, "refresh publisher disabled", "publisher_unavailable",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check publisher.redis_url"),
				logging.String(logging.FieldImpact, "this run will not be announced"),
			)
		} else {
			deps.options = append(deps.options, pipeline.WithNotifier(pub))
			deps.closers = append(deps.closers, func() {
				if err := pub.Close(); err != nil {
					logger.Debug("close publisher", logging.Error(err))
				}
			})
		}
	}

	return deps
}
