package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fortuna/hoopsync/internal/ingest/fetch"
	"github.com/fortuna/hoopsync/internal/ingest/roster"
	"github.com/fortuna/hoopsync/internal/logging"
	"github.com/fortuna/hoopsync/internal/reconciliation"
	"github.com/fortuna/hoopsync/internal/store"
)

func (st *run) runProfiles(ctx context.Context, logger *slog.Logger) Summary {
	index, err := st.identityIndex(logger)
	if err != nil {
		return failed(err)
	}

	previous := st.loadPlayerCache(logger)

	st.progress(JobProfiles, "fetching current rosters")
	rosterRes := fetch.Run(ctx, st.opts.Policy, logger, "rosters", func(ctx context.Context) (roster.RosterPage, error) {
		return roster.FetchRosters(ctx, st.pages, st.opts.RosterURL)
	})
	st.progress(JobProfiles, "fetching all-time player list")
	allTimeRes := fetch.Run(ctx, st.opts.Policy, logger, "all-time", func(ctx context.Context) ([]roster.Entry, error) {
		return roster.FetchAllPlayers(ctx, st.pages, st.opts.AllPlayersURL)
	})

	for _, heading := range rosterRes.Data.UnknownTeams {
		logging.WarnWithContext(logger, "roster table skipped", "unknown_team",
			logging.String("heading", heading),
			logging.String(logging.FieldErrorHint, "add the franchise to the team name map"),
			logging.String(logging.FieldImpact, "players of this team are not marked as rostered"),
		)
	}

	rostered := rosterRes.Data.Entries
	allTime := allTimeRes.Data
	if len(rostered) == 0 && len(allTime) == 0 {
		if err := st.ensurePlayerCache(logger); err != nil {
			return failed(err)
		}
		if rosterRes.Outcome == fetch.OutcomeFailure && allTimeRes.Outcome == fetch.OutcomeFailure {
			return failed(fmt.Errorf("%w: rosters, all-time", ErrNoSegments))
		}
		return Summary{Status: StatusUpToDate, Message: "profile sources listed no players"}
	}

	var omitted []string
	if rosterRes.Outcome == fetch.OutcomeFailure {
		omitted = append(omitted, rosterRes.Segment)
		logging.WarnWithContext(logger, "profiles built without current rosters", "rosters_missing",
			logging.Error(rosterRes.Err),
			logging.String(logging.FieldImpact, "every resolved profile is recorded as "+store.FreeAgentTeam),
		)
	}
	if allTimeRes.Outcome == fetch.OutcomeFailure {
		omitted = append(omitted, allTimeRes.Segment)
	}

	profiles := store.PlayerCache{}
	// Skipped counts failed source segments plus unresolved names.
	summary := Summary{Status: StatusSuccess, Skipped: len(omitted)}

	// All-time first so roster profiles overwrite them.
	for _, entry := range allTime {
		if st.resolveProfile(index, entry, store.FreeAgentTeam, st.opts.AllTimeThreshold, profiles, logger) {
			summary.Resolved++
		} else {
			summary.Skipped++
		}
	}
	for _, entry := range rostered {
		if st.resolveProfile(index, entry, entry.Team, st.opts.RosterThreshold, profiles, logger) {
			summary.Resolved++
		} else {
			summary.Skipped++
		}
	}

	st.enrichPositions(ctx, profiles, previous, logger)

	for id, profile := range profiles {
		old, ok := previous[id]
		switch {
		case !ok:
			summary.Added++
		case old != profile:
			summary.Updated++
		}
	}

	if err := store.WritePlayerCache(st.opts.PlayerCachePath, profiles); err != nil {
		return failed(err)
	}
	summary.Message = fmt.Sprintf("%d profiles written", len(profiles))
	if len(omitted) > 0 {
		summary.Message += fmt.Sprintf("; omitted %s", strings.Join(omitted, ", "))
	}
	return summary
}

func (st *run) resolveProfile(index *reconciliation.IdentityIndex, entry roster.Entry, team string, threshold int, profiles store.PlayerCache, logger *slog.Logger) bool {
	match, ok := index.Resolve(entry.Name, threshold)
	if !ok {
		logger.Debug("player not resolved",
			logging.String("name", entry.Name),
			logging.Int("best_score", match.Score),
			logging.Int("threshold", threshold),
		)
		return false
	}

	name := entry.Name
	if player, found := index.Player(match.ID); found {
		name = player.Name
	}
	position := entry.Position
	if position == "" {
		position = store.UnknownPosition
	}
	profiles[strconv.FormatInt(match.ID, 10)] = store.PlayerProfile{
		ID:        match.ID,
		Name:      name,
		Team:      team,
		SourceURL: entry.URL,
		Position:  position,
	}
	return true
}

// enrichPositions fills unknown positions from the previous cache, then from
// each player's page. A failed lookup keeps the placeholder.
func (st *run) enrichPositions(ctx context.Context, profiles, previous store.PlayerCache, logger *slog.Logger) {
	var pending []string
	for id, p := range profiles {
		if p.Position != store.UnknownPosition {
			continue
		}
		if old, ok := previous[id]; ok && old.Position != "" && old.Position != store.UnknownPosition {
			p.Position = old.Position
			profiles[id] = p
			continue
		}
		if p.SourceURL != "" {
			pending = append(pending, id)
		}
	}
	if !st.opts.EnrichPositions || len(pending) == 0 {
		return
	}

	sortIDs(pending)
	for i, id := range pending {
		if ctx.Err() != nil {
			return
		}
		p := profiles[id]
		st.progress(JobProfiles, "enriching %s (%d/%d)", p.Name, i+1, len(pending))
		position, err := roster.FetchPosition(ctx, st.pages, p.SourceURL)
		if err != nil {
			logging.WarnWithContext(logger, "position lookup failed", "enrichment_failed",
				logging.String("player", p.Name),
				logging.String(logging.FieldURL, p.SourceURL),
				logging.Error(err),
				logging.String(logging.FieldImpact, "position recorded as "+store.UnknownPosition),
			)
			continue
		}
		p.Position = position
		profiles[id] = p
	}
}

// loadPlayerCache returns the previous cache, or an empty one when it is
// missing or unreadable.
func (st *run) loadPlayerCache(logger *slog.Logger) store.PlayerCache {
	cache, err := store.ReadPlayerCache(st.opts.PlayerCachePath)
	if err == nil {
		return cache
	}
	if !errors.Is(err, os.ErrNotExist) {
		logging.WarnWithContext(logger, "player cache unreadable", "cache_unreadable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "cached positions are not reused"),
		)
	}
	return store.PlayerCache{}
}

func (st *run) ensurePlayerCache(logger *slog.Logger) error {
	if store.Exists(st.opts.PlayerCachePath) {
		return nil
	}
	if err := store.WritePlayerCache(st.opts.PlayerCachePath, nil); err != nil {
		return err
	}
	logger.Info("created empty player info cache", logging.String("path", st.opts.PlayerCachePath))
	return nil
}

// sortIDs orders decimal id strings numerically.
func sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.ParseInt(ids[i], 10, 64)
		b, errB := strconv.ParseInt(ids[j], 10, 64)
		if errA != nil || errB != nil {
			return ids[i] < ids[j]
		}
		return a < b
	})
}
