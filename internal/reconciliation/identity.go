package reconciliation

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/fortuna/hoopsync/internal/logging"
	"github.com/fortuna/hoopsync/internal/store"
)

// NameObservation is one (id, spelling) pair seen in an authoritative source.
type NameObservation struct {
	ID   int64
	Name string
}

// CanonicalPlayer is a player identity. Name is the first observed spelling;
// Aliases holds every further distinct spelling mapped to the same id.
type CanonicalPlayer struct {
	ID      int64
	Name    string
	Aliases []string
}

// Match describes how a name was resolved.
type Match struct {
	ID    int64
	Key   string
	Score int
	Exact bool
}

// IdentityIndex maps normalized names to canonical player ids. It is built
// once per run and is read-only afterwards.
type IdentityIndex struct {
	ids        map[string]int64
	keys       []string
	players    map[int64]*CanonicalPlayer
	order      []int64
	collisions int
}

// BuildIdentityIndex indexes observations in order. When two ids normalize to
// the same key the first one inserted keeps it; later ids are logged, counted
// and discarded.
func BuildIdentityIndex(observations []NameObservation, logger *slog.Logger) *IdentityIndex {
	if logger == nil {
		logger = logging.NewNop()
	}
	idx := &IdentityIndex{
		ids:     make(map[string]int64),
		players: make(map[int64]*CanonicalPlayer),
	}
	reported := make(map[string]map[int64]struct{})

	for _, obs := range observations {
		raw := strings.TrimSpace(obs.Name)
		key := Normalize(raw)
		if key == "" {
			continue
		}

		player, known := idx.players[obs.ID]
		if !known {
			player = &CanonicalPlayer{ID: obs.ID, Name: raw}
			idx.players[obs.ID] = player
			idx.order = append(idx.order, obs.ID)
		}

		owner, taken := idx.ids[key]
		switch {
		case !taken:
			idx.ids[key] = obs.ID
		case owner != obs.ID:
			if reported[key] == nil {
				reported[key] = make(map[int64]struct{})
			}
			if _, seen := reported[key][obs.ID]; !seen {
				reported[key][obs.ID] = struct{}{}
				idx.collisions++
				logging.WarnWithContext(logger, "name collision discarded", "identity_collision",
					logging.String("key", key),
					logging.Int64("kept_id", owner),
					logging.Int64("discarded_id", obs.ID),
					logging.String(logging.FieldErrorHint, "two players share a normalized name; the first seen keeps it"),
					logging.String(logging.FieldImpact, "the later id cannot be resolved by this spelling"),
				)
			}
			continue
		}

		if known && raw != player.Name && !contains(player.Aliases, raw) {
			player.Aliases = append(player.Aliases, raw)
		}
	}

	idx.keys = make([]string, 0, len(idx.ids))
	for key := range idx.ids {
		idx.keys = append(idx.keys, key)
	}
	sort.Strings(idx.keys)

	logger.Debug("identity index built",
		logging.Int("keys", len(idx.keys)),
		logging.Int("players", len(idx.order)),
		logging.Int("collisions", idx.collisions),
	)
	return idx
}

// ObservationsFromTable extracts (PLAYER_ID, PLAYER_NAME) pairs in row order.
// Rows with an unparsable id or a blank name are skipped.
func ObservationsFromTable(table store.Table) ([]NameObservation, error) {
	for _, col := range []string{store.ColumnPlayerID, store.ColumnPlayerName} {
		if !table.HasColumn(col) {
			return nil, fmt.Errorf("build identity index: missing column %s", col)
		}
	}
	out := make([]NameObservation, 0, table.Len())
	for _, rec := range table.Records {
		id, ok := ParsePlayerID(rec[store.ColumnPlayerID])
		if !ok {
			continue
		}
		name := strings.TrimSpace(rec[store.ColumnPlayerName])
		if name == "" {
			continue
		}
		out = append(out, NameObservation{ID: id, Name: name})
	}
	return out, nil
}

// Resolve maps raw to a player id. An exact normalized match is returned
// regardless of threshold. Otherwise the highest TokenSetRatio over all keys
// wins, ties going to the lexicographically smallest key, and the match is
// accepted only when its score is at least threshold.
func (idx *IdentityIndex) Resolve(raw string, threshold int) (Match, bool) {
	query := Normalize(raw)
	if query == "" || idx == nil {
		return Match{}, false
	}
	if id, ok := idx.ids[query]; ok {
		return Match{ID: id, Key: query, Score: 100, Exact: true}, true
	}

	best := Match{Score: -1}
	for _, key := range idx.keys {
		score := TokenSetRatio(query, key)
		if score > best.Score {
			best = Match{ID: idx.ids[key], Key: key, Score: score}
		}
	}
	if best.Key == "" || best.Score < threshold {
		return best, false
	}
	return best, true
}

// Player returns the canonical player for id.
func (idx *IdentityIndex) Player(id int64) (CanonicalPlayer, bool) {
	p, ok := idx.players[id]
	if !ok {
		return CanonicalPlayer{}, false
	}
	return *p, true
}

// Players returns every canonical player in first-seen order.
func (idx *IdentityIndex) Players() []CanonicalPlayer {
	out := make([]CanonicalPlayer, 0, len(idx.order))
	for _, id := range idx.order {
		out = append(out, *idx.players[id])
	}
	return out
}

// Len is the number of normalized keys.
func (idx *IdentityIndex) Len() int { return len(idx.keys) }

// Collisions is the number of distinct (key, id) pairs discarded at build time.
func (idx *IdentityIndex) Collisions() int { return idx.collisions }

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
