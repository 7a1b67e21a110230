package reconciliation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fortuna/hoopsync/internal/store"
)

var (
	// ErrStructuralIntegrity marks input that cannot be merged safely.
	ErrStructuralIntegrity = errors.New("structural integrity violation")
	// ErrNoFreshData is returned when there is nothing to merge.
	ErrNoFreshData = errors.New("no fresh records to merge")
)

// StructuralError describes malformed merge input.
type StructuralError struct {
	// Source is "historical" or "fresh".
	Source  string
	Missing []string
	// Row is the 1-based data row with a blank key cell, or 0.
	Row int
}

func (e *StructuralError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s data missing key columns %s", e.Source, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s data row %d has a blank key", e.Source, e.Row)
}

func (e *StructuralError) Unwrap() error { return ErrStructuralIntegrity }

// MergeResult is the merged table plus counts for operators.
type MergeResult struct {
	Table          store.Table
	HistoricalRows int
	FreshRows      int
	// Added is len(Table) - HistoricalRows.
	Added int
	// Updated counts fresh keys that replaced a historical row.
	Updated int
}

// KeyColumns form the natural key of a boxscore row.
var KeyColumns = []string{store.ColumnPlayerID, store.ColumnGameID}

// Merge appends fresh to historical and keeps the last row per
// (PLAYER_ID, GAME_ID). Survivors keep their concatenation order, so a key
// present in both inputs takes the fresh row at the fresh position.
func Merge(historical, fresh store.Table) (MergeResult, error) {
	if fresh.Len() == 0 {
		return MergeResult{}, ErrNoFreshData
	}
	if err := checkTable("fresh", fresh); err != nil {
		return MergeResult{}, err
	}
	if len(historical.Columns) > 0 || historical.Len() > 0 {
		if err := checkTable("historical", historical); err != nil {
			return MergeResult{}, err
		}
	}

	combined := ConcatTables(historical, fresh)
	last := make(map[boxscoreKey]int, combined.Len())
	for i, rec := range combined.Records {
		last[keyOf(rec)] = i
	}

	historicalKeys := make(map[boxscoreKey]struct{}, historical.Len())
	for _, rec := range historical.Records {
		historicalKeys[keyOf(rec)] = struct{}{}
	}

	out := make([]store.Record, 0, len(last))
	updated := 0
	for i, rec := range combined.Records {
		k := keyOf(rec)
		if last[k] != i {
			continue
		}
		out = append(out, rec)
		if i >= historical.Len() {
			if _, ok := historicalKeys[k]; ok {
				updated++
			}
		}
	}

	return MergeResult{
		Table:          store.Table{Columns: combined.Columns, Records: out},
		HistoricalRows: historical.Len(),
		FreshRows:      fresh.Len(),
		Added:          len(out) - historical.Len(),
		Updated:        updated,
	}, nil
}

// ConcatTables stacks tables in order. Columns are the union in first-seen
// order; records are shared, not copied.
func ConcatTables(tables ...store.Table) store.Table {
	var out store.Table
	seen := make(map[string]struct{})
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out.Columns = append(out.Columns, c)
		}
		out.Records = append(out.Records, t.Records...)
	}
	return out
}

// ParsePlayerID parses an id cell such as "1628932", " 1628932" or "1628932.0".
func ParsePlayerID(cell string) (int64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || math.Abs(f) >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

// CanonicalKeyCell renders a key cell so equal keys compare equal regardless
// of padding or a trailing ".0".
func CanonicalKeyCell(cell string) string {
	if n, ok := ParsePlayerID(cell); ok {
		return strconv.FormatInt(n, 10)
	}
	return strings.TrimSpace(cell)
}

type boxscoreKey struct {
	player string
	game   string
}

func keyOf(rec store.Record) boxscoreKey {
	return boxscoreKey{
		player: CanonicalKeyCell(rec[store.ColumnPlayerID]),
		game:   CanonicalKeyCell(rec[store.ColumnGameID]),
	}
}

func checkTable(source string, t store.Table) error {
	var missing []string
	for _, col := range KeyColumns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &StructuralError{Source: source, Missing: missing}
	}
	for i, rec := range t.Records {
		for _, col := range KeyColumns {
			if strings.TrimSpace(rec[col]) == "" {
				return &StructuralError{Source: source, Row: i + 1}
			}
		}
	}
	return nil
}
