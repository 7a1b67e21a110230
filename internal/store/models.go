package store

// Natural-key columns of the boxscore corpus.
const (
	ColumnPlayerID   = "PLAYER_ID"
	ColumnPlayerName = "PLAYER_NAME"
	ColumnGameID     = "GAME_ID"
	ColumnYear       = "YEAR"
	ColumnSeasonType = "SEASON_TYPE"
)

// FreeAgentTeam marks a profile that came from the all-time list rather than
// a current roster.
const FreeAgentTeam = "FA"

// UnknownPosition is recorded when position enrichment fails.
const UnknownPosition = "N/A"

// Record is one row of a table keyed by column name. Cells are kept as raw
// text and passed through untouched.
type Record map[string]string

// Table is an ordered set of records sharing a column layout.
type Table struct {
	Columns []string
	Records []Record
}

// Len returns the number of records.
func (t Table) Len() int { return len(t.Records) }

// HasColumn reports whether name is part of the column layout.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// InjuryReport is a single entry of the current injury list.
type InjuryReport struct {
	PlayerName string `json:"player_name"`
	Status     string `json:"status"`
	Date       string `json:"date"`
	Details    string `json:"details"`
	PlayerID   *int64 `json:"player_id,omitempty"`
}

// PlayerProfile describes a resolved player as stored in the player cache.
type PlayerProfile struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Team      string `json:"team"`
	SourceURL string `json:"url"`
	Position  string `json:"position"`
}

// PlayerCache maps a player id (decimal string) to its profile.
type PlayerCache map[string]PlayerProfile
