package statsapi

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fortuna/hoopsync/internal/store"
)

// Getter performs a GET and returns the response body.
type Getter interface {
	Get(ctx context.Context, url string, query map[string]string, headers map[string]string) ([]byte, error)
}

// Options configures Client.
type Options struct {
	BaseURL  string
	LeagueID string
	Origin   string
	Referer  string
}

// Client fetches per-game player logs from the league stats feed.
type Client struct {
	getter  Getter
	opts    Options
	headers map[string]string
}

// NewClient creates a stats feed client on top of getter.
func NewClient(getter Getter, opts Options) *Client {
	headers := map[string]string{"Accept": "application/json, text/plain, */*"}
	if opts.Origin != "" {
		headers["Origin"] = opts.Origin
	}
	if opts.Referer != "" {
		headers["Referer"] = opts.Referer
	}
	return &Client{getter: getter, opts: opts, headers: headers}
}

// FetchSeason returns the game logs of one season segment, tagged with YEAR
// and SEASON_TYPE. It returns an error wrapping fetch.ErrEmpty when the feed
// has no rows for the segment.
func (c *Client) FetchSeason(ctx context.Context, season int, seasonType string) (store.Table, error) {
	query := map[string]string{
		"LeagueID":    c.opts.LeagueID,
		"Season":      strconv.Itoa(season),
		"SeasonType":  seasonType,
		"MeasureType": "Base",
		"PerMode":     "PerGame",
	}
	body, err := c.getter.Get(ctx, c.opts.BaseURL, query, c.headers)
	if err != nil {
		return store.Table{}, err
	}
	table, err := ParseResultSet(body)
	if err != nil {
		return store.Table{}, fmt.Errorf("%d %s: %w", season, seasonType, err)
	}
	tagSegment(&table, season, seasonType)
	return table, nil
}

func tagSegment(table *store.Table, season int, seasonType string) {
	for _, col := range []string{store.ColumnYear, store.ColumnSeasonType} {
		if !table.HasColumn(col) {
			table.Columns = append(table.Columns, col)
		}
	}
	year := strconv.Itoa(season)
	for _, rec := range table.Records {
		rec[store.ColumnYear] = year
		rec[store.ColumnSeasonType] = seasonType
	}
}
