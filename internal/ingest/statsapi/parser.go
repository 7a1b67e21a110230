package statsapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/fortuna/hoopsync/internal/ingest/fetch"
	"github.com/fortuna/hoopsync/internal/store"
)

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

type response struct {
	ResultSets []resultSet `json:"resultSets"`
}

// ParseResultSet converts the first result set of a stats payload into a
// table. Numbers keep their JSON text and null becomes an empty cell. A
// payload without rows yields fetch.ErrEmpty.
func ParseResultSet(body []byte) (store.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var resp response
	if err := dec.Decode(&resp); err != nil {
		return store.Table{}, fmt.Errorf("decode stats payload: %w", err)
	}
	if len(resp.ResultSets) == 0 || len(resp.ResultSets[0].RowSet) == 0 {
		return store.Table{}, fetch.ErrEmpty
	}

	set := resp.ResultSets[0]
	if len(set.Headers) == 0 {
		return store.Table{}, errors.New("stats payload has rows but no headers")
	}

	table := store.Table{
		Columns: append([]string(nil), set.Headers...),
		Records: make([]store.Record, 0, len(set.RowSet)),
	}
	for i, row := range set.RowSet {
		if len(row) != len(set.Headers) {
			return store.Table{}, fmt.Errorf("stats row %d has %d cells, want %d", i+1, len(row), len(set.Headers))
		}
		rec := make(store.Record, len(row))
		for j, cell := range row {
			rec[set.Headers[j]] = cellText(cell)
		}
		table.Records = append(table.Records, rec)
	}
	return table, nil
}

func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	}
}
