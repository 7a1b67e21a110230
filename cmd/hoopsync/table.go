package main

import (
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/fortuna/hoopsync/internal/pipeline"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func renderSummaries(summaries []pipeline.Summary) string {
	headers := []string{"Job", "Status", "Added", "Updated", "Resolved", "Skipped", "Took", "Detail"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		detail := s.Message
		if s.Err != nil {
			detail = s.Err.Error()
		}
		rows = append(rows, []string{
			string(s.Job),
			string(s.Status),
			strconv.Itoa(s.Added),
			strconv.Itoa(s.Updated),
			strconv.Itoa(s.Resolved),
			strconv.Itoa(s.Skipped),
			s.Duration.Round(time.Millisecond).String(),
			detail,
		})
	}
	return renderTable(headers, rows, aligns)
}
