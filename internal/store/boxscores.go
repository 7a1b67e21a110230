package store

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const utf8BOM = "\ufeff"

// ReadTable loads a CSV file whose first row is the header. Short rows are
// padded with empty cells. A missing file is reported with an error wrapping
// os.ErrNotExist.
func ReadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	table, err := DecodeTable(bufio.NewReader(f))
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	return table, nil
}

// DecodeTable parses CSV from r.
func DecodeTable(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	columns := append([]string(nil), header...)

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, err
		}
		rec := make(Record, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}
	return Table{Columns: columns, Records: records}, nil
}

// EncodeTable writes the table as CSV with a header row.
func EncodeTable(w io.Writer, table Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(table.Columns))
	for _, rec := range table.Records {
		for i, col := range table.Columns {
			row[i] = rec[col]
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTable atomically replaces path with the CSV rendering of table.
func WriteTable(path string, table Table) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return EncodeTable(w, table)
	})
}
