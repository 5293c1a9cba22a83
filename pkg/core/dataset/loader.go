package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a raw tabular upload before schema mapping: a header row plus
// string cells. Both the CSV and XLSX loaders produce this shape.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ReadTable dispatches on the file extension. CSV is the default for
// anything that is not a spreadsheet.
func ReadTable(r io.Reader, filename string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	default:
		return ReadCSV(r)
	}
}

// ReadCSV parses a CSV upload. A header row is required; an empty file or
// a file with only a header is a structural error.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unreadable CSV file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty upload: file contains no header row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	t := &Table{Headers: headers, Rows: rows[1:]}
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("empty upload: file contains a header but no data rows")
	}
	return t, nil
}

// ReadXLSX parses the first sheet of a spreadsheet upload into the same
// shape the CSV loader produces.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("unreadable spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("empty upload: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("unreadable spreadsheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty upload: sheet %q contains no header row", sheets[0])
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	t := &Table{Headers: headers, Rows: rows[1:]}
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("empty upload: sheet %q contains a header but no data rows", sheets[0])
	}
	return t, nil
}

// Column returns the cell values of a named source column, or nil if the
// header is not present. Lookup is case-sensitive.
func (t *Table) Column(name string) []string {
	idx := -1
	for i, h := range t.Headers {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = strings.TrimSpace(row[idx])
		}
	}
	return out
}

// HasHeader reports whether the source table carries the named column.
func (t *Table) HasHeader(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}
