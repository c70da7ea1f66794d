package dataset

import (
	"fmt"
	"time"

	"sheetchat/domain/core"
)

// Row maps a column name to the cell's displayed text; empty cells are ""
type Row map[string]string

// Dataset is the table parsed from an upload's first sheet. It is never
// mutated after construction; accessors hand out copies.
type Dataset struct {
	name        string
	sheet       string
	columns     []string
	rows        []Row
	fingerprint core.Hash
	loadedAt    time.Time
}

// New builds a Dataset from raw header cells and positional rows. Headers are
// normalised (blanks named "Unnamed: i", duplicates suffixed ".1", ".2"...),
// cell text is kept verbatim and cells past the header width are dropped.
func New(name, sheet string, header []string, records [][]string, fingerprint core.Hash) (*Dataset, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}

	columns := NormalizeHeaders(header)
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return &Dataset{
		name:        name,
		sheet:       sheet,
		columns:     columns,
		rows:        rows,
		fingerprint: fingerprint,
		loadedAt:    time.Now(),
	}, nil
}

// NormalizeHeaders applies the column naming rules used for uploaded sheets
func NormalizeHeaders(header []string) []string {
	columns := make([]string, len(header))
	used := make(map[string]bool, len(header))
	suffix := make(map[string]int)
	for i, raw := range header {
		name := raw
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for used[name] {
			suffix[base]++
			name = fmt.Sprintf("%s.%d", base, suffix[base])
		}
		used[name] = true
		columns[i] = name
	}
	return columns
}

func (d *Dataset) Name() string           { return d.name }
func (d *Dataset) Sheet() string          { return d.sheet }
func (d *Dataset) Fingerprint() core.Hash { return d.fingerprint }
func (d *Dataset) LoadedAt() time.Time    { return d.loadedAt }

// ColumnNames returns the ordered column names
func (d *Dataset) ColumnNames() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int {
	return len(d.columns)
}

// RowCount returns the number of data rows (the header is not counted)
func (d *Dataset) RowCount() int {
	return len(d.rows)
}

// Head returns copies of the first min(n, RowCount()) rows
func (d *Dataset) Head(n int) []Row {
	if n > len(d.rows) {
		n = len(d.rows)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Row, n)
	for i := 0; i < n; i++ {
		out[i] = copyRow(d.rows[i])
	}
	return out
}

// Values returns the column in row order
func (d *Dataset) Values(column string) []string {
	out := make([]string, len(d.rows))
	for i, row := range d.rows {
		out[i] = row[column]
	}
	return out
}

// Record returns row i as positional cells in column order
func (d *Dataset) Record(i int) []string {
	record := make([]string, len(d.columns))
	for j, col := range d.columns {
		record[j] = d.rows[i][col]
	}
	return record
}

func copyRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
