package chat

import (
	"bytes"
	"encoding/csv"
	"strings"

	"sheetchat/domain/dataset"
)

// SampleRows is how many leading rows go into the completion context
const SampleRows = 5

// BuildContext renders the column names and the first SampleRows rows as CSV.
// The result is not size-limited.
func BuildContext(ds *dataset.Dataset) string {
	var b strings.Builder
	b.WriteString("Column names: ")
	b.WriteString(strings.Join(ds.ColumnNames(), ", "))
	b.WriteString("\n\n")
	b.WriteString("Sample of first 5 rows (CSV):\n")
	b.WriteString(sampleCSV(ds, SampleRows))
	b.WriteString("\n\n")
	b.WriteString("If needed, say you cannot answer precisely and suggest how to filter or examine the data.")
	return b.String()
}

// sampleCSV writes a header line and the first n rows, each terminated by "\n"
func sampleCSV(ds *dataset.Dataset, n int) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(ds.ColumnNames())
	if n > ds.RowCount() {
		n = ds.RowCount()
	}
	for i := 0; i < n; i++ {
		_ = w.Write(ds.Record(i))
	}
	w.Flush()
	return buf.String()
}
