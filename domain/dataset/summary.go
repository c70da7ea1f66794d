package dataset

import "time"

// ColumnSummary is the per-column profile shown next to the preview
type ColumnSummary struct {
	Name        string
	Present     int
	Missing     int
	Unique      int
	Numeric     bool
	NumericRate float64 // share of present cells that parsed as numbers
	Mean        float64
	Median      float64
	Min         float64
	Max         float64
	StdDev      float64
}

// Preview is what the page shows for a loaded dataset
type Preview struct {
	Name        string
	Sheet       string
	Fingerprint string
	LoadedAt    time.Time
	Columns     []string
	Rows        [][]string
	TotalRows   int
	Truncated   bool
	Summaries   []ColumnSummary
}
