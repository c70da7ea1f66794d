package profiling

import (
	"strconv"
	"strings"

	"sheetchat/domain/dataset"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Profiler builds the preview and column summaries for a loaded dataset
type Profiler struct {
	previewRows int
}

// NewProfiler creates a profiler that previews at most previewRows rows
func NewProfiler(previewRows int) *Profiler {
	if previewRows <= 0 {
		previewRows = 50
	}
	return &Profiler{previewRows: previewRows}
}

// Preview renders the first rows and a summary per column
func (p *Profiler) Preview(ds *dataset.Dataset) dataset.Preview {
	n := p.previewRows
	if n > ds.RowCount() {
		n = ds.RowCount()
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = ds.Record(i)
	}

	return dataset.Preview{
		Name:        ds.Name(),
		Sheet:       ds.Sheet(),
		Fingerprint: ds.Fingerprint().Short(),
		LoadedAt:    ds.LoadedAt(),
		Columns:     ds.ColumnNames(),
		Rows:        rows,
		TotalRows:   ds.RowCount(),
		Truncated:   ds.RowCount() > n,
		Summaries:   p.Summaries(ds),
	}
}

// Summaries profiles every column in order
func (p *Profiler) Summaries(ds *dataset.Dataset) []dataset.ColumnSummary {
	columns := ds.ColumnNames()
	out := make([]dataset.ColumnSummary, 0, len(columns))
	for _, col := range columns {
		out = append(out, SummarizeColumn(col, ds.Values(col)))
	}
	return out
}

// SummarizeColumn counts present/missing/unique cells. A column whose present
// cells all parse as numbers also gets mean, median, min, max and the sample
// standard deviation.
func SummarizeColumn(name string, values []string) dataset.ColumnSummary {
	summary := dataset.ColumnSummary{Name: name}
	unique := make(map[string]struct{}, len(values))
	numbers := make([]float64, 0, len(values))

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			summary.Missing++
			continue
		}
		summary.Present++
		unique[v] = struct{}{}
		if f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64); err == nil {
			numbers = append(numbers, f)
		}
	}
	summary.Unique = len(unique)

	if summary.Present == 0 {
		return summary
	}
	summary.NumericRate = float64(len(numbers)) / float64(summary.Present)
	if len(numbers) != summary.Present {
		return summary
	}

	data := stats.Float64Data(numbers)
	mean, err := data.Mean()
	if err != nil {
		return summary
	}
	median, _ := data.Median()
	min, _ := data.Min()
	max, _ := data.Max()

	summary.Numeric = true
	summary.Mean = mean
	summary.Median = median
	summary.Min = min
	summary.Max = max
	if len(numbers) > 1 {
		summary.StdDev = stat.StdDev(numbers, nil)
	}
	return summary
}
