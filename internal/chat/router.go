package chat

import (
	"strconv"
	"strings"

	"sheetchat/domain/dataset"
)

// Route is the answer path chosen for a question
type Route int

const (
	RouteColumns Route = iota
	RouteRows
	RouteCompletion
)

func (r Route) String() string {
	switch r {
	case RouteColumns:
		return "columns"
	case RouteRows:
		return "rows"
	default:
		return "completion"
	}
}

// RouteQuestion picks the answer path by case-insensitive substring match.
// "columns" is checked before "rows".
func RouteQuestion(question string) Route {
	q := strings.ToLower(strings.TrimSpace(question))
	switch {
	case strings.Contains(q, "columns"):
		return RouteColumns
	case strings.Contains(q, "rows"):
		return RouteRows
	default:
		return RouteCompletion
	}
}

// ColumnsAnswer lists the column names
func ColumnsAnswer(ds *dataset.Dataset) string {
	return "Columns: " + strings.Join(ds.ColumnNames(), ", ")
}

// RowsAnswer reports the row count
func RowsAnswer(ds *dataset.Dataset) string {
	return "Number of rows: " + strconv.Itoa(ds.RowCount())
}

// CompletionPrompt is the user message sent for a free-form question
func CompletionPrompt(ds *dataset.Dataset, question string) string {
	return BuildContext(ds) + "\n\nQuestion: " + question + "\nAnswer as concisely as possible."
}
