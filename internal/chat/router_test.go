package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteQuestion(t *testing.T) {
	tests := []struct {
		question string
		expected Route
	}{
		{"what columns are there", RouteColumns},
		{"  WHAT COLUMNS?  ", RouteColumns},
		{"how many rows", RouteRows},
		{"Rows please", RouteRows},
		{"list columns and rows", RouteColumns},
		{"how many rows and columns", RouteColumns},
		{"who is oldest", RouteCompletion},
		{"column names?", RouteCompletion},
		{"row count", RouteCompletion},
		{"arrows", RouteRows},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RouteQuestion(tt.question), tt.question)
	}
}

func TestDeterministicAnswers(t *testing.T) {
	ds := peopleDataset(t)
	assert.Equal(t, "Columns: name, age", ColumnsAnswer(ds))
	assert.Equal(t, "Number of rows: 3", RowsAnswer(ds))

	big := numberedDataset(t, 1234, "big")
	assert.Equal(t, "Columns: label, value", ColumnsAnswer(big))
	assert.Equal(t, "Number of rows: 1234", RowsAnswer(big))
}

func TestCompletionPrompt(t *testing.T) {
	ds := peopleDataset(t)
	prompt := CompletionPrompt(ds, "who is oldest")

	assert.Equal(t, BuildContext(ds)+"\n\nQuestion: who is oldest\nAnswer as concisely as possible.", prompt)
}

func TestRouteString(t *testing.T) {
	assert.Equal(t, "columns", RouteColumns.String())
	assert.Equal(t, "rows", RouteRows.String())
	assert.Equal(t, "completion", RouteCompletion.String())
}
