package chat

import (
	"fmt"
	"testing"

	"sheetchat/domain/core"
	"sheetchat/domain/dataset"

	"github.com/stretchr/testify/require"
)

func peopleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("people.xlsx", "Sheet1", []string{"name", "age"}, [][]string{
		{"Ada", "36"},
		{"Grace", "45"},
		{"Linus", "28"},
	}, core.NewHash([]byte("people")))
	require.NoError(t, err)
	return ds
}

func numberedDataset(t *testing.T, rows int, fingerprint string) *dataset.Dataset {
	t.Helper()
	records := make([][]string, rows)
	for i := range records {
		records[i] = []string{fmt.Sprintf("item %d", i), fmt.Sprint(i * 10)}
	}
	ds, err := dataset.New("items.xlsx", "Sheet1", []string{"label", "value"}, records, core.NewHash([]byte(fingerprint)))
	require.NoError(t, err)
	return ds
}
