package excel

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sheetchat/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows into the first sheet (named first) and adds any extra sheets after it
func buildWorkbook(t *testing.T, first string, rows [][]interface{}, extraSheets ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", first))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(first, cell, &r))
	}
	for _, name := range extraSheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(name, "A1", "ignored"))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadUploadFirstSheet(t *testing.T) {
	data := buildWorkbook(t, "People", [][]interface{}{
		{"name", "age"},
		{"Ada", 36},
		{"Grace", 45},
		{"Linus", 28},
	}, "Other")

	reader := NewDataReader(DefaultReaderConfig())
	ds, err := reader.ReadUpload(context.Background(), "people.xlsx", bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	assert.Equal(t, "People", ds.Sheet())
	assert.Equal(t, []string{"name", "age"}, ds.ColumnNames())
	assert.Equal(t, 3, ds.RowCount())
	assert.Equal(t, "45", ds.Head(5)[1]["age"])
	assert.NotEmpty(t, ds.Fingerprint())
}

func TestReadUploadHeaderOnly(t *testing.T) {
	data := buildWorkbook(t, "Sheet1", [][]interface{}{{"a", "b"}})

	ds, err := NewDataReader(DefaultReaderConfig()).ReadUpload(context.Background(), "empty.xlsx", bytes.NewReader(data), -1)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.RowCount())
	assert.Equal(t, []string{"a", "b"}, ds.ColumnNames())
}

func TestReadUploadEmptySheetFails(t *testing.T) {
	data := buildWorkbook(t, "Sheet1", nil)

	_, err := NewDataReader(DefaultReaderConfig()).ReadUpload(context.Background(), "blank.xlsx", bytes.NewReader(data), -1)
	require.Error(t, err)
	assert.Equal(t, errors.CodeParseFailed, errors.GetCode(err))
}

func TestReadUploadCorruptWorkbook(t *testing.T) {
	junk := []byte("this is not a zip archive")

	for _, name := range []string{"broken.xlsx", "legacy.xls"} {
		_, err := NewDataReader(DefaultReaderConfig()).ReadUpload(context.Background(), name, bytes.NewReader(junk), int64(len(junk)))
		require.Error(t, err, name)
		assert.Equal(t, errors.CodeParseFailed, errors.GetCode(err), name)
	}
}

func TestReadUploadRejectsExtension(t *testing.T) {
	_, err := NewDataReader(DefaultReaderConfig()).ReadUpload(context.Background(), "notes.txt", strings.NewReader("x"), 1)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestReadUploadRejectsOversize(t *testing.T) {
	reader := NewDataReader(ReaderConfig{MaxFileSize: 8})

	_, err := reader.ReadUpload(context.Background(), "big.csv", strings.NewReader("a,b\n1,2\n3,4\n"), 12)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	// unknown size is still capped while reading
	_, err = reader.ReadUpload(context.Background(), "big.csv", strings.NewReader("a,b\n1,2\n3,4\n"), -1)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestReadUploadCSV(t *testing.T) {
	ds, err := NewDataReader(DefaultReaderConfig()).ReadUpload(context.Background(), "scores.csv",
		strings.NewReader("team,score\nred,3\nblue\n"), -1)
	require.NoError(t, err)

	assert.Equal(t, "scores", ds.Sheet())
	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, "", ds.Head(2)[1]["score"])
}

func TestReadFile(t *testing.T) {
	data := buildWorkbook(t, "Sheet1", [][]interface{}{{"x"}, {1}, {2}})
	path := filepath.Join(t.TempDir(), "numbers.xlsx")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	ds, err := NewDataReader(DefaultReaderConfig()).ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "numbers.xlsx", ds.Name())
	assert.Equal(t, 2, ds.RowCount())

	_, err = NewDataReader(DefaultReaderConfig()).ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Equal(t, errors.CodeParseFailed, errors.GetCode(err))
}

func TestReadUploadSkipsBlankRowsAndKeepsRawValues(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{" name ", "amount"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"  Ada ", 1234.5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{"Bob"}))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "B2", "B2", style))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := NewDataReader(DefaultReaderConfig()).ReadUpload(context.Background(), "ledger.xlsx",
		bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	assert.Equal(t, []string{" name ", "amount"}, ds.ColumnNames())
	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, []string{"  Ada ", "1234.5"}, ds.Record(0))
	assert.Equal(t, []string{"Bob", ""}, ds.Record(1))
}

func TestReadUploadSkipsLeadingBlankRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"city"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{"Oslo"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := NewDataReader(DefaultReaderConfig()).ReadUpload(context.Background(), "cities.xlsx",
		bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	assert.Equal(t, []string{"city"}, ds.ColumnNames())
	assert.Equal(t, []string{"Oslo"}, ds.Values("city"))
}

func TestReadUploadFormatsDateCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"day", "stamp", "custom", "total"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{45292, 45292.5, 45293, 12.25}))
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	stampStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	require.NoError(t, err)
	isoFormat := "yyyy-mm-dd"
	customStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &isoFormat})
	require.NoError(t, err)
	moneyFormat := `"$"#,##0.00`
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A2", "A2", dateStyle))
	require.NoError(t, f.SetCellStyle("Sheet1", "B2", "B2", stampStyle))
	require.NoError(t, f.SetCellStyle("Sheet1", "C2", "C2", customStyle))
	require.NoError(t, f.SetCellStyle("Sheet1", "D2", "D2", moneyStyle))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := NewDataReader(DefaultReaderConfig()).ReadUpload(context.Background(), "dates.xlsx",
		bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-01", "2024-01-01 12:00:00", "2024-01-02", "12.25"}, ds.Record(0))
}

func TestReadUploadBooleanCells(t *testing.T) {
	data := buildWorkbook(t, "Sheet1", [][]interface{}{{"active", "count"}, {true, 1}, {false, 0}})

	ds, err := NewDataReader(DefaultReaderConfig()).ReadUpload(context.Background(), "flags.xlsx",
		bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	assert.Equal(t, []string{"True", "1"}, ds.Record(0))
	assert.Equal(t, []string{"False", "0"}, ds.Record(1))
}

func TestIsDateFormatCode(t *testing.T) {
	cases := map[string]bool{
		"yyyy-mm-dd":        true,
		"h:mm AM/PM":        true,
		"[$-409]d-mmm-yy":   true,
		`"$"#,##0.00`:       false,
		`0.00 "days"`:       false,
		`#,##0;[Red]-#,##0`: false,
		`0\d`:               false,
		"0.00E+00":          false,
	}
	for code, want := range cases {
		assert.Equal(t, want, isDateFormatCode(code), code)
	}
}
