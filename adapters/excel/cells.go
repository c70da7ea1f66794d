package excel

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// builtInDateFormats are the built-in number format IDs that display a date or time
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// cellFormatter converts raw cell values to text. Booleans and cells styled
// with a date or time format are rewritten; everything else keeps its stored value.
type cellFormatter struct {
	file     *excelize.File
	sheet    string
	date1904 bool
	isDate   map[int]bool
}

func newCellFormatter(f *excelize.File, sheet string) *cellFormatter {
	cf := &cellFormatter{file: f, sheet: sheet, isDate: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		cf.date1904 = *props.Date1904
	}
	return cf
}

// format returns the text for the cell at 0-based (row, col) holding raw
func (cf *cellFormatter) format(row, col int, raw string) string {
	if raw == "" {
		return raw
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return raw
	}
	if raw == "0" || raw == "1" {
		if kind, err := cf.file.GetCellType(cf.sheet, cell); err == nil && kind == excelize.CellTypeBool {
			if raw == "1" {
				return "True"
			}
			return "False"
		}
	}
	styleID, err := cf.file.GetCellStyle(cf.sheet, cell)
	if err != nil || styleID == 0 || !cf.dateStyle(styleID) {
		return raw
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	t, err := excelize.ExcelDateToTime(serial, cf.date1904)
	if err != nil {
		return raw
	}
	if serial >= 0 && serial < 1 {
		return t.Format("15:04:05")
	}
	return formatTimestamp(t)
}

func (cf *cellFormatter) dateStyle(styleID int) bool {
	if known, ok := cf.isDate[styleID]; ok {
		return known
	}
	date := false
	if style, err := cf.file.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			date = isDateFormatCode(*style.CustomNumFmt)
		} else {
			date = builtInDateFormats[style.NumFmt]
		}
	}
	cf.isDate[styleID] = date
	return date
}

// isDateFormatCode reports whether a custom format code renders a date or
// time. Quoted literals, bracketed sections and escaped characters are ignored.
func isDateFormatCode(code string) bool {
	section := strings.SplitN(code, ";", 2)[0]
	inQuote, inBracket, escaped := false, false, false
	for _, r := range section {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			if r == ']' {
				inBracket = false
			}
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		default:
			switch r {
			case 'y', 'Y', 'm', 'M', 'd', 'D', 'h', 'H', 's', 'S':
				return true
			}
		}
	}
	return false
}

// formatTimestamp renders midnight values as dates and everything else with the clock time
func formatTimestamp(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

// dropBlankRows removes rows whose cells are all empty
func dropBlankRows(rows [][]string) [][]string {
	kept := rows[:0]
	for _, row := range rows {
		for _, cell := range row {
			if cell != "" {
				kept = append(kept, row)
				break
			}
		}
	}
	return kept
}
