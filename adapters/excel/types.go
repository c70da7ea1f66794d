package excel

// fileKind is the parser chosen from the upload's extension
type fileKind string

const (
	kindWorkbook fileKind = "xlsx"
	kindCSV      fileKind = "csv"
)
