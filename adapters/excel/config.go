package excel

// ReaderConfig holds upload limits for the data reader
type ReaderConfig struct {
	MaxFileSize       int64    `json:"max_file_size"`
	AllowedExtensions []string `json:"allowed_extensions"`
}

// DefaultReaderConfig returns the limits used by the web upload
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		MaxFileSize:       50 * 1024 * 1024,
		AllowedExtensions: []string{".xlsx", ".xls", ".csv"},
	}
}
