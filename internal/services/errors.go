package services

import "errors"

// Calculation service errors
var (
	// ErrInputTooLarge is returned when the input exceeds the configured line or byte limit
	ErrInputTooLarge = errors.New("input too large")

	// ErrExportFailed wraps failures of the CSV and XLSX writers
	ErrExportFailed = errors.New("export failed")
)
