// Package validation checks the files the command-line tools read and write.
package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrFileTooLarge is returned when an input file exceeds the size limit
var ErrFileTooLarge = errors.New("file too large")

// inputExtensions are the accepted input file types; an empty extension is allowed
var inputExtensions = map[string]bool{
	"":     true,
	".txt": true,
	".csv": true,
	".dat": true,
}

// FileValidator provides common file validation functions for all executables
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateInputFile checks that path is a readable regular text file of at
// most maxBytes bytes. A maxBytes of zero disables the size check.
func (v *FileValidator) ValidateInputFile(path string, maxBytes int64) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist", slog.String("path", path))
		return fmt.Errorf("input file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !inputExtensions[ext] {
		v.logger.Warn("Unsupported input file type",
			slog.String("path", path),
			slog.String("extension", ext))
		return fmt.Errorf("unsupported input file type %q: expected .txt or .csv", ext)
	}

	if maxBytes > 0 && info.Size() > maxBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, path, info.Size(), maxBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("path", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// check write access
	tmp, err := os.CreateTemp(dir, ".write-test-*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	name := tmp.Name()
	tmp.Close()
	os.Remove(name)
	return nil
}
