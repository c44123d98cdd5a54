package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"erpcalc/internal/calc"
)

// Write exports res in the given format
func Write(out io.Writer, res *calc.Result, format Format, options WriteOptions) error {
	switch format {
	case FormatCSV:
		return WriteCSV(out, res, options)
	case FormatXLSX:
		return WriteXLSX(out, res)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// FileExporter writes exports to files under a base directory
type FileExporter struct {
	dir       string
	bomPrefix bool
	logger    *slog.Logger
}

// NewFileExporter creates a file exporter rooted at dir
func NewFileExporter(dir string, bomPrefix bool, logger *slog.Logger) *FileExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileExporter{
		dir:       dir,
		bomPrefix: bomPrefix,
		logger:    logger.With(slog.String("component", "exporter")),
	}
}

// Save writes res to name and returns the full path written. Relative names
// resolve against the exporter's directory; a missing extension is added.
func (e *FileExporter) Save(name string, res *calc.Result, format Format) (string, error) {
	fullPath := e.resolvePath(name, format)

	e.logger.Info("Writing export file",
		slog.String("calculator", res.Calculator),
		slog.String("format", string(format)),
		slog.String("full_path", fullPath),
		slog.Int("row_count", len(res.Rows)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, res, format, WriteOptions{BOMPrefix: e.bomPrefix}); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return fullPath, nil
}

// FileName builds the default download name for a result
func FileName(res *calc.Result, format Format) string {
	return res.Calculator + "_result" + format.Extension()
}

func (e *FileExporter) resolvePath(name string, format Format) string {
	if !strings.EqualFold(filepath.Ext(name), format.Extension()) {
		name += format.Extension()
	}
	if filepath.IsAbs(name) || e.dir == "" {
		return name
	}
	return filepath.Join(e.dir, name)
}
