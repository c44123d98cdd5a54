package exporter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"erpcalc/internal/calc"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	// Table selects a section by name; empty means the primary table
	Table     string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// selectTable resolves the table a CSV export writes
func selectTable(res *calc.Result, name string) (calc.Section, error) {
	if name == "" || name == res.Calculator {
		return calc.Section{Name: res.Calculator, Headers: res.Headers, Rows: res.Rows}, nil
	}
	if s := res.Section(name); s != nil {
		return *s, nil
	}
	return calc.Section{}, fmt.Errorf("result of %s has no table %q", res.Calculator, name)
}

// quote wraps a cell in double quotes, doubling embedded quotes
func quote(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

func writeRecord(w *bufio.Writer, cells []string) error {
	for i, c := range cells {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quote(c)); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\n")
	return err
}

// WriteCSV writes the header row and body rows of one result table.
// Every cell is quoted, so values containing commas or line breaks survive.
func WriteCSV(out io.Writer, res *calc.Result, options WriteOptions) error {
	table, err := selectTable(res, options.Table)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	if err := writeRecord(w, table.Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range table.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = FormatCell(v)
		}
		if err := writeRecord(w, cells); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return w.Flush()
}
