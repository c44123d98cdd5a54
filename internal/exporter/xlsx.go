package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"erpcalc/internal/calc"
)

// maxSheetName is the Excel limit on sheet name length
const maxSheetName = 31

// WriteXLSX writes every table of the result to its own worksheet. The
// primary table comes first and is named after the calculator. Numeric cells
// stay numeric in the workbook.
func WriteXLSX(out io.Writer, res *calc.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, table := range res.Tables() {
		sheet := sheetName(table.Name)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		if err := writeSheetRow(f, sheet, 1, stringsToCells(table.Headers)); err != nil {
			return err
		}
		if len(table.Headers) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(table.Headers), 1)
			if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
				return fmt.Errorf("failed to style headers: %w", err)
			}
		}
		for r, row := range table.Rows {
			if err := writeSheetRow(f, sheet, r+2, row); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheet string, rowNum int, cells []any) error {
	for col, v := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func stringsToCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func sheetName(name string) string {
	if name == "" {
		name = "Sheet1"
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}
