// Package exporter writes calculation results to spreadsheet formats.
//
// Two formats are supported:
//
// CSV: one table per file, every cell quoted, optional UTF-8 BOM for Excel
// compatibility. WriteOptions.Table selects a section instead of the primary
// table.
//
// XLSX: the primary table and every section on separate worksheets, with a
// bold header row. Built with excelize.
//
// Example usage:
//
//	res := calc.BOM(lines, "")
//	err := exporter.WriteCSV(w, res, exporter.WriteOptions{BOMPrefix: true})
//
//	fe := exporter.NewFileExporter("data/exports", true, logger)
//	path, err := fe.Save("bom", res, exporter.FormatXLSX)
package exporter
