package main

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"

	"erpcalc/internal/calc"
	"erpcalc/internal/exporter"
)

// writeTable prints the steps and then every table of res as aligned columns.
// The primary table is left out when a section repeats it.
func writeTable(out io.Writer, res *calc.Result) error {
	for i, step := range res.Steps {
		fmt.Fprintf(out, "%d. %s\n", i+1, step)
	}

	tables := res.Tables()
	for _, s := range res.Sections {
		if reflect.DeepEqual(s.Headers, res.Headers) && reflect.DeepEqual(s.Rows, res.Rows) {
			tables = tables[1:]
			break
		}
	}

	for _, table := range tables {
		fmt.Fprintf(out, "\n[%s]\n", strings.ToUpper(table.Name))

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(table.Headers, "\t"))
		for _, row := range table.Rows {
			cells := make([]string, len(row))
			for j, v := range row {
				cells[j] = exporter.FormatCell(v)
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(res.Next) > 0 {
		fmt.Fprintf(out, "\nNext: %s\n", strings.Join(res.Next, ", "))
	}
	return nil
}
