// Package input turns the free text typed into a dashboard textarea into the
// trimmed, non-empty lines the calculators consume.
package input

import (
	"fmt"
	"regexp"
	"strings"

	"erpcalc/internal/calc"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// ParseLines splits text on line breaks, trims every line and drops empty ones
func ParseLines(text string) []string {
	var lines []string
	for _, l := range lineBreak.Split(text, -1) {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// CountError is returned by Validate when there are too few records
type CountError struct {
	Min int
	Got int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("at least %d records required, got %d", e.Min, e.Got)
}

// Validate checks that lines holds at least min records
func Validate(lines []string, min int) error {
	if len(lines) < min {
		return &CountError{Min: min, Got: len(lines)}
	}
	return nil
}

// MinRecords returns the minimum record count for a calculator. Profile
// matching needs the ideal plus at least one candidate.
func MinRecords(calculator string) int {
	if calculator == calc.NameProfile {
		return 2
	}
	return 1
}
