// Package api contains the HTTP request and response contracts of the
// calculation API. Version v1 is the current stable API version.
package api

import (
	"erpcalc/internal/calc"
)

// CalculationRequest is the body of a calculation or export request. The
// input is either free text (one record per line) or pre-split lines.
type CalculationRequest struct {
	Input     string   `json:"input,omitempty" validate:"required_without=Lines"`
	Lines     []string `json:"lines,omitempty" validate:"required_without=Input"`
	Window    int      `json:"window,omitempty" validate:"gte=0,lte=1000"`
	Horizon   *int     `json:"horizon,omitempty" validate:"omitempty,gte=0,lte=1000"`
	Weights   string   `json:"weights,omitempty" validate:"weights"`
	Overrides string   `json:"overrides,omitempty" validate:"max=4096"`
	PerLine   bool     `json:"per_line,omitempty"`
	Strict    bool     `json:"strict,omitempty"`
}

// Params converts the request's auxiliary fields into calculator parameters
func (r CalculationRequest) Params() calc.Params {
	return calc.Params{
		Window:          r.Window,
		Horizon:         r.Horizon,
		Weights:         r.Weights,
		Overrides:       r.Overrides,
		PerLine:         r.PerLine,
		StrictAlignment: r.Strict,
	}
}

// ExportQuery carries the query parameters of an export request
type ExportQuery struct {
	Format string `json:"format" query:"format" validate:"omitempty,export_format"`

	// Table selects a secondary table for CSV export, e.g. "spt" for job sequencing
	Table string `json:"table" query:"table" validate:"omitempty,max=32"`
}
