package api

import (
	"net/http"

	"erpcalc/internal/calc"
)

// CalculationResponse is returned by a successful calculation
type CalculationResponse struct {
	ID         string       `json:"id"`
	Calculator string       `json:"calculator"`
	Lines      int          `json:"lines"`
	Result     *calc.Result `json:"result"`
	DurationMS float64      `json:"duration_ms"`
}

// Render implements render.Renderer
func (c *CalculationResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// CalculatorInfo describes one registered calculator
type CalculatorInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Parameters  []string `json:"parameters"`
}

// Render implements render.Renderer
func (c *CalculatorInfo) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// NewCalculatorInfo builds the listing entry of c
func NewCalculatorInfo(c calc.Calculator) *CalculatorInfo {
	params := c.Parameters()
	if params == nil {
		params = []string{}
	}
	return &CalculatorInfo{
		Name:        c.Name(),
		Description: c.Description(),
		Parameters:  params,
	}
}
