// Package calc implements the calculation engine behind the decision-support
// dashboard pages.
//
// Every calculator is a pure function over already-split, trimmed, non-empty
// text lines plus a few auxiliary scalars. A calculator never performs I/O,
// never keeps state between calls and returns the same Result for the same
// input, so results can be cached, exported or re-rendered freely.
//
// # Calculators
//
//   - BOM: bill-of-materials rollup of component requirements
//   - Forecast: iterative simple moving average with an out-of-sample horizon
//   - JobSequencing: FCFS, SPT and EDD orderings with schedule metrics
//   - SAW: simple additive weighting over benefit criteria
//   - MarketBasket: co-occurrence frequency of item pairs
//   - ProfileMatching: similarity of candidates to an ideal profile
//   - Markov: empirical state transition probabilities
//
// # Architecture
//
//   - types.go: Result, Section and Params
//   - coerce.go: tokenizing, numeric coercion and fixed-precision formatting
//   - errors.go: sentinel and typed errors
//   - registry.go: name-keyed registry of calculators
//   - one file per calculator
//
// # Usage Example
//
//	lines := input.ParseLines("A,qty:2,X:3,Y:1\nB,qty:1,X:2")
//	res := calc.BOM(lines, "")
//	// res.Rows == [][]any{{"X", 8.0}, {"Y", 2.0}}
//
// Or through the registry:
//
//	c, err := calc.Lookup("saw")
//	if err != nil {
//	    return err
//	}
//	res, err := c.Calculate(lines, calc.Params{Weights: "0.5,0.5"})
//
// # Numeric Policy
//
// Quantities and criteria that fail to parse count as zero; forecast series
// drop them instead. Every division is guarded so outputs stay finite. Values
// with a fixed display precision are formatted as strings, rounding exact
// halves away from zero.
//
// # Ordering
//
// Where rows are ranked (SPT, EDD, SAW, profile matching, pair frequency) the
// sort is stable: ties keep their input order.
package calc
