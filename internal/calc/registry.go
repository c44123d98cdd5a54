package calc

import (
	"fmt"
	"sort"
)

// Registered calculator names
const (
	NameBOM      = "bom"
	NameForecast = "forecast"
	NameJSM      = "jsm"
	NameSAW      = "saw"
	NameBasket   = "basket"
	NameProfile  = "profile"
	NameMarkov   = "markov"
)

// Calculator is the uniform entry point used by the service and CLI layers
type Calculator interface {
	Name() string
	Description() string
	// Parameters lists the Params fields the calculator reads
	Parameters() []string
	Calculate(lines []string, p Params) (*Result, error)
}

// calculatorFunc adapts one of the free calculator functions
type calculatorFunc struct {
	name        string
	description string
	params      []string
	fn          func(lines []string, p Params) (*Result, error)
}

func (c calculatorFunc) Name() string         { return c.name }
func (c calculatorFunc) Description() string  { return c.description }
func (c calculatorFunc) Parameters() []string { return append([]string(nil), c.params...) }

func (c calculatorFunc) Calculate(lines []string, p Params) (*Result, error) {
	return c.fn(lines, p)
}

var registry = func() map[string]Calculator {
	list := []calculatorFunc{
		{
			name:        NameBOM,
			description: "Bill of materials rollup of component requirements",
			params:      []string{"overrides"},
			fn: func(lines []string, p Params) (*Result, error) {
				return BOM(lines, p.Overrides), nil
			},
		},
		{
			name:        NameForecast,
			description: "Iterative simple moving average forecast",
			params:      []string{"window", "horizon"},
			fn: func(lines []string, p Params) (*Result, error) {
				horizon := DefaultHorizon
				if p.Horizon != nil {
					horizon = *p.Horizon
				}
				return Forecast(lines, p.Window, horizon)
			},
		},
		{
			name:        NameJSM,
			description: "Job sequencing with FCFS, SPT and EDD",
			fn: func(lines []string, _ Params) (*Result, error) {
				return JobSequencing(lines), nil
			},
		},
		{
			name:        NameSAW,
			description: "Simple additive weighting ranking over benefit criteria",
			params:      []string{"weights", "strict"},
			fn: func(lines []string, p Params) (*Result, error) {
				return SAW(lines, p.Weights, SAWOptions{StrictAlignment: p.StrictAlignment})
			},
		},
		{
			name:        NameBasket,
			description: "Market basket pair frequency",
			fn: func(lines []string, _ Params) (*Result, error) {
				return MarketBasket(lines), nil
			},
		},
		{
			name:        NameProfile,
			description: "Profile matching against an ideal profile",
			params:      []string{"strict"},
			fn: func(lines []string, p Params) (*Result, error) {
				return ProfileMatching(lines, ProfileOptions{StrictAlignment: p.StrictAlignment})
			},
		},
		{
			name:        NameMarkov,
			description: "Markov chain transition probabilities",
			params:      []string{"per_line"},
			fn: func(lines []string, p Params) (*Result, error) {
				return Markov(lines, MarkovOptions{PerLine: p.PerLine}), nil
			},
		},
	}

	m := make(map[string]Calculator, len(list))
	for _, c := range list {
		m[c.name] = c
	}
	return m
}()

// Lookup returns the calculator registered under name
func Lookup(name string) (Calculator, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCalculator, name)
	}
	return c, nil
}

// Names returns every registered name, sorted
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every calculator in Names order
func All() []Calculator {
	names := Names()
	out := make([]Calculator, len(names))
	for i, name := range names {
		out[i] = registry[name]
	}
	return out
}
