package calc

import (
	"strings"
)

// MarkovOptions tunes the transition estimator
type MarkovOptions struct {
	// PerLine treats every line as its own sequence; transitions never cross
	// a line boundary
	PerLine bool
}

// sequences returns the state sequences to count transitions over
func sequences(lines []string, perLine bool) [][]string {
	if !perLine {
		return [][]string{nonEmptyFields(strings.Join(lines, ","))}
	}
	out := make([][]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, nonEmptyFields(line))
	}
	return out
}

// Markov estimates a first-order transition matrix from categorical
// sequences. States are indexed in first-occurrence order and every row of
// counts is normalised by its sum; states never left get an all-zero row.
func Markov(lines []string, opts MarkovOptions) *Result {
	seqs := sequences(lines, opts.PerLine)

	index := make(map[string]int)
	var states []string
	for _, seq := range seqs {
		for _, s := range seq {
			if _, ok := index[s]; !ok {
				index[s] = len(states)
				states = append(states, s)
			}
		}
	}

	counts := make([][]float64, len(states))
	for i := range counts {
		counts[i] = make([]float64, len(states))
	}
	for _, seq := range seqs {
		for i := 0; i+1 < len(seq); i++ {
			counts[index[seq[i]]][index[seq[i+1]]]++
		}
	}

	headers := make([]string, 0, len(states)+1)
	headers = append(headers, "State")
	for _, s := range states {
		headers = append(headers, "->"+s)
	}

	rows := make([]Row, 0, len(states))
	for i, from := range states {
		sum := 0.0
		for _, c := range counts[i] {
			sum += c
		}
		row := make(Row, 0, len(states)+1)
		row = append(row, from)
		for _, c := range counts[i] {
			p := 0.0
			if sum > 0 {
				p = c / sum
			}
			row = append(row, formatFixed(p, ProbabilityPrecision))
		}
		rows = append(rows, row)
	}

	mode := "All lines are joined into one sequence."
	if opts.PerLine {
		mode = "Each line is a separate sequence."
	}
	return &Result{
		Calculator: NameMarkov,
		Steps: []string{
			mode,
			"Count transitions between adjacent states, then divide each row by its total.",
		},
		Headers: headers,
		Rows:    rows,
	}
}
