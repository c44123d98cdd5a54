package calc

import (
	"sort"
)

// SAWOptions tunes the SAW scorer
type SAWOptions struct {
	// StrictAlignment rejects weight vectors and rows whose length differs
	// from the first row's criteria count
	StrictAlignment bool
}

// alternative is a named criterion vector
type alternative struct {
	name     string
	criteria []float64
}

// parseAlternatives keeps every line; a line with only a name has no criteria
func parseAlternatives(lines []string) []alternative {
	alts := make([]alternative, 0, len(lines))
	for _, line := range lines {
		parts := splitFields(line)
		alts = append(alts, alternative{name: parts[0], criteria: numbersOrZero(parts[1:])})
	}
	return alts
}

// at returns the i-th value of v, or 0 past its end
func at(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}

type scored struct {
	name  string
	score float64
}

// SAW ranks alternatives by simple additive weighting over benefit criteria.
//
// Each column is divided by its maximum (1 when the maximum is 0) and the
// normalised values are summed with the positional weights. The ranking is
// stable, so equal scores keep their input order.
func SAW(lines []string, weights string, opts SAWOptions) (*Result, error) {
	res := &Result{
		Calculator: NameSAW,
		Steps: []string{
			"Normalise each criterion (benefit): r_ij = x_ij / max_j.",
			"Score each alternative: S_i = sum_j w_j * r_ij, then rank descending.",
		},
		Headers: []string{"Alternative", "Score"},
		Rows:    []Row{},
	}

	alts := parseAlternatives(lines)
	if len(alts) == 0 {
		return res, nil
	}
	w := numbersOrZero(splitFields(weights))
	n := len(alts[0].criteria)

	if opts.StrictAlignment {
		if len(w) != n {
			return nil, &AlignmentError{Row: 0, Want: n, Got: len(w)}
		}
		for i, a := range alts {
			if len(a.criteria) != n {
				return nil, &AlignmentError{Row: i + 1, Name: a.name, Want: n, Got: len(a.criteria)}
			}
		}
	}

	colMax := make([]float64, n)
	for j := 0; j < n; j++ {
		for i, a := range alts {
			if v := at(a.criteria, j); i == 0 || v > colMax[j] {
				colMax[j] = v
			}
		}
	}

	scores := make([]scored, len(alts))
	for i, a := range alts {
		s := 0.0
		for j := 0; j < n; j++ {
			div := colMax[j]
			if div == 0 {
				div = 1
			}
			s += at(a.criteria, j) / div * at(w, j)
		}
		scores[i] = scored{name: a.name, score: s}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	for _, s := range scores {
		res.Rows = append(res.Rows, Row{s.name, formatFixed(s.score, SAWPrecision)})
	}
	return res, nil
}
