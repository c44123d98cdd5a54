package calc

import (
	"math"
	"sort"
	"strconv"
)

// ProfileOptions tunes profile matching
type ProfileOptions struct {
	// StrictAlignment rejects candidates whose criteria count differs from
	// the ideal profile
	StrictAlignment bool
}

// similarity scores cand against ideal. The per-criterion gap is scaled by
// the ideal value, floored at 1, so a zero ideal never divides by zero.
func similarity(ideal, cand []float64) float64 {
	if len(ideal) == 0 {
		return 0
	}
	sum := 0.0
	for j, want := range ideal {
		sum += 1 - math.Abs(want-at(cand, j))/math.Max(want, 1)
	}
	return sum / float64(len(ideal))
}

// ProfileMatching ranks candidates by their closeness to the ideal profile on
// the first line. The ideal's name is ignored and it is not ranked.
func ProfileMatching(lines []string, opts ProfileOptions) (*Result, error) {
	res := &Result{
		Calculator: NameProfile,
		Steps: []string{
			"The first line is the ideal profile.",
			"Similarity per criterion = 1 - |ideal - candidate| / max(ideal, 1); the total is the mean over the ideal's criteria.",
		},
		Headers: []string{"Name", "Similarity"},
		Rows:    []Row{},
	}

	alts := parseAlternatives(lines)
	if len(alts) == 0 {
		return res, nil
	}
	ideal := alts[0].criteria
	candidates := alts[1:]

	if opts.StrictAlignment {
		for i, c := range candidates {
			if len(c.criteria) != len(ideal) {
				return nil, &AlignmentError{Row: i + 2, Name: c.name, Want: len(ideal), Got: len(c.criteria)}
			}
		}
	}

	type match struct {
		name  string
		value string
		key   float64
	}
	matches := make([]match, len(candidates))
	for i, c := range candidates {
		v := formatFixed(similarity(ideal, c.criteria), ProfilePrecision)
		// ranking uses the displayed value so that display ties rank as ties
		key, _ := strconv.ParseFloat(v, 64)
		matches[i] = match{name: c.name, value: v, key: key}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].key > matches[j].key })

	for _, m := range matches {
		res.Rows = append(res.Rows, Row{m.name, m.value})
	}
	return res, nil
}
