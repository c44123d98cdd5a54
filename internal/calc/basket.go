package calc

import (
	"sort"
)

// pairKey is an unordered item pair with a <= b
type pairKey struct {
	a, b string
}

func newPairKey(x, y string) pairKey {
	if y < x {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// uniqueItems returns the transaction's distinct items in first-occurrence order
func uniqueItems(line string) []string {
	seen := make(map[string]struct{})
	var items []string
	for _, it := range nonEmptyFields(line) {
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		items = append(items, it)
	}
	return items
}

// MarketBasket counts how often every pair of distinct items appears in the
// same transaction. Pairs are ranked by frequency; equal frequencies keep the
// order in which the pairs were first observed.
func MarketBasket(lines []string) *Result {
	counts := make(map[pairKey]int)
	var order []pairKey

	for _, line := range lines {
		items := uniqueItems(line)
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				k := newPairKey(items[i], items[j])
				if _, seen := counts[k]; !seen {
					order = append(order, k)
				}
				counts[k]++
			}
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

	transactions := float64(len(lines))
	rows := make([]Row, 0, len(order))
	for _, k := range order {
		support := 0.0
		if transactions > 0 {
			support = float64(counts[k]) / transactions
		}
		rows = append(rows, Row{k.a + ", " + k.b, counts[k], formatFixed(support, SupportPrecision)})
	}

	return &Result{
		Calculator: NameBasket,
		Steps: []string{
			"Collapse duplicate items within each transaction.",
			"Count every unordered pair of distinct items that occurs in the same transaction.",
			"Support = pair frequency / number of transactions.",
		},
		Headers: []string{"Pair Item", "Frequency", "Support"},
		Rows:    rows,
	}
}
