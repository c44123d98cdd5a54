package calc

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// splitFields splits a comma-delimited line and trims every field.
// Empty fields are kept; callers decide whether to drop them.
func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// nonEmptyFields is splitFields without the empty fields
func nonEmptyFields(line string) []string {
	parts := splitFields(line)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitPair splits "key:value" on the first colon. hasValue is false when
// there is no colon or nothing after it.
func splitPair(seg string) (key, value string, hasValue bool) {
	key, value, found := strings.Cut(seg, ":")
	key = strings.TrimSpace(key)
	if !found {
		return key, "", false
	}
	// "a:b:c" keeps only "b"
	value, _, _ = strings.Cut(value, ":")
	value = strings.TrimSpace(value)
	return key, value, value != ""
}

// parseNumber parses a decimal number. Empty, NaN and infinite values are
// rejected so that nothing non-finite ever enters a computation.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// numberOrZero is parseNumber with a zero fallback
func numberOrZero(s string) float64 {
	v, _ := parseNumber(s)
	return v
}

// numbersOrZero coerces every field, non-numeric fields become 0
func numbersOrZero(fields []string) []float64 {
	out := make([]float64, len(fields))
	for i, f := range fields {
		out[i] = numberOrZero(f)
	}
	return out
}

// formatFixed renders v with exactly places decimals. Exact halves round away
// from zero and negative values keep their sign even when they round to zero,
// matching how the dashboard formats numbers.
func formatFixed(v float64, places int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(0, 'f', places, 64)
	}
	if places < 0 {
		places = 0
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)
	x := new(big.Float).SetPrec(2048).SetFloat64(math.Abs(v))
	x.Mul(x, new(big.Float).SetPrec(2048).SetInt(scale))
	x.Add(x, big.NewFloat(0.5))
	n, _ := x.Int(nil)

	digits := n.String()
	if places > 0 {
		if len(digits) <= places {
			digits = strings.Repeat("0", places-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-places] + "." + digits[len(digits)-places:]
	}
	if v < 0 {
		return "-" + digits
	}
	return digits
}

// formatNumber renders v in its shortest decimal form ("3", "0.5")
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
