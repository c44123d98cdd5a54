package calc

import (
	"strings"
)

// component is one Component Entry of a product row
type component struct {
	name       string
	qtyPerUnit float64
}

// product is one parsed BOM row
type product struct {
	name       string
	qty        float64
	components []component
}

// isQuantityKey reports whether key sets the product's own production quantity
func isQuantityKey(key string) bool {
	k := strings.ToLower(key)
	return k == "qty" || k == "jumlah"
}

// parseOverrides parses "Product:qty,Product2:qty2" into a lookup map.
// Non-numeric quantities are stored as 0 and therefore never applied.
func parseOverrides(s string) map[string]float64 {
	overrides := make(map[string]float64)
	for _, pair := range nonEmptyFields(s) {
		name, value, _ := splitPair(pair)
		if name == "" {
			continue
		}
		overrides[name] = numberOrZero(value)
	}
	return overrides
}

// parseProduct parses one BOM row. ok is false for rows with fewer than two
// fields, which are skipped silently.
func parseProduct(line string, overrides map[string]float64) (product, bool) {
	parts := nonEmptyFields(line)
	if len(parts) < 2 {
		return product{}, false
	}

	p := product{name: parts[0]}
	for _, seg := range parts[1:] {
		key, value, hasValue := splitPair(seg)
		if isQuantityKey(key) {
			p.qty = numberOrZero(value)
			continue
		}
		perUnit := 1.0
		if hasValue {
			perUnit = numberOrZero(value)
		}
		p.components = append(p.components, component{name: key, qtyPerUnit: perUnit})
	}

	// explicit in-row quantity, else override, else 1; never 0
	if p.qty == 0 {
		p.qty = overrides[p.name]
	}
	if p.qty == 0 {
		p.qty = 1
	}
	return p, true
}

// BOM aggregates component requirements over every product row.
//
// Row format: "Product, [qty:N | jumlah:N], Component:qtyPerUnit, ...".
// overrides supplies production quantities for rows without an explicit one,
// e.g. "ProductA:10,ProductB:5".
func BOM(lines []string, overrides string) *Result {
	qtyMap := parseOverrides(overrides)

	products := make([]product, 0, len(lines))
	for _, line := range lines {
		if p, ok := parseProduct(line, qtyMap); ok {
			products = append(products, p)
		}
	}

	var order []string
	totals := make(map[string]float64)
	for _, p := range products {
		for _, c := range p.components {
			if _, seen := totals[c.name]; !seen {
				order = append(order, c.name)
			}
			totals[c.name] += p.qty * c.qtyPerUnit
		}
	}

	rows := make([]Row, 0, len(order))
	for _, name := range order {
		rows = append(rows, Row{name, totals[name]})
	}

	productRows := make([]Row, 0, len(products))
	for _, p := range products {
		listed := make([]string, len(p.components))
		for i, c := range p.components {
			listed[i] = c.name + ":" + formatNumber(c.qtyPerUnit)
		}
		productRows = append(productRows, Row{p.name, p.qty, strings.Join(listed, ", ")})
	}

	return &Result{
		Calculator: NameBOM,
		Steps: []string{
			"Parse the input into products, product quantities and per-unit component requirements.",
			"Total requirement of each component = product quantity x component quantity per unit, summed over products.",
		},
		Headers: []string{"Component", "Total Qty"},
		Rows:    rows,
		Sections: []Section{{
			Name:    "products",
			Headers: []string{"Product", "Qty", "Components"},
			Rows:    productRows,
		}},
	}
}
