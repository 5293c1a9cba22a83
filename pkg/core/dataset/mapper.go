package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// synonymRules is the ordered column-resolution table: for each canonical
// field, the source headers to try, first match wins, case-sensitive.
// Adding a new synonym is a data change, not a code change.
var synonymRules = []struct {
	Field   Field
	Sources []string
}{
	{FieldDate, []string{"date", "order_date", "invoice_date"}},
	{FieldProduct, []string{"product", "product_name", "item", "item_name"}},
	{FieldQuantity, []string{"quantity", "qty", "units"}},
	{FieldSellingPrice, []string{"selling_price", "unit_price", "price"}},
}

// revenueSources and costSources are tried before falling back to the
// derived forms (quantity x selling_price, unit_cost x quantity).
var revenueSources = []string{"revenue", "total_price", "sales"}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	time.RFC3339,
}

// MapToSchema converts a raw uploaded table into a Dataset in the internal
// schema. It is a pure transform: missing or unparsable values degrade to
// defaults (zero date, "Unknown" product, 0 quantity, NaN numerics) rather
// than failing, so messy uploads still flow through the pipeline. Rows that
// degraded past usefulness are removed later by Validate.
func MapToSchema(t *Table) *Dataset {
	n := len(t.Rows)

	dates := resolveDates(t, n)
	products := resolveProducts(t, n)
	quantities := resolveQuantities(t, n)
	prices := resolveSellingPrices(t, n)
	revenues := resolveRevenues(t, quantities, prices, n)
	costs := resolveCosts(t, quantities, n)
	profits := resolveProfits(t, revenues, costs, n)

	records := make([]Record, n)
	for i := 0; i < n; i++ {
		records[i] = Record{
			Date:         dates[i],
			ProductName:  products[i],
			Quantity:     quantities[i],
			SellingPrice: prices[i],
			Revenue:      revenues[i],
			Cost:         costs[i],
			Profit:       profits[i],
		}
	}

	// The mapper always materializes the full internal schema.
	return New(records,
		FieldDate, FieldProduct, FieldQuantity, FieldSellingPrice,
		FieldRevenue, FieldCost, FieldProfit)
}

func resolveDates(t *Table, n int) []time.Time {
	out := make([]time.Time, n)
	for _, name := range synonymSources(FieldDate) {
		col := t.Column(name)
		if col == nil {
			continue
		}
		for i, v := range col {
			out[i] = parseDate(v)
		}
		return out
	}
	return out // all zero: date column entirely absent
}

func resolveProducts(t *Table, n int) []string {
	out := make([]string, n)
	for _, name := range synonymSources(FieldProduct) {
		col := t.Column(name)
		if col == nil {
			continue
		}
		copy(out, col)
		return out
	}
	for i := range out {
		out[i] = "Unknown"
	}
	return out
}

func resolveQuantities(t *Table, n int) []float64 {
	out := make([]float64, n)
	for _, name := range synonymSources(FieldQuantity) {
		col := t.Column(name)
		if col == nil {
			continue
		}
		for i, v := range col {
			q := parseNumber(v)
			if math.IsNaN(q) {
				q = 0 // unparsable quantity degrades to 0, not NaN
			}
			out[i] = q
		}
		return out
	}
	return out // column absent: all zero
}

func resolveSellingPrices(t *Table, n int) []float64 {
	out := make([]float64, n)
	for _, name := range synonymSources(FieldSellingPrice) {
		col := t.Column(name)
		if col == nil {
			continue
		}
		for i, v := range col {
			out[i] = parseNumber(v)
		}
		return out
	}
	return out // column absent: treated as 0 downstream
}

func resolveRevenues(t *Table, quantities, prices []float64, n int) []float64 {
	for _, name := range revenueSources {
		col := t.Column(name)
		if col == nil {
			continue
		}
		out := make([]float64, n)
		for i, v := range col {
			out[i] = parseNumber(v)
		}
		return out
	}
	// Derived: quantity x selling_price. NaN prices propagate and the row
	// is dropped at validation.
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = quantities[i] * prices[i]
	}
	return out
}

func resolveCosts(t *Table, quantities []float64, n int) []float64 {
	out := make([]float64, n)
	if col := t.Column("cost"); col != nil {
		for i, v := range col {
			out[i] = parseNumber(v)
		}
		return out
	}
	if col := t.Column("unit_cost"); col != nil {
		for i, v := range col {
			out[i] = parseNumber(v) * quantities[i]
		}
		return out
	}
	return out // no cost information: 0
}

func resolveProfits(t *Table, revenues, costs []float64, n int) []float64 {
	out := make([]float64, n)
	if col := t.Column("profit"); col != nil {
		for i, v := range col {
			out[i] = parseNumber(v)
		}
		return out
	}
	for i := 0; i < n; i++ {
		out[i] = revenues[i] - costs[i]
	}
	return out
}

func synonymSources(f Field) []string {
	for _, rule := range synonymRules {
		if rule.Field == f {
			return rule.Sources
		}
	}
	return nil
}

// parseDate tries the known layouts in order. Unparsable values become the
// zero time ("missing"), never an error.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// parseNumber returns NaN for missing or unparsable cells.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
