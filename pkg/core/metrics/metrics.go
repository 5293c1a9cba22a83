// Package metrics computes aggregate financial figures over a Dataset.
// All functions are pure and total: on an empty dataset or a missing
// column they return a neutral default (0.0 or an empty map) rather than
// an error.
package metrics

import (
	"math"

	"bizsight/pkg/core/dataset"
)

// ProductSummary holds the per-product aggregate figures.
type ProductSummary struct {
	Revenue  float64 `json:"revenue"`
	Cost     float64 `json:"cost"`
	Profit   float64 `json:"profit"`
	Margin   float64 `json:"margin"`
	Quantity float64 `json:"quantity,omitempty"`
}

// Summary is the full metric set for one dataset.
type Summary struct {
	TotalRevenue   float64                   `json:"total_revenue"`
	TotalCost      float64                   `json:"total_cost"`
	TotalProfit    float64                   `json:"total_profit"`
	ProfitMargin   float64                   `json:"profit_margin"`
	ProductSummary map[string]ProductSummary `json:"product_summary"`
}

// TotalRevenue sums the revenue column. 0.0 when the dataset is empty or
// the column is absent.
func TotalRevenue(ds *dataset.Dataset) float64 {
	if ds.Empty() || !ds.HasColumn(dataset.FieldRevenue) {
		return 0.0
	}
	return sum(ds, func(r dataset.Record) float64 { return r.Revenue })
}

// TotalCost sums the cost column. 0.0 when the dataset is empty or the
// column is absent.
func TotalCost(ds *dataset.Dataset) float64 {
	if ds.Empty() || !ds.HasColumn(dataset.FieldCost) {
		return 0.0
	}
	return sum(ds, func(r dataset.Record) float64 { return r.Cost })
}

// TotalProfit sums the profit column if present, otherwise falls back to
// TotalRevenue - TotalCost.
func TotalProfit(ds *dataset.Dataset) float64 {
	if ds.Empty() {
		return 0.0
	}
	if ds.HasColumn(dataset.FieldProfit) {
		return sum(ds, func(r dataset.Record) float64 { return r.Profit })
	}
	return TotalRevenue(ds) - TotalCost(ds)
}

// ProfitMargin is (total profit / total revenue) x 100. Defined as 0.0 at
// zero revenue regardless of profit; a policy choice to avoid dividing by
// zero, not a mathematical identity.
func ProfitMargin(ds *dataset.Dataset) float64 {
	if ds.Empty() {
		return 0.0
	}
	revenue := TotalRevenue(ds)
	if revenue == 0 {
		return 0.0
	}
	return TotalProfit(ds) / revenue * 100
}

// ProductWiseSummary groups records by product name and sums revenue,
// cost, quantity (if present) and profit (if present, else derived), with
// a per-product margin under the same zero-revenue rule. The returned map
// is unordered by design.
func ProductWiseSummary(ds *dataset.Dataset) map[string]ProductSummary {
	if ds.Empty() {
		return map[string]ProductSummary{}
	}
	if !ds.HasColumn(dataset.FieldProduct) || !ds.HasColumn(dataset.FieldRevenue) || !ds.HasColumn(dataset.FieldCost) {
		return map[string]ProductSummary{}
	}

	hasQuantity := ds.HasColumn(dataset.FieldQuantity)
	hasProfit := ds.HasColumn(dataset.FieldProfit)

	summary := make(map[string]ProductSummary)
	for _, r := range ds.Records {
		s := summary[r.ProductName]
		s.Revenue += nz(r.Revenue)
		s.Cost += nz(r.Cost)
		if hasQuantity {
			s.Quantity += nz(r.Quantity)
		}
		if hasProfit {
			s.Profit += nz(r.Profit)
		}
		summary[r.ProductName] = s
	}

	for name, s := range summary {
		if !hasProfit {
			s.Profit = s.Revenue - s.Cost
		}
		if s.Revenue > 0 {
			s.Margin = s.Profit / s.Revenue * 100
		} else {
			s.Margin = 0.0
		}
		summary[name] = s
	}
	return summary
}

// AllMetrics bundles the full metric set for reports and the dashboard.
func AllMetrics(ds *dataset.Dataset) Summary {
	return Summary{
		TotalRevenue:   TotalRevenue(ds),
		TotalCost:      TotalCost(ds),
		TotalProfit:    TotalProfit(ds),
		ProfitMargin:   ProfitMargin(ds),
		ProductSummary: ProductWiseSummary(ds),
	}
}

func sum(ds *dataset.Dataset, value func(dataset.Record) float64) float64 {
	total := 0.0
	for _, r := range ds.Records {
		total += nz(value(r))
	}
	return total
}

// nz treats unvalidated NaN cells as 0 so sums stay defined.
func nz(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
