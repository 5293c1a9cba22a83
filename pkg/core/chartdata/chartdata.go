// Package chartdata shapes the analysis results into JSON-ready series
// for the external chart renderer. Drawing is not done here.
package chartdata

import (
	"sort"

	"bizsight/pkg/core/dataset"
	"bizsight/pkg/core/metrics"
	"bizsight/pkg/core/simulate"
	"bizsight/pkg/core/trend"
)

// Point is one dated value in a time series.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// NamedValue is one labeled value in a categorical series.
type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// DailyRevenue returns the date-ordered daily revenue sums.
func DailyRevenue(ds *dataset.Dataset) []Point {
	return toPoints(trend.DailySeries(ds, trend.RevenueOf))
}

// DailyProfit returns the date-ordered daily profit sums.
func DailyProfit(ds *dataset.Dataset) []Point {
	return toPoints(trend.DailySeries(ds, trend.ProfitOf))
}

// ProductRevenue returns per-product revenue totals, largest first.
func ProductRevenue(ds *dataset.Dataset) []NamedValue {
	summary := metrics.ProductWiseSummary(ds)
	out := make([]NamedValue, 0, len(summary))
	for name, s := range summary {
		out = append(out, NamedValue{Name: name, Value: s.Revenue})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SimulationComparison returns the two profit bars for the what-if view.
func SimulationComparison(cmp simulate.ProfitComparison) []NamedValue {
	return []NamedValue{
		{Name: "original", Value: cmp.OriginalProfit},
		{Name: "simulated", Value: cmp.SimulatedProfit},
	}
}

func toPoints(series []trend.DayPoint) []Point {
	out := make([]Point, len(series))
	for i, p := range series {
		out[i] = Point{Date: p.Date.Format("2006-01-02"), Value: p.Value}
	}
	return out
}
