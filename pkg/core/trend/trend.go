// Package trend classifies directional movement of revenue and profit
// over time. Classification is a deliberate two-point comparison of the
// first and last daily aggregates, not a regression.
package trend

import (
	"math"
	"sort"
	"time"

	"bizsight/pkg/core/dataset"
)

// Classification thresholds: a first-vs-last change above +5% is
// increasing, below -5% decreasing, otherwise stable. Strict comparisons;
// exactly +/-5.0% is stable. The band is fixed.
const changeThreshold = 5.0

const (
	Increasing = "increasing"
	Decreasing = "decreasing"
	Stable     = "stable"
)

// Result is one trend classification with its change figures.
type Result struct {
	Trend         string  `json:"trend"`
	ChangePercent float64 `json:"change_percent"`
	TotalChange   float64 `json:"total_change"`
}

// ConsecutiveLosses reports streaks of negative-profit days.
type ConsecutiveLosses struct {
	HasConsecutiveLosses bool     `json:"has_consecutive_losses"`
	MaxConsecutiveDays   int      `json:"max_consecutive_days"`
	LossPeriods          []string `json:"loss_periods"`
}

// ProductRank is one product's own revenue trend.
type ProductRank struct {
	Product    string  `json:"product"`
	GrowthRate float64 `json:"growth_rate"`
	Trend      string  `json:"trend"` // growing | declining | stable
}

// Report bundles every trend figure for the dashboard and reports.
type Report struct {
	RevenueTrend      Result            `json:"revenue_trend"`
	ProfitTrend       Result            `json:"profit_trend"`
	OverallGrowthRate float64           `json:"overall_growth_rate"`
	AverageGrowthRate float64           `json:"average_growth_rate"`
	ConsecutiveLosses ConsecutiveLosses `json:"consecutive_losses"`
	ProductRankings   []ProductRank     `json:"product_rankings"`
}

type dayPoint struct {
	Date  time.Time
	Value float64
}

var stableResult = Result{Trend: Stable, ChangePercent: 0.0, TotalChange: 0.0}

// RevenueTrend classifies daily revenue movement from the first to the
// last date. Fewer than 2 distinct dates is stable by definition.
func RevenueTrend(ds *dataset.Dataset) Result {
	if ds.Empty() || !ds.HasColumn(dataset.FieldDate) || !ds.HasColumn(dataset.FieldRevenue) {
		return stableResult
	}
	daily := dailySeries(ds, revenueOf)
	if len(daily) < 2 {
		return stableResult
	}

	first := daily[0].Value
	last := daily[len(daily)-1].Value
	totalChange := last - first

	changePercent := 0.0
	if first != 0 {
		changePercent = totalChange / first * 100
	}
	return Result{
		Trend:         classify(changePercent),
		ChangePercent: changePercent,
		TotalChange:   totalChange,
	}
}

// ProfitTrend is RevenueTrend on the profit series, with one inherited
// quirk: the percent change divides by abs(first) rather than first. The
// asymmetry with RevenueTrend is preserved as-is.
func ProfitTrend(ds *dataset.Dataset) Result {
	if ds.Empty() || !ds.HasColumn(dataset.FieldDate) {
		return stableResult
	}
	value, ok := profitColumn(ds)
	if !ok {
		return stableResult
	}
	daily := dailySeries(ds, value)
	if len(daily) < 2 {
		return stableResult
	}

	first := daily[0].Value
	last := daily[len(daily)-1].Value
	totalChange := last - first

	changePercent := 0.0
	if first != 0 {
		changePercent = totalChange / math.Abs(first) * 100
	}
	return Result{
		Trend:         classify(changePercent),
		ChangePercent: changePercent,
		TotalChange:   totalChange,
	}
}

// GrowthRate computes revenue growth. period "overall" is the same
// first-vs-last percent change as RevenueTrend; "average" is the mean of
// day-over-day percent changes, skipping pairs with a zero denominator.
func GrowthRate(ds *dataset.Dataset, period string) float64 {
	if ds.Empty() || !ds.HasColumn(dataset.FieldDate) || !ds.HasColumn(dataset.FieldRevenue) {
		return 0.0
	}
	daily := dailySeries(ds, revenueOf)
	if len(daily) < 2 {
		return 0.0
	}

	switch period {
	case "overall":
		first := daily[0].Value
		if first == 0 {
			return 0.0
		}
		return (daily[len(daily)-1].Value - first) / first * 100
	case "average":
		var rates []float64
		for i := 1; i < len(daily); i++ {
			prev := daily[i-1].Value
			if prev == 0 {
				continue
			}
			rates = append(rates, (daily[i].Value-prev)/prev*100)
		}
		if len(rates) == 0 {
			return 0.0
		}
		total := 0.0
		for _, r := range rates {
			total += r
		}
		return total / float64(len(rates))
	}
	return 0.0
}

// DetectConsecutiveLosses scans the date-ordered daily profit series for
// runs of negative days. LossPeriods contains the dates of every streak
// that reached the threshold; shorter streaks contribute no dates.
func DetectConsecutiveLosses(ds *dataset.Dataset, threshold int) ConsecutiveLosses {
	none := ConsecutiveLosses{LossPeriods: []string{}}
	if ds.Empty() || !ds.HasColumn(dataset.FieldDate) {
		return none
	}
	value, ok := profitColumn(ds)
	if !ok {
		return none
	}
	daily := dailySeries(ds, value)

	consecutive := 0
	maxConsecutive := 0
	lossDates := []string{}
	var streakDates []string

	for _, p := range daily {
		if p.Value < 0 {
			consecutive++
			streakDates = append(streakDates, p.Date.Format("2006-01-02"))
			if consecutive > maxConsecutive {
				maxConsecutive = consecutive
			}
		} else {
			if consecutive >= threshold {
				lossDates = append(lossDates, streakDates...)
			}
			consecutive = 0
			streakDates = nil
		}
	}
	if consecutive >= threshold {
		lossDates = append(lossDates, streakDates...)
	}

	return ConsecutiveLosses{
		HasConsecutiveLosses: maxConsecutive >= threshold,
		MaxConsecutiveDays:   maxConsecutive,
		LossPeriods:          lossDates,
	}
}

// ProductTrendRanking ranks products by their own first-vs-last daily
// revenue growth, highest first. Products with fewer than 2 distinct
// dates are skipped. The sort is stable, so ties keep the order in which
// products were first encountered.
func ProductTrendRanking(ds *dataset.Dataset) []ProductRank {
	if ds.Empty() || !ds.HasColumn(dataset.FieldDate) ||
		!ds.HasColumn(dataset.FieldProduct) || !ds.HasColumn(dataset.FieldRevenue) {
		return []ProductRank{}
	}

	// Distinct products in encounter order.
	seen := make(map[string]bool)
	var products []string
	for _, r := range ds.Records {
		if !seen[r.ProductName] {
			seen[r.ProductName] = true
			products = append(products, r.ProductName)
		}
	}

	rankings := []ProductRank{}
	for _, product := range products {
		var records []dataset.Record
		for _, r := range ds.Records {
			if r.ProductName == product {
				records = append(records, r)
			}
		}
		sub := dataset.New(records, ds.Columns()...)

		daily := dailySeries(sub, revenueOf)
		if len(daily) < 2 {
			continue
		}

		first := daily[0].Value
		last := daily[len(daily)-1].Value
		growth := 0.0
		if first != 0 {
			growth = (last - first) / first * 100
		}

		t := Stable
		if growth > changeThreshold {
			t = "growing"
		} else if growth < -changeThreshold {
			t = "declining"
		}

		rankings = append(rankings, ProductRank{Product: product, GrowthRate: growth, Trend: t})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].GrowthRate > rankings[j].GrowthRate
	})
	return rankings
}

// AllTrends bundles every trend computation with default parameters.
func AllTrends(ds *dataset.Dataset) Report {
	return Report{
		RevenueTrend:      RevenueTrend(ds),
		ProfitTrend:       ProfitTrend(ds),
		OverallGrowthRate: GrowthRate(ds, "overall"),
		AverageGrowthRate: GrowthRate(ds, "average"),
		ConsecutiveLosses: DetectConsecutiveLosses(ds, 3),
		ProductRankings:   ProductTrendRanking(ds),
	}
}

// DayPoint is one date-grouped sum, exposed for chart rendering.
type DayPoint struct {
	Date  time.Time
	Value float64
}

// DailySeries exposes the date-grouped, date-ordered sums of value.
func DailySeries(ds *dataset.Dataset, value func(dataset.Record) float64) []DayPoint {
	daily := dailySeries(ds, value)
	out := make([]DayPoint, len(daily))
	for i, p := range daily {
		out[i] = DayPoint(p)
	}
	return out
}

// RevenueOf and ProfitOf are the standard series accessors.
func RevenueOf(r dataset.Record) float64 { return r.Revenue }
func ProfitOf(r dataset.Record) float64  { return r.Profit }

func classify(changePercent float64) string {
	switch {
	case changePercent > changeThreshold:
		return Increasing
	case changePercent < -changeThreshold:
		return Decreasing
	default:
		return Stable
	}
}

// dailySeries groups records by date, summing the value, sorted
// ascending. Records without a date are excluded from grouping.
func dailySeries(ds *dataset.Dataset, value func(dataset.Record) float64) []dayPoint {
	sums := make(map[time.Time]float64)
	for _, r := range ds.Records {
		if !r.HasDate() {
			continue
		}
		v := value(r)
		if math.IsNaN(v) {
			v = 0
		}
		sums[r.Date] += v
	}

	out := make([]dayPoint, 0, len(sums))
	for d, v := range sums {
		out = append(out, dayPoint{Date: d, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func revenueOf(r dataset.Record) float64 { return r.Revenue }

// profitColumn picks the profit accessor: the explicit profit column when
// present, otherwise revenue - cost.
func profitColumn(ds *dataset.Dataset) (func(dataset.Record) float64, bool) {
	if ds.HasColumn(dataset.FieldProfit) {
		return func(r dataset.Record) float64 { return r.Profit }, true
	}
	if ds.HasColumn(dataset.FieldRevenue) && ds.HasColumn(dataset.FieldCost) {
		return func(r dataset.Record) float64 { return r.Revenue - r.Cost }, true
	}
	return nil, false
}
