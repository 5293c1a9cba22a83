// Package risk evaluates independent threshold rules over a validated
// Dataset. Rules never fail: when required data is missing they degrade
// to an undetected finding with an explanatory message. Findings carry no
// identity and are recomputed on every request.
package risk

import (
	"fmt"
	"sort"

	"bizsight/pkg/core/dataset"
	"bizsight/pkg/core/metrics"
	"bizsight/pkg/core/trend"
)

// Severity is the coarse ordinal label attached to a detected finding.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ContinuousLossFinding reports runs of consecutive negative-profit days.
type ContinuousLossFinding struct {
	RiskDetected        bool     `json:"risk_detected"`
	Severity            Severity `json:"severity"`
	ConsecutiveLossDays int      `json:"consecutive_loss_days"`
	TotalLossAmount     float64  `json:"total_loss_amount"`
	LossDates           []string `json:"loss_dates"`
	Message             string   `json:"message"`
}

// DecliningRevenueFinding reports a first-vs-last revenue decline.
type DecliningRevenueFinding struct {
	RiskDetected   bool     `json:"risk_detected"`
	Severity       Severity `json:"severity"`
	DeclinePercent float64  `json:"decline_percent"`
	RevenueChange  float64  `json:"revenue_change"`
	Message        string   `json:"message"`
}

// CostRatioFinding reports a cost-to-revenue ratio above the threshold.
type CostRatioFinding struct {
	RiskDetected bool     `json:"risk_detected"`
	Severity     Severity `json:"severity"`
	CostRatio    float64  `json:"cost_ratio"`
	ProfitMargin float64  `json:"profit_margin"`
	Message      string   `json:"message"`
}

// MarginFinding reports an overall profit margin below the threshold.
type MarginFinding struct {
	RiskDetected bool     `json:"risk_detected"`
	Severity     Severity `json:"severity"`
	ProfitMargin float64  `json:"profit_margin"`
	TotalProfit  float64  `json:"total_profit"`
	Message      string   `json:"message"`
}

// UnderperformingProduct is one product whose margin fell below the
// per-product threshold.
type UnderperformingProduct struct {
	Product      string  `json:"product"`
	ProfitMargin float64 `json:"profit_margin"`
	Profit       float64 `json:"profit"`
	Revenue      float64 `json:"revenue"`
	Cost         float64 `json:"cost"`
}

// UnderperformingFinding lists low-margin products, worst first. This
// rule is binary: it carries no severity.
type UnderperformingFinding struct {
	RiskDetected bool                     `json:"risk_detected"`
	Products     []UnderperformingProduct `json:"underperforming_products"`
	Count        int                      `json:"count"`
	Message      string                   `json:"message"`
}

// DetectContinuousLosses flags thresholdDays or more consecutive
// negative-profit days. TotalLossAmount accumulates every negative day,
// streak member or not; LossDates holds the longest streak.
func DetectContinuousLosses(ds *dataset.Dataset, thresholdDays int) ContinuousLossFinding {
	finding := ContinuousLossFinding{Severity: SeverityLow, LossDates: []string{}}
	if ds.Empty() {
		finding.Message = "No data available"
		return finding
	}
	if !ds.HasColumn(dataset.FieldProfit) &&
		!(ds.HasColumn(dataset.FieldRevenue) && ds.HasColumn(dataset.FieldCost)) {
		finding.Message = "Required columns not found"
		return finding
	}
	if !ds.HasColumn(dataset.FieldDate) {
		finding.Message = "Date column not found"
		return finding
	}

	daily := trend.DailySeries(ds, func(r dataset.Record) float64 {
		if ds.HasColumn(dataset.FieldProfit) {
			return r.Profit
		}
		return r.Revenue - r.Cost
	})

	consecutive := 0
	maxConsecutive := 0
	totalLoss := 0.0
	var streakDates, maxStreakDates []string

	for _, p := range daily {
		if p.Value < 0 {
			consecutive++
			streakDates = append(streakDates, p.Date.Format("2006-01-02"))
			totalLoss += -p.Value
			if consecutive > maxConsecutive {
				maxConsecutive = consecutive
				maxStreakDates = append([]string(nil), streakDates...)
			}
		} else {
			consecutive = 0
			streakDates = nil
		}
	}

	finding.ConsecutiveLossDays = maxConsecutive
	finding.TotalLossAmount = totalLoss
	finding.RiskDetected = maxConsecutive >= thresholdDays
	if maxStreakDates != nil {
		finding.LossDates = maxStreakDates
	}

	switch {
	case maxConsecutive >= 7:
		finding.Severity = SeverityHigh
	case maxConsecutive >= 5:
		finding.Severity = SeverityMedium
	default:
		finding.Severity = SeverityLow
	}

	if finding.RiskDetected {
		finding.Message = fmt.Sprintf("Warning: %d consecutive days of losses detected. Total loss: $%s",
			maxConsecutive, money(totalLoss))
	} else {
		finding.Message = "No continuous loss pattern detected"
	}
	return finding
}

// DetectDecliningRevenue flags a first-vs-last daily revenue change at or
// below thresholdPercent (a negative value, e.g. -10).
func DetectDecliningRevenue(ds *dataset.Dataset, thresholdPercent float64) DecliningRevenueFinding {
	finding := DecliningRevenueFinding{Severity: SeverityLow}
	if ds.Empty() {
		finding.Message = "No data available"
		return finding
	}
	if !ds.HasColumn(dataset.FieldDate) || !ds.HasColumn(dataset.FieldRevenue) {
		finding.Message = "Required columns not found"
		return finding
	}

	daily := trend.DailySeries(ds, trend.RevenueOf)
	if len(daily) < 2 {
		finding.Message = "Insufficient data for trend analysis"
		return finding
	}

	first := daily[0].Value
	last := daily[len(daily)-1].Value
	change := last - first

	declinePercent := 0.0
	if first != 0 {
		declinePercent = change / first * 100
	}

	finding.DeclinePercent = declinePercent
	finding.RevenueChange = change
	finding.RiskDetected = declinePercent <= thresholdPercent

	switch {
	case declinePercent <= -20:
		finding.Severity = SeverityHigh
	case declinePercent <= -15:
		finding.Severity = SeverityMedium
	default:
		finding.Severity = SeverityLow
	}

	if finding.RiskDetected {
		finding.Message = fmt.Sprintf("Warning: Revenue declining by %.2f%%. Change: $%s",
			-declinePercent, money(change))
	} else {
		finding.Message = "Revenue trend is stable or growing"
	}
	return finding
}

// DetectHighCostRatio flags total_cost/total_revenue at or above
// thresholdRatio (e.g. 0.8 for 80% costs).
func DetectHighCostRatio(ds *dataset.Dataset, thresholdRatio float64) CostRatioFinding {
	finding := CostRatioFinding{Severity: SeverityLow}
	if ds.Empty() {
		finding.Message = "No data available"
		return finding
	}
	if !ds.HasColumn(dataset.FieldRevenue) || !ds.HasColumn(dataset.FieldCost) {
		finding.Message = "Required columns not found"
		return finding
	}

	totalRevenue := metrics.TotalRevenue(ds)
	totalCost := metrics.TotalCost(ds)
	if totalRevenue == 0 {
		finding.Message = "No revenue data"
		return finding
	}

	ratio := totalCost / totalRevenue
	margin := (totalRevenue - totalCost) / totalRevenue * 100

	finding.CostRatio = ratio
	finding.ProfitMargin = margin
	finding.RiskDetected = ratio >= thresholdRatio

	switch {
	case ratio >= 0.95:
		finding.Severity = SeverityHigh
	case ratio >= 0.85:
		finding.Severity = SeverityMedium
	default:
		finding.Severity = SeverityLow
	}

	if finding.RiskDetected {
		finding.Message = fmt.Sprintf("Warning: High cost ratio %.1f%%. Profit margin only %.1f%%", ratio*100, margin)
	} else {
		finding.Message = fmt.Sprintf("Cost ratio is healthy at %.1f%%", ratio*100)
	}
	return finding
}

// DetectLowProfitMargin flags an overall margin below thresholdMargin
// (percent). A negative margin, an actual loss, is always high severity.
func DetectLowProfitMargin(ds *dataset.Dataset, thresholdMargin float64) MarginFinding {
	finding := MarginFinding{Severity: SeverityLow}
	if ds.Empty() {
		finding.Message = "No data available"
		return finding
	}
	if !ds.HasColumn(dataset.FieldRevenue) || !ds.HasColumn(dataset.FieldCost) {
		finding.Message = "Required columns not found"
		return finding
	}

	totalRevenue := metrics.TotalRevenue(ds)
	totalCost := metrics.TotalCost(ds)
	totalProfit := totalRevenue - totalCost

	if totalRevenue == 0 {
		finding.Message = "No revenue data"
		return finding
	}

	margin := totalProfit / totalRevenue * 100
	finding.ProfitMargin = margin
	finding.TotalProfit = totalProfit
	finding.RiskDetected = margin < thresholdMargin

	switch {
	case margin < 0:
		finding.Severity = SeverityHigh
	case margin < 5:
		finding.Severity = SeverityMedium
	default:
		finding.Severity = SeverityLow
	}

	if finding.RiskDetected {
		if margin < 0 {
			finding.Message = fmt.Sprintf("Critical: Business is making losses. Profit margin: %.2f%%", margin)
		} else {
			finding.Message = fmt.Sprintf("Warning: Low profit margin %.2f%% (threshold: %g%%)", margin, thresholdMargin)
		}
	} else {
		finding.Message = fmt.Sprintf("Profit margin is healthy at %.2f%%", margin)
	}
	return finding
}

// DetectUnderperformingProducts lists products whose margin is below
// thresholdMargin (percent), worst first. Products with zero revenue are
// skipped: their margin is undefined under the zero-revenue rule.
func DetectUnderperformingProducts(ds *dataset.Dataset, thresholdMargin float64) UnderperformingFinding {
	finding := UnderperformingFinding{Products: []UnderperformingProduct{}}
	if ds.Empty() {
		finding.Message = "No data available"
		return finding
	}
	if !ds.HasColumn(dataset.FieldProduct) || !ds.HasColumn(dataset.FieldRevenue) || !ds.HasColumn(dataset.FieldCost) {
		finding.Message = "Required columns not found"
		return finding
	}

	type totals struct{ revenue, cost float64 }
	byProduct := make(map[string]*totals)
	var order []string
	for _, r := range ds.Records {
		t, ok := byProduct[r.ProductName]
		if !ok {
			t = &totals{}
			byProduct[r.ProductName] = t
			order = append(order, r.ProductName)
		}
		t.revenue += r.Revenue
		t.cost += r.Cost
	}

	for _, product := range order {
		t := byProduct[product]
		if t.revenue == 0 {
			continue
		}
		profit := t.revenue - t.cost
		margin := profit / t.revenue * 100
		if margin < thresholdMargin {
			finding.Products = append(finding.Products, UnderperformingProduct{
				Product:      product,
				ProfitMargin: margin,
				Profit:       profit,
				Revenue:      t.revenue,
				Cost:         t.cost,
			})
		}
	}

	sort.SliceStable(finding.Products, func(i, j int) bool {
		return finding.Products[i].ProfitMargin < finding.Products[j].ProfitMargin
	})

	finding.Count = len(finding.Products)
	finding.RiskDetected = finding.Count > 0
	if finding.RiskDetected {
		finding.Message = fmt.Sprintf("Warning: %d product(s) with margins below %g%%", finding.Count, thresholdMargin)
	} else {
		finding.Message = "All products performing well"
	}
	return finding
}
