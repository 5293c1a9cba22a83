package risk

import (
	"fmt"
	"math"
	"strings"

	"bizsight/pkg/core/dataset"
)

// Summary counts detections by severity and derives one overall level.
type Summary struct {
	TotalRisksDetected  int    `json:"total_risks_detected"`
	HighSeverityCount   int    `json:"high_severity_count"`
	MediumSeverityCount int    `json:"medium_severity_count"`
	LowSeverityCount    int    `json:"low_severity_count"`
	OverallRiskLevel    string `json:"overall_risk_level"`
}

// Report is the full output of one risk evaluation pass.
type Report struct {
	ContinuousLosses        ContinuousLossFinding   `json:"continuous_losses"`
	DecliningRevenue        DecliningRevenueFinding `json:"declining_revenue"`
	HighCostRatio           CostRatioFinding        `json:"high_cost_ratio"`
	LowProfitMargin         MarginFinding           `json:"low_profit_margin"`
	UnderperformingProducts UnderperformingFinding  `json:"underperforming_products"`
	Summary                 Summary                 `json:"summary"`
}

// AllRisks runs every rule with the default thresholds.
func AllRisks(ds *dataset.Dataset) Report {
	return AllRisksWith(ds, DefaultThresholds())
}

// AllRisksWith runs every rule with the given thresholds and aggregates
// the findings. Overall level: high if any high-severity finding exists,
// else medium if any medium, else low if any detected low, else none.
func AllRisksWith(ds *dataset.Dataset, th Thresholds) Report {
	report := Report{
		ContinuousLosses:        DetectContinuousLosses(ds, th.LossThresholdDays),
		DecliningRevenue:        DetectDecliningRevenue(ds, th.RevenueDeclinePct),
		HighCostRatio:           DetectHighCostRatio(ds, th.CostRatio),
		LowProfitMargin:         DetectLowProfitMargin(ds, th.MinProfitMarginPct),
		UnderperformingProducts: DetectUnderperformingProducts(ds, th.MinProductMarginPct),
	}

	detected := []bool{
		report.ContinuousLosses.RiskDetected,
		report.DecliningRevenue.RiskDetected,
		report.HighCostRatio.RiskDetected,
		report.LowProfitMargin.RiskDetected,
		report.UnderperformingProducts.RiskDetected,
	}
	// The underperforming-products rule is binary; it contributes to the
	// total but never to a severity count.
	severities := []struct {
		severity Severity
		detected bool
	}{
		{report.ContinuousLosses.Severity, report.ContinuousLosses.RiskDetected},
		{report.DecliningRevenue.Severity, report.DecliningRevenue.RiskDetected},
		{report.HighCostRatio.Severity, report.HighCostRatio.RiskDetected},
		{report.LowProfitMargin.Severity, report.LowProfitMargin.RiskDetected},
	}

	s := Summary{}
	for _, d := range detected {
		if d {
			s.TotalRisksDetected++
		}
	}
	for _, item := range severities {
		switch item.severity {
		case SeverityHigh:
			s.HighSeverityCount++
		case SeverityMedium:
			s.MediumSeverityCount++
		case SeverityLow:
			if item.detected {
				s.LowSeverityCount++
			}
		}
	}

	switch {
	case s.HighSeverityCount > 0:
		s.OverallRiskLevel = "high"
	case s.MediumSeverityCount > 0:
		s.OverallRiskLevel = "medium"
	case s.LowSeverityCount > 0:
		s.OverallRiskLevel = "low"
	default:
		s.OverallRiskLevel = "none"
	}

	report.Summary = s
	return report
}

// Messages returns the messages of all detected findings, for reports.
func (r Report) Messages() []string {
	var out []string
	if r.ContinuousLosses.RiskDetected {
		out = append(out, r.ContinuousLosses.Message)
	}
	if r.DecliningRevenue.RiskDetected {
		out = append(out, r.DecliningRevenue.Message)
	}
	if r.HighCostRatio.RiskDetected {
		out = append(out, r.HighCostRatio.Message)
	}
	if r.LowProfitMargin.RiskDetected {
		out = append(out, r.LowProfitMargin.Message)
	}
	if r.UnderperformingProducts.RiskDetected {
		out = append(out, r.UnderperformingProducts.Message)
	}
	return out
}

// money formats an amount with thousands separators and two decimals,
// e.g. 12345.6 -> "12,345.60".
func money(v float64) string {
	neg := v < 0
	v = math.Abs(v)

	whole := int64(v)
	frac := int64(math.Round((v - float64(whole)) * 100))
	if frac == 100 {
		whole++
		frac = 0
	}

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := fmt.Sprintf("%s.%02d", strings.Join(groups, ","), frac)
	if neg {
		out = "-" + out
	}
	return out
}
