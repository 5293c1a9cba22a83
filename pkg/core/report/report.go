// Package report renders the analysis results as a flat text report and
// as markdown/HTML for the dashboard.
package report

import (
	"fmt"
	"strings"

	"bizsight/pkg/core/dataset"
	"bizsight/pkg/core/insight"
	"bizsight/pkg/core/metrics"
	"bizsight/pkg/core/risk"
	"bizsight/pkg/core/trend"
)

const separatorLength = 30

// KeyMetric is one labeled line in the KEY METRICS section. A slice keeps
// the report ordering deterministic.
type KeyMetric struct {
	Name  string
	Value string
}

// Generate renders the flat text report: title, key-metric lines, risk
// messages (or the no-risk line) and the AI insights block.
func Generate(keyMetrics []KeyMetric, risks []string, aiInsights string) string {
	var lines []string

	lines = append(lines, "BIZSIGHT BUSINESS REPORT")
	lines = append(lines, strings.Repeat("-", separatorLength))

	lines = append(lines, "\nKEY METRICS:")
	for _, m := range keyMetrics {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Name, m.Value))
	}

	lines = append(lines, "\nDETECTED RISKS:")
	if len(risks) > 0 {
		for _, r := range risks {
			lines = append(lines, fmt.Sprintf("- %s", r))
		}
	} else {
		lines = append(lines, "No major risks detected")
	}

	lines = append(lines, "\nAI INSIGHTS:")
	lines = append(lines, aiInsights)

	return strings.Join(lines, "\n")
}

// Build assembles the standard report for a dataset: all metrics and
// trends as key-metric lines, detected risk messages, and whatever the
// insight pass produced (res may be nil when AI was not requested).
func Build(ds *dataset.Dataset, res *insight.Result) string {
	return Generate(keyMetrics(ds), risk.AllRisks(ds).Messages(), insightsBlock(res))
}

func keyMetrics(ds *dataset.Dataset) []KeyMetric {
	m := metrics.AllMetrics(ds)
	t := trend.AllTrends(ds)
	return []KeyMetric{
		{"Total Revenue", fmt.Sprintf("$%.2f", m.TotalRevenue)},
		{"Total Cost", fmt.Sprintf("$%.2f", m.TotalCost)},
		{"Total Profit", fmt.Sprintf("$%.2f", m.TotalProfit)},
		{"Profit Margin", fmt.Sprintf("%.2f%%", m.ProfitMargin)},
		{"Revenue Trend", t.RevenueTrend.Trend},
		{"Profit Trend", t.ProfitTrend.Trend},
	}
}

func insightsBlock(res *insight.Result) string {
	if res == nil {
		return "AI insights not requested"
	}
	switch res.Status {
	case insight.StatusOK, insight.StatusUnavailable:
		var b strings.Builder
		b.WriteString(res.Insights)
		if len(res.KeyPoints) > 0 {
			b.WriteString("\n\nKey Points:")
			for _, p := range res.KeyPoints {
				b.WriteString(fmt.Sprintf("\n- %s", p))
			}
		}
		if len(res.Recommendations) > 0 {
			b.WriteString("\n\nRecommendations:")
			for _, r := range res.Recommendations {
				b.WriteString(fmt.Sprintf("\n- %s", r))
			}
		}
		return b.String()
	case insight.StatusQuotaExceeded:
		return "AI unavailable: quota exceeded"
	default:
		return fmt.Sprintf("AI unavailable: %s", res.Err)
	}
}
