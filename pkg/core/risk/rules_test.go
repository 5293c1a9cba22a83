package risk

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bizsight/pkg/core/dataset"
)

var allColumns = []dataset.Field{
	dataset.FieldDate, dataset.FieldProduct, dataset.FieldQuantity,
	dataset.FieldSellingPrice, dataset.FieldRevenue, dataset.FieldCost, dataset.FieldProfit,
}

func d(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }

func profitDataset(profits ...float64) *dataset.Dataset {
	records := make([]dataset.Record, len(profits))
	for i, p := range profits {
		records[i] = dataset.Record{Date: d(i + 1), ProductName: "A", Profit: p}
	}
	return dataset.New(records, dataset.FieldDate, dataset.FieldProduct, dataset.FieldProfit)
}

func revenueDataset(revenues ...float64) *dataset.Dataset {
	records := make([]dataset.Record, len(revenues))
	for i, rev := range revenues {
		records[i] = dataset.Record{
			Date: d(i + 1), ProductName: "A",
			Revenue: rev, Cost: rev / 2, Profit: rev / 2,
		}
	}
	return dataset.New(records, allColumns...)
}

func TestDetectContinuousLosses(t *testing.T) {
	// Day 1: isolated loss of 100. Day 2: gain. Days 3-7: streak of five
	// 10-unit losses. Max streak 5 -> detected at threshold 3, medium band.
	ds := profitDataset(-100, 50, -10, -10, -10, -10, -10)
	f := DetectContinuousLosses(ds, 3)

	if !f.RiskDetected {
		t.Error("Expected detection at streak 5")
	}
	if f.ConsecutiveLossDays != 5 {
		t.Errorf("Expected 5 consecutive days, got %d", f.ConsecutiveLossDays)
	}
	if f.Severity != SeverityMedium {
		t.Errorf("Expected medium severity at 5 days, got %s", f.Severity)
	}
	// Total loss counts every negative day, streak member or not:
	// 100 + 5*10 = 150.
	if math.Abs(f.TotalLossAmount-150) > 0.0001 {
		t.Errorf("Expected total loss 150, got %f", f.TotalLossAmount)
	}
	// LossDates holds the longest streak only.
	if len(f.LossDates) != 5 || f.LossDates[0] != "2024-01-03" || f.LossDates[4] != "2024-01-07" {
		t.Errorf("Expected the 5-day streak dates, got %v", f.LossDates)
	}
	if f.Message != "Warning: 5 consecutive days of losses detected. Total loss: $150.00" {
		t.Errorf("Unexpected message: %s", f.Message)
	}
}

func TestDetectContinuousLossesSeverityBands(t *testing.T) {
	// 7 consecutive losses is the high band.
	f := DetectContinuousLosses(profitDataset(-1, -1, -1, -1, -1, -1, -1), 3)
	if f.Severity != SeverityHigh {
		t.Errorf("Expected high severity at 7 days, got %s", f.Severity)
	}

	// 2 losses: undetected, low, friendly message.
	f = DetectContinuousLosses(profitDataset(-1, -1, 1), 3)
	if f.RiskDetected || f.Severity != SeverityLow {
		t.Errorf("Expected undetected/low at 2 days, got %+v", f)
	}
	if f.Message != "No continuous loss pattern detected" {
		t.Errorf("Unexpected message: %s", f.Message)
	}
}

func TestDetectDecliningRevenue(t *testing.T) {
	// 100 -> 75 is -25%: detected at threshold -10, high band (<= -20).
	f := DetectDecliningRevenue(revenueDataset(100, 75), -10)
	if !f.RiskDetected {
		t.Error("Expected detection at -25%")
	}
	if math.Abs(f.DeclinePercent-(-25)) > 0.0001 {
		t.Errorf("Expected decline -25, got %f", f.DeclinePercent)
	}
	if f.RevenueChange != -25 {
		t.Errorf("Expected change -25, got %f", f.RevenueChange)
	}
	if f.Severity != SeverityHigh {
		t.Errorf("Expected high severity, got %s", f.Severity)
	}

	// -18% is the medium band.
	f = DetectDecliningRevenue(revenueDataset(100, 82), -10)
	if f.Severity != SeverityMedium {
		t.Errorf("Expected medium severity at -18%%, got %s", f.Severity)
	}

	// Growth never triggers.
	f = DetectDecliningRevenue(revenueDataset(100, 120), -10)
	if f.RiskDetected {
		t.Error("Growth should not be a decline risk")
	}
	if f.Message != "Revenue trend is stable or growing" {
		t.Errorf("Unexpected message: %s", f.Message)
	}
}

func TestDetectHighCostRatio(t *testing.T) {
	records := []dataset.Record{
		{Date: d(1), ProductName: "A", Revenue: 100, Cost: 96, Profit: 4},
	}
	ds := dataset.New(records, allColumns...)

	// ratio 0.96 >= 0.95: detected, high band, margin 4%.
	f := DetectHighCostRatio(ds, 0.8)
	if !f.RiskDetected || f.Severity != SeverityHigh {
		t.Errorf("Expected detected/high at ratio 0.96, got %+v", f)
	}
	if math.Abs(f.CostRatio-0.96) > 0.0001 {
		t.Errorf("Expected ratio 0.96, got %f", f.CostRatio)
	}
	if math.Abs(f.ProfitMargin-4.0) > 0.0001 {
		t.Errorf("Expected margin 4.0, got %f", f.ProfitMargin)
	}
}

func TestDetectLowProfitMargin(t *testing.T) {
	// Loss-making: margin -50%, always high, "Critical" message.
	records := []dataset.Record{
		{Date: d(1), ProductName: "A", Revenue: 100, Cost: 150, Profit: -50},
	}
	ds := dataset.New(records, allColumns...)

	f := DetectLowProfitMargin(ds, 10)
	if !f.RiskDetected || f.Severity != SeverityHigh {
		t.Errorf("Expected detected/high at a loss, got %+v", f)
	}
	if f.Message != "Critical: Business is making losses. Profit margin: -50.00%" {
		t.Errorf("Unexpected message: %s", f.Message)
	}

	// Thin but positive margin 3%: medium band.
	records = []dataset.Record{
		{Date: d(1), ProductName: "A", Revenue: 100, Cost: 97, Profit: 3},
	}
	f = DetectLowProfitMargin(dataset.New(records, allColumns...), 10)
	if !f.RiskDetected || f.Severity != SeverityMedium {
		t.Errorf("Expected detected/medium at 3%%, got %+v", f)
	}
}

func TestDetectUnderperformingProducts(t *testing.T) {
	records := []dataset.Record{
		// Healthy: margin 50%
		{Date: d(1), ProductName: "Healthy", Revenue: 100, Cost: 50, Profit: 50},
		// Weak: margin 2%
		{Date: d(1), ProductName: "Weak", Revenue: 100, Cost: 98, Profit: 2},
		// Bleeding: margin -20%
		{Date: d(1), ProductName: "Bleeding", Revenue: 100, Cost: 120, Profit: -20},
		// ZeroRev: margin undefined, skipped
		{Date: d(1), ProductName: "ZeroRev", Revenue: 0, Cost: 10, Profit: -10},
	}
	ds := dataset.New(records, allColumns...)

	f := DetectUnderperformingProducts(ds, 5)
	if !f.RiskDetected || f.Count != 2 {
		t.Fatalf("Expected 2 underperformers, got %+v", f)
	}
	// Worst first.
	if f.Products[0].Product != "Bleeding" || f.Products[1].Product != "Weak" {
		t.Errorf("Expected worst-first ordering, got %v", f.Products)
	}
	if math.Abs(f.Products[0].ProfitMargin-(-20)) > 0.0001 {
		t.Errorf("Expected margin -20, got %f", f.Products[0].ProfitMargin)
	}
}

func TestAllRisksSummary(t *testing.T) {
	// Flat loss-making business: revenue 100/cost 150 both days.
	//  - continuous losses: streak 2 < 3, undetected, low
	//  - declining revenue: 0% change, undetected, low
	//  - cost ratio: 1.5 >= 0.8, detected, high band (>= 0.95)
	//  - profit margin: -50%, detected, high (loss)
	//  - underperforming: detected (margin -50 < 5), no severity
	records := []dataset.Record{
		{Date: d(1), ProductName: "A", Revenue: 100, Cost: 150, Profit: -50},
		{Date: d(2), ProductName: "A", Revenue: 100, Cost: 150, Profit: -50},
	}
	ds := dataset.New(records, allColumns...)

	report := AllRisks(ds)
	s := report.Summary
	if s.TotalRisksDetected != 3 {
		t.Errorf("Expected 3 detections, got %d", s.TotalRisksDetected)
	}
	if s.HighSeverityCount != 2 {
		t.Errorf("Expected 2 high, got %d", s.HighSeverityCount)
	}
	if s.MediumSeverityCount != 0 || s.LowSeverityCount != 0 {
		t.Errorf("Expected no medium/low counts, got %+v", s)
	}
	if s.OverallRiskLevel != "high" {
		t.Errorf("Expected overall high, got %s", s.OverallRiskLevel)
	}

	msgs := report.Messages()
	if len(msgs) != 3 {
		t.Errorf("Expected 3 messages, got %v", msgs)
	}
}

func TestAllRisksHealthy(t *testing.T) {
	// Growing, profitable, cheap to run: nothing triggers.
	records := []dataset.Record{
		{Date: d(1), ProductName: "A", Revenue: 100, Cost: 50, Profit: 50},
		{Date: d(2), ProductName: "A", Revenue: 110, Cost: 55, Profit: 55},
	}
	ds := dataset.New(records, allColumns...)

	s := AllRisks(ds).Summary
	if s.TotalRisksDetected != 0 {
		t.Errorf("Expected 0 detections, got %d", s.TotalRisksDetected)
	}
	if s.OverallRiskLevel != "none" {
		t.Errorf("Expected overall none, got %s", s.OverallRiskLevel)
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999.9, "999.90"},
		{1234.5, "1,234.50"},
		{1234567.891, "1,234,567.89"},
		{-1234.5, "-1,234.50"},
		{999.999, "1,000.00"},
	}
	for _, c := range cases {
		if got := money(c.in); got != c.want {
			t.Errorf("money(%f) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestLoadThresholds(t *testing.T) {
	// Missing file: defaults, no error.
	th, err := LoadThresholds("does/not/exist.hjson")
	if err != nil {
		t.Fatalf("Missing file should not error: %v", err)
	}
	if th != DefaultThresholds() {
		t.Errorf("Expected defaults, got %+v", th)
	}
}

func TestLoadThresholdsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.hjson")
	content := "{\n  // partial override\n  loss_threshold_days: 5\n  cost_ratio: 0.9\n}"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	th, err := LoadThresholds(path)
	if err != nil {
		t.Fatalf("LoadThresholds failed: %v", err)
	}
	if th.LossThresholdDays != 5 {
		t.Errorf("Expected override 5, got %d", th.LossThresholdDays)
	}
	if th.CostRatio != 0.9 {
		t.Errorf("Expected override 0.9, got %f", th.CostRatio)
	}
	// Keys not in the file keep their defaults.
	if th.MinProfitMarginPct != 10.0 {
		t.Errorf("Expected default 10.0, got %f", th.MinProfitMarginPct)
	}
}
