package metrics

import (
	"math"
	"testing"
	"time"

	"bizsight/pkg/core/dataset"
)

func testDataset() *dataset.Dataset {
	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	records := []dataset.Record{
		{Date: d(1), ProductName: "A", Quantity: 10, Revenue: 1000, Cost: 700, Profit: 300},
		{Date: d(2), ProductName: "B", Quantity: 15, Revenue: 1500, Cost: 900, Profit: 600},
		{Date: d(3), ProductName: "A", Quantity: 12, Revenue: 1200, Cost: 800, Profit: 400},
	}
	return dataset.New(records,
		dataset.FieldDate, dataset.FieldProduct, dataset.FieldQuantity,
		dataset.FieldSellingPrice, dataset.FieldRevenue, dataset.FieldCost, dataset.FieldProfit)
}

func TestAllMetrics(t *testing.T) {
	m := AllMetrics(testDataset())

	// Revenue = 1000 + 1500 + 1200 = 3700
	// Cost    =  700 +  900 +  800 = 2400
	// Profit  = 3700 - 2400        = 1300
	// Margin  = 1300 / 3700 * 100  = 35.1351...
	if m.TotalRevenue != 3700 {
		t.Errorf("Expected revenue 3700, got %f", m.TotalRevenue)
	}
	if m.TotalCost != 2400 {
		t.Errorf("Expected cost 2400, got %f", m.TotalCost)
	}
	if m.TotalProfit != 1300 {
		t.Errorf("Expected profit 1300, got %f", m.TotalProfit)
	}
	if math.Abs(m.ProfitMargin-35.1351) > 0.0001 {
		t.Errorf("Expected margin 35.1351, got %f", m.ProfitMargin)
	}

	// Product A: revenue 2200, cost 1500, profit 700, margin 31.8181...
	a, ok := m.ProductSummary["A"]
	if !ok {
		t.Fatal("Product A missing from summary")
	}
	if a.Revenue != 2200 || a.Cost != 1500 || a.Profit != 700 {
		t.Errorf("Product A totals wrong: %+v", a)
	}
	if math.Abs(a.Margin-31.8181) > 0.0001 {
		t.Errorf("Expected product A margin 31.8181, got %f", a.Margin)
	}
	if a.Quantity != 22 {
		t.Errorf("Expected product A quantity 22, got %f", a.Quantity)
	}
}

func TestProfitMarginZeroRevenue(t *testing.T) {
	records := []dataset.Record{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ProductName: "A", Revenue: 0, Cost: 50, Profit: -50},
	}
	ds := dataset.New(records,
		dataset.FieldDate, dataset.FieldProduct, dataset.FieldQuantity,
		dataset.FieldRevenue, dataset.FieldCost, dataset.FieldProfit)

	// Margin is defined as 0 at zero revenue, even with a loss.
	if got := ProfitMargin(ds); got != 0 {
		t.Errorf("Expected margin 0 at zero revenue, got %f", got)
	}
	if got := TotalProfit(ds); got != -50 {
		t.Errorf("Expected profit -50, got %f", got)
	}
}

func TestMetricsEmptyDataset(t *testing.T) {
	var ds *dataset.Dataset
	if TotalRevenue(ds) != 0 || TotalCost(ds) != 0 || TotalProfit(ds) != 0 || ProfitMargin(ds) != 0 {
		t.Error("Nil dataset should produce zero metrics")
	}
	if len(ProductWiseSummary(ds)) != 0 {
		t.Error("Nil dataset should produce an empty product summary")
	}
}

func TestMetricsSkipNaN(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []dataset.Record{
		{Date: d, ProductName: "A", Revenue: 100, Cost: 40, Profit: 60},
		{Date: d, ProductName: "A", Revenue: math.NaN(), Cost: math.NaN(), Profit: math.NaN()},
	}
	ds := dataset.New(records,
		dataset.FieldDate, dataset.FieldProduct, dataset.FieldRevenue,
		dataset.FieldCost, dataset.FieldProfit)

	if got := TotalRevenue(ds); got != 100 {
		t.Errorf("NaN cells should count as 0, got revenue %f", got)
	}
	if got := TotalProfit(ds); got != 60 {
		t.Errorf("NaN cells should count as 0, got profit %f", got)
	}
}
