package insight

import (
	"context"
	"testing"
	"time"

	"bizsight/pkg/core/agent"
	"bizsight/pkg/core/dataset"
	"bizsight/pkg/core/llm"
)

func testDataset() *dataset.Dataset {
	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	records := []dataset.Record{
		{Date: d(1), ProductName: "A", Revenue: 100, Cost: 50, Profit: 50},
		{Date: d(2), ProductName: "A", Revenue: 110, Cost: 55, Profit: 55},
	}
	return dataset.New(records,
		dataset.FieldDate, dataset.FieldProduct, dataset.FieldQuantity,
		dataset.FieldSellingPrice, dataset.FieldRevenue, dataset.FieldCost, dataset.FieldProfit)
}

func managerWith(response string) *agent.Manager {
	mgr := agent.NewManager(agent.Config{ActiveProvider: "static"})
	mgr.RegisterProvider("static", &llm.StaticProvider{Response: response})
	return mgr
}

func TestBusinessInsightsOK(t *testing.T) {
	response := `INSIGHTS:
Revenue grew over the period.

KEY POINTS:
- Revenue up 10%

RECOMMENDATIONS:
- Maintain current pricing
`
	g := NewGenerator(managerWith(response))
	res := g.BusinessInsights(context.Background(), testDataset())

	if res.Status != StatusOK {
		t.Fatalf("Expected ok, got %s (%s)", res.Status, res.Err)
	}
	if res.Insights != "Revenue grew over the period." {
		t.Errorf("Insights wrong: %q", res.Insights)
	}
	if len(res.KeyPoints) != 1 || res.KeyPoints[0] != "Revenue up 10%" {
		t.Errorf("Key points wrong: %v", res.KeyPoints)
	}
}

func TestBusinessInsightsFallback(t *testing.T) {
	// An empty static response reports the provider as unconfigured, which
	// routes to the rule-based payload.
	g := NewGenerator(managerWith(""))
	res := g.BusinessInsights(context.Background(), testDataset())

	if res.Status != StatusUnavailable {
		t.Fatalf("Expected unavailable, got %s", res.Status)
	}
	if res.Insights != "AI insights unavailable. Showing rule-based analysis only." {
		t.Errorf("Fallback insights wrong: %q", res.Insights)
	}
	if len(res.KeyPoints) < 2 {
		t.Errorf("Fallback should carry the risk summary, got %v", res.KeyPoints)
	}
	if len(res.Recommendations) != 3 {
		t.Errorf("Fallback should carry 3 stock recommendations, got %v", res.Recommendations)
	}
}

func TestBusinessInsightsEmptyDataset(t *testing.T) {
	g := NewGenerator(managerWith("anything"))
	res := g.BusinessInsights(context.Background(), nil)
	if res.Status != StatusFailed {
		t.Errorf("Expected failed on nil dataset, got %s", res.Status)
	}
}

func TestStructuredInsights(t *testing.T) {
	response := `{"insights": "Solid growth.", "key_points": ["Up 10%"], "recommendations": ["Hold course"]}`
	g := NewGenerator(managerWith(response))
	res := g.StructuredInsights(context.Background(), testDataset())

	if res.Status != StatusOK {
		t.Fatalf("Expected ok, got %s (%s)", res.Status, res.Err)
	}
	if res.Insights != "Solid growth." || res.KeyPoints[0] != "Up 10%" {
		t.Errorf("Structured sections wrong: %+v", res)
	}
}

func TestStructuredInsightsPlaintextRescue(t *testing.T) {
	// A model that ignores JSON mode still produces a usable result via
	// the plaintext section parser.
	g := NewGenerator(managerWith("Things are broadly fine."))
	res := g.StructuredInsights(context.Background(), testDataset())

	if res.Status != StatusOK {
		t.Fatalf("Expected ok, got %s", res.Status)
	}
	if res.Insights != "Things are broadly fine." {
		t.Errorf("Rescued insights wrong: %q", res.Insights)
	}
}

func TestQuickSummary(t *testing.T) {
	g := NewGenerator(managerWith("Revenue is up. Costs are under control.\n"))
	res := g.QuickSummary(context.Background(), testDataset())

	if res.Status != StatusOK {
		t.Fatalf("Expected ok, got %s", res.Status)
	}
	if res.Summary != "Revenue is up. Costs are under control." {
		t.Errorf("Summary not trimmed: %q", res.Summary)
	}

	res = NewGenerator(managerWith("")).QuickSummary(context.Background(), testDataset())
	if res.Status != StatusUnavailable {
		t.Errorf("Expected unavailable without a provider, got %s", res.Status)
	}
}
