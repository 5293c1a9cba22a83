package report

import (
	"strings"
	"testing"
	"time"

	"bizsight/pkg/core/dataset"
	"bizsight/pkg/core/insight"
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

func TestGenerateLayout(t *testing.T) {
	got := Generate(
		[]KeyMetric{{"Total Revenue", "$100.00"}},
		nil,
		"none",
	)
	want := "BIZSIGHT BUSINESS REPORT\n" +
		"------------------------------\n" +
		"\nKEY METRICS:\n" +
		"Total Revenue: $100.00\n" +
		"\nDETECTED RISKS:\n" +
		"No major risks detected\n" +
		"\nAI INSIGHTS:\n" +
		"none"
	if got != want {
		t.Errorf("Report layout wrong.\nGot:\n%s\nWant:\n%s", got, want)
	}
}

func TestGenerateWithRisks(t *testing.T) {
	got := Generate(nil, []string{"Warning: something", "Critical: something else"}, "n/a")
	if !strings.Contains(got, "- Warning: something\n- Critical: something else") {
		t.Errorf("Risk bullets missing:\n%s", got)
	}
	if strings.Contains(got, "No major risks detected") {
		t.Error("No-risk line should not appear when risks exist")
	}
}

func TestBuild(t *testing.T) {
	got := Build(testDataset(), nil)
	if !strings.HasPrefix(got, "BIZSIGHT BUSINESS REPORT") {
		t.Errorf("Missing title:\n%s", got)
	}
	// Revenue 210, cost 105, profit 105, margin 50%.
	if !strings.Contains(got, "Total Revenue: $210.00") {
		t.Errorf("Missing revenue line:\n%s", got)
	}
	if !strings.Contains(got, "Profit Margin: 50.00%") {
		t.Errorf("Missing margin line:\n%s", got)
	}
	// 100 -> 110 is +10%: increasing.
	if !strings.Contains(got, "Revenue Trend: increasing") {
		t.Errorf("Missing trend line:\n%s", got)
	}
	if !strings.Contains(got, "AI insights not requested") {
		t.Errorf("Missing no-AI placeholder:\n%s", got)
	}
}

func TestBuildWithInsights(t *testing.T) {
	res := &insight.Result{
		Status:          insight.StatusOK,
		Insights:        "Growth looks sustainable.",
		KeyPoints:       []string{"Revenue up 10%"},
		Recommendations: []string{"Hold pricing"},
	}
	got := Build(testDataset(), res)
	if !strings.Contains(got, "Growth looks sustainable.") {
		t.Errorf("Missing insight paragraph:\n%s", got)
	}
	if !strings.Contains(got, "Key Points:\n- Revenue up 10%") {
		t.Errorf("Missing key points:\n%s", got)
	}
	if !strings.Contains(got, "Recommendations:\n- Hold pricing") {
		t.Errorf("Missing recommendations:\n%s", got)
	}
}

func TestBuildQuotaExceeded(t *testing.T) {
	got := Build(testDataset(), &insight.Result{Status: insight.StatusQuotaExceeded})
	if !strings.Contains(got, "AI unavailable: quota exceeded") {
		t.Errorf("Missing quota line:\n%s", got)
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML("# Title\n\n- bullet\n")
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	if !strings.Contains(html, "<h1>Title</h1>") {
		t.Errorf("Heading not rendered: %s", html)
	}
	if !strings.Contains(html, "<li>bullet</li>") {
		t.Errorf("List not rendered: %s", html)
	}
}

func TestCleanMarkdown(t *testing.T) {
	if got := CleanMarkdown("```markdown\n# Hi\n```"); got != "# Hi" {
		t.Errorf("markdown fence not stripped: %q", got)
	}
	if got := CleanMarkdown("```\n# Hi\n```"); got != "# Hi" {
		t.Errorf("bare fence not stripped: %q", got)
	}
	if got := CleanMarkdown("# Hi"); got != "# Hi" {
		t.Errorf("unfenced input changed: %q", got)
	}
}
