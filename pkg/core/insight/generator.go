// Package insight produces narrative commentary over the computed
// metrics, trends and risks, optionally backed by an LLM. The analytic
// pipeline never depends on it succeeding: every outcome is a typed
// status, not an error.
package insight

import (
	"context"
	"fmt"
	"strings"

	"bizsight/pkg/core/agent"
	"bizsight/pkg/core/dataset"
	"bizsight/pkg/core/metrics"
	"bizsight/pkg/core/risk"
	"bizsight/pkg/core/trend"
)

// Status classifies the outcome of an insight request.
type Status string

const (
	StatusOK            Status = "ok"
	StatusUnavailable   Status = "unavailable" // no provider key configured
	StatusQuotaExceeded Status = "quota_exceeded"
	StatusFailed        Status = "failed"
)

// AgentInsights and AgentSummary are the configured agent types; each can
// be routed to its own provider/model in config/models.yaml.
const (
	AgentInsights = "insights"
	AgentSummary  = "summary"
)

// Result is one full insight generation outcome.
type Result struct {
	Status          Status   `json:"status"`
	Insights        string   `json:"insights"`
	KeyPoints       []string `json:"key_points"`
	Recommendations []string `json:"recommendations"`
	Err             string   `json:"error,omitempty"`
}

// SummaryResult is the outcome of the two-sentence quick summary.
type SummaryResult struct {
	Status  Status `json:"status"`
	Summary string `json:"summary"`
	Err     string `json:"error,omitempty"`
}

type Generator struct {
	mgr *agent.Manager
}

func NewGenerator(mgr *agent.Manager) *Generator {
	return &Generator{mgr: mgr}
}

const insightsPromptFormat = `
You are a business analyst AI.

Analyze the data below and respond in EXACTLY this format.
Do NOT add extra text.

DATA:
%s

FORMAT:

INSIGHTS:
<one paragraph>

KEY POINTS:
- Point 1
- Point 2
- Point 3

RECOMMENDATIONS:
- Recommendation 1
- Recommendation 2
- Recommendation 3
`

// BusinessInsights generates the three-section narrative for a dataset.
// Without a configured provider it degrades to a rule-based payload with
// StatusUnavailable; quota and transport failures map to their statuses
// with empty content.
func (g *Generator) BusinessInsights(ctx context.Context, ds *dataset.Dataset) Result {
	if ds.Empty() {
		return Result{Status: StatusFailed, KeyPoints: []string{}, Recommendations: []string{}, Err: "No data provided"}
	}

	m := metrics.AllMetrics(ds)
	t := trend.AllTrends(ds)
	r := risk.AllRisks(ds)
	summary := dataSummary(m, t, r)

	if !g.mgr.Available(AgentInsights) {
		return ruleBasedFallback(r)
	}

	prompt := fmt.Sprintf(insightsPromptFormat, summary)
	text, err := g.mgr.ExecutePrompt(ctx, AgentInsights, prompt, "", nil)
	if err != nil {
		return Result{
			Status:          classifyError(err),
			KeyPoints:       []string{},
			Recommendations: []string{},
			Err:             err.Error(),
		}
	}

	parsed := parseSections(text)
	return Result{
		Status:          StatusOK,
		Insights:        parsed.Insights,
		KeyPoints:       parsed.KeyPoints,
		Recommendations: parsed.Recommendations,
	}
}

// StructuredInsights is the JSON-mode variant of BusinessInsights, for
// clients that consume the sections programmatically. Malformed model
// JSON goes through repair; if it still will not parse, the raw text is
// run through the plaintext section parser instead of failing.
func (g *Generator) StructuredInsights(ctx context.Context, ds *dataset.Dataset) Result {
	if ds.Empty() {
		return Result{Status: StatusFailed, KeyPoints: []string{}, Recommendations: []string{}, Err: "No data provided"}
	}

	m := metrics.AllMetrics(ds)
	t := trend.AllTrends(ds)
	r := risk.AllRisks(ds)

	if !g.mgr.Available(AgentInsights) {
		return ruleBasedFallback(r)
	}

	prompt := fmt.Sprintf(`
You are a business analyst AI.

Analyze the data below and respond with a single JSON object with keys
"insights" (string), "key_points" (array of strings) and
"recommendations" (array of strings). No other text.

DATA:
%s
`, dataSummary(m, t, r))

	options := map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
	}
	text, err := g.mgr.ExecutePrompt(ctx, AgentInsights, prompt, "", options)
	if err != nil {
		return Result{
			Status:          classifyError(err),
			KeyPoints:       []string{},
			Recommendations: []string{},
			Err:             err.Error(),
		}
	}

	sections, err := ParseStructured(text)
	if err != nil {
		sections = parseSections(text)
	}
	return Result{
		Status:          StatusOK,
		Insights:        sections.Insights,
		KeyPoints:       sections.KeyPoints,
		Recommendations: sections.Recommendations,
	}
}

// QuickSummary asks for a two-sentence performance summary.
func (g *Generator) QuickSummary(ctx context.Context, ds *dataset.Dataset) SummaryResult {
	if ds.Empty() {
		return SummaryResult{Status: StatusFailed, Err: "No data"}
	}

	m := metrics.AllMetrics(ds)
	if !g.mgr.Available(AgentSummary) {
		return SummaryResult{
			Status:  StatusUnavailable,
			Summary: "Business summary unavailable (AI not configured).",
		}
	}

	prompt := fmt.Sprintf(`
Summarize the business performance in 2 sentences.

Revenue: %g
Cost: %g
Profit: %g
Margin: %g%%
`, m.TotalRevenue, m.TotalCost, m.TotalProfit, m.ProfitMargin)

	text, err := g.mgr.ExecutePrompt(ctx, AgentSummary, prompt, "", nil)
	if err != nil {
		return SummaryResult{Status: classifyError(err), Err: err.Error()}
	}
	return SummaryResult{Status: StatusOK, Summary: strings.TrimSpace(text)}
}

// dataSummary is the plaintext block handed to the model.
func dataSummary(m metrics.Summary, t trend.Report, r risk.Report) string {
	return fmt.Sprintf(`
Revenue: %g
Cost: %g
Profit: %g
Margin: %g%%

Revenue Trend: %s
Profit Trend: %s

Risk Level: %s
`, m.TotalRevenue, m.TotalCost, m.TotalProfit, m.ProfitMargin,
		t.RevenueTrend.Trend, t.ProfitTrend.Trend,
		r.Summary.OverallRiskLevel)
}

// ruleBasedFallback is the no-AI payload: the risk summary keeps the
// dashboard useful when no key is configured.
func ruleBasedFallback(r risk.Report) Result {
	keyPoints := []string{
		fmt.Sprintf("%d risk(s) detected", r.Summary.TotalRisksDetected),
		fmt.Sprintf("Overall risk level: %s", r.Summary.OverallRiskLevel),
	}
	if msgs := r.Messages(); len(msgs) > 0 {
		keyPoints = append(keyPoints, msgs[0])
	}
	return Result{
		Status:    StatusUnavailable,
		Insights:  "AI insights unavailable. Showing rule-based analysis only.",
		KeyPoints: keyPoints,
		Recommendations: []string{
			"Review pricing strategy",
			"Optimize inventory levels",
			"Focus on high-performing products",
		},
	}
}

// classifyError maps provider failures onto the typed statuses. Quota
// detection is substring-based because providers surface it as free text.
func classifyError(err error) Status {
	msg := err.Error()
	if strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "Quota") || strings.Contains(msg, "quota") {
		return StatusQuotaExceeded
	}
	if strings.Contains(msg, "environment variable not set") {
		return StatusUnavailable
	}
	return StatusFailed
}
