package insight

import (
	"testing"
)

func TestParseSections(t *testing.T) {
	text := `INSIGHTS:
Revenue is growing steadily.
Margins remain healthy.

KEY POINTS:
- Revenue up 12%
• Costs flat
* Product A leads

RECOMMENDATIONS:
- Expand product A
- Review supplier contracts
`
	s := parseSections(text)
	if s.Insights != "Revenue is growing steadily. Margins remain healthy." {
		t.Errorf("Insights paragraph wrong: %q", s.Insights)
	}
	if len(s.KeyPoints) != 3 || s.KeyPoints[1] != "Costs flat" {
		t.Errorf("Key points wrong: %v", s.KeyPoints)
	}
	if len(s.Recommendations) != 2 || s.Recommendations[0] != "Expand product A" {
		t.Errorf("Recommendations wrong: %v", s.Recommendations)
	}
}

func TestParseSectionsNoHeaders(t *testing.T) {
	// A free-text response becomes the insights paragraph; the lists get
	// placeholder entries.
	s := parseSections("The business looks fine overall.")
	if s.Insights != "The business looks fine overall." {
		t.Errorf("Fallback insights wrong: %q", s.Insights)
	}
	if len(s.KeyPoints) != 1 || s.KeyPoints[0] != "No key points generated" {
		t.Errorf("Expected key point placeholder, got %v", s.KeyPoints)
	}
	if len(s.Recommendations) != 1 || s.Recommendations[0] != "No recommendations generated" {
		t.Errorf("Expected recommendation placeholder, got %v", s.Recommendations)
	}
}

func TestParseStructured(t *testing.T) {
	raw := `{"insights": "Solid quarter.", "key_points": ["Revenue up"], "recommendations": ["Keep going"]}`
	s, err := ParseStructured(raw)
	if err != nil {
		t.Fatalf("ParseStructured failed: %v", err)
	}
	if s.Insights != "Solid quarter." || s.KeyPoints[0] != "Revenue up" {
		t.Errorf("Parsed sections wrong: %+v", s)
	}
}

func TestParseStructuredFenced(t *testing.T) {
	raw := "```json\n{\"insights\": \"Solid quarter.\", \"key_points\": [], \"recommendations\": []}\n```"
	s, err := ParseStructured(raw)
	if err != nil {
		t.Fatalf("ParseStructured failed on fenced JSON: %v", err)
	}
	if s.Insights != "Solid quarter." {
		t.Errorf("Fenced JSON not parsed: %+v", s)
	}
	// Empty lists get placeholders.
	if s.KeyPoints[0] != "No key points generated" {
		t.Errorf("Expected placeholder, got %v", s.KeyPoints)
	}
}

func TestParseStructuredMalformed(t *testing.T) {
	// Trailing comma and unquoted key: rejected by the strict decoder,
	// recovered by the repair pass.
	raw := `{insights: "Solid quarter.", "key_points": ["Revenue up",], "recommendations": []}`
	s, err := ParseStructured(raw)
	if err != nil {
		t.Fatalf("ParseStructured failed on repairable JSON: %v", err)
	}
	if s.Insights != "Solid quarter." {
		t.Errorf("Repaired JSON not parsed: %+v", s)
	}
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		msg  string
		want Status
	}{
		{"googleapi: Error 429: RESOURCE_EXHAUSTED", StatusQuotaExceeded},
		{"Quota exceeded for model", StatusQuotaExceeded},
		{"GEMINI_API_KEY environment variable not set", StatusUnavailable},
		{"connection refused", StatusFailed},
	}
	for _, c := range cases {
		if got := classifyError(errString(c.msg)); got != c.want {
			t.Errorf("classifyError(%q) = %s, want %s", c.msg, got, c.want)
		}
	}
}

type errString string

func (e errString) Error() string { return string(e) }
