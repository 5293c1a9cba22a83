package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// Sections is the parsed three-section narrative.
type Sections struct {
	Insights        string   `json:"insights"`
	KeyPoints       []string `json:"key_points"`
	Recommendations []string `json:"recommendations"`
}

// parseSections splits the model output on the INSIGHTS / KEY POINTS /
// RECOMMENDATIONS headers. The format is loosely enforced: if the headers
// are missing the whole response becomes the insights paragraph, and
// empty bullet lists get placeholder entries.
func parseSections(text string) Sections {
	var insights strings.Builder
	keyPoints := []string{}
	recommendations := []string{}
	section := ""

	for _, line := range strings.Split(text, "\n") {
		l := strings.TrimSpace(line)
		upper := strings.ToUpper(l)

		switch {
		case strings.HasPrefix(upper, "INSIGHTS"):
			section = "insights"
			continue
		case strings.HasPrefix(upper, "KEY"):
			section = "key"
			continue
		case strings.HasPrefix(upper, "RECOMMEND"):
			section = "rec"
			continue
		}

		switch section {
		case "insights":
			if l != "" {
				if insights.Len() > 0 {
					insights.WriteString(" ")
				}
				insights.WriteString(l)
			}
		case "key":
			if bullet, ok := stripBullet(l); ok {
				keyPoints = append(keyPoints, bullet)
			}
		case "rec":
			if bullet, ok := stripBullet(l); ok {
				recommendations = append(recommendations, bullet)
			}
		}
	}

	out := Sections{
		Insights:        insights.String(),
		KeyPoints:       keyPoints,
		Recommendations: recommendations,
	}
	if out.Insights == "" {
		out.Insights = strings.TrimSpace(text)
	}
	if len(out.KeyPoints) == 0 {
		out.KeyPoints = []string{"No key points generated"}
	}
	if len(out.Recommendations) == 0 {
		out.Recommendations = []string{"No recommendations generated"}
	}
	return out
}

func stripBullet(l string) (string, bool) {
	for _, prefix := range []string{"-", "•", "*"} {
		if strings.HasPrefix(l, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(l, prefix)), true
		}
	}
	return "", false
}

// ParseStructured decodes a JSON-mode response into Sections. LLM JSON is
// frequently malformed, so decoding runs strict first, then through
// json-repair, then through hjson's lenient reader.
func ParseStructured(raw string) (Sections, error) {
	raw = stripCodeFence(raw)

	var s Sections
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return withPlaceholders(s), nil
	}

	if repaired, err := jsonrepair.RepairJSON(raw); err == nil {
		if err := json.Unmarshal([]byte(repaired), &s); err == nil {
			return withPlaceholders(s), nil
		}
	}

	if err := hjson.Unmarshal([]byte(raw), &s); err == nil && (s.Insights != "" || len(s.KeyPoints) > 0) {
		return withPlaceholders(s), nil
	}

	return Sections{}, fmt.Errorf("response is not parsable as structured insights")
}

func withPlaceholders(s Sections) Sections {
	if len(s.KeyPoints) == 0 {
		s.KeyPoints = []string{"No key points generated"}
	}
	if len(s.Recommendations) == 0 {
		s.Recommendations = []string{"No recommendations generated"}
	}
	return s
}

// stripCodeFence removes an outer markdown code block, a common wrapper
// around JSON-mode responses.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```json")
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSpace(s)
	}
	return s
}
