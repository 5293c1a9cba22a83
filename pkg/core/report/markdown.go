package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"bizsight/pkg/core/dataset"
	"bizsight/pkg/core/insight"
	"bizsight/pkg/core/risk"
)

// BuildMarkdown renders the same report content as Build, as markdown for
// the dashboard view.
func BuildMarkdown(ds *dataset.Dataset, res *insight.Result) string {
	var b strings.Builder

	b.WriteString("# BizSight Business Report\n\n")

	b.WriteString("## Key Metrics\n\n")
	for _, m := range keyMetrics(ds) {
		b.WriteString(fmt.Sprintf("- **%s**: %s\n", m.Name, m.Value))
	}

	b.WriteString("\n## Detected Risks\n\n")
	risks := risk.AllRisks(ds).Messages()
	if len(risks) > 0 {
		for _, r := range risks {
			b.WriteString(fmt.Sprintf("- %s\n", r))
		}
	} else {
		b.WriteString("No major risks detected\n")
	}

	b.WriteString("\n## AI Insights\n\n")
	b.WriteString(insightsBlock(res))
	b.WriteString("\n")

	return b.String()
}

// RenderHTML converts a markdown report to HTML.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(CleanMarkdown(markdown)), &buf); err != nil {
		return "", fmt.Errorf("markdown rendering failed: %w", err)
	}
	return buf.String(), nil
}

// CleanMarkdown strips an outer wrapping code block so LLM-produced
// markdown renders as content rather than as a code listing.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)

	if strings.HasPrefix(cleaned, "```markdown") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```markdown")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	return cleaned
}
