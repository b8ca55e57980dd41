// Package report renders a finished ranking run as a human-readable decision
// briefing. The enrichment service attaches doctrine citations to the same
// run after ranking; this briefing only restates what the pipeline computed.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"coarank/domain/decision"
)

// Markdown renders the run as a markdown briefing.
func Markdown(result *decision.RankingResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Decision Briefing %s\n\n", result.RunID)
	fmt.Fprintf(&b, "Generated %s — %d candidates ranked.\n\n",
		result.CreatedAt.Format("2006-01-02 15:04:05 UTC"), len(result.Ranked))

	if top, ok := result.Top(); ok {
		fmt.Fprintf(&b, "**Recommended: %s** (%s), total score %.3f",
			top.Breakdown.CoaID, top.Breakdown.CoaType, top.Breakdown.Total)
		if top.Breakdown.MettCFilterBypassed {
			b.WriteString(" — METT-C filter bypassed, review before acting")
		}
		b.WriteString(".\n\n")
	}

	b.WriteString("| Rank | COA | Type | Total | Rule | Excluded |\n")
	b.WriteString("|------|-----|------|-------|------|----------|\n")
	for _, r := range result.Ranked {
		excluded := "-"
		if r.Breakdown.Excluded {
			excluded = r.Breakdown.ExcludeReason
		}
		rule := string(r.Breakdown.AppliedRule)
		if rule == "" {
			rule = "-"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %.3f | %s | %s |\n",
			r.Rank, r.Breakdown.CoaID, r.Breakdown.CoaType, r.Breakdown.Total, rule, excluded)
	}
	b.WriteString("\n")

	for _, r := range result.Ranked {
		if r.Breakdown.MettC == nil {
			continue
		}
		m := r.Breakdown.MettC
		fmt.Fprintf(&b, "## %s — METT-C\n\n", r.Breakdown.CoaID)
		fmt.Fprintf(&b, "mission %.2f · enemy %.2f · terrain %.2f · troops %.2f · civilian %.2f · time %.2f → composite %.2f\n\n",
			m.Mission, m.Enemy, m.Terrain, m.Troops, m.Civilian, m.Time, m.Total)
	}

	if len(result.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

// HTML renders the briefing as an HTML fragment.
func HTML(result *decision.RankingResult) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(Markdown(result)))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
