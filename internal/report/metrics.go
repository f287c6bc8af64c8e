package report

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// The metric extractors below scan raw document content line by line for
// keyword matches. They are deliberately shallow: the documents are the
// source of truth and the report quotes them rather than interpreting.

const maxScanLines = 60

// scanLines returns up to limit lines whose lowercased text contains any
// of the keywords, trimmed and truncated for table/bullet display.
func scanLines(content string, keywords []string, limit int) []string {
	var found []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				if len(trimmed) > 160 {
					trimmed = truncate(trimmed, 160) + "..."
				}
				found = append(found, trimmed)
				break
			}
		}
		if len(found) >= limit {
			break
		}
	}
	return found
}

// firstMatch returns the first keyword-matching line, or empty.
func firstMatch(content string, keywords []string) string {
	matches := scanLines(content, keywords, 1)
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

func bulletList(lines []string, placeholder string) string {
	if len(lines) == 0 {
		return placeholder
	}
	var sb strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&sb, "- %s\n", line)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func keyHighlights(content string) string {
	lines := scanLines(content, []string{
		"revenue", "growth", "customers", "funding", "market", "team",
	}, 5)
	return bulletList(lines, "- Documents uploaded and analyzed\n- See detailed sections below")
}

func extractFinancialMetrics(content string) string {
	lines := scanLines(content, []string{
		"revenue", "arr", "mrr", "burn", "runway", "margin", "profit", "loss", "cac", "ltv",
	}, maxScanLines)
	return bulletList(lines, "_No financial metrics found in documents._")
}

func extractMarketMetrics(content string) string {
	lines := scanLines(content, []string{
		"tam", "sam", "som", "market size", "market share", "addressable",
	}, maxScanLines)
	return bulletList(lines, "_No market metrics found in documents._")
}

func extractTractionMetrics(content string) string {
	lines := scanLines(content, []string{
		"users", "customers", "growth", "retention", "churn", "nps", "dau", "mau",
	}, maxScanLines)
	return bulletList(lines, "_No traction metrics found in documents._")
}

func extractFundingAsk(content string) string {
	if line := firstMatch(content, []string{"raising", "funding ask", "seeking", "raise"}); line != "" {
		return line
	}
	return "Not specified in documents"
}

func extractValuation(content string) string {
	if line := firstMatch(content, []string{"valuation", "pre-money", "post-money"}); line != "" {
		return line
	}
	return "To be negotiated"
}

func extractStage(content string) string {
	lower := strings.ToLower(content)
	for _, stage := range []string{"pre-seed", "seed", "series a", "series b", "series c", "growth stage"} {
		if strings.Contains(lower, stage) {
			return titleize(strings.ReplaceAll(stage, " ", "_"))
		}
	}
	return "Early Stage"
}

func extractUseOfFunds(content string) string {
	lines := scanLines(content, []string{"use of funds", "hiring", "engineering", "marketing", "expansion"}, 5)
	return bulletList(lines, "- Product development\n- Team expansion\n- Go-to-market")
}

// Scorecard insight helpers. Each returns a one-line rationale for its
// category, quoting the documents where possible.

func marketInsight(content string) string {
	if line := firstMatch(content, []string{"tam", "market size", "billion", "addressable"}); line != "" {
		return sanitizeCell(line)
	}
	return "Market opportunity documented; size not quantified"
}

func teamInsight(content string) string {
	if line := firstMatch(content, []string{"founder", "ceo", "cto", "team", "previously", "ex-"}); line != "" {
		return sanitizeCell(line)
	}
	return "Team background not detailed in documents"
}

func tractionInsight(content string) string {
	if line := firstMatch(content, []string{"growth", "users", "customers", "traction"}); line != "" {
		return sanitizeCell(line)
	}
	return "Traction signals not quantified"
}

func financialInsight(content string) string {
	if line := firstMatch(content, []string{"revenue", "arr", "mrr", "burn"}); line != "" {
		return sanitizeCell(line)
	}
	return "Financial figures not provided"
}

func competitiveInsight(content string) string {
	if line := firstMatch(content, []string{"competitor", "competitive", "differentiation", "moat"}); line != "" {
		return sanitizeCell(line)
	}
	return "Competitive landscape not described"
}

func riskInsight(content string) string {
	if line := firstMatch(content, []string{"risk", "challenge", "dependency", "regulation"}); line != "" {
		return sanitizeCell(line)
	}
	return "Risks to be assessed in diligence"
}

// sanitizeCell keeps a quoted line safe inside a markdown table cell.
func sanitizeCell(line string) string {
	line = strings.ReplaceAll(line, "|", "/")
	if len(line) > 100 {
		line = truncate(line, 100) + "..."
	}
	return line
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
