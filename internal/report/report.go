// Package report renders the investor analysis report from a session
// context. Building a report is a pure function of its inputs; the
// assembler holds no state.
package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pitchlens/pitchlens/internal/store"
)

// ErrNoData is returned when the context holds neither documents nor
// analyses; there is nothing to report on.
var ErrNoData = errors.New("no data available: upload documents before requesting a report")

// agentSections is the fixed order of the per-agent subsections. This is
// the assembler's own contract: sections render in this order regardless
// of the order analyses were stored in.
var agentSections = []struct {
	name  string
	title string
}{
	{"pitch_deck_agent", "Pitch Deck Analysis"},
	{"market_agent", "Market Analysis"},
	{"team_agent", "Team Assessment"},
	{"financial_agent", "Financial Analysis"},
	{"competitive_agent", "Competitive Analysis"},
	{"risk_agent", "Risk Assessment"},
	{"dd_agent", "Due Diligence Checklist"},
	{"thesis_agent", "Investment Thesis"},
}

// scorecardRows define the scorecard table: category, weight and the
// insight helper that supplies the rationale from document content.
var scorecardRows = []struct {
	category string
	weight   string
	insight  func(string) string
}{
	{"Market Opportunity", "25%", marketInsight},
	{"Team Quality", "25%", teamInsight},
	{"Product/Traction", "20%", tractionInsight},
	{"Financial Health", "15%", financialInsight},
	{"Competitive Position", "10%", competitiveInsight},
	{"Risk Profile", "5%", riskInsight},
}

// Build renders the full investor report for the subject from the session
// context. Sections without underlying data render placeholders; only a
// wholly empty context is an error.
func Build(subject, stage string, sc store.Context) (string, error) {
	if sc.Empty() {
		return "", ErrNoData
	}

	content := combinedContent(sc)

	var sb strings.Builder

	fmt.Fprintf(&sb, "# Investor Analysis: %s\n\n", subject)

	// Executive summary
	sb.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(&sb, "**Company:** %s\n", subject)
	fmt.Fprintf(&sb, "**Stage:** %s\n", stage)
	fmt.Fprintf(&sb, "**Documents Analyzed:** %d\n", len(sc.Documents))
	fmt.Fprintf(&sb, "**Analysis Date:** %s\n\n", time.Now().Format("2006-01-02"))
	sb.WriteString("### Key Highlights\n\n")
	sb.WriteString(keyHighlights(content))
	sb.WriteString("\n\n")

	// Scorecard
	sb.WriteString("## Investment Scorecard\n\n")
	sb.WriteString("| Category | Weight | Rationale |\n")
	sb.WriteString("|----------|--------|----------|\n")
	for _, row := range scorecardRows {
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", row.category, row.weight, row.insight(content))
	}
	sb.WriteString("\n")

	// Key metrics
	sb.WriteString("## Key Metrics\n\n")
	sb.WriteString("### Financial Metrics\n\n")
	sb.WriteString(extractFinancialMetrics(content))
	sb.WriteString("\n\n### Market Metrics\n\n")
	sb.WriteString(extractMarketMetrics(content))
	sb.WriteString("\n\n### Traction Metrics\n\n")
	sb.WriteString(extractTractionMetrics(content))
	sb.WriteString("\n\n")

	// Per-agent subsections, fixed order.
	sb.WriteString("## Detailed Agent Analysis\n\n")
	for i, section := range agentSections {
		fmt.Fprintf(&sb, "### %d. %s\n\n", i+1, section.title)
		if analysis, ok := sc.Analyses[section.name]; ok {
			sb.WriteString(formatAgentResult(analysis.Result))
		} else {
			sb.WriteString("_No analysis available for this section._")
		}
		sb.WriteString("\n\n")
	}

	// Risk matrix
	sb.WriteString("## Risk Assessment Matrix\n\n")
	if analysis, ok := sc.Analyses["risk_agent"]; ok {
		sb.WriteString(buildRiskMatrix(analysis.Result))
	} else {
		sb.WriteString("_Risk assessment not available._")
	}
	sb.WriteString("\n\n")

	// Investment structure
	sb.WriteString("## Investment Structure\n\n")
	fmt.Fprintf(&sb, "**Funding Ask:** %s\n", extractFundingAsk(content))
	fmt.Fprintf(&sb, "**Valuation:** %s\n", extractValuation(content))
	fmt.Fprintf(&sb, "**Stage:** %s\n\n", extractStage(content))
	sb.WriteString("### Use of Funds\n\n")
	sb.WriteString(extractUseOfFunds(content))
	sb.WriteString("\n\n")

	// Investment thesis
	sb.WriteString("## Investment Thesis\n\n")
	sb.WriteString(buildThesis(subject, sc))
	sb.WriteString("\n\n### Exit Scenarios\n\n")
	sb.WriteString(buildExitScenarios(sc))
	sb.WriteString("\n\n")

	// Final recommendation
	sb.WriteString("## Final Recommendation\n\n")
	sb.WriteString(buildFinalRecommendation(sc))
	sb.WriteString("\n")

	return sb.String(), nil
}

// combinedContent joins all document contents for the keyword helpers,
// tagged with their kind as in the source material.
func combinedContent(sc store.Context) string {
	var parts []string
	for _, doc := range sc.Documents {
		content := doc.Content
		if len(content) > 4000 {
			content = truncate(content, 4000)
		}
		parts = append(parts, fmt.Sprintf("[%s]: %s", doc.Kind, content))
	}
	return strings.Join(parts, "\n\n")
}

// formatAgentResult renders one analyst result map as markdown. Known keys
// get dedicated treatment; the rest render as sorted bullets.
func formatAgentResult(result any) string {
	m, ok := result.(map[string]any)
	if !ok {
		return fmt.Sprintf("%v", result)
	}

	var sb strings.Builder

	if agent, ok := m["agent"].(string); ok {
		fmt.Fprintf(&sb, "**Agent:** %s\n", agent)
	}
	if n, ok := m["documents_analyzed"]; ok {
		fmt.Fprintf(&sb, "**Documents Analyzed:** %v\n", n)
	}

	// Nested objects such as findings/evaluation/key_metrics render as
	// titled bullet groups.
	for _, key := range sortedKeys(m) {
		switch key {
		case "agent", "documents_analyzed", "startup_name", "recommendation":
			continue
		}
		switch val := m[key].(type) {
		case map[string]any:
			fmt.Fprintf(&sb, "\n**%s:**\n", titleize(key))
			for _, sub := range sortedKeys(val) {
				fmt.Fprintf(&sb, "- %s: %s\n", titleize(sub), formatValue(val[sub]))
			}
		case []any:
			fmt.Fprintf(&sb, "\n**%s:**\n", titleize(key))
			for _, item := range val {
				fmt.Fprintf(&sb, "- %s\n", formatValue(item))
			}
		default:
			fmt.Fprintf(&sb, "- %s: %s\n", titleize(key), formatValue(val))
		}
	}

	if rec, ok := m["recommendation"].(string); ok && rec != "" {
		fmt.Fprintf(&sb, "\n**Recommendation:** %s\n", rec)
	}

	out := strings.TrimRight(sb.String(), "\n")
	if out == "" {
		return "_Analysis completed; no structured findings reported._"
	}
	return out
}

// buildRiskMatrix renders the risk agent's per-dimension objects as a
// markdown table.
func buildRiskMatrix(result any) string {
	m, ok := result.(map[string]any)
	if !ok {
		return "_Risk assessment stored in an unexpected format._"
	}

	var sb strings.Builder
	sb.WriteString("| Risk Type | Severity | Mitigation |\n")
	sb.WriteString("|-----------|----------|------------|\n")

	rows := 0
	for _, riskType := range []string{"market_risk", "execution_risk", "financial_risk", "competitive_risk", "regulatory_risk"} {
		risk, ok := m[riskType].(map[string]any)
		if !ok {
			continue
		}
		severity := stringOr(risk["severity"], "TBD")
		mitigation := stringOr(risk["mitigation"], "To be determined")
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", titleize(riskType), severity, mitigation)
		rows++
	}
	if rows == 0 {
		return "_Risk assessment completed; no per-dimension breakdown reported._"
	}

	if overall, ok := m["overall_risk_rating"]; ok {
		fmt.Fprintf(&sb, "\n**Overall Risk Rating:** %s\n", formatValue(overall))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// buildThesis renders the thesis agent's synthesis, falling back to
// document-derived bullets when the agent did not run.
func buildThesis(subject string, sc store.Context) string {
	if analysis, ok := sc.Analyses["thesis_agent"]; ok {
		if m, ok := analysis.Result.(map[string]any); ok {
			if why, ok := m["why_invest"].([]any); ok && len(why) > 0 {
				var sb strings.Builder
				fmt.Fprintf(&sb, "**%s** presents the following investment case:\n", subject)
				for _, item := range why {
					fmt.Fprintf(&sb, "- %s\n", formatValue(item))
				}
				return strings.TrimRight(sb.String(), "\n")
			}
		}
	}

	return fmt.Sprintf(`**%s** — thesis derived from the supplied documents:
- Market opportunity identified in the documents
- Business model and revenue strategy documented
- Traction and growth signals recorded
- See the per-agent sections above for supporting detail`, subject)
}

func buildExitScenarios(sc store.Context) string {
	if analysis, ok := sc.Analyses["thesis_agent"]; ok {
		if m, ok := analysis.Result.(map[string]any); ok {
			if scenarios, ok := m["exit_scenarios"].([]any); ok && len(scenarios) > 0 {
				var sb strings.Builder
				for _, s := range scenarios {
					fmt.Fprintf(&sb, "- %s\n", formatValue(s))
				}
				return strings.TrimRight(sb.String(), "\n")
			}
		}
	}

	return "- Strategic acquisition (3-5 years)\n- IPO opportunity (5-7 years)\n- Secondary market (2-4 years)"
}

// buildFinalRecommendation summarizes coverage: how many agents reported,
// and any recommendations they surfaced.
func buildFinalRecommendation(sc store.Context) string {
	var sb strings.Builder

	var recommendations []string
	reported := 0
	for _, section := range agentSections {
		analysis, ok := sc.Analyses[section.name]
		if !ok {
			continue
		}
		reported++
		if m, ok := analysis.Result.(map[string]any); ok {
			if rec, ok := m["recommendation"].(string); ok && rec != "" {
				recommendations = append(recommendations, fmt.Sprintf("- %s: %s", section.title, rec))
			}
		}
	}

	sb.WriteString("**Decision: UNDER REVIEW**\n\n")
	fmt.Fprintf(&sb, "**Coverage:** %d documents analyzed by %d of %d specialist agents\n",
		len(sc.Documents), reported, len(agentSections))

	if len(recommendations) > 0 {
		sb.WriteString("\n**Agent Recommendations:**\n")
		sb.WriteString(strings.Join(recommendations, "\n"))
		sb.WriteString("\n")
	}

	sb.WriteString(`
**Next Steps:**
- Deep dive into specific metrics
- Founder and team meetings
- Customer reference calls
- Financial model review`)

	return sb.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// titleize turns snake_case keys into display labels.
func titleize(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// formatValue renders a payload value compactly for a bullet or cell.
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		parts := make([]string, 0, len(val))
		for _, k := range sortedKeys(val) {
			parts = append(parts, fmt.Sprintf("%s: %s", titleize(k), formatValue(val[k])))
		}
		return strings.Join(parts, "; ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}
