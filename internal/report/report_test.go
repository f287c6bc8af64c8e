package report

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pitchlens/pitchlens/internal/store"
)

func TestBuildEmptyContext(t *testing.T) {
	_, err := Build("Acme", "seed", store.Context{})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestBuildFullReport(t *testing.T) {
	s := store.New()
	if _, err := s.StoreDocument("pitch_deck", "Revenue: $500K ARR, Growth: 200% YoY", nil); err != nil {
		t.Fatal(err)
	}

	agents := []string{
		"pitch_deck_agent", "market_agent", "team_agent", "financial_agent",
		"competitive_agent", "risk_agent", "dd_agent", "thesis_agent",
	}
	for _, agent := range agents {
		result := map[string]any{
			"agent":          agent,
			"summary":        "analysis for " + agent,
			"recommendation": "proceed",
		}
		if err := s.StoreAnalysis(agent, result); err != nil {
			t.Fatal(err)
		}
	}

	out, err := Build("Acme", "seed", s.Context())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "$500K") {
		t.Error("report missing financial metric quoted from document")
	}

	sections := []string{
		"### 1. Pitch Deck Analysis",
		"### 2. Market Analysis",
		"### 3. Team Assessment",
		"### 4. Financial Analysis",
		"### 5. Competitive Analysis",
		"### 6. Risk Assessment",
		"### 7. Due Diligence Checklist",
		"### 8. Investment Thesis",
	}
	prev := -1
	for _, heading := range sections {
		idx := strings.Index(out, heading)
		if idx < 0 {
			t.Fatalf("report missing section %q", heading)
		}
		if idx < prev {
			t.Fatalf("section %q out of order", heading)
		}
		prev = idx
	}
}

func TestBuildPlaceholdersForMissingAnalyses(t *testing.T) {
	s := store.New()
	if _, err := s.StoreDocument("notes", "meeting notes", nil); err != nil {
		t.Fatal(err)
	}

	out, err := Build("Acme", "seed", s.Context())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "_No analysis available for this section._") {
		t.Error("expected placeholder for missing agent sections")
	}
	if !strings.Contains(out, "_Risk assessment not available._") {
		t.Error("expected placeholder for missing risk matrix")
	}
	if !strings.Contains(out, "## Final Recommendation") {
		t.Error("expected final recommendation section")
	}
}

func TestBuildRiskMatrix(t *testing.T) {
	result := map[string]any{
		"market_risk": map[string]any{
			"severity":   "High",
			"mitigation": "Diversify customer base",
		},
		"execution_risk": map[string]any{
			"severity":   "Medium",
			"mitigation": "Hire senior operators",
		},
		"overall_risk_rating": "Medium",
	}

	out := buildRiskMatrix(result)
	for _, want := range []string{"| Market Risk | High | Diversify customer base |", "| Execution Risk | Medium |", "**Overall Risk Rating:** Medium"} {
		if !strings.Contains(out, want) {
			t.Errorf("risk matrix missing %q in:\n%s", want, out)
		}
	}
}

func TestExtractStage(t *testing.T) {
	cases := []struct {
		content string
		want    string
	}{
		{"We are raising a Series A round", "Series A"},
		{"This is a pre-seed company", "Pre-seed"},
		{"no stage mentioned", "Early Stage"},
	}
	for _, tc := range cases {
		if got := extractStage(tc.content); got != tc.want {
			t.Errorf("extractStage(%q) = %q, want %q", tc.content, got, tc.want)
		}
	}
}

func TestTruncationKeepsValidUTF8(t *testing.T) {
	// A long line of 3-byte runes forces every truncation point mid-rune.
	line := "revenue " + strings.Repeat("€", 200)

	metrics := extractFinancialMetrics(line)
	if !utf8.ValidString(metrics) {
		t.Error("metric line truncation produced invalid UTF-8")
	}
	if !strings.Contains(metrics, "...") {
		t.Error("long metric line should be truncated")
	}

	cell := financialInsight(line)
	if !utf8.ValidString(cell) {
		t.Error("scorecard cell truncation produced invalid UTF-8")
	}
}

func TestFormatAgentResult(t *testing.T) {
	result := map[string]any{
		"agent":          "Market Analysis Specialist",
		"startup_name":   "Acme",
		"recommendation": "proceed to diligence",
		"key_metrics": map[string]any{
			"tam": "$10B",
			"sam": "$1B",
		},
		"strengths": []any{"large market", "strong tailwinds"},
	}

	out := formatAgentResult(result)
	for _, want := range []string{
		"**Agent:** Market Analysis Specialist",
		"**Key Metrics:**",
		"- Tam: $10B",
		"- large market",
		"**Recommendation:** proceed to diligence",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted result missing %q in:\n%s", want, out)
		}
	}
}
