// Package analyst defines the specialist analysis capabilities and the
// sequential pipeline that runs them against a session store.
package analyst

import (
	"context"

	"github.com/pitchlens/pitchlens/internal/store"
)

// Analyst is one named analysis capability. Implementations are black
// boxes to the pipeline: they read the session context and return a
// JSON-safe result payload.
type Analyst interface {
	// Name is the stable key the result is stored under.
	Name() string
	// Title is the human-readable specialist title used in reports.
	Title() string
	// Analyze produces a JSON-safe result for the subject from the
	// current session context.
	Analyze(ctx context.Context, subject string, sc store.Context) (map[string]any, error)
}

// AgentOrder is the fixed execution and report order of the eight
// specialist agents.
var AgentOrder = []string{
	"pitch_deck_agent",
	"market_agent",
	"team_agent",
	"financial_agent",
	"competitive_agent",
	"risk_agent",
	"dd_agent",
	"thesis_agent",
}

// AgentTitles maps agent names to specialist titles.
var AgentTitles = map[string]string{
	"pitch_deck_agent":  "Pitch Deck Analyst",
	"market_agent":      "Market Analysis Specialist",
	"team_agent":        "Team Assessment Specialist",
	"financial_agent":   "Financial Analysis Specialist",
	"competitive_agent": "Competitive Analysis Specialist",
	"risk_agent":        "Risk Assessment Specialist",
	"dd_agent":          "Due Diligence Coordinator",
	"thesis_agent":      "Investment Thesis Generator",
}
