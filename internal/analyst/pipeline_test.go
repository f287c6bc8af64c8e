package analyst

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pitchlens/pitchlens/internal/engine"
	"github.com/pitchlens/pitchlens/internal/store"
)

// fakeAnalyst returns a fixed result or error.
type fakeAnalyst struct {
	name   string
	title  string
	result map[string]any
	err    error
	calls  int
}

func (f *fakeAnalyst) Name() string  { return f.name }
func (f *fakeAnalyst) Title() string { return f.title }

func (f *fakeAnalyst) Analyze(context.Context, string, store.Context) (map[string]any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestPipelineRequiresDocuments(t *testing.T) {
	p := NewPipeline(store.New(), nil)
	_, err := p.Run(context.Background(), "Acme", "seed")
	if !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
}

func TestPipelineContinuesPastFailure(t *testing.T) {
	s := store.New()
	if _, err := s.StoreDocument("pitch_deck", "Revenue: $500K ARR", nil); err != nil {
		t.Fatal(err)
	}

	market := &fakeAnalyst{
		name:  "market_agent",
		title: "Market Analysis Specialist",
		err:   errors.New("model unavailable"),
	}
	financial := &fakeAnalyst{
		name:  "financial_agent",
		title: "Financial Analysis Specialist",
		result: map[string]any{
			"agent":          "Financial Analysis Specialist",
			"recommendation": "healthy unit economics",
		},
	}

	p := NewPipeline(s, []Analyst{market, financial})
	out, err := p.Run(context.Background(), "Acme", "seed")
	if err != nil {
		t.Fatal(err)
	}

	if market.calls != 1 || financial.calls != 1 {
		t.Errorf("calls = %d, %d; every analyst must run", market.calls, financial.calls)
	}

	analyses := s.Analyses()
	if _, ok := analyses["market_agent"]; ok {
		t.Error("failed analyst must not store a result")
	}
	if _, ok := analyses["financial_agent"]; !ok {
		t.Error("successful analyst result missing")
	}

	if !strings.Contains(out, "healthy unit economics") {
		t.Error("report missing successful analyst output")
	}
	if !strings.Contains(out, "_No analysis available for this section._") {
		t.Error("report missing placeholder for failed analyst")
	}

	failures := s.SearchHistory("failed")
	if len(failures) != 1 || !strings.Contains(failures[0].Agent, "model unavailable") {
		t.Errorf("failure not recorded in history: %v", failures)
	}
}

func TestPipelineRecordsRetryExhaustion(t *testing.T) {
	s := store.New()
	if _, err := s.StoreDocument("pitch_deck", "Revenue: $500K ARR", nil); err != nil {
		t.Fatal(err)
	}

	exhausted := &engine.RetryExhaustedError{
		Err:         errors.New("rate limit exceeded"),
		Attempts:    3,
		MaxAttempts: 3,
	}
	p := NewPipeline(s, []Analyst{&fakeAnalyst{
		name:  "market_agent",
		title: "Market Analysis Specialist",
		err:   exhausted,
	}})
	if _, err := p.Run(context.Background(), "Acme", "seed"); err != nil {
		t.Fatal(err)
	}

	entries := s.SearchHistory("exhausting retries")
	if len(entries) != 1 {
		t.Fatalf("expected retry exhaustion recorded in history, got %v", entries)
	}
}

func TestPipelineRecordsCompletion(t *testing.T) {
	s := store.New()
	if _, err := s.StoreDocument("notes", "some notes", nil); err != nil {
		t.Fatal(err)
	}

	p := NewPipeline(s, []Analyst{&fakeAnalyst{
		name:   "dd_agent",
		title:  "Due Diligence Coordinator",
		result: map[string]any{"agent": "Due Diligence Coordinator"},
	}})
	if _, err := p.Run(context.Background(), "Acme", "seed"); err != nil {
		t.Fatal(err)
	}

	completed := s.SearchHistory("full analysis")
	if len(completed) != 1 {
		t.Fatalf("expected completion history entry, got %v", completed)
	}
}
