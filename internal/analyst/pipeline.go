package analyst

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/pitchlens/pitchlens/internal/engine"
	"github.com/pitchlens/pitchlens/internal/report"
	"github.com/pitchlens/pitchlens/internal/store"
)

// ErrNoDocuments is returned when analysis is requested before any
// document has been stored.
var ErrNoDocuments = errors.New("no documents available to analyze")

// Pipeline runs the specialist analysts in their fixed order against a
// session store and assembles the investor report.
type Pipeline struct {
	store    *store.Store
	analysts []Analyst
}

// NewPipeline creates a pipeline over the given store and analysts.
// Analysts run in the order given; NewDefaultAnalysts yields the
// canonical eight-agent order.
func NewPipeline(st *store.Store, analysts []Analyst) *Pipeline {
	return &Pipeline{store: st, analysts: analysts}
}

// Store exposes the session store the pipeline drives.
func (p *Pipeline) Store() *store.Store {
	return p.store
}

// Run executes every analyst in order and assembles the report. A failing
// analyst is logged and recorded in history, and the run continues; its
// report section renders as a placeholder. The report covers whatever
// succeeded.
func (p *Pipeline) Run(ctx context.Context, subject, stage string) (string, error) {
	if p.store.DocumentCount() == 0 {
		return "", ErrNoDocuments
	}

	for _, a := range p.analysts {
		result, err := a.Analyze(ctx, subject, p.store.Context())
		if err != nil {
			log.Printf("analyst %s failed: %v", a.Name(), err)
			reason := fmt.Sprintf("Analysis failed: %v", err)
			if engine.IsRetryExhausted(err) {
				reason = fmt.Sprintf("Analysis failed after exhausting retries: %v", err)
			}
			p.store.AddToHistory(
				fmt.Sprintf("Run %s for %s", a.Name(), subject),
				reason,
			)
			continue
		}
		if err := p.store.StoreAnalysis(a.Name(), result); err != nil {
			log.Printf("rejected result from %s: %v", a.Name(), err)
			p.store.AddToHistory(
				fmt.Sprintf("Run %s for %s", a.Name(), subject),
				fmt.Sprintf("Result rejected: %v", err),
			)
			continue
		}
	}

	p.store.AddToHistory(
		fmt.Sprintf("Full analysis triggered for %s", subject),
		fmt.Sprintf("Completed %d-agent analysis", len(p.analysts)),
	)

	return report.Build(subject, stage, p.store.Context())
}
