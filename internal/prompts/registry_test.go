package prompts

import (
	"strings"
	"testing"
)

func TestRegisterAndGet(t *testing.T) {
	r := NewPromptRegistry()
	r.Register(&Prompt{ID: "greeter", Version: PromptV1, Content: "hello {{name}}"})

	p, err := r.Get("greeter", PromptV1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Content != "hello {{name}}" {
		t.Errorf("content = %q", p.Content)
	}

	if _, err := r.Get("greeter", "9.9.9"); err == nil {
		t.Error("expected error for unknown version")
	}
	if _, err := r.Get("missing", PromptV1); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestGetLatestSkipsDeprecated(t *testing.T) {
	r := NewPromptRegistry()
	r.Register(&Prompt{ID: "greeter", Version: "1.0.0", Content: "v1"})
	r.Register(&Prompt{ID: "greeter", Version: "2.0.0", Content: "v2", Deprecated: true})

	p, err := r.GetLatest("greeter")
	if err != nil {
		t.Fatal(err)
	}
	if p.Content != "v1" {
		t.Errorf("latest = %q, want non-deprecated v1", p.Content)
	}
}

func TestBuilderSubstitutesVariables(t *testing.T) {
	r := NewPromptRegistry()
	r.Register(&Prompt{ID: "greeter", Version: PromptV1, Content: "hello {{name}}"})

	b, err := NewPromptBuilder(r, "greeter", PromptV1)
	if err != nil {
		t.Fatal(err)
	}
	b.AddFragment("focus on {{name}} only").SetVariable("name", "Acme")

	got := b.Build()
	if got != "hello Acme\n\nfocus on Acme only" {
		t.Errorf("built prompt = %q", got)
	}
}

func TestRolePromptsRegistered(t *testing.T) {
	roles := []string{
		"pitch_deck_agent", "market_agent", "team_agent", "financial_agent",
		"competitive_agent", "risk_agent", "dd_agent", "thesis_agent",
		"interactive",
	}
	for _, id := range roles {
		p, err := DefaultRegistry().Get(id, PromptV1)
		if err != nil {
			t.Errorf("%s: %v", id, err)
			continue
		}
		if id != "interactive" && !strings.Contains(p.Content, "{{subject}}") {
			t.Errorf("%s: prompt missing subject placeholder", id)
		}
		if !strings.Contains(p.Content, "single JSON object") && id != "interactive" {
			t.Errorf("%s: prompt missing output rules", id)
		}
	}
}
