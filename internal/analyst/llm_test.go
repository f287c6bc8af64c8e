package analyst

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pitchlens/pitchlens/internal/engine"
	"github.com/pitchlens/pitchlens/internal/store"
)

// stubLLM returns canned replies in order and records the requests.
type stubLLM struct {
	replies  []string
	err      error
	requests [][]engine.ChatMessage
}

func (s *stubLLM) Chat(_ context.Context, _ string, messages []engine.ChatMessage, _ engine.ChatOptions) (engine.LLMResponse, error) {
	s.requests = append(s.requests, messages)
	if s.err != nil {
		return engine.LLMResponse{}, s.err
	}
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return engine.LLMResponse{
		Assistant:    engine.ChatMessage{Role: engine.RoleAssistant, Content: reply},
		FinishReason: "stop",
	}, nil
}

func TestDecodeResult(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  map[string]any
	}{
		{
			name:  "bare object",
			reply: `{"recommendation": "proceed"}`,
			want:  map[string]any{"recommendation": "proceed"},
		},
		{
			name:  "fenced json",
			reply: "```json\n{\"recommendation\": \"pass\"}\n```",
			want:  map[string]any{"recommendation": "pass"},
		},
		{
			name:  "prose around object",
			reply: "Here is my analysis:\n{\"score\": 7}\nLet me know if you need more.",
			want:  map[string]any{"score": float64(7)},
		},
		{
			name:  "plain prose",
			reply: "The market looks strong.",
			want:  map[string]any{"summary": "The market looks strong."},
		},
		{
			name:  "broken json",
			reply: "{not json",
			want:  map[string]any{"summary": "{not json"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := decodeResult(tc.reply)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("decodeResult(%q) = %v, want %v", tc.reply, got, tc.want)
			}
		})
	}
}

func TestAnalyzeFillsResultFields(t *testing.T) {
	llm := &stubLLM{replies: []string{`{"key_metrics": {"tam": "$10B"}}`}}
	a, err := NewLLMAnalyst("market_agent", llm, "test-model", engine.ChatOptions{})
	if err != nil {
		t.Fatal(err)
	}

	s := store.New()
	if _, err := s.StoreDocument("pitch_deck", "TAM is $10B", nil); err != nil {
		t.Fatal(err)
	}

	result, err := a.Analyze(context.Background(), "Acme", s.Context())
	if err != nil {
		t.Fatal(err)
	}

	if result["agent"] != "Market Analysis Specialist" {
		t.Errorf("agent = %v", result["agent"])
	}
	if result["startup_name"] != "Acme" {
		t.Errorf("startup_name = %v", result["startup_name"])
	}
	if result["documents_analyzed"] != 1 {
		t.Errorf("documents_analyzed = %v", result["documents_analyzed"])
	}

	// The store must accept what Analyze produces.
	if err := s.StoreAnalysis(a.Name(), result); err != nil {
		t.Errorf("result not storable: %v", err)
	}

	if len(llm.requests) != 1 {
		t.Fatalf("expected one chat call, got %d", len(llm.requests))
	}
	msgs := llm.requests[0]
	if len(msgs) != 2 || msgs[0].Role != engine.RoleSystem || msgs[1].Role != engine.RoleUser {
		t.Fatalf("unexpected message shape: %+v", msgs)
	}
	if !strings.Contains(msgs[0].Content, "Acme") {
		t.Error("system prompt missing subject substitution")
	}
	if !strings.Contains(msgs[1].Content, "TAM is $10B") {
		t.Error("user message missing document content")
	}
}

func TestNewLLMAnalystRejectsUnknownName(t *testing.T) {
	if _, err := NewLLMAnalyst("astrology_agent", &stubLLM{}, "m", engine.ChatOptions{}); err == nil {
		t.Fatal("expected error for unknown agent name")
	}
}

func TestContextDigestTruncatesDocuments(t *testing.T) {
	s := store.New()
	// 3-byte runes so the preview limit falls mid-rune.
	long := strings.Repeat("€", docContentPreview/3+500)
	if _, err := s.StoreDocument("pitch_deck", long, nil); err != nil {
		t.Fatal(err)
	}
	s.AddToHistory("hello", "hi there")

	digest := ContextDigest("Acme", s.Context())
	if !strings.Contains(digest, "[truncated]") {
		t.Error("long document should be truncated in digest")
	}
	if strings.Contains(digest, long) {
		t.Error("digest must not carry the full document")
	}
	if !utf8.ValidString(digest) {
		t.Error("digest truncation produced invalid UTF-8")
	}
	if !strings.Contains(digest, "user: hello") {
		t.Error("digest missing history tail")
	}
}
