package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"

	"github.com/pitchlens/pitchlens/internal/engine"
	"github.com/pitchlens/pitchlens/internal/prompts"
	"github.com/pitchlens/pitchlens/internal/store"
)

// docContentPreview limits how much of each document goes into the prompt.
const docContentPreview = 4000

// resultSchemaJSON is the contract every analyst result must satisfy
// before it is allowed into the store.
const resultSchemaJSON = `{
	"type": "object",
	"properties": {
		"agent": {"type": "string"},
		"startup_name": {"type": "string"},
		"recommendation": {"type": "string"}
	}
}`

// LLMAnalyst runs one specialist role prompt against the configured model.
type LLMAnalyst struct {
	name   string
	title  string
	llm    engine.LLMClient
	model  string
	opts   engine.ChatOptions
	schema gojsonschema.JSONLoader
}

// NewLLMAnalyst creates an analyst for one of the fixed agent names. The
// role prompt must be registered in the default prompt registry.
func NewLLMAnalyst(name string, llm engine.LLMClient, model string, opts engine.ChatOptions) (*LLMAnalyst, error) {
	title, ok := AgentTitles[name]
	if !ok {
		return nil, fmt.Errorf("unknown agent name: %s", name)
	}
	if _, err := prompts.DefaultRegistry().GetLatest(name); err != nil {
		return nil, fmt.Errorf("no role prompt for %s: %w", name, err)
	}

	return &LLMAnalyst{
		name:   name,
		title:  title,
		llm:    llm,
		model:  model,
		opts:   opts,
		schema: gojsonschema.NewStringLoader(resultSchemaJSON),
	}, nil
}

// NewDefaultAnalysts creates the eight specialist analysts in execution
// order.
func NewDefaultAnalysts(llm engine.LLMClient, model string, opts engine.ChatOptions) ([]Analyst, error) {
	analysts := make([]Analyst, 0, len(AgentOrder))
	for _, name := range AgentOrder {
		a, err := NewLLMAnalyst(name, llm, model, opts)
		if err != nil {
			return nil, err
		}
		analysts = append(analysts, a)
	}
	return analysts, nil
}

func (a *LLMAnalyst) Name() string  { return a.name }
func (a *LLMAnalyst) Title() string { return a.title }

// Analyze builds the role prompt plus a context digest, makes one chat
// call (with retry) and decodes the reply into a JSON-safe payload.
func (a *LLMAnalyst) Analyze(ctx context.Context, subject string, sc store.Context) (map[string]any, error) {
	builder, err := prompts.NewPromptBuilder(prompts.DefaultRegistry(), a.name, prompts.PromptV1)
	if err != nil {
		return nil, err
	}
	builder.SetVariable("subject", subject)
	system := builder.Build()

	resp, err := engine.RetryChat(ctx, a.llm, a.model, []engine.ChatMessage{
		{Role: engine.RoleSystem, Content: system},
		{Role: engine.RoleUser, Content: ContextDigest(subject, sc)},
	}, a.opts, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.name, err)
	}

	result := decodeResult(resp.Assistant.Content)
	result["agent"] = a.title
	if _, ok := result["startup_name"]; !ok {
		result["startup_name"] = subject
	}
	result["documents_analyzed"] = len(sc.Documents)

	if err := a.validate(result); err != nil {
		return nil, fmt.Errorf("%s: malformed result: %w", a.name, err)
	}
	return result, nil
}

// validate checks the decoded result against the analyst result schema.
func (a *LLMAnalyst) validate(result map[string]any) error {
	check, err := gojsonschema.Validate(a.schema, gojsonschema.NewGoLoader(result))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !check.Valid() {
		var msgs []string
		for _, e := range check.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// decodeResult turns a model reply into a JSON object. Fenced or bare JSON
// objects are decoded; anything else becomes a {"summary": ...} payload so
// a verbose model never sinks the whole run.
func decodeResult(reply string) map[string]any {
	text := strings.TrimSpace(reply)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	// Tolerate prose around a single top-level object.
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			var result map[string]any
			if err := json.Unmarshal([]byte(text[start:end+1]), &result); err == nil {
				return result
			}
		}
	}

	return map[string]any{"summary": text}
}

// ContextDigest renders the session context as prompt input: document
// previews, completed analyses and recent history.
func ContextDigest(subject string, sc store.Context) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Startup under analysis: %s\n", subject)
	fmt.Fprintf(&sb, "Documents available: %d\n\n", len(sc.Documents))

	for _, doc := range sc.Documents {
		content := doc.Content
		if len(content) > docContentPreview {
			content = truncatePreview(content, docContentPreview) + "\n[truncated]"
		}
		fmt.Fprintf(&sb, "--- document %s (kind=%s) ---\n%s\n\n", doc.ID, doc.Kind, content)
	}

	if len(sc.Analyses) > 0 {
		sb.WriteString("Analyses already completed: ")
		first := true
		for _, name := range AgentOrder {
			if _, ok := sc.Analyses[name]; !ok {
				continue
			}
			if !first {
				sb.WriteString(", ")
			}
			sb.WriteString(name)
			first = false
		}
		sb.WriteString("\n\n")
	}

	// Only the tail of the conversation is relevant as context.
	history := sc.History
	if len(history) > 10 {
		history = history[len(history)-10:]
	}
	for _, entry := range history {
		fmt.Fprintf(&sb, "user: %s\nassistant: %s\n", entry.User, entry.Agent)
	}

	return sb.String()
}

// truncatePreview shortens s to at most n bytes without splitting a rune.
func truncatePreview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
