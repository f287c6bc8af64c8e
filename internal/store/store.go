// Package store holds all per-session state for one analysis run:
// extracted documents, analyst results and the conversation history.
// The store lives for the lifetime of the process and is never persisted.
package store

import (
	"fmt"
	"iter"
	"sort"
	"strings"
	"sync"
	"time"
)

// Document is one piece of extracted source material. Once stored it is
// immutable; callers always receive copies.
type Document struct {
	ID       string         `json:"id"`
	Kind     string         `json:"kind"` // e.g. "pitch_deck_powerpoint", "document_pdf"
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	StoredAt time.Time      `json:"stored_at"`
}

// Analysis is the latest result produced by one analyst. Result is
// restricted to JSON-safe values (see CheckValue).
type Analysis struct {
	Agent    string    `json:"agent"`
	Result   any       `json:"result"`
	StoredAt time.Time `json:"stored_at"`
}

// HistoryEntry is one user/assistant exchange. History is append-only.
type HistoryEntry struct {
	User  string    `json:"user"`
	Agent string    `json:"agent"`
	At    time.Time `json:"at"`
}

// Context is the derived read-only aggregate handed to analysts and the
// report assembler. It is recomputed on demand and carries copies, so
// holders cannot mutate the store through it.
type Context struct {
	Documents []Document
	Analyses  map[string]Analysis
	History   []HistoryEntry
}

// Empty reports whether the context holds no documents and no analyses.
func (c Context) Empty() bool {
	return len(c.Documents) == 0 && len(c.Analyses) == 0
}

// Store is the single-session data store. All mutation goes through its
// methods; one logical caller drives it at a time, but a mutex keeps
// accidental concurrent reads safe.
type Store struct {
	mu        sync.RWMutex
	documents []Document
	analyses  map[string]Analysis
	history   []HistoryEntry
}

// New creates an empty session store.
func New() *Store {
	return &Store{
		analyses: make(map[string]Analysis),
	}
}

// StoreDocument records an extracted document and returns its identifier.
// Identifiers are <kind>_<n> with n the insertion index, unique within the
// session. Content must be non-empty; kind must be set (callers validate
// the file type before extraction).
func (s *Store) StoreDocument(kind, content string, metadata map[string]any) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("store document: empty content")
	}
	if kind == "" {
		return "", fmt.Errorf("store document: empty kind")
	}
	if err := CheckValue(metadata); err != nil {
		return "", fmt.Errorf("store document: metadata: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := Document{
		ID:       fmt.Sprintf("%s_%d", kind, len(s.documents)),
		Kind:     kind,
		Content:  content,
		Metadata: copyMap(metadata),
		StoredAt: time.Now(),
	}
	s.documents = append(s.documents, doc)
	return doc.ID, nil
}

// Documents returns a restartable sequence over all stored documents in
// insertion order. The yielded documents are copies.
func (s *Store) Documents() iter.Seq[Document] {
	return func(yield func(Document) bool) {
		s.mu.RLock()
		docs := make([]Document, len(s.documents))
		copy(docs, s.documents)
		s.mu.RUnlock()

		for _, d := range docs {
			d.Metadata = copyMap(d.Metadata)
			if !yield(d) {
				return
			}
		}
	}
}

// DocumentCount returns the number of stored documents.
func (s *Store) DocumentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

// StoreAnalysis upserts the result for one analyst. A later result for the
// same agent replaces the earlier one. The payload must be JSON-safe:
// primitives, slices and string-keyed maps only, no cycles.
func (s *Store) StoreAnalysis(agent string, result any) error {
	if agent == "" {
		return fmt.Errorf("store analysis: empty agent name")
	}
	if err := CheckValue(result); err != nil {
		return fmt.Errorf("store analysis %q: %w", agent, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.analyses[agent] = Analysis{
		Agent:    agent,
		Result:   copyValue(result),
		StoredAt: time.Now(),
	}
	return nil
}

// Analyses returns the current agent → analysis mapping. The returned map
// and payloads are copies.
func (s *Store) Analyses() map[string]Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyAnalyses(s.analyses)
}

// AddToHistory appends one exchange to the conversation log.
func (s *Store) AddToHistory(userMessage, agentResponse string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, HistoryEntry{
		User:  userMessage,
		Agent: agentResponse,
		At:    time.Now(),
	})
}

// SearchHistory returns the entries whose user message or response contains
// the keyword (case-insensitive), in original order. Every entry contains
// the empty substring, so an empty keyword returns the full history; a
// keyword with no match yields an empty slice.
func (s *Store) SearchHistory(keyword string) []HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(keyword)
	matches := []HistoryEntry{}
	for _, e := range s.history {
		if strings.Contains(strings.ToLower(e.User), needle) ||
			strings.Contains(strings.ToLower(e.Agent), needle) {
			matches = append(matches, e)
		}
	}
	return matches
}

// Context assembles the full session aggregate: all documents in insertion
// order, the current analyses and the complete history.
func (s *Store) Context() Context {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, len(s.documents))
	copy(docs, s.documents)
	for i := range docs {
		docs[i].Metadata = copyMap(docs[i].Metadata)
	}

	history := make([]HistoryEntry, len(s.history))
	copy(history, s.history)

	return Context{
		Documents: docs,
		Analyses:  copyAnalyses(s.analyses),
		History:   history,
	}
}

// AgentNames returns the names of all agents with a stored analysis,
// sorted for stable output.
func (s *Store) AgentNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.analyses))
	for name := range s.analyses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func copyAnalyses(src map[string]Analysis) map[string]Analysis {
	out := make(map[string]Analysis, len(src))
	for name, a := range src {
		a.Result = copyValue(a.Result)
		out[name] = a
	}
	return out
}

func copyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = copyValue(v)
	}
	return out
}
