package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pitchlens/pitchlens/internal/extract"
	"github.com/pitchlens/pitchlens/internal/scrape"
	"github.com/pitchlens/pitchlens/internal/store"
)

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pitch.txt")
	if err := os.WriteFile(path, []byte("Revenue: $500K ARR"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := store.New()
	in := New(s, extract.NewRegistry(), "Acme")

	docID, err := in.ProcessFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if docID != "text_document_0" {
		t.Errorf("doc ID = %q", docID)
	}

	var docs []store.Document
	for doc := range s.Documents() {
		docs = append(docs, doc)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].Metadata["original_file"] != "pitch.txt" {
		t.Errorf("metadata = %v", docs[0].Metadata)
	}
	if docs[0].Metadata["startup_name"] != "Acme" {
		t.Errorf("metadata = %v", docs[0].Metadata)
	}

	entries := s.SearchHistory("uploaded")
	if len(entries) != 1 || !strings.Contains(entries[0].User, "pitch.txt") {
		t.Errorf("history = %v", entries)
	}
}

func TestProcessFileMissing(t *testing.T) {
	s := store.New()
	in := New(s, extract.NewRegistry(), "Acme")

	_, err := in.ProcessFile(filepath.Join(t.TempDir(), "gone.txt"))
	if !errors.Is(err, extract.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if s.DocumentCount() != 0 {
		t.Error("failed upload must not store a document")
	}
}

func TestStoreSnapshot(t *testing.T) {
	s := store.New()
	in := New(s, extract.NewRegistry(), "Acme")

	snap := scrape.Snapshot{
		URL:        "https://acme.example",
		Title:      "Acme",
		LinksFound: 12,
	}
	docID, err := in.StoreSnapshot(snap)
	if err != nil {
		t.Fatal(err)
	}
	if docID != "website_scrape_0" {
		t.Errorf("doc ID = %q", docID)
	}

	for doc := range s.Documents() {
		if doc.Kind != "website_scrape" {
			t.Errorf("kind = %q", doc.Kind)
		}
		if !strings.Contains(doc.Content, `"links_found": 12`) {
			t.Errorf("content = %s", doc.Content)
		}
	}
}
