// Package ingest turns files and scraped pages into stored session
// documents, and watches a drop directory for new uploads.
package ingest

import (
	"fmt"

	"github.com/pitchlens/pitchlens/internal/extract"
	"github.com/pitchlens/pitchlens/internal/scrape"
	"github.com/pitchlens/pitchlens/internal/store"
)

// Ingestor extracts uploaded files and records them in the session store.
type Ingestor struct {
	store    *store.Store
	registry *extract.Registry
	subject  string
}

func New(s *store.Store, registry *extract.Registry, subject string) *Ingestor {
	return &Ingestor{store: s, registry: registry, subject: subject}
}

// ProcessFile extracts the file at path and stores the result, recording
// the upload in the session history. Returns the new document ID.
func (in *Ingestor) ProcessFile(path string) (string, error) {
	res, err := in.registry.ExtractFile(path)
	if err != nil {
		return "", err
	}

	docID, err := in.store.StoreDocument(res.Kind, res.Content, map[string]any{
		"startup_name":  in.subject,
		"original_file": res.FileName,
		"file_type":     res.Ext,
	})
	if err != nil {
		return "", fmt.Errorf("store %s: %w", res.FileName, err)
	}

	in.store.AddToHistory(
		fmt.Sprintf("Uploaded document: %s", res.FileName),
		fmt.Sprintf("Processed and stored %s document", res.Kind),
	)
	return docID, nil
}

// StoreSnapshot records a scraped website snapshot as a session document.
func (in *Ingestor) StoreSnapshot(snap scrape.Snapshot) (string, error) {
	content, err := snap.Content()
	if err != nil {
		return "", fmt.Errorf("encode snapshot for %s: %w", snap.URL, err)
	}

	docID, err := in.store.StoreDocument("website_scrape", content, map[string]any{
		"url":          snap.URL,
		"startup_name": in.subject,
	})
	if err != nil {
		return "", fmt.Errorf("store snapshot for %s: %w", snap.URL, err)
	}

	in.store.AddToHistory(
		fmt.Sprintf("Scraped website: %s", snap.URL),
		fmt.Sprintf("Stored website snapshot (%d links found)", snap.LinksFound),
	)
	return docID, nil
}
