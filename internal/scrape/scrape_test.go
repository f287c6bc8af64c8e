package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Acme Robotics</title>
  <meta name="description" content="Warehouse automation for mid-market logistics">
</head>
<body>
  <h1>Acme Robotics</h1>
  <h2>Automation that pays for itself</h2>
  <p>We build autonomous picking robots.</p>
  <p>Trusted by 40 warehouses across Europe.</p>
  <p>   </p>
  <a href="/about">About</a>
  <a href="/careers">Careers</a>
  <a href="/contact">Contact</a>
</body>
</html>`

func TestSnapshotFromDocument(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(samplePage))
	if err != nil {
		t.Fatal(err)
	}

	snap := snapshotFromDocument("https://acme.example", doc)

	if snap.Title != "Acme Robotics" {
		t.Errorf("title = %q", snap.Title)
	}
	if snap.Description != "Warehouse automation for mid-market logistics" {
		t.Errorf("description = %q", snap.Description)
	}
	if len(snap.Headings) != 2 || snap.Headings[1] != "Automation that pays for itself" {
		t.Errorf("headings = %v", snap.Headings)
	}
	if len(snap.ContentPreview) != 2 {
		t.Errorf("expected blank paragraph dropped, got %v", snap.ContentPreview)
	}
	if snap.LinksFound != 3 {
		t.Errorf("links = %d", snap.LinksFound)
	}
}

func TestScrapeFetchesAndParses(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	snap, err := NewScraper().Scrape(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Title != "Acme Robotics" {
		t.Errorf("title = %q", snap.Title)
	}
	if !strings.HasPrefix(gotUA, "Mozilla/5.0") {
		t.Errorf("user agent = %q", gotUA)
	}

	content, err := snap.Content()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(content, `"links_found": 3`) {
		t.Errorf("content missing link count:\n%s", content)
	}
}

func TestScrapeRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewScraper().Scrape(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
