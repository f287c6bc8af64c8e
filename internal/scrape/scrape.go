// Package scrape fetches a startup's public website and distills it into a
// compact snapshot the analysts can read alongside uploaded documents.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	userAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	maxHeadings   = 10
	maxParagraphs = 15
)

// Snapshot is the distilled content of one page.
type Snapshot struct {
	URL            string   `json:"url"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Headings       []string `json:"headings"`
	ContentPreview []string `json:"content_preview"`
	LinksFound     int      `json:"links_found"`
}

// Content renders the snapshot as indented JSON for document storage.
func (s Snapshot) Content() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Scraper fetches pages with a bounded client. The zero client from
// NewScraper uses a 10 second timeout.
type Scraper struct {
	client *http.Client
}

func NewScraper() *Scraper {
	return &Scraper{client: &http.Client{Timeout: 10 * time.Second}}
}

// NewScraperWithClient lets tests supply a stub transport.
func NewScraperWithClient(client *http.Client) *Scraper {
	return &Scraper{client: client}
}

// Scrape fetches url and extracts the title, meta description, leading
// headings and paragraphs, and the outbound link count.
func (s *Scraper) Scrape(ctx context.Context, url string) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Snapshot{}, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse %s: %w", url, err)
	}
	return snapshotFromDocument(url, doc), nil
}

func snapshotFromDocument(url string, doc *goquery.Document) Snapshot {
	snap := Snapshot{
		URL:   url,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	if snap.Title == "" {
		snap.Title = "No title found"
	}

	snap.Description = "No description found"
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		snap.Description = strings.TrimSpace(desc)
	}

	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			snap.Headings = append(snap.Headings, text)
		}
		return len(snap.Headings) < maxHeadings
	})

	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			snap.ContentPreview = append(snap.ContentPreview, text)
		}
		return len(snap.ContentPreview) < maxParagraphs
	})

	snap.LinksFound = doc.Find("a").Length()
	return snap
}
