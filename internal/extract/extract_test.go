package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractFileKinds(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry()

	cases := []struct {
		name     string
		content  string
		wantKind string
		wantText string
	}{
		{"deck.txt", "Revenue: $500K ARR", "text_document", "Revenue: $500K ARR"},
		{"notes.md", "# Notes", "text_document", "# Notes"},
		{"metrics.json", `{"arr": 500000}`, "data_json", `"arr": 500000`},
		{"model.csv", "metric,value\narr,500000", "spreadsheet_csv", "metric | value"},
		{"readme.cfg", "plain text under odd extension", "unknown_text_file", "plain text under odd extension"},
	}

	for _, tc := range cases {
		path := writeFile(t, dir, tc.name, tc.content)
		res, err := reg.ExtractFile(path)
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if res.Kind != tc.wantKind {
			t.Errorf("%s: kind = %q, want %q", tc.name, res.Kind, tc.wantKind)
		}
		if !strings.Contains(res.Content, tc.wantText) {
			t.Errorf("%s: content missing %q:\n%s", tc.name, tc.wantText, res.Content)
		}
		if res.FileName != tc.name {
			t.Errorf("%s: file name = %q", tc.name, res.FileName)
		}
	}
}

func TestExtractFileNotFound(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.ExtractFile(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestExtractFileStatErrorNotMaskedAsNotFound(t *testing.T) {
	dir := t.TempDir()
	// A regular file used as a directory makes stat fail with ENOTDIR,
	// which is not a not-found condition.
	blocker := writeFile(t, dir, "blocker.txt", "content")

	reg := NewRegistry()
	_, err := reg.ExtractFile(filepath.Join(blocker, "child.txt"))
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrFileNotFound) {
		t.Fatalf("stat failure misreported as file-not-found: %v", err)
	}
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func TestExtractFileUnsupportedBinary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x81}, 0o644); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry()
	_, err := reg.ExtractFile(path)
	var unsupported *UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedTypeError, got %v", err)
	}
	if len(unsupported.Supported) == 0 {
		t.Error("error should list supported extensions")
	}
}

func TestExtractFileInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.json", "{not valid")

	reg := NewRegistry()
	_, err := reg.ExtractFile(path)
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func TestRegisterOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "deck.pptx", "ignored")

	reg := NewRegistry()
	reg.Register("pitch_deck_powerpoint", ExtractorFunc(func(string) (string, error) {
		return "slide one", nil
	}), ".pptx", ".ppt")

	res, err := reg.ExtractFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != "pitch_deck_powerpoint" || res.Content != "slide one" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
