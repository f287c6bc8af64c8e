// Package extract pulls text content out of uploaded files. A registry
// maps file extensions to a document kind and an extractor, so callers can
// add formats (PowerPoint, Word, image OCR) without touching this package.
package extract

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// Extractor pulls text content out of one file format.
type Extractor interface {
	Extract(path string) (string, error)
}

// ExtractorFunc adapts a plain function to the Extractor interface.
type ExtractorFunc func(path string) (string, error)

func (f ExtractorFunc) Extract(path string) (string, error) { return f(path) }

type format struct {
	kind      string
	extractor Extractor
}

// Registry maps lowercased file extensions (".pdf") to extractors and the
// document kind extracted content is stored under.
type Registry struct {
	formats map[string]format
}

// NewRegistry returns a registry with the bundled extractors: plain text
// and markdown, JSON, CSV, PDF and Excel workbooks.
func NewRegistry() *Registry {
	r := &Registry{formats: make(map[string]format)}
	r.Register("text_document", ExtractorFunc(extractText), ".txt", ".md", ".markdown")
	r.Register("data_json", ExtractorFunc(extractJSON), ".json")
	r.Register("spreadsheet_csv", ExtractorFunc(extractCSV), ".csv")
	r.Register("document_pdf", ExtractorFunc(extractPDF), ".pdf")
	r.Register("spreadsheet_excel", ExtractorFunc(extractExcel), ".xlsx", ".xls")
	return r
}

// Register binds extensions to an extractor and document kind, replacing
// any existing binding for those extensions.
func (r *Registry) Register(kind string, extractor Extractor, exts ...string) {
	for _, ext := range exts {
		r.formats[strings.ToLower(ext)] = format{kind: kind, extractor: extractor}
	}
}

// Supported returns the registered extensions, sorted.
func (r *Registry) Supported() []string {
	exts := make([]string, 0, len(r.formats))
	for ext := range r.formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Result is the outcome of extracting one file.
type Result struct {
	Content  string
	Kind     string
	FileName string
	Ext      string
}

// ExtractFile extracts text from the file at path. Files with an
// unregistered extension are read as plain text when they decode as UTF-8;
// anything else yields an UnsupportedTypeError.
func (r *Registry) ExtractFile(path string) (Result, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Result{}, &ExtractionError{Path: path, Err: ErrFileNotFound}
		}
		return Result{}, &ExtractionError{Path: path, Err: err}
	}

	ext := strings.ToLower(filepath.Ext(path))
	res := Result{FileName: filepath.Base(path), Ext: ext}

	f, ok := r.formats[ext]
	if !ok {
		// Unknown extension: accept it if it reads as text.
		data, err := os.ReadFile(path)
		if err != nil || !utf8.Valid(data) {
			return Result{}, &UnsupportedTypeError{Ext: ext, Supported: r.Supported()}
		}
		res.Kind = "unknown_text_file"
		res.Content = string(data)
		return res, nil
	}

	content, err := f.extractor.Extract(path)
	if err != nil {
		return Result{}, &ExtractionError{Path: path, Err: err}
	}
	res.Kind = f.kind
	res.Content = content
	return res, nil
}
