// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdf reads source books: per-page text extraction and page
// rasterization for vision model input, via the MuPDF bindings.
package pdf

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// idSuffixPattern matches trailing numeric ID suffixes on book filenames,
// e.g. "_3472340" or "_3472340-1".
var idSuffixPattern = regexp.MustCompile(`_\d+(-\d+)?$`)

// List returns the PDF files in dir, sorted by filename.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading books directory %s: %w", dir, err)
	}

	var pdfs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			pdfs = append(pdfs, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(pdfs)
	return pdfs, nil
}

// BookName derives the book name from a PDF path by dropping the extension
// and any trailing numeric ID suffix:
//
//	"SEC560 - Book 1_3472340-1.pdf" → "SEC560 - Book 1"
func BookName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimSpace(idSuffixPattern.ReplaceAllString(stem, ""))
}

// PageCount returns the number of pages in a PDF.
func PageCount(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

// ExtractPage returns the cleaned text and a rendered PNG of one page.
// Pages are 1-indexed. The strip list removes configured boilerplate from
// the extracted text before it is returned.
func ExtractPage(path string, page, dpi int, strips *StripList) (string, []byte, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer doc.Close()

	if page < 1 || page > doc.NumPage() {
		return "", nil, fmt.Errorf("page %d out of range 1-%d in %s", page, doc.NumPage(), filepath.Base(path))
	}

	text, err := doc.Text(page - 1)
	if err != nil {
		return "", nil, fmt.Errorf("extracting text from page %d: %w", page, err)
	}
	text = strips.Clean(text)

	img, err := doc.ImageDPI(page-1, float64(dpi))
	if err != nil {
		return "", nil, fmt.Errorf("rendering page %d: %w", page, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", nil, fmt.Errorf("encoding page %d image: %w", page, err)
	}

	return text, buf.Bytes(), nil
}

// Book bundles a PDF path with render settings so callers can extract pages
// without re-threading configuration.
type Book struct {
	Path   string
	DPI    int
	Strips *StripList
}

// Name returns the normalized book name.
func (b Book) Name() string {
	return BookName(b.Path)
}

// ExtractPage extracts one page of the book. Pages are 1-indexed.
func (b Book) ExtractPage(page int) (string, []byte, error) {
	return ExtractPage(b.Path, page, b.DPI, b.Strips)
}

// Text extracts the text of every page of a PDF, joined with newlines.
// Used for token statistics; no cleaning is applied.
func Text(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer doc.Close()

	var parts []string
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("extracting text from page %d: %w", i+1, err)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n"), nil
}
