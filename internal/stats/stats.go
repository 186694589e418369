// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats computes token statistics for source PDFs and their notes
// documents, comparing source size against extracted notes. Counts are
// cached in a small SQLite database keyed by file modification time; the
// cache is display-only and is never consulted by the notes store.
package stats

import (
	"fmt"
	"os"

	"github.com/pkoukk/tiktoken-go"

	"github.com/pdiddy/study-notes/internal/notes"
	"github.com/pdiddy/study-notes/internal/pdf"
)

// encodingName is a general-purpose tokenizer approximation, matching what
// most chat models report within a few percent.
const encodingName = "cl100k_base"

// Counter counts tokens with the cl100k_base encoding.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter loads the tokenizer encoding.
func NewCounter() (*Counter, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("loading %s encoding: %w", encodingName, err)
	}
	return &Counter{enc: enc}, nil
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// Service bundles the counter and cache for stat queries over one books
// directory.
type Service struct {
	counter *Counter
	cache   *Cache
	baseDir string
}

// NewService builds a stats service rooted at baseDir (the directory
// holding the PDFs and the notes/ subdirectory). The cache database lives
// next to the notes documents.
func NewService(baseDir string) (*Service, error) {
	counter, err := NewCounter()
	if err != nil {
		return nil, err
	}
	cache, err := OpenCache(baseDir)
	if err != nil {
		return nil, err
	}
	return &Service{counter: counter, cache: cache, baseDir: baseDir}, nil
}

// Close releases the cache database.
func (s *Service) Close() error {
	return s.cache.Close()
}

// PDFTokens returns (chars, tokens) for the full text of a PDF, serving
// from the cache when the file has not changed since the count was stored.
func (s *Service) PDFTokens(path string) (int, int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, fmt.Errorf("stat %s: %w", path, err)
	}

	if chars, tokens, ok, err := s.cache.Lookup(path, info.ModTime()); err == nil && ok {
		return chars, tokens, nil
	}

	text, err := pdf.Text(path)
	if err != nil {
		return 0, 0, err
	}
	chars := len(text)
	tokens := s.counter.Count(text)

	if err := s.cache.Store(path, info.ModTime(), chars, tokens); err != nil {
		return chars, tokens, fmt.Errorf("caching token count for %s: %w", path, err)
	}
	return chars, tokens, nil
}

// CachedPDFTokens returns the cached token count for a PDF without
// computing anything. Used by display code while a prefetch is still
// warming the cache.
func (s *Service) CachedPDFTokens(path string) (int, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	_, tokens, ok, err := s.cache.Lookup(path, info.ModTime())
	if err != nil || !ok {
		return 0, false
	}
	return tokens, true
}

// NotesTokens returns (chars, tokens, true) for a book's notes document, or
// ok=false when no document exists yet. Notes are never cached: the
// document grows between runs and the read is cheap.
func (s *Service) NotesTokens(book string) (int, int, bool, error) {
	path, err := notes.DocumentPath(s.baseDir, book)
	if err != nil {
		return 0, 0, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, false, nil
		}
		return 0, 0, false, fmt.Errorf("reading notes document %s: %w", path, err)
	}
	return len(data), s.counter.Count(string(data)), true, nil
}

// BookStat is one row of the statistics table.
type BookStat struct {
	Book        string  `json:"book" yaml:"book"`
	PDFPages    int     `json:"pdf_pages" yaml:"pdf_pages"`
	PDFTokens   int     `json:"pdf_tokens" yaml:"pdf_tokens"`
	NotesPages  int     `json:"notes_pages" yaml:"notes_pages"`
	NotesTokens int     `json:"notes_tokens" yaml:"notes_tokens"`
	Ratio       float64 `json:"ratio" yaml:"ratio"`
}

// BookStats assembles a statistics row for each PDF path. Per-book failures
// produce a row with zero counts rather than aborting the table.
func (s *Service) BookStats(paths []string) []BookStat {
	rows := make([]BookStat, 0, len(paths))
	for _, path := range paths {
		row := BookStat{Book: pdf.BookName(path)}

		if pages, err := pdf.PageCount(path); err == nil {
			row.PDFPages = pages
		}
		if _, tokens, err := s.PDFTokens(path); err == nil {
			row.PDFTokens = tokens
		}
		if n, err := notes.PageCount(s.baseDir, row.Book); err == nil {
			row.NotesPages = n
		}
		if _, tokens, ok, err := s.NotesTokens(row.Book); err == nil && ok {
			row.NotesTokens = tokens
		}
		if row.PDFTokens > 0 && row.NotesTokens > 0 {
			row.Ratio = float64(row.NotesTokens) / float64(row.PDFTokens)
		}
		rows = append(rows, row)
	}
	return rows
}
