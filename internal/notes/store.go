// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notes owns the per-book markdown notes documents. A document is
// append-only: page entries are added exactly once and never edited or
// removed. The document itself is the dedup index — before every append the
// store re-reads the file and scans its page headings, so interrupted or
// repeated runs never produce duplicate entries.
package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/study-notes/pkg/types"
)

const notesDir = "notes"

// toolName appears in every document header.
const toolName = "PDF Study Notes Extractor (OpenRouter Vision API)"

// pageHeadingPattern matches the heading line that opens each page entry:
//
//	## <book> - Page <N>: <title>
//
// This is the on-disk contract shared with the prompt templates. The scan
// over these headings is the sole dedup mechanism, so generated note bodies
// must not contain lines of this shape anywhere else.
var pageHeadingPattern = regexp.MustCompile(`(?m)^## .+ - Page (\d+):`)

// unsafePathChars are replaced with underscores when deriving a filename
// from a book name.
var unsafePathChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// entrySeparator terminates every page entry.
const entrySeparator = "\n\n---\n\n"

// DocumentPath returns the path of the notes document for a book, creating
// the containing notes/ directory if needed. The path is a pure function of
// (baseDir, book); the document itself is not touched.
func DocumentPath(baseDir, book string) (string, error) {
	dir := filepath.Join(baseDir, notesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating notes directory %s: %w", dir, err)
	}
	safe := unsafePathChars.ReplaceAllString(book, "_")
	return filepath.Join(dir, safe+"_Notes.md"), nil
}

// ExistingPages reads a notes document and returns the set of page numbers
// already recorded in it. A missing document yields an empty set. The read
// is fresh on every call: the document may have been created or extended
// outside the current process.
func ExistingPages(path string) (map[int]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[int]bool{}, nil
		}
		return nil, fmt.Errorf("reading notes document %s: %w", path, err)
	}

	pages := make(map[int]bool)
	for _, m := range pageHeadingPattern.FindAllStringSubmatch(string(data), -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		pages[n] = true
	}
	return pages, nil
}

// PageCount returns the number of page entries in a book's notes document,
// or 0 if the document does not exist.
func PageCount(baseDir, book string) (int, error) {
	path, err := DocumentPath(baseDir, book)
	if err != nil {
		return 0, err
	}
	pages, err := ExistingPages(path)
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// AppendPage records the notes for one page of a book. If the page is
// already present the call is an idempotent no-op and skipped is true. On
// first write for a book the document header is created before the entry.
// The entry body is trimmed and terminated with a horizontal-rule separator
// in a single append.
//
// A failed append leaves the page unrecorded; a header written before a
// failed first entry is harmless, since a header-only document scans to an
// empty page set and the page is retried on the next run.
func AppendPage(baseDir, book string, page int, content string, course types.CourseConfig) (string, bool, error) {
	path, err := DocumentPath(baseDir, book)
	if err != nil {
		return "", false, err
	}

	existing, err := ExistingPages(path)
	if err != nil {
		return path, false, err
	}
	if existing[page] {
		return path, true, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		header := documentHeader(book, course, time.Now())
		if err := os.WriteFile(path, []byte(header), 0o644); err != nil {
			return path, false, fmt.Errorf("writing document header: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return path, false, fmt.Errorf("opening notes document for append: %w", err)
	}

	entry := strings.TrimSpace(content) + entrySeparator
	if _, err := f.Write([]byte(entry)); err != nil {
		f.Close()
		return path, false, fmt.Errorf("appending page %d entry: %w", page, err)
	}
	if err := f.Close(); err != nil {
		return path, false, fmt.Errorf("flushing page %d entry: %w", page, err)
	}

	return path, false, nil
}

// documentHeader renders the one-time header block for a new document.
func documentHeader(book string, course types.CourseConfig, now time.Time) string {
	return fmt.Sprintf(
		"# %s — Study Notes\n\n"+
			"**Course:** %s (%s)  \n"+
			"**Generated:** %s  \n"+
			"**Tool:** %s  \n\n"+
			"---\n\n",
		book, course.ID, course.CertName, now.Format("2006-01-02 15:04"), toolName,
	)
}
