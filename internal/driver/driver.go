// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package driver runs the per-book extraction loop: page source → vision
// model → notes store, strictly sequentially, classifying each page as
// processed, skipped, or errored. A single page failure never aborts the
// run.
package driver

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/study-notes/internal/notes"
	"github.com/pdiddy/study-notes/internal/vision"
	"github.com/pdiddy/study-notes/pkg/types"
)

// Source supplies the extracted text and rendered image of one page.
type Source interface {
	ExtractPage(page int) (text string, image []byte, err error)
}

// Summary aggregates the outcome of one run.
type Summary struct {
	Processed int
	Skipped   int
	Errored   int

	// NotesPath is the notes document the run appended to.
	NotesPath string
}

// Total returns the number of pages attempted.
func (s Summary) Total() int {
	return s.Processed + s.Skipped + s.Errored
}

// Runner holds the collaborators for one book's extraction run.
type Runner struct {
	Source  Source
	Backend vision.Backend

	// Book is the normalized book name; BaseDir is where the notes/
	// directory lives.
	Book    string
	BaseDir string
	Course  types.CourseConfig

	// SendImage controls whether rendered page images accompany the text.
	SendImage bool
}

// ProcessPages walks the requested pages in order. Each page goes through
// extract, generate, and append; a failure in any step is logged to w,
// counted as errored, and the loop moves on. Pages already recorded in the
// notes document count as skipped. Cancelling the context stops the run
// between pages.
func (r *Runner) ProcessPages(ctx context.Context, pageNums []int, w io.Writer) (Summary, error) {
	systemPrompt, err := vision.SystemPrompt(r.Book, r.Course)
	if err != nil {
		return Summary{}, err
	}

	notesPath, err := notes.DocumentPath(r.BaseDir, r.Book)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{NotesPath: notesPath}

	for _, page := range pageNums {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		text, image, err := r.Source.ExtractPage(page)
		if err != nil {
			fmt.Fprintf(w, "failed  page %d: extract: %v\n", page, err)
			summary.Errored++
			continue
		}

		userPrompt, err := vision.PagePrompt(r.Book, page, text)
		if err != nil {
			fmt.Fprintf(w, "failed  page %d: prompt: %v\n", page, err)
			summary.Errored++
			continue
		}

		req := vision.Request{
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
		}
		if r.SendImage {
			req.Image = image
		}

		body, err := r.Backend.Generate(ctx, req)
		if err != nil {
			fmt.Fprintf(w, "failed  page %d: generate: %v\n", page, err)
			summary.Errored++
			continue
		}

		_, skipped, err := notes.AppendPage(r.BaseDir, r.Book, page, body, r.Course)
		if err != nil {
			fmt.Fprintf(w, "failed  page %d: store: %v\n", page, err)
			summary.Errored++
			continue
		}

		if skipped {
			fmt.Fprintf(w, "skipped page %d (already recorded)\n", page)
			summary.Skipped++
		} else {
			fmt.Fprintf(w, "done    page %d\n", page)
			summary.Processed++
		}
	}

	fmt.Fprintf(w, "\nprocessed: %d, skipped: %d, errored: %d\n",
		summary.Processed, summary.Skipped, summary.Errored)
	fmt.Fprintf(w, "notes: %s\n", notesPath)

	return summary, nil
}
