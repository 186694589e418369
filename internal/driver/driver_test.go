// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/pdiddy/study-notes/internal/notes"
	"github.com/pdiddy/study-notes/internal/vision"
	"github.com/pdiddy/study-notes/pkg/types"
)

var testCourse = types.CourseConfig{ID: "SEC560", CertName: "GPEN"}

// --- mock collaborators ---

// mockSource serves fixed text per page and fails pages listed in failPages.
type mockSource struct {
	failPages map[int]bool
	calls     []int
}

func (m *mockSource) ExtractPage(page int) (string, []byte, error) {
	m.calls = append(m.calls, page)
	if m.failPages[page] {
		return "", nil, fmt.Errorf("corrupt page %d", page)
	}
	return fmt.Sprintf("text of page %d", page), []byte{0x89, 0x50}, nil
}

// mockBackend answers with a well-formed page entry and fails pages listed
// in failPages. It records the requests it saw.
type mockBackend struct {
	book      string
	failPages map[int]bool
	requests  []vision.Request
}

func (m *mockBackend) Generate(_ context.Context, req vision.Request) (string, error) {
	m.requests = append(m.requests, req)
	// Recover the page number from the rendered prompt heading.
	var page int
	for p := 1; p <= 100; p++ {
		if strings.Contains(req.UserPrompt, fmt.Sprintf("— Page %d**", p)) {
			page = p
			break
		}
	}
	if m.failPages[page] {
		return "", fmt.Errorf("model overloaded")
	}
	return fmt.Sprintf("## %s - Page %d: Mock Topic\n\n### Core Concepts\n- note body", m.book, page), nil
}

func newRunner(t *testing.T, source *mockSource, backend *mockBackend, sendImage bool) (*Runner, string) {
	t.Helper()
	dir := t.TempDir()
	return &Runner{
		Source:    source,
		Backend:   backend,
		Book:      "Book 1",
		BaseDir:   dir,
		Course:    testCourse,
		SendImage: sendImage,
	}, dir
}

// --- tests ---

func TestProcessPagesAllSucceed(t *testing.T) {
	source := &mockSource{}
	backend := &mockBackend{book: "Book 1"}
	runner, dir := newRunner(t, source, backend, true)

	var out bytes.Buffer
	summary, err := runner.ProcessPages(context.Background(), []int{1, 2, 3}, &out)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Processed != 3 || summary.Skipped != 0 || summary.Errored != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if source.calls[0] != 1 || source.calls[1] != 2 || source.calls[2] != 3 {
		t.Fatalf("pages extracted out of order: %v", source.calls)
	}

	path, err := notes.DocumentPath(dir, "Book 1")
	if err != nil {
		t.Fatal(err)
	}
	recorded, err := notes.ExistingPages(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []int{1, 2, 3} {
		if !recorded[p] {
			t.Fatalf("page %d missing from document, have %v", p, recorded)
		}
	}
}

func TestProcessPagesGeneratorFailureContinues(t *testing.T) {
	// Page range "1,2" where page 2's model call fails: processed=1,
	// skipped=0, errored=1, and exactly one entry in the document.
	source := &mockSource{}
	backend := &mockBackend{book: "Book 1", failPages: map[int]bool{2: true}}
	runner, dir := newRunner(t, source, backend, true)

	var out bytes.Buffer
	summary, err := runner.ProcessPages(context.Background(), []int{1, 2}, &out)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Processed != 1 || summary.Skipped != 0 || summary.Errored != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	path, _ := notes.DocumentPath(dir, "Book 1")
	recorded, err := notes.ExistingPages(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(recorded) != 1 || !recorded[1] {
		t.Fatalf("document pages = %v, want exactly page 1", recorded)
	}
	if !strings.Contains(out.String(), "failed  page 2") {
		t.Fatalf("missing failure log, got:\n%s", out.String())
	}
}

func TestProcessPagesSourceFailureSkipsModelCall(t *testing.T) {
	source := &mockSource{failPages: map[int]bool{1: true}}
	backend := &mockBackend{book: "Book 1"}
	runner, _ := newRunner(t, source, backend, true)

	var out bytes.Buffer
	summary, err := runner.ProcessPages(context.Background(), []int{1}, &out)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Errored != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(backend.requests) != 0 {
		t.Fatalf("backend called %d times for a failed extraction", len(backend.requests))
	}
}

func TestProcessPagesRerunSkipsRecordedPages(t *testing.T) {
	source := &mockSource{}
	backend := &mockBackend{book: "Book 1"}
	runner, _ := newRunner(t, source, backend, true)

	var out bytes.Buffer
	if _, err := runner.ProcessPages(context.Background(), []int{1, 2}, &out); err != nil {
		t.Fatal(err)
	}

	summary, err := runner.ProcessPages(context.Background(), []int{1, 2, 3}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 1 || summary.Skipped != 2 || summary.Errored != 0 {
		t.Fatalf("rerun summary = %+v", summary)
	}
}

func TestProcessPagesImageToggle(t *testing.T) {
	source := &mockSource{}
	backend := &mockBackend{book: "Book 1"}
	runner, _ := newRunner(t, source, backend, false)

	var out bytes.Buffer
	if _, err := runner.ProcessPages(context.Background(), []int{1}, &out); err != nil {
		t.Fatal(err)
	}
	if len(backend.requests) != 1 || backend.requests[0].Image != nil {
		t.Fatalf("image sent with SendImage disabled")
	}

	runner.SendImage = true
	if _, err := runner.ProcessPages(context.Background(), []int{2}, &out); err != nil {
		t.Fatal(err)
	}
	if backend.requests[1].Image == nil {
		t.Fatalf("image missing with SendImage enabled")
	}
}

func TestProcessPagesContextCancellation(t *testing.T) {
	source := &mockSource{}
	backend := &mockBackend{book: "Book 1"}
	runner, _ := newRunner(t, source, backend, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := runner.ProcessPages(ctx, []int{1, 2}, &out)
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(source.calls) != 0 {
		t.Fatalf("pages extracted after cancellation: %v", source.calls)
	}
}

func TestProcessPagesStoreFailure(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission-based store failure is not reproducible as root")
	}

	source := &mockSource{}
	backend := &mockBackend{book: "Book 1"}
	runner, dir := newRunner(t, source, backend, true)

	// Pre-create the document read-only so the append fails.
	path, err := notes.DocumentPath(dir, "Book 1")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("# Book 1 — Study Notes\n\n---\n\n"), 0o444); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	summary, err := runner.ProcessPages(context.Background(), []int{1}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Errored != 1 || summary.Processed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
}
