// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vision

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/study-notes/pkg/types"
)

// systemPromptTmpl is the run-level directive sent with every page. Rule 3's
// format requirement is load-bearing: the page heading it mandates is what
// the notes store scans for dedup.
var systemPromptTmpl = template.Must(template.New("system").Parse(`You are an expert study guide generator. You have been given a single page from {{.BookName}} for the {{.CourseID}} ({{.CertName}}) program.

Your job is to produce exhaustive, high-fidelity notes for open-book exam preparation.

Rules:
1. ABSOLUTE FIDELITY — Do not summarize, skip, or compress any detail. Extract everything exactly as it appears.
2. SINGLE PAGE ONLY — Extract only what is on this page. Do not speculate about other pages.
3. NO FILLER — Output only the structured format. No greetings, commentary, or sign-offs.
4. CODE BLOCKS — Any command, script, config line, or syntax must be in a fenced code block and documented properly. Every flag, option, and parameter must be documented.
5. DIAGRAMS & FIGURES — Describe any visual content (diagrams, flowcharts, figures) in detail.
6. TABLES — Reproduce any tables as markdown tables with all data intact.
`))

// pagePromptTmpl is the per-page prompt carrying the extracted text.
var pagePromptTmpl = template.Must(template.New("page").Parse(`Below is the extracted text and a rendered image of **{{.BookName}} — Page {{.PageNumber}}**.

Use BOTH the text AND the image to ensure nothing is missed (the image may contain diagrams, screenshots, or formatting that text extraction misses).

<extracted_text>
{{.PageText}}
</extracted_text>

Produce notes for this page using this exact format:

## {{.BookName}} - Page {{.PageNumber}}: [Page Title/Topic]

### Core Concepts
- [All theory, definitions, methodology, and diagram/figure descriptions on this page.]

### Technical Details
[Any commands, syntax, configurations, code, or tool usage. Use fenced code blocks. If none, write "N/A".]

### Key Terms
[Any specific terms defined or emphasized. If none, write "N/A".]

### Exam Relevance
[Specific facts, numbers, or details likely to be exam-testable. If unclear, write "N/A".]

Output ONLY the formatted notes. Nothing else.
`))

// SystemPrompt renders the run-level prompt for a book.
func SystemPrompt(book string, course types.CourseConfig) (string, error) {
	var buf bytes.Buffer
	err := systemPromptTmpl.Execute(&buf, struct {
		BookName, CourseID, CertName string
	}{book, course.ID, course.CertName})
	if err != nil {
		return "", fmt.Errorf("rendering system prompt: %w", err)
	}
	return buf.String(), nil
}

// PagePrompt renders the per-page prompt. Empty extracted text is replaced
// with a marker telling the model to rely on the image.
func PagePrompt(book string, page int, pageText string) (string, error) {
	if strings.TrimSpace(pageText) == "" {
		pageText = "(No extractable text — rely on the image.)"
	}
	var buf bytes.Buffer
	err := pagePromptTmpl.Execute(&buf, struct {
		BookName   string
		PageNumber int
		PageText   string
	}{book, page, pageText})
	if err != nil {
		return "", fmt.Errorf("rendering page prompt: %w", err)
	}
	return buf.String(), nil
}
