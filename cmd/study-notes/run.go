// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/study-notes/internal/driver"
	"github.com/pdiddy/study-notes/internal/notes"
	"github.com/pdiddy/study-notes/internal/pages"
	"github.com/pdiddy/study-notes/internal/pdf"
	"github.com/pdiddy/study-notes/internal/stats"
	"github.com/pdiddy/study-notes/internal/vision"
	"github.com/pdiddy/study-notes/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Interactively pick a book and page range to extract",
	Long: `Run scans the books directory for PDFs and enters an interactive loop:
pick a book by number, enter a page range (e.g. 1-20 or 5,10,15-20),
confirm, and the pages are extracted one by one. Already-recorded pages
are skipped.

At the prompt, 'i' toggles whether page images are sent to the model,
's' shows the token statistics table, and 'q' quits.`,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)

	if err := cfg.AI.Validate(); err != nil {
		return fmt.Errorf("set OPENROUTER_API_KEY and OPENROUTER_MODEL in .env or config: %w", err)
	}
	if err := cfg.Extraction.Validate(); err != nil {
		return fmt.Errorf("invalid extraction settings: %w", err)
	}

	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	fmt.Fprintf(out, "Course: %s (%s)\n", cfg.Course.ID, cfg.Course.CertName)
	fmt.Fprintf(out, "Model:  %s\n\n", cfg.AI.Model)

	svc, err := stats.NewService(cfg.Stats.BaseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: token statistics unavailable: %v\n", err)
		svc = nil
	} else {
		defer svc.Close()
	}

	sendImage := cfg.Extraction.SendImage

	for {
		books, err := pdf.List(cfg.Extraction.BooksDir)
		if err != nil {
			return err
		}
		if len(books) == 0 {
			return fmt.Errorf("no PDF files found in %s", cfg.Extraction.BooksDir)
		}

		if svc != nil {
			// Warm the token cache in the background; the table shows
			// "..." until a book's count lands.
			go svc.Prefetch(context.Background(), books, cfg.Stats.Workers)
		}

		printBookTable(out, books, svc)

		mode := "ON (text + image)"
		if !sendImage {
			mode = "OFF (text only)"
		}
		fmt.Fprintf(out, "Image mode: %s\n\n", mode)

		choice := prompt(out, in, "Select a book (number, i = toggle image, s = stats, q = quit): ")
		switch strings.ToLower(choice) {
		case "q", "":
			fmt.Fprintln(out, "Goodbye.")
			return nil
		case "i":
			sendImage = !sendImage
			continue
		case "s":
			if svc == nil {
				fmt.Fprintln(out, "Token statistics unavailable.")
				continue
			}
			printStatsTable(out, svc.BookStats(books))
			continue
		}

		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(books) {
			fmt.Fprintln(out, "Invalid selection. Try again.")
			continue
		}
		selected := books[idx-1]
		book := pdf.BookName(selected)

		totalPages, err := pdf.PageCount(selected)
		if err != nil {
			fmt.Fprintf(out, "Cannot open %s: %v\n", filepath.Base(selected), err)
			continue
		}
		fmt.Fprintf(out, "\nSelected: %s (%d pages)\n", book, totalPages)

		rangeExpr := prompt(out, in, fmt.Sprintf("Page range (1-%d, e.g. 1-20 or 5,10,15-20): ", totalPages))
		pageNums, err := pages.Parse(rangeExpr, totalPages)
		if err != nil {
			fmt.Fprintf(out, "Invalid range: %v\n\n", err)
			continue
		}
		fmt.Fprintf(out, "Will process %d page(s): %d-%d\n", len(pageNums), pageNums[0], pageNums[len(pageNums)-1])

		confirm := prompt(out, in, "Start extraction? [y/n]: ")
		if !strings.EqualFold(confirm, "y") && confirm != "" {
			fmt.Fprintln(out, "Cancelled.")
			continue
		}

		if err := extractBook(cmd.Context(), cfg, selected, pageNums, sendImage, out); err != nil {
			fmt.Fprintf(out, "Run failed: %v\n", err)
		}
		fmt.Fprintln(out)
	}
}

// extractBook wires up the pipeline for one book and processes the pages.
func extractBook(ctx context.Context, cfg types.Config, bookPath string, pageNums []int, sendImage bool, w io.Writer) error {
	strips, err := pdf.LoadStripList(filepath.Dir(bookPath), ".")
	if err != nil {
		return err
	}

	runner := &driver.Runner{
		Source: pdf.Book{
			Path:   bookPath,
			DPI:    cfg.Extraction.DPI,
			Strips: strips,
		},
		Backend:   vision.NewOpenRouterBackend(cfg.AI),
		Book:      pdf.BookName(bookPath),
		BaseDir:   cfg.Notes.BaseDir,
		Course:    cfg.Course,
		SendImage: sendImage,
	}

	if path, err := notes.DocumentPath(cfg.Notes.BaseDir, runner.Book); err == nil {
		fmt.Fprintf(w, "\nNotes file: %s\n\n", path)
	}
	_, err = runner.ProcessPages(ctx, pageNums, w)
	return err
}

// prompt writes the label and reads one trimmed line.
func prompt(out io.Writer, in *bufio.Scanner, label string) string {
	fmt.Fprint(out, label)
	if !in.Scan() {
		return "q"
	}
	return strings.TrimSpace(in.Text())
}

// printBookTable renders the numbered book list with page counts and token
// counts where the cache has them.
func printBookTable(w io.Writer, books []string, svc *stats.Service) {
	fmt.Fprintf(w, "%-4s  %-40s  %8s  %12s  %s\n", "#", "Book Name", "Pages", "Tokens", "File")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, path := range books {
		name := pdf.BookName(path)
		if len(name) > 40 {
			name = name[:37] + "..."
		}

		pageStr := "?"
		if n, err := pdf.PageCount(path); err == nil {
			pageStr = strconv.Itoa(n)
		}

		tokenStr := "..."
		if svc == nil {
			tokenStr = "-"
		} else if tokens, ok := svc.CachedPDFTokens(path); ok {
			tokenStr = formatCount(tokens)
		}

		fmt.Fprintf(w, "%-4d  %-40s  %8s  %12s  %s\n", i+1, name, pageStr, tokenStr, filepath.Base(path))
	}
	fmt.Fprintln(w)
}

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return s + "," + strings.Join(parts, ",")
}
