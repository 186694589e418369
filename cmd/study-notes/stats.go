// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/study-notes/internal/pdf"
	"github.com/pdiddy/study-notes/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token statistics for books and their notes",
	Long: `Stats compares the token size of each book's source text against its
extracted notes, as a sense of coverage and compression. Counts use the
cl100k_base encoding and are cached per file until the PDF changes.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().String("export", "", "also write the table to a YAML file")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)

	books, err := pdf.List(cfg.Extraction.BooksDir)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		return fmt.Errorf("no PDF files found in %s", cfg.Extraction.BooksDir)
	}

	svc, err := stats.NewService(cfg.Stats.BaseDir)
	if err != nil {
		return err
	}
	defer svc.Close()

	// Warm the cache with the bounded worker pool before assembling rows.
	svc.Prefetch(cmd.Context(), books, cfg.Stats.Workers)

	rows := svc.BookStats(books)
	printStatsTable(cmd.OutOrStdout(), rows)

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := stats.ExportYAML(exportPath, rows); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", exportPath)
	}
	return nil
}

// printStatsTable renders the per-book statistics with a totals row.
func printStatsTable(w io.Writer, rows []stats.BookStat) {
	fmt.Fprintf(w, "%-40s  %9s  %12s  %11s  %12s  %7s\n",
		"Book", "PDF Pages", "PDF Tokens", "Notes Pages", "Notes Tokens", "Ratio")
	fmt.Fprintln(w, strings.Repeat("-", 102))

	var totalPDF, totalNotes int
	for _, r := range rows {
		name := r.Book
		if len(name) > 40 {
			name = name[:37] + "..."
		}

		notesPages := strconv.Itoa(r.NotesPages) + "/" + strconv.Itoa(r.PDFPages)
		notesTokens := "-"
		if r.NotesTokens > 0 {
			notesTokens = formatCount(r.NotesTokens)
		}
		ratio := "-"
		if r.Ratio > 0 {
			ratio = fmt.Sprintf("%.1f%%", r.Ratio*100)
		}

		fmt.Fprintf(w, "%-40s  %9d  %12s  %11s  %12s  %7s\n",
			name, r.PDFPages, formatCount(r.PDFTokens), notesPages, notesTokens, ratio)

		totalPDF += r.PDFTokens
		totalNotes += r.NotesTokens
	}

	totalRatio := "-"
	if totalPDF > 0 && totalNotes > 0 {
		totalRatio = fmt.Sprintf("%.1f%%", float64(totalNotes)/float64(totalPDF)*100)
	}
	totalNotesStr := "-"
	if totalNotes > 0 {
		totalNotesStr = formatCount(totalNotes)
	}
	fmt.Fprintln(w, strings.Repeat("-", 102))
	fmt.Fprintf(w, "%-40s  %9s  %12s  %11s  %12s  %7s\n",
		"TOTAL", "", formatCount(totalPDF), "", totalNotesStr, totalRatio)
	fmt.Fprintln(w, "\nTokens counted with the cl100k_base encoding (general approximation).")
}
