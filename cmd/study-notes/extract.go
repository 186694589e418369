// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/study-notes/internal/pages"
	"github.com/pdiddy/study-notes/internal/pdf"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a page range from one book non-interactively",
	Long: `Extract runs the pipeline once for a single book and page range,
without the interactive picker. Pages already recorded in the book's
notes document are skipped, so the same range can be requested again
after a partial failure.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("file", "", "path to the book PDF")
	extractCmd.Flags().String("pages", "", "page range, e.g. 1-20 or 5,10,15-20")
	extractCmd.Flags().Bool("no-image", false, "send extracted text only, without the rendered page image")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)

	if err := cfg.AI.Validate(); err != nil {
		return fmt.Errorf("set OPENROUTER_API_KEY and OPENROUTER_MODEL in .env or config: %w", err)
	}
	if err := cfg.Extraction.Validate(); err != nil {
		return fmt.Errorf("invalid extraction settings: %w", err)
	}

	bookPath, _ := cmd.Flags().GetString("file")
	if bookPath == "" {
		return fmt.Errorf("--file is required")
	}
	rangeExpr, _ := cmd.Flags().GetString("pages")
	if rangeExpr == "" {
		return fmt.Errorf("--pages is required")
	}

	totalPages, err := pdf.PageCount(bookPath)
	if err != nil {
		return err
	}
	pageNums, err := pages.Parse(rangeExpr, totalPages)
	if err != nil {
		return fmt.Errorf("invalid page range %q: %w", rangeExpr, err)
	}

	noImage, _ := cmd.Flags().GetBool("no-image")
	sendImage := cfg.Extraction.SendImage && !noImage

	return extractBook(cmd.Context(), cfg, bookPath, pageNums, sendImage, cmd.OutOrStdout())
}
