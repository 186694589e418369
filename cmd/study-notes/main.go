// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the study-notes CLI: page-by-page
// study note extraction from PDF books using a vision model, with
// deduplicated append-only markdown output per book.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/study-notes/internal/secrets"
	"github.com/pdiddy/study-notes/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the study-notes CLI.
var rootCmd = &cobra.Command{
	Use:   "study-notes",
	Short: "Extract study notes from PDF books with a vision model",
	Long: `study-notes extracts page-by-page study notes from PDF books using a
vision-capable model via OpenRouter. Notes accumulate in one markdown
document per book; already-recorded pages are skipped, so interrupted or
repeated runs never duplicate entries.

Run without arguments for the interactive book picker, or use the extract
subcommand for one-shot runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; environment beats config file.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading .env: %w", err)
		}
		// .secrets/openrouter-api-key is the lowest-priority source.
		if viper.GetString("ai.api_key") == "" {
			key, err := secrets.APIKey(secrets.DefaultDir)
			if err != nil {
				return err
			}
			if key != "" {
				viper.Set("ai.api_key", key)
			}
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./study-notes.yaml or ~/.config/study-notes/config.yaml)")
	rootCmd.PersistentFlags().String("books-dir", "", "directory scanned for PDF books (default \"pdf\")")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("study-notes")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "study-notes"))
		}
	}

	viper.SetDefault("extraction.books_dir", "pdf")
	viper.SetDefault("extraction.dpi", 200)
	viper.SetDefault("extraction.send_image", true)
	viper.SetDefault("ai.max_tokens", 4096)
	viper.SetDefault("ai.timeout", "120s")
	viper.SetDefault("course.id", "COURSE")
	viper.SetDefault("course.cert_name", "CERT")
	viper.SetDefault("stats.workers", 4)

	viper.SetEnvPrefix("STUDY_NOTES")
	viper.AutomaticEnv()

	// The original env contract, kept for drop-in compatibility.
	viper.BindEnv("ai.api_key", "OPENROUTER_API_KEY")
	viper.BindEnv("ai.model", "OPENROUTER_MODEL")
	viper.BindEnv("course.id", "COURSE_ID")
	viper.BindEnv("course.cert_name", "CERT_NAME")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the runtime configuration from viper, honoring the
// --books-dir override.
func loadConfig(cmd *cobra.Command) types.Config {
	booksDir := viper.GetString("extraction.books_dir")
	if flagDir, _ := cmd.Flags().GetString("books-dir"); flagDir != "" {
		booksDir = flagDir
	}

	timeout := viper.GetDuration("ai.timeout")
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	course := types.CourseConfig{
		ID:       viper.GetString("course.id"),
		CertName: viper.GetString("course.cert_name"),
	}

	return types.Config{
		Course: course,
		AI: types.AIConfig{
			Model:     viper.GetString("ai.model"),
			APIKey:    viper.GetString("ai.api_key"),
			MaxTokens: viper.GetInt("ai.max_tokens"),
			Timeout:   timeout,
		},
		Extraction: types.ExtractionConfig{
			BooksDir:  booksDir,
			DPI:       viper.GetInt("extraction.dpi"),
			SendImage: viper.GetBool("extraction.send_image"),
		},
		Notes: types.NotesConfig{
			BaseDir: booksDir,
			Course:  course,
		},
		Stats: types.StatsConfig{
			BaseDir: booksDir,
			Workers: viper.GetInt("stats.workers"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
