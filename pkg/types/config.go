// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CourseConfig identifies the course the books belong to. The values are
// interpolated into prompts and into each notes document header.
type CourseConfig struct {
	// ID is the course identifier (e.g. "SEC560").
	ID string `json:"id" yaml:"id"`

	// CertName is the certification the course prepares for (e.g. "GPEN").
	CertName string `json:"cert_name" yaml:"cert_name"`
}

// AIConfig holds settings for the vision model backend.
type AIConfig struct {
	// Model is the OpenRouter model identifier (e.g. "anthropic/claude-sonnet-4.5").
	Model string `json:"model" yaml:"model"`

	// APIKey is the OpenRouter API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens caps the model response length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Timeout is the HTTP request timeout for model calls (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Validate checks that the AI configuration is complete enough to call the
// model API.
func (c AIConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Model, validation.Required),
		validation.Field(&c.APIKey, validation.Required),
		validation.Field(&c.MaxTokens, validation.Min(0)),
	)
}

// ExtractionConfig holds settings for the PDF page source.
type ExtractionConfig struct {
	// BooksDir is the directory scanned for source PDFs (default "pdf").
	BooksDir string `json:"books_dir" yaml:"books_dir"`

	// DPI is the resolution used when rendering a page for the vision
	// model (default 200).
	DPI int `json:"dpi" yaml:"dpi"`

	// SendImage controls whether rendered page images are sent to the
	// model alongside the extracted text.
	SendImage bool `json:"send_image" yaml:"send_image"`
}

// Validate checks the extraction settings.
func (c ExtractionConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BooksDir, validation.Required),
		validation.Field(&c.DPI, validation.Min(36), validation.Max(600)),
	)
}

// NotesConfig holds settings for the notes store.
type NotesConfig struct {
	// BaseDir is the directory under which the notes/ subdirectory is
	// created. Usually the same directory the PDFs live in.
	BaseDir string `json:"base_dir" yaml:"base_dir"`

	// Course metadata written into each document header.
	Course CourseConfig `json:"course" yaml:"course"`
}

// StatsConfig holds settings for token statistics.
type StatsConfig struct {
	// BaseDir is the directory holding the notes/ subdirectory and the
	// stats cache database.
	BaseDir string `json:"base_dir" yaml:"base_dir"`

	// Workers bounds the parallel token-count prefetch pool (default 4).
	Workers int `json:"workers" yaml:"workers"`
}

// Config groups all component configurations for the tool.
type Config struct {
	Course     CourseConfig     `json:"course" yaml:"course"`
	AI         AIConfig         `json:"ai" yaml:"ai"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Notes      NotesConfig      `json:"notes" yaml:"notes"`
	Stats      StatsConfig      `json:"stats" yaml:"stats"`
}
