// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIConfigValidate(t *testing.T) {
	valid := AIConfig{Model: "anthropic/claude-sonnet-4.5", APIKey: "sk-or-abc", MaxTokens: 4096}
	assert.NoError(t, valid.Validate())

	missingKey := AIConfig{Model: "anthropic/claude-sonnet-4.5"}
	assert.Error(t, missingKey.Validate())

	missingModel := AIConfig{APIKey: "sk-or-abc"}
	assert.Error(t, missingModel.Validate())
}

func TestExtractionConfigValidate(t *testing.T) {
	valid := ExtractionConfig{BooksDir: "pdf", DPI: 200}
	assert.NoError(t, valid.Validate())

	badDPI := ExtractionConfig{BooksDir: "pdf", DPI: 10}
	assert.Error(t, badDPI.Validate())

	noDir := ExtractionConfig{DPI: 200}
	assert.Error(t, noDir.Validate())
}
