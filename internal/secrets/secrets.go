// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves the OpenRouter API key from a directory of
// plain-text key files, as an alternative to .env for users who keep
// credentials out of environment files. The filename is the key name and
// the file contents (trimmed) are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// APIKeyFile is the recognized key file for the OpenRouter credential.
const APIKeyFile = "openrouter-api-key"

// DefaultDir is the conventional secrets directory next to the books.
const DefaultDir = ".secrets"

// APIKey reads dir/openrouter-api-key and returns its trimmed contents.
// A missing directory or file is not an error; APIKey returns "".
func APIKey(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, APIKeyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading secret %s: %w", APIKeyFile, err)
	}
	return strings.TrimSpace(string(data)), nil
}
