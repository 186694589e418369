// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, APIKeyFile), []byte("  sk-or-abc123  \n"), 0o600))

	key, err := APIKey(dir)
	require.NoError(t, err)
	assert.Equal(t, "sk-or-abc123", key)
}

func TestAPIKeyMissingFile(t *testing.T) {
	key, err := APIKey(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestAPIKeyMissingDirectory(t *testing.T) {
	key, err := APIKey(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, key)
}
