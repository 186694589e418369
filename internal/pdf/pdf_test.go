// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"SEC560 - Book 1_3472340-1.pdf", "SEC560 - Book 1"},
		{"SEC560 - Book 1_3472340.pdf", "SEC560 - Book 1"},
		{"Book 1_3472340-1.pdf", "Book 1"},
		{"Plain Title.pdf", "Plain Title"},
		{"Title With Spaces _99.pdf", "Title With Spaces"},
		{filepath.Join("some", "dir", "Book 2_12-3.pdf"), "Book 2"},
		{"no_suffix_here.pdf", "no_suffix_here"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BookName(tt.path), "BookName(%q)", tt.path)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.pdf", "notes.md", "c.PDF"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	got, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.pdf"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "c.PDF"),
	}, got)
}

func TestListMissingDirectory(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestLoadStripList(t *testing.T) {
	dir := t.TempDir()
	content := "Licensed to: Example Corp\n# a comment\n\nCONFIDENTIAL\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, stripFileName), []byte(content), 0o644))

	strips, err := LoadStripList(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, strips.Len())

	cleaned := strips.Clean("Header\nLicensed to: Example Corp\n\n\n\nBody CONFIDENTIAL text\n")
	assert.Equal(t, "Header\n\nBody  text", cleaned)
}

func TestLoadStripListFallbackDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none")
	fallback := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(fallback, stripFileName), []byte("junk\n"), 0o644))

	strips, err := LoadStripList(missing, fallback)
	require.NoError(t, err)
	assert.Equal(t, 1, strips.Len())
}

func TestLoadStripListAbsentEverywhere(t *testing.T) {
	strips, err := LoadStripList(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, strips.Len())
	assert.Equal(t, "unchanged", strips.Clean("  unchanged  "))
}
