// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// stripFileName is the optional per-directory list of literal strings to
// remove from extracted page text (watermarks, license footers, headers).
const stripFileName = "strip_strings.txt"

// blankRuns collapses three or more consecutive newlines left behind after
// stripping.
var blankRuns = regexp.MustCompile(`\n{3,}`)

// StripList holds the literal strings removed from extracted page text.
// It is loaded once at startup and immutable afterwards.
type StripList struct {
	strips []string
}

// LoadStripList reads strip_strings.txt from the first directory in dirs
// that has one. Blank lines and lines starting with # are ignored. If no
// file exists anywhere, an empty list is returned.
func LoadStripList(dirs ...string) (*StripList, error) {
	for _, dir := range dirs {
		path := filepath.Join(dir, stripFileName)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		var strips []string
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
				continue
			}
			strips = append(strips, line)
		}
		return &StripList{strips: strips}, nil
	}
	return &StripList{}, nil
}

// Clean removes every configured strip string from text, collapses the
// blank-line runs left behind, and trims surrounding whitespace.
func (s *StripList) Clean(text string) string {
	if s == nil {
		return strings.TrimSpace(blankRuns.ReplaceAllString(text, "\n\n"))
	}
	for _, strip := range s.strips {
		text = strings.ReplaceAll(text, strip, "")
	}
	return strings.TrimSpace(blankRuns.ReplaceAllString(text, "\n\n"))
}

// Len reports how many strip strings are configured.
func (s *StripList) Len() int {
	return len(s.strips)
}
