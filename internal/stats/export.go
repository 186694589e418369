// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stats

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// exportFile holds the serialized statistics table.
type exportFile struct {
	GeneratedAt time.Time  `yaml:"generated_at"`
	Books       []BookStat `yaml:"books"`
}

// ExportYAML writes the statistics rows to a YAML file.
func ExportYAML(path string, rows []BookStat) error {
	data, err := yaml.Marshal(exportFile{
		GeneratedAt: time.Now().UTC(),
		Books:       rows,
	})
	if err != nil {
		return fmt.Errorf("marshaling stats export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing stats export: %w", err)
	}
	return nil
}
