// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stats

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	cacheDir  = "notes"
	cacheFile = "stats.db"
)

// Cache persists PDF token counts across runs. Entries are keyed by file
// path and validated against the file's modification time, so a re-exported
// PDF is recounted automatically.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the cache database at baseDir/notes/stats.db.
func OpenCache(baseDir string) (*Cache, error) {
	dir := filepath.Join(baseDir, cacheDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, cacheFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening stats cache: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS pdf_tokens (
		path TEXT PRIMARY KEY,
		file_mod_time TEXT NOT NULL,
		chars INTEGER NOT NULL,
		tokens INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup returns the cached counts for path if the stored modification time
// matches modTime exactly.
func (c *Cache) Lookup(path string, modTime time.Time) (chars, tokens int, ok bool, err error) {
	var storedModTime string
	err = c.db.QueryRow(
		`SELECT file_mod_time, chars, tokens FROM pdf_tokens WHERE path = ?`, path,
	).Scan(&storedModTime, &chars, &tokens)
	if err == sql.ErrNoRows {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("querying stats cache: %w", err)
	}
	if storedModTime != modTime.UTC().Format(time.RFC3339Nano) {
		return 0, 0, false, nil
	}
	return chars, tokens, true, nil
}

// Store upserts the counts for path. Concurrent prefetch workers may race
// on the same key; last writer wins, which is harmless since both computed
// the same counts from the same file.
func (c *Cache) Store(path string, modTime time.Time, chars, tokens int) error {
	_, err := c.db.Exec(
		`INSERT INTO pdf_tokens (path, file_mod_time, chars, tokens) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			file_mod_time=excluded.file_mod_time, chars=excluded.chars, tokens=excluded.tokens`,
		path, modTime.UTC().Format(time.RFC3339Nano), chars, tokens,
	)
	if err != nil {
		return fmt.Errorf("upserting stats cache entry: %w", err)
	}
	return nil
}
