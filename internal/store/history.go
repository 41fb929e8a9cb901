package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tunegrab/internal/core"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS downloads (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	query TEXT NOT NULL,
	path TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	artist TEXT NOT NULL DEFAULT '',
	album TEXT NOT NULL DEFAULT '',
	year TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	ok INTEGER NOT NULL,
	downloaded_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_downloads_query ON downloads(query);
`

// HistoryStore persists download outcomes across runs in a local sqlite
// database.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistory opens (and if needed initializes) the history database.
func OpenHistory(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

// Record stores one download outcome.
func (h *HistoryStore) Record(outcome core.DownloadOutcome) error {
	var title, artist, album, year, source string
	if outcome.Metadata != nil {
		title = outcome.Metadata.Title
		artist = outcome.Metadata.Artist
		album = outcome.Metadata.Album
		year = outcome.Metadata.Year
		source = string(outcome.Metadata.Source)
	}

	ok := 0
	if outcome.OK() {
		ok = 1
	}

	_, err := h.db.Exec(
		`INSERT INTO downloads (query, path, title, artist, album, year, source, ok, downloaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		outcome.Query, outcome.Path, title, artist, album, year, source, ok, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return nil
}

// LastSuccess returns the path of the most recent successful download for
// a query, if any.
func (h *HistoryStore) LastSuccess(query string) (string, bool) {
	var path string
	err := h.db.QueryRow(
		`SELECT path FROM downloads WHERE query = ? AND ok = 1 ORDER BY downloaded_at DESC, id DESC LIMIT 1`,
		query,
	).Scan(&path)
	if err != nil {
		return "", false
	}
	return path, true
}

// Close releases the underlying database handle.
func (h *HistoryStore) Close() error {
	return h.db.Close()
}
