package playlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"tunegrab/internal/core"
)

const commentMarker = "#"

// LoadQueryFile reads a UTF-8 query list: one query per line, order
// preserved, blank lines and comment lines ignored.
func LoadQueryFile(path string) ([]core.TrackQuery, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open query file: %w", err)
	}
	defer file.Close()

	var queries []core.TrackQuery
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}
		queries = append(queries, core.TrackQuery{Query: line})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read query file: %w", err)
	}
	return queries, nil
}

// WriteQueryFile materializes a curated-catalog extraction as a query
// list. The header block is informational only and ignored on re-read.
func WriteQueryFile(path string, extract *core.PlaylistExtract) error {
	var b strings.Builder
	b.WriteString("# Playlist automatically extracted from Spotify\n")
	fmt.Fprintf(&b, "# URL: %s\n", extract.URL)
	fmt.Fprintf(&b, "# Total tracks: %d\n", len(extract.Tracks))
	b.WriteString("# Method: Official Spotify API\n")
	fmt.Fprintf(&b, "# Created: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	for _, track := range extract.Tracks {
		b.WriteString(track.Query)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write query file: %w", err)
	}
	return nil
}

// WriteManualTemplate writes the fallback template used when catalog
// extraction is unavailable. Every line is a comment; the user has to
// fill in queries before the file is usable.
func WriteManualTemplate(path, sourceURL string) error {
	var b strings.Builder
	b.WriteString("# Manual Playlist - Spotify\n")
	fmt.Fprintf(&b, "# Original URL: %s\n", sourceURL)
	b.WriteString("# Spotify API did not work\n")
	b.WriteString("# Instructions:\n")
	b.WriteString("# 1. Open your playlist in Spotify\n")
	b.WriteString("# 2. Copy each song in format: Artist Song\n")
	b.WriteString("# 3. One song per line\n")
	b.WriteString("# 4. Remove these comment lines\n\n")
	b.WriteString("# Examples:\n")
	b.WriteString("# Bad Bunny Dakiti\n")
	b.WriteString("# Quevedo Bzrp Music Sessions 52\n\n")
	b.WriteString("# Add your tracks here:\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	return nil
}
