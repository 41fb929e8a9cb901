// Package playlist turns a playlist reference (catalog URL, platform URL,
// or local file) into an ordered set of track queries.
package playlist

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"tunegrab/internal/core"
	"tunegrab/pkg/text"
)

// Extractor resolves any supported playlist source into a PlaylistTrackSet.
// A curated-catalog extraction is first persisted as a query file and then
// re-read, so the downloadable artifact always exists on disk.
type Extractor struct {
	curated core.CuratedProvider // nil when credentials are missing
	fetcher core.PlatformFetcher
	logger  *zap.Logger
}

func NewExtractor(curated core.CuratedProvider, fetcher core.PlatformFetcher, logger *zap.Logger) *Extractor {
	return &Extractor{
		curated: curated,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Extract produces the ordered query set for source. The returned file
// path is non-empty when a query file or manual template was written.
// An empty query set together with a file path means the user has to edit
// the template before anything can be downloaded.
func (e *Extractor) Extract(ctx context.Context, source, customName string) (*core.PlaylistTrackSet, string, error) {
	switch text.Classify(source) {
	case text.KindFile:
		return e.extractFile(source, customName)
	case text.KindYouTube:
		return e.extractPlatform(ctx, source, customName)
	case text.KindSpotify:
		return e.extractCatalog(ctx, source, customName)
	default:
		return &core.PlaylistTrackSet{
			Queries:    []core.TrackQuery{{Query: source}},
			FolderName: folderName(customName, ""),
		}, "", nil
	}
}

func (e *Extractor) extractFile(path, customName string) (*core.PlaylistTrackSet, string, error) {
	queries, err := LoadQueryFile(path)
	if err != nil {
		return nil, "", err
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	e.logger.Info("loaded query file",
		zap.String("path", path),
		zap.Int("queries", len(queries)))

	return &core.PlaylistTrackSet{
		Queries:    queries,
		FolderName: folderName(customName, stem),
	}, "", nil
}

func (e *Extractor) extractPlatform(ctx context.Context, playlistURL, customName string) (*core.PlaylistTrackSet, string, error) {
	videos, err := e.fetcher.ListPlaylist(ctx, playlistURL)
	if err != nil {
		return nil, "", fmt.Errorf("platform playlist extraction failed: %w", err)
	}

	queries := make([]core.TrackQuery, 0, len(videos))
	for _, video := range videos {
		queries = append(queries, core.TrackQuery{
			Query:        video.Title,
			DisplayTitle: video.Title,
		})
	}

	return &core.PlaylistTrackSet{
		Queries:    queries,
		FolderName: folderName(customName, ""),
	}, "", nil
}

// extractCatalog tries the curated API first; on any failure it leaves a
// manual template behind and returns zero queries.
func (e *Extractor) extractCatalog(ctx context.Context, playlistURL, customName string) (*core.PlaylistTrackSet, string, error) {
	folder := folderName(customName, "")

	if e.curated == nil {
		e.logger.Warn("Spotify provider disabled, writing manual template")
		return e.manualTemplate(playlistURL, customName, folder)
	}

	extract, err := e.curated.FetchPlaylist(ctx, playlistURL)
	if err != nil {
		e.logger.Warn("Spotify extraction failed, writing manual template", zap.Error(err))
		return e.manualTemplate(playlistURL, customName, folder)
	}

	path := queryFileName(customName)
	if err := WriteQueryFile(path, extract); err != nil {
		return nil, "", err
	}

	// Re-read what was just written; the file is the artifact of record.
	queries, err := LoadQueryFile(path)
	if err != nil {
		return nil, path, err
	}

	if customName == "" && extract.Name != "" {
		folder = text.SanitizeFilename(extract.Name)
	}

	return &core.PlaylistTrackSet{
		Queries:    queries,
		FolderName: folder,
	}, path, nil
}

func (e *Extractor) manualTemplate(playlistURL, customName, folder string) (*core.PlaylistTrackSet, string, error) {
	path := templateFileName(playlistURL, customName)
	if err := WriteManualTemplate(path, playlistURL); err != nil {
		return nil, "", err
	}

	return &core.PlaylistTrackSet{FolderName: folder}, path, nil
}

func queryFileName(customName string) string {
	if customName != "" {
		return text.SanitizeFilename(customName) + ".txt"
	}
	return fmt.Sprintf("spotify_playlist_%d.txt", time.Now().Unix())
}

func templateFileName(playlistURL, customName string) string {
	if customName != "" {
		return text.SanitizeFilename(customName) + ".txt"
	}

	id := "manual"
	if parsed := playlistID(playlistURL); parsed != "" {
		id = parsed
	}
	return fmt.Sprintf("spotify_playlist_%s.txt", id)
}

func playlistID(playlistURL string) string {
	_, after, found := strings.Cut(playlistURL, "/playlist/")
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, "?")
	return strings.Trim(id, "/")
}

func folderName(customName, stem string) string {
	if customName != "" {
		return text.SanitizeFilename(customName)
	}
	if stem != "" {
		return stem
	}
	return fmt.Sprintf("Playlist_%d", time.Now().Unix())
}
