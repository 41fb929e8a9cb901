// Package core holds the domain model, metadata resolution, and the
// per-track download orchestration.
package core

import (
	"context"
	"strings"
	"time"
)

// Sentinel values used whenever a metadata source cannot supply a field.
const (
	UnknownTitle  = "Unknown Title"
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// Source identifies which metadata source won the resolution.
type Source string

const (
	// SourceSpotify marks metadata taken from the Spotify catalog.
	SourceSpotify Source = "spotify"
	// SourceLastfm marks metadata taken from a Last.fm search.
	SourceLastfm Source = "lastfm"
	// SourceYouTubeTitle marks metadata parsed out of a video title.
	SourceYouTubeTitle Source = "youtube"
	// SourceYouTubeFallback marks an unparseable video title used verbatim.
	SourceYouTubeFallback Source = "youtube_fallback"
	// SourceCombined marks a record built purely from defaults.
	SourceCombined Source = "combined"
)

// TrackQuery is a single search to resolve and download. Immutable once
// created.
type TrackQuery struct {
	Query        string
	DisplayTitle string
}

// ProviderRecord is the raw per-source shape handed to the resolver.
// Artists is ordered and non-empty whenever the source knew any artist.
type ProviderRecord struct {
	Title   string
	Artist  string
	Artists []string
	Album   string
	Year    string
	Query   string
	Source  Source
}

// Metadata is the resolved, authoritative record for one track. Artist is
// always the comma-join of Artists; Resolve enforces that.
type Metadata struct {
	Title        string
	Artist       string
	Artists      []string
	Album        string
	Year         string
	Source       Source
	ThumbnailURL string
}

// PlaylistExtract is what the curated-catalog provider returns for a
// playlist URL.
type PlaylistExtract struct {
	Name   string
	URL    string
	Tracks []ProviderRecord
}

// PlaylistTrackSet is an ordered batch of queries bound to a destination
// folder name. Read-only after creation.
type PlaylistTrackSet struct {
	Queries    []TrackQuery
	FolderName string
}

// Video is a single platform search or playlist-listing result.
type Video struct {
	ID           string
	Title        string
	WebpageURL   string
	ThumbnailURL string
}

// DownloadOutcome is the per-track result of a fetch attempt.
type DownloadOutcome struct {
	Query    string
	Path     string
	Metadata *Metadata
	Err      error
}

// OK reports whether the track made it to disk.
func (o DownloadOutcome) OK() bool {
	return o.Err == nil && o.Path != ""
}

// Summary aggregates the outcomes of a playlist run.
type Summary struct {
	Completed int
	Skipped   int
	Failed    []string
	Folder    string
	Elapsed   time.Duration
}

// FailedPreview returns up to max failed queries plus the count of the
// remainder.
func (s Summary) FailedPreview(max int) ([]string, int) {
	if len(s.Failed) <= max {
		return s.Failed, 0
	}
	return s.Failed[:max], len(s.Failed) - max
}

// SocialProvider is the free-text track lookup (Last.fm). A nil result
// means no usable data; providers never surface transport errors.
type SocialProvider interface {
	SearchTrack(ctx context.Context, query string) *ProviderRecord
}

// CuratedProvider is the playlist-keyed catalog (Spotify).
type CuratedProvider interface {
	FetchPlaylist(ctx context.Context, playlistURL string) (*PlaylistExtract, error)
	LookupTrackYear(ctx context.Context, artist, title string) string
}

// PlatformFetcher is the video-platform collaborator used for last-resort
// search, flat playlist listing, and the actual audio download.
type PlatformFetcher interface {
	Search(ctx context.Context, query string) (*Video, error)
	ListPlaylist(ctx context.Context, playlistURL string) ([]Video, error)
	Download(ctx context.Context, videoURL, outputTemplate string) error
	Locate(dir, basename string) (string, bool)
}

// Tagger embeds resolved metadata and cover art into a downloaded file.
type Tagger interface {
	Taggable(path string) bool
	Embed(ctx context.Context, path string, meta *Metadata) error
}

// QueryDedup tracks queries already handled in the current run.
type QueryDedup interface {
	Has(query string) bool
	Add(query string)
	Size() int
}

// History records download outcomes across runs.
type History interface {
	Record(outcome DownloadOutcome) error
	LastSuccess(query string) (string, bool)
	Close() error
}

// JoinArtists renders an ordered artist list as a display string.
func JoinArtists(artists []string) string {
	return strings.Join(artists, ", ")
}
