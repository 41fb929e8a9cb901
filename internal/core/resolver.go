package core

import (
	"context"

	"go.uber.org/zap"
)

// YearLookup asks the curated catalog for a release year by (artist, title).
// An empty string means no answer.
type YearLookup func(ctx context.Context, artist, title string) string

// Resolver merges provider records into one authoritative Metadata record.
// Priority is wholesale: the first available source wins every field and
// missing fields fall back to the Unknown sentinels, never to a
// lower-priority source.
type Resolver struct {
	yearLookup YearLookup
	logger     *zap.Logger
}

func NewResolver(yearLookup YearLookup, logger *zap.Logger) *Resolver {
	return &Resolver{
		yearLookup: yearLookup,
		logger:     logger,
	}
}

// Resolve applies the spotify > lastfm > parsed-title priority order. Any
// of the three records may be nil.
func (r *Resolver) Resolve(ctx context.Context, spotifyRec, lastfmRec, parsed *ProviderRecord) *Metadata {
	if spotifyRec != nil {
		return finalize(fromRecord(spotifyRec, SourceSpotify))
	}

	if lastfmRec != nil {
		return finalize(fromRecord(lastfmRec, SourceLastfm))
	}

	meta := &Metadata{Source: SourceCombined}
	if parsed != nil {
		meta.Title = parsed.Title
		meta.Artists = append(meta.Artists, parsed.Artists...)
		meta.Source = parsed.Source
	}
	meta = finalize(meta)

	// The title parse never carries a year. When the artist looks real,
	// one curated lookup may still recover it. Album stays the sentinel.
	if r.yearLookup != nil && meta.Artist != UnknownArtist {
		if year := r.yearLookup(ctx, meta.Artist, meta.Title); year != "" {
			meta.Year = year
			r.logger.Debug("recovered year from curated catalog",
				zap.String("title", meta.Title),
				zap.String("year", year))
		}
	}

	return meta
}

func fromRecord(rec *ProviderRecord, source Source) *Metadata {
	artists := make([]string, 0, len(rec.Artists))
	artists = append(artists, rec.Artists...)

	return &Metadata{
		Title:   rec.Title,
		Artists: artists,
		Album:   rec.Album,
		Year:    rec.Year,
		Source:  source,
	}
}

// finalize fills sentinels and restores the Artist/Artists invariant.
func finalize(meta *Metadata) *Metadata {
	if meta.Title == "" {
		meta.Title = UnknownTitle
	}
	if meta.Album == "" {
		meta.Album = UnknownAlbum
	}

	var artists []string
	for _, a := range meta.Artists {
		if a != "" {
			artists = append(artists, a)
		}
	}
	if len(artists) == 0 {
		artists = []string{UnknownArtist}
	}

	meta.Artists = artists
	meta.Artist = JoinArtists(artists)
	return meta
}
