// Package spotify provides the curated-catalog playlist extraction backed
// by the Spotify Web API.
package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"tunegrab/internal/core"
)

const (
	// playlistPageSize is the item count requested per playlist page.
	playlistPageSize = 100
	// ReleaseDateYearLength is the prefix of a release date that holds the year.
	ReleaseDateYearLength = 4
)

// Client wraps the Spotify Web API behind the client-credentials flow.
// Playlist metadata from here outranks every other source.
type Client struct {
	config *core.SpotifyConfig
	logger *zap.Logger
	client *spotify.Client
}

func NewClient(config *core.SpotifyConfig, logger *zap.Logger) *Client {
	return &Client{
		config: config,
		logger: logger,
	}
}

// Authenticate acquires an app token. Public playlist reads need no user
// consent, so the client-credentials grant is enough.
func (c *Client) Authenticate(ctx context.Context) error {
	auth := &clientcredentials.Config{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	token, err := auth.Token(ctx)
	if err != nil {
		return fmt.Errorf("client credentials grant failed: %w", err)
	}

	c.client = spotify.New(spotifyauth.New().Client(ctx, token))
	c.logger.Info("Spotify client authenticated")
	return nil
}

// FetchPlaylist pulls every page of the playlist behind the URL and emits
// one record per entry that has both a track name and at least one artist.
func (c *Client) FetchPlaylist(ctx context.Context, playlistURL string) (*core.PlaylistExtract, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not authenticated")
	}

	id := ExtractPlaylistID(playlistURL)
	if id == "" {
		return nil, fmt.Errorf("no playlist ID in URL %q", playlistURL)
	}

	playlist, err := c.client.GetPlaylist(ctx, spotify.ID(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	extract := &core.PlaylistExtract{
		Name: playlist.Name,
		URL:  playlistURL,
	}

	offset := 0
	for {
		items, err := c.client.GetPlaylistItems(ctx, spotify.ID(id),
			spotify.Limit(playlistPageSize), spotify.Offset(offset))
		if err != nil {
			return nil, fmt.Errorf("failed to get playlist items: %w", err)
		}

		for i := range items.Items {
			track := items.Items[i].Track.Track
			if track == nil {
				continue
			}
			if record, ok := convertTrack(track); ok {
				extract.Tracks = append(extract.Tracks, record)
			}
		}

		if len(items.Items) < playlistPageSize {
			break
		}
		offset += playlistPageSize
	}

	c.logger.Info("Extracted playlist",
		zap.String("name", extract.Name),
		zap.Int("tracks", len(extract.Tracks)))

	return extract, nil
}

// LookupTrackYear searches for one (artist, title) match and returns its
// release year, or "" when nothing usable comes back.
func (c *Client) LookupTrackYear(ctx context.Context, artist, title string) string {
	if c.client == nil {
		return ""
	}

	query := fmt.Sprintf("track:%s artist:%s", title, artist)
	results, err := c.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(1))
	if err != nil {
		c.logger.Warn("track year lookup failed",
			zap.String("artist", artist),
			zap.String("title", title),
			zap.Error(err))
		return ""
	}

	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		return ""
	}

	return releaseYear(results.Tracks.Tracks[0].Album.ReleaseDate)
}

// ExtractPlaylistID parses the ID out of .../playlist/{id}, discarding any
// trailing query parameters.
func ExtractPlaylistID(playlistURL string) string {
	_, after, found := strings.Cut(playlistURL, "/playlist/")
	if !found {
		return ""
	}

	id, _, _ := strings.Cut(after, "?")
	return strings.Trim(id, "/")
}

func convertTrack(track *spotify.FullTrack) (core.ProviderRecord, bool) {
	if track.Name == "" || len(track.Artists) == 0 {
		return core.ProviderRecord{}, false
	}

	artists := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		artists = append(artists, artist.Name)
	}

	return core.ProviderRecord{
		Title:   track.Name,
		Artist:  core.JoinArtists(artists),
		Artists: artists,
		Album:   track.Album.Name,
		Year:    releaseYear(track.Album.ReleaseDate),
		Query:   strings.Join(artists, " ") + " " + track.Name,
		Source:  core.SourceSpotify,
	}, true
}

func releaseYear(releaseDate string) string {
	if len(releaseDate) < ReleaseDateYearLength {
		return ""
	}
	return releaseDate[:ReleaseDateYearLength]
}
