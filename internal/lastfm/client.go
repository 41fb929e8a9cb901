// Package lastfm implements the Last.fm track search used as the
// second-priority metadata source.
package lastfm

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"tunegrab/internal/core"
)

// cacheSize bounds the per-run response cache; playlists rarely exceed it.
const cacheSize = 256

var yearRegex = regexp.MustCompile(`\d{4}`)

// Client talks to the Last.fm JSON API. Every lookup degrades to a nil
// record on transport errors, non-200 responses, or missing fields; the
// caller never sees an error.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	cache   *lru.Cache[string, *core.ProviderRecord]
	logger  *zap.Logger
}

func NewClient(config *core.LastfmConfig, timeout time.Duration, logger *zap.Logger) *Client {
	cache, _ := lru.New[string, *core.ProviderRecord](cacheSize)

	return &Client{
		apiKey:  config.APIKey,
		baseURL: config.BaseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
		logger:  logger,
	}
}

// SearchTrack resolves a free-text query to the single best Last.fm match,
// then fills album and year from the track info endpoint.
func (c *Client) SearchTrack(ctx context.Context, query string) *core.ProviderRecord {
	if cached, ok := c.cache.Get(query); ok {
		return cached
	}

	body := c.call(ctx, url.Values{
		"method": {"track.search"},
		"track":  {query},
		"limit":  {"1"},
	})
	if body == nil {
		return nil
	}

	match := firstTrackMatch(body)
	if !match.Exists() {
		c.logger.Debug("no Last.fm match", zap.String("query", query))
		return nil
	}

	title := match.Get("name").String()
	artist := match.Get("artist").String()
	if title == "" || artist == "" {
		return nil
	}

	album, year := c.trackInfo(ctx, artist, title)

	record := &core.ProviderRecord{
		Title:   title,
		Artist:  artist,
		Artists: []string{artist},
		Album:   album,
		Year:    year,
		Source:  core.SourceLastfm,
	}

	c.cache.Add(query, record)
	return record
}

// trackInfo fetches album name and release year for a known (artist, track)
// pair. Missing data yields the album sentinel and an empty year.
func (c *Client) trackInfo(ctx context.Context, artist, track string) (string, string) {
	body := c.call(ctx, url.Values{
		"method": {"track.getInfo"},
		"artist": {artist},
		"track":  {track},
	})
	if body == nil {
		return core.UnknownAlbum, ""
	}

	info := gjson.GetBytes(body, "track")
	if !info.Exists() {
		return core.UnknownAlbum, ""
	}

	album := info.Get("album.title").String()
	if album == "" {
		album = core.UnknownAlbum
	}

	year := info.Get("album.@attr.year").String()
	if year == "" {
		// Wiki publication dates look like "01 Jan 2020, 00:00"; the
		// first 4-digit run is the year.
		year = yearRegex.FindString(info.Get("wiki.published").String())
	}

	return album, year
}

// call performs one API request, returning nil on any failure.
func (c *Client) call(ctx context.Context, params url.Values) []byte {
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Last.fm request failed",
			zap.String("method", params.Get("method")),
			zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Last.fm returned non-200",
			zap.String("method", params.Get("method")),
			zap.Int("status", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	return body
}

// firstTrackMatch handles the API quirk where trackmatches.track is an
// object for a single hit and an array otherwise.
func firstTrackMatch(body []byte) gjson.Result {
	matches := gjson.GetBytes(body, "results.trackmatches.track")
	if matches.IsArray() {
		return matches.Get("0")
	}
	return matches
}
