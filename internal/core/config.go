package core

import (
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	Lastfm   LastfmConfig
	Spotify  SpotifyConfig
	Download DownloadConfig
	Log      LogConfig
}

type LastfmConfig struct {
	APIKey  string
	BaseURL string
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

type DownloadConfig struct {
	RootDir           string
	HistoryPath       string
	HTTPTimeout       time.Duration
	TrackDelay        time.Duration
	MaxFailsOnDisplay int
}

type LogConfig struct {
	Level string
}

func DefaultConfig() *Config {
	return &Config{
		Lastfm: LastfmConfig{
			BaseURL: "https://ws.audioscrobbler.com/2.0/",
		},
		Download: DownloadConfig{
			RootDir:           defaultDownloadRoot(),
			HistoryPath:       "./tunegrab_history.db",
			HTTPTimeout:       10 * time.Second,
			TrackDelay:        time.Second,
			MaxFailsOnDisplay: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// HasLastfm reports whether the social-catalog provider can be enabled.
func (c *Config) HasLastfm() bool {
	return c.Lastfm.APIKey != ""
}

// HasSpotify reports whether the curated-catalog provider can be enabled.
func (c *Config) HasSpotify() bool {
	return c.Spotify.ClientID != "" && c.Spotify.ClientSecret != ""
}

func defaultDownloadRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./Downloaded"
	}
	return filepath.Join(home, "Music", "Downloaded")
}
