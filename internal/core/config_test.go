package core

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Lastfm.BaseURL != "https://ws.audioscrobbler.com/2.0/" {
		t.Errorf("Lastfm.BaseURL = %q", config.Lastfm.BaseURL)
	}
	if config.Download.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v, want 10s", config.Download.HTTPTimeout)
	}
	if config.Download.TrackDelay != time.Second {
		t.Errorf("TrackDelay = %v, want 1s", config.Download.TrackDelay)
	}
	if config.Download.MaxFailsOnDisplay != 5 {
		t.Errorf("MaxFailsOnDisplay = %d, want 5", config.Download.MaxFailsOnDisplay)
	}
	if config.Download.RootDir == "" {
		t.Error("RootDir must have a default")
	}
}

func TestCapabilityChecks(t *testing.T) {
	config := DefaultConfig()

	if config.HasLastfm() {
		t.Error("HasLastfm() should be false without an API key")
	}
	if config.HasSpotify() {
		t.Error("HasSpotify() should be false without credentials")
	}

	config.Lastfm.APIKey = "key"
	if !config.HasLastfm() {
		t.Error("HasLastfm() should be true with an API key")
	}

	config.Spotify.ClientID = "id"
	if config.HasSpotify() {
		t.Error("HasSpotify() needs both client ID and secret")
	}
	config.Spotify.ClientSecret = "secret"
	if !config.HasSpotify() {
		t.Error("HasSpotify() should be true with full credentials")
	}
}
