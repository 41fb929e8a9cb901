// Package tagger embeds resolved metadata and cover art into downloaded
// audio containers.
package tagger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"
	mp4tag "github.com/zhaarey/go-mp4tag"
	"go.uber.org/zap"

	"tunegrab/internal/core"
)

const defaultGenre = "Music"

// Tagger writes metadata atoms into MP4-family containers and ID3v2
// frames into MP3s. Other containers are left untouched.
type Tagger struct {
	http   *http.Client
	logger *zap.Logger
}

func New(timeout time.Duration, logger *zap.Logger) *Tagger {
	return &Tagger{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Taggable reports whether the file's container supports embedded tags.
func (t *Tagger) Taggable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".m4a", ".mp4", ".mp3":
		return true
	default:
		return false
	}
}

// Embed writes metadata into path. When the record carries a thumbnail
// URL, the image is fetched to a temporary sibling file, embedded as
// cover art, and removed again no matter how the embed went.
func (t *Tagger) Embed(ctx context.Context, path string, meta *core.Metadata) error {
	var cover []byte
	if meta.ThumbnailURL != "" {
		thumbPath, err := t.downloadThumbnail(ctx, meta.ThumbnailURL, path)
		if err != nil {
			t.logger.Warn("thumbnail download failed", zap.Error(err))
		} else {
			defer os.Remove(thumbPath)
			cover, _ = os.ReadFile(thumbPath)
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".m4a", ".mp4":
		return t.embedMP4(path, meta, cover)
	case ".mp3":
		return t.embedMP3(path, meta, cover)
	default:
		return fmt.Errorf("container %q does not support tags", filepath.Ext(path))
	}
}

func (t *Tagger) embedMP4(path string, meta *core.Metadata, cover []byte) error {
	tags := &mp4tag.MP4Tags{
		Title:       meta.Title,
		Artist:      meta.Artist,
		Album:       meta.Album,
		Date:        meta.Year,
		CustomGenre: defaultGenre,
	}

	// Primary artist up front, full list as album artist.
	if len(meta.Artists) > 1 {
		tags.Artist = meta.Artists[0]
		tags.AlbumArtist = core.JoinArtists(meta.Artists)
	}

	if len(cover) > 0 {
		tags.Pictures = []*mp4tag.MP4Picture{
			{Format: mp4tag.ImageTypeJPEG, Data: cover},
		}
	}

	mp4, err := mp4tag.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open container: %w", err)
	}
	defer mp4.Close()

	if err := mp4.Write(tags, []string{}); err != nil {
		return fmt.Errorf("failed to write tags: %w", err)
	}

	t.logger.Debug("embedded MP4 tags", zap.String("path", path))
	return nil
}

func (t *Tagger) embedMP3(path string, meta *core.Metadata, cover []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open ID3 tag: %w", err)
	}
	defer tag.Close()

	tag.SetTitle(meta.Title)
	tag.SetArtist(meta.Artist)
	tag.SetAlbum(meta.Album)
	tag.SetGenre(defaultGenre)
	if meta.Year != "" {
		tag.SetYear(meta.Year)
	}

	if len(meta.Artists) > 1 {
		tag.SetArtist(meta.Artists[0])
		tag.AddTextFrame(tag.CommonID("Band/Orchestra/Accompaniment"),
			tag.DefaultEncoding(), core.JoinArtists(meta.Artists))
	}

	if len(cover) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     cover,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save ID3 tag: %w", err)
	}

	t.logger.Debug("embedded ID3 tags", zap.String("path", path))
	return nil
}

// downloadThumbnail saves the cover image next to the audio file as
// <stem>_thumb.jpg.
func (t *Tagger) downloadThumbnail(ctx context.Context, thumbnailURL, audioPath string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, thumbnailURL, http.NoBody)
	if err != nil {
		return "", err
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("thumbnail fetch returned %d", resp.StatusCode)
	}

	stem := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	thumbPath := stem + "_thumb.jpg"

	out, err := os.Create(thumbPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(thumbPath)
		return "", err
	}

	return thumbPath, nil
}
