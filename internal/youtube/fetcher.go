// Package youtube drives yt-dlp for last-resort search, flat playlist
// listing, and the audio download itself.
package youtube

import (
	"context"
	"fmt"

	"github.com/lrstanley/go-ytdlp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"tunegrab/internal/core"
)

// audioFormat prefers itag 140 (AAC 128k), then m4a, then any AAC stream,
// then whatever best audio is left.
const audioFormat = "140/bestaudio[ext=m4a]/bestaudio[acodec*=aac]/bestaudio"

const watchURLTemplate = "https://www.youtube.com/watch?v=%s"

type Fetcher struct {
	logger *zap.Logger
}

func NewFetcher(logger *zap.Logger) *Fetcher {
	return &Fetcher{logger: logger}
}

// Search returns the single best platform match for a free-text query.
func (f *Fetcher) Search(ctx context.Context, query string) (*core.Video, error) {
	cmd := ytdlp.New().
		DumpSingleJSON().
		SkipDownload().
		Quiet().
		NoWarnings()

	result, err := cmd.Run(ctx, "ytsearch1:"+query)
	if err != nil {
		return nil, fmt.Errorf("platform search failed: %w", err)
	}

	entry := gjson.Get(result.Stdout, "entries.0")
	if !entry.Exists() {
		return nil, fmt.Errorf("no platform results for %q", query)
	}

	video := videoFromEntry(entry)
	if video.Title == "" {
		return nil, fmt.Errorf("platform result for %q has no title", query)
	}

	f.logger.Debug("platform search hit",
		zap.String("query", query),
		zap.String("title", video.Title))

	return &video, nil
}

// ListPlaylist flat-extracts a playlist URL, one entry per video that has
// a title, in platform order.
func (f *Fetcher) ListPlaylist(ctx context.Context, playlistURL string) ([]core.Video, error) {
	cmd := ytdlp.New().
		FlatPlaylist().
		DumpSingleJSON().
		SkipDownload().
		Quiet().
		NoWarnings()

	result, err := cmd.Run(ctx, playlistURL)
	if err != nil {
		return nil, fmt.Errorf("playlist listing failed: %w", err)
	}

	var videos []core.Video
	gjson.Get(result.Stdout, "entries").ForEach(func(_, entry gjson.Result) bool {
		video := videoFromEntry(entry)
		if video.Title != "" {
			videos = append(videos, video)
		}
		return true
	})

	f.logger.Info("listed platform playlist",
		zap.String("url", playlistURL),
		zap.Int("entries", len(videos)))

	return videos, nil
}

// Download fetches the best audio stream into outputTemplate, which must
// leave the extension to yt-dlp (".%(ext)s" suffix).
func (f *Fetcher) Download(ctx context.Context, videoURL, outputTemplate string) error {
	cmd := ytdlp.New().
		Format(audioFormat).
		Output(outputTemplate).
		Quiet().
		NoWarnings()

	if _, err := cmd.Run(ctx, videoURL); err != nil {
		return fmt.Errorf("audio download failed: %w", err)
	}
	return nil
}

func videoFromEntry(entry gjson.Result) core.Video {
	id := entry.Get("id").String()

	webpage := entry.Get("webpage_url").String()
	if webpage == "" && id != "" {
		webpage = fmt.Sprintf(watchURLTemplate, id)
	}

	return core.Video{
		ID:           id,
		Title:        entry.Get("title").String(),
		WebpageURL:   webpage,
		ThumbnailURL: entry.Get("thumbnail").String(),
	}
}
