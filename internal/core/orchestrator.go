package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// TitleParser is the heuristic title-splitting and filename-synthesis
// surface the orchestrator depends on.
type TitleParser interface {
	ParseTitle(rawTitle string) *ProviderRecord
	Filename(meta *Metadata) string
	Sanitize(name string) string
}

// Orchestrator drives the per-track pipeline: provider lookup, platform
// search, metadata resolution, download, and tag embedding. Processing is
// strictly sequential; one track finishes before the next starts.
type Orchestrator struct {
	config  *Config
	social  SocialProvider // nil when the API key is missing
	fetcher PlatformFetcher
	resolver *Resolver
	parser  TitleParser
	tagger  Tagger
	dedup   QueryDedup
	history History
	logger  *zap.Logger
}

func NewOrchestrator(
	config *Config,
	social SocialProvider,
	resolver *Resolver,
	fetcher PlatformFetcher,
	parser TitleParser,
	tagger Tagger,
	dedup QueryDedup,
	history History,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		config:   config,
		social:   social,
		fetcher:  fetcher,
		resolver: resolver,
		parser:   parser,
		tagger:   tagger,
		dedup:    dedup,
		history:  history,
		logger:   logger,
	}
}

// DownloadSet processes every query of a playlist in order into a folder
// under the download root. Failing to create the destination directory is
// the only fatal condition; per-track errors are collected and reported.
func (o *Orchestrator) DownloadSet(ctx context.Context, set *PlaylistTrackSet) (Summary, error) {
	destDir := filepath.Join(o.config.Download.RootDir, set.FolderName)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("cannot create destination directory %s: %w", destDir, err)
	}

	start := time.Now()
	summary := Summary{Folder: destDir}

	for i, query := range set.Queries {
		if o.dedup.Has(query.Query) {
			o.logger.Info("skipping duplicate query", zap.String("query", query.Query))
			summary.Skipped++
			continue
		}
		o.dedup.Add(query.Query)

		o.logger.Info("downloading track",
			zap.Int("index", i+1),
			zap.Int("total", len(set.Queries)),
			zap.String("query", query.Query))

		outcome := o.DownloadTrack(ctx, query, destDir, "")
		if outcome.OK() {
			summary.Completed++
		} else {
			summary.Failed = append(summary.Failed, query.Query)
		}

		// Fixed pause between tracks to stay under upstream rate limits.
		if i < len(set.Queries)-1 {
			select {
			case <-ctx.Done():
				summary.Elapsed = time.Since(start)
				return summary, ctx.Err()
			case <-time.After(o.config.Download.TrackDelay):
			}
		}
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}

// DownloadTrack resolves, fetches, and tags one track. Every failure is
// captured in the outcome; nothing propagates as a panic or aborts a
// surrounding playlist run.
func (o *Orchestrator) DownloadTrack(ctx context.Context, query TrackQuery, destDir, customFilename string) DownloadOutcome {
	outcome := DownloadOutcome{Query: query.Query}
	defer o.record(&outcome)

	if prior, ok := o.history.LastSuccess(query.Query); ok {
		o.logger.Info("query was downloaded before",
			zap.String("query", query.Query),
			zap.String("path", prior))
	}

	var lastfmRec *ProviderRecord
	if o.social != nil {
		lastfmRec = o.social.SearchTrack(ctx, query.Query)
	}

	video, err := o.fetcher.Search(ctx, query.Query)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	parsed := o.parser.ParseTitle(video.Title)

	// Curated per-track enrichment happens at playlist-extraction time;
	// here only the social record and the parsed title compete.
	meta := o.resolver.Resolve(ctx, nil, lastfmRec, parsed)
	meta.ThumbnailURL = video.ThumbnailURL
	outcome.Metadata = meta

	o.logger.Info("resolved metadata",
		zap.String("artist", meta.Artist),
		zap.String("title", meta.Title),
		zap.String("album", meta.Album),
		zap.String("source", string(meta.Source)))

	filename := o.synthesizeFilename(meta, video.Title, customFilename)

	template := filepath.Join(destDir, filename+".%(ext)s")
	if err := o.fetcher.Download(ctx, video.WebpageURL, template); err != nil {
		outcome.Err = err
		return outcome
	}

	path, found := o.fetcher.Locate(destDir, filename)
	if !found {
		outcome.Err = fmt.Errorf("downloaded audio for %q not found on disk", query.Query)
		return outcome
	}
	outcome.Path = path

	if o.tagger.Taggable(path) {
		if err := o.tagger.Embed(ctx, path, meta); err != nil {
			outcome.Err = fmt.Errorf("tag embedding failed: %w", err)
			return outcome
		}
	}

	return outcome
}

func (o *Orchestrator) synthesizeFilename(meta *Metadata, rawTitle, customFilename string) string {
	if customFilename != "" {
		return o.parser.Sanitize(customFilename)
	}

	if name := o.parser.Filename(meta); name != "" {
		return name
	}
	return o.parser.Sanitize(rawTitle)
}

func (o *Orchestrator) record(outcome *DownloadOutcome) {
	if err := o.history.Record(*outcome); err != nil {
		o.logger.Warn("failed to record download history", zap.Error(err))
	}
}
