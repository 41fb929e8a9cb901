// Package main provides the tunegrab CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tunegrab/internal/core"
	"tunegrab/internal/lastfm"
	"tunegrab/internal/playlist"
	"tunegrab/internal/spotify"
	"tunegrab/internal/store"
	"tunegrab/internal/tagger"
	"tunegrab/internal/youtube"
	"tunegrab/pkg/text"
)

const dedupCapacity = 10000

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tunegrab <query|file.txt|playlist-url>",
	Short: "Download music with metadata from Spotify, Last.fm, and YouTube",
	Long: `tunegrab resolves a free-text query, a query-list file, or a Spotify/YouTube
playlist URL into tracks, fetches the audio, and embeds resolved metadata
plus cover art.`,
	Args: cobra.ExactArgs(1),
	RunE: runTunegrab,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("filename", "f", "", "custom filename for a single track")
	rootCmd.PersistentFlags().StringP("path", "p", "", "download root directory")
	rootCmd.PersistentFlags().StringP("playlist-name", "n", "", "folder name for playlist downloads")
	rootCmd.PersistentFlags().BoolP("extract-only", "e", false, "only extract a playlist to a query file, no downloads")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Credentials keep their conventional names in .env and environment.
	_ = viper.BindEnv("lastfm-api-key", "LASTFM_API_KEY")
	_ = viper.BindEnv("spotify-client-id", "SPOTIFY_CLIENT_ID")
	_ = viper.BindEnv("spotify-client-secret", "SPOTIFY_CLIENT_SECRET")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	cfg.Lastfm.APIKey = viper.GetString("lastfm-api-key")
	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")

	if path := viper.GetString("path"); path != "" {
		cfg.Download.RootDir = path
	}

	cfg.Log.Level = viper.GetString("log-level")

	return cfg
}

func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runTunegrab(_ *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	source := args[0]
	customFilename := viper.GetString("filename")
	playlistName := viper.GetString("playlist-name")
	extractOnly := viper.GetBool("extract-only")

	if err := os.MkdirAll(config.Download.RootDir, 0o755); err != nil {
		return fmt.Errorf("cannot create download directory %s: %w", config.Download.RootDir, err)
	}

	history, err := store.OpenHistory(config.Download.HistoryPath)
	if err != nil {
		return err
	}
	defer history.Close()

	// Provider availability is decided once here; a missing credential
	// disables the provider rather than failing the run.
	var social core.SocialProvider
	if config.HasLastfm() {
		social = lastfm.NewClient(&config.Lastfm, config.Download.HTTPTimeout, logger.Named("lastfm"))
	} else {
		logger.Warn("LASTFM_API_KEY not set, Last.fm metadata disabled")
	}

	var curated core.CuratedProvider
	var yearLookup core.YearLookup
	if config.HasSpotify() {
		client := spotify.NewClient(&config.Spotify, logger.Named("spotify"))
		if err := client.Authenticate(ctx); err != nil {
			logger.Warn("Spotify authentication failed, provider disabled", zap.Error(err))
		} else {
			curated = client
			yearLookup = client.LookupTrackYear
		}
	} else {
		logger.Warn("Spotify credentials not set, playlist extraction via API disabled")
	}

	fetcher := youtube.NewFetcher(logger.Named("youtube"))
	parser := text.NewParser()
	resolver := core.NewResolver(yearLookup, logger.Named("resolver"))
	tag := tagger.New(config.Download.HTTPTimeout, logger.Named("tagger"))
	dedup := store.NewQueryDedup(dedupCapacity, 0.001)

	orchestrator := core.NewOrchestrator(
		config, social, resolver, fetcher, parser, tag, dedup, history,
		logger.Named("orchestrator"),
	)

	fmt.Printf("Download path: %s\n", config.Download.RootDir)

	if text.Classify(source) == text.KindSearch {
		if extractOnly {
			return fmt.Errorf("--extract-only only works with playlists")
		}
		return runSingle(ctx, orchestrator, source, customFilename)
	}

	return runPlaylist(ctx, orchestrator, curated, fetcher, source, playlistName, extractOnly)
}

func runSingle(ctx context.Context, orchestrator *core.Orchestrator, query, customFilename string) error {
	outcome := orchestrator.DownloadTrack(ctx, core.TrackQuery{Query: query}, config.Download.RootDir, customFilename)
	if !outcome.OK() {
		return fmt.Errorf("could not download track: %w", outcome.Err)
	}

	fmt.Printf("File saved to: %s\n", outcome.Path)
	return nil
}

func runPlaylist(
	ctx context.Context,
	orchestrator *core.Orchestrator,
	curated core.CuratedProvider,
	fetcher core.PlatformFetcher,
	source, playlistName string,
	extractOnly bool,
) error {
	extractor := playlist.NewExtractor(curated, fetcher, logger.Named("playlist"))

	set, queryFile, err := extractor.Extract(ctx, source, playlistName)
	if err != nil {
		return err
	}

	if len(set.Queries) == 0 {
		if queryFile != "" {
			fmt.Printf("Manual template created: %s\n", queryFile)
			fmt.Println("Edit the file and run tunegrab on it to download.")
			return nil
		}
		return fmt.Errorf("no tracks found in %s", source)
	}

	if extractOnly {
		if queryFile == "" {
			queryFile, err = materializeQueries(source, set)
			if err != nil {
				return err
			}
		}
		fmt.Printf("List extracted to: %s\n", queryFile)
		fmt.Printf("To download, run: tunegrab %q\n", queryFile)
		return nil
	}

	summary, err := orchestrator.DownloadSet(ctx, set)
	printSummary(summary)
	return err
}

// materializeQueries writes an extracted track set to disk when the
// extraction itself produced no file, such as for platform playlists.
func materializeQueries(source string, set *core.PlaylistTrackSet) (string, error) {
	extract := &core.PlaylistExtract{Name: set.FolderName, URL: source}
	for _, query := range set.Queries {
		extract.Tracks = append(extract.Tracks, core.ProviderRecord{Query: query.Query})
	}

	path := set.FolderName + ".txt"
	if err := playlist.WriteQueryFile(path, extract); err != nil {
		return "", err
	}
	return path, nil
}

func printSummary(summary core.Summary) {
	fmt.Println("\nSUMMARY:")
	fmt.Printf("  Completed: %d\n", summary.Completed)
	fmt.Printf("  Failed:    %d\n", len(summary.Failed))
	if summary.Skipped > 0 {
		fmt.Printf("  Skipped:   %d (duplicates)\n", summary.Skipped)
	}
	fmt.Printf("  Saved to:  %s\n", summary.Folder)

	preview, more := summary.FailedPreview(config.Download.MaxFailsOnDisplay)
	if len(preview) > 0 {
		fmt.Println("\nFailed tracks:")
		for _, failed := range preview {
			fmt.Printf("  - %s\n", failed)
		}
		if more > 0 {
			fmt.Printf("  ... and %d more\n", more)
		}
	}
}
