// Package text provides video-title parsing, input classification, and
// filename synthesis.
package text

import (
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"tunegrab/internal/core"
)

// InputKind classifies what the positional argument refers to.
type InputKind int

const (
	// KindSearch is a free-text query for a single track.
	KindSearch InputKind = iota
	// KindFile is a local query-list file.
	KindFile
	// KindYouTube is a video-platform playlist URL.
	KindYouTube
	// KindSpotify is a curated-catalog playlist URL.
	KindSpotify
)

var (
	parenSuffixRegex   = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	bracketSuffixRegex = regexp.MustCompile(`\s*\[[^\]]*\]\s*$`)
	whitespaceRegex    = regexp.MustCompile(`\s+`)

	// Ordered; the first match wins even when a later, looser pattern
	// would also split.
	titlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^([^-]+)-\s*(.+)$`), // Artist - Title
		regexp.MustCompile(`^([^•]+)•\s*(.+)$`), // Artist • Title
		regexp.MustCompile(`^([^:]+):\s*(.+)$`), // Artist: Title
		regexp.MustCompile(`^(.+?)\s*-\s*(.+)$`), // lenient Artist - Title
	}

	artistSeparatorRegex = regexp.MustCompile(`(?i)(?:,|\s+feat\.?\s+|\s+ft\.?\s+|\s+&\s+|\s+x\s+|\s+con\s+)`)

	reservedFilenameChars = strings.NewReplacer(
		"<", "", ">", "", ":", "", "\"", "", "/", "",
		"\\", "", "|", "", "?", "", "*", "",
	)
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseTitle splits a raw platform title into song title and artists. It
// never fails; unparseable titles come back whole with the fallback source
// tag and the Unknown Artist sentinel.
func (p *Parser) ParseTitle(rawTitle string) *core.ProviderRecord {
	clean := p.cleanTitle(rawTitle)

	for _, pattern := range titlePatterns {
		match := pattern.FindStringSubmatch(clean)
		if match == nil {
			continue
		}

		artists := splitArtists(match[1])
		if len(artists) == 0 {
			continue
		}

		return &core.ProviderRecord{
			Title:   strings.TrimSpace(match[2]),
			Artist:  core.JoinArtists(artists),
			Artists: artists,
			Source:  core.SourceYouTubeTitle,
		}
	}

	return &core.ProviderRecord{
		Title:   clean,
		Artist:  core.UnknownArtist,
		Artists: []string{core.UnknownArtist},
		Source:  core.SourceYouTubeFallback,
	}
}

// cleanTitle normalizes the string and strips trailing parenthetical and
// bracketed suffixes, end-anchored only.
func (p *Parser) cleanTitle(title string) string {
	title = norm.NFKC.String(title)
	title = whitespaceRegex.ReplaceAllString(title, " ")
	title = strings.TrimSpace(title)

	for {
		stripped := parenSuffixRegex.ReplaceAllString(title, "")
		stripped = bracketSuffixRegex.ReplaceAllString(stripped, "")
		if stripped == title {
			return title
		}
		title = strings.TrimSpace(stripped)
	}
}

func splitArtists(segment string) []string {
	var artists []string
	for _, part := range artistSeparatorRegex.Split(segment, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			artists = append(artists, part)
		}
	}
	return artists
}

// Filename synthesizes the download filename for a resolved record.
func (p *Parser) Filename(meta *core.Metadata) string {
	return FilenameFromMetadata(meta)
}

// Sanitize removes filesystem-reserved characters from a name.
func (p *Parser) Sanitize(name string) string {
	return SanitizeFilename(name)
}

// Classify detects what kind of input the user supplied. Local files are
// checked first, then platform markers, then catalog markers; anything
// else is a plain search query.
func Classify(input string) InputKind {
	if strings.HasSuffix(input, ".txt") {
		if _, err := os.Stat(input); err == nil {
			return KindFile
		}
	}

	if strings.Contains(input, "youtube.com") &&
		(strings.Contains(input, "playlist") || strings.Contains(input, "list=")) {
		return KindYouTube
	}
	if strings.Contains(input, "youtu.be") {
		return KindYouTube
	}

	if strings.Contains(input, "spotify.com") && strings.Contains(input, "playlist") {
		return KindSpotify
	}

	return KindSearch
}

// SanitizeFilename removes filesystem-reserved characters, preserving
// everything else in order.
func SanitizeFilename(name string) string {
	return reservedFilenameChars.Replace(name)
}

// FilenameFromMetadata synthesizes "title - artist1 - artist2", sanitized.
// Returns "" when there is no title to work with.
func FilenameFromMetadata(meta *core.Metadata) string {
	if meta == nil || meta.Title == "" {
		return ""
	}

	parts := append([]string{meta.Title}, meta.Artists...)
	return SanitizeFilename(strings.Join(parts, " - "))
}
