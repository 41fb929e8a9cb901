package text

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tunegrab/internal/core"
)

func TestParser_ParseTitle_Split(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name    string
		input   string
		title   string
		artists []string
		source  core.Source
	}{
		{
			"simple dash",
			"Bad Bunny - Dakiti",
			"Dakiti",
			[]string{"Bad Bunny"},
			core.SourceYouTubeTitle,
		},
		{
			"dash with trailing parenthetical",
			"Bad Bunny - Dakiti (Official Video)",
			"Dakiti",
			[]string{"Bad Bunny"},
			core.SourceYouTubeTitle,
		},
		{
			"dash with trailing bracket",
			"Dua Lipa - Levitating [Lyrics]",
			"Levitating",
			[]string{"Dua Lipa"},
			core.SourceYouTubeTitle,
		},
		{
			"stacked suffixes",
			"Dua Lipa - Levitating (Official Video) [HD]",
			"Levitating",
			[]string{"Dua Lipa"},
			core.SourceYouTubeTitle,
		},
		{
			"bullet separator",
			"Rosalía • Malamente",
			"Malamente",
			[]string{"Rosalía"},
			core.SourceYouTubeTitle,
		},
		{
			"colon separator",
			"Quevedo: Bzrp Music Sessions 52",
			"Bzrp Music Sessions 52",
			[]string{"Quevedo"},
			core.SourceYouTubeTitle,
		},
		{
			"feat split",
			"Calvin Harris feat. Rihanna - This Is What You Came For",
			"This Is What You Came For",
			[]string{"Calvin Harris", "Rihanna"},
			core.SourceYouTubeTitle,
		},
		{
			"ft without period",
			"DJ Snake ft Selena Gomez - Taki Taki",
			"Taki Taki",
			[]string{"DJ Snake", "Selena Gomez"},
			core.SourceYouTubeTitle,
		},
		{
			"ampersand split",
			"Simon & Garfunkel - The Boxer",
			"The Boxer",
			[]string{"Simon", "Garfunkel"},
			core.SourceYouTubeTitle,
		},
		{
			"x split",
			"KAROL G x Shakira - TQG",
			"TQG",
			[]string{"KAROL G", "Shakira"},
			core.SourceYouTubeTitle,
		},
		{
			"con split",
			"Bizarrap con Residente - Session 49",
			"Session 49",
			[]string{"Bizarrap", "Residente"},
			core.SourceYouTubeTitle,
		},
		{
			"comma split",
			"Shakira, Ozuna - Monotonía",
			"Monotonía",
			[]string{"Shakira", "Ozuna"},
			core.SourceYouTubeTitle,
		},
		{
			"unparseable title",
			"lofi hip hop radio",
			"lofi hip hop radio",
			[]string{core.UnknownArtist},
			core.SourceYouTubeFallback,
		},
		{
			"empty title",
			"",
			"",
			[]string{core.UnknownArtist},
			core.SourceYouTubeFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parser.ParseTitle(tt.input)

			if result.Title != tt.title {
				t.Errorf("ParseTitle() title = %q, want %q", result.Title, tt.title)
			}

			if len(result.Artists) != len(tt.artists) {
				t.Fatalf("ParseTitle() artists = %v, want %v", result.Artists, tt.artists)
			}
			for i, artist := range tt.artists {
				if result.Artists[i] != artist {
					t.Errorf("ParseTitle() artist[%d] = %q, want %q", i, result.Artists[i], artist)
				}
			}

			if result.Source != tt.source {
				t.Errorf("ParseTitle() source = %q, want %q", result.Source, tt.source)
			}
		})
	}
}

func TestParser_ParseTitle_FirstPatternWins(t *testing.T) {
	parser := NewParser()

	// The dash pattern precedes the colon pattern, so a title carrying
	// both separators splits on the dash.
	result := parser.ParseTitle("AC: DC - Thunderstruck")
	if result.Title != "Thunderstruck" {
		t.Errorf("expected dash pattern to win, got title %q", result.Title)
	}
	if len(result.Artists) != 1 || result.Artists[0] != "AC: DC" {
		t.Errorf("expected artist %q, got %v", "AC: DC", result.Artists)
	}

	// With more than one dash the strict pattern still wins: everything
	// before the first dash is the artist segment.
	result = parser.ParseTitle("Artist - Song - Live")
	if result.Title != "Song - Live" {
		t.Errorf("expected first-dash split, got title %q", result.Title)
	}
}

func TestParser_ParseTitle_ArtistsNeverEmpty(t *testing.T) {
	parser := NewParser()

	inputs := []string{"", "   ", "---", "(Official Video)", "justaword"}
	for _, input := range inputs {
		result := parser.ParseTitle(input)
		if len(result.Artists) == 0 {
			t.Errorf("ParseTitle(%q) returned empty artist list", input)
		}
	}
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "queries.txt")
	if err := os.WriteFile(existing, []byte("some query\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		input    string
		expected InputKind
	}{
		{"existing txt file", existing, KindFile},
		{"missing txt file", filepath.Join(dir, "nope.txt"), KindSearch},
		{"youtube playlist path", "https://www.youtube.com/playlist?list=PL123", KindYouTube},
		{"youtube watch with list param", "https://www.youtube.com/watch?v=abc&list=PL123", KindYouTube},
		{"youtube short link", "https://youtu.be/dQw4w9WgXcQ", KindYouTube},
		{"youtube plain watch", "https://www.youtube.com/watch?v=abc", KindSearch},
		{"spotify playlist", "https://open.spotify.com/playlist/37i9dQZF1DX4JAvHpjipBk?si=x", KindSpotify},
		{"spotify track", "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", KindSearch},
		{"free text", "bad bunny dakiti", KindSearch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.input); got != tt.expected {
				t.Errorf("Classify(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no reserved chars", "Dakiti - Bad Bunny", "Dakiti - Bad Bunny"},
		{"all reserved chars", `<>:"/\|?*`, ""},
		{"mixed", `AC/DC: Back in Black?`, "ACDC Back in Black"},
		{"preserves order", "a<b>c:d", "abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			if got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			for _, reserved := range `<>:"/\|?*` {
				if strings.ContainsRune(got, reserved) {
					t.Errorf("SanitizeFilename(%q) kept reserved char %q", tt.input, reserved)
				}
			}
		})
	}
}

func TestFilenameFromMetadata(t *testing.T) {
	tests := []struct {
		name     string
		meta     *core.Metadata
		expected string
	}{
		{
			"title plus one artist",
			&core.Metadata{Title: "Dakiti", Artists: []string{"Bad Bunny"}},
			"Dakiti - Bad Bunny",
		},
		{
			"multiple artists",
			&core.Metadata{Title: "TQG", Artists: []string{"KAROL G", "Shakira"}},
			"TQG - KAROL G - Shakira",
		},
		{
			"reserved chars removed",
			&core.Metadata{Title: `What?`, Artists: []string{`AC/DC`}},
			"What - ACDC",
		},
		{"no title", &core.Metadata{Artists: []string{"Someone"}}, ""},
		{"nil metadata", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilenameFromMetadata(tt.meta); got != tt.expected {
				t.Errorf("FilenameFromMetadata() = %q, want %q", got, tt.expected)
			}
		})
	}
}
