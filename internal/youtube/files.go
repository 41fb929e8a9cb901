package youtube

import (
	"os"
	"path/filepath"
)

// audioExtensions is the lookup order for downloaded files. yt-dlp decides
// the container, so the exact extension is only known after the fact.
var audioExtensions = []string{".m4a", ".aac", ".mp4", ".webm"}

// Locate finds the file a download produced. It first tries the expected
// basename with each known extension, then falls back to the newest
// audio file in the directory.
func (f *Fetcher) Locate(dir, basename string) (string, bool) {
	for _, ext := range audioExtensions {
		candidate := filepath.Join(dir, basename+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}

	return newestAudioFile(dir)
}

func newestAudioFile(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var newest string
	var newestMod int64
	for _, entry := range entries {
		if entry.IsDir() || !isAudioFile(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = filepath.Join(dir, entry.Name())
			newestMod = mod
		}
	}

	return newest, newest != ""
}

func isAudioFile(name string) bool {
	ext := filepath.Ext(name)
	for _, known := range audioExtensions {
		if ext == known {
			return true
		}
	}
	return false
}
