// Package content picks mood-matched quotes and songs from two local
// directory trees keyed by emotion name.
package content

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"emotionserver/internal/config"
	"emotionserver/internal/dto"
)

// QuoteNotFound is shown when no quote exists for an emotion.
const QuoteNotFound = "⚠ Shayari not found."

// SongNotFound is shown when no song exists for an emotion.
const SongNotFound = "⚠ Song not found."

const (
	quoteExt = ".txt"
	songExt  = ".mp3"
)

// Library reads the text and audio trees. Folders are rescanned on every call.
type Library struct {
	textRoot  string
	audioRoot string

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLibrary creates a Library over the configured shayari and music roots.
func NewLibrary(cfg *config.Config) *Library {
	return NewLibraryWithRand(cfg.ShayariDirectory, cfg.MusicDirectory, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewLibraryWithRand creates a Library with an explicit random source.
func NewLibraryWithRand(textRoot, audioRoot string, rnd *rand.Rand) *Library {
	return &Library{textRoot: textRoot, audioRoot: audioRoot, rnd: rnd}
}

// Quote returns the content of a random .txt file from <text root>/<lower(emotion)>,
// or QuoteNotFound when the folder, the files, or the read fail.
func (l *Library) Quote(emotion string) string {
	files := listFiles(filepath.Join(l.textRoot, strings.ToLower(emotion)), quoteExt)
	if len(files) == 0 {
		return QuoteNotFound
	}

	data, err := os.ReadFile(l.pick(files))
	if err != nil {
		return QuoteNotFound
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return QuoteNotFound
	}
	return text
}

// Song returns the path of a random .mp3 file from <audio root>/<Capitalized emotion>,
// or "" when none exists.
func (l *Library) Song(emotion string) string {
	files := listFiles(filepath.Join(l.audioRoot, dto.EmotionName(emotion)), songExt)
	if len(files) == 0 {
		return ""
	}
	return l.pick(files)
}

// Emotions lists the emotion folders present in either tree, capitalized and sorted.
func (l *Library) Emotions() []string {
	seen := make(map[string]bool)
	for _, root := range []string{l.textRoot, l.audioRoot} {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				seen[dto.EmotionName(entry.Name())] = true
			}
		}
	}

	emotions := make([]string, 0, len(seen))
	for name := range seen {
		emotions = append(emotions, name)
	}
	sort.Strings(emotions)
	return emotions
}

func (l *Library) pick(files []string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return files[l.rnd.IntN(len(files))]
}

// listFiles returns the regular files in dir with the given extension
// (case-insensitive), in directory order.
func listFiles(dir, ext string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files
}
