package library

import (
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/m3ux/internal/models"
	"github.com/desertthunder/m3ux/internal/shared"
	"github.com/desertthunder/m3ux/internal/tags"
)

// TagReader reads audio metadata for the matcher.
type TagReader interface {
	// ReadTags returns the file's tags or an error wrapping [shared.ErrTagsAbsent].
	ReadTags(path string) (*tags.Tags, error)
	// ReadDuration returns the decoded audio length in milliseconds.
	ReadDuration(path string) (int64, error)
}

// Thresholds are the similarity ratios a candidate must exceed.
type Thresholds struct {
	Folder       float64 // album folder names
	Title        float64 // index-mode titles
	Artist       float64 // index artist keys
	ArtistFolder float64 // file names in an artist folder
	AlbumFolder  float64 // file names in a resolved album folder
}

// DefaultThresholds returns the ratios the converter has always used.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Folder:       0.8,
		Title:        0.8,
		Artist:       0.8,
		ArtistFolder: 0.6,
		AlbumFolder:  0.1,
	}
}

// ThresholdsFromConfig converts the [library.thresholds] config section.
func ThresholdsFromConfig(cfg shared.ThresholdsConfig) Thresholds {
	return Thresholds{
		Folder:       cfg.Folder,
		Title:        cfg.Title,
		Artist:       cfg.Artist,
		ArtistFolder: cfg.ArtistFolder,
		AlbumFolder:  cfg.AlbumFolder,
	}
}

// Matcher finds local files for remote tracks. It is safe for concurrent use when its TagReader is.
type Matcher struct {
	reader     TagReader
	logger     *log.Logger
	thresholds Thresholds
}

// NewMatcher creates a Matcher reading tags through reader.
func NewMatcher(reader TagReader, logger *log.Logger, thresholds Thresholds) *Matcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Matcher{reader: reader, logger: logger, thresholds: thresholds}
}

// Thresholds returns the ratios in use.
func (m *Matcher) Thresholds() Thresholds {
	return m.thresholds
}

// Resolve looks for track under root, trying the artist folder before the root index.
//
//   - root/<artist> exists: scan the resolved album folder, or the artist folder when no album folder qualifies
//   - otherwise: look the artist up in idx
//
// When the index is used, the entry is reported under the remote artist and title.
func (m *Matcher) Resolve(root string, track models.RemoteTrack, idx *Index) models.MatchResult {
	result := models.MatchResult{Remote: track}

	artistFolder := filepath.Join(root, track.Artist)
	if track.Artist != "" && dirExists(artistFolder) {
		if albumFolder, ok := m.ResolveAlbumFolder(artistFolder, track.Artist, track.Album); ok {
			if local, found := m.FindInFolder(albumFolder, track.Title, m.thresholds.AlbumFolder); found {
				result.Local, result.Tier = local, models.TierAlbumFolder
			}
			return result
		}

		if local, found := m.FindInFolder(artistFolder, track.Title, m.thresholds.ArtistFolder); found {
			result.Local, result.Tier = local, models.TierArtistFolder
		}
		return result
	}

	candidates, ok := idx.Lookup(track.Artist)
	if !ok {
		return result
	}

	if local, found := m.FindInIndex(candidates, track.Title); found {
		entry := *local
		entry.Artist, entry.Title = track.Artist, track.Title
		result.Local, result.Tier = &entry, models.TierIndex
	}
	return result
}

// FindInFolder searches the files directly inside folder for title.
//
// The first pass returns the first audio file whose title tag equals title exactly.
// Failing that, the entry whose name is most similar to title is taken when its ratio
// exceeds minRatio, it is an audio file, and it carries artist and title tags.
func (m *Matcher) FindInFolder(folder, title string, minRatio float64) (*models.LocalTrack, bool) {
	entries, err := readDir(folder)
	if err != nil {
		m.logger.Debug("cannot list folder", "folder", folder, "error", err)
		return nil, false
	}

	for _, e := range entries {
		if !isFile(folder, e) || !tags.IsAudioFile(e.Name()) {
			continue
		}

		path := filepath.Join(folder, e.Name())
		t, ok := m.readTags(path)
		if !ok || t.Title != title {
			continue
		}
		if local, ok := m.localTrack(path, t); ok {
			return local, true
		}
	}

	best, bestRatio := -1, 0.0
	for i, e := range entries {
		if r := Similarity(e.Name(), title); best < 0 || r > bestRatio {
			best, bestRatio = i, r
		}
	}
	if best < 0 || bestRatio <= minRatio {
		return nil, false
	}

	winner := entries[best]
	if !isFile(folder, winner) || !tags.IsAudioFile(winner.Name()) {
		return nil, false
	}

	path := filepath.Join(folder, winner.Name())
	t, ok := m.readTags(path)
	if !ok {
		return nil, false
	}
	m.logger.Debug("fuzzy file match", "title", title, "file", winner.Name(), "ratio", bestRatio)
	return m.localTrack(path, t)
}

// FindInIndex returns the first candidate whose title equals title or is more similar than the title threshold.
func (m *Matcher) FindInIndex(candidates []models.LocalTrack, title string) (*models.LocalTrack, bool) {
	for _, c := range candidates {
		if c.Title == title || Similarity(title, c.Title) > m.thresholds.Title {
			return &c, true
		}
	}
	return nil, false
}

// readTags returns tags carrying both artist and title. Read failures are logged and absorbed.
func (m *Matcher) readTags(path string) (*tags.Tags, bool) {
	t, err := m.reader.ReadTags(path)
	if err != nil {
		m.logger.Debug("skipping file", "path", path, "error", err)
		return nil, false
	}
	if !t.Complete() {
		m.logger.Debug("skipping file without artist or title", "path", path)
		return nil, false
	}
	return t, true
}

// localTrack builds a LocalTrack, decoding the duration when the tags carry no length.
func (m *Matcher) localTrack(path string, t *tags.Tags) (*models.LocalTrack, bool) {
	length := t.Length
	if length == "" {
		ms, err := m.reader.ReadDuration(path)
		if err != nil {
			m.logger.Debug("skipping file without duration", "path", path, "error", err)
			return nil, false
		}
		length = strconv.FormatInt(ms, 10)
	}

	return &models.LocalTrack{Artist: t.Artist, Title: t.Title, Length: length, Path: path}, true
}
