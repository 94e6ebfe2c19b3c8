package library

import (
	"fmt"
	"path/filepath"

	"github.com/desertthunder/m3ux/internal/models"
	"github.com/desertthunder/m3ux/internal/tags"
)

// Index maps artist tags to the audio files stored directly under a library root.
//
// Artists are kept in the order they were first seen. An Index is read-only once built.
type Index struct {
	root        string
	artistRatio float64
	artists     []string
	tracks      map[string][]models.LocalTrack
}

// NewIndex creates an empty Index for root. Fuzzy artist lookups must exceed artistRatio.
func NewIndex(root string, artistRatio float64) *Index {
	return &Index{root: root, artistRatio: artistRatio, tracks: make(map[string][]models.LocalTrack)}
}

// Add appends track under its exact artist tag.
func (idx *Index) Add(track models.LocalTrack) {
	if _, ok := idx.tracks[track.Artist]; !ok {
		idx.artists = append(idx.artists, track.Artist)
	}
	idx.tracks[track.Artist] = append(idx.tracks[track.Artist], track)
}

// Lookup returns the tracks filed under artist, or under the first artist key
// (in insertion order) that is more similar to artist than the artist threshold.
func (idx *Index) Lookup(artist string) ([]models.LocalTrack, bool) {
	if idx == nil {
		return nil, false
	}
	if tracks, ok := idx.tracks[artist]; ok {
		return tracks, true
	}
	for _, key := range idx.artists {
		if Similarity(key, artist) > idx.artistRatio {
			return idx.tracks[key], true
		}
	}
	return nil, false
}

// Root returns the directory the index was built from.
func (idx *Index) Root() string { return idx.root }

// Artists returns the artist keys in insertion order.
func (idx *Index) Artists() []string {
	return append([]string(nil), idx.artists...)
}

// Tracks returns the tracks filed under the exact artist key.
func (idx *Index) Tracks(artist string) []models.LocalTrack {
	return idx.tracks[artist]
}

// Len returns the number of indexed tracks.
func (idx *Index) Len() int {
	n := 0
	for _, tracks := range idx.tracks {
		n += len(tracks)
	}
	return n
}

// BuildIndex indexes the audio files directly under root. Subdirectories are not visited.
//
// Files without artist and title tags, or whose duration cannot be determined, are skipped.
// A root that cannot be listed yields an empty index and an error.
func (m *Matcher) BuildIndex(root string) (*Index, error) {
	idx := NewIndex(root, m.thresholds.Artist)

	entries, err := readDir(root)
	if err != nil {
		return idx, fmt.Errorf("failed to list library root %s: %w", root, err)
	}

	for _, e := range entries {
		if !isFile(root, e) || !tags.IsAudioFile(e.Name()) {
			continue
		}

		path := filepath.Join(root, e.Name())
		t, ok := m.readTags(path)
		if !ok {
			continue
		}
		if local, ok := m.localTrack(path, t); ok {
			idx.Add(*local)
		}
	}

	m.logger.Debug("indexed library root", "root", root, "artists", len(idx.artists), "tracks", idx.Len())
	return idx, nil
}
