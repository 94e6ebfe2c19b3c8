// Package tags reads the artist, title and length of audio files.
package tags

import (
	"path/filepath"
	"strings"
)

// Supported audio file extensions.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
)

// Tags holds the metadata the matcher needs from an audio file.
//
// Length is the raw text of the file's length tag (ID3 TLEN or a LENGTH comment); empty when absent.
type Tags struct {
	Artist string
	Title  string
	Album  string
	Length string
}

// Complete reports whether both artist and title are present.
func (t *Tags) Complete() bool {
	return t != nil && t.Artist != "" && t.Title != ""
}

// IsAudioFile reports whether path has a supported audio extension.
func IsAudioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3, ExtFLAC, ExtM4A, ExtMP4:
		return true
	}
	return false
}

// FileReader reads tags and durations from files on disk.
type FileReader struct{}

// NewFileReader creates a FileReader.
func NewFileReader() *FileReader {
	return &FileReader{}
}

// ReadTags reads the tags of the file at path.
func (FileReader) ReadTags(path string) (*Tags, error) {
	return Read(path)
}

// ReadDuration returns the decoded audio duration of the file at path in milliseconds.
func (FileReader) ReadDuration(path string) (int64, error) {
	return ReadDuration(path)
}
