package tags

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	goflac "github.com/go-flac/go-flac"

	"github.com/desertthunder/m3ux/internal/shared"
)

// Read reads tag metadata from an audio file.
//
// Returns [shared.ErrTagsAbsent] when the file carries no tag block and
// [shared.ErrUnsupportedFormat] for extensions other than mp3, flac, m4a and mp4.
func Read(path string) (*Tags, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsAudioFile(path) {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if ext == ExtMP3 {
			// dhowden/tag has issues with some UTF-16 encoded ID3 tags
			return readMP3WithID3v2Fallback(path)
		}
		if errors.Is(err, tag.ErrNoTagsFound) {
			return nil, fmt.Errorf("%w: %s", shared.ErrTagsAbsent, path)
		}
		return nil, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	t := &Tags{
		Artist: m.Artist(),
		Title:  m.Title(),
		Album:  m.Album(),
	}

	switch ext {
	case ExtMP3:
		t.Length = readMP3Length(path)
	case ExtFLAC:
		t.Length = rawValue(m.Raw(), "length")
		if t.Length == "" {
			t.Length = readFLACLength(path)
		}
	default:
		t.Length = rawValue(m.Raw(), "length")
	}

	return t, nil
}

// readMP3WithID3v2Fallback reads MP3 metadata using only the id3v2 library.
func readMP3WithID3v2Fallback(path string) (*Tags, error) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrTagsAbsent, path, err)
	}
	defer id3tag.Close()

	if !id3tag.HasFrames() {
		return nil, fmt.Errorf("%w: %s", shared.ErrTagsAbsent, path)
	}

	return &Tags{
		Artist: id3tag.Artist(),
		Title:  id3tag.Title(),
		Album:  id3tag.Album(),
		Length: getID3TextFrame(id3tag, "TLEN"),
	}, nil
}

// readMP3Length returns the TLEN frame of an MP3 file.
func readMP3Length(path string) string {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return ""
	}
	defer id3tag.Close()

	return getID3TextFrame(id3tag, "TLEN")
}

// getID3TextFrame reads a text frame value from an ID3v2 tag.
func getID3TextFrame(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}

// readFLACLength returns the LENGTH Vorbis comment of a FLAC file.
func readFLACLength(path string) string {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return ""
	}

	for _, meta := range f.Meta {
		if meta.Type == goflac.VorbisComment {
			return parseVorbisComments(meta.Data)["LENGTH"]
		}
	}
	return ""
}

// parseVorbisComments decodes a VORBIS_COMMENT block into upper-cased keys.
// The first value wins for repeated keys.
func parseVorbisComments(data []byte) map[string]string {
	comments := make(map[string]string)
	if len(data) < 4 {
		return comments
	}

	vendorLen := int(binary.LittleEndian.Uint32(data[0:4]))
	pos := 4 + vendorLen
	if pos+4 > len(data) {
		return comments
	}

	count := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
	pos += 4
	for range count {
		if pos+4 > len(data) {
			break
		}
		n := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if n < 0 || pos+n > len(data) {
			break
		}

		key, value, ok := strings.Cut(string(data[pos:pos+n]), "=")
		pos += n
		if !ok {
			continue
		}
		key = strings.ToUpper(key)
		if _, seen := comments[key]; !seen {
			comments[key] = value
		}
	}
	return comments
}

// rawValue looks up key case-insensitively in a dhowden/tag raw map.
func rawValue(raw map[string]any, key string) string {
	for k, v := range raw {
		if !strings.EqualFold(k, key) {
			continue
		}
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
