package tags

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"

	"github.com/desertthunder/m3ux/internal/shared"
)

// createMinimalMP3 writes a single MPEG1 Layer3 frame header plus padding.
func createMinimalMP3(t *testing.T, path string) {
	t.Helper()
	mp3Frame := make([]byte, 417)
	mp3Frame[0] = 0xff
	mp3Frame[1] = 0xfb
	mp3Frame[2] = 0x90
	mp3Frame[3] = 0x00

	if err := os.WriteFile(path, mp3Frame, 0o600); err != nil {
		t.Fatalf("failed to create test MP3: %v", err)
	}
}

// createTaggedMP3 writes a minimal MP3 with the given ID3v2 text frames.
func createTaggedMP3(t *testing.T, path string, frames map[string]string) {
	t.Helper()
	createMinimalMP3(t, path)

	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("failed to open MP3 for tagging: %v", err)
	}
	defer id3tag.Close()

	for id, text := range frames {
		id3tag.AddTextFrame(id, id3v2.EncodingUTF8, text)
	}
	if err := id3tag.Save(); err != nil {
		t.Fatalf("failed to save ID3 tags: %v", err)
	}
}

// createTestFLAC writes a FLAC file made of a STREAMINFO block and an optional VORBIS_COMMENT block.
func createTestFLAC(t *testing.T, path string, sampleRate int, totalSamples int64, comments []string) {
	t.Helper()

	streamInfo := make([]byte, 34)
	streamInfo[10] = byte(sampleRate >> 12)
	streamInfo[11] = byte(sampleRate >> 4)
	streamInfo[12] = byte(sampleRate<<4) | (1 << 1) // stereo, 16 bits per sample
	streamInfo[13] = 0xF0 | byte(totalSamples>>32&0x0F)
	binary.BigEndian.PutUint32(streamInfo[14:18], uint32(totalSamples))

	var vorbis []byte
	if len(comments) > 0 {
		vendor := "m3ux"
		vorbis = binary.LittleEndian.AppendUint32(vorbis, uint32(len(vendor)))
		vorbis = append(vorbis, vendor...)
		vorbis = binary.LittleEndian.AppendUint32(vorbis, uint32(len(comments)))
		for _, c := range comments {
			vorbis = binary.LittleEndian.AppendUint32(vorbis, uint32(len(c)))
			vorbis = append(vorbis, c...)
		}
	}

	blockHeader := func(last bool, blockType byte, size int) []byte {
		if last {
			blockType |= 0x80
		}
		return []byte{blockType, byte(size >> 16), byte(size >> 8), byte(size)}
	}

	data := []byte("fLaC")
	data = append(data, blockHeader(len(vorbis) == 0, 0, len(streamInfo))...)
	data = append(data, streamInfo...)
	if len(vorbis) > 0 {
		data = append(data, blockHeader(true, 4, len(vorbis))...)
		data = append(data, vorbis...)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to create test FLAC: %v", err)
	}
}

func TestRead(t *testing.T) {
	t.Run("mp3 with TLEN", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Someone Like You.mp3")
		createTaggedMP3(t, path, map[string]string{
			"TPE1": "Adele",
			"TIT2": "Someone Like You",
			"TALB": "21",
			"TLEN": "285000",
		})

		got, err := Read(path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		want := Tags{Artist: "Adele", Title: "Someone Like You", Album: "21", Length: "285000"}
		if *got != want {
			t.Errorf("Read() = %+v, want %+v", *got, want)
		}
		if !got.Complete() {
			t.Error("expected tags to be complete")
		}
	})

	t.Run("mp3 without TLEN", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "track.mp3")
		createTaggedMP3(t, path, map[string]string{"TPE1": "Adele", "TIT2": "Hello"})

		got, err := Read(path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if got.Length != "" {
			t.Errorf("Length = %q, want empty", got.Length)
		}
	})

	t.Run("mp3 missing title", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "track.mp3")
		createTaggedMP3(t, path, map[string]string{"TPE1": "Adele"})

		got, err := Read(path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if got.Complete() {
			t.Errorf("expected incomplete tags, got %+v", *got)
		}
	})

	t.Run("mp3 without tags", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bare.mp3")
		createMinimalMP3(t, path)

		_, err := Read(path)
		if !errors.Is(err, shared.ErrTagsAbsent) {
			t.Errorf("expected ErrTagsAbsent, got %v", err)
		}
	})

	t.Run("flac vorbis comments", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "track.flac")
		createTestFLAC(t, path, 44100, 44100*3, []string{"ARTIST=ABBA", "TITLE=Waterloo", "LENGTH=167000"})

		got, err := Read(path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if got.Artist != "ABBA" || got.Title != "Waterloo" {
			t.Errorf("unexpected tags %+v", *got)
		}
		if got.Length != "167000" {
			t.Errorf("Length = %q, want 167000", got.Length)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cover.jpg")
		if err := os.WriteFile(path, []byte("not audio"), 0o600); err != nil {
			t.Fatal(err)
		}

		_, err := Read(path)
		if !errors.Is(err, shared.ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})
}

func TestReadDuration(t *testing.T) {
	t.Run("flac streaminfo", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "track.flac")
		createTestFLAC(t, path, 44100, 44100*3+22, nil)

		got, err := ReadDuration(path)
		if err != nil {
			t.Fatalf("ReadDuration() error = %v", err)
		}
		if got != 3000 {
			t.Errorf("ReadDuration() = %d, want 3000", got)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ReadDuration("notes.txt")
		if !errors.Is(err, shared.ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})
}

func TestParseVorbisComments(t *testing.T) {
	var data []byte
	data = binary.LittleEndian.AppendUint32(data, 0)
	data = binary.LittleEndian.AppendUint32(data, 3)
	for _, c := range []string{"length=1000", "LENGTH=2000", "broken"} {
		data = binary.LittleEndian.AppendUint32(data, uint32(len(c)))
		data = append(data, c...)
	}

	got := parseVorbisComments(data)
	if got["LENGTH"] != "1000" {
		t.Errorf("LENGTH = %q, want 1000", got["LENGTH"])
	}
	if len(got) != 1 {
		t.Errorf("expected one key, got %v", got)
	}
}

func TestIsAudioFile(t *testing.T) {
	tc := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"song.MP3", true},
		{"song.flac", true},
		{"song.m4a", true},
		{"video.mp4", true},
		{"cover.jpg", false},
		{"notes", false},
	}

	for _, tt := range tc {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsAudioFile(tt.path); got != tt.want {
				t.Errorf("IsAudioFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
