package tags

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	goflac "github.com/go-flac/go-flac"
	"github.com/llehouerou/go-m4a"
	"github.com/llehouerou/go-mp3"

	"github.com/desertthunder/m3ux/internal/shared"
)

// ReadDuration decodes the audio stream length of the file at path, rounded to the nearest millisecond.
func ReadDuration(path string) (int64, error) {
	var (
		d   time.Duration
		err error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtMP3:
		d, err = readMP3Duration(path)
	case ExtFLAC:
		d, err = readFLACDuration(path)
	case ExtM4A, ExtMP4:
		d, err = readM4ADuration(path)
	default:
		return 0, fmt.Errorf("%w: %s", shared.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read duration of %s: %w", path, err)
	}

	return int64(math.Round(float64(d) / float64(time.Millisecond))), nil
}

func readMP3Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return 0, errors.New("mp3: invalid sample rate")
	}

	sampleCount := max(decoder.SampleCount(), 0)
	return time.Duration(float64(sampleCount) / float64(sampleRate) * float64(time.Second)), nil
}

// readFLACDuration reads the sample rate and total samples from the STREAMINFO block.
func readFLACDuration(path string) (time.Duration, error) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return 0, err
	}

	for _, meta := range f.Meta {
		if meta.Type != goflac.StreamInfo || len(meta.Data) < 18 {
			continue
		}
		data := meta.Data

		// 20-bit sample rate starting at byte 10, 36-bit sample count starting at the low nibble of byte 13
		sampleRate := int(data[10])<<12 | int(data[11])<<4 | int(data[12])>>4
		totalSamples := int64(data[13]&0x0F)<<32 | int64(data[14])<<24 | int64(data[15])<<16 | int64(data[16])<<8 | int64(data[17])
		if sampleRate == 0 {
			return 0, errors.New("flac: invalid sample rate")
		}

		return time.Duration(float64(totalSamples) / float64(sampleRate) * float64(time.Second)), nil
	}

	return 0, errors.New("flac: missing streaminfo block")
}

func readM4ADuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	container, err := m4a.Open(f)
	if err != nil {
		return 0, err
	}
	return container.Duration(), nil
}
