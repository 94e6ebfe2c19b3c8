// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/desertthunder/m3ux/internal/models"
	"github.com/desertthunder/m3ux/internal/shared"
	"github.com/desertthunder/m3ux/internal/tags"
)

// MockCatalog is a test double for [services.Catalog]
type MockCatalog struct {
	Export *models.PlaylistExport
	Err    error

	mu    sync.Mutex
	calls []string
}

// NewMockCatalog returns a catalog serving a single playlist with the given tracks.
func NewMockCatalog(id, name string, tracks ...models.RemoteTrack) *MockCatalog {
	return &MockCatalog{Export: &models.PlaylistExport{
		Playlist: models.Playlist{ID: id, Name: name, TrackCount: len(tracks)},
		Tracks:   tracks,
	}}
}

func (m *MockCatalog) record(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, id)
}

// Calls returns the playlist ids requested so far.
func (m *MockCatalog) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockCatalog) ExportPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExport, error) {
	m.record(playlistID)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Export == nil || m.Export.Playlist.ID != playlistID {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	return m.Export, nil
}

func (m *MockCatalog) PlaylistName(ctx context.Context, playlistID string) (string, error) {
	export, err := m.ExportPlaylist(ctx, playlistID)
	if err != nil {
		return "", err
	}
	return export.Playlist.Name, nil
}

func (m *MockCatalog) PlaylistTracks(ctx context.Context, playlistID string) ([]models.RemoteTrack, error) {
	export, err := m.ExportPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	return export.Tracks, nil
}

func (m *MockCatalog) Name() string { return "mock" }

// FakeTagReader serves tags and durations from memory, keyed by file path.
// Paths without tags report [shared.ErrTagsAbsent].
type FakeTagReader struct {
	mu        sync.Mutex
	tags      map[string]tags.Tags
	durations map[string]int64
	errs      map[string]error
	reads     int
}

func NewFakeTagReader() *FakeTagReader {
	return &FakeTagReader{
		tags:      make(map[string]tags.Tags),
		durations: make(map[string]int64),
		errs:      make(map[string]error),
	}
}

// SetTags registers tags for path.
func (f *FakeTagReader) SetTags(path string, t tags.Tags) *FakeTagReader {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags[path] = t
	return f
}

// SetDuration registers the decoded duration for path.
func (f *FakeTagReader) SetDuration(path string, ms int64) *FakeTagReader {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.durations[path] = ms
	return f
}

// SetError makes ReadTags fail for path.
func (f *FakeTagReader) SetError(path string, err error) *FakeTagReader {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[path] = err
	return f
}

// Reads returns how many times ReadTags was called.
func (f *FakeTagReader) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func (f *FakeTagReader) ReadTags(path string) (*tags.Tags, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++

	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	t, ok := f.tags[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrTagsAbsent, path)
	}
	return &t, nil
}

func (f *FakeTagReader) ReadDuration(path string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ms, ok := f.durations[path]
	if !ok {
		return 0, fmt.Errorf("no duration for %s", path)
	}
	return ms, nil
}

// TouchFiles creates empty files under root for each slash-separated relative path,
// creating parent directories, in the order given. Returns the absolute paths.
func TouchFiles(t *testing.T, root string, rel ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(rel))
	for _, r := range rel {
		p := filepath.Join(root, filepath.FromSlash(r))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", p, err)
		}
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatalf("Failed to create file %s: %v", p, err)
		}
		paths = append(paths, p)
	}
	return paths
}

// MustMkdir creates a directory (and parents) under root.
func MustMkdir(t *testing.T, root, rel string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(p, 0o755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", p, err)
	}
	return p
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

// MustChdir changes the working directory to dir and restores it when the test ends.
func MustChdir(t *testing.T, dir string) {
	t.Helper()
	prev := MustGetwd(t)
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() { os.Chdir(prev) })
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
