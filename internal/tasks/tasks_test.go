package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/desertthunder/m3ux/internal/library"
	"github.com/desertthunder/m3ux/internal/models"
	"github.com/desertthunder/m3ux/internal/shared"
	"github.com/desertthunder/m3ux/internal/tags"
	tu "github.com/desertthunder/m3ux/internal/testing"
)

type mockRecorder struct {
	calls   int
	written bool
	path    string
	err     error
}

func (m *mockRecorder) RecordRun(sourceLink, libraryRoot, outputPath string, outcome models.ConversionOutcome, written bool) (string, error) {
	m.calls++
	m.written, m.path = written, outputPath
	if m.err != nil {
		return "", m.err
	}
	return "conversion-1", nil
}

func newTestEngine(catalog *tu.MockCatalog, reader *tu.FakeTagReader, recorder RunRecorder) *PlaylistEngine {
	logger := shared.NewLogger(io.Discard)
	matcher := library.NewMatcher(reader, logger, library.DefaultThresholds())
	return NewPlaylistEngine(catalog, matcher, logger, recorder)
}

// adeleLibrary creates root/Adele/19/Someone Like You.mp3 tagged with a 285000 ms length.
func adeleLibrary(t *testing.T) (string, string, *tu.FakeTagReader) {
	t.Helper()
	root := t.TempDir()
	path := tu.TouchFiles(t, root, "Adele/19/Someone Like You.mp3")[0]
	reader := tu.NewFakeTagReader().SetTags(path, tags.Tags{
		Artist: "Adele", Title: "Someone Like You", Album: "19", Length: "285000",
	})
	return root, path, reader
}

var someoneLikeYou = models.RemoteTrack{Ordinal: 1, Artist: "Adele", Title: "Someone Like You", Album: "19"}

func TestPlaylistEngine_Convert(t *testing.T) {
	t.Run("writes album folder match", func(t *testing.T) {
		root, path, reader := adeleLibrary(t)
		out := t.TempDir()
		engine := newTestEngine(tu.NewMockCatalog("abc123", "Sad Songs", someoneLikeYou), reader, nil)

		result, err := engine.Convert(context.Background(), nil, ConvertRequest{
			Link:      "https://open.spotify.com/playlist/abc123?si=xyz",
			Root:      root,
			OutputDir: out,
		})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if !result.Written {
			t.Fatal("expected playlist to be written")
		}

		want := "#EXTM3U\n#EXTINF:285000,Adele - Someone Like You\n" + filepath.ToSlash(path)
		if got := tu.MustReadFile(t, filepath.Join(out, "Sad Songs.m3u")); got != want {
			t.Errorf("playlist =\n%q\nwant\n%q", got, want)
		}
		if result.Path != filepath.Join(out, "Sad Songs.m3u") {
			t.Errorf("Path = %s", result.Path)
		}
		if tier := result.Outcome.Results[0].Tier; tier != models.TierAlbumFolder {
			t.Errorf("Tier = %v, want album_folder", tier)
		}
	})

	t.Run("unknown artist is reported as failure", func(t *testing.T) {
		root, _, reader := adeleLibrary(t)
		out := t.TempDir()
		ghost := models.RemoteTrack{Ordinal: 1, Artist: "Nobody", Title: "Ghost"}
		adele := someoneLikeYou
		adele.Ordinal = 2
		engine := newTestEngine(tu.NewMockCatalog("abc123", "Mixed", ghost, adele), reader, nil)

		result, err := engine.Convert(context.Background(), nil, ConvertRequest{Link: "abc123", Root: root, OutputDir: out})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}

		failures := result.Outcome.Failures()
		if len(failures) != 1 || failures[0] != (models.Failure{Ordinal: 1, Title: "Ghost"}) {
			t.Errorf("Failures() = %+v", failures)
		}
		if result.Outcome.MatchedCount() != 1 {
			t.Errorf("MatchedCount() = %d, want 1", result.Outcome.MatchedCount())
		}
		content := tu.MustReadFile(t, filepath.Join(out, "Mixed.m3u"))
		if lines := len(splitLines(content)); lines != 3 {
			t.Errorf("expected header and one entry, got %d lines", lines)
		}
	})

	t.Run("zero matches writes nothing", func(t *testing.T) {
		root := t.TempDir()
		out := t.TempDir()
		ghost := models.RemoteTrack{Ordinal: 1, Artist: "Nobody", Title: "Ghost"}
		recorder := &mockRecorder{}
		engine := newTestEngine(tu.NewMockCatalog("abc123", "Empty", ghost), tu.NewFakeTagReader(), recorder)

		result, err := engine.Convert(context.Background(), nil, ConvertRequest{Link: "abc123", Root: root, OutputDir: out})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if result.Written || result.Path != "" {
			t.Errorf("expected nothing written, got %v %q", result.Written, result.Path)
		}
		tu.AssertFileNotExists(t, filepath.Join(out, "Empty.m3u"))

		if recorder.calls != 1 || recorder.written {
			t.Errorf("expected unwritten run to be recorded, calls=%d written=%v", recorder.calls, recorder.written)
		}
	})

	t.Run("root index match uses remote names", func(t *testing.T) {
		root := t.TempDir()
		path := tu.TouchFiles(t, root, "loose.mp3")[0]
		reader := tu.NewFakeTagReader().SetTags(path, tags.Tags{Artist: "SOLO", Title: "alone", Length: "1000"})
		track := models.RemoteTrack{Ordinal: 1, Artist: "Solo", Title: "Alone"}
		engine := newTestEngine(tu.NewMockCatalog("abc123", "Index", track), reader, nil)

		result, err := engine.Convert(context.Background(), nil, ConvertRequest{Link: "abc123", Root: root, OutputDir: t.TempDir()})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		r := result.Outcome.Results[0]
		if r.Tier != models.TierIndex || r.Local.Info() != "1000,Solo - Alone" {
			t.Errorf("unexpected result %+v", r)
		}
	})

	t.Run("missing root is not fatal", func(t *testing.T) {
		engine := newTestEngine(tu.NewMockCatalog("abc123", "Gone", someoneLikeYou), tu.NewFakeTagReader(), nil)

		result, err := engine.Convert(context.Background(), nil, ConvertRequest{
			Link:      "abc123",
			Root:      filepath.Join(t.TempDir(), "missing"),
			OutputDir: t.TempDir(),
		})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if result.IndexErr == nil {
			t.Error("expected IndexErr for a missing root")
		}
		if result.Written {
			t.Error("expected nothing written")
		}
	})

	t.Run("recorder errors are not fatal", func(t *testing.T) {
		root, _, reader := adeleLibrary(t)
		recorder := &mockRecorder{err: errors.New("disk full")}
		engine := newTestEngine(tu.NewMockCatalog("abc123", "Sad Songs", someoneLikeYou), reader, recorder)

		result, err := engine.Convert(context.Background(), nil, ConvertRequest{Link: "abc123", Root: root, OutputDir: t.TempDir()})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if recorder.calls != 1 || recorder.path != result.Path {
			t.Errorf("recorder calls=%d path=%q", recorder.calls, recorder.path)
		}
		if result.ConversionID != "" {
			t.Errorf("expected no conversion id, got %q", result.ConversionID)
		}
	})

	t.Run("recorder id is returned", func(t *testing.T) {
		root, _, reader := adeleLibrary(t)
		engine := newTestEngine(tu.NewMockCatalog("abc123", "Sad Songs", someoneLikeYou), reader, &mockRecorder{})

		result, err := engine.Convert(context.Background(), nil, ConvertRequest{Link: "abc123", Root: root, OutputDir: t.TempDir()})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if result.ConversionID != "conversion-1" {
			t.Errorf("ConversionID = %q", result.ConversionID)
		}
	})
}

func TestPlaylistEngine_ConvertErrors(t *testing.T) {
	t.Run("catalog failure aborts before writing", func(t *testing.T) {
		root, _, reader := adeleLibrary(t)
		out := t.TempDir()
		catalog := tu.NewMockCatalog("abc123", "Sad Songs", someoneLikeYou)
		catalog.Err = errors.New("connection refused")
		engine := newTestEngine(catalog, reader, nil)

		_, err := engine.Convert(context.Background(), nil, ConvertRequest{Link: "abc123", Root: root, OutputDir: out})
		if !errors.Is(err, shared.ErrCatalogUnavailable) {
			t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
		}

		entries, _ := os.ReadDir(out)
		if len(entries) != 0 {
			t.Errorf("expected empty output dir, got %d entries", len(entries))
		}
	})

	t.Run("unknown playlist", func(t *testing.T) {
		root, _, reader := adeleLibrary(t)
		engine := newTestEngine(tu.NewMockCatalog("abc123", "Sad Songs", someoneLikeYou), reader, nil)

		_, err := engine.Convert(context.Background(), nil, ConvertRequest{Link: "other", Root: root, OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrCatalogUnavailable) || !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrCatalogUnavailable wrapping ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("empty link", func(t *testing.T) {
		catalog := tu.NewMockCatalog("abc123", "Sad Songs")
		engine := newTestEngine(catalog, tu.NewFakeTagReader(), nil)

		_, err := engine.Convert(context.Background(), nil, ConvertRequest{Link: "  ", Root: t.TempDir()})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if len(catalog.Calls()) != 0 {
			t.Error("catalog should not be called for an invalid link")
		}
	})

	t.Run("empty root", func(t *testing.T) {
		engine := newTestEngine(tu.NewMockCatalog("abc123", "Sad Songs"), tu.NewFakeTagReader(), nil)

		_, err := engine.Convert(context.Background(), nil, ConvertRequest{Link: "abc123"})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("nil catalog", func(t *testing.T) {
		engine := NewPlaylistEngine(nil, library.NewMatcher(tu.NewFakeTagReader(), nil, library.DefaultThresholds()), shared.NewLogger(io.Discard), nil)

		_, err := engine.Convert(context.Background(), nil, ConvertRequest{Link: "abc123", Root: t.TempDir()})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		root, _, reader := adeleLibrary(t)
		engine := newTestEngine(tu.NewMockCatalog("abc123", "Sad Songs", someoneLikeYou), reader, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := engine.Convert(ctx, nil, ConvertRequest{Link: "abc123", Root: root, OutputDir: t.TempDir()})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

// bigLibrary creates n artist folders holding one tagged file each and a playlist that
// asks for every track plus one missing track after every third.
func bigLibrary(t *testing.T, n int) (string, *tu.FakeTagReader, []models.RemoteTrack) {
	t.Helper()
	root := t.TempDir()
	reader := tu.NewFakeTagReader()
	var tracks []models.RemoteTrack

	for i := range n {
		artist, title := fmt.Sprintf("Artist %02d", i), fmt.Sprintf("Song %02d", i)
		path := tu.TouchFiles(t, root, artist+"/"+title+".flac")[0]
		reader.SetTags(path, tags.Tags{Artist: artist, Title: title, Length: fmt.Sprint(1000 + i)})

		tracks = append(tracks, models.RemoteTrack{Ordinal: len(tracks) + 1, Artist: artist, Title: title})
		if i%3 == 0 {
			tracks = append(tracks, models.RemoteTrack{Ordinal: len(tracks) + 1, Artist: "Missing", Title: title})
		}
	}
	return root, reader, tracks
}

func TestPlaylistEngine_ConvertOrdering(t *testing.T) {
	root, reader, tracks := bigLibrary(t, 24)

	run := func(t *testing.T, workers int, out string) *ConvertResult {
		t.Helper()
		engine := newTestEngine(tu.NewMockCatalog("abc123", "Big", tracks...), reader, nil)
		result, err := engine.Convert(context.Background(), nil, ConvertRequest{
			Link: "abc123", Root: root, OutputDir: out, Workers: workers,
		})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		return result
	}

	t.Run("results follow input order", func(t *testing.T) {
		result := run(t, 1, t.TempDir())
		if len(result.Outcome.Results) != len(tracks) {
			t.Fatalf("got %d results, want %d", len(result.Outcome.Results), len(tracks))
		}
		for i, r := range result.Outcome.Results {
			if r.Remote != tracks[i] {
				t.Errorf("result %d = %+v, want %+v", i, r.Remote, tracks[i])
			}
			if r.Matched() == (r.Remote.Artist == "Missing") {
				t.Errorf("result %d matched = %v", i, r.Matched())
			}
		}
	})

	t.Run("worker pool matches sequential output", func(t *testing.T) {
		seqOut, parOut := t.TempDir(), t.TempDir()
		seq := run(t, 1, seqOut)
		par := run(t, 8, parOut)

		if !slices.Equal(seq.Outcome.Failures(), par.Outcome.Failures()) {
			t.Errorf("failures differ: %v vs %v", seq.Outcome.Failures(), par.Outcome.Failures())
		}
		a := tu.MustReadFile(t, filepath.Join(seqOut, "Big.m3u"))
		b := tu.MustReadFile(t, filepath.Join(parOut, "Big.m3u"))
		if a != b {
			t.Error("parallel output differs from sequential output")
		}
	})

	t.Run("rerun is byte identical", func(t *testing.T) {
		out := t.TempDir()
		run(t, 1, out)
		first := tu.MustReadFile(t, filepath.Join(out, "Big.m3u"))
		run(t, 1, out)
		if second := tu.MustReadFile(t, filepath.Join(out, "Big.m3u")); first != second {
			t.Error("second run changed the playlist file")
		}
	})
}

func TestPlaylistEngine_ConvertProgress(t *testing.T) {
	root, reader, tracks := bigLibrary(t, 4)
	engine := newTestEngine(tu.NewMockCatalog("abc123", "Big", tracks...), reader, nil)

	progress := make(chan ProgressUpdate, 64)
	if _, err := engine.Convert(context.Background(), progress, ConvertRequest{Link: "abc123", Root: root, OutputDir: t.TempDir()}); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	close(progress)

	var phases []Phase
	resolved := 0
	for u := range progress {
		phases = append(phases, u.Phase)
		if u.Phase == ResolveTracks {
			resolved++
		}
	}

	if len(phases) == 0 || phases[0] != FetchSource || phases[len(phases)-1] != WritePlaylist {
		t.Errorf("unexpected phase sequence %v", phases)
	}
	if resolved != len(tracks) {
		t.Errorf("got %d resolve updates, want %d", resolved, len(tracks))
	}
}

func TestSendProgressDoesNotBlock(t *testing.T) {
	engine := &PlaylistEngine{}
	full := make(chan ProgressUpdate)

	engine.sendProgress(full, ProgressUpdate{Phase: FetchSource})
	engine.sendProgress(nil, ProgressUpdate{Phase: FetchSource})
}

func TestPhaseString(t *testing.T) {
	tc := map[Phase]string{
		FetchSource:   "fetch_source",
		BuildIndex:    "build_index",
		ResolveTracks: "resolve_tracks",
		WritePlaylist: "write_playlist",
		Phase(99):     "",
	}
	for p, want := range tc {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), got, want)
		}
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := range len(s) {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
