package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/m3ux/internal/formatter"
	"github.com/desertthunder/m3ux/internal/library"
	"github.com/desertthunder/m3ux/internal/models"
	"github.com/desertthunder/m3ux/internal/services"
	"github.com/desertthunder/m3ux/internal/shared"
)

// MaxWorkers caps the resolve worker pool.
const MaxWorkers = 16

// ConvertRequest describes one conversion.
type ConvertRequest struct {
	Link      string // Playlist URL, URI or bare id
	Root      string // Library root folder
	OutputDir string // Directory receiving the .m3u file (default: current directory)
	Workers   int    // Resolve workers; 0 or 1 resolves sequentially
}

// ConvertResult contains all data from a conversion.
type ConvertResult struct {
	Outcome      models.ConversionOutcome
	Path         string // Written playlist path; empty when nothing matched
	Written      bool
	ConversionID string // History row id when a recorder is configured
	IndexErr     error  // Set when the library root could not be indexed
}

// Converter defines the conversion operation.
type Converter interface {
	Convert(ctx context.Context, progress chan<- ProgressUpdate, req ConvertRequest) (*ConvertResult, error)
}

// RunRecorder stores finished conversions.
type RunRecorder interface {
	RecordRun(sourceLink, libraryRoot, outputPath string, outcome models.ConversionOutcome, written bool) (string, error)
}

// PlaylistEngine implements [Converter] on top of a catalog and a library matcher.
type PlaylistEngine struct {
	catalog  services.Catalog
	matcher  *library.Matcher
	recorder RunRecorder
	logger   *log.Logger
}

// NewPlaylistEngine creates a new PlaylistEngine. recorder may be nil.
func NewPlaylistEngine(catalog services.Catalog, matcher *library.Matcher, logger *log.Logger, recorder RunRecorder) *PlaylistEngine {
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
	}
	return &PlaylistEngine{
		catalog:  catalog,
		matcher:  matcher,
		recorder: recorder,
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Convert fetches the playlist behind req.Link, matches its tracks under req.Root and writes the M3U file.
//
// A catalog failure aborts the run before anything is written. A library root that cannot be
// indexed is reported in [ConvertResult.IndexErr] and the run continues with folder lookups only.
// Zero matches is not an error: the result reports Written == false.
func (e *PlaylistEngine) Convert(ctx context.Context, progress chan<- ProgressUpdate, req ConvertRequest) (*ConvertResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if e.matcher == nil {
		return nil, fmt.Errorf("%w: library matcher not initialized", shared.ErrServiceUnavailable)
	}
	if req.Root == "" {
		return nil, fmt.Errorf("%w: library root", shared.ErrMissingArgument)
	}

	id, err := services.ParsePlaylistID(req.Link)
	if err != nil {
		return nil, err
	}

	logger := shared.WithLogger(e.logger, "playlist", id)

	e.sendProgress(progress, fetchingSourceUpdate(id))
	export, err := e.catalog.ExportPlaylist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", shared.ErrCatalogUnavailable, e.catalog.Name(), err)
	}
	e.sendProgress(progress, foundPlaylistUpdate(export))
	logger.Info("fetched playlist", "name", export.Playlist.Name, "tracks", len(export.Tracks))

	result := &ConvertResult{}

	e.sendProgress(progress, indexingUpdate(req.Root))
	idx, err := e.matcher.BuildIndex(req.Root)
	if err != nil {
		logger.Warn("library root could not be indexed", "root", req.Root, "error", err)
		result.IndexErr = err
	}
	e.sendProgress(progress, indexedUpdate(idx.Len()))

	results, err := e.resolve(ctx, progress, req, export.Tracks, idx)
	if err != nil {
		return nil, err
	}

	result.Outcome = models.ConversionOutcome{Playlist: export.Playlist, Results: results}

	path, err := formatter.WriteM3U(result.Outcome, req.OutputDir)
	switch {
	case errors.Is(err, shared.ErrEmptyResult):
		logger.Warn("no tracks matched, playlist not written", "name", export.Playlist.Name)
	case err != nil:
		return result, err
	default:
		result.Path, result.Written = path, true
		logger.Info("wrote playlist", "path", path, "matched", result.Outcome.MatchedCount(), "failed", result.Outcome.FailureCount())
	}
	e.sendProgress(progress, writePlaylistUpdate(result.Path, result.Outcome.MatchedCount()))

	if e.recorder != nil {
		conversionID, err := e.recorder.RecordRun(req.Link, req.Root, result.Path, result.Outcome, result.Written)
		if err != nil {
			logger.Warn("failed to record conversion", "error", err)
		}
		result.ConversionID = conversionID
	}

	return result, nil
}

// resolve matches every track, sequentially or with a bounded worker pool.
// Results are stored by position so their order equals the order of tracks.
func (e *PlaylistEngine) resolve(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	req ConvertRequest,
	tracks []models.RemoteTrack,
	idx *library.Index,
) ([]models.MatchResult, error) {
	total := len(tracks)
	results := make([]models.MatchResult, total)

	workers := min(req.Workers, MaxWorkers, total)
	if workers <= 1 {
		for i, track := range tracks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = e.matcher.Resolve(req.Root, track, idx)
			e.sendProgress(progress, resolveTrackUpdate(i+1, total, results[i]))
		}
		return results, nil
	}

	jobs := make(chan int, total)
	var done atomic.Int64
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				results[i] = e.matcher.Resolve(req.Root, tracks[i], idx)
				e.sendProgress(progress, resolveTrackUpdate(int(done.Add(1)), total, results[i]))
			}
		}()
	}

	for i := range tracks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
