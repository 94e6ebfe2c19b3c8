package tasks

import (
	"fmt"

	"github.com/desertthunder/m3ux/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	BuildIndex
	ResolveTracks
	WritePlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case BuildIndex:
		return "build_index"
	case ResolveTracks:
		return "resolve_tracks"
	case WritePlaylist:
		return "write_playlist"
	default:
		return ""
	}
}

func fetchingSourceUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist %s...", id),
	}
}

func foundPlaylistUpdate(export *models.PlaylistExport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist: %s (%d tracks)", export.Playlist.Name, len(export.Tracks)),
		Data:    export,
	}
}

func indexingUpdate(root string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildIndex,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Indexing %s...", root),
	}
}

func indexedUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildIndex,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Indexed %d root-level tracks", count),
	}
}

func resolveTrackUpdate(step, total int, result models.MatchResult) ProgressUpdate {
	mark := "✗"
	if result.Matched() {
		mark = "✓"
	}
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s - %s", step, total, mark, result.Remote.Artist, result.Remote.Title),
		Data:    result,
	}
}

func writePlaylistUpdate(path string, matched int) ProgressUpdate {
	msg := fmt.Sprintf("Wrote %s (%d tracks)", path, matched)
	if path == "" {
		msg = "No tracks matched, playlist not written"
	}
	return ProgressUpdate{
		Phase:   WritePlaylist,
		Step:    1,
		Total:   1,
		Message: msg,
		Data:    path,
	}
}
