package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/m3ux/internal/models"
	"github.com/desertthunder/m3ux/internal/shared"
)

// Catalog is a remote playlist catalog.
type Catalog interface {
	// ExportPlaylist returns the playlist metadata and its complete track list.
	ExportPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExport, error)

	// PlaylistName returns the display name of a playlist.
	PlaylistName(ctx context.Context, playlistID string) (string, error)

	// PlaylistTracks returns every track of a playlist in playlist order.
	PlaylistTracks(ctx context.Context, playlistID string) ([]models.RemoteTrack, error)

	// Name returns the name of the catalog (e.g., "Spotify")
	Name() string
}

// ParsePlaylistID extracts the playlist id from a share link or URI.
//
// For links the id is the final path segment with any query string removed,
// e.g. https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc. URIs of the form
// spotify:playlist:<id> and bare ids are accepted as well.
func ParsePlaylistID(link string) (string, error) {
	link = strings.TrimSpace(link)
	if rest, ok := strings.CutPrefix(link, "spotify:playlist:"); ok {
		link = rest
	}

	id := link[strings.LastIndex(link, "/")+1:]
	id, _, _ = strings.Cut(id, "?")
	id, _, _ = strings.Cut(id, "#")

	if id == "" {
		return "", fmt.Errorf("%w: no playlist id in %q", shared.ErrInvalidInput, link)
	}
	return id, nil
}
