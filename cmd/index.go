package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/m3ux/internal/models"
	"github.com/desertthunder/m3ux/internal/shared"
	"github.com/urfave/cli/v3"
)

type indexEntry struct {
	Artist string              `json:"artist"`
	Tracks []models.LocalTrack `json:"tracks"`
}

// Index prints the artist index of the audio files directly under the library root.
func (r *Runner) Index(ctx context.Context, cmd *cli.Command) error {
	root := cmd.String("root")
	if root == "" {
		root = r.config.Library.Root
	}
	if root == "" {
		return fmt.Errorf("%w: --root or library.root is required", shared.ErrMissingArgument)
	}

	idx, err := r.newMatcher().BuildIndex(root)
	if err != nil {
		return err
	}

	entries := make([]indexEntry, 0, len(idx.Artists()))
	for _, artist := range idx.Artists() {
		entries = append(entries, indexEntry{Artist: artist, Tracks: idx.Tracks(artist)})
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	r.writePlainHeader(fmt.Sprintf("Index of %s", idx.Root()))
	for _, e := range entries {
		r.writePlain("%s\n", e.Artist)
		for _, t := range e.Tracks {
			r.writePlain("  %s  (%s ms)  %s\n", t.Title, t.Length, t.Path)
		}
	}
	r.writePlain("\n%d artists, %d tracks\n", len(entries), idx.Len())
	return nil
}
