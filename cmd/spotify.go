package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/m3ux/internal/formatter"
	"github.com/desertthunder/m3ux/internal/services"
	"github.com/urfave/cli/v3"
)

// SpotifyTracks lists the tracks of a playlist in playlist order.
func (r *Runner) SpotifyTracks(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.requireCatalog()
	if err != nil {
		return err
	}

	id, err := services.ParsePlaylistID(cmd.String("playlist"))
	if err != nil {
		return err
	}

	r.logger.Infof("exporting %s playlist %s", catalog.Name(), id)

	export, err := catalog.ExportPlaylist(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to export playlist: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(export, cmd.Bool("pretty"))
	}

	_, err = r.output.Write(formatter.ExportTracksToText(export))
	return err
}
