package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/m3ux/internal/models"
	"github.com/desertthunder/m3ux/internal/repositories"
	"github.com/desertthunder/m3ux/internal/services"
	"github.com/desertthunder/m3ux/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

type historyDetail struct {
	Number     int                     `json:"number"`
	ID         string                  `json:"id"`
	PlaylistID string                  `json:"playlist_id"`
	Playlist   string                  `json:"playlist"`
	Link       string                  `json:"link"`
	Root       string                  `json:"root"`
	Output     string                  `json:"output,omitempty"`
	Total      int                     `json:"total"`
	Matched    int                     `json:"matched"`
	Written    bool                    `json:"written"`
	CreatedAt  string                  `json:"created_at"`
	Unmatched  []models.UnmatchedTrack `json:"unmatched"`
}

// HistoryList prints recorded conversions, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{"limit": int(cmd.Int("limit"))}
	if link := cmd.String("playlist"); link != "" {
		id, err := services.ParsePlaylistID(link)
		if err != nil {
			return err
		}
		criteria["playlist_id"] = id
	}

	conversions, err := repo.List(criteria)
	if err != nil {
		return err
	}
	if len(conversions) == 0 {
		r.writePlain("No conversions recorded yet\n")
		return nil
	}

	for _, c := range conversions {
		status := "not written"
		if c.Written() {
			status = c.OutputPath()
		}
		r.writePlain("#%-4d %-30s %3d/%-3d %-12s %s\n",
			c.Sequence(), c.PlaylistName(), c.MatchedTracks(), c.TotalTracks(),
			humanize.Time(c.CreatedAt()), status)
	}
	return nil
}

// HistoryShow prints one conversion and its unmatched tracks.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	c, err := r.lookupConversion(repo, cmd.StringArg("number"))
	if err != nil {
		return err
	}
	unmatched, err := repo.ListUnmatched(c.ID())
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(historyDetail{
			Number:     c.Sequence(),
			ID:         c.ID(),
			PlaylistID: c.PlaylistID(),
			Playlist:   c.PlaylistName(),
			Link:       c.SourceLink(),
			Root:       c.LibraryRoot(),
			Output:     c.OutputPath(),
			Total:      c.TotalTracks(),
			Matched:    c.MatchedTracks(),
			Written:    c.Written(),
			CreatedAt:  c.CreatedAt().Format(time.RFC3339),
			Unmatched:  unmatched,
		}, true)
	}

	r.writePlainHeader(fmt.Sprintf("Conversion #%d", c.Sequence()))
	r.writePlain("Playlist: %s (%s)\n", c.PlaylistName(), c.PlaylistID())
	r.writePlain("Library: %s\n", c.LibraryRoot())
	r.writePlain("When: %s (%s)\n", humanize.Time(c.CreatedAt()), c.CreatedAt().Format("2006-01-02 15:04"))
	r.writePlain("Matched: %d/%d\n", c.MatchedTracks(), c.TotalTracks())
	if c.Written() {
		r.writePlain("Output: %s\n", c.OutputPath())
	}

	if len(unmatched) > 0 {
		r.writePlain("\nUnmatched tracks:\n")
		for _, u := range unmatched {
			r.writePlain("  %d - %s - %s\n", u.Ordinal, u.Artist, u.Title)
		}
	}
	return nil
}

// HistoryDelete removes a conversion from the history.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	c, err := r.lookupConversion(repo, cmd.StringArg("number"))
	if err != nil {
		return err
	}
	if err := repo.Delete(c.ID()); err != nil {
		return err
	}

	r.writePlain("✓ Deleted conversion #%d (%s)\n", c.Sequence(), c.PlaylistName())
	return nil
}

func (r *Runner) lookupConversion(repo *repositories.ConversionRepository, arg string) (*models.Conversion, error) {
	if arg == "" {
		return nil, fmt.Errorf("%w: conversion number", shared.ErrMissingArgument)
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("%w: conversion number %q", shared.ErrInvalidArgument, arg)
	}
	return repo.GetBySequence(n)
}
