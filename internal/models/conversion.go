package models

import (
	"errors"
	"time"
)

// Conversion is a persisted record of one conversion run.
type Conversion struct {
	id            string
	sequence      int
	playlistID    string
	playlistName  string
	sourceLink    string
	libraryRoot   string
	outputPath    string
	totalTracks   int
	matchedTracks int
	written       bool
	createdAt     time.Time
	updatedAt     time.Time
	deletedAt     *time.Time
}

// NewConversion creates a Conversion from a finished outcome.
func NewConversion(sourceLink, libraryRoot, outputPath string, outcome ConversionOutcome, written bool) *Conversion {
	now := time.Now()
	return &Conversion{
		playlistID:    outcome.Playlist.ID,
		playlistName:  outcome.Playlist.Name,
		sourceLink:    sourceLink,
		libraryRoot:   libraryRoot,
		outputPath:    outputPath,
		totalTracks:   len(outcome.Results),
		matchedTracks: outcome.MatchedCount(),
		written:       written,
		createdAt:     now,
		updatedAt:     now,
	}
}

func (c *Conversion) ID() string            { return c.id }
func (c *Conversion) Sequence() int         { return c.sequence }
func (c *Conversion) PlaylistID() string    { return c.playlistID }
func (c *Conversion) PlaylistName() string  { return c.playlistName }
func (c *Conversion) SourceLink() string    { return c.sourceLink }
func (c *Conversion) LibraryRoot() string   { return c.libraryRoot }
func (c *Conversion) OutputPath() string    { return c.outputPath }
func (c *Conversion) TotalTracks() int      { return c.totalTracks }
func (c *Conversion) MatchedTracks() int    { return c.matchedTracks }
func (c *Conversion) FailedTracks() int     { return c.totalTracks - c.matchedTracks }
func (c *Conversion) Written() bool         { return c.written }
func (c *Conversion) CreatedAt() time.Time  { return c.createdAt }
func (c *Conversion) UpdatedAt() time.Time  { return c.updatedAt }
func (c *Conversion) DeletedAt() *time.Time { return c.deletedAt }

func (c *Conversion) SetID(id string)              { c.id = id }
func (c *Conversion) SetSequence(seq int)          { c.sequence = seq }
func (c *Conversion) SetCreatedAt(t time.Time)     { c.createdAt = t }
func (c *Conversion) SetUpdatedAt(t time.Time)     { c.updatedAt = t }
func (c *Conversion) SetDeletedAt(t *time.Time)    { c.deletedAt = t }
func (c *Conversion) SetOutputPath(path string)    { c.outputPath = path }
func (c *Conversion) SetCounts(total, matched int) { c.totalTracks, c.matchedTracks = total, matched }
func (c *Conversion) SetWritten(written bool)      { c.written = written }

// Validate checks required fields and count consistency.
func (c *Conversion) Validate() error {
	if c.id == "" {
		return errors.New("conversion id is required")
	}
	if c.playlistID == "" {
		return errors.New("playlist id is required")
	}
	if c.libraryRoot == "" {
		return errors.New("library root is required")
	}
	if c.totalTracks < 0 || c.matchedTracks < 0 || c.matchedTracks > c.totalTracks {
		return errors.New("matched tracks must be within [0, total tracks]")
	}
	if c.written && c.outputPath == "" {
		return errors.New("output path is required for a written playlist")
	}
	return nil
}

// UnmatchedTrack is a remote track a [Conversion] could not place.
type UnmatchedTrack struct {
	ID           string    `json:"id"`
	ConversionID string    `json:"conversion_id"`
	Ordinal      int       `json:"ordinal"`
	Artist       string    `json:"artist"`
	Title        string    `json:"title"`
	Album        string    `json:"album"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUnmatchedTrack creates an UnmatchedTrack for the given remote track.
func NewUnmatchedTrack(conversionID string, track RemoteTrack) UnmatchedTrack {
	return UnmatchedTrack{
		ConversionID: conversionID,
		Ordinal:      track.Ordinal,
		Artist:       track.Artist,
		Title:        track.Title,
		Album:        track.Album,
		CreatedAt:    time.Now(),
	}
}
