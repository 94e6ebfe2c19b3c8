package models

import (
	"fmt"
	"path/filepath"
)

// RemoteTrack is one entry of a remote playlist.
//
// Ordinal is the 1-based position in the source playlist.
type RemoteTrack struct {
	Ordinal int    `json:"ordinal"`
	Artist  string `json:"artist"`
	Title   string `json:"title"`
	Album   string `json:"album"`
}

// Playlist represents basic playlist metadata from the remote catalog.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"track_count"`
}

// PlaylistExport is a playlist together with its complete, ordered track list.
type PlaylistExport struct {
	Playlist Playlist      `json:"playlist"`
	Tracks   []RemoteTrack `json:"tracks"`
}

// LocalTrack is an audio file with both artist and title tags.
//
// Length holds the EXTINF duration text: the tag's length value verbatim, or the decoded
// duration in milliseconds.
type LocalTrack struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
	Length string `json:"length"`
	Path   string `json:"path"`
}

// Info returns the "<length>,<artist> - <title>" part of an EXTINF line.
func (t LocalTrack) Info() string {
	return fmt.Sprintf("%s,%s - %s", t.Length, t.Artist, t.Title)
}

// SlashPath returns Path with OS separators replaced by forward slashes.
func (t LocalTrack) SlashPath() string {
	return filepath.ToSlash(t.Path)
}
