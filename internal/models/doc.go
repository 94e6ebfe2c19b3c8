// Package models defines domain entities and persistence interfaces for m3ux.
//
// The package contains two categories of types:
//
// 1. Value types describing one conversion run
//   - [RemoteTrack] : an entry of the remote playlist, in playlist order
//   - [Playlist], [PlaylistExport] : remote playlist metadata and its full track list
//   - [LocalTrack] : an audio file on disk with artist and title tags
//   - [MatchResult], [ConversionOutcome] : per-track match results and their aggregate
//
// 2. Persistent entities
//   - [Conversion] : a recorded conversion run
//   - [UnmatchedTrack] : remote tracks a conversion could not place
//
// Persistent entities implement the Model interface; the Repository[T] interface defines CRUD access.
package models
