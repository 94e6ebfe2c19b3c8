// Package library locates local audio files for remote playlist entries.
//
// Matching works on two kinds of candidates:
//   - folders on disk (an artist folder or one of its album folders), scanned lazily through a [TagReader]
//   - an [Index] of the audio files stored directly under the library root, keyed by artist tag
//
// [Matcher.Resolve] applies the strategies in priority order for one [models.RemoteTrack]:
// the album folder, then the artist folder, then the root index. All comparisons go through
// [Similarity]. Nothing in this package writes to the filesystem.
package library
