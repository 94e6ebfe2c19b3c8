// Package tasks converts a remote playlist into a local M3U playlist with real-time progress reporting.
//
// # Core Operation
//
// [PlaylistEngine.Convert] runs one conversion:
//
//  1. Parses the playlist link into an id
//  2. Fetches the playlist name and every track from the catalog
//  3. Indexes the audio files directly under the library root
//  4. Resolves each remote track against the library (artist folder, album folder, root index)
//  5. Writes "<playlist name>.m3u" when at least one track matched
//
// # Progress Reporting
//
// Updates are sent on a [ProgressUpdate] channel with select/default, so a slow or absent
// reader never stalls a conversion.
//
// # Run History
//
// The optional [RunRecorder] (repositories.RunRecorder) stores each finished run and its
// unmatched tracks. Recording failures are logged and never fail the conversion.
package tasks
