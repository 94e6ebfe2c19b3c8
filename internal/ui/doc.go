// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks through a single conversion:
//  1. [LinkInputView] : Enter the playlist link
//  2. [RootInputView] : Enter the library root (prefilled from config)
//  3. [TrackListView] : Preview the remote tracks before converting
//  4. [ConvertView] : Monitor real-time progress updates
//  5. [ResultView] : Display the written playlist and the tracks that could not be found
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the [Msg] union type.
// Progress updates flow through a channel from the [tasks.Converter].
package ui
