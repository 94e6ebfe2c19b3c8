package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/m3ux/internal/models"
	"github.com/desertthunder/m3ux/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistFetched MsgKind = iota
	MsgProgressUpdate
	MsgConvertComplete
)

type playlistFetched struct {
	playlist *models.PlaylistExport
	err      error
}

type convertComplete struct {
	result *tasks.ConvertResult
	err    error
}

// playlistFetchedMsg is the constructor for [MsgPlaylistFetched]
func playlistFetchedMsg(playlist *models.PlaylistExport, err error) Msg {
	return Msg{kind: MsgPlaylistFetched, data: playlistFetched{playlist, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// convertCompleteMsg is the constructor for [MsgConvertComplete]
func convertCompleteMsg(result *tasks.ConvertResult, err error) Msg {
	return Msg{kind: MsgConvertComplete, data: convertComplete{result, err}}
}
