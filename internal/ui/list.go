package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/m3ux/internal/models"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.RemoteTrack] to implement [list.Item].
type trackItem struct {
	track models.RemoteTrack
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string       { return fmt.Sprintf("%d. %s", i.track.Ordinal, i.track.Title) }
func (i trackItem) Description() string {
	desc := i.track.Artist
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	return desc
}
