package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/m3ux/internal/formatter"
	"github.com/desertthunder/m3ux/internal/models"
	"github.com/desertthunder/m3ux/internal/services"
	"github.com/desertthunder/m3ux/internal/tasks"
)

// Prompts shown when the link or the library root is asked for interactively.
const (
	LinkPrompt = "Enter Spotify playlist link: "
	RootPrompt = "Enter the path to your songs folder: "
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LinkInputView ViewState = iota
	RootInputView
	TrackListView
	ConvertView
	ResultView
)

// Options carries the conversion settings that are not entered in the TUI.
type Options struct {
	Link      string // Prefilled playlist link
	Root      string // Prefilled library root
	OutputDir string
	Workers   int
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	catalog      services.Catalog
	engine       tasks.Converter
	opts         Options
	width        int
	height       int
	linkInput    textinput.Model
	rootInput    textinput.Model
	trackList    list.Model
	playlist     *models.PlaylistExport
	progressChan chan tasks.ProgressUpdate
	done         chan Msg
	progress     tasks.ProgressUpdate
	bar          progress.Model
	result       *tasks.ConvertResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, catalog services.Catalog, engine tasks.Converter, opts Options) *Model {
	link := newInput(LinkPrompt, "https://open.spotify.com/playlist/...", opts.Link)
	link.Focus()
	root := newInput(RootPrompt, "/path/to/music", opts.Root)

	return &Model{
		ctx:       ctx,
		view:      LinkInputView,
		catalog:   catalog,
		engine:    engine,
		opts:      opts,
		linkInput: link,
		rootInput: root,
		bar:       progress.New(progress.WithDefaultGradient()),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

func newInput(prompt, placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = styles.label.Render(prompt)
	ti.Placeholder = placeholder
	ti.CharLimit = 1024
	ti.Width = 60
	ti.SetValue(value)
	return ti
}

// Init starts the cursor blinking in the link input.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// View returns the current view state.
func (m *Model) View() string {
	switch m.view {
	case LinkInputView, RootInputView:
		return m.renderInputs()
	case TrackListView:
		return m.renderTrackList()
	case ConvertView:
		return m.renderConvert()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.bar.Width = max(msg.Width-4, 20)
		if m.playlist != nil {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LinkInputView, RootInputView:
			return m.handleInputKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConvertView:
			if key.Matches(msg, m.keys.interrupt) {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateComponents(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistFetched:
		data := msg.data.(playlistFetched)
		if data.err != nil {
			m.err = data.err
			m.view = LinkInputView
			m.rootInput.Blur()
			return m, m.linkInput.Focus()
		}
		m.err = nil
		m.playlist = data.playlist
		items := make([]list.Item, len(data.playlist.Tracks))
		for i, track := range data.playlist.Tracks {
			items[i] = trackItem{track: track}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("Tracks in '%s'", data.playlist.Playlist.Name)
		if m.width > 0 {
			m.trackList.SetSize(m.width-4, m.height-8)
		}
		m.view = TrackListView
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgConvertComplete:
		data := msg.data.(convertComplete)
		m.result, m.err = data.result, data.err
		m.progressChan, m.done = nil, nil
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.interrupt):
		return m, tea.Quit

	case key.Matches(msg, m.keys.back) && m.view == RootInputView:
		m.view = LinkInputView
		m.rootInput.Blur()
		return m, m.linkInput.Focus()

	case key.Matches(msg, m.keys.enter):
		if m.view == LinkInputView {
			if strings.TrimSpace(m.linkInput.Value()) == "" {
				return m, nil
			}
			m.view = RootInputView
			m.linkInput.Blur()
			return m, m.rootInput.Focus()
		}
		if strings.TrimSpace(m.rootInput.Value()) == "" {
			return m, nil
		}
		m.rootInput.Blur()
		return m, m.fetchPlaylist()
	}

	return m.updateComponents(msg)
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.trackList.FilterState() == list.Filtering {
		return m.updateComponents(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = RootInputView
		return m, m.rootInput.Focus()
	case key.Matches(msg, m.keys.convert):
		m.view = ConvertView
		return m, m.startConvert()
	}

	return m.updateComponents(msg)
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = LinkInputView
		m.playlist, m.result, m.err = nil, nil, nil
		m.progress = tasks.ProgressUpdate{}
		m.linkInput.SetValue("")
		return m, m.linkInput.Focus()
	}
	return m, nil
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case LinkInputView:
		m.linkInput, cmd = m.linkInput.Update(msg)
	case RootInputView:
		m.rootInput, cmd = m.rootInput.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylist() tea.Cmd {
	ctx, catalog, link := m.ctx, m.catalog, m.linkInput.Value()
	return func() tea.Msg {
		id, err := services.ParsePlaylistID(link)
		if err != nil {
			return playlistFetchedMsg(nil, err)
		}
		return playlistFetchedMsg(catalog.ExportPlaylist(ctx, id))
	}
}

// startConvert runs the conversion in the background. The goroutine owns both channels;
// the model only reads from them through [Model.waitForProgress].
func (m *Model) startConvert() tea.Cmd {
	updates := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan, m.done = updates, done

	req := tasks.ConvertRequest{
		Link:      m.linkInput.Value(),
		Root:      strings.TrimSpace(m.rootInput.Value()),
		OutputDir: m.opts.OutputDir,
		Workers:   m.opts.Workers,
	}

	go func() {
		result, err := m.engine.Convert(m.ctx, updates, req)
		close(updates)
		done <- convertCompleteMsg(result, err)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	updates, done := m.progressChan, m.done
	return func() tea.Msg {
		if update, ok := <-updates; ok {
			return progressUpdateMsg(update)
		}
		return <-done
	}
}

func (m *Model) renderInputs() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("m3ux"))
	b.WriteString("\n")
	b.WriteString(m.linkInput.View())
	if m.view == RootInputView {
		b.WriteString("\n")
		b.WriteString(m.rootInput.View())
	}
	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.interrupt}
	if m.view == RootInputView {
		helpKeys = []key.Binding{m.keys.enter, m.keys.back, m.keys.interrupt}
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.convert, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderConvert() string {
	title := styles.title.Render("Converting Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchSource:
		phase = "Fetching playlist..."
	case tasks.BuildIndex:
		phase = "Indexing library root..."
	case tasks.ResolveTracks:
		phase = fmt.Sprintf("Matching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.WritePlaylist:
		phase = "Writing playlist..."
	}

	percent := 0.0
	if m.progress.Phase == tasks.ResolveTracks && m.progress.Total > 0 {
		percent = float64(m.progress.Step) / float64(m.progress.Total)
	} else if m.progress.Phase == tasks.WritePlaylist {
		percent = 1
	}

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, phase, m.bar.ViewAs(percent), m.progress.Message)
}

func (m *Model) renderResult() string {
	restart := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})

	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Conversion failed: %v", m.err)) + "\n\n" + restart
	}
	if m.result == nil {
		return styles.err.Render("No result available") + "\n\n" + restart
	}

	outcome := m.result.Outcome
	var title string
	if m.result.Written {
		title = styles.ok.Render("✓ Wrote " + m.result.Path)
	} else {
		title = styles.warn.Render("No tracks matched, playlist not written")
	}

	info := fmt.Sprintf("\nPlaylist: %s\nMatched: %d/%d", outcome.Playlist.Name, outcome.MatchedCount(), len(outcome.Results))

	var failed string
	if outcome.FailureCount() > 0 {
		failed = "\n\n" + styles.warn.Render(formatter.FailureReport(outcome))
		failed += fmt.Sprintf("\n%d tracks could not be found", outcome.FailureCount())
	}
	if m.result.IndexErr != nil {
		failed += "\n\n" + styles.help.Render(fmt.Sprintf("Library root was not indexed: %v", m.result.IndexErr))
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, restart)
}
