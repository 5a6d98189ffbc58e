// Package tui provides a Bubble Tea terminal user interface for the player.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/music-player/internal/audio"
	"github.com/handiism/music-player/internal/engine"
	"github.com/handiism/music-player/internal/library"
	"github.com/handiism/music-player/internal/model"
	"github.com/handiism/music-player/internal/player"
	"github.com/mattn/go-runewidth"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	playingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateBrowse State = iota
	StateSearch
	StateOpen
)

// Player is the control surface the UI drives. *engine.Engine implements it.
type Player interface {
	Toggle(ctx context.Context, selection int) error
	Play(ctx context.Context, index int) error
	SeekBy(ctx context.Context, delta float64) error
	Stop(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	Search(ctx context.Context, query string) (int, bool, error)
	FindNext(ctx context.Context) (int, bool, error)
	Scan(ctx context.Context, root string) error
	Snapshot(ctx context.Context) (player.Snapshot, error)
	Tracks(ctx context.Context) ([]model.Track, error)
	Events() <-chan engine.Event
}

// Exporter writes a playlist file. *audio.PlaylistCreator implements it.
type Exporter interface {
	Export(dir string, tracks []model.Track) (string, error)
}

// InfoReader reads tags for the now-playing line. *audio.MetadataReader
// implements it.
type InfoReader interface {
	Info(path string) (audio.Info, error)
}

// Options configures the Model. Only MusicDir and SeekStep are expected;
// the rest switch features off when nil.
type Options struct {
	// MusicDir is scanned on start and prefilled in the open prompt.
	MusicDir string

	// SeekStep is the left/right seek distance in seconds.
	SeekStep float64

	Exporter Exporter
	Info     InfoReader

	// OnTrackChange is called with the tags of every newly playing track.
	OnTrackChange func(audio.Info)
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	input    textinput.Model
	spinner  spinner.Model
	progress progress.Model

	ctx    context.Context
	player Player
	opts   Options

	names  []string
	root   string
	cursor int
	offset int

	snap       player.Snapshot
	nowPlaying string
	lastPath   string

	status    string
	statusErr bool
	scanning  bool

	width  int
	height int
}

// NewModel creates a new TUI model driving p.
func NewModel(ctx context.Context, p Player, opts Options) Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	prog.Width = 50

	if opts.SeekStep <= 0 {
		opts.SeekStep = 5
	}

	m := Model{
		state:    StateBrowse,
		input:    ti,
		spinner:  sp,
		progress: prog,
		ctx:      ctx,
		player:   p,
		opts:     opts,
		snap:     player.Snapshot{Index: -1},
		width:    80,
		height:   24,
	}
	// Init starts a scan of MusicDir.
	if opts.MusicDir != "" {
		m.scanning = true
		m.setStatus(fmt.Sprintf("Scanning %s...", opts.MusicDir))
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.waitForEvent()}
	if m.opts.MusicDir != "" {
		cmds = append(cmds, m.scan(m.opts.MusicDir))
	}
	return tea.Batch(cmds...)
}

// Message types
type (
	// eventMsg carries one engine notification.
	eventMsg struct {
		Event engine.Event
	}

	// eventsClosedMsg is sent once the engine has stopped.
	eventsClosedMsg struct{}

	// resultMsg is the outcome of a command. Select moves the cursor when
	// it is >= 0.
	resultMsg struct {
		Status string
		Err    error
		Select int
	}

	// scanMsg reports whether a scan could be started.
	scanMsg struct {
		Root string
		Err  error
	}

	// infoMsg carries the tags of the track at Path.
	infoMsg struct {
		Path string
		Info audio.Info
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if m.state != StateBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		cmd := m.handleEvent(msg.Event)
		return m, tea.Batch(cmd, m.waitForEvent())

	case eventsClosedMsg:
		return m, tea.Quit

	case resultMsg:
		if msg.Err != nil {
			m.setError(msg.Err)
		} else if msg.Status != "" {
			m.setStatus(msg.Status)
		}
		if msg.Select >= 0 {
			m.cursor = msg.Select
			m.clampCursor()
		}
		return m, nil

	case scanMsg:
		// The scanning flag is raised before the scan is requested and
		// lowered by its ScanEvent, which may arrive before this message.
		if msg.Err != nil {
			if !errors.Is(msg.Err, library.ErrScanInProgress) {
				m.scanning = false
			}
			m.setError(msg.Err)
		}
		return m, nil

	case infoMsg:
		if msg.Path == m.snap.Path {
			m.nowPlaying = label(msg.Info)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case " ":
		sel := m.cursor
		if len(m.names) == 0 {
			sel = -1
		}
		return m, m.call(func() error { return m.player.Toggle(m.ctx, sel) })

	case "enter":
		if len(m.names) == 0 {
			return m, nil
		}
		idx := m.cursor
		return m, m.call(func() error { return m.player.Play(m.ctx, idx) })

	case "up", "k":
		m.cursor--
		m.clampCursor()

	case "down", "j":
		m.cursor++
		m.clampCursor()

	case "pgup":
		m.cursor -= m.listHeight()
		m.clampCursor()

	case "pgdown":
		m.cursor += m.listHeight()
		m.clampCursor()

	case "home":
		m.cursor = 0
		m.clampCursor()

	case "end":
		m.cursor = len(m.names) - 1
		m.clampCursor()

	case "n":
		return m, m.follow(func() error { return m.player.Next(m.ctx) })

	case "p":
		return m, m.follow(func() error { return m.player.Previous(m.ctx) })

	case "left":
		step := -m.opts.SeekStep
		return m, m.call(func() error { return m.player.SeekBy(m.ctx, step) })

	case "right":
		step := m.opts.SeekStep
		return m, m.call(func() error { return m.player.SeekBy(m.ctx, step) })

	case "s":
		return m, m.call(func() error { return m.player.Stop(m.ctx) })

	case "/", "f3":
		m.state = StateSearch
		m.input.Placeholder = "search tracks"
		m.input.SetValue("")
		cmd := m.input.Focus()
		return m, cmd

	case "f4":
		return m, m.find(func() (int, bool, error) { return m.player.FindNext(m.ctx) })

	case "o":
		if m.scanning {
			m.setStatus("A scan is already running")
			return m, nil
		}
		m.state = StateOpen
		m.input.Placeholder = "/path/to/music"
		m.input.SetValue(m.opts.MusicDir)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd

	case "e":
		return m, m.export()

	case "y":
		return m, m.copyPath()
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.state = StateBrowse
		m.input.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		state := m.state
		m.state = StateBrowse
		m.input.Blur()
		if value == "" {
			return m, nil
		}
		if state == StateOpen {
			m.opts.MusicDir = value
			m.scanning = true
			m.setStatus(fmt.Sprintf("Scanning %s...", value))
			return m, m.scan(value)
		}
		return m, m.find(func() (int, bool, error) { return m.player.Search(m.ctx, value) })
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleEvent applies an engine notification and returns any follow-up.
func (m *Model) handleEvent(ev engine.Event) tea.Cmd {
	switch ev := ev.(type) {
	case engine.TickEvent:
		return m.applySnapshot(ev.Snapshot)

	case engine.AdvanceEvent:
		if ev.Err != nil {
			m.setError(ev.Err)
		}
		if ev.Snapshot.Index >= 0 {
			m.cursor = ev.Snapshot.Index
			m.clampCursor()
		}
		return m.applySnapshot(ev.Snapshot)

	case engine.ScanEvent:
		m.scanning = false
		if ev.Err != nil {
			m.setError(ev.Err)
			return nil
		}
		m.names = ev.Names
		m.root = ev.Root
		m.cursor, m.offset = 0, 0
		m.snap = player.Snapshot{Index: -1, Tracks: len(ev.Names)}
		m.nowPlaying, m.lastPath = "", ""
		m.setStatus(fmt.Sprintf("%d tracks loaded", len(ev.Names)))
	}
	return nil
}

func (m *Model) applySnapshot(s player.Snapshot) tea.Cmd {
	m.snap = s
	if s.Path == "" || s.Path == m.lastPath {
		return nil
	}
	m.lastPath = s.Path
	m.nowPlaying = ""
	return m.readInfo(s.Path)
}

// waitForEvent blocks on the engine's event stream.
func (m Model) waitForEvent() tea.Cmd {
	events := m.player.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{Event: ev}
	}
}

// call runs a player command and reports only failures.
func (m Model) call(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{Err: fn(), Select: -1}
	}
}

// follow runs a track-changing command and moves the cursor to the new
// current track.
func (m Model) follow(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return resultMsg{Err: err, Select: -1}
		}
		snap, err := m.player.Snapshot(m.ctx)
		if err != nil {
			return resultMsg{Err: err, Select: -1}
		}
		return resultMsg{Select: snap.Index}
	}
}

// find runs a search command and selects the match.
func (m Model) find(fn func() (int, bool, error)) tea.Cmd {
	return func() tea.Msg {
		idx, ok, err := fn()
		switch {
		case err != nil:
			return resultMsg{Err: err, Select: -1}
		case !ok:
			return resultMsg{Status: "No match", Select: -1}
		default:
			return resultMsg{Select: idx}
		}
	}
}

func (m Model) scan(root string) tea.Cmd {
	return func() tea.Msg {
		return scanMsg{Root: root, Err: m.player.Scan(m.ctx, root)}
	}
}

func (m Model) export() tea.Cmd {
	exporter, root := m.opts.Exporter, m.root
	if exporter == nil {
		return nil
	}
	return func() tea.Msg {
		if root == "" {
			return resultMsg{Status: "Nothing to export", Select: -1}
		}
		tracks, err := m.player.Tracks(m.ctx)
		if err != nil {
			return resultMsg{Err: err, Select: -1}
		}
		path, err := exporter.Export(root, tracks)
		if err != nil {
			return resultMsg{Err: err, Select: -1}
		}
		return resultMsg{Status: "Playlist saved to " + path, Select: -1}
	}
}

func (m Model) copyPath() tea.Cmd {
	path := m.snap.Path
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		if err := clipboard.WriteAll(path); err != nil {
			return resultMsg{Err: fmt.Errorf("copy to clipboard: %w", err), Select: -1}
		}
		return resultMsg{Status: "Copied " + path, Select: -1}
	}
}

func (m Model) readInfo(path string) tea.Cmd {
	reader, hook := m.opts.Info, m.opts.OnTrackChange
	if reader == nil {
		return nil
	}
	return func() tea.Msg {
		info, _ := reader.Info(path)
		if hook != nil {
			hook(info)
		}
		return infoMsg{Path: path, Info: info}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// clampCursor keeps the cursor on a track and inside the visible window.
func (m *Model) clampCursor() {
	m.cursor = max(0, min(m.cursor, len(m.names)-1))
	rows := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(0, m.offset)
}

func (m Model) listHeight() int {
	return max(3, m.height-12)
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ Music Player"))
	b.WriteString("\n")
	folder := m.root
	if folder == "" {
		folder = "no folder loaded"
	}
	b.WriteString(dimStyle.Render(folder))
	b.WriteString("\n\n")

	b.WriteString(m.viewNowPlaying())
	b.WriteString("\n")
	b.WriteString(m.viewList())
	b.WriteString("\n")

	switch m.state {
	case StateSearch:
		b.WriteString(subtitleStyle.Render("Search: "))
		b.WriteString(m.input.View())
	case StateOpen:
		b.WriteString(subtitleStyle.Render("Open folder: "))
		b.WriteString(m.input.View())
	default:
		b.WriteString(m.viewStatus())
	}

	// Footer
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewNowPlaying() string {
	var b strings.Builder

	icon := "■"
	switch m.snap.Phase {
	case player.Playing:
		icon = "▶"
	case player.Paused:
		icon = "⏸"
	}

	title := m.nowPlaying
	if title == "" {
		title = m.snap.Track
	}
	if title == "" {
		title = "Nothing playing"
	}

	b.WriteString(subtitleStyle.Render(icon + " " + truncate(title, m.width-4)))
	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(m.snap.Progress()))
	b.WriteString(" ")
	b.WriteString(infoStyle.Render(formatTime(m.snap.Elapsed) + " / " + formatTime(m.snap.Duration)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewList() string {
	if len(m.names) == 0 {
		return dimStyle.Render("  No tracks. Press o to open a folder.") + "\n"
	}

	var b strings.Builder
	end := min(len(m.names), m.offset+m.listHeight())
	for i := m.offset; i < end; i++ {
		prefix := "  "
		style := lipgloss.NewStyle()
		if i == m.snap.Index && m.snap.Phase != player.Stopped {
			prefix = "♪ "
			style = playingStyle
		}
		if i == m.cursor {
			prefix = "> "
			style = cursorStyle
		}
		b.WriteString(style.Render(prefix + truncate(m.names[i], m.width-4)))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d", m.cursor+1, len(m.names))))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewStatus() string {
	switch {
	case m.scanning:
		return m.spinner.View() + " " + subtitleStyle.Render(m.status)
	case m.statusErr:
		return errorStyle.Render("✗ " + m.status)
	case m.status != "":
		return successStyle.Render(m.status)
	}
	return ""
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateSearch, StateOpen:
		return "enter: confirm • esc: cancel"
	}
	help := "space: play/pause • enter: play • n/p: next/prev • ←/→: seek • s: stop • /: search • f4: next match • e: export • q: quit"
	if m.scanning {
		return help
	}
	return "o: open folder • " + help
}

// formatTime renders seconds as mm:ss. Minutes are not wrapped into hours.
func formatTime(seconds float64) string {
	total := max(0, int(seconds))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func label(info audio.Info) string {
	if info.Artist == "" {
		return info.Title
	}
	return info.Artist + " - " + info.Title
}

func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// Run starts the TUI application and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, p Player, opts Options) error {
	prog := tea.NewProgram(NewModel(ctx, p, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
