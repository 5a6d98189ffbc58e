package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/music-player/internal/audio"
	"github.com/handiism/music-player/internal/engine"
	"github.com/handiism/music-player/internal/library"
	"github.com/handiism/music-player/internal/model"
	"github.com/handiism/music-player/internal/player"
)

type fakePlayer struct {
	calls   []string
	toggled int
	played  int
	snap    player.Snapshot
	match   int
	found   bool
	scanErr error
	events  chan engine.Event
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{toggled: -2, played: -2, events: make(chan engine.Event, 1)}
}

func (f *fakePlayer) Toggle(_ context.Context, sel int) error {
	f.calls = append(f.calls, "toggle")
	f.toggled = sel
	return nil
}

func (f *fakePlayer) Play(_ context.Context, i int) error {
	f.calls = append(f.calls, "play")
	f.played = i
	return nil
}

func (f *fakePlayer) SeekBy(_ context.Context, delta float64) error {
	if delta < 0 {
		f.calls = append(f.calls, "rewind")
	} else {
		f.calls = append(f.calls, "forward")
	}
	return player.ErrNotActive
}

func (f *fakePlayer) Stop(context.Context) error     { f.calls = append(f.calls, "stop"); return nil }
func (f *fakePlayer) Next(context.Context) error     { f.calls = append(f.calls, "next"); return nil }
func (f *fakePlayer) Previous(context.Context) error { f.calls = append(f.calls, "prev"); return nil }

func (f *fakePlayer) Search(_ context.Context, q string) (int, bool, error) {
	f.calls = append(f.calls, "search "+q)
	return f.match, f.found, nil
}

func (f *fakePlayer) FindNext(context.Context) (int, bool, error) {
	f.calls = append(f.calls, "findnext")
	return f.match, f.found, nil
}

func (f *fakePlayer) Scan(_ context.Context, root string) error {
	f.calls = append(f.calls, "scan "+root)
	return f.scanErr
}

func (f *fakePlayer) Snapshot(context.Context) (player.Snapshot, error) { return f.snap, nil }
func (f *fakePlayer) Tracks(context.Context) ([]model.Track, error)     { return nil, nil }
func (f *fakePlayer) Events() <-chan engine.Event                      { return f.events }

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "f3":
		return tea.KeyMsg{Type: tea.KeyF3}
	case "f4":
		return tea.KeyMsg{Type: tea.KeyF4}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and, back in browse mode, feeds the command's result
// into the model. Prompt commands only blink the cursor and are skipped.
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	next, cmd := m.Update(key(k))
	m = next.(Model)
	if cmd != nil && m.state == StateBrowse {
		if msg := cmd(); msg != nil {
			next, _ = m.Update(msg)
			m = next.(Model)
		}
	}
	return m
}

func loaded(t *testing.T, p *fakePlayer, names ...string) Model {
	t.Helper()
	m := NewModel(context.Background(), p, Options{SeekStep: 5})
	next, _ := m.Update(eventMsg{Event: engine.ScanEvent{Root: "/music", Names: names}})
	return next.(Model)
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00"},
		{59.9, "00:59"},
		{61, "01:01"},
		{3725, "62:05"},
		{-3, "00:00"},
	}

	for _, tt := range tests {
		if got := formatTime(tt.in); got != tt.want {
			t.Errorf("formatTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModel_ScanEventLoadsList(t *testing.T) {
	m := loaded(t, newFakePlayer(), "a.mp3", "b.mp3", "c.mp3")

	if m.cursor != 0 || len(m.names) != 3 {
		t.Fatalf("cursor = %d, names = %v", m.cursor, m.names)
	}
	if !strings.Contains(m.View(), "3 tracks loaded") {
		t.Errorf("View() lacks the status line:\n%s", m.View())
	}
}

func TestModel_ScanErrorShowsStatus(t *testing.T) {
	m := NewModel(context.Background(), newFakePlayer(), Options{})
	m.scanning = true

	next, _ := m.Update(eventMsg{Event: engine.ScanEvent{Root: "/x", Err: errors.New("scan /x: not a directory")}})
	m = next.(Model)

	if m.scanning || !m.statusErr {
		t.Errorf("scanning = %v, statusErr = %v", m.scanning, m.statusErr)
	}
}

func TestModel_CursorStaysInRange(t *testing.T) {
	m := loaded(t, newFakePlayer(), "a", "b")

	m = press(t, m, "up")
	if m.cursor != 0 {
		t.Errorf("cursor = %d after up at top, want 0", m.cursor)
	}
	m = press(t, m, "down")
	m = press(t, m, "down")
	if m.cursor != 1 {
		t.Errorf("cursor = %d after moving past the end, want 1", m.cursor)
	}
}

func TestModel_SpaceTogglesSelection(t *testing.T) {
	p := newFakePlayer()
	m := loaded(t, p, "a", "b", "c")

	m = press(t, m, "down")
	press(t, m, " ")

	if p.toggled != 1 {
		t.Errorf("Toggle selection = %d, want 1", p.toggled)
	}
}

func TestModel_SpaceWithEmptyList(t *testing.T) {
	p := newFakePlayer()
	m := NewModel(context.Background(), p, Options{})

	press(t, m, " ")

	if p.toggled != -1 {
		t.Errorf("Toggle selection = %d, want -1", p.toggled)
	}
}

func TestModel_NextFollowsPlayingTrack(t *testing.T) {
	p := newFakePlayer()
	p.snap = player.Snapshot{Phase: player.Playing, Index: 2}
	m := loaded(t, p, "a", "b", "c")

	m = press(t, m, "n")

	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
}

func TestModel_SearchSelectsMatch(t *testing.T) {
	p := newFakePlayer()
	p.match, p.found = 2, true
	m := loaded(t, p, "calm", "guitar", "drum")

	m = press(t, m, "/")
	if m.state != StateSearch {
		t.Fatalf("state = %v, want StateSearch", m.state)
	}
	for _, r := range "drum" {
		m = press(t, m, string(r))
	}
	m = press(t, m, "enter")

	if m.state != StateBrowse || m.cursor != 2 {
		t.Errorf("state = %v, cursor = %d", m.state, m.cursor)
	}
	if got := p.calls[len(p.calls)-1]; got != "search drum" {
		t.Errorf("last call = %q", got)
	}
}

func TestModel_FindNextMiss(t *testing.T) {
	p := newFakePlayer()
	m := loaded(t, p, "a", "b")

	m = press(t, m, "f4")

	if m.status != "No match" || m.cursor != 0 {
		t.Errorf("status = %q, cursor = %d", m.status, m.cursor)
	}
}

func TestModel_OpenDisabledWhileScanning(t *testing.T) {
	p := newFakePlayer()
	m := NewModel(context.Background(), p, Options{MusicDir: "/music"})
	m.scanning = true

	m = press(t, m, "o")

	if m.state != StateBrowse {
		t.Errorf("state = %v, want StateBrowse", m.state)
	}
	if strings.Contains(m.getHelpText(), "open folder") {
		t.Error("help should not offer opening a folder while scanning")
	}
}

func TestModel_StartsScanningMusicDir(t *testing.T) {
	m := NewModel(context.Background(), newFakePlayer(), Options{MusicDir: "/music"})

	if !m.scanning || m.status != "Scanning /music..." {
		t.Errorf("scanning = %v, status = %q", m.scanning, m.status)
	}
}

func TestModel_OpenStartsScan(t *testing.T) {
	p := newFakePlayer()
	m := loaded(t, p, "a")
	m.opts.MusicDir = "/music"

	m = press(t, m, "o")
	m = press(t, m, "enter")

	if !m.scanning {
		t.Error("scanning should be true after a scan starts")
	}
	if got := p.calls[len(p.calls)-1]; got != "scan /music" {
		t.Errorf("last call = %q", got)
	}
}

func TestModel_ScanEventBeforeScanReply(t *testing.T) {
	p := newFakePlayer()
	m := loaded(t, p)
	m.opts.MusicDir = "/music"

	m = press(t, m, "o")
	next, cmd := m.Update(key("enter"))
	m = next.(Model)
	if !m.scanning || cmd == nil {
		t.Fatalf("scanning = %v, cmd = %v", m.scanning, cmd)
	}

	// The engine publishes the result before Scan returns to the caller.
	next, _ = m.Update(eventMsg{Event: engine.ScanEvent{Root: "/music", Names: []string{"a"}}})
	m = next.(Model)
	next, _ = m.Update(cmd())
	m = next.(Model)

	if m.scanning {
		t.Error("scanning should stay false once the result arrived")
	}
	if m.status != "1 tracks loaded" || m.statusErr {
		t.Errorf("status = %q, statusErr = %v", m.status, m.statusErr)
	}
	if !strings.Contains(m.getHelpText(), "open folder") {
		t.Error("help should offer opening a folder again")
	}
	m = press(t, m, "o")
	if m.state != StateOpen {
		t.Errorf("state = %v, want StateOpen", m.state)
	}
}

func TestModel_ScanReplyErrorStopsSpinner(t *testing.T) {
	p := newFakePlayer()
	p.scanErr = errors.New("engine stopped")
	m := NewModel(context.Background(), p, Options{MusicDir: "/music"})

	next, _ := m.Update(m.scan("/music")())
	m = next.(Model)

	if m.scanning || !m.statusErr {
		t.Errorf("scanning = %v, statusErr = %v", m.scanning, m.statusErr)
	}
}

func TestModel_ScanInProgressKeepsSpinner(t *testing.T) {
	p := newFakePlayer()
	p.scanErr = library.ErrScanInProgress
	m := NewModel(context.Background(), p, Options{MusicDir: "/music"})

	next, _ := m.Update(m.scan("/music")())
	m = next.(Model)

	if !m.scanning || !m.statusErr {
		t.Errorf("scanning = %v, statusErr = %v", m.scanning, m.statusErr)
	}
}

func TestModel_SeekErrorShown(t *testing.T) {
	m := loaded(t, newFakePlayer(), "a")

	m = press(t, m, "right")

	if !m.statusErr || !strings.Contains(m.status, player.ErrNotActive.Error()) {
		t.Errorf("status = %q", m.status)
	}
}

type stubInfo struct{}

func (stubInfo) Info(string) (audio.Info, error) {
	return audio.Info{Title: "Song", Artist: "Band"}, nil
}

func TestModel_TickReadsNowPlaying(t *testing.T) {
	var notified []audio.Info
	m := NewModel(context.Background(), newFakePlayer(), Options{
		Info:          stubInfo{},
		OnTrackChange: func(i audio.Info) { notified = append(notified, i) },
	})

	snap := player.Snapshot{Phase: player.Playing, Index: 0, Track: "song.mp3", Path: "/music/song.mp3", Elapsed: 65, Duration: 200}
	m = tick(t, m, snap)
	m = tick(t, m, snap)

	if m.nowPlaying != "Band - Song" {
		t.Errorf("nowPlaying = %q", m.nowPlaying)
	}
	if len(notified) != 1 {
		t.Errorf("notified %d times, want 1", len(notified))
	}
	if view := m.View(); !strings.Contains(view, "01:05 / 03:20") {
		t.Errorf("View() lacks the time line:\n%s", view)
	}
}

// tick delivers a tick and runs the info lookup it triggers.
func tick(t *testing.T, m Model, snap player.Snapshot) Model {
	t.Helper()
	cmd := m.handleEvent(engine.TickEvent{Snapshot: snap})
	if cmd != nil {
		next, _ := m.Update(cmd())
		m = next.(Model)
	}
	return m
}
