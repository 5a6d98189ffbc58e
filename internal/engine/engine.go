package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/handiism/music-player/internal/library"
	"github.com/handiism/music-player/internal/model"
	"github.com/handiism/music-player/internal/player"
	"github.com/handiism/music-player/internal/search"
	"github.com/rs/zerolog"
)

// DefaultPollInterval is how often end of track is checked and a snapshot
// published.
const DefaultPollInterval = 500 * time.Millisecond

const defaultEventBuffer = 32

// ErrClosed is returned by commands once Run has returned.
var ErrClosed = errors.New("engine closed")

var errRunning = errors.New("engine already running")

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	// PollInterval is the tick period. Default DefaultPollInterval.
	PollInterval time.Duration

	// EventBuffer is the capacity of the Events channel.
	EventBuffer int
}

type command struct {
	run  func()
	done chan struct{}
}

// Engine is the control loop of the player. See the package documentation.
type Engine struct {
	coord   *player.Coordinator
	scanner *library.Scanner
	nav     *search.Navigator
	log     zerolog.Logger
	poll    time.Duration

	cmds    chan command
	events  chan Event
	closed  chan struct{}
	running atomic.Bool
}

// New creates an Engine around coord and scanner. Neither may be used
// directly by the caller once Run has started.
func New(coord *player.Coordinator, scanner *library.Scanner, opts Options, log zerolog.Logger) *Engine {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = defaultEventBuffer
	}
	return &Engine{
		coord:   coord,
		scanner: scanner,
		nav:     search.NewNavigator(coord.Playlist()),
		log:     log.With().Str("component", "engine").Logger(),
		poll:    opts.PollInterval,
		cmds:    make(chan command),
		events:  make(chan Event, opts.EventBuffer),
		closed:  make(chan struct{}),
	}
}

// Events returns the notification stream. It is closed when Run returns.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Run executes the control loop until ctx is cancelled. Playback is stopped
// on the way out. Run may be called only once.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return errRunning
	}
	defer close(e.closed)
	defer close(e.events)
	defer e.coord.Stop()

	ticker := time.NewTicker(e.poll)
	defer ticker.Stop()

	e.log.Info().Dur("poll_interval", e.poll).Msg("Control loop started")
	for {
		select {
		case <-ctx.Done():
			e.log.Info().Msg("Control loop stopped")
			return nil
		case cmd := <-e.cmds:
			cmd.run()
			close(cmd.done)
		case res := <-e.scanner.Results():
			e.install(res)
		case <-ticker.C:
			e.tick()
		}
	}
}

func (e *Engine) tick() {
	advanced, err := e.coord.Reconcile()
	if err != nil {
		e.log.Error().Err(err).Msg("Auto-advance failed")
	}
	snap := e.coord.Snapshot()
	if advanced {
		e.publish(AdvanceEvent{Snapshot: snap, Err: err})
	}
	e.publish(TickEvent{Snapshot: snap})
}

// install hands a finished scan to the coordinator.
func (e *Engine) install(res library.Result) {
	if res.Err != nil {
		e.log.Error().Err(res.Err).Str("root", res.Root).Msg("Scan failed")
		e.publish(ScanEvent{Root: res.Root, Err: res.Err})
		return
	}

	e.coord.ReplacePlaylist(res.Tracks)
	e.log.Info().Str("root", res.Root).Int("tracks", len(res.Tracks)).Msg("Library loaded")
	e.publish(ScanEvent{Root: res.Root, Names: e.coord.Playlist().DisplayNames()})
}

// publish never blocks. Ticks are dropped silently when the subscriber
// lags; other events are dropped with a warning.
func (e *Engine) publish(ev Event) {
	select {
	case e.events <- ev:
	default:
		if _, ok := ev.(TickEvent); !ok {
			e.log.Warn().Type("event", ev).Msg("Event dropped, subscriber is not reading")
		}
	}
}

// exec runs fn on the control goroutine and waits for it to finish.
// If ctx ends after the command was accepted, fn still runs, so on error
// callers must not read what fn writes.
func (e *Engine) exec(ctx context.Context, fn func()) error {
	cmd := command{run: fn, done: make(chan struct{})}
	select {
	case e.cmds <- cmd:
	case <-e.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-cmd.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// do runs a fallible operation on the control goroutine.
func (e *Engine) do(ctx context.Context, name string, op func() error) error {
	var opErr error
	if err := e.exec(ctx, func() { opErr = op() }); err != nil {
		return err
	}
	if opErr != nil {
		e.log.Warn().Err(opErr).Str("command", name).Msg("Command failed")
	}
	return opErr
}

// Play plays the track at index from the start.
func (e *Engine) Play(ctx context.Context, index int) error {
	return e.do(ctx, "play", func() error { return e.coord.PlayTrack(index) })
}

// Toggle pauses, resumes, or starts playback. selection is the index
// highlighted in the UI, -1 for none.
func (e *Engine) Toggle(ctx context.Context, selection int) error {
	return e.do(ctx, "toggle", func() error { return e.coord.PlaySelectedOrResume(selection) })
}

// Seek moves the playhead to seconds.
func (e *Engine) Seek(ctx context.Context, seconds float64) error {
	return e.do(ctx, "seek", func() error { return e.coord.Seek(seconds) })
}

// SeekBy moves the playhead by delta seconds relative to the position.
func (e *Engine) SeekBy(ctx context.Context, delta float64) error {
	return e.do(ctx, "seek", func() error { return e.coord.Seek(e.coord.Position() + delta) })
}

// Stop stops playback.
func (e *Engine) Stop(ctx context.Context) error {
	return e.do(ctx, "stop", func() error {
		e.coord.Stop()
		return nil
	})
}

// Next plays the following track, wrapping to the first.
func (e *Engine) Next(ctx context.Context) error {
	return e.do(ctx, "next", func() error { return e.coord.Advance(player.Next) })
}

// Previous plays the preceding track, wrapping to the last.
func (e *Engine) Previous(ctx context.Context) error {
	return e.do(ctx, "previous", func() error { return e.coord.Advance(player.Previous) })
}

// Search starts a new case-insensitive search and returns the first match.
func (e *Engine) Search(ctx context.Context, query string) (int, bool, error) {
	var (
		idx int
		ok  bool
	)
	if err := e.exec(ctx, func() { idx, ok = e.nav.Start(query) }); err != nil {
		return -1, false, err
	}
	return idx, ok, nil
}

// FindNext returns the next match of the last query, cycling.
func (e *Engine) FindNext(ctx context.Context) (int, bool, error) {
	var (
		idx int
		ok  bool
	)
	if err := e.exec(ctx, func() { idx, ok = e.nav.FindNext() }); err != nil {
		return -1, false, err
	}
	return idx, ok, nil
}

// Scan starts a background scan of root. The result arrives as a ScanEvent.
// Returns library.ErrScanInProgress while another scan is running.
func (e *Engine) Scan(ctx context.Context, root string) error {
	return e.do(ctx, "scan", func() error { return e.scanner.Start(root) })
}

// Snapshot returns the current playback state.
func (e *Engine) Snapshot(ctx context.Context) (player.Snapshot, error) {
	var snap player.Snapshot
	if err := e.exec(ctx, func() { snap = e.coord.Snapshot() }); err != nil {
		return player.Snapshot{}, err
	}
	return snap, nil
}

// Tracks returns a copy of the playlist.
func (e *Engine) Tracks(ctx context.Context) ([]model.Track, error) {
	var tracks []model.Track
	if err := e.exec(ctx, func() { tracks = e.coord.Playlist().Tracks() }); err != nil {
		return nil, err
	}
	return tracks, nil
}
