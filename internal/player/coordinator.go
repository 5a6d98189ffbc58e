package player

import (
	"github.com/handiism/music-player/internal/model"
	"github.com/rs/zerolog"
)

// Backend is a stateful single-stream audio player.
//
// Elapsed reports seconds since the most recent PlayFrom call, excluding
// time spent paused. PollEndOfStream reports, once, that the stream started
// by the last PlayFrom has finished.
type Backend interface {
	Load(path string) error
	PlayFrom(offset float64) error
	Pause()
	Resume()
	Stop()
	Elapsed() float64
	PollEndOfStream() bool
}

// MetadataReader looks up the duration of an audio file in seconds.
type MetadataReader interface {
	Duration(path string) (float64, error)
}

// Coordinator is the playback state machine.
//
// It owns the playlist it is given and the backend. The invariant kept by
// every method: when the phase is not Stopped, the current index addresses
// an entry of the playlist.
type Coordinator struct {
	backend  Backend
	metadata MetadataReader
	playlist *model.Playlist
	log      zerolog.Logger

	epsilon float64

	phase    Phase
	current  int
	duration float64
	offset   float64
}

// NewCoordinator creates a stopped Coordinator with no current track.
func NewCoordinator(backend Backend, metadata MetadataReader, playlist *model.Playlist, log zerolog.Logger) *Coordinator {
	if playlist == nil {
		playlist = model.NewPlaylist()
	}
	return &Coordinator{
		backend:  backend,
		metadata: metadata,
		playlist: playlist,
		log:      log.With().Str("component", "coordinator").Logger(),
		epsilon:  DefaultEndOfTrackEpsilon,
		current:  -1,
	}
}

// SetEndOfTrackEpsilon changes the end-of-track tolerance in seconds.
// Non-positive values restore DefaultEndOfTrackEpsilon.
func (c *Coordinator) SetEndOfTrackEpsilon(seconds float64) {
	if seconds <= 0 {
		seconds = DefaultEndOfTrackEpsilon
	}
	c.epsilon = seconds
}

// Playlist returns the playlist driven by the coordinator.
func (c *Coordinator) Playlist() *model.Playlist {
	return c.playlist
}

// Phase returns the current playback phase.
func (c *Coordinator) Phase() Phase {
	return c.phase
}

// Current returns the current playlist index, -1 when none.
func (c *Coordinator) Current() int {
	return c.current
}

// PlayTrack loads the track at index and plays it from the start.
//
// Valid from any phase. Returns model.ErrIndexOutOfRange for a bad index.
// A metadata failure is logged and leaves the duration unknown (0); playback
// is still attempted. A backend failure returns *PlaybackError and leaves
// the coordinator Stopped.
func (c *Coordinator) PlayTrack(index int) error {
	track, err := c.playlist.Get(index)
	if err != nil {
		return err
	}

	duration, err := c.metadata.Duration(track.Path)
	if err != nil {
		c.log.Warn().Err(err).Str("path", track.Path).Msg("Could not read duration")
		duration = 0
	}

	// Discard an end-of-stream notice left over from the previous stream.
	c.backend.PollEndOfStream()

	if err := c.backend.Load(track.Path); err != nil {
		c.fail()
		return &PlaybackError{Path: track.Path, Err: err}
	}
	if err := c.backend.PlayFrom(0); err != nil {
		c.fail()
		return &PlaybackError{Path: track.Path, Err: err}
	}

	c.duration = duration
	c.offset = 0
	c.phase = Playing
	c.current = index

	c.log.Debug().Int("index", index).Str("track", track.DisplayName).Float64("duration", duration).Msg("Playing")
	return nil
}

// PlaySelectedOrResume implements the play/pause toggle.
//
//   - Playing: pause.
//   - Paused: resume.
//   - Stopped: play index when it is >= 0 (an explicit index or the UI
//     selection), otherwise the current track, otherwise the first track.
//
// No-op on an empty playlist.
func (c *Coordinator) PlaySelectedOrResume(index int) error {
	switch c.phase {
	case Playing:
		c.backend.Pause()
		c.phase = Paused
		return nil
	case Paused:
		c.backend.Resume()
		c.phase = Playing
		return nil
	}

	if c.playlist.Len() == 0 {
		return nil
	}

	switch {
	case index >= 0:
	case c.playlist.Contains(c.current):
		index = c.current
	default:
		index = 0
	}
	return c.PlayTrack(index)
}

// Seek moves the playhead to target seconds.
//
// Returns ErrNotActive when stopped. The target is clamped to
// [0, duration]. A paused track stays paused at the new position. The phase
// is not changed.
func (c *Coordinator) Seek(target float64) error {
	if c.phase == Stopped {
		return ErrNotActive
	}

	target = max(0, min(target, c.duration))

	if err := c.backend.PlayFrom(target); err != nil {
		track, _ := c.playlist.Get(c.current)
		c.fail()
		return &PlaybackError{Path: track.Path, Err: err}
	}
	if c.phase == Paused {
		c.backend.Pause()
	}
	c.offset = target
	return nil
}

// Stop stops playback. The current index is kept, so the next
// PlaySelectedOrResume(-1) restarts the same track from zero.
func (c *Coordinator) Stop() {
	c.backend.Stop()
	c.phase = Stopped
	c.offset = 0
}

// Advance plays the neighbouring track in direction, wrapping around both
// ends. No-op on an empty playlist.
func (c *Coordinator) Advance(direction Direction) error {
	n := c.playlist.Len()
	if n == 0 {
		return nil
	}

	var next int
	switch {
	case c.current >= 0:
		next = ((c.current+direction.delta())%n + n) % n
	case direction == Previous:
		next = n - 1
	default:
		next = 0
	}
	return c.PlayTrack(next)
}

// Reconcile is the poll-tick check for end of track.
//
// The backend end-of-stream flag is drained on every call. While Playing,
// the track counts as finished when the flag was set or the position reached
// duration-epsilon; then the coordinator advances to the next track once.
// Reports whether an advance happened.
func (c *Coordinator) Reconcile() (bool, error) {
	ended := c.backend.PollEndOfStream()
	if c.phase != Playing {
		return false, nil
	}

	if !ended && (c.duration <= 0 || c.Position() < c.duration-c.epsilon) {
		return false, nil
	}

	c.log.Info().Int("index", c.current).Bool("end_of_stream", ended).Msg("Track finished, advancing")
	return true, c.Advance(Next)
}

// Position returns the absolute playhead position in seconds: the seek
// offset plus the backend's elapsed time. Zero when stopped.
func (c *Coordinator) Position() float64 {
	if c.phase == Stopped {
		return 0
	}
	return c.offset + c.backend.Elapsed()
}

// Snapshot returns the state to display on the next UI refresh.
func (c *Coordinator) Snapshot() Snapshot {
	s := Snapshot{
		Phase:    c.phase,
		Index:    c.current,
		Elapsed:  c.Position(),
		Duration: c.duration,
		Tracks:   c.playlist.Len(),
	}
	if track, err := c.playlist.Get(c.current); err == nil {
		s.Track = track.DisplayName
		s.Path = track.Path
	}
	return s
}

// ReplacePlaylist installs the result of a library scan.
//
// Playback is stopped first, since the current index would otherwise point
// into the new list. The first track becomes current (nothing when empty).
func (c *Coordinator) ReplacePlaylist(tracks []model.Track) {
	c.Stop()
	c.playlist.Replace(tracks)
	c.duration = 0
	c.current = -1
	if c.playlist.Len() > 0 {
		c.current = 0
	}
}

func (c *Coordinator) fail() {
	c.backend.Stop()
	c.phase = Stopped
	c.offset = 0
	c.duration = 0
}
