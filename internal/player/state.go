package player

import (
	"errors"
	"fmt"
)

// Phase is the playback phase of the coordinator.
type Phase int

const (
	// Stopped is the initial phase. Nothing is loaded or the last track was
	// stopped.
	Stopped Phase = iota

	// Playing means the backend is producing audio.
	Playing

	// Paused means a track is loaded and held at its position.
	Paused
)

// String returns the phase name for status lines and logs.
func (p Phase) String() string {
	switch p {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Direction selects the neighbour track for Advance.
type Direction int

const (
	// Next moves forward, wrapping from the last track to the first.
	Next Direction = iota

	// Previous moves backward, wrapping from the first track to the last.
	Previous
)

func (d Direction) delta() int {
	if d == Previous {
		return -1
	}
	return 1
}

// DefaultEndOfTrackEpsilon is how close to the known duration the position
// must get before the track counts as finished. Backend timing is not exact
// enough to wait for equality.
const DefaultEndOfTrackEpsilon = 0.5

// ErrNotActive is returned by operations that need a loaded track while the
// coordinator is stopped.
var ErrNotActive = errors.New("no track is playing")

// PlaybackError reports a backend failure to load or play a track.
// The coordinator is Stopped after it.
type PlaybackError struct {
	Path string
	Err  error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("play %s: %v", e.Path, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}

// Snapshot is a read-only view of the playback state for display.
type Snapshot struct {
	// Phase is the current playback phase.
	Phase Phase

	// Index is the current playlist index, -1 when none.
	Index int

	// Track is the display name of the current track, empty when none.
	Track string

	// Path is the file path of the current track, empty when none.
	Path string

	// Elapsed is the absolute position in seconds. Zero when stopped.
	Elapsed float64

	// Duration is the current track's duration in seconds, 0 when unknown.
	Duration float64

	// Tracks is the playlist length.
	Tracks int
}

// Progress returns Elapsed/Duration clamped to [0, 1], or 0 when the
// duration is unknown.
func (s Snapshot) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := s.Elapsed / s.Duration
	return max(0, min(1, p))
}
