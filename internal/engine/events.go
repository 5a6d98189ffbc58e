package engine

import "github.com/handiism/music-player/internal/player"

// Event is a notification published by the control loop.
type Event interface {
	event()
}

// TickEvent carries the playback state at a poll tick.
type TickEvent struct {
	Snapshot player.Snapshot
}

// ScanEvent reports a finished library scan. On success Names lists the
// new playlist in order and Err is nil; on failure the playlist is unchanged.
type ScanEvent struct {
	Root  string
	Names []string
	Err   error
}

// AdvanceEvent reports an automatic move to the next track at end of track.
// Err is set when the next track could not be played.
type AdvanceEvent struct {
	Snapshot player.Snapshot
	Err      error
}

func (TickEvent) event()    {}
func (ScanEvent) event()    {}
func (AdvanceEvent) event() {}
