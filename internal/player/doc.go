// Package player implements the playback state machine.
//
// # Coordinator
//
// Coordinator owns every piece of mutable playback state: the phase
// (Stopped, Playing, Paused), the current playlist index, the duration of the
// current track and the seek offset. All transitions are method calls:
//
//	c := player.NewCoordinator(backend, metadata, playlist, log)
//	err := c.PlayTrack(0)
//	err = c.Seek(42)
//	c.PlaySelectedOrResume(-1) // pause
//	c.PlaySelectedOrResume(-1) // resume
//	c.Stop()
//
// # Position accounting
//
// The backend only knows the time elapsed since its last PlayFrom call.
// The user-facing position is always
//
//	position = seek offset + backend elapsed
//
// and the same formula drives both the seek bar and end-of-track detection,
// so a seek never makes the position jump backwards and never causes a
// missed or false auto-advance.
//
// # End of track
//
// Reconcile is called on every poll tick. While playing it advances to the
// next track when the backend signalled end-of-stream, or when the position
// is within EndOfTrackEpsilon of the known duration. Both triggers feed one
// advance per call.
//
// Coordinator is not safe for concurrent use. It is driven from a single
// control goroutine (see package engine).
package player
