// Package model defines the core data structures shared by the player
// packages.
//
// # Track
//
// Track is one playable audio file found by a library scan:
//
//	track := model.NewTrack("/music/Artist/Album/01 Intro.mp3", "Artist/Album/01 Intro.mp3")
//	fmt.Println(track.DisplayName) // shown in the UI and matched by search
//
// # Playlist
//
// Playlist is the ordered, index-addressable queue of tracks. It is replaced
// wholesale when a scan completes and is never merged with a previous scan:
//
//	pl := model.NewPlaylist()
//	pl.Replace(tracks)
//	track, err := pl.Get(3)
//	if errors.Is(err, model.ErrIndexOutOfRange) {
//	    // selection points past the end of the list
//	}
//
// Identity is positional. Two entries with the same path are distinct
// entries and are both kept.
//
// Playlist is not safe for concurrent use; it is owned by the control
// goroutine of the engine.
package model
