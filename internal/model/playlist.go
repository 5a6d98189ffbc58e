package model

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// ErrIndexOutOfRange is returned when an index does not address an entry of
// the playlist. It usually means the UI selection is stale.
var ErrIndexOutOfRange = errors.New("index out of range")

// Playlist is the ordered queue of playable tracks.
//
// Insertion order is the order produced by the library scan (case-insensitive
// by display name). Duplicates are allowed and treated as distinct entries.
// The whole sequence is swapped by Replace; there are no incremental
// add/remove/reorder operations.
//
// Example:
//
//	pl := NewPlaylist()
//	pl.Replace([]Track{
//	    NewTrack("/music/a.mp3", "a.mp3"),
//	    NewTrack("/music/b.mp3", "b.mp3"),
//	})
//	fmt.Println(pl.Len())          // 2
//	fmt.Println(pl.DisplayNames()) // [a.mp3 b.mp3]
type Playlist struct {
	tracks []Track
}

// NewPlaylist creates an empty Playlist.
func NewPlaylist() *Playlist {
	return &Playlist{}
}

// Replace atomically swaps the entire sequence.
//
// The slice is copied, so the caller may keep using its own slice. Handling
// of the current index is left to the caller.
func (p *Playlist) Replace(tracks []Track) {
	p.tracks = append([]Track(nil), tracks...)
}

// Get returns the track at index i.
//
// Returns ErrIndexOutOfRange (wrapped with the index) if i < 0 or i >= Len().
func (p *Playlist) Get(i int) (Track, error) {
	if i < 0 || i >= len(p.tracks) {
		return Track{}, fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, i, len(p.tracks))
	}
	return p.tracks[i], nil
}

// Len returns the number of entries.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// Contains reports whether i addresses an entry.
func (p *Playlist) Contains(i int) bool {
	return i >= 0 && i < len(p.tracks)
}

// DisplayNames returns the display names in playlist order.
func (p *Playlist) DisplayNames() []string {
	return lo.Map(p.tracks, func(t Track, _ int) string {
		return t.DisplayName
	})
}

// Tracks returns a copy of all entries in playlist order.
func (p *Playlist) Tracks() []Track {
	return append([]Track(nil), p.tracks...)
}
