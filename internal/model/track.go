package model

import (
	"path/filepath"
	"strings"
)

// Track represents a single audio file in the library.
//
// Track contains:
//   - Path: the absolute file path handed to the audio backend
//   - DisplayName: the path relative to the scanned root, used for
//     listing, sorting and search
//
// Tracks are immutable once created. Equality is by position in the
// Playlist, not by content.
//
// Example:
//
//	track := NewTrack("/music/Rock/song.flac", "Rock/song.flac")
//	fmt.Println(track.Extension()) // "flac"
type Track struct {
	// Path is the absolute path of the audio file.
	Path string

	// DisplayName is the path relative to the scanned root.
	// Falls back to the bare file name when no relative path exists.
	DisplayName string
}

// NewTrack creates a new Track.
//
// An empty displayName is replaced by the base name of path.
func NewTrack(path, displayName string) Track {
	if displayName == "" {
		displayName = filepath.Base(path)
	}
	return Track{
		Path:        path,
		DisplayName: displayName,
	}
}

// Extension returns the lowercase file extension without the leading dot.
//
// Returns:
//   - "mp3" for "/music/a.MP3"
//   - "" for files without an extension
func (t Track) Extension() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(t.Path)), ".")
}

// Title returns the display name without its directory and extension.
// It is the fallback title when a file carries no tags.
func (t Track) Title() string {
	base := filepath.Base(t.DisplayName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
