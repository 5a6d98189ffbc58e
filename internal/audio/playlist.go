package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/music-player/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
//
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	// INI-style format with file, title, and length info.
	FormatPLS
)

// ParsePlaylistFormat maps a configuration value ("m3u", "pls") to a
// PlaylistFormat. Unknown values return an error.
func ParsePlaylistFormat(s string) (PlaylistFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m3u":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	default:
		return FormatM3U, fmt.Errorf("unknown playlist format %q", s)
	}
}

// Extension returns the file extension for the format, with the dot.
func (f PlaylistFormat) Extension() string {
	if f == FormatPLS {
		return ".pls"
	}
	return ".m3u"
}

// TrackInfoReader supplies per-track details for extended playlist entries.
// *MetadataReader implements it.
type TrackInfoReader interface {
	Duration(path string) (float64, error)
	Info(path string) (Info, error)
}

// PlaylistCreator generates playlist files for the loaded library.
//
// Entries are written with the track's display name, which is relative to
// the scanned folder, so the playlist belongs in that folder.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true, NewMetadataReader())
//	path, err := creator.Export("/music", tracks)
//
//	// /music/playlist.m3u:
//	// #EXTM3U
//	// #EXTINF:180,Artist - Song Title
//	// Album/01 Song Title.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with duration/title
	info     TrackInfoReader
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// Parameters:
//   - format: The playlist format to generate
//   - extended: For M3U format, whether to include #EXTINF lines
//     (ignored for other formats)
//   - info: Source of durations and tags; nil writes unknown lengths (-1)
//     and file-name titles
func NewPlaylistCreator(format PlaylistFormat, extended bool, info TrackInfoReader) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
		info:     info,
	}
}

// Format returns the format the creator writes.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// CreatePlaylist generates playlist content for tracks, in order.
func (p *PlaylistCreator) CreatePlaylist(tracks []model.Track) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(tracks)
	default:
		return p.createM3U(tracks)
	}
}

// Export writes the playlist for tracks to dir/playlist.<ext> and returns
// the file path.
func (p *PlaylistCreator) Export(dir string, tracks []model.Track) (string, error) {
	path := filepath.Join(dir, "playlist"+p.format.Extension())
	if err := os.WriteFile(path, []byte(p.CreatePlaylist(tracks)), 0o644); err != nil {
		return "", fmt.Errorf("write playlist: %w", err)
	}
	return path, nil
}

// createM3U generates an M3U playlist.
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:180,Artist - Title
//	Album/filename1.mp3
func (p *PlaylistCreator) createM3U(tracks []model.Track) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, track := range tracks {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:%d,%s\n", p.length(track), p.label(track))
		}
		sb.WriteString(entryPath(track) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=filename1.mp3
//	Title1=Song Title
//	Length1=180
//	NumberOfEntries=2
//	Version=2
func (p *PlaylistCreator) createPLS(tracks []model.Track) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, track := range tracks {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, entryPath(track))
		fmt.Fprintf(&sb, "Title%d=%s\n", idx, p.label(track))
		fmt.Fprintf(&sb, "Length%d=%d\n", idx, p.length(track))
	}

	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(tracks))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// length returns the whole seconds of track, -1 when unknown.
func (p *PlaylistCreator) length(track model.Track) int {
	if p.info == nil {
		return -1
	}
	seconds, err := p.info.Duration(track.Path)
	if err != nil || seconds <= 0 {
		return -1
	}
	return int(seconds)
}

// label returns "Artist - Title" when tags carry an artist, else the title.
func (p *PlaylistCreator) label(track model.Track) string {
	if p.info == nil {
		return track.Title()
	}
	info, _ := p.info.Info(track.Path)
	if info.Title == "" {
		info.Title = track.Title()
	}
	if info.Artist == "" {
		return info.Title
	}
	return info.Artist + " - " + info.Title
}

// entryPath uses forward slashes, which every player accepts.
func entryPath(track model.Track) string {
	return filepath.ToSlash(track.DisplayName)
}
