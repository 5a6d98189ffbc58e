package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bogem/id3v2"
	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

// ErrUnsupportedFormat is returned for files whose extension has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

var errNoFrames = errors.New("no ID3v2 frames")

// MetadataError reports a failure to read a file's duration or tags.
// It is recoverable: the track can still be played.
type MetadataError struct {
	Path string
	Err  error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("metadata %s: %v", e.Path, e.Err)
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}

// Info is the descriptive metadata shown for the playing track.
type Info struct {
	Title  string
	Artist string
	Album  string
}

// MetadataReader reads durations and tags from audio files.
//
// MetadataReader is stateless and safe for concurrent use.
//
// Example:
//
//	reader := NewMetadataReader()
//	seconds, err := reader.Duration("/music/song.flac")
//	info, _ := reader.Info("/music/song.flac")
//	fmt.Printf("%s - %s (%.0fs)\n", info.Artist, info.Title, seconds)
type MetadataReader struct{}

// NewMetadataReader creates a MetadataReader.
func NewMetadataReader() *MetadataReader {
	return &MetadataReader{}
}

// Duration returns the length of the audio file in seconds.
//
// For MP3 files the ID3v2 TLEN frame is used when present, since it avoids
// scanning every frame. Otherwise the file is opened with the beep decoder
// for its extension and the length is computed from the sample count.
//
// Returns a *MetadataError on failure.
func (r *MetadataReader) Duration(path string) (float64, error) {
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		if seconds, ok := tlenSeconds(path); ok {
			return seconds, nil
		}
	}

	streamer, format, err := decode(path)
	if err != nil {
		return 0, &MetadataError{Path: path, Err: err}
	}
	defer streamer.Close()

	length := streamer.Len()
	if length <= 0 {
		return 0, &MetadataError{Path: path, Err: errors.New("unknown stream length")}
	}
	return format.SampleRate.D(length).Seconds(), nil
}

// Info returns title, artist and album tags.
//
// Tags are read with dhowden/tag (ID3, FLAC/Vorbis comments, MP4). MP3
// files it cannot parse are retried with the ID3v2 reader. A missing title
// falls back to the file name without extension, so Info never returns an
// empty Title even on error.
func (r *MetadataReader) Info(path string) (Info, error) {
	fallback := Info{Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}

	info, err := readTags(path)
	if err != nil && strings.EqualFold(filepath.Ext(path), ".mp3") {
		info, err = readID3v2(path)
	}
	if err != nil {
		return fallback, &MetadataError{Path: path, Err: err}
	}

	if info.Title == "" {
		info.Title = fallback.Title
	}
	return info, nil
}

// decode opens path with the beep decoder matching its extension.
// Closing the returned streamer closes the file.
func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return &fileStreamer{StreamSeekCloser: streamer, file: f}, format, nil
}

// fileStreamer closes the underlying file together with the decoder.
// Not every decoder closes its reader.
type fileStreamer struct {
	beep.StreamSeekCloser
	file *os.File
}

func (s *fileStreamer) Close() error {
	err := s.StreamSeekCloser.Close()
	if cerr := s.file.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) && err == nil {
		err = cerr
	}
	return err
}

// tlenSeconds reads the ID3v2 TLEN frame (length in milliseconds).
func tlenSeconds(path string) (float64, bool) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return 0, false
	}
	defer t.Close()

	ms, err := strconv.ParseInt(strings.TrimSpace(t.GetTextFrame("TLEN").Text), 10, 64)
	if err != nil || ms <= 0 {
		return 0, false
	}
	return (time.Duration(ms) * time.Millisecond).Seconds(), true
}

func readTags(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Info{}, err
	}
	return Info{Title: m.Title(), Artist: m.Artist(), Album: m.Album()}, nil
}

func readID3v2(path string) (Info, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return Info{}, err
	}
	defer t.Close()

	if !t.HasFrames() {
		return Info{}, errNoFrames
	}
	return Info{Title: t.Title(), Artist: t.Artist(), Album: t.Album()}, nil
}
