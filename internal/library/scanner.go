package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/handiism/music-player/internal/model"
	"github.com/rs/zerolog"
)

// DefaultExtensions are the audio file extensions kept by a scan.
var DefaultExtensions = []string{"mp3", "wav", "flac"}

// ErrScanInProgress is returned by Start when a previous scan has not
// delivered its result yet.
var ErrScanInProgress = errors.New("scan already in progress")

// ScanError reports a scan that failed because its root is inaccessible.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one background scan.
type Result struct {
	// Root is the directory that was scanned.
	Root string

	// Tracks is the complete, sorted track list. Nil when Err is set.
	Tracks []model.Track

	// Err is a *ScanError when the root could not be read.
	Err error
}

// Scanner enumerates audio files below a root directory.
//
// Scanner is safe for concurrent use. At most one background scan runs at a
// time.
type Scanner struct {
	extensions map[string]struct{}
	busy       atomic.Bool
	results    chan Result
	log        zerolog.Logger
}

// NewScanner creates a Scanner keeping files with the given extensions.
//
// Extensions are matched case-insensitively and may be given with or without
// the leading dot. An empty list means DefaultExtensions.
func NewScanner(extensions []string, log zerolog.Logger) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		exts["."+strings.TrimPrefix(strings.ToLower(ext), ".")] = struct{}{}
	}

	return &Scanner{
		extensions: exts,
		results:    make(chan Result),
		log:        log.With().Str("component", "scanner").Logger(),
	}
}

// Results returns the hand-off channel for background scans.
//
// Exactly one Result is sent per successful Start call. The channel is
// unbuffered: the worker waits until the consumer takes the result.
func (s *Scanner) Results() <-chan Result {
	return s.results
}

// Busy reports whether a background scan is in flight.
func (s *Scanner) Busy() bool {
	return s.busy.Load()
}

// Start scans root on a worker goroutine and delivers the Result on
// Results().
//
// Returns ErrScanInProgress without starting anything if a previous scan has
// not been delivered yet. The running scan is not cancellable.
func (s *Scanner) Start(root string) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrScanInProgress
	}

	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	go func() {
		tracks, err := s.Scan(root)
		s.results <- Result{Root: root, Tracks: tracks, Err: err}
		s.busy.Store(false)
	}()

	return nil
}

// Scan walks root synchronously and returns the sorted track list.
//
// The walk is best effort: unreadable directories and files below root are
// skipped. A *ScanError is returned only when root itself cannot be read or
// is not a directory.
//
// Tracks are sorted by display name compared case-insensitively. Ties keep
// the enumeration order. A relative root is resolved against the working
// directory, so track paths are always absolute.
func (s *Scanner) Scan(root string) ([]model.Track, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &ScanError{Root: root, Err: errors.New("not a directory")}
	}

	var tracks []model.Track
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			s.log.Debug().Err(err).Str("path", path).Msg("Skipping unreadable entry")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !s.keep(path) {
			return nil
		}

		tracks = append(tracks, model.NewTrack(path, displayName(root, path)))
		return nil
	})
	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}

	slices.SortStableFunc(tracks, func(a, b model.Track) int {
		return strings.Compare(strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName))
	})

	s.log.Info().Str("root", root).Int("tracks", len(tracks)).Msg("Scan complete")
	return tracks, nil
}

func (s *Scanner) keep(path string) bool {
	_, ok := s.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// displayName returns path relative to root, or the base name when no
// relative path exists (e.g. a different volume).
func displayName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Base(path)
	}
	return rel
}
