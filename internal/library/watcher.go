package library

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period Watch waits for before reporting.
const DefaultDebounce = time.Second

// Watch observes root and its subdirectories and calls onChange once the
// tree has been quiet for debounce after a relevant change. Relevant changes
// are creations, removals, renames and writes of files with an accepted
// extension, and anything happening to directories.
//
// Watch blocks until ctx is cancelled. onChange runs on the watching
// goroutine; it is expected to start a scan, not to perform one.
func (s *Scanner) Watch(ctx context.Context, root string, debounce time.Duration, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	addTree := func(dir string) error {
		return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dir {
					return err
				}
				return nil
			}
			if d.IsDir() {
				if err := watcher.Add(path); err != nil {
					s.log.Debug().Err(err).Str("path", path).Msg("Cannot watch directory")
				}
			}
			return nil
		})
	}
	if err := addTree(root); err != nil {
		return &ScanError{Root: root, Err: err}
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	s.log.Info().Str("root", root).Dur("debounce", debounce).Msg("Watching library")
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}

			isDir := false
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					isDir = true
					if err := addTree(event.Name); err != nil {
						s.log.Debug().Err(err).Str("path", event.Name).Msg("Cannot watch new directory")
					}
				}
			}
			if !isDir && !s.keep(event.Name) && filepath.Ext(event.Name) != "" {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn().Err(err).Msg("Watch error")

		case <-timer.C:
			s.log.Debug().Str("root", root).Msg("Library changed")
			onChange()
		}
	}
}
