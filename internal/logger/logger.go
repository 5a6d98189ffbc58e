// Package logger builds the zerolog logger shared by every component.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Options selects the log level and outputs. With neither File nor Console
// set the returned logger discards everything.
type Options struct {
	// Level is a zerolog level name ("debug", "info", ...). Empty means info.
	Level string

	// File receives JSON lines, appended. Parent directories are created.
	File string

	// Console receives human-readable lines, colored when it is a terminal.
	Console io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger from opts. Every entry carries a per-process
// "session" id, so runs appending to the same file can be told apart.
// The returned Closer closes the log file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}

	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
	)

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return zerolog.Nop(), nopCloser{}, err
		}
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opts.Console,
			TimeFormat: time.TimeOnly,
			NoColor:    !isTerminal(opts.Console),
		})
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("session", uuid.NewString()).
		Logger()
	return log, closer, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
