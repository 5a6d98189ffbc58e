// Package app assembles the player from its settings. Both commands share
// this wiring and differ only in the front end they put on the engine.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/handiism/music-player/internal/audio"
	"github.com/handiism/music-player/internal/config"
	"github.com/handiism/music-player/internal/engine"
	"github.com/handiism/music-player/internal/library"
	"github.com/handiism/music-player/internal/notify"
	"github.com/handiism/music-player/internal/player"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// App holds the wired components of one player instance.
type App struct {
	Settings *config.Settings
	Engine   *engine.Engine
	Scanner  *library.Scanner
	Metadata *audio.MetadataReader
	Exporter *audio.PlaylistCreator
	Notifier *notify.Notifier

	log zerolog.Logger
}

// New wires an App from settings. backend may be nil to use the speaker.
func New(settings *config.Settings, backend player.Backend, log zerolog.Logger) (*App, error) {
	format, err := audio.ParsePlaylistFormat(settings.PlaylistFormat)
	if err != nil {
		return nil, err
	}

	if backend == nil {
		backend = audio.NewSpeaker(log)
	}

	metadata := audio.NewMetadataReader()
	coord := player.NewCoordinator(backend, metadata, nil, log)
	coord.SetEndOfTrackEpsilon(settings.EndOfTrackEpsilon)

	scanner := library.NewScanner(settings.Extensions, log)

	return &App{
		Settings: settings,
		Engine:   engine.New(coord, scanner, engine.Options{PollInterval: settings.PollInterval}, log),
		Scanner:  scanner,
		Metadata: metadata,
		Exporter: audio.NewPlaylistCreator(format, settings.M3UExtended, metadata),
		Notifier: notify.New(settings.Notify, log),
		log:      log,
	}, nil
}

// Start runs the engine on g and, when enabled, the library watcher.
// A watched change rescans the folder, and the new playlist stops whatever
// is playing. Both stop when ctx is cancelled.
func (a *App) Start(ctx context.Context, g *errgroup.Group) {
	g.Go(func() error {
		return a.Engine.Run(ctx)
	})

	if !a.Settings.Watch {
		return
	}
	root := a.Settings.MusicDir
	g.Go(func() error {
		err := a.Scanner.Watch(ctx, root, library.DefaultDebounce, func() {
			if err := a.Engine.Scan(ctx, root); err != nil && !errors.Is(err, library.ErrScanInProgress) {
				a.log.Warn().Err(err).Str("root", root).Msg("Rescan failed")
			}
		})
		if err != nil {
			// Playback works without the watcher.
			a.log.Error().Err(err).Str("root", root).Msg("Library watcher stopped")
		}
		return nil
	})
}

// LogFile returns the log path from settings, defaulting to a file in the
// configuration directory.
func LogFile(settings *config.Settings) (string, error) {
	if settings.LogFile != "" {
		return settings.LogFile, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", fmt.Errorf("locate log directory: %w", err)
	}
	return filepath.Join(dir, config.AppName+".log"), nil
}
