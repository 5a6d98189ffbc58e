package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/music-player/internal/app"
	"github.com/handiism/music-player/internal/config"
	"github.com/handiism/music-player/internal/logger"
	"github.com/handiism/music-player/internal/tui"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("musicplayer", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "Path to config file")
	config.RegisterFlags(flags)
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	settings, err := config.Load(*configPath, flags)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs only go to the file.
	logPath, err := app.LogFile(settings)
	if err != nil {
		return err
	}
	log, closer, err := logger.New(logger.Options{Level: settings.LogLevel, File: logPath})
	if err != nil {
		return err
	}
	defer closer.Close()

	player, err := app.New(settings, nil, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	player.Start(gctx, g)
	g.Go(func() error {
		// Quitting the UI shuts everything else down.
		defer cancel()
		return tui.Run(gctx, player.Engine, tui.Options{
			MusicDir:      settings.MusicDir,
			SeekStep:      settings.SeekStep,
			Exporter:      player.Exporter,
			Info:          player.Metadata,
			OnTrackChange: player.Notifier.NowPlaying,
		})
	})

	err = g.Wait()
	log.Info().Err(err).Msg("Exiting")
	return err
}
