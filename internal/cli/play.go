package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/handiism/music-player/internal/app"
	"github.com/handiism/music-player/internal/audio"
	"github.com/handiism/music-player/internal/engine"
	"github.com/handiism/music-player/internal/logger"
	"github.com/handiism/music-player/internal/player"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func PlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play [track]",
		Short: "Play the music folder without a UI",
		Long: "Scan the music folder and play it from the given track number (default 1), " +
			"moving on to the next track at the end of each. Stop with Ctrl+C.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := 1
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("track must be a positive number, got %q", args[0])
				}
				start = n
			}

			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			log, closer, err := logger.New(logger.Options{
				Level:   settings.LogLevel,
				File:    settings.LogFile,
				Console: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			defer closer.Close()

			a, err := app.New(settings, nil, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return RunPlay(ctx, a, start-1, cmd.OutOrStdout())
		},
	}
}

// RunPlay scans the music folder, plays from index and reports every track
// change to out until ctx is cancelled.
func RunPlay(ctx context.Context, a *app.App, index int, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	a.Start(gctx, g)
	g.Go(func() error {
		defer cancel()
		if err := a.Engine.Scan(gctx, a.Settings.MusicDir); err != nil {
			return err
		}
		return follow(gctx, a, index, out)
	})
	return g.Wait()
}

func follow(ctx context.Context, a *app.App, index int, out io.Writer) error {
	lastPath := ""
	announce := func(snap player.Snapshot) {
		if snap.Path == "" || snap.Path == lastPath {
			return
		}
		lastPath = snap.Path

		info, err := a.Metadata.Info(snap.Path)
		if err != nil {
			info = audio.Info{Title: snap.Track}
		}
		fmt.Fprintf(out, "[%d/%d] %s", snap.Index+1, snap.Tracks, snap.Track)
		if snap.Duration > 0 {
			fmt.Fprintf(out, " (%s)", formatTime(snap.Duration))
		}
		fmt.Fprintln(out)
		a.Notifier.NowPlaying(info)
	}

	events := a.Engine.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case engine.ScanEvent:
				if ev.Err != nil {
					return ev.Err
				}
				if len(ev.Names) == 0 {
					return fmt.Errorf("no audio files in %s", ev.Root)
				}
				if index >= len(ev.Names) {
					return fmt.Errorf("track %d does not exist, %s has %d", index+1, ev.Root, len(ev.Names))
				}
				if err := a.Engine.Play(ctx, index); err != nil {
					return err
				}
			case engine.AdvanceEvent:
				if ev.Err != nil {
					return ev.Err
				}
				announce(ev.Snapshot)
			case engine.TickEvent:
				announce(ev.Snapshot)
			}
		}
	}
}
