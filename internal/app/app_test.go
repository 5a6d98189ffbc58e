package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/handiism/music-player/internal/config"
	"github.com/handiism/music-player/internal/engine"
	"github.com/handiism/music-player/internal/player"
	"github.com/handiism/music-player/internal/player/playertest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	s := config.DefaultSettings()
	s.MusicDir = t.TempDir()
	s.PollInterval = 10 * time.Millisecond
	return s
}

func TestNew_RejectsUnknownPlaylistFormat(t *testing.T) {
	s := testSettings(t)
	s.PlaylistFormat = "wpl"

	_, err := New(s, playertest.NewBackend(), zerolog.Nop())
	require.Error(t, err)
}

func TestStart_WatcherRescansLibrary(t *testing.T) {
	s := testSettings(t)
	s.Watch = true

	a, err := New(s, playertest.NewBackend(), zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	a.Start(gctx, g)
	t.Cleanup(func() {
		cancel()
		_ = g.Wait()
	})

	// Let the watcher register the root before the file appears.
	_, err = a.Engine.Snapshot(ctx)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(s.MusicDir, "a.mp3"), nil, 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-a.Engine.Events():
			if scan, ok := ev.(engine.ScanEvent); ok {
				require.NoError(t, scan.Err)
				assert.Equal(t, []string{"a.mp3"}, scan.Names)
				return
			}
		case <-deadline:
			t.Fatal("no rescan after the library changed")
		}
	}
}

// waitScan returns the next ScanEvent from a's engine.
func waitScan(t *testing.T, a *App) engine.ScanEvent {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-a.Engine.Events():
			if scan, ok := ev.(engine.ScanEvent); ok {
				require.NoError(t, scan.Err)
				return scan
			}
		case <-deadline:
			t.Fatal("no scan result")
		}
	}
}

func TestStart_WatchedChangeStopsPlayback(t *testing.T) {
	s := testSettings(t)
	s.Watch = true
	require.NoError(t, os.WriteFile(filepath.Join(s.MusicDir, "a.mp3"), nil, 0o644))

	a, err := New(s, playertest.NewBackend(), zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	a.Start(gctx, g)
	t.Cleanup(func() {
		cancel()
		_ = g.Wait()
	})

	require.NoError(t, a.Engine.Scan(ctx, s.MusicDir))
	waitScan(t, a)
	require.NoError(t, a.Engine.Play(ctx, 0))
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(s.MusicDir, "b.mp3"), nil, 0o644))
	scan := waitScan(t, a)
	assert.Equal(t, []string{"a.mp3", "b.mp3"}, scan.Names)

	snap, err := a.Engine.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, player.Stopped, snap.Phase)
	assert.Equal(t, 0, snap.Index)
}

func TestStart_WithoutWatchRunsEngineOnly(t *testing.T) {
	a, err := New(testSettings(t), playertest.NewBackend(), zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	a.Start(gctx, g)

	_, err = a.Engine.Snapshot(ctx)
	require.NoError(t, err)

	cancel()
	require.NoError(t, g.Wait())

	_, err = a.Engine.Snapshot(context.Background())
	assert.ErrorIs(t, err, engine.ErrClosed)
}

func TestLogFile(t *testing.T) {
	s := config.DefaultSettings()
	s.LogFile = "/tmp/player.log"

	path, err := LogFile(s)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/player.log", path)

	s.LogFile = ""
	path, err = LogFile(s)
	if err != nil {
		t.Skipf("no user config directory: %v", err)
	}
	assert.Equal(t, config.AppName+".log", filepath.Base(path))
}
