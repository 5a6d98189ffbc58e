package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/handiism/music-player/internal/app"
	"github.com/handiism/music-player/internal/config"
	"github.com/handiism/music-player/internal/engine"
	"github.com/handiism/music-player/internal/logger"
	"github.com/handiism/music-player/internal/model"
	"github.com/handiism/music-player/internal/player"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Player is the part of the engine the shell drives.
type Player interface {
	Toggle(ctx context.Context, selection int) error
	Play(ctx context.Context, index int) error
	Seek(ctx context.Context, seconds float64) error
	SeekBy(ctx context.Context, delta float64) error
	Stop(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	Search(ctx context.Context, query string) (int, bool, error)
	FindNext(ctx context.Context) (int, bool, error)
	Scan(ctx context.Context, root string) error
	Snapshot(ctx context.Context) (player.Snapshot, error)
	Tracks(ctx context.Context) ([]model.Track, error)
}

// Exporter writes a playlist file.
type Exporter interface {
	Export(dir string, tracks []model.Track) (string, error)
}

var errQuit = errors.New("quit")

const shellHelp = `Commands:
  ls                 list tracks
  play [n]           play track n, or toggle play/pause
  pause              toggle play/pause
  stop               stop playback
  next, prev         move to the neighbouring track
  seek <pos>         jump to seconds or mm:ss; +s and -s seek relative
  search <text>      find the first track containing text
  find               find the next match of the last search
  status             show what is playing
  scan [folder]      load a folder
  export             write a playlist into the loaded folder
  quit               leave the shell`

func ShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Control the player from an interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			// The prompt owns the terminal, so logs only go to the file.
			logPath, err := app.LogFile(settings)
			if err != nil {
				return err
			}
			log, closer, err := logger.New(logger.Options{Level: settings.LogLevel, File: logPath})
			if err != nil {
				return err
			}
			defer closer.Close()

			a, err := app.New(settings, nil, log)
			if err != nil {
				return err
			}

			rlConfig := &readline.Config{
				Prompt:          "♪ ",
				InterruptPrompt: "^C",
				EOFPrompt:       "quit",
				AutoComplete:    completer(),
			}
			if dir, err := config.Dir(); err == nil {
				rlConfig.HistoryFile = filepath.Join(dir, "history")
			}
			rl, err := readline.NewEx(rlConfig)
			if err != nil {
				return err
			}
			defer rl.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			g, gctx := errgroup.WithContext(ctx)
			a.Start(gctx, g)

			sh := NewShell(a.Engine, a.Exporter, settings.SeekStep, rl.Stdout())
			g.Go(func() error {
				for ev := range a.Engine.Events() {
					sh.HandleEvent(ev)
				}
				return nil
			})
			g.Go(func() error {
				defer cancel()
				if err := a.Engine.Scan(gctx, settings.MusicDir); err != nil {
					fmt.Fprintf(rl.Stdout(), "Error: %v\n", err)
				}
				for {
					line, err := rl.Readline()
					if errors.Is(err, readline.ErrInterrupt) {
						continue
					}
					if err != nil {
						return nil
					}
					if err := sh.Exec(gctx, line); err != nil {
						if errors.Is(err, errQuit) {
							return nil
						}
						fmt.Fprintf(rl.Stdout(), "Error: %v\n", err)
					}
				}
			})
			return g.Wait()
		},
	}
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("ls"),
		readline.PcItem("play"),
		readline.PcItem("pause"),
		readline.PcItem("stop"),
		readline.PcItem("next"),
		readline.PcItem("prev"),
		readline.PcItem("seek"),
		readline.PcItem("search"),
		readline.PcItem("find"),
		readline.PcItem("status"),
		readline.PcItem("scan"),
		readline.PcItem("export"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// Shell interprets prompt lines against a Player. Track numbers are
// 1-based, matching the list output.
type Shell struct {
	player   Player
	exporter Exporter
	seekStep float64
	out      io.Writer

	mu   sync.Mutex
	root string
}

// NewShell creates a Shell writing its output to out.
func NewShell(p Player, exporter Exporter, seekStep float64, out io.Writer) *Shell {
	return &Shell{player: p, exporter: exporter, seekStep: seekStep, out: out}
}

// HandleEvent prints scan results and track changes.
func (s *Shell) HandleEvent(ev engine.Event) {
	switch ev := ev.(type) {
	case engine.ScanEvent:
		if ev.Err != nil {
			fmt.Fprintf(s.out, "Scan failed: %v\n", ev.Err)
			return
		}
		s.mu.Lock()
		s.root = ev.Root
		s.mu.Unlock()
		fmt.Fprintf(s.out, "%d tracks loaded from %s\n", len(ev.Names), ev.Root)
	case engine.AdvanceEvent:
		if ev.Err != nil {
			fmt.Fprintf(s.out, "Playback stopped: %v\n", ev.Err)
			return
		}
		fmt.Fprintf(s.out, "Now playing %d. %s\n", ev.Snapshot.Index+1, ev.Snapshot.Track)
	}
}

// Exec runs one prompt line. It returns errQuit when the user leaves.
func (s *Shell) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch name {
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
		return nil
	case "quit", "exit", "q":
		return errQuit
	case "ls", "list":
		return s.list(ctx)
	case "play", "p":
		if arg == "" {
			return s.player.Toggle(ctx, -1)
		}
		n, err := s.trackNumber(arg)
		if err != nil {
			return err
		}
		return s.player.Play(ctx, n)
	case "pause", "toggle":
		return s.player.Toggle(ctx, -1)
	case "stop":
		return s.player.Stop(ctx)
	case "next", "n":
		return s.player.Next(ctx)
	case "prev", "previous":
		return s.player.Previous(ctx)
	case "seek":
		return s.seek(ctx, arg)
	case "fwd", "ff":
		return s.player.SeekBy(ctx, s.seekStep)
	case "back", "rew":
		return s.player.SeekBy(ctx, -s.seekStep)
	case "search", "/":
		if arg == "" {
			return errors.New("search needs text")
		}
		index, found, err := s.player.Search(ctx, arg)
		return s.report(ctx, index, found, err)
	case "find":
		index, found, err := s.player.FindNext(ctx)
		return s.report(ctx, index, found, err)
	case "status":
		return s.status(ctx)
	case "scan", "open":
		root := arg
		if root == "" {
			s.mu.Lock()
			root = s.root
			s.mu.Unlock()
		}
		if root == "" {
			return errors.New("scan needs a folder")
		}
		return s.player.Scan(ctx, root)
	case "export":
		return s.export(ctx)
	}
	return fmt.Errorf("unknown command %q, try help", name)
}

func (s *Shell) trackNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("track must be a positive number, got %q", arg)
	}
	return n - 1, nil
}

func (s *Shell) list(ctx context.Context) error {
	tracks, err := s.player.Tracks(ctx)
	if err != nil {
		return err
	}
	snap, err := s.player.Snapshot(ctx)
	if err != nil {
		return err
	}
	for i, t := range tracks {
		marker := " "
		if i == snap.Index && snap.Phase != player.Stopped {
			marker = ">"
		}
		fmt.Fprintf(s.out, "%s %3d. %s\n", marker, i+1, t.DisplayName)
	}
	return nil
}

func (s *Shell) seek(ctx context.Context, arg string) error {
	if arg == "" {
		return errors.New("seek needs a position")
	}
	if arg[0] == '+' || arg[0] == '-' {
		delta, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid offset %q", arg)
		}
		return s.player.SeekBy(ctx, delta)
	}
	seconds, err := parsePosition(arg)
	if err != nil {
		return err
	}
	return s.player.Seek(ctx, seconds)
}

// parsePosition accepts seconds ("95", "95.5") or minutes and seconds
// ("1:35").
func parsePosition(s string) (float64, error) {
	minutes, seconds, found := strings.Cut(s, ":")
	if !found {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid position %q", s)
		}
		return v, nil
	}

	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("invalid position %q", s)
	}
	sec, err := strconv.ParseFloat(seconds, 64)
	if err != nil || sec < 0 || sec >= 60 {
		return 0, fmt.Errorf("invalid position %q", s)
	}
	return float64(m)*60 + sec, nil
}

func (s *Shell) report(ctx context.Context, index int, found bool, err error) error {
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintln(s.out, "No match")
		return nil
	}
	tracks, err := s.player.Tracks(ctx)
	if err != nil || index >= len(tracks) {
		fmt.Fprintf(s.out, "Match: %d\n", index+1)
		return err
	}
	fmt.Fprintf(s.out, "Match: %d. %s\n", index+1, tracks[index].DisplayName)
	return nil
}

func (s *Shell) status(ctx context.Context) error {
	snap, err := s.player.Snapshot(ctx)
	if err != nil {
		return err
	}
	if snap.Index < 0 || snap.Phase == player.Stopped {
		fmt.Fprintf(s.out, "Stopped, %d tracks\n", snap.Tracks)
		return nil
	}

	length := "--:--"
	if snap.Duration > 0 {
		length = formatTime(snap.Duration)
	}
	fmt.Fprintf(s.out, "%s %d/%d %s %s / %s\n",
		snap.Phase,
		snap.Index+1, snap.Tracks, snap.Track, formatTime(snap.Elapsed), length)
	return nil
}

func (s *Shell) export(ctx context.Context) error {
	s.mu.Lock()
	root := s.root
	s.mu.Unlock()
	if root == "" {
		return errors.New("no folder loaded")
	}

	tracks, err := s.player.Tracks(ctx)
	if err != nil {
		return err
	}
	path, err := s.exporter.Export(root, tracks)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Playlist saved to %s\n", path)
	return nil
}
