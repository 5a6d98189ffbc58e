package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/handiism/music-player/internal/audio"
	"github.com/handiism/music-player/internal/library"
	"github.com/handiism/music-player/internal/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// DurationReader looks up track lengths for the listing.
type DurationReader interface {
	Duration(path string) (float64, error)
}

func ListCmd() *cobra.Command {
	var noDurations bool

	cmd := &cobra.Command{
		Use:     "list [folder]",
		Aliases: []string{"ls"},
		Short:   "List the audio files of a folder in playback order",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			tracks, err := library.NewScanner(settings.Extensions, zerolog.Nop()).Scan(libraryDir(settings, args))
			if err != nil {
				return err
			}

			var durations DurationReader
			if !noDurations {
				durations = audio.NewMetadataReader()
			}
			RenderTracks(cmd.OutOrStdout(), tracks, durations)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noDurations, "no-durations", false, "Skip reading track lengths")
	return cmd
}

// RenderTracks writes tracks as a table. durations may be nil, which
// leaves the length column out.
func RenderTracks(w io.Writer, tracks []model.Track, durations DurationReader) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	if width := terminalWidth(w); width > 0 {
		t.SetAllowedRowLength(width)
	}

	header := table.Row{"#", "Track"}
	if durations != nil {
		header = append(header, "Length")
	}
	t.AppendHeader(header)

	var total float64
	for i, track := range tracks {
		row := table.Row{i + 1, track.DisplayName}
		if durations != nil {
			seconds, err := durations.Duration(track.Path)
			if err != nil {
				row = append(row, "--:--")
			} else {
				row = append(row, formatTime(seconds))
				total += seconds
			}
		}
		t.AppendRow(row)
	}

	footer := table.Row{"", fmt.Sprintf("%d tracks", len(tracks))}
	if durations != nil {
		footer = append(footer, formatTime(total))
	}
	t.AppendFooter(footer)
	t.Render()
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// formatTime renders seconds as mm:ss.
func formatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(seconds)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
