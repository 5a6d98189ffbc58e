package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/handiism/music-player/internal/audio"
	"github.com/handiism/music-player/internal/library"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func CoverCmd() *cobra.Command {
	var (
		output string
		size   int
	)

	cmd := &cobra.Command{
		Use:   "cover <track>",
		Short: "Save the embedded cover art of a track as a JPEG",
		Long: "Extract the picture embedded in the given track number of the music folder, " +
			"scale it to fit the size bound and write it as JPEG.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("track must be a positive number, got %q", args[0])
			}

			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			tracks, err := library.NewScanner(settings.Extensions, zerolog.Nop()).Scan(settings.MusicDir)
			if err != nil {
				return err
			}
			if n > len(tracks) {
				return fmt.Errorf("track %d does not exist, %s has %d", n, settings.MusicDir, len(tracks))
			}
			track := tracks[n-1]

			art, err := audio.NewMetadataReader().Artwork(track.Path)
			if err != nil {
				return err
			}
			thumb, err := audio.Thumbnail(art, size, size)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, thumb, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved cover of %s to %s\n", track.DisplayName, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "cover.jpg", "Output file")
	cmd.Flags().IntVar(&size, "size", 500, "Maximum width and height in pixels")
	return cmd
}
