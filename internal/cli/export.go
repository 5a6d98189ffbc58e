package cli

import (
	"fmt"

	"github.com/handiism/music-player/internal/audio"
	"github.com/handiism/music-player/internal/library"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func ExportCmd() *cobra.Command {
	var stdout bool

	cmd := &cobra.Command{
		Use:   "export [folder]",
		Short: "Write a playlist of a folder's audio files into that folder",
		Long: "Scan the folder and write playlist.m3u or playlist.pls next to the music. " +
			"Entries are relative to the folder, in playback order.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			format, err := audio.ParsePlaylistFormat(settings.PlaylistFormat)
			if err != nil {
				return err
			}

			dir := libraryDir(settings, args)
			tracks, err := library.NewScanner(settings.Extensions, zerolog.Nop()).Scan(dir)
			if err != nil {
				return err
			}

			creator := audio.NewPlaylistCreator(format, settings.M3UExtended, audio.NewMetadataReader())
			if stdout {
				_, err := fmt.Fprint(cmd.OutOrStdout(), creator.CreatePlaylist(tracks))
				return err
			}

			path, err := creator.Export(dir, tracks)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d tracks to %s\n", len(tracks), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the playlist instead of writing it")
	return cmd
}
