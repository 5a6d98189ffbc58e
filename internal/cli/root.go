// Package cli implements the musicplayer-cli commands: headless playback,
// library listing, playlist export, cover art and an interactive shell.
package cli

import (
	"runtime/debug"

	"github.com/handiism/music-player/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "musicplayer-cli",
		Short:         "Play and manage a folder of music from the command line",
		Version:       appVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "Path to config file")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		ListCmd(),
		ExportCmd(),
		PlayCmd(),
		ShellCmd(),
		CoverCmd(),
	)
	return root
}

// loadSettings reads the configuration with cmd's flags applied.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path, cmd.Flags())
}

// libraryDir returns the positional folder argument or the configured one.
func libraryDir(settings *config.Settings, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return settings.MusicDir
}

func appVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" {
		return "unknown"
	}
	return bi.Main.Version
}
