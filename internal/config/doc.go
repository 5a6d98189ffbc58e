// Package config provides configuration management for the music player.
//
// This package handles:
//   - Loading settings from YAML, JSON or TOML files with spf13/viper
//   - Environment overrides (MUSICPLAYER_MUSIC_DIR, MUSICPLAYER_SEEK_STEP, ...)
//   - Command-line overrides from a pflag.FlagSet
//   - Default configuration values and validation
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Scans ~/Music for mp3, wav and flac files
//	// Polls for end of track every 500ms
//	// Exports extended M3U playlists
//
// # Loading from File
//
//	settings, err := config.Load("", flags)
//	// Looks for config.{yaml,json,toml} in the user config directory.
//	// A missing file is not an error; defaults apply.
//
// # Saving Settings
//
//	settings.MusicDir = "/srv/music"
//	err := settings.Save("/path/to/config.yaml")
//
// # Configuration Options
//
// Settings includes options for:
//   - Library folder and accepted extensions
//   - Poll interval, end-of-track tolerance and seek step
//   - Log level and log file
//   - Playlist export format
package config
