package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AppName names the configuration directory and the environment prefix.
const AppName = "musicplayer"

// EnvPrefix prefixes environment overrides, e.g. MUSICPLAYER_MUSIC_DIR.
const EnvPrefix = "MUSICPLAYER"

// Settings holds all configuration options.
type Settings struct {
	// Library settings
	MusicDir   string   `mapstructure:"music_dir"`
	Extensions []string `mapstructure:"extensions"`
	Watch      bool     `mapstructure:"watch"` // rescan when the folder changes, stopping playback

	// Playback settings
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	EndOfTrackEpsilon float64       `mapstructure:"end_of_track_epsilon"`
	SeekStep          float64       `mapstructure:"seek_step"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	// Playlist export
	PlaylistFormat string `mapstructure:"playlist_format"` // m3u, pls
	M3UExtended    bool   `mapstructure:"m3u_extended"`

	// Desktop notification on track change
	Notify bool `mapstructure:"notify"`
}

// flagKeys maps command-line flag names to setting keys.
var flagKeys = map[string]string{
	"music-dir":     "music_dir",
	"extensions":    "extensions",
	"poll-interval": "poll_interval",
	"epsilon":       "end_of_track_epsilon",
	"seek-step":     "seek_step",
	"log-level":     "log_level",
	"log-file":      "log_file",
	"format":        "playlist_format",
	"watch":         "watch",
	"notify":        "notify",
}

// RegisterFlags adds a flag for every key in flagKeys to flags. Flag
// defaults are informational; Load only applies flags that were set.
func RegisterFlags(flags *pflag.FlagSet) {
	d := DefaultSettings()
	flags.String("music-dir", d.MusicDir, "Music folder scanned on start")
	flags.StringSlice("extensions", d.Extensions, "Audio file extensions to list")
	flags.Duration("poll-interval", d.PollInterval, "End-of-track check interval")
	flags.Float64("epsilon", d.EndOfTrackEpsilon, "Seconds before the end at which a track counts as finished")
	flags.Float64("seek-step", d.SeekStep, "Seek distance in seconds")
	flags.String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-file", d.LogFile, "Log file path")
	flags.String("format", d.PlaylistFormat, "Playlist export format (m3u, pls)")
	flags.Bool("watch", d.Watch, "Rescan the music folder when it changes (stops playback)")
	flags.Bool("notify", d.Notify, "Show a desktop notification on track change")
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		MusicDir:   filepath.Join(homeDir, "Music"),
		Extensions: []string{"mp3", "wav", "flac"},

		PollInterval:      500 * time.Millisecond,
		EndOfTrackEpsilon: 0.5,
		SeekStep:          5,

		LogLevel: "info",

		PlaylistFormat: "m3u",
		M3UExtended:    true,
	}
}

// Dir returns the per-user configuration directory of the player.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultPath returns the configuration file used when none is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads settings with the precedence flags > environment > file >
// defaults.
//
// path may be empty, in which case "config" is looked up in the user config
// directory and the working directory. A missing file is not an error.
// flags may be nil; only flags set on the command line override.
func Load(path string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	setDefaults(v, DefaultSettings())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	settings.Extensions = NormalizeExtensions(settings.Extensions)
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to path. The format follows the file extension
// (.yaml, .json, .toml).
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	v := viper.New()
	setDefaults(v, s)
	return v.WriteConfigAs(path)
}

// Validate reports the first invalid setting.
func (s *Settings) Validate() error {
	switch {
	case len(s.Extensions) == 0:
		return errors.New("config: extensions must not be empty")
	case s.PollInterval <= 0:
		return fmt.Errorf("config: poll_interval must be positive, got %s", s.PollInterval)
	case s.EndOfTrackEpsilon < 0:
		return fmt.Errorf("config: end_of_track_epsilon must not be negative, got %v", s.EndOfTrackEpsilon)
	case s.SeekStep <= 0:
		return fmt.Errorf("config: seek_step must be positive, got %v", s.SeekStep)
	}

	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}

	switch strings.ToLower(s.PlaylistFormat) {
	case "m3u", "pls":
	default:
		return fmt.Errorf("config: playlist_format must be m3u or pls, got %q", s.PlaylistFormat)
	}
	return nil
}

// NormalizeExtensions lowercases extensions, strips leading dots and drops
// blanks and duplicates.
//
//	NormalizeExtensions([]string{".MP3", "flac", " ", "mp3"}) // [mp3 flac]
func NormalizeExtensions(exts []string) []string {
	cleaned := lo.Map(exts, func(ext string, _ int) string {
		return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	})
	return lo.Uniq(lo.Compact(cleaned))
}

func setDefaults(v *viper.Viper, s *Settings) {
	v.SetDefault("music_dir", s.MusicDir)
	v.SetDefault("extensions", s.Extensions)
	v.SetDefault("poll_interval", s.PollInterval.String())
	v.SetDefault("end_of_track_epsilon", s.EndOfTrackEpsilon)
	v.SetDefault("seek_step", s.SeekStep)
	v.SetDefault("log_level", s.LogLevel)
	v.SetDefault("log_file", s.LogFile)
	v.SetDefault("playlist_format", s.PlaylistFormat)
	v.SetDefault("m3u_extended", s.M3UExtended)
	v.SetDefault("watch", s.Watch)
	v.SetDefault("notify", s.Notify)
}
