// Package notify announces track changes as desktop notifications.
package notify

import (
	"github.com/gen2brain/beeep"
	"github.com/handiism/music-player/internal/audio"
	"github.com/rs/zerolog"
)

// Notifier sends a "now playing" notification. A disabled Notifier does
// nothing, so callers need not check the setting.
type Notifier struct {
	enabled bool
	send    func(title, message string) error
	log     zerolog.Logger
}

// New creates a Notifier backed by the desktop notification service.
func New(enabled bool, log zerolog.Logger) *Notifier {
	return &Notifier{
		enabled: enabled,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		log: log.With().Str("component", "notify").Logger(),
	}
}

// NowPlaying announces info. Delivery failures are logged, never returned:
// a missing notification daemon must not disturb playback.
func (n *Notifier) NowPlaying(info audio.Info) {
	if n == nil || !n.enabled {
		return
	}

	message := info.Title
	if info.Artist != "" {
		message = info.Artist + " - " + info.Title
	}
	if info.Album != "" {
		message += "\n" + info.Album
	}

	if err := n.send("Now playing", message); err != nil {
		n.log.Debug().Err(err).Msg("Notification failed")
	}
}
