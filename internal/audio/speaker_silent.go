//go:build !((linux && cgo) || windows || darwin)

package audio

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// AudioAvailable indicates whether audio output is supported in this build.
// Audio output requires cgo on Linux; this build keeps time without sound.
const AudioAvailable = false

var errNotLoaded = errors.New("no track loaded")

// Speaker is a silent backend driven by the wall clock.
//
// It honours the same contract as the audible one: elapsed advances in real
// time, pausing freezes it and end-of-stream fires once the decoded length
// has been played.
type Speaker struct {
	mu  sync.Mutex
	log zerolog.Logger

	clock  *playClock
	length time.Duration
	offset time.Duration
	loaded bool
	ended  bool
}

// NewSpeaker creates a silent Speaker.
func NewSpeaker(log zerolog.Logger) *Speaker {
	log = log.With().Str("component", "speaker").Logger()
	log.Warn().Msg("Audio output unavailable in this build, playing silently")
	return &Speaker{log: log, clock: newPlayClock(nil)}
}

// Load decodes path to learn its length.
func (s *Speaker) Load(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock.stop()
	s.loaded = false

	streamer, format, err := decode(path)
	if err != nil {
		return err
	}
	defer streamer.Close()

	s.length = format.SampleRate.D(streamer.Len())
	s.loaded = true
	return nil
}

// PlayFrom starts the clock at offset seconds.
func (s *Speaker) PlayFrom(offset float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return errNotLoaded
	}
	s.offset = min(time.Duration(offset*float64(time.Second)), s.length)
	s.ended = false
	s.clock.start()
	return nil
}

func (s *Speaker) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.pause()
}

func (s *Speaker) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.resume()
}

func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.stop()
	s.loaded = false
}

// Elapsed returns seconds played since the last PlayFrom, capped at the
// remaining length.
func (s *Speaker) Elapsed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return min(s.clock.elapsed(), s.length-s.offset).Seconds()
}

// PollEndOfStream reports, once, that the remaining length has elapsed.
func (s *Speaker) PollEndOfStream() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended || !s.clock.running || s.clock.paused {
		return false
	}
	if s.clock.elapsed() >= s.length-s.offset {
		s.ended = true
		return true
	}
	return false
}
