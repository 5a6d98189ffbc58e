//go:build (linux && cgo) || windows || darwin

package audio

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"
)

// AudioAvailable indicates whether audio output is supported in this build.
const AudioAvailable = true

// outputSampleRate is the fixed speaker rate; every stream is resampled to it.
const outputSampleRate = beep.SampleRate(44100)

var errNotLoaded = errors.New("no track loaded")

// Speaker plays one stream at a time through the system audio device.
//
// All methods except PollEndOfStream are meant to be called from a single
// goroutine. The speaker's own goroutine only raises the end-of-stream flag.
type Speaker struct {
	mu  sync.Mutex
	log zerolog.Logger

	initialized bool
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	startPos    int

	// session identifies the stream started by the latest PlayFrom.
	// Callbacks from older streams compare unequal and are ignored.
	session atomic.Uint64
	ended   atomic.Bool
}

// NewSpeaker creates a Speaker. The audio device is opened on first use.
func NewSpeaker(log zerolog.Logger) *Speaker {
	return &Speaker{log: log.With().Str("component", "speaker").Logger()}
}

func (s *Speaker) initLocked() error {
	if s.initialized {
		return nil
	}
	if err := speaker.Init(outputSampleRate, outputSampleRate.N(time.Second/10)); err != nil {
		return err
	}
	s.initialized = true
	s.log.Debug().Int("sample_rate", int(outputSampleRate)).Msg("Speaker initialized")
	return nil
}

// Load decodes path and makes it the current stream. Any playing stream is
// stopped first.
func (s *Speaker) Load(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	if err := s.initLocked(); err != nil {
		return err
	}

	streamer, format, err := decode(path)
	if err != nil {
		return err
	}
	s.streamer = streamer
	s.format = format
	return nil
}

// PlayFrom starts the loaded stream at offset seconds.
func (s *Speaker) PlayFrom(offset float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer == nil {
		return errNotLoaded
	}

	id := s.session.Add(1)
	s.ended.Store(false)
	speaker.Clear()

	pos := s.format.SampleRate.N(time.Duration(offset * float64(time.Second)))
	if n := s.streamer.Len(); n > 0 && pos > n {
		pos = n
	}

	speaker.Lock()
	err := s.streamer.Seek(pos)
	speaker.Unlock()
	if err != nil {
		return err
	}

	s.startPos = pos
	s.ctrl = &beep.Ctrl{Streamer: beep.Resample(4, s.format.SampleRate, outputSampleRate, s.streamer)}
	speaker.Play(beep.Seq(s.ctrl, beep.Callback(func() {
		if s.session.Load() == id {
			s.ended.Store(true)
		}
	})))
	return nil
}

func (s *Speaker) Pause() {
	s.setPaused(true)
}

func (s *Speaker) Resume() {
	s.setPaused(false)
}

func (s *Speaker) setPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl == nil {
		return
	}
	speaker.Lock()
	s.ctrl.Paused = paused
	speaker.Unlock()
}

// Stop halts playback and releases the stream.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Speaker) stopLocked() {
	s.session.Add(1)
	if s.initialized {
		speaker.Clear()
	}
	if s.streamer != nil {
		if err := s.streamer.Close(); err != nil {
			s.log.Debug().Err(err).Msg("Close stream")
		}
		s.streamer = nil
	}
	s.ctrl = nil
	s.startPos = 0
}

// Elapsed returns seconds of stream played since the last PlayFrom.
func (s *Speaker) Elapsed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer == nil || s.ctrl == nil {
		return 0
	}
	speaker.Lock()
	pos := s.streamer.Position()
	speaker.Unlock()

	return s.format.SampleRate.D(max(0, pos-s.startPos)).Seconds()
}

// PollEndOfStream reports, once, that the current stream has finished.
func (s *Speaker) PollEndOfStream() bool {
	return s.ended.Swap(false)
}
