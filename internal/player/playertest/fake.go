// Package playertest provides in-memory collaborators for testing code that
// drives a player.Coordinator.
package playertest

import (
	"fmt"
	"sync"
)

// Backend is a scriptable player.Backend.
//
// Elapsed time does not advance on its own; tests move it with SetElapsed.
// Every PlayFrom resets elapsed to zero, like a real backend.
type Backend struct {
	mu sync.Mutex

	// LoadErr and PlayErr, keyed by path, make Load or PlayFrom fail.
	LoadErr map[string]error
	PlayErr map[string]error

	Loaded  string
	Offsets []float64
	Paused  bool
	Stopped bool
	Calls   []string

	elapsed float64
	ended   bool
}

// NewBackend creates an idle Backend.
func NewBackend() *Backend {
	return &Backend{
		LoadErr: make(map[string]error),
		PlayErr: make(map[string]error),
		Stopped: true,
	}
}

func (b *Backend) Load(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = append(b.Calls, "load "+path)
	if err := b.LoadErr[path]; err != nil {
		return err
	}
	b.Loaded = path
	b.ended = false
	return nil
}

func (b *Backend) PlayFrom(offset float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = append(b.Calls, fmt.Sprintf("play %.1f", offset))
	if err := b.PlayErr[b.Loaded]; err != nil {
		return err
	}
	b.Offsets = append(b.Offsets, offset)
	b.elapsed = 0
	b.Paused = false
	b.Stopped = false
	return nil
}

func (b *Backend) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = append(b.Calls, "pause")
	b.Paused = true
}

func (b *Backend) Resume() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = append(b.Calls, "resume")
	b.Paused = false
}

func (b *Backend) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = append(b.Calls, "stop")
	b.Stopped = true
	b.elapsed = 0
}

func (b *Backend) Elapsed() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.elapsed
}

func (b *Backend) PollEndOfStream() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	ended := b.ended
	b.ended = false
	return ended
}

// SetElapsed sets the time reported since the last PlayFrom.
func (b *Backend) SetElapsed(seconds float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.elapsed = seconds
}

// EndStream raises the one-shot end-of-stream flag.
func (b *Backend) EndStream() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ended = true
}

// LastOffset returns the offset of the most recent successful PlayFrom.
func (b *Backend) LastOffset() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.Offsets) == 0 {
		return -1
	}
	return b.Offsets[len(b.Offsets)-1]
}

// IsPaused reports whether the backend is paused.
func (b *Backend) IsPaused() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Paused
}

// LoadedPath returns the most recently loaded path.
func (b *Backend) LoadedPath() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Loaded
}

// Metadata is a player.MetadataReader backed by a map.
// Paths without an entry fail with an error.
type Metadata struct {
	mu        sync.Mutex
	Durations map[string]float64
}

// NewMetadata creates a Metadata reader with the given durations.
func NewMetadata(durations map[string]float64) *Metadata {
	if durations == nil {
		durations = make(map[string]float64)
	}
	return &Metadata{Durations: durations}
}

func (m *Metadata) Duration(path string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.Durations[path]
	if !ok {
		return 0, fmt.Errorf("no metadata for %s", path)
	}
	return d, nil
}
