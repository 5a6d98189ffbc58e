package audio

import (
	"testing"
	"time"
)

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time { return f.t }

func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestPlayClock(t *testing.T) {
	now := &fakeNow{t: time.Unix(1000, 0)}
	c := newPlayClock(now.now)

	if got := c.elapsed(); got != 0 {
		t.Fatalf("elapsed before start = %v, want 0", got)
	}

	c.start()
	now.advance(3 * time.Second)
	if got := c.elapsed(); got != 3*time.Second {
		t.Errorf("elapsed = %v, want 3s", got)
	}

	c.pause()
	now.advance(10 * time.Second)
	if got := c.elapsed(); got != 3*time.Second {
		t.Errorf("elapsed while paused = %v, want 3s", got)
	}

	c.pause() // repeated pause keeps the first pause instant
	c.resume()
	now.advance(2 * time.Second)
	if got := c.elapsed(); got != 5*time.Second {
		t.Errorf("elapsed after resume = %v, want 5s", got)
	}

	c.start()
	if got := c.elapsed(); got != 0 {
		t.Errorf("elapsed after restart = %v, want 0", got)
	}

	c.stop()
	now.advance(time.Second)
	if got := c.elapsed(); got != 0 {
		t.Errorf("elapsed after stop = %v, want 0", got)
	}
}

func TestPlayClock_ResumeWithoutPause(t *testing.T) {
	now := &fakeNow{t: time.Unix(0, 0)}
	c := newPlayClock(now.now)

	c.resume()
	c.start()
	now.advance(time.Second)
	c.resume()

	if got := c.elapsed(); got != time.Second {
		t.Errorf("elapsed = %v, want 1s", got)
	}
}
