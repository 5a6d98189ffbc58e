package audio

import "time"

// playClock measures time played since start, excluding pauses.
type playClock struct {
	now func() time.Time

	started     time.Time
	pausedAt    time.Time
	pausedTotal time.Duration
	running     bool
	paused      bool
}

func newPlayClock(now func() time.Time) *playClock {
	if now == nil {
		now = time.Now
	}
	return &playClock{now: now}
}

func (c *playClock) start() {
	c.started = c.now()
	c.pausedTotal = 0
	c.running = true
	c.paused = false
}

func (c *playClock) pause() {
	if !c.running || c.paused {
		return
	}
	c.pausedAt = c.now()
	c.paused = true
}

func (c *playClock) resume() {
	if !c.running || !c.paused {
		return
	}
	c.pausedTotal += c.now().Sub(c.pausedAt)
	c.paused = false
}

func (c *playClock) stop() {
	c.running = false
	c.paused = false
}

func (c *playClock) elapsed() time.Duration {
	if !c.running {
		return 0
	}
	end := c.now()
	if c.paused {
		end = c.pausedAt
	}
	return end.Sub(c.started) - c.pausedTotal
}
