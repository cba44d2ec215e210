package race

import "time"

// Clock is a monotonic time source for lap timing.
type Clock interface {
	Now() time.Duration
}

// ClockFunc adapts a plain function, e.g. one reading the window system timer.
type ClockFunc func() time.Duration

func (f ClockFunc) Now() time.Duration { return f() }

// ManualClock only moves when told to. Used by tests and replays.
type ManualClock struct {
	t time.Duration
}

func (c *ManualClock) Now() time.Duration { return c.t }

func (c *ManualClock) Advance(d time.Duration) { c.t += d }

func (c *ManualClock) Set(t time.Duration) { c.t = t }
