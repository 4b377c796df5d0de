package clock

import (
	"time"
)

type state uint8

const (
	idle state = iota
	started
	stopped
)

// Option configures a Clock.
type Option func(*Clock)

// WithNow replaces the time source. Intended for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}

// Clock measures the wall-clock duration of a single execution.
// It is not safe for concurrent use; each execution owns its own Clock.
type Clock struct {
	now   func() time.Time
	state state
	start time.Time
	end   time.Time
}

// New returns an idle Clock.
func New(opts ...Option) *Clock {
	c := &Clock{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a measurement. Calling Start again restarts it.
func (c *Clock) Start() {
	c.start = c.now()
	c.end = time.Time{}
	c.state = started
}

// Stop ends the measurement. It is a no-op unless the clock is running.
func (c *Clock) Stop() {
	if c.state != started {
		return
	}
	c.end = c.now()
	c.state = stopped
}

// Duration returns the measured duration.
func (c *Clock) Duration() (time.Duration, error) {
	switch c.state {
	case idle:
		return 0, ErrNotStarted
	case started:
		return 0, ErrNotStopped
	}
	return c.end.Sub(c.start), nil
}

// String renders the measured duration rounded for humans, or "n/a"
// when the clock has not completed a measurement.
func (c *Clock) String() string {
	d, err := c.Duration()
	if err != nil {
		return "n/a"
	}
	return round(d).String()
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		return d.Round(time.Millisecond)
	case d > time.Millisecond:
		return d.Round(time.Microsecond)
	default:
		return d
	}
}
