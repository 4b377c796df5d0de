package clock

import "errors"

var (
	// ErrNotStarted is returned when reading a clock that was never started.
	ErrNotStarted = errors.New("clock: not started")
	// ErrNotStopped is returned when reading a clock that is still running.
	ErrNotStopped = errors.New("clock: not stopped")
)
