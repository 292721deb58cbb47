package kite

import "time"

// minDelta is the step used when the clock fails to advance between frames.
const minDelta = 1e-6

// Loop turns frame timestamps into clamped delta times. A large gap between
// frames (backgrounded window, debugger pause) clamps to MaxDelta, so the
// simulation pauses instead of jumping.
type Loop struct {
	// MaxDelta is the upper bound in seconds.
	MaxDelta float64

	last    time.Time
	started bool
	clamped bool
}

// NewLoop creates a loop clamped at maxDelta seconds.
func NewLoop(maxDelta float64) *Loop {
	if maxDelta <= 0 {
		maxDelta = MaxDelta
	}
	return &Loop{MaxDelta: maxDelta}
}

// Advance records now as the current frame timestamp and returns the delta
// time in seconds, always in (0, MaxDelta]. The first call returns MaxDelta.
func (l *Loop) Advance(now time.Time) float64 {
	if !l.started {
		l.started = true
		l.last = now
		l.clamped = true
		return l.MaxDelta
	}
	dt := now.Sub(l.last).Seconds()
	l.last = now
	l.clamped = false
	switch {
	case dt <= 0:
		return minDelta
	case dt > l.MaxDelta:
		l.clamped = true
		return l.MaxDelta
	}
	return dt
}

// Clamped reports whether the last Advance hit MaxDelta.
func (l *Loop) Clamped() bool {
	return l.clamped
}

// Reset forgets the previous timestamp.
func (l *Loop) Reset() {
	l.started = false
}
