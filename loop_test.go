package kite

import (
	"testing"
	"time"
)

func TestLoopAdvance(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		gap     time.Duration
		want    float64
		clamped bool
	}{
		{"one frame at 60Hz", time.Second / 60, (time.Second / 60).Seconds(), false},
		{"exactly max", 50 * time.Millisecond, 0.05, false},
		{"backgrounded two seconds", 2 * time.Second, 0.05, true},
		{"clock did not advance", 0, minDelta, false},
		{"clock went backwards", -time.Second, minDelta, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoop(MaxDelta)
			l.Advance(base)
			got := l.Advance(base.Add(tt.gap))
			if !approxEqual(got, tt.want, 1e-12) {
				t.Errorf("Advance = %v, want %v", got, tt.want)
			}
			if l.Clamped() != tt.clamped {
				t.Errorf("Clamped = %v, want %v", l.Clamped(), tt.clamped)
			}
		})
	}
}

func TestLoopClampIsExact(t *testing.T) {
	base := time.Now()
	l := NewLoop(0)
	l.Advance(base)
	if got := l.Advance(base.Add(2 * time.Second)); got != 0.05 {
		t.Errorf("Advance after 2s gap = %v, want exactly 0.05", got)
	}
}

func TestLoopFirstTick(t *testing.T) {
	l := NewLoop(0.1)
	if got := l.Advance(time.Now()); got != 0.1 {
		t.Errorf("first Advance = %v, want MaxDelta 0.1", got)
	}
	l.Reset()
	if got := l.Advance(time.Now()); got != 0.1 {
		t.Errorf("Advance after Reset = %v, want MaxDelta 0.1", got)
	}
}

func TestLoopDeltaAlwaysPositive(t *testing.T) {
	base := time.Now()
	l := NewLoop(MaxDelta)
	gaps := []time.Duration{0, time.Millisecond, -5 * time.Millisecond, time.Hour, 16 * time.Millisecond}
	now := base
	for _, g := range gaps {
		now = now.Add(g)
		dt := l.Advance(now)
		if dt <= 0 || dt > MaxDelta {
			t.Errorf("gap %v: dt = %v, want in (0, %v]", g, dt, MaxDelta)
		}
	}
}
