package core

import "time"

// Clock provides "now" as an injected capability so that every
// time-relative computation is deterministic under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// NewClock returns the real UTC wall clock.
func NewClock() Clock { return realClock{} }

// FixedClock always reports the same instant.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }

// NewFixedClock freezes time at t (converted to UTC).
func NewFixedClock(t time.Time) FixedClock { return FixedClock{Instant: t.UTC()} }
