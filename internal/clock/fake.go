package clock

import "time"

// FakeClock is a Clock pinned to an instant that moves only when a test tells
// it to. All times are normalized to UTC, matching what the system clock
// hands out.
type FakeClock struct {
	now time.Time
}

// NewFakeClock pins the clock at t.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time { return c.now }

// Advance moves the pinned instant forward by d. A negative d moves it back,
// which is useful for backdated records.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// SetNow repins the clock at t, ignoring the instant it held before.
func (c *FakeClock) SetNow(t time.Time) {
	c.now = t.UTC()
}
