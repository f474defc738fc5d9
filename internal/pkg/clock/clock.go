package clock

import "time"

// Clock supplies the current instant. Attendance and overtime decisions all
// depend on "now" in the shop's local timezone, so services take a Clock
// instead of calling time.Now directly.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// System returns a Clock backed by time.Now in UTC.
func System() Clock {
	return systemClock{}
}

// Fixed is a settable clock for tests.
type Fixed struct {
	current time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{current: t.UTC()}
}

func (f *Fixed) Now() time.Time {
	return f.current
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.current = t.UTC()
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.current = f.current.Add(d)
}
