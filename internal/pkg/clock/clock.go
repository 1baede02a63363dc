package clock

import "time"

// Clock abstracts the current time so validity windows and timestamps can be tested.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// NewRealClock returns a Clock backed by time.Now in UTC.
func NewRealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a Clock that always returns the same instant.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time {
	return f.T
}

// Add moves the fixed clock forward by d.
func (f *Fixed) Add(d time.Duration) {
	f.T = f.T.Add(d)
}
