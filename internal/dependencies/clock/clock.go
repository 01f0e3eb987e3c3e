// Package clock abstracts the time source so room and player timestamps
// are deterministic in tests.
package clock

import "time"

// Clock supplies the timestamps stamped onto rooms and players
type Clock interface {
	Now() time.Time
}

// RealClock is the system clock
type RealClock struct{}

// New creates a RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}
