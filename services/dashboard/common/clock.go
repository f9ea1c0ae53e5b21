package common

import "time"

// Clock supplies arrival timestamps
type Clock interface {
	Now() time.Time
}

// RealClock returns the wall clock time
type RealClock struct{}

// Now returns time.Now()
func (RealClock) Now() time.Time { return time.Now() }
