package testsCommon

import (
	"sync"
	"time"
)

// ClockStub is a manually driven clock
type ClockStub struct {
	mut     sync.Mutex
	current time.Time
}

// NewClockStub creates a clock stopped at the provided time
func NewClockStub(start time.Time) *ClockStub {
	return &ClockStub{
		current: start,
	}
}

// Now -
func (stub *ClockStub) Now() time.Time {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	return stub.current
}

// Advance moves the clock forward
func (stub *ClockStub) Advance(duration time.Duration) {
	stub.mut.Lock()
	stub.current = stub.current.Add(duration)
	stub.mut.Unlock()
}
