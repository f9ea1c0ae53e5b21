package testsCommon

import (
	"time"

	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
)

// ObserverStub -
type ObserverStub struct {
	SnapshotAppliedHandler     func(windowLength int)
	SnapshotDroppedHandler     func(reason string)
	SchemaGapHandler           func(missing int)
	RedrawDurationHandler      func(duration time.Duration)
	ChannelStateChangedHandler func(state common.ChannelState)
}

// SnapshotApplied -
func (stub *ObserverStub) SnapshotApplied(windowLength int) {
	if stub.SnapshotAppliedHandler != nil {
		stub.SnapshotAppliedHandler(windowLength)
	}
}

// SnapshotDropped -
func (stub *ObserverStub) SnapshotDropped(reason string) {
	if stub.SnapshotDroppedHandler != nil {
		stub.SnapshotDroppedHandler(reason)
	}
}

// SchemaGap -
func (stub *ObserverStub) SchemaGap(missing int) {
	if stub.SchemaGapHandler != nil {
		stub.SchemaGapHandler(missing)
	}
}

// RedrawDuration -
func (stub *ObserverStub) RedrawDuration(duration time.Duration) {
	if stub.RedrawDurationHandler != nil {
		stub.RedrawDurationHandler(duration)
	}
}

// ChannelStateChanged -
func (stub *ObserverStub) ChannelStateChanged(state common.ChannelState) {
	if stub.ChannelStateChangedHandler != nil {
		stub.ChannelStateChangedHandler(state)
	}
}

// IsInterfaceNil -
func (stub *ObserverStub) IsInterfaceNil() bool {
	return stub == nil
}
