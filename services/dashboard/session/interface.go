package session

import "github.com/iulianpascalau/live-dashboard/services/dashboard/common"

// IngestionController defines the single writer of the series window
type IngestionController interface {
	OnSnapshot(raw []byte) error
	Terminate()
	State() common.IngestionState
	WindowLength() int
	Schema() []string
	Capacity() int
	LastApplied() int64
	IsInterfaceNil() bool
}

// Observer receives push channel state transitions
type Observer interface {
	ChannelStateChanged(state common.ChannelState)
	IsInterfaceNil() bool
}
