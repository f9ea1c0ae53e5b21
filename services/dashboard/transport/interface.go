package transport

import "github.com/iulianpascalau/live-dashboard/services/dashboard/common"

// Sink receives the raw messages and the channel state transitions of the push channel
type Sink interface {
	// Submit enqueues one raw message. Returns false when no more messages are accepted.
	Submit(raw []byte) bool
	SetChannelState(state common.ChannelState)
	IsInterfaceNil() bool
}
