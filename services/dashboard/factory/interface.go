package factory

import (
	"context"
	"time"

	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
)

// Server defines the operation of an entity able to serve requests
type Server interface {
	Start()
	Address() string
	Close() error
}

// Stream defines the telemetry push channel reader
type Stream interface {
	Start(ctx context.Context) error
	Close() error
	IsInterfaceNil() bool
}

// Session defines the dashboard session serializing the received messages
type Session interface {
	Start()
	Submit(raw []byte) bool
	SetChannelState(state common.ChannelState)
	ChannelState() common.ChannelState
	Stale(after time.Duration) bool
	Status() common.SessionStatus
	Close() error
	IsInterfaceNil() bool
}
