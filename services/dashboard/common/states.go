package common

// IngestionState is the per-session lifecycle of the ingestion controller
type IngestionState int32

const (
	// Uninitialized means no schema has been established yet
	Uninitialized IngestionState = iota
	// Active means the window exists and snapshots are appended directly
	Active
	// Terminated means the session ended, snapshots are ignored
	Terminated
)

// String returns the state name
func (s IngestionState) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Active:
		return "Active"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// ChannelState is the observable state of the telemetry push channel
type ChannelState int32

const (
	// ChannelConnecting is set while the dial is in progress
	ChannelConnecting ChannelState = iota
	// ChannelConnected is set once the handshake completed
	ChannelConnected
	// ChannelLost is set when the channel dropped or could not be established. There is no reconnect.
	ChannelLost
	// ChannelClosed is set when the session was torn down locally
	ChannelClosed
)

// String returns the state name
func (s ChannelState) String() string {
	switch s {
	case ChannelConnecting:
		return "Connecting"
	case ChannelConnected:
		return "Connected"
	case ChannelLost:
		return "ChannelLost"
	case ChannelClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}
