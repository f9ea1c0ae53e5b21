package testsCommon

import "github.com/iulianpascalau/live-dashboard/services/dashboard/common"

// SinkStub -
type SinkStub struct {
	SubmitHandler          func(raw []byte) bool
	SetChannelStateHandler func(state common.ChannelState)
}

// Submit -
func (stub *SinkStub) Submit(raw []byte) bool {
	if stub.SubmitHandler != nil {
		return stub.SubmitHandler(raw)
	}

	return true
}

// SetChannelState -
func (stub *SinkStub) SetChannelState(state common.ChannelState) {
	if stub.SetChannelStateHandler != nil {
		stub.SetChannelStateHandler(state)
	}
}

// IsInterfaceNil -
func (stub *SinkStub) IsInterfaceNil() bool {
	return stub == nil
}
