package testsCommon

import "github.com/iulianpascalau/live-dashboard/services/dashboard/common"

// ControllerStub -
type ControllerStub struct {
	OnSnapshotHandler   func(raw []byte) error
	TerminateHandler    func()
	StateHandler        func() common.IngestionState
	WindowLengthHandler func() int
	SchemaHandler       func() []string
	CapacityHandler     func() int
	LastAppliedHandler  func() int64
}

// OnSnapshot -
func (stub *ControllerStub) OnSnapshot(raw []byte) error {
	if stub.OnSnapshotHandler != nil {
		return stub.OnSnapshotHandler(raw)
	}

	return nil
}

// Terminate -
func (stub *ControllerStub) Terminate() {
	if stub.TerminateHandler != nil {
		stub.TerminateHandler()
	}
}

// State -
func (stub *ControllerStub) State() common.IngestionState {
	if stub.StateHandler != nil {
		return stub.StateHandler()
	}

	return common.Uninitialized
}

// WindowLength -
func (stub *ControllerStub) WindowLength() int {
	if stub.WindowLengthHandler != nil {
		return stub.WindowLengthHandler()
	}

	return 0
}

// Schema -
func (stub *ControllerStub) Schema() []string {
	if stub.SchemaHandler != nil {
		return stub.SchemaHandler()
	}

	return nil
}

// Capacity -
func (stub *ControllerStub) Capacity() int {
	if stub.CapacityHandler != nil {
		return stub.CapacityHandler()
	}

	return 0
}

// LastApplied -
func (stub *ControllerStub) LastApplied() int64 {
	if stub.LastAppliedHandler != nil {
		return stub.LastAppliedHandler()
	}

	return 0
}

// IsInterfaceNil -
func (stub *ControllerStub) IsInterfaceNil() bool {
	return stub == nil
}
