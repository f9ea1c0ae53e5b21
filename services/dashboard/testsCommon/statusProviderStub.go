package testsCommon

import "github.com/iulianpascalau/live-dashboard/services/dashboard/common"

// StatusProviderStub -
type StatusProviderStub struct {
	StatusHandler func() common.SessionStatus
}

// Status -
func (stub *StatusProviderStub) Status() common.SessionStatus {
	if stub.StatusHandler != nil {
		return stub.StatusHandler()
	}

	return common.SessionStatus{}
}

// IsInterfaceNil -
func (stub *StatusProviderStub) IsInterfaceNil() bool {
	return stub == nil
}
