package testsCommon

import "github.com/iulianpascalau/live-dashboard/services/dashboard/common"

// ReadoutBoardStub -
type ReadoutBoardStub struct {
	UpdateLabelsHandler func(raw map[string]string)
	RegionsHandler      func() []common.ReadoutRegion
}

// UpdateLabels -
func (stub *ReadoutBoardStub) UpdateLabels(raw map[string]string) {
	if stub.UpdateLabelsHandler != nil {
		stub.UpdateLabelsHandler(raw)
	}
}

// Regions -
func (stub *ReadoutBoardStub) Regions() []common.ReadoutRegion {
	if stub.RegionsHandler != nil {
		return stub.RegionsHandler()
	}

	return make([]common.ReadoutRegion, 0)
}

// IsInterfaceNil -
func (stub *ReadoutBoardStub) IsInterfaceNil() bool {
	return stub == nil
}
