package testsCommon

import (
	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
)

// RendererStub -
type RendererStub struct {
	RedrawHandler func(snapshot common.WindowSnapshot) error
}

// Redraw -
func (stub *RendererStub) Redraw(snapshot common.WindowSnapshot) error {
	if stub.RedrawHandler != nil {
		return stub.RedrawHandler(snapshot)
	}

	return nil
}

// IsInterfaceNil -
func (stub *RendererStub) IsInterfaceNil() bool {
	return stub == nil
}
