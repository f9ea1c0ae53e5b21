package testsCommon

import "github.com/iulianpascalau/live-dashboard/services/dashboard/common"

// ChartProviderStub -
type ChartProviderStub struct {
	FrameHandler   func() (common.WindowSnapshot, bool)
	PNGHandler     func() []byte
	SVGHandler     func() ([]byte, error)
	HoverAtHandler func(pixelX int) (common.HoverValue, bool)
}

// Frame -
func (stub *ChartProviderStub) Frame() (common.WindowSnapshot, bool) {
	if stub.FrameHandler != nil {
		return stub.FrameHandler()
	}

	return common.WindowSnapshot{}, false
}

// PNG -
func (stub *ChartProviderStub) PNG() []byte {
	if stub.PNGHandler != nil {
		return stub.PNGHandler()
	}

	return nil
}

// SVG -
func (stub *ChartProviderStub) SVG() ([]byte, error) {
	if stub.SVGHandler != nil {
		return stub.SVGHandler()
	}

	return nil, nil
}

// HoverAt -
func (stub *ChartProviderStub) HoverAt(pixelX int) (common.HoverValue, bool) {
	if stub.HoverAtHandler != nil {
		return stub.HoverAtHandler(pixelX)
	}

	return common.HoverValue{}, false
}

// IsInterfaceNil -
func (stub *ChartProviderStub) IsInterfaceNil() bool {
	return stub == nil
}
