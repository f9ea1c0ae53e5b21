package api

import "github.com/iulianpascalau/live-dashboard/services/dashboard/common"

// ChartProvider defines the render boundary output served over HTTP
type ChartProvider interface {
	// Frame returns the last redrawn window snapshot and false if nothing was redrawn yet
	Frame() (common.WindowSnapshot, bool)

	// PNG returns the last rendered chart image, nil if there is nothing to draw
	PNG() []byte

	// SVG renders the last frame as SVG, nil if there is nothing to draw
	SVG() ([]byte, error)

	// HoverAt returns the point closest to the provided horizontal pixel of the chart image
	HoverAt(pixelX int) (common.HoverValue, bool)

	IsInterfaceNil() bool
}

// ReadoutProvider defines the readout boundary output served over HTTP
type ReadoutProvider interface {
	Regions() []common.ReadoutRegion
	IsInterfaceNil() bool
}

// StatusProvider defines the source of the session status
type StatusProvider interface {
	Status() common.SessionStatus
	IsInterfaceNil() bool
}
