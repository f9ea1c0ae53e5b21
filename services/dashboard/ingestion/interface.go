package ingestion

import (
	"time"

	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
)

// SeriesWindow defines the bounded multi-series buffer owned by the controller
type SeriesWindow interface {
	Append(timestamp time.Time, label string, values map[string]float64) []string
	EvictIfOverCapacity() bool
	Snapshot() common.WindowSnapshot
	Len() int
	Capacity() int
	Schema() []string
	IsInterfaceNil() bool
}

// Renderer defines the render boundary. Redraw is synchronous, the next snapshot is processed only after it returns.
type Renderer interface {
	Redraw(snapshot common.WindowSnapshot) error
	IsInterfaceNil() bool
}

// ReadoutBoard defines the readout boundary that displays the latest raw value of each metric
type ReadoutBoard interface {
	UpdateLabels(raw map[string]string)
	IsInterfaceNil() bool
}

// Observer receives ingestion events for monitoring purposes
type Observer interface {
	SnapshotApplied(windowLength int)
	SnapshotDropped(reason string)
	SchemaGap(missing int)
	RedrawDuration(duration time.Duration)
	IsInterfaceNil() bool
}
