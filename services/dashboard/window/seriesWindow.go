package window

import (
	"fmt"
	"math"
	"time"

	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
)

// seriesWindow is a fixed-capacity multi-series buffer with FIFO eviction. Every metric sequence,
// the label sequence and the timestamp sequence always have the same length.
// It has a single writer (the ingestion worker) and is not safe for concurrent use.
type seriesWindow struct {
	schema     []string
	capacity   int
	policy     common.GapPolicy
	labels     []string
	timestamps []time.Time
	series     [][]float64
}

// CheckParameters validates the capacity and gap policy of a window
func CheckParameters(capacity int, policy common.GapPolicy) error {
	if capacity < 1 {
		return fmt.Errorf("%w: window capacity must be at least 1, got %d", common.ErrConfiguration, capacity)
	}
	if !policy.IsValid() {
		return fmt.Errorf("%w: unknown gap fill policy %q", common.ErrConfiguration, policy)
	}

	return nil
}

// CheckSchema validates an ordered set of metric ids
func CheckSchema(schema []string) error {
	if len(schema) == 0 {
		return fmt.Errorf("%w: empty metric schema", common.ErrConfiguration)
	}

	seen := make(map[string]struct{}, len(schema))
	for _, name := range schema {
		if name == "" {
			return fmt.Errorf("%w: empty metric id in schema", common.ErrConfiguration)
		}
		if _, found := seen[name]; found {
			return fmt.Errorf("%w: duplicated metric id %s in schema", common.ErrConfiguration, name)
		}
		seen[name] = struct{}{}
	}

	return nil
}

// NewSeriesWindow creates one empty sequence per metric id plus the label sequence
func NewSeriesWindow(schema []string, capacity int, policy common.GapPolicy) (*seriesWindow, error) {
	err := CheckParameters(capacity, policy)
	if err != nil {
		return nil, err
	}
	err = CheckSchema(schema)
	if err != nil {
		return nil, err
	}

	sw := &seriesWindow{
		schema:     append([]string(nil), schema...),
		capacity:   capacity,
		policy:     policy,
		labels:     make([]string, 0, capacity+1),
		timestamps: make([]time.Time, 0, capacity+1),
		series:     make([][]float64, len(schema)),
	}
	for i := range sw.series {
		sw.series[i] = make([]float64, 0, capacity+1)
	}

	return sw, nil
}

// Append adds one point to every sequence. Schema metrics absent from values receive the gap policy
// value and are returned. Keys outside the schema are ignored.
func (sw *seriesWindow) Append(timestamp time.Time, label string, values map[string]float64) []string {
	// the whole row is computed before any sequence is touched
	row := make([]float64, len(sw.schema))
	var missing []string
	for i, name := range sw.schema {
		value, found := values[name]
		if found {
			row[i] = value
			continue
		}

		missing = append(missing, name)
		row[i] = sw.gapValue(i)
	}

	sw.labels = append(sw.labels, label)
	sw.timestamps = append(sw.timestamps, timestamp)
	for i := range sw.series {
		sw.series[i] = append(sw.series[i], row[i])
	}

	return missing
}

func (sw *seriesWindow) gapValue(index int) float64 {
	switch sw.policy {
	case common.GapBreak:
		return math.NaN()
	case common.GapHold:
		values := sw.series[index]
		if len(values) == 0 {
			return 0
		}
		return values[len(values)-1]
	default:
		return 0
	}
}

// EvictIfOverCapacity removes the oldest point of every sequence when the length exceeds the capacity.
// Returns true if a point was evicted.
func (sw *seriesWindow) EvictIfOverCapacity() bool {
	if len(sw.labels) <= sw.capacity {
		return false
	}

	sw.labels[0] = ""
	sw.labels = sw.labels[1:]
	sw.timestamps = sw.timestamps[1:]
	for i := range sw.series {
		sw.series[i] = sw.series[i][1:]
	}

	return true
}

// Snapshot returns a deep copy of the current labels and series
func (sw *seriesWindow) Snapshot() common.WindowSnapshot {
	snapshot := common.WindowSnapshot{
		Capacity:   sw.capacity,
		Labels:     append(make([]string, 0, len(sw.labels)), sw.labels...),
		Timestamps: append(make([]time.Time, 0, len(sw.timestamps)), sw.timestamps...),
		Series:     make([]common.SeriesData, len(sw.schema)),
	}
	for i, name := range sw.schema {
		snapshot.Series[i] = common.SeriesData{
			Name:   name,
			Values: append(make([]float64, 0, len(sw.series[i])), sw.series[i]...),
		}
	}

	return snapshot
}

// Len returns the current number of points
func (sw *seriesWindow) Len() int {
	return len(sw.labels)
}

// Capacity returns the maximum number of points
func (sw *seriesWindow) Capacity() int {
	return sw.capacity
}

// Schema returns a copy of the tracked metric ids
func (sw *seriesWindow) Schema() []string {
	return append([]string(nil), sw.schema...)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (sw *seriesWindow) IsInterfaceNil() bool {
	return sw == nil
}
