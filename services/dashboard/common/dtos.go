package common

import (
	"encoding/json"
	"math"
	"time"
)

// Snapshot is one decoded telemetry message, stamped with the client arrival time
type Snapshot struct {
	ReceivedAt time.Time
	Fields     []string
	Values     map[string]float64
	Raw        map[string]string
}

// SeriesData holds the ordered values recorded for one metric
type SeriesData struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// MarshalJSON encodes gap values (NaN) as null since JSON has no NaN literal
func (sd SeriesData) MarshalJSON() ([]byte, error) {
	values := make([]*float64, len(sd.Values))
	for i := range sd.Values {
		if math.IsNaN(sd.Values[i]) {
			continue
		}
		v := sd.Values[i]
		values[i] = &v
	}

	return json.Marshal(struct {
		Name   string     `json:"name"`
		Values []*float64 `json:"values"`
	}{
		Name:   sd.Name,
		Values: values,
	})
}

// WindowSnapshot is an immutable read of the series window. All sequences have the same length.
type WindowSnapshot struct {
	Capacity   int          `json:"capacity"`
	Labels     []string     `json:"labels"`
	Timestamps []time.Time  `json:"timestamps"`
	Series     []SeriesData `json:"series"`
}

// Len returns the number of points held by every sequence
func (ws WindowSnapshot) Len() int {
	return len(ws.Labels)
}

// Metrics returns the metric ids in schema order
func (ws WindowSnapshot) Metrics() []string {
	names := make([]string, 0, len(ws.Series))
	for _, sd := range ws.Series {
		names = append(names, sd.Name)
	}

	return names
}

// Values returns the sequence recorded for the provided metric id
func (ws WindowSnapshot) Values(name string) ([]float64, bool) {
	for _, sd := range ws.Series {
		if sd.Name == name {
			return sd.Values, true
		}
	}

	return nil, false
}

// ReadoutRegion is a named single-value display showing the latest raw text of one metric
type ReadoutRegion struct {
	Name      string `json:"name"`
	Text      string `json:"text"`
	UpdatedAt int64  `json:"updatedAt"`
}

// SeriesPoint is one metric value under the hover cursor. A nil Value marks a gap.
type SeriesPoint struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

// HoverValue describes the window point closest to a cursor position on the chart
type HoverValue struct {
	Index  int           `json:"index"`
	Label  string        `json:"label"`
	Points []SeriesPoint `json:"points"`
}

// SessionStatus is the externally observable state of a dashboard session
type SessionStatus struct {
	Name         string   `json:"name"`
	Ingestion    string   `json:"ingestion"`
	Channel      string   `json:"channel"`
	Metrics      []string `json:"metrics"`
	WindowLength int      `json:"windowLength"`
	Capacity     int      `json:"capacity"`
	Processed    uint64   `json:"processed"`
	LastApplied  int64    `json:"lastApplied"`
}
