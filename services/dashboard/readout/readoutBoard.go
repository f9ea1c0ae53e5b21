package readout

import (
	"errors"
	"sort"
	"sync"

	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
)

var errNilClock = errors.New("nil clock")

// readoutBoard holds one text region per tracked metric showing its latest raw value verbatim
type readoutBoard struct {
	clock    common.Clock
	trackAll bool
	mut      sync.RWMutex
	order    []string
	regions  map[string]*common.ReadoutRegion
}

// NewReadoutBoard creates a new readout board. With no tracked ids every field ever received gets a region.
func NewReadoutBoard(tracked []string, clock common.Clock) (*readoutBoard, error) {
	if clock == nil {
		return nil, errNilClock
	}

	rb := &readoutBoard{
		clock:    clock,
		trackAll: len(tracked) == 0,
		order:    make([]string, 0, len(tracked)),
		regions:  make(map[string]*common.ReadoutRegion),
	}
	for _, name := range tracked {
		if _, found := rb.regions[name]; found {
			continue
		}
		rb.addRegion(name)
	}

	return rb, nil
}

func (rb *readoutBoard) addRegion(name string) {
	rb.order = append(rb.order, name)
	rb.regions[name] = &common.ReadoutRegion{Name: name}
}

// UpdateLabels replaces the text of every tracked region present in the message. Absent ones keep their text.
func (rb *readoutBoard) UpdateLabels(raw map[string]string) {
	updatedAt := rb.clock.Now().UnixMilli()

	rb.mut.Lock()
	defer rb.mut.Unlock()

	if rb.trackAll {
		rb.addNewRegions(raw)
	}

	for name, text := range raw {
		region, found := rb.regions[name]
		if !found {
			continue
		}

		region.Text = text
		region.UpdatedAt = updatedAt
	}
}

func (rb *readoutBoard) addNewRegions(raw map[string]string) {
	newNames := make([]string, 0)
	for name := range raw {
		if _, found := rb.regions[name]; !found {
			newNames = append(newNames, name)
		}
	}

	sort.Strings(newNames)
	for _, name := range newNames {
		rb.addRegion(name)
	}
}

// Regions returns a copy of the regions in display order
func (rb *readoutBoard) Regions() []common.ReadoutRegion {
	rb.mut.RLock()
	defer rb.mut.RUnlock()

	result := make([]common.ReadoutRegion, 0, len(rb.order))
	for _, name := range rb.order {
		result = append(result, *rb.regions[name])
	}

	return result
}

// IsInterfaceNil returns true if the value under the interface is nil
func (rb *readoutBoard) IsInterfaceNil() bool {
	return rb == nil
}
