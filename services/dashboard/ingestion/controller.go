package ingestion

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/live-dashboard/services/dashboard/window"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"golang.org/x/time/rate"
)

var log = logger.GetOrCreate("ingestion")

// DefaultLabelFormat renders the arrival time of a snapshot as the x-axis label
const DefaultLabelFormat = "15:04:05"

const warningsInterval = 10 * time.Second

// ArgsIngestionController is the DTO used to create a new ingestion controller
type ArgsIngestionController struct {
	Capacity    int
	Schema      []string
	GapPolicy   common.GapPolicy
	LabelFormat string
	Renderer    Renderer
	Readouts    ReadoutBoard
	Observer    Observer
	Clock       common.Clock
}

type ingestionController struct {
	capacity     int
	staticSchema []string
	policy       common.GapPolicy
	labelFormat  string
	renderer     Renderer
	readouts     ReadoutBoard
	observer     Observer
	clock        common.Clock
	warnLimiter  *rate.Limiter

	state       atomic.Int32
	lastApplied atomic.Int64

	mutWindow sync.RWMutex
	window    SeriesWindow
}

// NewIngestionController creates a new controller in the Uninitialized state
func NewIngestionController(args ArgsIngestionController) (*ingestionController, error) {
	err := checkArgs(args)
	if err != nil {
		return nil, err
	}

	labelFormat := args.LabelFormat
	if len(labelFormat) == 0 {
		labelFormat = DefaultLabelFormat
	}

	ic := &ingestionController{
		capacity:    args.Capacity,
		policy:      args.GapPolicy,
		labelFormat: labelFormat,
		renderer:    args.Renderer,
		readouts:    args.Readouts,
		observer:    args.Observer,
		clock:       args.Clock,
		warnLimiter: rate.NewLimiter(rate.Every(warningsInterval), 1),
	}
	if len(args.Schema) > 0 {
		ic.staticSchema = append([]string(nil), args.Schema...)
	}
	ic.state.Store(int32(common.Uninitialized))

	return ic, nil
}

func checkArgs(args ArgsIngestionController) error {
	err := window.CheckParameters(args.Capacity, args.GapPolicy)
	if err != nil {
		return err
	}
	if len(args.Schema) > 0 {
		err = window.CheckSchema(args.Schema)
		if err != nil {
			return err
		}
	}
	if check.IfNil(args.Renderer) {
		return errNilRenderer
	}
	if check.IfNil(args.Readouts) {
		return errNilReadoutBoard
	}
	if check.IfNil(args.Observer) {
		return errNilObserver
	}
	if args.Clock == nil {
		return errNilClock
	}

	return nil
}

// OnSchemaDiscovery establishes the metric schema and creates the series window. The static schema,
// if configured, wins over the fields of the provided snapshot. It does nothing once a schema exists.
func (ic *ingestionController) OnSchemaDiscovery(first common.Snapshot) error {
	if ic.State() != common.Uninitialized {
		return nil
	}

	schema := ic.staticSchema
	source := "configuration"
	if len(schema) == 0 {
		schema = first.Fields
		source = "first snapshot"
	}

	sw, err := window.NewSeriesWindow(schema, ic.capacity, ic.policy)
	if err != nil {
		return err
	}

	ic.mutWindow.Lock()
	if !ic.state.CompareAndSwap(int32(common.Uninitialized), int32(common.Active)) {
		ic.mutWindow.Unlock()
		return nil
	}
	ic.window = sw
	ic.mutWindow.Unlock()

	log.Info("metric schema established", "source", source, "metrics", strings.Join(schema, ", "),
		"capacity", ic.capacity, "gap policy", ic.policy)

	return nil
}

// OnSnapshot processes one raw push channel message: decode, schema discovery on the first valid message,
// append and evict as one step, then redraw and readouts update. The returned error is informative only,
// a failed message never prevents the processing of the next one.
func (ic *ingestionController) OnSnapshot(raw []byte) error {
	if ic.State() == common.Terminated {
		return nil
	}

	receivedAt := ic.clock.Now()
	snapshot, err := DecodeSnapshot(raw, receivedAt)
	if err != nil {
		ic.observer.SnapshotDropped(dropReasonDecode)
		ic.warn("dropped telemetry message", "error", err, "size", len(raw))
		return err
	}

	if ic.State() == common.Uninitialized {
		err = ic.OnSchemaDiscovery(snapshot)
		if err != nil {
			ic.observer.SnapshotDropped(dropReasonConfiguration)
			log.Error("can not establish the metric schema", "error", err)
			return err
		}
	}

	ic.mutWindow.Lock()
	if check.IfNil(ic.window) {
		// terminated before the schema could be established
		ic.mutWindow.Unlock()
		return nil
	}
	missing := ic.window.Append(receivedAt, receivedAt.Format(ic.labelFormat), snapshot.Values)
	ic.window.EvictIfOverCapacity()
	frame := ic.window.Snapshot()
	ic.mutWindow.Unlock()

	ic.lastApplied.Store(receivedAt.UnixMilli())

	start := time.Now()
	err = ic.renderer.Redraw(frame)
	ic.observer.RedrawDuration(time.Since(start))
	if err != nil {
		ic.warn("chart redraw failed", "error", err, "points", frame.Len())
	}

	ic.readouts.UpdateLabels(snapshot.Raw)
	ic.observer.SnapshotApplied(frame.Len())

	if len(missing) == 0 {
		return nil
	}

	ic.observer.SchemaGap(len(missing))
	gapErr := fmt.Errorf("%w: missing %s, recorded %s values", common.ErrSchemaGap, strings.Join(missing, ", "), ic.policy)
	ic.warn("snapshot is missing schema metrics", "error", gapErr)

	return gapErr
}

func (ic *ingestionController) warn(message string, args ...interface{}) {
	if ic.warnLimiter.Allow() {
		log.Warn(message, args...)
		return
	}

	log.Debug(message, args...)
}

// Terminate ends the session. Any subsequent snapshot is ignored.
func (ic *ingestionController) Terminate() {
	previous := common.IngestionState(ic.state.Swap(int32(common.Terminated)))
	if previous != common.Terminated {
		log.Debug("ingestion terminated", "previous state", previous.String())
	}
}

// State returns the current lifecycle state
func (ic *ingestionController) State() common.IngestionState {
	return common.IngestionState(ic.state.Load())
}

// Window returns a consistent copy of the series window. It is empty before the schema is established.
func (ic *ingestionController) Window() common.WindowSnapshot {
	ic.mutWindow.RLock()
	defer ic.mutWindow.RUnlock()

	if check.IfNil(ic.window) {
		return common.WindowSnapshot{Capacity: ic.capacity}
	}

	return ic.window.Snapshot()
}

// WindowLength returns the number of points currently held by the window
func (ic *ingestionController) WindowLength() int {
	ic.mutWindow.RLock()
	defer ic.mutWindow.RUnlock()

	if check.IfNil(ic.window) {
		return 0
	}

	return ic.window.Len()
}

// Schema returns the established metric ids, nil while Uninitialized
func (ic *ingestionController) Schema() []string {
	ic.mutWindow.RLock()
	defer ic.mutWindow.RUnlock()

	if check.IfNil(ic.window) {
		return nil
	}

	return ic.window.Schema()
}

// Capacity returns the configured window capacity
func (ic *ingestionController) Capacity() int {
	return ic.capacity
}

// LastApplied returns the arrival time, in unix milliseconds, of the last applied snapshot
func (ic *ingestionController) LastApplied() int64 {
	return ic.lastApplied.Load()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (ic *ingestionController) IsInterfaceNil() bool {
	return ic == nil
}

// IsDropped returns true if the error returned by OnSnapshot means the message did not advance the window
func IsDropped(err error) bool {
	return err != nil && !errors.Is(err, common.ErrSchemaGap)
}
