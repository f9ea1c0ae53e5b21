package ingestion

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/live-dashboard/services/dashboard/testsCommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var startTime = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func createMockArgs() ArgsIngestionController {
	return ArgsIngestionController{
		Capacity:  120,
		GapPolicy: common.GapZero,
		Renderer:  &testsCommon.RendererStub{},
		Readouts:  &testsCommon.ReadoutBoardStub{},
		Observer:  &testsCommon.ObserverStub{},
		Clock:     testsCommon.NewClockStub(startTime),
	}
}

func TestNewIngestionController(t *testing.T) {
	t.Parallel()

	t.Run("invalid capacity should error", func(t *testing.T) {
		args := createMockArgs()
		args.Capacity = 0

		ic, err := NewIngestionController(args)
		assert.Nil(t, ic)
		assert.True(t, ic.IsInterfaceNil())
		assert.True(t, errors.Is(err, common.ErrConfiguration))
	})
	t.Run("invalid gap policy should error", func(t *testing.T) {
		args := createMockArgs()
		args.GapPolicy = ""

		ic, err := NewIngestionController(args)
		assert.Nil(t, ic)
		assert.True(t, errors.Is(err, common.ErrConfiguration))
	})
	t.Run("invalid static schema should error", func(t *testing.T) {
		args := createMockArgs()
		args.Schema = []string{"numActiveConn", "numActiveConn"}

		ic, err := NewIngestionController(args)
		assert.Nil(t, ic)
		assert.True(t, errors.Is(err, common.ErrConfiguration))
	})
	t.Run("nil renderer should error", func(t *testing.T) {
		args := createMockArgs()
		args.Renderer = nil

		ic, err := NewIngestionController(args)
		assert.Nil(t, ic)
		assert.Equal(t, errNilRenderer, err)
	})
	t.Run("nil readout board should error", func(t *testing.T) {
		args := createMockArgs()
		args.Readouts = nil

		ic, err := NewIngestionController(args)
		assert.Nil(t, ic)
		assert.Equal(t, errNilReadoutBoard, err)
	})
	t.Run("nil observer should error", func(t *testing.T) {
		args := createMockArgs()
		args.Observer = nil

		ic, err := NewIngestionController(args)
		assert.Nil(t, ic)
		assert.Equal(t, errNilObserver, err)
	})
	t.Run("nil clock should error", func(t *testing.T) {
		args := createMockArgs()
		args.Clock = nil

		ic, err := NewIngestionController(args)
		assert.Nil(t, ic)
		assert.Equal(t, errNilClock, err)
	})
	t.Run("should work", func(t *testing.T) {
		ic, err := NewIngestionController(createMockArgs())
		assert.Nil(t, err)
		assert.False(t, ic.IsInterfaceNil())
		assert.Equal(t, common.Uninitialized, ic.State())
		assert.Equal(t, 0, ic.WindowLength())
		assert.Nil(t, ic.Schema())
		assert.Equal(t, 120, ic.Capacity())
		assert.Equal(t, 0, ic.Window().Len())
	})
}

func TestIngestionController_OnSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("first valid snapshot discovers the schema and activates", func(t *testing.T) {
		t.Parallel()

		var redrawn []common.WindowSnapshot
		var labels []map[string]string
		args := createMockArgs()
		args.Renderer = &testsCommon.RendererStub{
			RedrawHandler: func(snapshot common.WindowSnapshot) error {
				redrawn = append(redrawn, snapshot)
				return nil
			},
		}
		args.Readouts = &testsCommon.ReadoutBoardStub{
			UpdateLabelsHandler: func(raw map[string]string) {
				labels = append(labels, raw)
			},
		}
		ic, _ := NewIngestionController(args)

		err := ic.OnSnapshot([]byte(`{"numConnPerSec":5,"numActiveConn":17,"numTotalConn":"1200"}`))
		require.Nil(t, err)

		assert.Equal(t, common.Active, ic.State())
		assert.Equal(t, []string{"numConnPerSec", "numActiveConn", "numTotalConn"}, ic.Schema())
		assert.Equal(t, 1, ic.WindowLength())
		assert.Equal(t, startTime.UnixMilli(), ic.LastApplied())

		require.Len(t, redrawn, 1)
		assert.Equal(t, []string{"09:00:00"}, redrawn[0].Labels)
		values, _ := redrawn[0].Values("numActiveConn")
		assert.Equal(t, []float64{17}, values)

		require.Len(t, labels, 1)
		assert.Equal(t, "1200", labels[0]["numTotalConn"])
	})
	t.Run("static schema wins over discovery", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs()
		args.Schema = []string{"numActiveConn", "inboundMBps"}
		ic, _ := NewIngestionController(args)

		err := ic.OnSnapshot([]byte(`{"numConnPerSec":5,"numActiveConn":17}`))
		assert.True(t, errors.Is(err, common.ErrSchemaGap))
		assert.Contains(t, err.Error(), "inboundMBps")
		assert.False(t, IsDropped(err))

		assert.Equal(t, common.Active, ic.State())
		assert.Equal(t, []string{"numActiveConn", "inboundMBps"}, ic.Schema())
		assert.Equal(t, 1, ic.WindowLength())
	})
	t.Run("missing field is gap filled and keeps series aligned", func(t *testing.T) {
		t.Parallel()

		numGaps := 0
		args := createMockArgs()
		args.Observer = &testsCommon.ObserverStub{
			SchemaGapHandler: func(missing int) {
				numGaps += missing
			},
		}
		ic, _ := NewIngestionController(args)

		require.Nil(t, ic.OnSnapshot([]byte(`{"p":1,"q":10}`)))
		err := ic.OnSnapshot([]byte(`{"p":2}`))
		assert.True(t, errors.Is(err, common.ErrSchemaGap))
		assert.Equal(t, 1, numGaps)

		window := ic.Window()
		assert.Equal(t, 2, window.Len())
		p, _ := window.Values("p")
		q, _ := window.Values("q")
		assert.Equal(t, []float64{1, 2}, p)
		assert.Equal(t, []float64{10, 0}, q)
	})
	t.Run("break policy records an explicit gap", func(t *testing.T) {
		t.Parallel()

		args := createMockArgs()
		args.GapPolicy = common.GapBreak
		ic, _ := NewIngestionController(args)

		_ = ic.OnSnapshot([]byte(`{"p":1,"q":10}`))
		_ = ic.OnSnapshot([]byte(`{"p":2}`))

		q, _ := ic.Window().Values("q")
		require.Len(t, q, 2)
		assert.True(t, math.IsNaN(q[1]))
	})
	t.Run("malformed payload between two valid ones advances the window by two", func(t *testing.T) {
		t.Parallel()

		dropped := make(map[string]int)
		numRedraws := 0
		args := createMockArgs()
		args.Observer = &testsCommon.ObserverStub{
			SnapshotDroppedHandler: func(reason string) {
				dropped[reason]++
			},
		}
		args.Renderer = &testsCommon.RendererStub{
			RedrawHandler: func(snapshot common.WindowSnapshot) error {
				numRedraws++
				return nil
			},
		}
		ic, _ := NewIngestionController(args)

		require.Nil(t, ic.OnSnapshot([]byte(`{"numActiveConn":1}`)))
		err := ic.OnSnapshot([]byte(`{"numActiveConn":`))
		assert.True(t, errors.Is(err, common.ErrDecode))
		assert.True(t, IsDropped(err))
		require.Nil(t, ic.OnSnapshot([]byte(`{"numActiveConn":3}`)))

		assert.Equal(t, 2, ic.WindowLength())
		assert.Equal(t, 2, numRedraws)
		assert.Equal(t, map[string]int{dropReasonDecode: 1}, dropped)

		values, _ := ic.Window().Values("numActiveConn")
		assert.Equal(t, []float64{1, 3}, values)
	})
	t.Run("malformed payload while uninitialized does not establish the schema", func(t *testing.T) {
		t.Parallel()

		ic, _ := NewIngestionController(createMockArgs())

		err := ic.OnSnapshot([]byte(`{"status":"starting"}`))
		assert.True(t, errors.Is(err, common.ErrDecode))
		assert.Equal(t, common.Uninitialized, ic.State())

		require.Nil(t, ic.OnSnapshot([]byte(`{"numActiveConn":1}`)))
		assert.Equal(t, common.Active, ic.State())
		assert.Equal(t, []string{"numActiveConn"}, ic.Schema())
	})
	t.Run("redraw error does not stop processing", func(t *testing.T) {
		t.Parallel()

		numApplied := 0
		args := createMockArgs()
		args.Renderer = &testsCommon.RendererStub{
			RedrawHandler: func(snapshot common.WindowSnapshot) error {
				return errors.New("canvas unavailable")
			},
		}
		args.Observer = &testsCommon.ObserverStub{
			SnapshotAppliedHandler: func(windowLength int) {
				numApplied++
			},
		}
		ic, _ := NewIngestionController(args)

		assert.Nil(t, ic.OnSnapshot([]byte(`{"x":1}`)))
		assert.Nil(t, ic.OnSnapshot([]byte(`{"x":2}`)))
		assert.Equal(t, 2, ic.WindowLength())
		assert.Equal(t, 2, numApplied)
	})
	t.Run("window slides once capacity is reached", func(t *testing.T) {
		t.Parallel()

		clock := testsCommon.NewClockStub(startTime)
		var lastLength int
		args := createMockArgs()
		args.Capacity = 3
		args.Clock = clock
		args.Observer = &testsCommon.ObserverStub{
			SnapshotAppliedHandler: func(windowLength int) {
				lastLength = windowLength
			},
		}
		ic, _ := NewIngestionController(args)

		for _, payload := range []string{`{"x":1}`, `{"x":2}`, `{"x":3}`, `{"x":4}`} {
			require.Nil(t, ic.OnSnapshot([]byte(payload)))
			clock.Advance(time.Second)
		}

		window := ic.Window()
		values, _ := window.Values("x")
		assert.Equal(t, []float64{2, 3, 4}, values)
		assert.Equal(t, []string{"09:00:01", "09:00:02", "09:00:03"}, window.Labels)
		assert.Equal(t, 3, lastLength)
	})
	t.Run("terminated controller ignores snapshots", func(t *testing.T) {
		t.Parallel()

		numRedraws := 0
		args := createMockArgs()
		args.Renderer = &testsCommon.RendererStub{
			RedrawHandler: func(snapshot common.WindowSnapshot) error {
				numRedraws++
				return nil
			},
		}
		ic, _ := NewIngestionController(args)

		require.Nil(t, ic.OnSnapshot([]byte(`{"x":1}`)))
		ic.Terminate()
		assert.Equal(t, common.Terminated, ic.State())

		assert.Nil(t, ic.OnSnapshot([]byte(`{"x":2}`)))
		assert.Nil(t, ic.OnSnapshot([]byte(`not json`)))
		assert.Equal(t, 1, ic.WindowLength())
		assert.Equal(t, 1, numRedraws)

		ic.Terminate()
		assert.Equal(t, common.Terminated, ic.State())
	})
	t.Run("terminate before the first snapshot skips discovery", func(t *testing.T) {
		t.Parallel()

		ic, _ := NewIngestionController(createMockArgs())
		ic.Terminate()

		assert.Nil(t, ic.OnSnapshot([]byte(`{"x":1}`)))
		assert.Equal(t, common.Terminated, ic.State())
		assert.Nil(t, ic.Schema())
	})
}

type terminatingClock struct {
	ic *ingestionController
}

func (clock *terminatingClock) Now() time.Time {
	clock.ic.Terminate()

	return startTime
}

func TestIngestionController_TerminateDuringFirstSnapshot(t *testing.T) {
	t.Parallel()

	clock := &terminatingClock{}
	args := createMockArgs()
	args.Clock = clock
	numRedraws := 0
	args.Renderer = &testsCommon.RendererStub{
		RedrawHandler: func(snapshot common.WindowSnapshot) error {
			numRedraws++
			return nil
		},
	}
	ic, _ := NewIngestionController(args)
	clock.ic = ic

	assert.NotPanics(t, func() {
		err := ic.OnSnapshot([]byte(`{"numActiveConn":1}`))
		assert.Nil(t, err)
	})
	assert.Equal(t, common.Terminated, ic.State())
	assert.Equal(t, 0, ic.WindowLength())
	assert.Equal(t, 0, numRedraws)

	err := ic.OnSchemaDiscovery(common.Snapshot{Fields: []string{"numActiveConn"}})
	assert.Nil(t, err)
	assert.Equal(t, common.Terminated, ic.State(), "a terminated controller never becomes active")
}

func TestIngestionController_OnSchemaDiscovery(t *testing.T) {
	t.Parallel()

	ic, _ := NewIngestionController(createMockArgs())

	err := ic.OnSchemaDiscovery(common.Snapshot{Fields: []string{"a", "b"}})
	require.Nil(t, err)
	assert.Equal(t, []string{"a", "b"}, ic.Schema())

	err = ic.OnSchemaDiscovery(common.Snapshot{Fields: []string{"c"}})
	require.Nil(t, err)
	assert.Equal(t, []string{"a", "b"}, ic.Schema(), "schema is immutable once established")
}

func TestIngestionController_ConcurrentReadsSeeAlignedFrames(t *testing.T) {
	t.Parallel()

	args := createMockArgs()
	args.Capacity = 10
	ic, _ := NewIngestionController(args)
	require.Nil(t, ic.OnSnapshot([]byte(`{"a":0,"b":0}`)))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = ic.OnSnapshot([]byte(`{"a":1,"b":2}`))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			window := ic.Window()
			for _, series := range window.Series {
				if len(series.Values) != window.Len() {
					assert.Fail(t, "misaligned frame observed")
					return
				}
			}
		}
	}()
	wg.Wait()

	assert.Equal(t, 10, ic.WindowLength())
}
