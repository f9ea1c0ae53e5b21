package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/wcharczuk/go-chart/v2"
)

var log = logger.GetOrCreate("render")

const (
	// MinDimension is the minimum chart width or height in pixels
	MinDimension = 100

	maxXTicks   = 6
	strokeWidth = 3
	padding     = 20
	// approximate width taken by the y axis tick labels, drawn on the right side of the canvas
	yAxisGutter = 48
)

var errInvalidDimensions = errors.New("invalid chart dimensions")

var errInvalidAnnotateEvery = errors.New("invalid annotation interval")

// ArgsChartRenderer is the DTO used to create a new chart renderer
type ArgsChartRenderer struct {
	Title         string
	Width         int
	Height        int
	BeginAtZero   bool
	AnnotateEvery int
	ShowXAxis     bool
}

type frame struct {
	snapshot common.WindowSnapshot
	png      []byte
}

// chartRenderer draws the window as a multi-series line chart. The last frame is kept for the HTTP surface.
type chartRenderer struct {
	args ArgsChartRenderer

	mut      sync.RWMutex
	current  frame
	hasFrame bool
}

// NewChartRenderer creates a new chart renderer
func NewChartRenderer(args ArgsChartRenderer) (*chartRenderer, error) {
	if args.Width < MinDimension || args.Height < MinDimension {
		return nil, fmt.Errorf("%w: %dx%d, minimum is %dx%d", errInvalidDimensions, args.Width, args.Height, MinDimension, MinDimension)
	}
	if args.AnnotateEvery < 0 {
		return nil, fmt.Errorf("%w: %d", errInvalidAnnotateEvery, args.AnnotateEvery)
	}

	return &chartRenderer{
		args: args,
	}, nil
}

// Redraw renders the provided window snapshot and publishes it as the current frame
func (cr *chartRenderer) Redraw(snapshot common.WindowSnapshot) error {
	var image []byte
	var renderErr error

	graph, drawable := cr.buildChart(snapshot)
	if drawable {
		buff := bytes.Buffer{}
		renderErr = graph.Render(chart.PNG, &buff)
		if renderErr == nil {
			image = buff.Bytes()
		}
	}

	cr.mut.Lock()
	cr.current = frame{
		snapshot: snapshot,
		png:      image,
	}
	cr.hasFrame = true
	cr.mut.Unlock()

	if renderErr != nil {
		return fmt.Errorf("chart render failed: %w", renderErr)
	}

	log.Trace("chart redrawn", "points", snapshot.Len(), "series", len(snapshot.Series), "bytes", len(image))

	return nil
}

func (cr *chartRenderer) buildChart(snapshot common.WindowSnapshot) (chart.Chart, bool) {
	numPoints := snapshot.Len()
	if numPoints == 0 {
		return chart.Chart{}, false
	}

	minY, maxY, found := valueBounds(snapshot)
	if !found {
		return chart.Chart{}, false
	}
	if cr.args.BeginAtZero {
		minY = math.Min(minY, 0)
		maxY = math.Max(maxY, 0)
	}
	if maxY <= minY {
		maxY = minY + 1
	}

	series := make([]chart.Series, 0, len(snapshot.Series)+1)
	for index, sd := range snapshot.Series {
		xValues, yValues := drawablePoints(sd.Values)
		if len(xValues) == 0 {
			continue
		}

		series = append(series, chart.ContinuousSeries{
			Name:    sd.Name,
			XValues: xValues,
			YValues: yValues,
			Style: chart.Style{
				StrokeColor: seriesColor(index),
				StrokeWidth: strokeWidth,
				FillColor:   seriesFillColor(index),
			},
		})
	}

	annotations := cr.annotations(snapshot)
	if len(annotations) > 0 {
		series = append(series, chart.AnnotationSeries{
			Name:        "values",
			Annotations: annotations,
		})
	}

	graph := chart.Chart{
		Title:  cr.args.Title,
		Width:  cr.args.Width,
		Height: cr.args.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: padding, Left: padding, Right: padding, Bottom: padding},
		},
		XAxis: chart.XAxis{
			Style: chart.Style{Hidden: !cr.args.ShowXAxis},
			Range: &chart.ContinuousRange{Min: 0, Max: xMax(numPoints)},
			Ticks: labelTicks(snapshot.Labels),
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: minY, Max: maxY},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph, true
}

// annotations labels every n-th point of every metric with its value
func (cr *chartRenderer) annotations(snapshot common.WindowSnapshot) []chart.Value2 {
	if cr.args.AnnotateEvery == 0 {
		return nil
	}

	result := make([]chart.Value2, 0)
	for position := 0; position < snapshot.Len(); position += cr.args.AnnotateEvery {
		for index, sd := range snapshot.Series {
			value := sd.Values[position]
			if math.IsNaN(value) {
				continue
			}

			result = append(result, chart.Value2{
				XValue: float64(position),
				YValue: value,
				Label:  formatValue(value),
				Style:  chart.Style{StrokeColor: seriesColor(index)},
			})
		}
	}

	return result
}

func valueBounds(snapshot common.WindowSnapshot) (float64, float64, bool) {
	minY := math.Inf(1)
	maxY := math.Inf(-1)
	for _, sd := range snapshot.Series {
		for _, value := range sd.Values {
			if math.IsNaN(value) {
				continue
			}
			minY = math.Min(minY, value)
			maxY = math.Max(maxY, value)
		}
	}

	return minY, maxY, !math.IsInf(minY, 1)
}

// drawablePoints skips the gap values, the line joins the points around a gap
func drawablePoints(values []float64) ([]float64, []float64) {
	xValues := make([]float64, 0, len(values))
	yValues := make([]float64, 0, len(values))
	for index, value := range values {
		if math.IsNaN(value) {
			continue
		}
		xValues = append(xValues, float64(index))
		yValues = append(yValues, value)
	}

	return xValues, yValues
}

// labelTicks picks evenly spaced labels. The last point always gets a tick since the ticks define the x range.
func labelTicks(labels []string) []chart.Tick {
	step := int(math.Ceil(float64(len(labels)) / maxXTicks))
	if step < 1 {
		step = 1
	}

	ticks := make([]chart.Tick, 0, maxXTicks+2)
	for index := 0; index < len(labels); index += step {
		ticks = append(ticks, chart.Tick{Value: float64(index), Label: labels[index]})
	}

	last := xMax(len(labels))
	if ticks[len(ticks)-1].Value == last {
		return ticks
	}

	label := ""
	if len(labels) > 1 {
		label = labels[len(labels)-1]
	}

	return append(ticks, chart.Tick{Value: last, Label: label})
}

func xMax(numPoints int) float64 {
	if numPoints < 2 {
		return 1
	}

	return float64(numPoints - 1)
}

func formatValue(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Frame returns the last rendered window snapshot. The returned value must not be mutated.
func (cr *chartRenderer) Frame() (common.WindowSnapshot, bool) {
	cr.mut.RLock()
	defer cr.mut.RUnlock()

	return cr.current.snapshot, cr.hasFrame
}

// PNG returns the last rendered image, nil if nothing was drawn yet
func (cr *chartRenderer) PNG() []byte {
	cr.mut.RLock()
	defer cr.mut.RUnlock()

	return cr.current.png
}

// SVG renders the current frame as SVG, nil if there is nothing to draw
func (cr *chartRenderer) SVG() ([]byte, error) {
	snapshot, _ := cr.Frame()
	graph, drawable := cr.buildChart(snapshot)
	if !drawable {
		return nil, nil
	}

	buff := bytes.Buffer{}
	err := graph.Render(chart.SVG, &buff)
	if err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buff.Bytes(), nil
}

// HoverAt returns the values of the point closest to the provided horizontal pixel position
func (cr *chartRenderer) HoverAt(pixelX int) (common.HoverValue, bool) {
	snapshot, _ := cr.Frame()
	numPoints := snapshot.Len()
	if numPoints == 0 {
		return common.HoverValue{}, false
	}

	left := float64(padding)
	right := float64(cr.args.Width - padding - yAxisGutter)
	ratio := (float64(pixelX) - left) / (right - left)
	ratio = math.Max(0, math.Min(1, ratio))

	index := int(math.Round(ratio * xMax(numPoints)))
	if index > numPoints-1 {
		index = numPoints - 1
	}

	hover := common.HoverValue{
		Index:  index,
		Label:  snapshot.Labels[index],
		Points: make([]common.SeriesPoint, 0, len(snapshot.Series)),
	}
	for _, sd := range snapshot.Series {
		point := common.SeriesPoint{Name: sd.Name}
		if !math.IsNaN(sd.Values[index]) {
			value := sd.Values[index]
			point.Value = &value
		}
		hover.Points = append(hover.Points, point)
	}

	return hover, true
}

// IsInterfaceNil returns true if the value under the interface is nil
func (cr *chartRenderer) IsInterfaceNil() bool {
	return cr == nil
}
