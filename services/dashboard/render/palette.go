package render

import "github.com/wcharczuk/go-chart/v2/drawing"

const fillAlpha = 51

var palette = []drawing.Color{
	{R: 255, G: 99, B: 132, A: 255},
	{R: 54, G: 162, B: 235, A: 255},
	{R: 75, G: 192, B: 192, A: 255},
	{R: 255, G: 159, B: 64, A: 255},
	{R: 153, G: 102, B: 255, A: 255},
	{R: 255, G: 205, B: 86, A: 255},
	{R: 201, G: 203, B: 207, A: 255},
}

// seriesColor returns the stroke color of the metric at the provided schema index
func seriesColor(index int) drawing.Color {
	return palette[index%len(palette)]
}

func seriesFillColor(index int) drawing.Color {
	c := seriesColor(index)
	c.A = fillAlpha

	return c
}
