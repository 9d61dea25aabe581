// Package canvas defines the 2D drawing surface the players paint on: paths
// made of move-to/line-to segments, strokes with a solid color or a linear
// gradient, and filled rectangles.
//
// Braille rasterizes to the terminal. Recorder is a test double that keeps
// the drawing calls for inspection, the way httptest.ResponseRecorder does
// for handlers.
package canvas

import (
	"github.com/gigurra/wavepost/cmd/play/colors"
)

// Canvas is a fixed-size raster addressed in pixels, origin top-left.
type Canvas interface {
	Width() int
	Height() int
	Clear()
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke(style Style)
	FillRect(x, y, w, h float64, paint Paint)
}

// Presenter is implemented by canvases that draw into a back buffer.
// Present publishes the back buffer as the visible frame.
type Presenter interface {
	Present()
}

// Paint resolves the color at a horizontal pixel position.
type Paint interface {
	ColorAt(x float64) colors.RGBA
}

// Solid paints one color everywhere.
type Solid colors.RGBA

func (s Solid) ColorAt(float64) colors.RGBA { return colors.RGBA(s) }

// LinearGradient is a horizontal gradient from X0 to X1. Positions before X0
// take the first stop and positions past X1 the last.
type LinearGradient struct {
	X0, X1 float64
	Stops  []colors.Stop
}

// NewLinearGradient builds a gradient spanning [x0,x1] with the sequence's stops.
func NewLinearGradient(x0, x1 float64, seq colors.Sequence) LinearGradient {
	return LinearGradient{X0: x0, X1: x1, Stops: seq.GradientStops()}
}

func (g LinearGradient) ColorAt(x float64) colors.RGBA {
	span := g.X1 - g.X0
	if span == 0 {
		return colors.SampleStops(g.Stops, 0)
	}
	return colors.SampleStops(g.Stops, (x-g.X0)/span)
}

// Style describes a stroke.
type Style struct {
	Paint     Paint
	LineWidth float64
}

// Point is a path vertex. Move marks the start of a new subpath.
type Point struct {
	X, Y float64
	Move bool
}
