package render

import (
	"math"
	"time"

	"github.com/gigurra/wavepost/cmd/play/canvas"
	"github.com/gigurra/wavepost/cmd/play/colors"
	"github.com/gigurra/wavepost/cmd/play/waveform"
)

const (
	WaveLineWidth     = 2
	ProgressLineWidth = 3
)

// Scene is what one waveform frame shows.
type Scene struct {
	Profile  waveform.Profile
	Position time.Duration
	Duration time.Duration
	Colors   colors.Sequence
}

// ProgressPixel maps a playback position onto a canvas of the given width.
// The result is clamped to [0,width]; a zero duration gives 0.
func ProgressPixel(pos, dur time.Duration, width int) int {
	if dur <= 0 || width <= 0 {
		return 0
	}
	px := int(math.Floor(float64(pos) / float64(dur) * float64(width)))
	return min(max(px, 0), width)
}

// DrawWaveform paints one frame: the full waveform in white and, once the
// duration is known, the played part over it with a gradient.
func DrawWaveform(c canvas.Canvas, s Scene) {
	c.Clear()

	width, height := c.Width(), c.Height()
	if s.Profile.Empty() || !s.Profile.FitsWidth(width) {
		return
	}

	amps := s.Profile.Amplitudes
	y := func(i int) float64 { return float64(height) - amps[i]*float64(height) }

	c.BeginPath()
	for i := range amps {
		if i == 0 {
			c.MoveTo(0, y(0))
		} else {
			c.LineTo(float64(i), y(i))
		}
	}
	c.Stroke(canvas.Style{Paint: canvas.Solid(colors.White), LineWidth: WaveLineWidth})

	if s.Duration <= 0 {
		return
	}
	progress := ProgressPixel(s.Position, s.Duration, width)
	if progress == 0 {
		return
	}

	c.BeginPath()
	for i := 0; i < progress; i++ {
		if i == 0 {
			c.MoveTo(0, y(0))
		} else {
			c.LineTo(float64(i), y(i))
		}
	}
	c.Stroke(canvas.Style{
		Paint:     canvas.NewLinearGradient(0, float64(progress), s.Colors),
		LineWidth: ProgressLineWidth,
	})
}

// BarColor is the fill for a bar of normalized height v.
func BarColor(v float64) colors.RGBA {
	v = min(max(v, 0), 1)
	return colors.RGBA{R: uint8(math.Round(100 + 155*v)), G: 50, B: 50, A: 1}
}

// DrawSpectrum paints frequency bars from left to right, one per value in
// bins, each value in [0,1]. Bars that would start past the right edge are
// skipped.
func DrawSpectrum(c canvas.Canvas, bins []float64) {
	c.Clear()

	width, height := c.Width(), c.Height()
	if len(bins) == 0 || width <= 0 || height <= 0 {
		return
	}

	barWidth := float64(width) / float64(len(bins)) * 2.5
	x := 0.0
	for _, v := range bins {
		if x >= float64(width) {
			break
		}
		v = min(max(v, 0), 1)
		h := v * float64(height)
		if h > 0 {
			c.FillRect(x, float64(height)-h, barWidth, h, canvas.Solid(BarColor(v)))
		}
		x += barWidth + 1
	}
}
