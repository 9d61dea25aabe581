// Package waveform turns decoded audio into a per-pixel amplitude profile.
package waveform

import (
	"math"

	"github.com/gigurra/wavepost/cmd/play/audio"
)

// SmoothingWindow is the moving-average window applied to every profile:
// one neighbour on each side.
const SmoothingWindow = 3

// Profile holds one amplitude in [0,1] per horizontal canvas pixel.
type Profile struct {
	Amplitudes []float64
}

// Width is the canvas width the profile was computed for.
func (p Profile) Width() int { return len(p.Amplitudes) }

// Empty reports whether there is nothing to draw.
func (p Profile) Empty() bool { return len(p.Amplitudes) == 0 }

// FitsWidth reports whether the profile can be drawn on a canvas of width w.
// A profile computed for another width is stale.
func (p Profile) FitsWidth(w int) bool { return !p.Empty() && p.Width() == w }

// Build computes the RMS of width equal windows over the first channel and
// smooths the result. Samples past width*samplesPerPixel are dropped.
// Empty input or zero width yields an all-zero profile of length width.
func Build(dec *audio.Decoded, width int) Profile {
	if width <= 0 {
		return Profile{Amplitudes: []float64{}}
	}
	var samples []float64
	if dec != nil {
		samples = dec.Samples
	}
	return BuildSamples(samples, width)
}

// BuildSamples is Build over a raw sample slice.
func BuildSamples(samples []float64, width int) Profile {
	if width <= 0 {
		return Profile{Amplitudes: []float64{}}
	}
	raw := make([]float64, width)
	perPixel := len(samples) / width
	if perPixel == 0 {
		return Profile{Amplitudes: raw}
	}

	for i := range width {
		window := samples[i*perPixel : (i+1)*perPixel]
		var sum float64
		for _, s := range window {
			sum += s * s
		}
		raw[i] = clamp01(math.Sqrt(sum / float64(len(window))))
	}

	return Profile{Amplitudes: Smooth(raw, SmoothingWindow)}
}

// Smooth applies a centered moving average. Each output averages the inputs
// within window/2 positions that exist; there is no wraparound or padding.
// The output has the same length as data.
func Smooth(data []float64, window int) []float64 {
	half := max(window, 1) / 2
	out := make([]float64, len(data))
	for i := range data {
		lo := max(0, i-half)
		hi := min(len(data)-1, i+half)
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += data[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return max(0, min(1, v))
}
