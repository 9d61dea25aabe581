// Package spectrum turns a window of decoded samples into normalized
// frequency bar heights, the way a browser analyser node does.
package spectrum

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/madelynnblue/go-dsp/fft"
)

const (
	FFTSize   = 256
	Bins      = FFTSize / 2
	MinDB     = -100.0
	MaxDB     = -30.0
	Smoothing = 0.8
)

// Analyzer keeps the smoothed magnitudes between frames. It is safe for
// concurrent use.
type Analyzer struct {
	mu     sync.Mutex
	window [FFTSize]float64
	buf    []float64
	prev   [Bins]float64
}

func NewAnalyzer() *Analyzer {
	a := &Analyzer{buf: make([]float64, FFTSize)}
	for i := range FFTSize {
		a.window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(FFTSize-1)))
	}
	return a
}

// Reset forgets the smoothing history.
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.prev[:])
}

// At analyzes the FFTSize samples ending at index end. Missing samples before
// the start of the track count as silence.
func (a *Analyzer) At(samples []float64, end int) []float64 {
	end = min(max(end, 0), len(samples))
	start := max(end-FFTSize, 0)
	return a.Analyze(samples[start:end])
}

// Analyze returns Bins values in [0,1]. Short input is zero padded at the
// front so the newest sample is always last.
func (a *Analyzer) Analyze(samples []float64) []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(samples) > FFTSize {
		samples = samples[len(samples)-FFTSize:]
	}
	clear(a.buf)
	copy(a.buf[FFTSize-len(samples):], samples)
	for i := range a.buf {
		a.buf[i] *= a.window[i]
	}

	freq := fft.FFTReal(a.buf)

	out := make([]float64, Bins)
	for k := range Bins {
		mag := cmplx.Abs(freq[k]) / FFTSize
		mag = Smoothing*a.prev[k] + (1-Smoothing)*mag
		a.prev[k] = mag
		out[k] = normalize(mag)
	}
	return out
}

func normalize(mag float64) float64 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := (db - MinDB) / (MaxDB - MinDB)
	return max(0, min(1, v))
}
