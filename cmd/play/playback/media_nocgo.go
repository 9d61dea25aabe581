//go:build !((linux && cgo) || windows || darwin)

package playback

import "github.com/gigurra/wavepost/cmd/play/audio"

// AudioAvailable indicates whether this build can drive a sound device.
// Native output needs cgo on this platform.
const AudioAvailable = false

// NewMedia returns a silent clock for dec.
func NewMedia(dec *audio.Decoded) Media {
	if dec == nil {
		return NewClockMedia(0)
	}
	return NewClockMedia(dec.Duration)
}
