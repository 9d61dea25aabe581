package colors

import (
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"
)

// Sequence is the ordered list of colors a player uses for its progress
// gradient and its ambient animation. It always holds 1..MaxSequenceLength
// entries.
type Sequence struct {
	colors []RGBA
}

// Stop is one color stop of a gradient. Offset is in [0,1].
type Stop struct {
	Offset float64
	Color  RGBA
}

// AnimationPeriod is the time one pass over the keyframes takes. The
// animation alternates direction, so a full back-and-forth is twice this.
const AnimationPeriod = 10 * time.Second

// NewSequence parses hex colors into a Sequence.
func NewSequence(hexes ...string) (Sequence, error) {
	if len(hexes) == 0 {
		return Sequence{}, ErrEmptySequence
	}
	if len(hexes) > MaxSequenceLength {
		return Sequence{}, fmt.Errorf("%w: %d colors, max %d", ErrSequenceTooLong, len(hexes), MaxSequenceLength)
	}
	parsed := make([]RGBA, 0, len(hexes))
	for _, h := range hexes {
		c, err := Parse(h)
		if err != nil {
			return Sequence{}, err
		}
		parsed = append(parsed, c)
	}
	return Sequence{colors: parsed}, nil
}

// DefaultSequence is used when the configuration supplies no colors.
func DefaultSequence() Sequence {
	s, _ := NewSequence(defaultSequenceHexs...)
	return s
}

// DefaultHexes returns the hex strings behind DefaultSequence.
func DefaultHexes() []string {
	return append([]string(nil), defaultSequenceHexs...)
}

// Len returns the number of colors. The zero Sequence has length 0.
func (s Sequence) Len() int { return len(s.colors) }

// Colors returns a copy of the colors.
func (s Sequence) Colors() []RGBA { return append([]RGBA(nil), s.colors...) }

// Hexes returns the colors as #rrggbb strings.
func (s Sequence) Hexes() []string {
	return lo.Map(s.colors, func(c RGBA, _ int) string { return c.Hex() })
}

// GradientStops places color i at offset i/(n-1). A single color yields one
// stop at 0 (a solid gradient); an empty sequence yields a white stop.
func (s Sequence) GradientStops() []Stop {
	switch len(s.colors) {
	case 0:
		return []Stop{{Offset: 0, Color: White}}
	case 1:
		return []Stop{{Offset: 0, Color: s.colors[0]}}
	}
	last := float64(len(s.colors) - 1)
	return lo.Map(s.colors, func(c RGBA, i int) Stop {
		return Stop{Offset: float64(i) / last, Color: c}
	})
}

// Keyframes returns the ambient animation keyframes with every color at the
// given opacity. Offsets are spread evenly like GradientStops.
func (s Sequence) Keyframes(alpha float64) []Stop {
	return lo.Map(s.GradientStops(), func(st Stop, _ int) Stop {
		st.Color = st.Color.WithAlpha(alpha)
		return st
	})
}

// Cycle samples the alternating keyframe animation at elapsed time t.
func (s Sequence) Cycle(t time.Duration, alpha float64) RGBA {
	frames := s.Keyframes(alpha)
	if len(frames) == 1 || t <= 0 {
		return frames[0].Color
	}
	pos := math.Mod(float64(t)/float64(AnimationPeriod), 2)
	if pos > 1 {
		pos = 2 - pos
	}
	return SampleStops(frames, pos)
}

// SampleStops interpolates the color at offset t in [0,1] between sorted stops.
func SampleStops(stops []Stop, t float64) RGBA {
	if len(stops) == 0 {
		return White
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			a, b := stops[i-1], stops[i]
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			return a.Color.Lerp(b.Color, (t-a.Offset)/span)
		}
	}
	return stops[len(stops)-1].Color
}
