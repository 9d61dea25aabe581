// Package colors converts the hex colors of a player's color sequence into
// RGBA values, CSS strings, gradient stops and animation keyframes.
package colors

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidHex      = errors.New("invalid hex color")
	ErrEmptySequence   = errors.New("color sequence is empty")
	ErrSequenceTooLong = errors.New("color sequence is too long")
	ErrInvalidAlpha    = errors.New("alpha must be within [0,1]")
)

// MaxSequenceLength bounds how many colors a player may cycle through.
const MaxSequenceLength = 8

var defaultSequenceHexs = []string{"#ff6b6b", "#feca57", "#48dbfb", "#1dd1a1", "#5f27cd"}

// RGBA is a straight (non-premultiplied) color. A is in [0,1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

var (
	White = RGBA{R: 255, G: 255, B: 255, A: 1}
	Black = RGBA{A: 1}
)

// Parse reads "#rgb" or "#rrggbb". The leading '#' is optional.
func Parse(hex string) (RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	return RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 1}, nil
}

// HexToRGBA converts a hex color to a CSS rgba() string with the given alpha,
// e.g. HexToRGBA("#abc", 1) == "rgba(170,187,204,1)".
func HexToRGBA(hex string, alpha float64) (string, error) {
	c, err := Parse(hex)
	if err != nil {
		return "", err
	}
	if alpha < 0 || alpha > 1 || math.IsNaN(alpha) {
		return "", fmt.Errorf("%w: %v", ErrInvalidAlpha, alpha)
	}
	c.A = alpha
	return c.CSS(), nil
}

// CSS renders the color as rgba(r,g,b,a).
func (c RGBA) CSS() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Hex renders the color as #rrggbb, ignoring alpha.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// WithAlpha returns a copy of c with alpha a.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = max(0, min(1, a))
	return c
}

// Lerp interpolates linearly between c and o. t is clamped to [0,1].
func (c RGBA) Lerp(o RGBA, t float64) RGBA {
	t = max(0, min(1, t))
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return RGBA{
		R: mix(c.R, o.R),
		G: mix(c.G, o.G),
		B: mix(c.B, o.B),
		A: c.A + (o.A-c.A)*t,
	}
}

// Over composites c onto an opaque backdrop and returns an opaque color.
// Terminals have no alpha channel, so translucent colors are flattened this way.
func (c RGBA) Over(backdrop RGBA) RGBA {
	out := backdrop.Lerp(c.WithAlpha(1), c.A)
	out.A = 1
	return out
}
