package colors

import (
	"errors"
	"testing"
	"time"
)

func TestHexToRGBA(t *testing.T) {
	tests := []struct {
		hex   string
		alpha float64
		want  string
	}{
		{"#ffffff", 0.5, "rgba(255,255,255,0.5)"},
		{"#abc", 1, "rgba(170,187,204,1)"},
		{"000000", 0.2, "rgba(0,0,0,0.2)"},
		{"#FF6B6B", 0, "rgba(255,107,107,0)"},
	}

	for _, tc := range tests {
		got, err := HexToRGBA(tc.hex, tc.alpha)
		if err != nil {
			t.Fatalf("HexToRGBA(%q, %v) unexpected error: %v", tc.hex, tc.alpha, err)
		}
		if got != tc.want {
			t.Errorf("HexToRGBA(%q, %v) = %q, want %q", tc.hex, tc.alpha, got, tc.want)
		}
	}
}

func TestHexToRGBAErrors(t *testing.T) {
	tests := []struct {
		name  string
		hex   string
		alpha float64
		want  error
	}{
		{"too short", "#ab", 1, ErrInvalidHex},
		{"not hex", "#gggggg", 1, ErrInvalidHex},
		{"empty", "", 1, ErrInvalidHex},
		{"alpha above one", "#fff", 1.5, ErrInvalidAlpha},
		{"negative alpha", "#fff", -0.1, ErrInvalidAlpha},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HexToRGBA(tt.hex, tt.alpha)
			if !errors.Is(err, tt.want) {
				t.Errorf("HexToRGBA(%q, %v) error = %v, want %v", tt.hex, tt.alpha, err, tt.want)
			}
		})
	}
}

func TestLerpAndOver(t *testing.T) {
	mid := Black.Lerp(White, 0.5)
	if mid.R != 128 || mid.G != 128 || mid.B != 128 {
		t.Errorf("Black.Lerp(White, 0.5) = %+v, want 128 gray", mid)
	}

	red, _ := Parse("#ff0000")
	tinted := red.WithAlpha(0.2).Over(Black)
	if tinted.R != 51 || tinted.G != 0 || tinted.B != 0 || tinted.A != 1 {
		t.Errorf("20%% red over black = %+v, want {51 0 0 1}", tinted)
	}
}

func TestNewSequence(t *testing.T) {
	if _, err := NewSequence(); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("NewSequence() error = %v, want ErrEmptySequence", err)
	}

	tooMany := make([]string, MaxSequenceLength+1)
	for i := range tooMany {
		tooMany[i] = "#fff"
	}
	if _, err := NewSequence(tooMany...); !errors.Is(err, ErrSequenceTooLong) {
		t.Errorf("NewSequence(9 colors) error = %v, want ErrSequenceTooLong", err)
	}

	if _, err := NewSequence("#fff", "nope"); !errors.Is(err, ErrInvalidHex) {
		t.Errorf("NewSequence with bad color error = %v, want ErrInvalidHex", err)
	}

	if got := DefaultSequence().Len(); got != 5 {
		t.Errorf("DefaultSequence().Len() = %d, want 5", got)
	}
}

func TestGradientStops(t *testing.T) {
	seq, _ := NewSequence("#000", "#888", "#fff")
	stops := seq.GradientStops()
	wantOffsets := []float64{0, 0.5, 1}
	if len(stops) != len(wantOffsets) {
		t.Fatalf("got %d stops, want %d", len(stops), len(wantOffsets))
	}
	for i, st := range stops {
		if st.Offset != wantOffsets[i] {
			t.Errorf("stop %d offset = %v, want %v", i, st.Offset, wantOffsets[i])
		}
	}

	single, _ := NewSequence("#123456")
	if stops := single.GradientStops(); len(stops) != 1 || stops[0].Offset != 0 || stops[0].Color.Hex() != "#123456" {
		t.Errorf("single color stops = %+v, want one stop at 0", stops)
	}

	if stops := (Sequence{}).GradientStops(); len(stops) != 1 || stops[0].Color != White {
		t.Errorf("empty sequence stops = %+v, want one white stop", stops)
	}
}

func TestCycle(t *testing.T) {
	seq, _ := NewSequence("#000000", "#ffffff")

	if c := seq.Cycle(0, 1); c.Hex() != "#000000" {
		t.Errorf("Cycle(0) = %s, want #000000", c.Hex())
	}
	if c := seq.Cycle(AnimationPeriod, 1); c.Hex() != "#ffffff" {
		t.Errorf("Cycle(period) = %s, want #ffffff", c.Hex())
	}
	// Alternate direction: 1.5 periods is halfway back down.
	if c := seq.Cycle(AnimationPeriod*3/2, 1); c.R != 128 {
		t.Errorf("Cycle(1.5 periods).R = %d, want 128", c.R)
	}
	if c := seq.Cycle(2*AnimationPeriod, 0.2); c.Hex() != "#000000" || c.A != 0.2 {
		t.Errorf("Cycle(2 periods) = %+v, want black at 0.2", c)
	}

	single, _ := NewSequence("#ff0000")
	if c := single.Cycle(3*time.Second, 1); c.Hex() != "#ff0000" {
		t.Errorf("single color Cycle = %s, want #ff0000", c.Hex())
	}
}
