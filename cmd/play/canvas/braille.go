package canvas

import (
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/gigurra/wavepost/cmd/play/colors"
)

// Each terminal cell holds a 2x4 braille dot matrix.
const (
	CellWidth  = 2
	CellHeight = 4
)

// dotBits maps a dot at (x, y) within a cell to its braille bit.
var dotBits = [CellHeight][CellWidth]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type dot struct {
	stamp uint32 // paint order, 0 means unset
	color colors.RGBA
}

// Braille is a Canvas rendered as colored braille characters. It is double
// buffered: drawing goes to a back buffer and Present makes it visible to
// Render. All methods are safe for concurrent use.
type Braille struct {
	mu     sync.Mutex
	cols   int
	rows   int
	back   []dot
	front  []dot
	path   []Point
	stamp  uint32
	styles map[colors.RGBA]lipgloss.Style
}

// NewBraille creates a canvas of cols x rows terminal cells.
func NewBraille(cols, rows int) *Braille {
	b := &Braille{styles: make(map[colors.RGBA]lipgloss.Style)}
	b.Resize(cols, rows)
	return b
}

// Resize changes the cell size and blanks both buffers.
func (b *Braille) Resize(cols, rows int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cols = max(cols, 0)
	b.rows = max(rows, 0)
	n := b.cols * CellWidth * b.rows * CellHeight
	b.back = make([]dot, n)
	b.front = make([]dot, n)
	b.path = nil
}

// Cols returns the width in terminal cells.
func (b *Braille) Cols() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cols
}

// Rows returns the height in terminal cells.
func (b *Braille) Rows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rows
}

func (b *Braille) Width() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cols * CellWidth
}

func (b *Braille) Height() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rows * CellHeight
}

func (b *Braille) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.back)
	b.stamp = 0
}

func (b *Braille) BeginPath() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.path = b.path[:0]
}

func (b *Braille) MoveTo(x, y float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.path = append(b.path, Point{X: x, Y: y, Move: true})
}

func (b *Braille) LineTo(x, y float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.path) == 0 {
		b.path = append(b.path, Point{X: x, Y: y, Move: true})
		return
	}
	b.path = append(b.path, Point{X: x, Y: y})
}

// Stroke rasterizes the current path. Line widths of 3 and above are drawn
// two dots thick, thinner lines one dot.
func (b *Braille) Stroke(style Style) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if style.Paint == nil {
		style.Paint = Solid(colors.White)
	}
	thickness := 1
	if style.LineWidth >= 3 {
		thickness = 2
	}
	b.stamp++
	for i, p := range b.path {
		if p.Move {
			if i+1 == len(b.path) || b.path[i+1].Move {
				b.plot(p.X, p.Y, thickness, style.Paint)
			}
			continue
		}
		prev := b.path[i-1]
		b.line(prev.X, prev.Y, p.X, p.Y, thickness, style.Paint)
	}
}

func (b *Braille) FillRect(x, y, w, h float64, paint Paint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if w <= 0 || h <= 0 {
		return
	}
	b.stamp++
	width, height := b.cols*CellWidth, b.rows*CellHeight
	x0, x1 := max(0, int(math.Floor(x))), min(width, int(math.Ceil(x+w)))
	y0, y1 := max(0, int(math.Floor(y))), min(height, int(math.Ceil(y+h)))
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			b.back[py*width+px] = dot{stamp: b.stamp, color: paint.ColorAt(float64(px))}
		}
	}
}

// Present publishes the back buffer.
func (b *Braille) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()
	copy(b.front, b.back)
}

// Render returns the presented frame as rows of colored braille runes.
func (b *Braille) Render() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	width := b.cols * CellWidth
	lines := make([]string, b.rows)
	for row := range b.rows {
		var sb strings.Builder
		var run strings.Builder
		var runColor colors.RGBA
		runColored := false

		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColored {
				sb.WriteString(b.styleFor(runColor).Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			run.Reset()
		}

		for col := range b.cols {
			var bits rune
			var top dot
			for dy := range CellHeight {
				for dx := range CellWidth {
					d := b.front[(row*CellHeight+dy)*width+col*CellWidth+dx]
					if d.stamp == 0 {
						continue
					}
					bits |= dotBits[dy][dx]
					if d.stamp >= top.stamp {
						top = d
					}
				}
			}

			colored := bits != 0
			if colored != runColored || (colored && top.color != runColor) {
				flush()
				runColored = colored
				runColor = top.color
			}
			if bits == 0 {
				run.WriteRune(' ')
			} else {
				run.WriteRune(0x2800 + bits)
			}
		}
		flush()
		lines[row] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func (b *Braille) styleFor(c colors.RGBA) lipgloss.Style {
	c = c.Over(colors.Black)
	if s, ok := b.styles[c]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	b.styles[c] = s
	return s
}

// line draws a segment with a simple DDA over the longer axis.
func (b *Braille) line(x0, y0, x1, y1 float64, thickness int, paint Paint) {
	dx, dy := x1-x0, y1-y0
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		b.plot(x0, y0, thickness, paint)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		b.plot(x0+dx*t, y0+dy*t, thickness, paint)
	}
}

// plot sets the dot under (x, y), clamping y onto the canvas so that a zero
// amplitude drawn at y == height stays visible on the bottom row.
func (b *Braille) plot(x, y float64, thickness int, paint Paint) {
	width, height := b.cols*CellWidth, b.rows*CellHeight
	if width == 0 || height == 0 {
		return
	}
	px := int(math.Floor(x))
	if px < 0 || px >= width {
		return
	}
	py := min(max(int(math.Floor(y)), 0), height-1)
	c := paint.ColorAt(x)
	for k := range thickness {
		ty := py - k
		if ty < 0 {
			break
		}
		b.back[ty*width+px] = dot{stamp: b.stamp, color: c}
	}
}
