package canvas

import "sync"

// OpKind identifies a recorded drawing operation.
type OpKind int

const (
	OpClear OpKind = iota
	OpStroke
	OpFillRect
	OpPresent
)

// Op is one recorded drawing call. Path is set for strokes, Rect and Paint
// for filled rectangles.
type Op struct {
	Kind  OpKind
	Path  []Point
	Style Style
	Rect  [4]float64
	Paint Paint
}

// Recorder is a Canvas that records what is drawn on it instead of
// rasterizing. It exists for tests that inspect frames without a terminal.
type Recorder struct {
	mu     sync.Mutex
	width  int
	height int
	path   []Point
	ops    []Op
}

// NewRecorder creates a recorder of the given pixel size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

// Resize changes the reported size.
func (r *Recorder) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
}

func (r *Recorder) Width() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width
}

func (r *Recorder) Height() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.height
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: OpClear})
}

func (r *Recorder) BeginPath() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.path = nil
}

func (r *Recorder) MoveTo(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.path = append(r.path, Point{X: x, Y: y, Move: true})
}

func (r *Recorder) LineTo(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.path = append(r.path, Point{X: x, Y: y, Move: len(r.path) == 0})
}

func (r *Recorder) Stroke(style Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: OpStroke, Path: append([]Point(nil), r.path...), Style: style})
}

func (r *Recorder) FillRect(x, y, w, h float64, paint Paint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: OpFillRect, Rect: [4]float64{x, y, w, h}, Paint: paint})
}

func (r *Recorder) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: OpPresent})
}

// Ops returns a copy of everything recorded so far.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.ops...)
}

// LastFrame returns the operations since the most recent Clear.
func (r *Recorder) LastFrame() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.ops) - 1; i >= 0; i-- {
		if r.ops[i].Kind == OpClear {
			return append([]Op(nil), r.ops[i:]...)
		}
	}
	return nil
}

// Reset forgets all recorded operations.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = nil
}

// Strokes filters ops down to strokes.
func Strokes(ops []Op) []Op {
	var out []Op
	for _, op := range ops {
		if op.Kind == OpStroke {
			out = append(out, op)
		}
	}
	return out
}
