// Package render drives the per-player frame loop and paints frames onto a
// canvas.
package render

import (
	"sync"
	"time"
)

// Scheduler runs fn once on its next tick. The returned function cancels a
// pending run; calling it after fn has run is harmless.
type Scheduler interface {
	Schedule(fn func()) (cancel func())
}

// Ticker schedules frames on a wall-clock interval, one timer per frame.
type Ticker struct {
	Interval time.Duration
}

// NewTicker returns a Ticker for the given frame rate. fps is clamped to [1,120].
func NewTicker(fps int) Ticker {
	fps = max(1, min(fps, 120))
	return Ticker{Interval: time.Second / time.Duration(fps)}
}

func (t Ticker) Schedule(fn func()) func() {
	timer := time.AfterFunc(t.Interval, fn)
	return func() { timer.Stop() }
}

// Manual queues scheduled functions until Tick is called. Tests use it to
// step frames without a clock.
type Manual struct {
	mu      sync.Mutex
	pending map[uint64]func()
	next    uint64
}

func NewManual() *Manual {
	return &Manual{pending: make(map[uint64]func())}
}

func (m *Manual) Schedule(fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next
	m.next++
	m.pending[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.pending, id)
	}
}

// Pending returns how many functions wait for the next tick.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Tick runs everything scheduled before the call. Functions scheduled while
// ticking wait for the following tick.
func (m *Manual) Tick() int {
	m.mu.Lock()
	due := m.pending
	m.pending = make(map[uint64]func())
	m.mu.Unlock()

	for _, fn := range due {
		fn()
	}
	return len(due)
}

// Loop runs a frame function once per scheduler tick, rescheduling itself
// after every frame until stopped. Frames never overlap.
type Loop struct {
	sched Scheduler
	frame func()

	mu      sync.Mutex
	running bool
	gen     uint64
	cancel  func()
	frames  uint64

	// frameMu is held while a frame executes so Stop can wait it out.
	frameMu sync.Mutex
}

// NewLoop creates a stopped loop. frame must not call Stop.
func NewLoop(sched Scheduler, frame func()) *Loop {
	return &Loop{sched: sched, frame: frame}
}

// Start runs the first frame on the next tick. Starting a running loop is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	l.running = true
	l.gen++
	l.scheduleLocked(l.gen)
}

// Stop cancels the pending frame and waits for an in-flight frame to finish.
// No frame runs after Stop returns.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()

	l.frameMu.Lock()
	//nolint:staticcheck // empty critical section waits for the running frame
	l.frameMu.Unlock()
}

// Running reports whether the loop is scheduled.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Frames returns how many frames have executed.
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

func (l *Loop) scheduleLocked(gen uint64) {
	l.cancel = l.sched.Schedule(func() { l.tick(gen) })
}

func (l *Loop) tick(gen uint64) {
	l.frameMu.Lock()
	defer l.frameMu.Unlock()

	l.mu.Lock()
	if !l.running || gen != l.gen {
		l.mu.Unlock()
		return
	}
	l.frames++
	l.mu.Unlock()

	l.frame()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running && gen == l.gen {
		l.scheduleLocked(gen)
	}
}
