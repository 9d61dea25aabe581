package playback

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrNotReady = errors.New("media not ready")
	ErrClosed   = errors.New("media closed")
)

// Event is something the media reports on its own, outside a controller call.
type Event int

const (
	// EventEnded fires when output reaches the end of the track.
	EventEnded Event = iota
	// EventPaused fires when output stops for a reason other than Pause.
	// The media in this package raise it when closed while playing.
	EventPaused
)

func (e Event) String() string {
	switch e {
	case EventEnded:
		return "ended"
	case EventPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Media is one playable track. Implementations must not call the listener
// while holding a lock a controller call could be waiting on.
type Media interface {
	// Start begins or resumes output. A track that has ended starts over.
	Start() error
	Pause()
	Seek(d time.Duration) error
	Position() time.Duration
	Duration() time.Duration
	// Listen registers the single event listener.
	Listen(fn func(Event))
	Close() error
}

// ClockMedia is a silent Media that advances with the wall clock. It stands
// in when there is no audio device.
type ClockMedia struct {
	mu       sync.Mutex
	duration time.Duration
	pos      time.Duration
	started  time.Time
	running  bool
	closed   bool
	timer    *time.Timer
	gen      uint64
	listener func(Event)

	now       func() time.Time
	afterFunc func(time.Duration, func()) *time.Timer
}

// NewClockMedia creates a stopped clock for a track of the given length.
func NewClockMedia(duration time.Duration) *ClockMedia {
	return &ClockMedia{
		duration:  max(duration, 0),
		now:       time.Now,
		afterFunc: time.AfterFunc,
	}
}

func (m *ClockMedia) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.running {
		return nil
	}
	if m.pos >= m.duration {
		m.pos = 0
	}
	m.running = true
	m.started = m.now()
	m.armLocked()
	return nil
}

func (m *ClockMedia) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.pos = m.positionLocked()
	m.running = false
	m.disarmLocked()
}

func (m *ClockMedia) Seek(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.pos = min(max(d, 0), m.duration)
	if m.running {
		m.started = m.now()
		m.disarmLocked()
		m.armLocked()
	}
	return nil
}

func (m *ClockMedia) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.positionLocked()
}

func (m *ClockMedia) Duration() time.Duration {
	return m.duration
}

func (m *ClockMedia) Listen(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = fn
}

// Close stops the clock for good. Closing a running clock reports
// EventPaused.
func (m *ClockMedia) Close() error {
	m.mu.Lock()
	wasRunning := m.running
	m.pos = m.positionLocked()
	m.running = false
	m.closed = true
	m.disarmLocked()
	listener := m.listener
	m.mu.Unlock()

	if wasRunning && listener != nil {
		listener(EventPaused)
	}
	return nil
}

func (m *ClockMedia) positionLocked() time.Duration {
	if !m.running {
		return m.pos
	}
	return min(m.pos+m.now().Sub(m.started), m.duration)
}

func (m *ClockMedia) armLocked() {
	m.gen++
	gen := m.gen
	m.timer = m.afterFunc(m.duration-m.pos, func() { m.ended(gen) })
}

func (m *ClockMedia) disarmLocked() {
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *ClockMedia) ended(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || !m.running {
		m.mu.Unlock()
		return
	}
	m.pos = m.duration
	m.running = false
	m.timer = nil
	listener := m.listener
	m.mu.Unlock()

	if listener != nil {
		listener(EventEnded)
	}
}
