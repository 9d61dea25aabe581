//go:build (linux && cgo) || windows || darwin

package playback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gigurra/wavepost/cmd/play/audio"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// AudioAvailable indicates whether this build can drive a sound device.
const AudioAvailable = true

const speakerRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// initSpeaker opens the output device once per process.
func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(speakerRate, speakerRate.N(time.Second/10))
	})
	return speakerErr
}

// NewMedia returns speaker output for dec, or a silent clock when no
// device can be opened.
func NewMedia(dec *audio.Decoded) Media {
	if dec == nil || dec.Buffer == nil {
		return NewClockMedia(0)
	}
	if err := initSpeaker(); err != nil {
		slog.Warn("audio output unavailable, playing silently", "error", err)
		return NewClockMedia(dec.Duration)
	}
	return newSpeakerMedia(dec.Buffer)
}

// speakerMedia plays a decoded buffer through the shared beep mixer.
type speakerMedia struct {
	mu       sync.Mutex
	buf      *beep.Buffer
	streamer beep.StreamSeeker
	ctrl     *beep.Ctrl
	queued   bool
	closed   bool
	gen      uint64
	listener func(Event)
}

func newSpeakerMedia(buf *beep.Buffer) *speakerMedia {
	return &speakerMedia{
		buf:      buf,
		streamer: buf.Streamer(0, buf.Len()),
	}
}

func (m *speakerMedia) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	if m.queued {
		speaker.Lock()
		m.ctrl.Paused = false
		speaker.Unlock()
		return nil
	}

	if m.streamer.Position() >= m.streamer.Len() {
		if err := m.streamer.Seek(0); err != nil {
			return err
		}
	}

	m.gen++
	gen := m.gen
	m.ctrl = &beep.Ctrl{Streamer: beep.Resample(4, m.buf.Format().SampleRate, speakerRate, m.streamer)}
	m.queued = true
	speaker.Play(beep.Seq(m.ctrl, beep.Callback(func() {
		// The mixer holds the speaker lock here.
		go m.ended(gen)
	})))
	return nil
}

func (m *speakerMedia) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl != nil {
		speaker.Lock()
		m.ctrl.Paused = true
		speaker.Unlock()
	}
}

func (m *speakerMedia) Seek(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	n := min(max(m.buf.Format().SampleRate.N(d), 0), m.streamer.Len())

	speaker.Lock()
	defer speaker.Unlock()
	return m.streamer.Seek(n)
}

func (m *speakerMedia) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	speaker.Lock()
	pos := m.streamer.Position()
	speaker.Unlock()
	return m.buf.Format().SampleRate.D(pos)
}

func (m *speakerMedia) Duration() time.Duration {
	return m.buf.Format().SampleRate.D(m.buf.Len())
}

func (m *speakerMedia) Listen(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = fn
}

// Close detaches from the mixer. The pending end callback is ignored.
func (m *speakerMedia) Close() error {
	m.mu.Lock()
	wasPlaying := false
	m.closed = true
	m.gen++
	if m.ctrl != nil {
		speaker.Lock()
		wasPlaying = !m.ctrl.Paused
		m.ctrl.Streamer = nil
		speaker.Unlock()
	}
	m.ctrl = nil
	m.queued = false
	listener := m.listener
	m.mu.Unlock()

	if wasPlaying && listener != nil {
		go listener(EventPaused)
	}
	return nil
}

func (m *speakerMedia) ended(gen uint64) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.queued = false
	m.ctrl = nil
	listener := m.listener
	m.mu.Unlock()

	if listener != nil {
		listener(EventEnded)
	}
}
