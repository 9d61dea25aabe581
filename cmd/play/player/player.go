// Package player is one track's on-page player: a visualization canvas,
// a play/pause control and a time readout, all bound to one playback
// controller.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gigurra/wavepost/cmd/play/audio"
	"github.com/gigurra/wavepost/cmd/play/canvas"
	"github.com/gigurra/wavepost/cmd/play/colors"
	"github.com/gigurra/wavepost/cmd/play/playback"
	"github.com/gigurra/wavepost/cmd/play/render"
	"github.com/gigurra/wavepost/cmd/play/spectrum"
	"github.com/gigurra/wavepost/cmd/play/tracks"
	"github.com/gigurra/wavepost/cmd/play/waveform"
	"github.com/google/uuid"
)

// Status is where a player is in loading its source.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Visualization styles.
const (
	StyleWave = "wave"
	StyleBars = "bars"
)

// Options configures New. Zero values get defaults.
type Options struct {
	Registry  *playback.Registry
	Colors    colors.Sequence
	Style     string
	Cols      int
	Rows      int
	FPS       int
	Scheduler render.Scheduler

	Decode   func(ctx context.Context, src string) (*audio.Decoded, error)
	NewMedia func(dec *audio.Decoded) playback.Media
	Now      func() time.Time
}

// DecodedMsg carries a finished decode back to the player that asked for it.
type DecodedMsg struct {
	PlayerID string
	Gen      uint64
	Decoded  *audio.Decoded
	Err      error
}

// Player shows one track.
type Player struct {
	id       string
	track    tracks.Track
	opts     Options
	canvas   *canvas.Braille
	ctrl     *playback.Controller
	loop     *render.Loop
	analyzer *spectrum.Analyzer

	mu        sync.Mutex
	status    Status
	err       error
	decoded   *audio.Decoded
	profile   waveform.Profile
	gen       uint64
	mounted   bool
	cancel    context.CancelFunc
	animStart time.Time
}

// New builds an unmounted player for track.
func New(track tracks.Track, opts Options) *Player {
	if opts.Registry == nil {
		opts.Registry = playback.NewRegistry()
	}
	if opts.Colors.Len() == 0 {
		opts.Colors = colors.DefaultSequence()
	}
	if opts.Style == "" {
		opts.Style = StyleWave
	}
	opts.Cols = max(opts.Cols, 1)
	opts.Rows = max(opts.Rows, 1)
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Scheduler == nil {
		opts.Scheduler = render.NewTicker(opts.FPS)
	}
	if opts.Decode == nil {
		opts.Decode = audio.Load
	}
	if opts.NewMedia == nil {
		opts.NewMedia = playback.NewMedia
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	id := uuid.New().String()
	p := &Player{
		id:       id,
		track:    track,
		opts:     opts,
		canvas:   canvas.NewBraille(opts.Cols, opts.Rows),
		ctrl:     playback.NewController(track.Title+" ("+id[:8]+")", opts.Registry),
		analyzer: spectrum.NewAnalyzer(),
	}
	p.loop = render.NewLoop(opts.Scheduler, p.frame)
	return p
}

func (p *Player) ID() string { return p.id }

func (p *Player) Track() tracks.Track { return p.track }

func (p *Player) Controller() *playback.Controller { return p.ctrl }

// Status returns the load status and, for StatusFailed, the error.
func (p *Player) Status() (Status, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, p.err
}

// Mounted reports whether the player is live.
func (p *Player) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}

// Mount starts the render loop and returns the decode command. Mounting a
// mounted player returns nil.
func (p *Player) Mount(ctx context.Context) tea.Cmd {
	p.mu.Lock()
	if p.mounted {
		p.mu.Unlock()
		return nil
	}
	p.mounted = true
	p.gen++
	gen := p.gen
	p.status = StatusLoading
	p.err = nil
	ctx, p.cancel = context.WithCancel(ctx)
	p.animStart = p.opts.Now()
	p.mu.Unlock()

	p.loop.Start()

	src, id, decode := p.track.AudioSrc, p.id, p.opts.Decode
	return func() tea.Msg {
		dec, err := decode(ctx, src)
		return DecodedMsg{PlayerID: id, Gen: gen, Decoded: dec, Err: err}
	}
}

// HandleDecoded applies a decode result. It reports false for results meant
// for another player, an earlier mount, or an unmounted player.
func (p *Player) HandleDecoded(msg DecodedMsg) bool {
	p.mu.Lock()
	if msg.PlayerID != p.id || msg.Gen != p.gen || !p.mounted {
		p.mu.Unlock()
		return false
	}

	if msg.Err != nil || msg.Decoded == nil {
		err := msg.Err
		if err == nil {
			err = audio.ErrUnsupportedFormat
		}
		p.status = StatusFailed
		p.err = err
		p.mu.Unlock()
		if !errors.Is(err, context.Canceled) {
			slog.Error("decode failed", "player", p.id, "source", p.track.AudioSrc, "error", err)
		}
		return true
	}

	p.decoded = msg.Decoded
	p.status = StatusReady
	p.profile = waveform.Build(msg.Decoded, p.canvas.Width())
	p.mu.Unlock()

	p.ctrl.Attach(p.opts.NewMedia(msg.Decoded))
	slog.Info("decoded",
		"player", p.id,
		"source", p.track.AudioSrc,
		"format", string(msg.Decoded.Format),
		"duration", msg.Decoded.Duration.String(),
		"samples", msg.Decoded.SampleCount(),
	)
	return true
}

// Resize changes the canvas size in cells. The waveform is rebuilt when the
// pixel width changes.
func (p *Player) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	p.mu.Lock()
	defer p.mu.Unlock()
	if cols == p.canvas.Cols() && rows == p.canvas.Rows() {
		return
	}
	widthChanged := cols != p.canvas.Cols()
	p.canvas.Resize(cols, rows)
	if widthChanged && p.decoded != nil {
		p.profile = waveform.Build(p.decoded, p.canvas.Width())
	}
}

// TogglePlay plays or pauses. A rejected start is logged and returned; the
// player stays paused.
func (p *Player) TogglePlay() error {
	if err := p.ctrl.Toggle(); err != nil {
		slog.Warn("playback failed to start", "player", p.id, "error", err)
		return err
	}
	if p.ctrl.Playing() {
		slog.Info("playing", "player", p.id, "title", p.track.Title)
	}
	return nil
}

// SeekBy moves the position by d.
func (p *Player) SeekBy(d time.Duration) error {
	return p.ctrl.SeekBy(d)
}

// SeekPercent seeks to pct percent of the track.
func (p *Player) SeekPercent(pct int) error {
	return p.ctrl.SeekFraction(float64(min(max(pct, 0), 100)), 100)
}

// ClickAt seeks to the canvas cell column col, counted from the canvas's
// left edge. The centre of the cell is used.
func (p *Player) ClickAt(col int) error {
	cols := p.canvas.Cols()
	if col < 0 || col >= cols {
		return nil
	}
	x := float64(col*canvas.CellWidth) + float64(canvas.CellWidth)/2
	return p.ctrl.SeekFraction(x, float64(p.canvas.Width()))
}

// Unmount cancels the decode, stops drawing and releases the audio.
func (p *Player) Unmount() {
	p.mu.Lock()
	if !p.mounted {
		p.mu.Unlock()
		return
	}
	p.mounted = false
	p.gen++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.decoded = nil
	p.profile = waveform.Profile{}
	p.status = StatusIdle
	p.mu.Unlock()

	p.loop.Stop()
	if err := p.ctrl.Close(); err != nil {
		slog.Warn("closing media", "player", p.id, "error", err)
	}
}

// frame draws one frame. It runs on the render loop's goroutine.
func (p *Player) frame() {
	p.drawOn(p.canvas)
}

// drawOn renders the current scene onto c, reading the playback position
// from the controller.
func (p *Player) drawOn(c canvas.Canvas) {
	p.mu.Lock()
	profile, dec := p.profile, p.decoded
	p.mu.Unlock()

	state := p.ctrl.State()
	if state.Duration == 0 && dec != nil {
		state.Duration = dec.Duration
	}

	if p.opts.Style == StyleBars {
		var bins []float64
		if state.Playing && dec != nil {
			end := dec.SampleRate.N(state.Position)
			bins = p.analyzer.At(dec.Samples, end)
		} else {
			bins = p.analyzer.Analyze(nil)
		}
		render.DrawSpectrum(c, bins)
	} else {
		render.DrawWaveform(c, render.Scene{
			Profile:  profile,
			Position: state.Position,
			Duration: state.Duration,
			Colors:   p.opts.Colors,
		})
	}
	if pr, ok := c.(canvas.Presenter); ok {
		pr.Present()
	}
}

// Frames returns how many frames the render loop has drawn.
func (p *Player) Frames() uint64 { return p.loop.Frames() }

// elapsed is the animation clock, counted from mount.
func (p *Player) elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.animStart.IsZero() {
		return 0
	}
	return p.opts.Now().Sub(p.animStart)
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%ds", int(d/time.Second))
}
