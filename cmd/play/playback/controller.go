package playback

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
)

// State is a snapshot of one controller.
type State struct {
	Playing  bool
	Position time.Duration
	Duration time.Duration
}

// Controller plays, pauses and seeks one player's media. Controllers sharing
// a Registry never play at the same time.
//
// Locks are always taken registry first, controller second.
type Controller struct {
	name string
	reg  *Registry

	mu      sync.Mutex
	media   Media
	playing bool
}

// NewController creates a controller with no media attached. name is only
// used in log lines.
func NewController(name string, reg *Registry) *Controller {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Controller{name: name, reg: reg}
}

// Attach replaces the media. Any previous media is stopped and closed.
func (c *Controller) Attach(m Media) {
	var old Media
	c.reg.Release(c, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		old = c.media
		if old != nil {
			old.Pause()
		}
		c.playing = false
		c.media = m
	})
	if old != nil {
		_ = old.Close()
	}
	if m != nil {
		m.Listen(func(ev Event) { c.handleEvent(m, ev) })
	}
}

// Ready reports whether media is attached.
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.media != nil
}

// Play pauses whoever holds the registry, starts this media and takes the
// slot. A start failure leaves the controller paused without the slot and
// is returned to the caller.
func (c *Controller) Play() error {
	return c.reg.Acquire(c, func() error {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.media == nil {
			c.playing = false
			return ErrNotReady
		}
		if err := c.media.Start(); err != nil {
			c.playing = false
			return fmt.Errorf("start %s: %w", c.name, err)
		}
		c.playing = true
		return nil
	})
}

// Pause stops output and gives up the slot.
func (c *Controller) Pause() {
	c.reg.Release(c, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.pauseLocked()
	})
}

// Toggle plays when paused and pauses when playing.
func (c *Controller) Toggle() error {
	if c.Playing() {
		c.Pause()
		return nil
	}
	return c.Play()
}

// Seek moves to t clamped to [0,duration]. Playing state is unchanged.
func (c *Controller) Seek(t time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.media == nil {
		return ErrNotReady
	}
	t = min(max(t, 0), c.media.Duration())
	return c.media.Seek(t)
}

// SeekBy moves relative to the current position.
func (c *Controller) SeekBy(d time.Duration) error {
	c.mu.Lock()
	m := c.media
	c.mu.Unlock()
	if m == nil {
		return ErrNotReady
	}
	return c.Seek(m.Position() + d)
}

// SeekFraction seeks to x/width of the track. It does nothing without
// media, a width or a duration.
func (c *Controller) SeekFraction(x, width float64) error {
	if width <= 0 {
		return nil
	}
	c.mu.Lock()
	m := c.media
	c.mu.Unlock()
	if m == nil || m.Duration() <= 0 {
		return nil
	}
	return c.Seek(time.Duration(math.Round(x / width * float64(m.Duration()))))
}

// Playing reports whether output is running.
func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Position is read from the media on every call.
func (c *Controller) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.media == nil {
		return 0
	}
	return c.media.Position()
}

// Duration is zero until media is attached.
func (c *Controller) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.media == nil {
		return 0
	}
	return c.media.Duration()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{Playing: c.playing}
	if c.media != nil {
		s.Position = c.media.Position()
		s.Duration = c.media.Duration()
	}
	return s
}

// Close pauses, releases the slot and closes the media.
func (c *Controller) Close() error {
	var m Media
	c.reg.Release(c, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.pauseLocked()
		m = c.media
		c.media = nil
	})
	if m == nil {
		return nil
	}
	return m.Close()
}

// Displace implements Holder.
func (c *Controller) Displace() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked()
}

func (c *Controller) pauseLocked() {
	if c.media != nil {
		c.media.Pause()
	}
	c.playing = false
}

func (c *Controller) handleEvent(from Media, ev Event) {
	c.mu.Lock()
	current := c.media == from
	c.mu.Unlock()
	if !current {
		return
	}
	slog.Debug("playback event", "player", c.name, "event", ev.String())
	c.Pause()
}
