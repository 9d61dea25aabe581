// Package notify sends desktop notifications when a track starts.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
)

// DefaultCooldown stops rapid toggling from flooding the desktop.
const DefaultCooldown = 5 * time.Second

var sendFunc = func(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Notifier sends now-playing notifications at most once per cooldown.
type Notifier struct {
	enabled  bool
	cooldown time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last time.Time
}

func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled, cooldown: DefaultCooldown, now: time.Now}
}

// Enabled reports whether notifications are sent at all.
func (n *Notifier) Enabled() bool {
	return n != nil && n.enabled
}

// NowPlaying announces a started track. It reports whether a notification
// went out.
func (n *Notifier) NowPlaying(title, artist string) bool {
	if !n.Enabled() {
		return false
	}
	n.mu.Lock()
	now := n.now()
	if !n.last.IsZero() && now.Sub(n.last) < n.cooldown {
		n.mu.Unlock()
		return false
	}
	n.last = now
	n.mu.Unlock()

	body := title
	if artist != "" {
		body = fmt.Sprintf("%s - %s", artist, title)
	}
	if err := sendFunc("Now playing", body); err != nil {
		slog.Warn("notification failed", "error", err)
		return false
	}
	return true
}
