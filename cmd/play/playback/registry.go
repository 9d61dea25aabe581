// Package playback controls audio output for the players on a page and makes
// sure only one of them is audible at a time.
package playback

import "sync"

// Holder is anything that can own the page's single playback slot.
type Holder interface {
	// Displace is called, under the registry lock, on the current holder
	// when another one takes the slot. It must stop output.
	Displace()
}

// Registry tracks which holder, if any, is currently playing. One registry
// is shared by every controller on a page.
type Registry struct {
	mu      sync.Mutex
	current Holder
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Acquire makes h the holder. A different previous holder is displaced
// first, then start runs; if start fails the slot is left empty. The whole
// exchange happens under the registry lock.
func (r *Registry) Acquire(h Holder, start func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev := r.current; prev != nil && prev != h {
		prev.Displace()
		r.current = nil
	}
	if start != nil {
		if err := start(); err != nil {
			if r.current == h {
				r.current = nil
			}
			return err
		}
	}
	r.current = h
	return nil
}

// Release empties the slot if h holds it and runs stop under the registry
// lock either way. It reports whether h was the holder.
func (r *Registry) Release(h Holder, stop func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	held := r.current == h
	if held {
		r.current = nil
	}
	if stop != nil {
		stop()
	}
	return held
}

// Current returns the holder, or nil.
func (r *Registry) Current() Holder {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
