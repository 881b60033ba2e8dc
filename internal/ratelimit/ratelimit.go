// Package ratelimit implements a per-key fixed-window counter. Each key gets
// at most `limit` grants per window; idle keys are garbage-collected after
// an expiration period so the map stays bounded.
package ratelimit

import (
	"sync"
	"time"
)

// window counts grants for a single key.
type window struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
	timer       *time.Timer
	key         string
	parent      *KeyedLimiter
}

// KeyedLimiter manages independent windows per identity key.
type KeyedLimiter struct {
	mu         sync.RWMutex
	windows    map[string]*window
	limit      int
	windowSize time.Duration
	expiration time.Duration
}

func New(limit int, windowSize, expiration time.Duration) *KeyedLimiter {
	return &KeyedLimiter{
		windows:    make(map[string]*window),
		limit:      limit,
		windowSize: windowSize,
		expiration: expiration,
	}
}

// cleanup removes a specific window
func (kl *KeyedLimiter) cleanup(key string) {
	kl.mu.Lock()
	delete(kl.windows, key)
	kl.mu.Unlock()
}

// resetTimer pushes back the expiration of an active window's key.
// Callers must hold w.mu: the timer field is guarded by the window's own
// lock so concurrent grants for one key cannot lose a Stop and leave a
// stale expiry firing mid-window.
func (w *window) resetTimer() {
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.parent.expiration, func() {
		w.parent.cleanup(w.key)
	})
}

// getWindow gets or creates the counter for a key.
func (kl *KeyedLimiter) getWindow(key string) *window {
	kl.mu.RLock()
	w, exists := kl.windows[key]
	kl.mu.RUnlock()

	if exists {
		return w
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()

	// Double-check after acquiring write lock
	w, exists = kl.windows[key]
	if exists {
		return w
	}

	w = &window{
		windowStart: time.Now(),
		key:         key,
		parent:      kl,
	}
	kl.windows[key] = w

	return w
}

func (w *window) allow(limit int, size time.Duration) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.resetTimer()

	now := time.Now()
	if now.Sub(w.windowStart) >= size {
		w.windowStart = now
		w.count = 0
	}

	if w.count >= limit {
		return false
	}
	w.count++
	return true
}

// Allow reports whether a request for the given key fits in the current
// window. Counting is atomic per key, so concurrent callers cannot push a
// key past the limit.
func (kl *KeyedLimiter) Allow(key string) bool {
	return kl.getWindow(key).allow(kl.limit, kl.windowSize)
}

// Stop cleans up all timers
func (kl *KeyedLimiter) Stop() {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	for _, w := range kl.windows {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	}
}
