package roles

import (
	"sync"
	"time"
)

// Hub shares one live subscription per user key across concurrent holders.
// A subscription released by its last holder lingers before it is closed.
type Hub struct {
	watcher Watcher
	linger  time.Duration

	mu      sync.Mutex
	entries map[string]*hubEntry
	closed  bool
}

type hubEntry struct {
	// sub is set once before opened is closed.
	sub    Subscription
	opened chan struct{}
	refs   int
	timer  *time.Timer
}

// NewHub wraps watcher with reference counted sharing.
func NewHub(watcher Watcher, linger time.Duration) *Hub {
	return &Hub{watcher: watcher, linger: linger, entries: make(map[string]*hubEntry)}
}

// Watch returns a lease on the shared subscription for key.
func (h *Hub) Watch(key string) Subscription {
	if key == "" {
		return h.watcher.Watch(key)
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return Resolved(State{})
	}
	entry, ok := h.entries[key]
	if !ok {
		entry = &hubEntry{opened: make(chan struct{})}
		h.entries[key] = entry
	}
	if entry.timer != nil {
		entry.timer.Stop()
		entry.timer = nil
	}
	entry.refs++
	h.mu.Unlock()

	// Opening happens outside the lock so a slow key never stalls the others.
	if ok {
		<-entry.opened
	} else {
		entry.sub = h.watcher.Watch(key)
		close(entry.opened)
	}
	return &lease{hub: h, key: key, entry: entry}
}

// Active reports how many keys currently hold an open subscription.
func (h *Hub) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Close releases every subscription regardless of outstanding leases.
func (h *Hub) Close() {
	h.mu.Lock()
	entries := h.entries
	h.entries = make(map[string]*hubEntry)
	h.closed = true
	for _, entry := range entries {
		if entry.timer != nil {
			entry.timer.Stop()
		}
	}
	h.mu.Unlock()
	for _, entry := range entries {
		<-entry.opened
		entry.sub.Close()
	}
}

func (h *Hub) release(key string, entry *hubEntry) {
	h.mu.Lock()
	if h.entries[key] != entry {
		h.mu.Unlock()
		return
	}
	entry.refs--
	if entry.refs > 0 {
		h.mu.Unlock()
		return
	}
	if h.linger <= 0 {
		delete(h.entries, key)
		h.mu.Unlock()
		entry.sub.Close()
		return
	}
	entry.timer = time.AfterFunc(h.linger, func() { h.expire(key, entry) })
	h.mu.Unlock()
}

func (h *Hub) expire(key string, entry *hubEntry) {
	h.mu.Lock()
	if h.entries[key] != entry || entry.refs > 0 {
		h.mu.Unlock()
		return
	}
	delete(h.entries, key)
	h.mu.Unlock()
	entry.sub.Close()
}

type lease struct {
	hub   *Hub
	key   string
	entry *hubEntry
	once  sync.Once
}

func (l *lease) Snapshot() State          { return l.entry.sub.Snapshot() }
func (l *lease) Ready() <-chan struct{}   { return l.entry.sub.Ready() }
func (l *lease) Changed() <-chan struct{} { return l.entry.sub.Changed() }

func (l *lease) Close() {
	l.once.Do(func() { l.hub.release(l.key, l.entry) })
}

var _ Watcher = (*Hub)(nil)
