package roles

import "sync"

// Binding ties a role subscription to the identity currently in scope.
// Changing the key releases the previous subscription before acquiring the next;
// Close releases whatever is held.
type Binding struct {
	watcher Watcher

	mu     sync.Mutex
	key    string
	sub    Subscription
	closed bool
}

// NewBinding returns an unbound Binding.
func NewBinding(watcher Watcher) *Binding {
	return &Binding{watcher: watcher}
}

// Bind points the binding at key and returns the live subscription.
func (b *Binding) Bind(key string) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return Resolved(State{})
	}
	if b.sub != nil && b.key == key {
		return b.sub
	}
	if b.sub != nil {
		b.sub.Close()
		b.sub = nil
	}
	b.key = key
	b.sub = b.watcher.Watch(key)
	return b.sub
}

// Snapshot reports the state of the bound subscription, or no role when unbound.
func (b *Binding) Snapshot() State {
	b.mu.Lock()
	sub := b.sub
	b.mu.Unlock()
	if sub == nil {
		return State{}
	}
	return sub.Snapshot()
}

// Close releases the bound subscription. Further Bind calls resolve to no role.
func (b *Binding) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	if b.sub != nil {
		b.sub.Close()
		b.sub = nil
	}
}
