package access

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/centersguide/centersguide/internal/roles"
)

type fakeSub struct {
	mu      sync.Mutex
	state   roles.State
	ready   chan struct{}
	changed chan struct{}
	closes  atomic.Int32
}

func newFakeSub(state roles.State, ready bool) *fakeSub {
	s := &fakeSub{state: state, ready: make(chan struct{}), changed: make(chan struct{})}
	if ready {
		close(s.ready)
	}
	return s
}

func (s *fakeSub) Snapshot() roles.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *fakeSub) Ready() <-chan struct{} { return s.ready }

func (s *fakeSub) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

func (s *fakeSub) Close() { s.closes.Add(1) }

func (s *fakeSub) set(state roles.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	close(s.changed)
	s.changed = make(chan struct{})
}

type fakeWatcher struct {
	mu   sync.Mutex
	subs map[string]*fakeSub
	keys []string
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{subs: make(map[string]*fakeSub)}
}

func (w *fakeWatcher) put(key string, sub *fakeSub) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subs[key] = sub
}

func (w *fakeWatcher) Watch(key string) roles.Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.keys = append(w.keys, key)
	if key == "" {
		return roles.Resolved(roles.State{})
	}
	if sub, ok := w.subs[key]; ok {
		return sub
	}
	return roles.Resolved(roles.State{})
}

type fakeIdentity struct {
	identity Identity
}

func (f fakeIdentity) Identity(*http.Request) Identity { return f.identity }

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *countingRecorder) RecordAccess(policy, outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[policy+"/"+outcome]++
}
