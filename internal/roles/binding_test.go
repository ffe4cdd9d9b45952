package roles

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countedSub struct {
	key    string
	state  State
	closes atomic.Int32
}

func (s *countedSub) Snapshot() State          { return s.state }
func (s *countedSub) Ready() <-chan struct{}   { return closedCh }
func (s *countedSub) Changed() <-chan struct{} { return neverCh }
func (s *countedSub) Close()                   { s.closes.Add(1) }

type countingWatcher struct {
	mu     sync.Mutex
	states map[string]State
	opened []*countedSub
}

func (w *countingWatcher) Watch(key string) Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()
	sub := &countedSub{key: key, state: w.states[key]}
	w.opened = append(w.opened, sub)
	return sub
}

func (w *countingWatcher) subs() []*countedSub {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*countedSub(nil), w.opened...)
}

func TestBindingRebindsOnKeyChange(t *testing.T) {
	watcher := &countingWatcher{states: map[string]State{
		"u1": {Role: CenterAdmin, CenterID: 4},
		"u2": {Role: User},
	}}
	binding := NewBinding(watcher)

	first := binding.Bind("u1")
	assert.Equal(t, CenterAdmin, first.Snapshot().Role)
	assert.Same(t, first, binding.Bind("u1"), "same key keeps the subscription")

	second := binding.Bind("u2")
	assert.Equal(t, User, second.Snapshot().Role)

	opened := watcher.subs()
	require.Len(t, opened, 2)
	assert.Equal(t, "u1", opened[0].key)
	assert.Equal(t, int32(1), opened[0].closes.Load())
	assert.Equal(t, "u2", opened[1].key)
	assert.Equal(t, int32(0), opened[1].closes.Load())

	binding.Close()
	binding.Close()
	assert.Equal(t, int32(1), opened[0].closes.Load())
	assert.Equal(t, int32(1), opened[1].closes.Load())
}

func TestBindingAfterClose(t *testing.T) {
	watcher := &countingWatcher{}
	binding := NewBinding(watcher)
	binding.Close()

	sub := binding.Bind("u1")
	assert.Equal(t, State{}, sub.Snapshot())
	assert.Empty(t, watcher.subs())
	assert.Equal(t, State{}, binding.Snapshot())
}

func TestResolverEmptyKeyResolvesImmediately(t *testing.T) {
	resolver := NewResolver(nil, nil, nil)
	sub := resolver.Watch("")
	select {
	case <-sub.Ready():
	default:
		t.Fatal("empty key must be ready immediately")
	}
	assert.Equal(t, State{}, sub.Snapshot())
	sub.Close()
}
