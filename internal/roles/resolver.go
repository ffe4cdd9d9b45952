package roles

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Subscription is a live view of one user's role.
type Subscription interface {
	// Snapshot returns the current state. Loading stays true until the first lookup completes.
	Snapshot() State
	// Ready is closed once the first lookup has completed.
	Ready() <-chan struct{}
	// Changed returns a channel closed on the next snapshot change.
	Changed() <-chan struct{}
	// Close releases the subscription. Safe to call more than once.
	Close()
}

// Watcher opens role subscriptions keyed by user.
type Watcher interface {
	Watch(key string) Subscription
}

// Lookuper is the read side of Repository used by Resolver.
type Lookuper interface {
	Lookup(ctx context.Context, userID int64) (Assignment, error)
}

// ChangeChannel names the Redis channel announcing role changes for a user key.
func ChangeChannel(key string) string {
	return "roles:changed:" + key
}

// Resolver opens live role subscriptions backed by the repository and Redis pub/sub.
type Resolver struct {
	repo   Lookuper
	client *redis.Client
	logger *slog.Logger
}

// NewResolver constructs a Resolver. A nil client disables live updates.
func NewResolver(repo Lookuper, client *redis.Client, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{repo: repo, client: client, logger: logger}
}

// Watch subscribes to the role of key. An empty key resolves immediately to no role.
func (r *Resolver) Watch(key string) Subscription {
	key = strings.TrimSpace(key)
	if key == "" {
		return Resolved(State{})
	}
	ctx, cancel := context.WithCancel(context.Background())
	sub := &liveSubscription{
		state:   State{Loading: true},
		ready:   make(chan struct{}),
		changed: make(chan struct{}),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go r.run(ctx, key, sub)
	return sub
}

// run owns all network I/O of a subscription so Watch returns immediately.
func (r *Resolver) run(ctx context.Context, key string, sub *liveSubscription) {
	defer close(sub.done)
	var messages <-chan *redis.Message
	if r.client != nil {
		pubsub := r.client.Subscribe(ctx, ChangeChannel(key))
		defer func() { _ = pubsub.Close() }()
		// Confirm the subscription before the first lookup so no change slips between them.
		if _, err := pubsub.Receive(ctx); err != nil {
			if ctx.Err() == nil {
				r.logger.Warn("role subscription", slog.String("user", key), slog.Any("error", err))
			}
		} else {
			messages = pubsub.Channel()
		}
	}
	sub.publish(r.load(ctx, key))
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-messages:
			if !ok {
				messages = nil
				continue
			}
			sub.publish(r.load(ctx, key))
		}
	}
}

// load never fails: lookup errors resolve to no role.
func (r *Resolver) load(ctx context.Context, key string) State {
	userID, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		r.logger.Error("role lookup parse user", slog.String("user", key))
		return State{}
	}
	assignment, err := r.repo.Lookup(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && ctx.Err() == nil {
			r.logger.Error("role lookup", slog.String("user", key), slog.Any("error", err))
		}
		return State{}
	}
	state := State{Role: assignment.Role}
	if assignment.CenterID != nil {
		state.CenterID = *assignment.CenterID
	}
	return state
}

type liveSubscription struct {
	mu       sync.Mutex
	state    State
	ready    chan struct{}
	resolved bool
	changed  chan struct{}
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
}

func (s *liveSubscription) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *liveSubscription) Ready() <-chan struct{} {
	return s.ready
}

func (s *liveSubscription) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

func (s *liveSubscription) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

func (s *liveSubscription) publish(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	if !s.resolved {
		s.resolved = true
		close(s.ready)
	}
	close(s.changed)
	s.changed = make(chan struct{})
}

var (
	closedCh = func() chan struct{} {
		ch := make(chan struct{})
		close(ch)
		return ch
	}()
	neverCh = make(chan struct{})
)

type staticSubscription struct {
	state State
}

// Resolved returns a subscription fixed at state.
func Resolved(state State) Subscription {
	return staticSubscription{state: state}
}

func (s staticSubscription) Snapshot() State          { return s.state }
func (s staticSubscription) Ready() <-chan struct{}   { return closedCh }
func (s staticSubscription) Changed() <-chan struct{} { return neverCh }
func (s staticSubscription) Close()                   {}

var _ Watcher = (*Resolver)(nil)
