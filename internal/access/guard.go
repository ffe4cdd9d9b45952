package access

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/centersguide/centersguide/internal/roles"
	"github.com/centersguide/centersguide/internal/shared"
)

// IdentityProvider reports who is making a request.
type IdentityProvider interface {
	Identity(r *http.Request) Identity
}

// SessionIdentity reads the signed-in user from the request session.
type SessionIdentity struct{}

// Identity implements IdentityProvider.
func (SessionIdentity) Identity(r *http.Request) Identity {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return Identity{}
	}
	return Identity{User: sess.User()}
}

// Recorder observes guard outcomes.
type Recorder interface {
	RecordAccess(policy, outcome string)
}

// GuardConfig wires a Guard.
type GuardConfig struct {
	Watcher    roles.Watcher
	Identities IdentityProvider
	// Settle bounds how long a request waits for the first role snapshot before answering Pending.
	Settle   time.Duration
	Pending  http.Handler
	Recorder Recorder
	Logger   *slog.Logger
}

// Guard enforces policies on HTTP routes.
type Guard struct {
	watcher    roles.Watcher
	identities IdentityProvider
	settle     time.Duration
	pending    http.Handler
	recorder   Recorder
	logger     *slog.Logger
}

// NewGuard builds a Guard from cfg, filling defaults.
func NewGuard(cfg GuardConfig) *Guard {
	g := &Guard{
		watcher:    cfg.Watcher,
		identities: cfg.Identities,
		settle:     cfg.Settle,
		pending:    cfg.Pending,
		recorder:   cfg.Recorder,
		logger:     cfg.Logger,
	}
	if g.identities == nil {
		g.identities = SessionIdentity{}
	}
	if g.pending == nil {
		g.pending = http.HandlerFunc(pendingPage)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Require admits requests allowed by policy and redirects the rest.
func (g *Guard) Require(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := g.identities.Identity(r)
			binding := roles.NewBinding(g.watcher)
			defer binding.Close()

			sub := binding.Bind(identity.User)
			g.await(r.Context(), sub)
			role := sub.Snapshot()

			outcome := Decide(identity, role, policy, r.URL.RequestURI())
			g.record(policy, outcome)
			switch outcome.Kind {
			case Pending:
				g.pending.ServeHTTP(w, r)
			case Unauthenticated, Unauthorized:
				if outcome.Kind == Unauthorized {
					g.logger.Info("access denied", slog.String("policy", policy.Name), slog.String("user", identity.User), slog.String("role", role.Role.String()), slog.String("path", r.URL.Path))
				}
				http.Redirect(w, r, outcome.Location(), http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r.WithContext(ContextWithRole(r.Context(), role)))
			}
		})
	}
}

func (g *Guard) await(ctx context.Context, sub roles.Subscription) {
	select {
	case <-sub.Ready():
		return
	default:
	}
	if g.settle <= 0 {
		return
	}
	timer := time.NewTimer(g.settle)
	defer timer.Stop()
	select {
	case <-sub.Ready():
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (g *Guard) record(policy Policy, outcome Outcome) {
	if g.recorder == nil {
		return
	}
	g.recorder.RecordAccess(policy.Name, outcome.Kind.String())
}

func pendingPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Refresh", "2")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(`<!doctype html><title>Loading</title><p>Loading&hellip;</p>`))
}

type roleContextKey struct{}

// ContextWithRole stores the role snapshot admitted by the guard.
func ContextWithRole(ctx context.Context, state roles.State) context.Context {
	return context.WithValue(ctx, roleContextKey{}, state)
}

// RoleFromContext returns the role snapshot admitted by the guard.
func RoleFromContext(ctx context.Context) (roles.State, bool) {
	state, ok := ctx.Value(roleContextKey{}).(roles.State)
	return state, ok
}
