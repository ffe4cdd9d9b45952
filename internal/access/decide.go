// Package access decides whether a visitor may reach a role-gated area.
//
// Decide is a pure function of the visitor's identity, the live role snapshot and
// the policy protecting the area. Guard adapts it to HTTP.
package access

import (
	"errors"
	"net/url"
	"slices"

	"github.com/centersguide/centersguide/internal/roles"
)

const (
	// DefaultLoginPath receives unauthenticated visitors when a policy names no login page.
	DefaultLoginPath = "/center/login"
	// AdminLoginPath is the login page of the super admin area.
	AdminLoginPath = "/admin/login"
	// UnauthorizedPath receives signed-in visitors whose role is not allowed.
	UnauthorizedPath = "/unauthorized"
	// ReturnParam carries the originating location on login redirects.
	ReturnParam = "from"
)

// ErrNoRoles is returned when a policy would allow no role at all.
var ErrNoRoles = errors.New("access: policy requires at least one role")

// Identity is the current visitor as reported by the identity provider.
type Identity struct {
	User    string
	Loading bool
}

// Present reports whether a user is signed in.
func (i Identity) Present() bool {
	return i.User != ""
}

// Policy lists the roles allowed into an area and where anonymous visitors go.
type Policy struct {
	Name         string
	AllowedRoles []roles.Role
	RedirectTo   string
}

// NewPolicy builds a Policy, rejecting an empty role set.
func NewPolicy(name, redirectTo string, allowed ...roles.Role) (Policy, error) {
	if len(allowed) == 0 {
		return Policy{}, ErrNoRoles
	}
	for _, role := range allowed {
		if !role.Valid() {
			return Policy{}, roles.ErrInvalidRole
		}
	}
	return Policy{Name: name, AllowedRoles: slices.Clone(allowed), RedirectTo: redirectTo}, nil
}

// MustPolicy is NewPolicy for package-level presets.
func MustPolicy(name, redirectTo string, allowed ...roles.Role) Policy {
	p, err := NewPolicy(name, redirectTo, allowed...)
	if err != nil {
		panic(err)
	}
	return p
}

// Allows reports whether role is a member of the allowed set.
func (p Policy) Allows(role roles.Role) bool {
	return slices.Contains(p.AllowedRoles, role)
}

// LoginPath returns the redirect target for anonymous visitors.
func (p Policy) LoginPath() string {
	if p.RedirectTo == "" {
		return DefaultLoginPath
	}
	return p.RedirectTo
}

var (
	// SuperAdminOnly admits only directory administrators.
	SuperAdminOnly = MustPolicy("super_admin", AdminLoginPath, roles.SuperAdmin)
	// CenterAdminOnly admits only center administrators.
	CenterAdminOnly = MustPolicy("center_admin", DefaultLoginPath, roles.CenterAdmin)
	// AnyAdmin admits either administrator role.
	AnyAdmin = MustPolicy("any_admin", DefaultLoginPath, roles.SuperAdmin, roles.CenterAdmin)
)

// Kind enumerates guard outcomes.
type Kind int

const (
	// Pending means identity or role is still being resolved.
	Pending Kind = iota
	// Unauthenticated means nobody is signed in.
	Unauthenticated
	// Unauthorized means the signed-in role is not allowed.
	Unauthorized
	// Authorized means the protected content may be served.
	Authorized
)

func (k Kind) String() string {
	switch k {
	case Pending:
		return "pending"
	case Unauthenticated:
		return "unauthenticated"
	case Unauthorized:
		return "unauthorized"
	case Authorized:
		return "authorized"
	}
	return "unknown"
}

// Outcome is the guard's decision. Redirect outcomes carry a target and,
// for unauthenticated visitors, the location to return to after login.
type Outcome struct {
	Kind     Kind
	Target   string
	ReturnTo string
}

// Redirects reports whether the outcome sends the visitor elsewhere.
func (o Outcome) Redirects() bool {
	return o.Kind == Unauthenticated || o.Kind == Unauthorized
}

// Location renders the redirect target including the return location.
func (o Outcome) Location() string {
	if o.ReturnTo == "" {
		return o.Target
	}
	return o.Target + "?" + url.Values{ReturnParam: []string{o.ReturnTo}}.Encode()
}

// Decide maps identity, role and policy onto exactly one outcome.
//
// Loading is checked first so an in-flight lookup never redirects. A signed-in
// user without any role record is admitted; a user holding a role outside the
// policy is sent to UnauthorizedPath.
func Decide(identity Identity, role roles.State, policy Policy, origin string) Outcome {
	switch {
	case identity.Loading || role.Loading:
		return Outcome{Kind: Pending}
	case !identity.Present():
		return Outcome{Kind: Unauthenticated, Target: policy.LoginPath(), ReturnTo: origin}
	case role.Role.Present() && !policy.Allows(role.Role):
		return Outcome{Kind: Unauthorized, Target: UnauthorizedPath}
	default:
		return Outcome{Kind: Authorized}
	}
}
