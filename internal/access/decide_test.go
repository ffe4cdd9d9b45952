package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centersguide/centersguide/internal/roles"
)

func TestDecideScenarios(t *testing.T) {
	superOnly := MustPolicy("test", "/admin/login", roles.SuperAdmin)
	centerOnly := MustPolicy("test", "", roles.CenterAdmin)

	t.Run("identity loading is pending regardless of role", func(t *testing.T) {
		for _, role := range []roles.State{{}, {Role: roles.User}, {Role: roles.SuperAdmin, Loading: true}} {
			got := Decide(Identity{Loading: true}, role, superOnly, "/admin")
			assert.Equal(t, Outcome{Kind: Pending}, got)
		}
	})

	t.Run("anonymous visitor goes to policy login with origin", func(t *testing.T) {
		got := Decide(Identity{}, roles.State{}, superOnly, "/admin/centers?page=2")
		assert.Equal(t, Unauthenticated, got.Kind)
		assert.Equal(t, "/admin/login", got.Target)
		assert.Equal(t, "/admin/centers?page=2", got.ReturnTo)
		assert.Equal(t, "/admin/login?from=%2Fadmin%2Fcenters%3Fpage%3D2", got.Location())
	})

	t.Run("disallowed role goes to unauthorized", func(t *testing.T) {
		got := Decide(Identity{User: "u1"}, roles.State{Role: roles.User}, superOnly, "/admin")
		assert.Equal(t, Outcome{Kind: Unauthorized, Target: UnauthorizedPath}, got)
		assert.Equal(t, "/unauthorized", got.Location())
	})

	t.Run("missing role fails open", func(t *testing.T) {
		got := Decide(Identity{User: "u1"}, roles.State{}, centerOnly, "/center/dashboard")
		assert.Equal(t, Authorized, got.Kind)
	})

	t.Run("default login path", func(t *testing.T) {
		got := Decide(Identity{}, roles.State{}, centerOnly, "/center/dashboard")
		assert.Equal(t, DefaultLoginPath, got.Target)
	})
}

func TestDecideTotality(t *testing.T) {
	policy := AnyAdmin
	identities := []Identity{{}, {Loading: true}, {User: "u1"}, {User: "u1", Loading: true}}
	states := []roles.State{{}, {Loading: true}}
	for _, role := range roles.All() {
		states = append(states, roles.State{Role: role}, roles.State{Role: role, Loading: true})
	}

	for _, identity := range identities {
		for _, role := range states {
			got := Decide(identity, role, policy, "/here")
			assert.Equal(t, got, Decide(identity, role, policy, "/here"), "decision must be repeatable")

			switch {
			case identity.Loading || role.Loading:
				assert.Equal(t, Pending, got.Kind)
			case !identity.Present():
				assert.Equal(t, Unauthenticated, got.Kind)
				assert.Equal(t, policy.RedirectTo, got.Target)
				assert.Equal(t, "/here", got.ReturnTo)
			case role.Role.Present() && !policy.Allows(role.Role):
				assert.Equal(t, Unauthorized, got.Kind)
				assert.Empty(t, got.ReturnTo)
			default:
				assert.Equal(t, Authorized, got.Kind)
				assert.False(t, got.Redirects())
			}
		}
	}
}

func TestPresets(t *testing.T) {
	assert.Equal(t, []roles.Role{roles.SuperAdmin}, SuperAdminOnly.AllowedRoles)
	assert.Equal(t, AdminLoginPath, SuperAdminOnly.LoginPath())
	assert.Equal(t, []roles.Role{roles.CenterAdmin}, CenterAdminOnly.AllowedRoles)
	assert.Equal(t, DefaultLoginPath, CenterAdminOnly.LoginPath())
	assert.True(t, AnyAdmin.Allows(roles.SuperAdmin))
	assert.True(t, AnyAdmin.Allows(roles.CenterAdmin))
	assert.False(t, AnyAdmin.Allows(roles.User))
	assert.Equal(t, DefaultLoginPath, AnyAdmin.LoginPath())
}

func TestNewPolicyValidation(t *testing.T) {
	_, err := NewPolicy("empty", "")
	require.ErrorIs(t, err, ErrNoRoles)

	_, err = NewPolicy("bogus", "", roles.Role("owner"))
	require.ErrorIs(t, err, roles.ErrInvalidRole)

	allowed := []roles.Role{roles.User}
	p, err := NewPolicy("users", "", allowed...)
	require.NoError(t, err)
	allowed[0] = roles.SuperAdmin
	assert.Equal(t, []roles.Role{roles.User}, p.AllowedRoles)
}

func TestSafeReturn(t *testing.T) {
	assert.Equal(t, "/center/dashboard", SafeReturn("/center/dashboard", "/"))
	assert.Equal(t, "/", SafeReturn("https://evil.example", "/"))
	assert.Equal(t, "/", SafeReturn("//evil.example", "/"))
	assert.Equal(t, "/", SafeReturn("", "/"))
}
