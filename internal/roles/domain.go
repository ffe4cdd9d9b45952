package roles

import (
	"errors"
	"strings"
	"time"
)

// Role is an authorization level attached to a user.
type Role string

const (
	// None marks the absence of a role record.
	None Role = ""
	// SuperAdmin administers the whole directory.
	SuperAdmin Role = "super_admin"
	// CenterAdmin administers a single center.
	CenterAdmin Role = "center_admin"
	// User is a regular signed-in visitor.
	User Role = "user"
)

var (
	// ErrNotFound indicates the user has no role record.
	ErrNotFound = errors.New("roles: not found")
	// ErrInvalidRole indicates an unknown role value.
	ErrInvalidRole = errors.New("roles: invalid role")
	// ErrCenterRequired indicates a center admin assignment without a center.
	ErrCenterRequired = errors.New("roles: center required for center admin")
	// ErrUnexpectedCenter indicates a center attached to a role that cannot hold one.
	ErrUnexpectedCenter = errors.New("roles: center only allowed for center admin")
)

// All lists the closed set of roles in privilege order.
func All() []Role {
	return []Role{SuperAdmin, CenterAdmin, User}
}

// Parse normalises raw input into a Role.
func Parse(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return None, ErrInvalidRole
	}
	return role, nil
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case SuperAdmin, CenterAdmin, User:
		return true
	}
	return false
}

// Present reports whether a role value exists.
func (r Role) Present() bool {
	return r != None
}

func (r Role) String() string {
	return string(r)
}

// State is a snapshot of a user's role as seen by a live subscription.
type State struct {
	Role     Role
	CenterID int64
	Loading  bool
}

// HasCenter reports whether the snapshot carries a center affiliation.
func (s State) HasCenter() bool {
	return s.CenterID > 0
}

// Assignment is the stored role record of a user.
type Assignment struct {
	UserID      int64
	Email       string
	DisplayName string
	Role        Role
	CenterID    *int64
	CenterName  string
	UpdatedAt   time.Time
}

// Validate enforces the role/center pairing rules.
func (a Assignment) Validate() error {
	if !a.Role.Valid() {
		return ErrInvalidRole
	}
	hasCenter := a.CenterID != nil && *a.CenterID > 0
	if a.Role == CenterAdmin && !hasCenter {
		return ErrCenterRequired
	}
	if a.Role != CenterAdmin && hasCenter {
		return ErrUnexpectedCenter
	}
	return nil
}
