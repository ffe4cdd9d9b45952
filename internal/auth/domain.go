package auth

import "time"

// User represents an account that can sign in.
type User struct {
	ID           int64
	Email        string
	DisplayName  string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Portal is one of the sign-in pages.
type Portal struct {
	Path    string
	Title   string
	Heading string
}

var (
	// CenterPortal is the default sign-in page used by center admins.
	CenterPortal = Portal{Path: "/center/login", Title: "login.center", Heading: "login.center"}
	// AdminPortal is the sign-in page of super admins.
	AdminPortal = Portal{Path: "/admin/login", Title: "login.admin", Heading: "login.admin"}
)
