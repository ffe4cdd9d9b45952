package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/centersguide/centersguide/internal/roles"
	"github.com/centersguide/centersguide/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo  Repository
	roles roles.Lookuper
}

// NewService constructs a new Service. lookup picks the landing page after sign-in and may be nil.
func NewService(repo Repository, lookup roles.Lookuper) *Service {
	return &Service{repo: repo, roles: lookup}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Home returns the page a user lands on after signing in.
func (s *Service) Home(ctx context.Context, userID int64) string {
	if s.roles == nil {
		return "/"
	}
	a, err := s.roles.Lookup(ctx, userID)
	if err != nil {
		return "/"
	}
	switch a.Role {
	case roles.SuperAdmin:
		return "/admin"
	case roles.CenterAdmin:
		return "/center/dashboard"
	default:
		return "/"
	}
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
