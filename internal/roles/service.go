package roles

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Notifier is told about every role change so the user can be informed.
type Notifier interface {
	RoleChanged(ctx context.Context, a Assignment) error
}

// AssignInput carries a role assignment request.
type AssignInput struct {
	Email    string
	Role     string
	CenterID int64
}

// Service handles role administration and announces changes to live subscribers.
type Service struct {
	repo     Repository
	client   *redis.Client
	notifier Notifier
	logger   *slog.Logger
}

// NewService builds a Service. client and notifier are optional.
func NewService(repo Repository, client *redis.Client, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, client: client, notifier: notifier, logger: logger}
}

// List returns every role record.
func (s *Service) List(ctx context.Context) ([]Assignment, error) {
	return s.repo.List(ctx)
}

// Assign gives the user identified by email a role, replacing any previous one.
func (s *Service) Assign(ctx context.Context, in AssignInput) (Assignment, error) {
	role, err := Parse(in.Role)
	if err != nil {
		return Assignment{}, err
	}
	userID, err := s.repo.UserIDByEmail(ctx, in.Email)
	if err != nil {
		return Assignment{}, fmt.Errorf("roles: find user: %w", err)
	}
	a := Assignment{UserID: userID, Email: in.Email, Role: role}
	if in.CenterID > 0 {
		center := in.CenterID
		a.CenterID = &center
	}
	if err := a.Validate(); err != nil {
		return Assignment{}, err
	}
	if err := s.repo.Upsert(ctx, a); err != nil {
		return Assignment{}, fmt.Errorf("roles: upsert: %w", err)
	}
	s.Announce(ctx, userID)
	s.notify(ctx, a)
	return a, nil
}

// Revoke removes the role record of a user.
func (s *Service) Revoke(ctx context.Context, userID int64) error {
	previous, err := s.repo.Lookup(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.Announce(ctx, userID)
	s.notify(ctx, Assignment{UserID: userID, Email: previous.Email, DisplayName: previous.DisplayName, Role: User})
	return nil
}

// Demoted announces and notifies users whose role was already lowered in
// storage, for example when their center was deleted.
func (s *Service) Demoted(ctx context.Context, userIDs ...int64) {
	s.Announce(ctx, userIDs...)
	if s.notifier == nil {
		return
	}
	for _, userID := range userIDs {
		a, err := s.repo.Lookup(ctx, userID)
		if err != nil {
			s.logger.Warn("lookup demoted user", slog.Int64("user_id", userID), slog.Any("error", err))
			continue
		}
		s.notify(ctx, a)
	}
}

func (s *Service) notify(ctx context.Context, a Assignment) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.RoleChanged(ctx, a); err != nil {
		s.logger.Warn("role change notification", slog.Int64("user_id", a.UserID), slog.Any("error", err))
	}
}

// Announce tells live subscribers of each user that their role record changed.
func (s *Service) Announce(ctx context.Context, userIDs ...int64) {
	if s.client == nil {
		return
	}
	for _, userID := range userIDs {
		key := strconv.FormatInt(userID, 10)
		if err := s.client.Publish(ctx, ChangeChannel(key), "changed").Err(); err != nil {
			s.logger.Warn("publish role change", slog.Int64("user_id", userID), slog.Any("error", err))
		}
	}
}
