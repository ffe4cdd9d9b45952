package teachers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/centersguide/centersguide/internal/schedules"
	"github.com/centersguide/centersguide/internal/shared"
)

// Service manages the teachers of a center.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// List returns the teachers of a center ordered by name.
func (s *Service) List(ctx context.Context, centerID int64) ([]Teacher, error) {
	return s.repo.ListByCenter(ctx, centerID)
}

// Create validates in and adds a teacher to the center.
func (s *Service) Create(ctx context.Context, centerID int64, in Input) (Teacher, error) {
	if centerID <= 0 {
		return Teacher{}, shared.Invalid("a center is required")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Subjects = normalizeSubjects(in.Subjects)
	if err := s.validate.Struct(in); err != nil {
		return Teacher{}, shared.Invalid(fmt.Sprintf("invalid teacher: %v", err))
	}
	for _, code := range in.Subjects {
		if !schedules.KnownSubject(code) {
			return Teacher{}, shared.Invalid("unknown subject " + code)
		}
	}
	created, err := s.repo.Create(ctx, Teacher{
		CenterID: centerID,
		Name:     in.Name,
		Subjects: in.Subjects,
		Bio:      strings.TrimSpace(in.Bio),
		Phone:    strings.TrimSpace(in.Phone),
	})
	if err != nil {
		return Teacher{}, fmt.Errorf("teachers: create: %w", err)
	}
	return created, nil
}

// Delete removes a teacher owned by the center.
func (s *Service) Delete(ctx context.Context, centerID, id int64) error {
	if centerID <= 0 || id <= 0 {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, centerID, id)
}

func normalizeSubjects(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		code := strings.ToLower(strings.TrimSpace(raw))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
