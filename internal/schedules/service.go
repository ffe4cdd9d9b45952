package schedules

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/centersguide/centersguide/internal/shared"
)

// Service manages the weekly timetable of a center.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// List returns the sessions of a center ordered by weekday and start.
func (s *Service) List(ctx context.Context, centerID int64) ([]Session, error) {
	return s.repo.ListByCenter(ctx, centerID)
}

// Week returns the sessions of a center grouped into timetable days.
func (s *Service) Week(ctx context.Context, centerID int64) ([]Day, error) {
	sessions, err := s.repo.ListByCenter(ctx, centerID)
	if err != nil {
		return nil, err
	}
	return Week(sessions), nil
}

// Create validates in and adds a session to the center timetable.
func (s *Service) Create(ctx context.Context, centerID int64, in Input) (Session, error) {
	if centerID <= 0 {
		return Session{}, shared.Invalid("a center is required")
	}
	if err := s.validate.Struct(in); err != nil {
		return Session{}, shared.Invalid(fmt.Sprintf("invalid session: %v", err))
	}
	if !KnownSubject(in.Subject) {
		return Session{}, shared.Invalid("unknown subject")
	}
	if !KnownGrade(in.Grade) {
		return Session{}, shared.Invalid("unknown grade")
	}
	start, err := ParseTimeOfDay(in.Start)
	if err != nil {
		return Session{}, shared.Invalid("start time must look like 16:30")
	}
	if start+in.DurationMinutes > 24*60 {
		return Session{}, shared.Invalid("session must end before midnight")
	}
	session := Session{
		CenterID:        centerID,
		Subject:         in.Subject,
		Grade:           in.Grade,
		Weekday:         time.Weekday(in.Weekday),
		StartMinute:     start,
		DurationMinutes: in.DurationMinutes,
	}
	if in.TeacherID > 0 {
		owned, err := s.repo.TeacherInCenter(ctx, centerID, in.TeacherID)
		if err != nil {
			return Session{}, fmt.Errorf("schedules: check teacher: %w", err)
		}
		if !owned {
			return Session{}, shared.Invalid("teacher does not belong to this center")
		}
		teacher := in.TeacherID
		session.TeacherID = &teacher
	}
	created, err := s.repo.Create(ctx, session)
	if err != nil {
		return Session{}, fmt.Errorf("schedules: create: %w", err)
	}
	return created, nil
}

// Delete removes a session owned by the center.
func (s *Service) Delete(ctx context.Context, centerID, id int64) error {
	if centerID <= 0 || id <= 0 {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, centerID, id)
}
