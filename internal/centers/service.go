package centers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/centersguide/centersguide/internal/schedules"
	"github.com/centersguide/centersguide/internal/shared"
	"github.com/centersguide/centersguide/internal/teachers"
)

// TeacherLister loads the roster of a center.
type TeacherLister interface {
	List(ctx context.Context, centerID int64) ([]teachers.Teacher, error)
}

// WeekLister loads the weekly timetable of a center.
type WeekLister interface {
	Week(ctx context.Context, centerID int64) ([]schedules.Day, error)
}

// RoleAnnouncer pushes role changes to live subscribers and tells the users.
type RoleAnnouncer interface {
	Demoted(ctx context.Context, userIDs ...int64)
}

// Service serves the public directory and center administration.
type Service struct {
	repo      Repository
	teachers  TeacherLister
	weeks     WeekLister
	cache     *Cache
	announcer RoleAnnouncer
	validate  *validator.Validate
	logger    *slog.Logger
}

// ServiceConfig wires a Service. Cache and Announcer are optional.
type ServiceConfig struct {
	Repo      Repository
	Teachers  TeacherLister
	Weeks     WeekLister
	Cache     *Cache
	Announcer RoleAnnouncer
	Logger    *slog.Logger
}

// NewService builds a Service.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      cfg.Repo,
		teachers:  cfg.Teachers,
		weeks:     cfg.Weeks,
		cache:     cfg.Cache,
		announcer: cfg.Announcer,
		validate:  validator.New(),
		logger:    logger,
	}
}

// List returns one page of the directory.
func (s *Service) List(ctx context.Context, f ListFilters) (Page, error) {
	f = f.normalize()
	var page Page
	err := s.cache.FetchJSON(ctx, f.cacheKey(), &page, func(ctx context.Context) (any, error) {
		list, total, err := s.repo.List(ctx, f)
		if err != nil {
			return nil, err
		}
		return Page{Centers: list, Total: total}, nil
	})
	if err != nil {
		return Page{}, fmt.Errorf("centers: list: %w", err)
	}
	page.Filters = f
	return page, nil
}

// Detail returns a center with its teachers and weekly timetable.
func (s *Service) Detail(ctx context.Context, slug string) (Detail, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return Detail{}, ErrNotFound
	}
	var detail Detail
	err := s.cache.FetchJSON(ctx, "detail|"+slug, &detail, func(ctx context.Context) (any, error) {
		center, err := s.repo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		return s.assemble(ctx, center)
	})
	return detail, err
}

// DetailByID returns the center managed by a center admin.
func (s *Service) DetailByID(ctx context.Context, id int64) (Detail, error) {
	if id <= 0 {
		return Detail{}, ErrNotFound
	}
	center, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return s.assemble(ctx, center)
}

func (s *Service) assemble(ctx context.Context, center Center) (Detail, error) {
	detail := Detail{Center: center}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.teachers.List(gctx, center.ID)
		detail.Teachers = list
		return err
	})
	g.Go(func() error {
		week, err := s.weeks.Week(gctx, center.ID)
		detail.Week = week
		return err
	})
	if err := g.Wait(); err != nil {
		return Detail{}, fmt.Errorf("centers: load %s: %w", center.Slug, err)
	}
	return detail, nil
}

// Create lists a new center.
func (s *Service) Create(ctx context.Context, in CreateInput) (Center, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	in.Governorate = strings.ToLower(strings.TrimSpace(in.Governorate))
	in.Subjects = normalizeSubjects(in.Subjects)
	if err := s.validate.Struct(in); err != nil {
		return Center{}, shared.Invalid(fmt.Sprintf("invalid center: %v", err))
	}
	if err := checkCodes(in.Governorate, in.Subjects); err != nil {
		return Center{}, err
	}
	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Name)
	}
	if slug == "" || Slugify(slug) != slug {
		return Center{}, shared.Invalid("slug must contain only latin letters, digits and dashes")
	}
	created, err := s.repo.Create(ctx, Center{
		Slug:        slug,
		Name:        in.Name,
		Governorate: in.Governorate,
		Area:        strings.TrimSpace(in.Area),
		Address:     strings.TrimSpace(in.Address),
		Phone:       strings.TrimSpace(in.Phone),
		Description: strings.TrimSpace(in.Description),
		Subjects:    in.Subjects,
	})
	if err != nil {
		return Center{}, err
	}
	s.Invalidate(ctx)
	return created, nil
}

// UpdateProfile edits the public profile of the center with id.
func (s *Service) UpdateProfile(ctx context.Context, id int64, in ProfileInput) error {
	if id <= 0 {
		return ErrNotFound
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Governorate = strings.ToLower(strings.TrimSpace(in.Governorate))
	in.Subjects = normalizeSubjects(in.Subjects)
	if err := s.validate.Struct(in); err != nil {
		return shared.Invalid(fmt.Sprintf("invalid profile: %v", err))
	}
	if err := checkCodes(in.Governorate, in.Subjects); err != nil {
		return err
	}
	err := s.repo.UpdateProfile(ctx, Center{
		ID:          id,
		Name:        in.Name,
		Governorate: in.Governorate,
		Area:        strings.TrimSpace(in.Area),
		Address:     strings.TrimSpace(in.Address),
		Phone:       strings.TrimSpace(in.Phone),
		Description: strings.TrimSpace(in.Description),
		Subjects:    in.Subjects,
	})
	if err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

// Delete removes a center. Its admins are demoted and told immediately.
func (s *Service) Delete(ctx context.Context, id int64) error {
	demoted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.Invalidate(ctx)
	if s.announcer != nil && len(demoted) > 0 {
		s.announcer.Demoted(ctx, demoted...)
	}
	return nil
}

// Invalidate drops every cached directory read.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("bump centers cache", slog.Any("error", err))
	}
}

// Warm loads the first directory page and the detail of every center on it.
func (s *Service) Warm(ctx context.Context) (int, error) {
	page, err := s.List(ctx, ListFilters{})
	if err != nil {
		return 0, err
	}
	for _, c := range page.Centers {
		if _, err := s.Detail(ctx, c.Slug); err != nil {
			return 0, err
		}
	}
	return len(page.Centers), nil
}

func checkCodes(governorate string, subjects []string) error {
	if !KnownGovernorate(governorate) {
		return shared.Invalid("unknown governorate")
	}
	for _, code := range subjects {
		if !schedules.KnownSubject(code) {
			return shared.Invalid("unknown subject " + code)
		}
	}
	return nil
}

func normalizeSubjects(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, raw := range in {
		code := strings.ToLower(strings.TrimSpace(raw))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}
