package centers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/centersguide/centersguide/internal/schedules"
	"github.com/centersguide/centersguide/internal/teachers"
)

type memoryRepo struct {
	mu      sync.Mutex
	next    int64
	rows    []Center
	admins  map[int64][]int64
	lists   atomic.Int32
	details atomic.Int32
}

func newMemoryRepo(seed ...Center) *memoryRepo {
	m := &memoryRepo{admins: map[int64][]int64{}}
	for _, c := range seed {
		m.next++
		c.ID = m.next
		m.rows = append(m.rows, c)
	}
	return m
}

func (m *memoryRepo) List(ctx context.Context, f ListFilters) ([]Center, int, error) {
	m.lists.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []Center
	for _, c := range m.rows {
		if f.Governorate != "" && c.Governorate != f.Governorate {
			continue
		}
		if f.Subject != "" && !contains(c.Subjects, f.Subject) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	total := len(matched)
	start := (f.Page - 1) * f.PerPage
	if start > total {
		start = total
	}
	end := start + f.PerPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *memoryRepo) GetBySlug(ctx context.Context, slug string) (Center, error) {
	m.details.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.Slug == slug {
			return c, nil
		}
	}
	return Center{}, ErrNotFound
}

func (m *memoryRepo) GetByID(ctx context.Context, id int64) (Center, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.ID == id {
			return c, nil
		}
	}
	return Center{}, ErrNotFound
}

func (m *memoryRepo) Create(ctx context.Context, c Center) (Center, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Slug == c.Slug {
			return Center{}, ErrSlugTaken
		}
	}
	m.next++
	c.ID = m.next
	m.rows = append(m.rows, c)
	return c, nil
}

func (m *memoryRepo) UpdateProfile(ctx context.Context, c Center) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.rows {
		if existing.ID == c.ID {
			c.Slug = existing.Slug
			m.rows[i] = c
			return nil
		}
	}
	return ErrNotFound
}

func (m *memoryRepo) Delete(ctx context.Context, id int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.rows {
		if c.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return m.admins[id], nil
		}
	}
	return nil, ErrNotFound
}

type stubTeachers map[int64][]teachers.Teacher

func (s stubTeachers) List(ctx context.Context, centerID int64) ([]teachers.Teacher, error) {
	return s[centerID], nil
}

type stubWeeks map[int64][]schedules.Day

func (s stubWeeks) Week(ctx context.Context, centerID int64) ([]schedules.Day, error) {
	return s[centerID], nil
}

type recordingAnnouncer struct {
	mu  sync.Mutex
	ids []int64
}

func (r *recordingAnnouncer) Demoted(ctx context.Context, userIDs ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, userIDs...)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func sampleCenters() []Center {
	return []Center{
		{Slug: "nile-academy", Name: "Nile Academy", Governorate: "cairo", Area: "Nasr City", Subjects: []string{"math", "physics"}},
		{Slug: "delta-center", Name: "Delta Center", Governorate: "dakahlia", Area: "Mansoura", Subjects: []string{"chemistry"}},
		{Slug: "alex-prep", Name: "Alex Prep", Governorate: "alexandria", Area: "Smouha", Subjects: []string{"math", "english"}},
	}
}
