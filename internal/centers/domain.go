package centers

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/centersguide/centersguide/internal/platform/httpx"
	"github.com/centersguide/centersguide/internal/schedules"
	"github.com/centersguide/centersguide/internal/teachers"
)

var (
	// ErrNotFound indicates no center matches the slug or id.
	ErrNotFound = fmt.Errorf("center %w", httpx.ErrNotFound)
	// ErrSlugTaken indicates another center already uses the slug.
	ErrSlugTaken = fmt.Errorf("center slug %w", httpx.ErrDuplicate)
)

// Center is a tutoring center listed in the directory.
type Center struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Governorate string    `json:"governorate"`
	Area        string    `json:"area"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Description string    `json:"description"`
	Subjects    []string  `json:"subjects"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Detail is a center with its roster and weekly timetable.
type Detail struct {
	Center   Center             `json:"center"`
	Teachers []teachers.Teacher `json:"teachers"`
	Week     []schedules.Day    `json:"week"`
}

// Sort orders list results.
type Sort string

const (
	SortName   Sort = "name"
	SortNewest Sort = "newest"
)

// ListFilters narrows the public directory.
type ListFilters struct {
	Governorate string
	Subject     string
	Search      string
	Sort        Sort
	Page        int
	PerPage     int
}

func (f ListFilters) normalize() ListFilters {
	f.Governorate = strings.ToLower(strings.TrimSpace(f.Governorate))
	f.Subject = strings.ToLower(strings.TrimSpace(f.Subject))
	f.Search = strings.TrimSpace(f.Search)
	if f.Sort != SortNewest {
		f.Sort = SortName
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 50 {
		f.PerPage = 12
	}
	return f
}

// cacheKey identifies the filter set inside the versioned cache.
func (f ListFilters) cacheKey() string {
	return strings.Join([]string{
		"list", f.Governorate, f.Subject, strings.ToLower(f.Search), string(f.Sort),
		fmt.Sprint(f.Page), fmt.Sprint(f.PerPage),
	}, "|")
}

// Page is one page of directory results.
type Page struct {
	Centers []Center    `json:"centers"`
	Total   int         `json:"total"`
	Filters ListFilters `json:"-"`
}

// CreateInput is submitted by a super admin to list a new center.
type CreateInput struct {
	Name        string   `validate:"required,min=2,max=120"`
	Slug        string   `validate:"omitempty,max=80"`
	Governorate string   `validate:"required"`
	Area        string   `validate:"max=120"`
	Address     string   `validate:"max=255"`
	Phone       string   `validate:"omitempty,e164"`
	Description string   `validate:"max=2000"`
	Subjects    []string `validate:"dive,required"`
}

// ProfileInput is submitted by a center admin to edit their own center.
type ProfileInput struct {
	Name        string   `validate:"required,min=2,max=120"`
	Governorate string   `validate:"required"`
	Area        string   `validate:"max=120"`
	Address     string   `validate:"max=255"`
	Phone       string   `validate:"omitempty,e164"`
	Description string   `validate:"max=2000"`
	Subjects    []string `validate:"dive,required"`
}

// Governorates lists the accepted governorate codes.
var Governorates = []string{
	"cairo", "giza", "alexandria", "qalyubia", "sharqia", "dakahlia", "gharbia",
	"monufia", "beheira", "kafr_el_sheikh", "damietta", "port_said", "ismailia",
	"suez", "fayoum", "beni_suef", "minya", "asyut", "sohag", "qena", "luxor", "aswan",
}

// KnownGovernorate reports whether code is an accepted governorate.
func KnownGovernorate(code string) bool {
	for _, g := range Governorates {
		if g == code {
			return true
		}
	}
	return false
}

// Slugify derives a URL slug from a center name. Non-Latin names yield an
// empty slug and must be given one explicitly.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
