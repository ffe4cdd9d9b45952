package view_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centersguide/centersguide/internal/centers"
	"github.com/centersguide/centersguide/internal/locale"
	"github.com/centersguide/centersguide/internal/roles"
	"github.com/centersguide/centersguide/internal/schedules"
	"github.com/centersguide/centersguide/internal/shared"
	"github.com/centersguide/centersguide/internal/teachers"
	"github.com/centersguide/centersguide/internal/view"
)

func TestNewEngine(t *testing.T) {
	engine, err := view.NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func sampleDetail() centers.Detail {
	teacherID := int64(4)
	return centers.Detail{
		Center: centers.Center{
			ID: 1, Slug: "nile-academy", Name: "Nile Academy", Governorate: "cairo", Area: "Nasr City",
			Phone: "+201001234567", Subjects: []string{"math", "physics"}, CreatedAt: time.Now(),
		},
		Teachers: []teachers.Teacher{{ID: teacherID, CenterID: 1, Name: "Mona Adel", Subjects: []string{"math"}}},
		Week: schedules.Week([]schedules.Session{{
			ID: 9, CenterID: 1, TeacherID: &teacherID, TeacherName: "Mona Adel",
			Subject: "math", Grade: schedules.GradeCodes()[0], Weekday: time.Saturday,
			StartMinute: 16 * 60, DurationMinutes: 90,
		}}),
	}
}

func TestPagesRender(t *testing.T) {
	engine, err := view.NewEngine()
	require.NoError(t, err)

	detail := sampleDetail()
	page := centers.Page{Centers: []centers.Center{detail.Center}, Total: 1}

	cases := []struct {
		name string
		data any
		want string
	}{
		{"pages/home.html", map[string]any{"Page": page, "Governorates": centers.Governorates, "Subjects": schedules.SubjectCodes()}, "Nile Academy"},
		{"pages/centers/detail.html", detail, "Mona Adel"},
		{"pages/unauthorized.html", nil, "<h1>"},
		{"pages/admin/overview.html", map[string]any{"Centers": page, "Assignments": 2}, "/centers/nile-academy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, lang := range []locale.Lang{locale.English, locale.Arabic} {
				var buf bytes.Buffer
				err := engine.Execute(&buf, tc.name, view.TemplateData{
					Title: "Test", Lang: lang, Dir: lang.Dir(), CSRFToken: "tok", Data: tc.data,
				})
				require.NoError(t, err)
				assert.Contains(t, buf.String(), tc.want)
				assert.Contains(t, buf.String(), `dir="`+lang.Dir()+`"`)
			}
		})
	}
}

func TestDashboardCarriesCSRFAndRoleScript(t *testing.T) {
	engine, err := view.NewEngine()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = engine.Execute(&buf, "pages/center/dashboard.html", view.TemplateData{
		Title:     "Dashboard",
		Lang:      locale.English,
		Dir:       "ltr",
		CSRFToken: "tok-123",
		SignedIn:  true,
		Role:      roles.State{Role: roles.CenterAdmin, CenterID: 1},
		Flash:     &shared.FlashMessage{Kind: "success", Message: "Saved"},
		Data: map[string]any{
			"Detail":       sampleDetail(),
			"Governorates": centers.Governorates,
			"Subjects":     schedules.SubjectCodes(),
			"Grades":       schedules.GradeCodes(),
			"Weekdays":     []time.Weekday{time.Saturday, time.Sunday},
		},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `value="tok-123"`)
	assert.Contains(t, out, "/static/js/role-events.js")
	assert.Contains(t, out, "Saved")
	assert.Contains(t, out, `action="/center/sessions/9/delete"`)
}
