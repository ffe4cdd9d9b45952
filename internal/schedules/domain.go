package schedules

import (
	"errors"
	"sort"
	"time"
)

var (
	// ErrNotFound indicates the class session does not exist for the center.
	ErrNotFound = errors.New("schedules: not found")
	// ErrInvalidTime indicates a malformed HH:MM value.
	ErrInvalidTime = errors.New("schedules: invalid time of day")
)

// Session is one weekly class held at a center.
type Session struct {
	ID              int64        `json:"id"`
	CenterID        int64        `json:"center_id"`
	TeacherID       *int64       `json:"teacher_id,omitempty"`
	TeacherName     string       `json:"teacher_name,omitempty"`
	Subject         string       `json:"subject"`
	Grade           string       `json:"grade"`
	Weekday         time.Weekday `json:"weekday"`
	StartMinute     int          `json:"start_minute"`
	DurationMinutes int          `json:"duration_minutes"`
}

// EndMinute returns the minute of day the session ends.
func (s Session) EndMinute() int {
	return s.StartMinute + s.DurationMinutes
}

// Input carries a new session submitted by a center admin.
type Input struct {
	TeacherID       int64  `validate:"omitempty,gt=0"`
	Subject         string `validate:"required"`
	Grade           string `validate:"required"`
	Weekday         int    `validate:"gte=0,lte=6"`
	Start           string `validate:"required"`
	DurationMinutes int    `validate:"gte=15,lte=300"`
}

// Day groups the sessions held on one weekday.
type Day struct {
	Weekday  time.Weekday
	Sessions []Session
}

// weekOrder starts the week on Saturday as Egyptian timetables do.
var weekOrder = []time.Weekday{
	time.Saturday, time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

// Week groups sessions by weekday in timetable order, skipping empty days.
// Sessions within a day keep ascending start order.
func Week(sessions []Session) []Day {
	byDay := make(map[time.Weekday][]Session, 7)
	for _, s := range sessions {
		byDay[s.Weekday] = append(byDay[s.Weekday], s)
	}
	days := make([]Day, 0, len(byDay))
	for _, wd := range weekOrder {
		list := byDay[wd]
		if len(list) == 0 {
			continue
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].StartMinute < list[j].StartMinute })
		days = append(days, Day{Weekday: wd, Sessions: list})
	}
	return days
}
