package schedules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/centersguide/centersguide/internal/locale"
)

// ParseTimeOfDay converts "HH:MM" (24h) into minutes after midnight.
func ParseTimeOfDay(raw string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return 0, ErrInvalidTime
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, ErrInvalidTime
	}
	minute, err := strconv.Atoi(m)
	if err != nil || len(m) != 2 || minute < 0 || minute > 59 {
		return 0, ErrInvalidTime
	}
	return hour*60 + minute, nil
}

// FormatTimeOfDay renders a minute of day on a 12 hour clock in lang,
// e.g. "4:30 PM" or "٤:٣٠ م".
func FormatTimeOfDay(minute int, lang locale.Lang) string {
	minute = ((minute % 1440) + 1440) % 1440
	hour, mins := minute/60, minute%60
	afternoon := hour >= 12
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	clock := fmt.Sprintf("%d:%02d", hour, mins)
	if lang == locale.Arabic {
		suffix := "ص"
		if afternoon {
			suffix = "م"
		}
		return lang.Digits(clock) + " " + suffix
	}
	if afternoon {
		return clock + " PM"
	}
	return clock + " AM"
}

// FormatSpan renders the start and end of a session.
func FormatSpan(s Session, lang locale.Lang) string {
	return FormatTimeOfDay(s.StartMinute, lang) + " – " + FormatTimeOfDay(s.EndMinute(), lang)
}

var weekdayAr = map[time.Weekday]string{
	time.Saturday:  "السبت",
	time.Sunday:    "الأحد",
	time.Monday:    "الاثنين",
	time.Tuesday:   "الثلاثاء",
	time.Wednesday: "الأربعاء",
	time.Thursday:  "الخميس",
	time.Friday:    "الجمعة",
}

// WeekdayLabel names a weekday in lang.
func WeekdayLabel(wd time.Weekday, lang locale.Lang) string {
	if lang == locale.Arabic {
		return weekdayAr[wd]
	}
	return wd.String()
}
