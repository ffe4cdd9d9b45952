package schedules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centersguide/centersguide/internal/locale"
)

func TestFormatTimeOfDay(t *testing.T) {
	cases := []struct {
		minute int
		en     string
		ar     string
	}{
		{0, "12:00 AM", "١٢:٠٠ ص"},
		{9*60 + 5, "9:05 AM", "٩:٠٥ ص"},
		{12 * 60, "12:00 PM", "١٢:٠٠ م"},
		{16*60 + 30, "4:30 PM", "٤:٣٠ م"},
		{23*60 + 59, "11:59 PM", "١١:٥٩ م"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.en, FormatTimeOfDay(tc.minute, locale.English))
		assert.Equal(t, tc.ar, FormatTimeOfDay(tc.minute, locale.Arabic))
	}
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("16:30")
	require.NoError(t, err)
	assert.Equal(t, 990, got)

	for _, bad := range []string{"", "24:00", "7", "07:5", "aa:bb", "12:60"} {
		_, err := ParseTimeOfDay(bad)
		assert.ErrorIs(t, err, ErrInvalidTime, bad)
	}
}

func TestWeekOrdersFromSaturday(t *testing.T) {
	days := Week([]Session{
		{ID: 1, Weekday: time.Monday, StartMinute: 600},
		{ID: 2, Weekday: time.Saturday, StartMinute: 900},
		{ID: 3, Weekday: time.Saturday, StartMinute: 540},
		{ID: 4, Weekday: time.Friday, StartMinute: 700},
	})
	require.Len(t, days, 3)
	assert.Equal(t, time.Saturday, days[0].Weekday)
	assert.Equal(t, []int64{3, 2}, []int64{days[0].Sessions[0].ID, days[0].Sessions[1].ID})
	assert.Equal(t, time.Monday, days[1].Weekday)
	assert.Equal(t, time.Friday, days[2].Weekday)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Physics", SubjectLabel("physics", locale.English))
	assert.Equal(t, "الفيزياء", SubjectLabel("physics", locale.Arabic))
	assert.Equal(t, "robotics", SubjectLabel("robotics", locale.Arabic))
	assert.Equal(t, "Secondary 3", GradeLabel("sec_3", locale.English))
	assert.Equal(t, "الجمعة", WeekdayLabel(time.Friday, locale.Arabic))
	assert.Equal(t, "Friday", WeekdayLabel(time.Friday, locale.English))
}
