package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{name: "Понедельник", want: 1},
		{name: "вторник", want: 2},
		{name: "СРЕДА", want: 3},
		{name: " Четверг ", want: 4},
		{name: "Friday", want: 5},
		{name: "saturday", want: 6},
		{name: "Воскресенье", wantErr: true},
		{name: "sunday", wantErr: true},
		{name: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDay)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for i, name := range DayNames {
		got, err := ParseDay(name)
		assert.NoError(t, err)
		assert.Equal(t, i+1, got)
	}
}

func TestDateInCurrentWeek(t *testing.T) {
	loc := time.FixedZone("MSK+1", 4*60*60)
	date := func(d int) time.Time { return time.Date(2024, time.March, d, 0, 0, 0, 0, loc) }

	tests := []struct {
		name string
		now  time.Time
		day  int
		want time.Time
	}{
		{name: "wednesday to monday", now: time.Date(2024, time.March, 6, 15, 4, 0, 0, loc), day: 1, want: date(4)},
		{name: "wednesday to same day", now: time.Date(2024, time.March, 6, 23, 59, 0, 0, loc), day: 3, want: date(6)},
		{name: "wednesday to saturday", now: time.Date(2024, time.March, 6, 8, 0, 0, 0, loc), day: 6, want: date(9)},
		{name: "sunday looks back", now: time.Date(2024, time.March, 10, 12, 0, 0, 0, loc), day: 1, want: date(4)},
		{name: "monday to saturday", now: time.Date(2024, time.March, 4, 0, 0, 0, 0, loc), day: 6, want: date(9)},
		{name: "month boundary", now: time.Date(2024, time.March, 1, 9, 0, 0, 0, loc), day: 1, want: time.Date(2024, time.February, 26, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DateInCurrentWeek(tt.now, tt.day)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestDayBounds(t *testing.T) {
	tm := time.Date(2024, time.March, 6, 13, 30, 0, 0, time.UTC)
	start, end := DayBounds(tm)
	assert.Equal(t, time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.March, 6, 23, 59, 59, 999000000, time.UTC), end)
}
