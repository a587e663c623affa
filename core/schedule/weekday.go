package schedule

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidDay is returned for names outside Monday to Saturday.
var ErrInvalidDay = errors.New("invalid day")

// DayNames are the school days, Monday (1) to Saturday (6).
var DayNames = []string{"Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота"}

var dayNumbers = map[string]int{
	"понедельник": 1, "monday": 1,
	"вторник": 2, "tuesday": 2,
	"среда": 3, "wednesday": 3,
	"четверг": 4, "thursday": 4,
	"пятница": 5, "friday": 5,
	"суббота": 6, "saturday": 6,
}

// ParseDay resolves a (case-insensitive) Russian or English school day name to 1 (Monday) .. 6 (Saturday).
func ParseDay(name string) (int, error) {
	if day, ok := dayNumbers[strings.ToLower(strings.TrimSpace(name))]; ok {
		return day, nil
	}
	return 0, errors.Wrapf(ErrInvalidDay, "%q", name)
}

// isoWeekday numbers Monday 1 .. Sunday 7.
func isoWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}

// DateInCurrentWeek returns midnight of the given day (1 = Monday) of the week containing now.
// On Sunday the week is the one ending that day.
func DateInCurrentWeek(now time.Time, day int) time.Time {
	diff := day - isoWeekday(now)
	y, m, d := now.Date()
	return time.Date(y, m, d+diff, 0, 0, 0, 0, now.Location())
}

// DayBounds returns the first and last instants of the day of t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
	return start, end
}
