package schedule

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/user"
)

// Item is one lesson of a class on a given date.
type Item struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	LessonNumber int          `json:"lesson_number"`
	StartTime    time.Time    `json:"start_time"`
	EndTime      time.Time    `json:"end_time"`
	Location     string       `json:"location"`
	TeacherID    string       `json:"teacher_id"`
	ClassID      string       `json:"class_id"`
	Teacher      *user.Person `json:"teacher,omitempty"`
	CreatedAt    time.Time    `json:"created_at"` // UTC
}

// NewItem places a lesson on a weekday of the current week. Times are "HH:MM" in the school timezone.
type NewItem struct {
	ClassID      string `json:"class_id" validate:"required"`
	Day          string `json:"day" validate:"required"`
	LessonNumber int    `json:"lesson_number" validate:"required,min=1,max=14"`
	Title        string `json:"title" validate:"required"`
	TeacherName  string `json:"teacher_name" validate:"required"`
	Location     string `json:"location" validate:"required"`
	StartTime    string `json:"start_time" validate:"required,clock"`
	EndTime      string `json:"end_time" validate:"required,clock"`
}

func (ni *NewItem) Validate(validate *validator.Validate) error {
	ni.ClassID = core.CleanString(ni.ClassID)
	ni.Day = core.CleanString(ni.Day)
	ni.Title = core.CleanString(ni.Title)
	ni.TeacherName = core.CleanString(ni.TeacherName)
	ni.Location = core.CleanString(ni.Location)
	ni.StartTime = core.CleanString(ni.StartTime)
	ni.EndTime = core.CleanString(ni.EndTime)

	if err := validate.Struct(ni); err != nil {
		return err
	}
	if _, err := ParseDay(ni.Day); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "day", Error: "unknown day"})
	}
	start, _ := parseClock(ni.StartTime)
	end, _ := parseClock(ni.EndTime)
	if end <= start {
		return core.NewValidationError(nil, core.FieldError{Field: "end_time", Error: "end_time must be after start_time"})
	}
	return nil
}

type UpdateItem struct {
	Title       string    `json:"title" validate:"required"`
	TeacherName string    `json:"teacher_name" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

func (ui *UpdateItem) Validate(validate *validator.Validate) error {
	ui.Title = core.CleanString(ui.Title)
	ui.TeacherName = core.CleanString(ui.TeacherName)
	ui.Location = core.CleanString(ui.Location)
	return validate.Struct(ui)
}

// QueryFilter selects the items of a class, optionally within [From, To].
type QueryFilter struct {
	ClassID string
	From    time.Time
	To      time.Time
}

// parseClock returns the offset of an "HH:MM" time from midnight.
func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse(core.ClockLayout, s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
