package calendar

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/user"
)

// DateKeyLayout is the layout of the keys of grouped events.
const DateKeyLayout = "2006-01-02"

type Event struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     null.String  `json:"description"`
	DescriptionHTML string       `json:"description_html,omitempty"`
	Date            time.Time    `json:"date"`
	CreatedBy       string       `json:"created_by"`
	Creator         *user.Person `json:"creator,omitempty"`
	CreatedAt       time.Time    `json:"created_at"` // UTC
	UpdatedAt       time.Time    `json:"updated_at"` // UTC
}

// DateKey groups events by calendar day (UTC).
func (e Event) DateKey() string {
	return e.Date.UTC().Format(DateKeyLayout)
}

// EventData is used to create or modify an Event.
// Date accepts either a day ("2006-01-02") or an RFC3339 timestamp.
type EventData struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required"`

	date time.Time
}

func (ed *EventData) Validate(validate *validator.Validate) error {
	ed.Title = core.CleanString(ed.Title)
	ed.Description = core.CleanString(ed.Description)
	ed.Date = core.CleanString(ed.Date)

	if err := validate.Struct(ed); err != nil {
		return err
	}
	date, err := ParseDate(ed.Date)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "date", Error: "date must be formatted as YYYY-MM-DD or RFC3339"})
	}
	ed.date = date
	return nil
}

// ParseDate parses a day ("2006-01-02", UTC midnight) or an RFC3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateKeyLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
