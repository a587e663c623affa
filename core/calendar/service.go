package calendar

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/user"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("event")
)

type (
	Repository interface {
		CreateEvent(ctx context.Context, evt Event, exec ...core.DBExecutor) (Event, error)
		// QueryEvents returns every event sorted by date, with its creator.
		QueryEvents(ctx context.Context, exec ...core.DBExecutor) ([]Event, error)
		GetEvent(ctx context.Context, id string, exec ...core.DBExecutor) (Event, error)
		UpdateEvent(ctx context.Context, evt Event, exec ...core.DBExecutor) (Event, error)
		DeleteEvent(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo Repository
		md   goldmark.Markdown
	}
)

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		// raw HTML in descriptions is dropped (no html.WithUnsafe)
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// Grouped returns the events keyed by day ("2006-01-02"), each day sorted by date.
func (svc *Service) Grouped(ctx context.Context) (map[string][]Event, error) {
	events, err := svc.repo.QueryEvents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying events")
	}

	grouped := make(map[string][]Event)
	for _, evt := range events {
		svc.render(&evt)
		key := evt.DateKey()
		grouped[key] = append(grouped[key], evt)
	}
	return grouped, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Event, error) {
	evt, err := svc.repo.GetEvent(ctx, id)
	if err != nil {
		return Event{}, err
	}
	svc.render(&evt)
	return evt, nil
}

func (svc *Service) Create(ctx context.Context, creator user.User, ed EventData) (Event, error) {
	if ed.date.IsZero() {
		date, err := ParseDate(ed.Date)
		if err != nil {
			return Event{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: err.Error()})
		}
		ed.date = date
	}

	now := time.Now().UTC()
	evt, err := svc.repo.CreateEvent(ctx, Event{
		Title:       ed.Title,
		Description: null.NewString(ed.Description, ed.Description != ""),
		Date:        ed.date.UTC(),
		CreatedBy:   creator.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return Event{}, errors.Wrap(err, "creating event")
	}
	evt.Creator = creator.Person()
	svc.render(&evt)
	return evt, nil
}

func (svc *Service) Update(ctx context.Context, id string, ed EventData) (Event, error) {
	evt, err := svc.repo.GetEvent(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if ed.date.IsZero() {
		if ed.date, err = ParseDate(ed.Date); err != nil {
			return Event{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: err.Error()})
		}
	}

	evt.Title = ed.Title
	evt.Description = null.NewString(ed.Description, ed.Description != "")
	evt.Date = ed.date.UTC()
	evt.UpdatedAt = time.Now().UTC()
	if evt, err = svc.repo.UpdateEvent(ctx, evt); err != nil {
		return Event{}, errors.Wrap(err, "updating event")
	}
	svc.render(&evt)
	return evt, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteEvent(ctx, id)
}

// render fills DescriptionHTML from the markdown description.
func (svc *Service) render(evt *Event) {
	evt.DescriptionHTML = ""
	if !evt.Description.Valid || evt.Description.String == "" {
		return
	}
	var buf bytes.Buffer
	if err := svc.md.Convert([]byte(evt.Description.String), &buf); err != nil {
		evt.DescriptionHTML = template.HTMLEscapeString(evt.Description.String)
		return
	}
	evt.DescriptionHTML = buf.String()
}
