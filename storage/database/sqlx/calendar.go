package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/calendar"
)

type eventRow struct {
	ID           string      `db:"id"`
	Title        string      `db:"title"`
	Description  null.String `db:"description"`
	Date         time.Time   `db:"date"`
	CreatedBy    string      `db:"created_by"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
	CreatorName  null.String `db:"creator_name"`
	CreatorEmail null.String `db:"creator_email"`
}

func (r eventRow) event() calendar.Event {
	return calendar.Event{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date.UTC(),
		CreatedBy:   r.CreatedBy,
		Creator:     person(null.StringFrom(r.CreatedBy), r.CreatorName, r.CreatorEmail),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type eventRepository struct {
	base
}

var _ calendar.Repository = (*eventRepository)(nil)

func NewEventRepository(exec core.DBExecutor) calendar.Repository {
	return &eventRepository{base{exec: exec}}
}

func (repo *eventRepository) selectEvents() sq.SelectBuilder {
	return psql.
		Select(
			"e.id", "e.title", "e.description", "e.date", "e.created_by", "e.created_at", "e.updated_at",
			"u.name AS creator_name", "u.email AS creator_email",
		).
		From("calendar_events e").
		Join("users u ON u.id = e.created_by")
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt calendar.Event, exec ...core.DBExecutor) (calendar.Event, error) {
	evt.ID = uuid.New().String()
	query, args, err := psql.Insert("calendar_events").
		Columns("id", "title", "description", "date", "created_by", "created_at", "updated_at").
		Values(evt.ID, evt.Title, evt.Description, evt.Date.UTC(), evt.CreatedBy, evt.CreatedAt.UTC(), evt.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return calendar.Event{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.getExec(exec).ExecContext(ctx, query, args...); err != nil {
		return calendar.Event{}, errors.Wrap(err, "inserting event")
	}
	return repo.GetEvent(ctx, evt.ID, exec...)
}

func (repo *eventRepository) QueryEvents(ctx context.Context, exec ...core.DBExecutor) ([]calendar.Event, error) {
	query, args, err := repo.selectEvents().OrderBy("e.date ASC", "e.created_at ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []eventRow
	if err = sqlx.SelectContext(ctx, repo.getExec(exec), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting events")
	}

	events := make([]calendar.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.event())
	}
	return events, nil
}

func (repo *eventRepository) GetEvent(ctx context.Context, id string, exec ...core.DBExecutor) (calendar.Event, error) {
	if !validID(id) {
		return calendar.Event{}, calendar.ErrNotFound
	}
	query, args, err := repo.selectEvents().Where(sq.Eq{"e.id": id}).ToSql()
	if err != nil {
		return calendar.Event{}, errors.Wrap(err, "building query")
	}
	var row eventRow
	if err = sqlx.GetContext(ctx, repo.getExec(exec), &row, query, args...); err != nil {
		return calendar.Event{}, trapNoRowsErr(err, calendar.ErrNotFound, "selecting event")
	}
	return row.event(), nil
}

func (repo *eventRepository) UpdateEvent(ctx context.Context, evt calendar.Event, exec ...core.DBExecutor) (calendar.Event, error) {
	if !validID(evt.ID) {
		return calendar.Event{}, calendar.ErrNotFound
	}
	query, args, err := psql.Update("calendar_events").
		SetMap(map[string]interface{}{
			"title":       evt.Title,
			"description": evt.Description,
			"date":        evt.Date.UTC(),
			"updated_at":  evt.UpdatedAt.UTC(),
		}).
		Where(sq.Eq{"id": evt.ID}).
		ToSql()
	if err != nil {
		return calendar.Event{}, errors.Wrap(err, "building query")
	}

	res, err := repo.getExec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return calendar.Event{}, errors.Wrap(err, "updating event")
	}
	if err = checkAffected(res, calendar.ErrNotFound); err != nil {
		return calendar.Event{}, err
	}
	return repo.GetEvent(ctx, evt.ID, exec...)
}

func (repo *eventRepository) DeleteEvent(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if !validID(id) {
		return calendar.ErrNotFound
	}
	query, args, err := psql.Delete("calendar_events").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	res, err := repo.getExec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return checkAffected(res, calendar.ErrNotFound)
}
