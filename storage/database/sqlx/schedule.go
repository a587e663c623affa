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
	"github.com/trezcool/shkola/core/schedule"
)

type scheduleRow struct {
	ID           string      `db:"id"`
	Title        string      `db:"title"`
	LessonNumber int         `db:"lesson_number"`
	StartTime    time.Time   `db:"start_time"`
	EndTime      time.Time   `db:"end_time"`
	Location     string      `db:"location"`
	TeacherID    string      `db:"teacher_id"`
	ClassID      string      `db:"class_id"`
	CreatedAt    time.Time   `db:"created_at"`
	TeacherName  null.String `db:"teacher_name"`
	TeacherEmail null.String `db:"teacher_email"`
}

func (r scheduleRow) item() schedule.Item {
	return schedule.Item{
		ID:           r.ID,
		Title:        r.Title,
		LessonNumber: r.LessonNumber,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Location:     r.Location,
		TeacherID:    r.TeacherID,
		ClassID:      r.ClassID,
		Teacher:      person(null.StringFrom(r.TeacherID), r.TeacherName, r.TeacherEmail),
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

type scheduleRepository struct {
	base
}

var _ schedule.Repository = (*scheduleRepository)(nil)

func NewScheduleRepository(exec core.DBExecutor) schedule.Repository {
	return &scheduleRepository{base{exec: exec}}
}

func (repo *scheduleRepository) selectItems() sq.SelectBuilder {
	return psql.
		Select(
			"s.id", "s.title", "s.lesson_number", "s.start_time", "s.end_time", "s.location",
			"s.teacher_id", "s.class_id", "s.created_at", "u.name AS teacher_name", "u.email AS teacher_email",
		).
		From("schedule_items s").
		Join("users u ON u.id = s.teacher_id")
}

func (repo *scheduleRepository) CreateItem(ctx context.Context, it schedule.Item, exec ...core.DBExecutor) (schedule.Item, error) {
	it.ID = uuid.New().String()
	query, args, err := psql.Insert("schedule_items").
		Columns("id", "title", "lesson_number", "start_time", "end_time", "location", "teacher_id", "class_id", "created_at").
		Values(it.ID, it.Title, it.LessonNumber, it.StartTime, it.EndTime, it.Location, it.TeacherID, it.ClassID, it.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return schedule.Item{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.getExec(exec).ExecContext(ctx, query, args...); err != nil {
		return schedule.Item{}, errors.Wrap(err, "inserting schedule item")
	}
	return repo.GetItem(ctx, it.ID, exec...)
}

func (repo *scheduleRepository) QueryItems(ctx context.Context, filter schedule.QueryFilter, exec ...core.DBExecutor) ([]schedule.Item, error) {
	qs := repo.selectItems()
	if filter.ClassID != "" {
		if !validID(filter.ClassID) {
			return []schedule.Item{}, nil
		}
		qs = qs.Where(sq.Eq{"s.class_id": filter.ClassID})
	}
	if !filter.From.IsZero() {
		qs = qs.Where(sq.GtOrEq{"s.start_time": filter.From})
	}
	if !filter.To.IsZero() {
		qs = qs.Where(sq.LtOrEq{"s.start_time": filter.To})
	}

	query, args, err := qs.OrderBy("s.start_time ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []scheduleRow
	if err = sqlx.SelectContext(ctx, repo.getExec(exec), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting schedule items")
	}

	items := make([]schedule.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.item())
	}
	return items, nil
}

func (repo *scheduleRepository) GetItem(ctx context.Context, id string, exec ...core.DBExecutor) (schedule.Item, error) {
	if !validID(id) {
		return schedule.Item{}, schedule.ErrNotFound
	}
	query, args, err := repo.selectItems().Where(sq.Eq{"s.id": id}).ToSql()
	if err != nil {
		return schedule.Item{}, errors.Wrap(err, "building query")
	}
	var row scheduleRow
	if err = sqlx.GetContext(ctx, repo.getExec(exec), &row, query, args...); err != nil {
		return schedule.Item{}, trapNoRowsErr(err, schedule.ErrNotFound, "selecting schedule item")
	}
	return row.item(), nil
}

func (repo *scheduleRepository) UpdateItem(ctx context.Context, it schedule.Item, exec ...core.DBExecutor) (schedule.Item, error) {
	if !validID(it.ID) {
		return schedule.Item{}, schedule.ErrNotFound
	}
	query, args, err := psql.Update("schedule_items").
		SetMap(map[string]interface{}{
			"title":         it.Title,
			"lesson_number": it.LessonNumber,
			"start_time":    it.StartTime,
			"end_time":      it.EndTime,
			"location":      it.Location,
			"teacher_id":    it.TeacherID,
		}).
		Where(sq.Eq{"id": it.ID}).
		ToSql()
	if err != nil {
		return schedule.Item{}, errors.Wrap(err, "building query")
	}

	res, err := repo.getExec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return schedule.Item{}, errors.Wrap(err, "updating schedule item")
	}
	if err = checkAffected(res, schedule.ErrNotFound); err != nil {
		return schedule.Item{}, err
	}
	return repo.GetItem(ctx, it.ID, exec...)
}

func (repo *scheduleRepository) DeleteItem(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if !validID(id) {
		return schedule.ErrNotFound
	}
	query, args, err := psql.Delete("schedule_items").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	res, err := repo.getExec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "deleting schedule item")
	}
	return checkAffected(res, schedule.ErrNotFound)
}
