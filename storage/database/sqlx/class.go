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
	"github.com/trezcool/shkola/core/class"
)

type classRow struct {
	ID             string      `db:"id"`
	Name           string      `db:"name"`
	ClassTeacherID null.String `db:"class_teacher_id"`
	CreatedAt      time.Time   `db:"created_at"`
	TeacherName    null.String `db:"teacher_name"`
	TeacherEmail   null.String `db:"teacher_email"`
}

func (r classRow) class() class.Class {
	return class.Class{
		ID:             r.ID,
		Name:           r.Name,
		ClassTeacherID: r.ClassTeacherID,
		ClassTeacher:   person(r.ClassTeacherID, r.TeacherName, r.TeacherEmail),
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

type classRepository struct {
	base
}

var _ class.Repository = (*classRepository)(nil)

func NewClassRepository(exec core.DBExecutor) class.Repository {
	return &classRepository{base{exec: exec}}
}

func (repo *classRepository) selectClasses() sq.SelectBuilder {
	return psql.
		Select("c.id", "c.name", "c.class_teacher_id", "c.created_at", "u.name AS teacher_name", "u.email AS teacher_email").
		From("classes c").
		LeftJoin("users u ON u.id = c.class_teacher_id")
}

func (repo *classRepository) get(ctx context.Context, where sq.Sqlizer, exec []core.DBExecutor) (class.Class, error) {
	query, args, err := repo.selectClasses().Where(where).Limit(1).ToSql()
	if err != nil {
		return class.Class{}, errors.Wrap(err, "building query")
	}
	var row classRow
	if err = sqlx.GetContext(ctx, repo.getExec(exec), &row, query, args...); err != nil {
		return class.Class{}, trapNoRowsErr(err, class.ErrNotFound, "selecting class")
	}
	return row.class(), nil
}

func (repo *classRepository) CreateClass(ctx context.Context, cls class.Class, exec ...core.DBExecutor) (class.Class, error) {
	cls.ID = uuid.New().String()
	query, args, err := psql.Insert("classes").
		Columns("id", "name", "class_teacher_id", "created_at").
		Values(cls.ID, cls.Name, cls.ClassTeacherID, cls.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return class.Class{}, errors.Wrap(err, "building query")
	}

	if _, err = repo.getExec(exec).ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return class.Class{}, class.ErrNameExists
		}
		return class.Class{}, errors.Wrap(err, "inserting class")
	}
	if cls.ClassTeacherID.Valid {
		return repo.get(ctx, sq.Eq{"c.id": cls.ID}, exec)
	}
	return cls, nil
}

func (repo *classRepository) QueryClasses(ctx context.Context, exec ...core.DBExecutor) ([]class.Class, error) {
	query, args, err := repo.selectClasses().OrderBy("c.name ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []classRow
	if err = sqlx.SelectContext(ctx, repo.getExec(exec), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting classes")
	}

	classes := make([]class.Class, 0, len(rows))
	for _, r := range rows {
		classes = append(classes, r.class())
	}
	return classes, nil
}

func (repo *classRepository) GetClass(ctx context.Context, id string, exec ...core.DBExecutor) (class.Class, error) {
	if !validID(id) {
		return class.Class{}, class.ErrNotFound
	}
	return repo.get(ctx, sq.Eq{"c.id": id}, exec)
}

func (repo *classRepository) GetClassByName(ctx context.Context, name string, exec ...core.DBExecutor) (class.Class, error) {
	return repo.get(ctx, sq.Eq{"c.name": name}, exec)
}

func (repo *classRepository) SetClassTeacher(ctx context.Context, id string, teacherID null.String, exec ...core.DBExecutor) (class.Class, error) {
	if !validID(id) {
		return class.Class{}, class.ErrNotFound
	}
	query, args, err := psql.Update("classes").
		Set("class_teacher_id", teacherID).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return class.Class{}, errors.Wrap(err, "building query")
	}

	res, err := repo.getExec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "updating class teacher")
	}
	if err = checkAffected(res, class.ErrNotFound); err != nil {
		return class.Class{}, err
	}
	return repo.get(ctx, sq.Eq{"c.id": id}, exec)
}

func (repo *classRepository) DeleteClass(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if !validID(id) {
		return class.ErrNotFound
	}
	query, args, err := psql.Delete("classes").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	res, err := repo.getExec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return checkAffected(res, class.ErrNotFound)
}
