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
	"github.com/trezcool/shkola/core/user"
)

var userColumns = []string{"id", "name", "email", "role", "is_active", "password_hash", "created_at", "updated_at", "last_login"}

// sortable user columns, used to whitelist DBOrdering fields
var userOrderFields = map[string]bool{
	"name": true, "email": true, "role": true, "is_active": true,
	"created_at": true, "updated_at": true, "last_login": true,
}

type userRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Role         int       `db:"role"`
	IsActive     bool      `db:"is_active"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	LastLogin    null.Time `db:"last_login"`
}

func (r userRow) user() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         user.Role(r.Role),
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
		LastLogin:    r.LastLogin.Time.UTC(),
	}
}

type userRepository struct {
	base
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) user.Repository {
	return &userRepository{base{exec: exec}}
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers []user.User, exec ...core.DBExecutor) error {
	where := sq.And{sq.Eq{"email": email}}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		where = append(where, sq.NotEq{"id": ids})
	}

	query, args, err := psql.Select("COUNT(*)").From("users").Where(where).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	var cnt int
	if err = sqlx.GetContext(ctx, repo.getExec(exec), &cnt, query, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if cnt > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	usr.ID = uuid.New().String()
	query, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(
			usr.ID, usr.Name, usr.Email, int(usr.Role), usr.IsActive, usr.PasswordHash,
			usr.CreatedAt.UTC(), usr.UpdatedAt.UTC(), null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
		).
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building query")
	}

	if _, err = repo.getExec(exec).ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]user.User, error) {
	qs := psql.Select(userColumns...).From("users")

	if filter != nil && !filter.IsEmpty() {
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			qs = qs.Where(sq.Or{sq.ILike{"name": pattern}, sq.ILike{"email": pattern}})
		}
		if len(filter.Roles) > 0 {
			roles := make([]int, 0, len(filter.Roles))
			for _, r := range filter.Roles {
				roles = append(roles, int(r))
			}
			qs = qs.Where(sq.Eq{"role": roles})
		}
		if filter.IsActive != nil {
			qs = qs.Where(sq.Eq{"is_active": *filter.IsActive})
		}
	}

	orderBy := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		if userOrderFields[ord.Field] {
			orderBy = append(orderBy, ord.String())
		}
	}
	if len(orderBy) == 0 {
		orderBy = append(orderBy, "created_at ASC")
	}
	qs = qs.OrderBy(orderBy...)

	query, args, err := qs.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []userRow
	if err = sqlx.SelectContext(ctx, repo.getExec(exec), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}

	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.user())
	}
	return users, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter, exec ...core.DBExecutor) (user.User, error) {
	qs := psql.Select(userColumns...).From("users")
	switch {
	case filter.ID != "":
		if !validID(filter.ID) {
			return user.User{}, user.ErrNotFound
		}
		qs = qs.Where(sq.Eq{"id": filter.ID})
	case filter.Email != "":
		qs = qs.Where(sq.Eq{"email": filter.Email})
	case filter.Name != "":
		qs = qs.Where(sq.Eq{"name": filter.Name}).OrderBy("created_at ASC")
	default:
		return user.User{}, user.ErrNotFound
	}

	query, args, err := qs.Limit(1).ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building query")
	}
	var row userRow
	if err = sqlx.GetContext(ctx, repo.getExec(exec), &row, query, args...); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "selecting user")
	}
	return row.user(), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	query, args, err := psql.Update("users").
		SetMap(map[string]interface{}{
			"name":          usr.Name,
			"email":         usr.Email,
			"role":          int(usr.Role),
			"is_active":     usr.IsActive,
			"password_hash": usr.PasswordHash,
			"updated_at":    usr.UpdatedAt.UTC(),
			"last_login":    null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
		}).
		Where(sq.Eq{"id": usr.ID}).
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building query")
	}

	res, err := repo.getExec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if err = checkAffected(res, user.ErrNotFound); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return 0, nil
	}

	query, args, err := psql.Delete("users").Where(sq.Eq{"id": valid}).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building query")
	}
	res, err := repo.getExec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting users")
	}
	n, err := res.RowsAffected()
	return int(n), errors.Wrap(err, "reading affected rows")
}
