// Package sqlxrepos implements the domain repositories on PostgreSQL with sqlx and squirrel.
package sqlxrepos

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/user"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// base is embedded by every repository.
type base struct {
	exec core.DBExecutor
}

func (b base) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return b.exec
}

// trapNoRowsErr maps psql "no rows" err to notFound
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func isUniqueViolation(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == "23505"
}

// checkAffected returns notFound when res touched no row.
func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reading affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// validID reports whether id can be compared to a uuid column without a cast error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// person builds the joined user columns of a LEFT JOIN, nil when the row has no user.
func person(id, name, email null.String) *user.Person {
	if !id.Valid {
		return nil
	}
	return &user.Person{ID: id.String, Name: name.String, Email: email.String}
}
