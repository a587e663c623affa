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
	"github.com/trezcool/shkola/core/order"
)

type orderRow struct {
	ID           string      `db:"id"`
	ClassID      string      `db:"class_id"`
	Order        string      `db:"order"`
	CreatedBy    string      `db:"created_by"`
	CreatedAt    time.Time   `db:"created_at"`
	ClassName    string      `db:"class_name"`
	CreatorName  null.String `db:"creator_name"`
	CreatorEmail null.String `db:"creator_email"`
}

func (r orderRow) order() order.Order {
	return order.Order{
		ID:        r.ID,
		ClassID:   r.ClassID,
		Order:     r.Order,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt.UTC(),
		Class:     &class.Ref{ID: r.ClassID, Name: r.ClassName},
		Creator:   person(null.StringFrom(r.CreatedBy), r.CreatorName, r.CreatorEmail),
	}
}

type orderRepository struct {
	base
}

var _ order.Repository = (*orderRepository)(nil)

func NewOrderRepository(exec core.DBExecutor) order.Repository {
	return &orderRepository{base{exec: exec}}
}

func (repo *orderRepository) CreateOrder(ctx context.Context, ord order.Order, exec ...core.DBExecutor) (order.Order, error) {
	ord.ID = uuid.New().String()
	query, args, err := psql.Insert("orders").
		Columns("id", "class_id", `"order"`, "created_by", "created_at").
		Values(ord.ID, ord.ClassID, ord.Order, ord.CreatedBy, ord.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return order.Order{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.getExec(exec).ExecContext(ctx, query, args...); err != nil {
		return order.Order{}, errors.Wrap(err, "inserting order")
	}
	return ord, nil
}

func (repo *orderRepository) QueryOrders(ctx context.Context, exec ...core.DBExecutor) ([]order.Order, error) {
	query, args, err := psql.
		Select(
			"o.id", "o.class_id", `o."order"`, "o.created_by", "o.created_at",
			"c.name AS class_name", "u.name AS creator_name", "u.email AS creator_email",
		).
		From("orders o").
		Join("classes c ON c.id = o.class_id").
		Join("users u ON u.id = o.created_by").
		OrderBy("o.created_at DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []orderRow
	if err = sqlx.SelectContext(ctx, repo.getExec(exec), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting orders")
	}

	orders := make([]order.Order, 0, len(rows))
	for _, r := range rows {
		orders = append(orders, r.order())
	}
	return orders, nil
}

func (repo *orderRepository) DeleteOrder(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if !validID(id) {
		return order.ErrNotFound
	}
	query, args, err := psql.Delete("orders").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	res, err := repo.getExec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "deleting order")
	}
	return checkAffected(res, order.ErrNotFound)
}
