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
	"github.com/trezcool/shkola/core/ticket"
)

type ticketRow struct {
	ID           string      `db:"id"`
	Title        string      `db:"title"`
	Description  string      `db:"description"`
	Status       string      `db:"status"`
	CreatedBy    string      `db:"created_by"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
	CreatorName  null.String `db:"creator_name"`
	CreatorEmail null.String `db:"creator_email"`
}

func (r ticketRow) ticket() ticket.Ticket {
	return ticket.Ticket{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      ticket.Status(r.Status),
		CreatedBy:   r.CreatedBy,
		Creator:     person(null.StringFrom(r.CreatedBy), r.CreatorName, r.CreatorEmail),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type ticketRepository struct {
	base
}

var _ ticket.Repository = (*ticketRepository)(nil)

func NewTicketRepository(exec core.DBExecutor) ticket.Repository {
	return &ticketRepository{base{exec: exec}}
}

func (repo *ticketRepository) selectTickets() sq.SelectBuilder {
	return psql.
		Select(
			"t.id", "t.title", "t.description", "t.status", "t.created_by", "t.created_at", "t.updated_at",
			"u.name AS creator_name", "u.email AS creator_email",
		).
		From("tickets t").
		Join("users u ON u.id = t.created_by")
}

func (repo *ticketRepository) CreateTicket(ctx context.Context, tkt ticket.Ticket, exec ...core.DBExecutor) (ticket.Ticket, error) {
	tkt.ID = uuid.New().String()
	query, args, err := psql.Insert("tickets").
		Columns("id", "title", "description", "status", "created_by", "created_at", "updated_at").
		Values(tkt.ID, tkt.Title, tkt.Description, string(tkt.Status), tkt.CreatedBy, tkt.CreatedAt.UTC(), tkt.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return ticket.Ticket{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.getExec(exec).ExecContext(ctx, query, args...); err != nil {
		return ticket.Ticket{}, errors.Wrap(err, "inserting ticket")
	}
	return tkt, nil
}

func (repo *ticketRepository) QueryTickets(ctx context.Context, filter ticket.QueryFilter, exec ...core.DBExecutor) ([]ticket.Ticket, error) {
	qs := repo.selectTickets()
	if filter.CreatedBy != "" {
		if !validID(filter.CreatedBy) {
			return []ticket.Ticket{}, nil
		}
		qs = qs.Where(sq.Eq{"t.created_by": filter.CreatedBy})
	}
	if filter.ExcludeStatus != "" {
		qs = qs.Where(sq.NotEq{"t.status": string(filter.ExcludeStatus)})
	}

	query, args, err := qs.OrderBy("t.created_at DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []ticketRow
	if err = sqlx.SelectContext(ctx, repo.getExec(exec), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting tickets")
	}

	tickets := make([]ticket.Ticket, 0, len(rows))
	for _, r := range rows {
		tickets = append(tickets, r.ticket())
	}
	return tickets, nil
}

func (repo *ticketRepository) GetTicket(ctx context.Context, id string, exec ...core.DBExecutor) (ticket.Ticket, error) {
	if !validID(id) {
		return ticket.Ticket{}, ticket.ErrNotFound
	}
	query, args, err := repo.selectTickets().Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return ticket.Ticket{}, errors.Wrap(err, "building query")
	}
	var row ticketRow
	if err = sqlx.GetContext(ctx, repo.getExec(exec), &row, query, args...); err != nil {
		return ticket.Ticket{}, trapNoRowsErr(err, ticket.ErrNotFound, "selecting ticket")
	}
	return row.ticket(), nil
}

func (repo *ticketRepository) UpdateTicket(ctx context.Context, tkt ticket.Ticket, exec ...core.DBExecutor) (ticket.Ticket, error) {
	if !validID(tkt.ID) {
		return ticket.Ticket{}, ticket.ErrNotFound
	}
	query, args, err := psql.Update("tickets").
		SetMap(map[string]interface{}{
			"title":       tkt.Title,
			"description": tkt.Description,
			"status":      string(tkt.Status),
			"updated_at":  tkt.UpdatedAt.UTC(),
		}).
		Where(sq.Eq{"id": tkt.ID}).
		ToSql()
	if err != nil {
		return ticket.Ticket{}, errors.Wrap(err, "building query")
	}

	res, err := repo.getExec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return ticket.Ticket{}, errors.Wrap(err, "updating ticket")
	}
	if err = checkAffected(res, ticket.ErrNotFound); err != nil {
		return ticket.Ticket{}, err
	}
	return repo.GetTicket(ctx, tkt.ID, exec...)
}
