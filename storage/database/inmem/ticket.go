package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/ticket"
)

type ticketRepository struct {
	db *DB
}

var _ ticket.Repository = (*ticketRepository)(nil)

func NewTicketRepository(db *DB) ticket.Repository {
	return &ticketRepository{db: db}
}

func (repo *ticketRepository) withCreator(tkt ticket.Ticket) ticket.Ticket {
	tkt.Creator = repo.db.person(tkt.CreatedBy)
	return tkt
}

func (repo *ticketRepository) CreateTicket(_ context.Context, tkt ticket.Ticket, _ ...core.DBExecutor) (ticket.Ticket, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	tkt.ID = newID()
	tkt.Creator = nil
	repo.db.tickets[tkt.ID] = &tkt
	return repo.withCreator(tkt), nil
}

func (repo *ticketRepository) QueryTickets(_ context.Context, filter ticket.QueryFilter, _ ...core.DBExecutor) ([]ticket.Ticket, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	tickets := make([]ticket.Ticket, 0)
	for _, tkt := range repo.db.tickets {
		if filter.CreatedBy != "" && tkt.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.ExcludeStatus != "" && tkt.Status == filter.ExcludeStatus {
			continue
		}
		tickets = append(tickets, repo.withCreator(*tkt))
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].CreatedAt.After(tickets[j].CreatedAt) })
	return tickets, nil
}

func (repo *ticketRepository) GetTicket(_ context.Context, id string, _ ...core.DBExecutor) (ticket.Ticket, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if tkt, ok := repo.db.tickets[id]; ok {
		return repo.withCreator(*tkt), nil
	}
	return ticket.Ticket{}, ticket.ErrNotFound
}

func (repo *ticketRepository) UpdateTicket(_ context.Context, tkt ticket.Ticket, _ ...core.DBExecutor) (ticket.Ticket, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.tickets[tkt.ID]; !ok {
		return ticket.Ticket{}, ticket.ErrNotFound
	}
	tkt.Creator = nil
	repo.db.tickets[tkt.ID] = &tkt
	return repo.withCreator(tkt), nil
}
