package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/order"
)

type orderRepository struct {
	db *DB
}

var _ order.Repository = (*orderRepository)(nil)

func NewOrderRepository(db *DB) order.Repository {
	return &orderRepository{db: db}
}

func (repo *orderRepository) populate(ord order.Order) order.Order {
	ord.Creator = repo.db.person(ord.CreatedBy)
	ord.Class = nil
	if cls, ok := repo.db.classes[ord.ClassID]; ok {
		ord.Class = cls.Ref()
	}
	return ord
}

func (repo *orderRepository) CreateOrder(_ context.Context, ord order.Order, _ ...core.DBExecutor) (order.Order, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	ord.ID = newID()
	ord.Class = nil
	ord.Creator = nil
	repo.db.orders[ord.ID] = &ord
	return repo.populate(ord), nil
}

func (repo *orderRepository) QueryOrders(_ context.Context, _ ...core.DBExecutor) ([]order.Order, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	orders := make([]order.Order, 0, len(repo.db.orders))
	for _, ord := range repo.db.orders {
		orders = append(orders, repo.populate(*ord))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (repo *orderRepository) DeleteOrder(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.orders[id]; !ok {
		return order.ErrNotFound
	}
	delete(repo.db.orders, id)
	return nil
}
