package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/calendar"
)

type eventRepository struct {
	db *DB
}

var _ calendar.Repository = (*eventRepository)(nil)

func NewEventRepository(db *DB) calendar.Repository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) withCreator(evt calendar.Event) calendar.Event {
	evt.Creator = repo.db.person(evt.CreatedBy)
	return evt
}

func (repo *eventRepository) CreateEvent(_ context.Context, evt calendar.Event, _ ...core.DBExecutor) (calendar.Event, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	evt.ID = newID()
	evt.Creator = nil
	evt.DescriptionHTML = ""
	repo.db.events[evt.ID] = &evt
	return repo.withCreator(evt), nil
}

func (repo *eventRepository) QueryEvents(_ context.Context, _ ...core.DBExecutor) ([]calendar.Event, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	events := make([]calendar.Event, 0, len(repo.db.events))
	for _, evt := range repo.db.events {
		events = append(events, repo.withCreator(*evt))
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date.Equal(events[j].Date) {
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		}
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

func (repo *eventRepository) GetEvent(_ context.Context, id string, _ ...core.DBExecutor) (calendar.Event, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if evt, ok := repo.db.events[id]; ok {
		return repo.withCreator(*evt), nil
	}
	return calendar.Event{}, calendar.ErrNotFound
}

func (repo *eventRepository) UpdateEvent(_ context.Context, evt calendar.Event, _ ...core.DBExecutor) (calendar.Event, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.events[evt.ID]; !ok {
		return calendar.Event{}, calendar.ErrNotFound
	}
	evt.Creator = nil
	evt.DescriptionHTML = ""
	repo.db.events[evt.ID] = &evt
	return repo.withCreator(evt), nil
}

func (repo *eventRepository) DeleteEvent(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.events[id]; !ok {
		return calendar.ErrNotFound
	}
	delete(repo.db.events, id)
	return nil
}
