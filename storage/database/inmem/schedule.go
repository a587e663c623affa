package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/schedule"
)

type scheduleRepository struct {
	db *DB
}

var _ schedule.Repository = (*scheduleRepository)(nil)

func NewScheduleRepository(db *DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

func (repo *scheduleRepository) withTeacher(it schedule.Item) schedule.Item {
	it.Teacher = repo.db.person(it.TeacherID)
	return it
}

func (repo *scheduleRepository) CreateItem(_ context.Context, it schedule.Item, _ ...core.DBExecutor) (schedule.Item, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	it.ID = newID()
	it.Teacher = nil
	repo.db.schedule[it.ID] = &it
	return repo.withTeacher(it), nil
}

func (repo *scheduleRepository) QueryItems(_ context.Context, filter schedule.QueryFilter, _ ...core.DBExecutor) ([]schedule.Item, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	items := make([]schedule.Item, 0)
	for _, it := range repo.db.schedule {
		if filter.ClassID != "" && it.ClassID != filter.ClassID {
			continue
		}
		if !filter.From.IsZero() && it.StartTime.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && it.StartTime.After(filter.To) {
			continue
		}
		items = append(items, repo.withTeacher(*it))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].StartTime.Before(items[j].StartTime) })
	return items, nil
}

func (repo *scheduleRepository) GetItem(_ context.Context, id string, _ ...core.DBExecutor) (schedule.Item, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if it, ok := repo.db.schedule[id]; ok {
		return repo.withTeacher(*it), nil
	}
	return schedule.Item{}, schedule.ErrNotFound
}

func (repo *scheduleRepository) UpdateItem(_ context.Context, it schedule.Item, _ ...core.DBExecutor) (schedule.Item, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.schedule[it.ID]; !ok {
		return schedule.Item{}, schedule.ErrNotFound
	}
	it.Teacher = nil
	repo.db.schedule[it.ID] = &it
	return repo.withTeacher(it), nil
}

func (repo *scheduleRepository) DeleteItem(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.schedule[id]; !ok {
		return schedule.ErrNotFound
	}
	delete(repo.db.schedule, id)
	return nil
}
