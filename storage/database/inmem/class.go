package inmemdb

import (
	"context"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/class"
)

type classRepository struct {
	db *DB
}

var _ class.Repository = (*classRepository)(nil)

func NewClassRepository(db *DB) class.Repository {
	return &classRepository{db: db}
}

// withTeacher must be called with db.mu held.
func (repo *classRepository) withTeacher(cls class.Class) class.Class {
	cls.ClassTeacher = nil
	if cls.ClassTeacherID.Valid {
		cls.ClassTeacher = repo.db.person(cls.ClassTeacherID.String)
	}
	return cls
}

func (repo *classRepository) CreateClass(_ context.Context, cls class.Class, _ ...core.DBExecutor) (class.Class, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, c := range repo.db.classes {
		if c.Name == cls.Name {
			return class.Class{}, class.ErrNameExists
		}
	}
	cls.ID = newID()
	cls.ClassTeacher = nil
	repo.db.classes[cls.ID] = &cls
	return repo.withTeacher(cls), nil
}

func (repo *classRepository) QueryClasses(_ context.Context, _ ...core.DBExecutor) ([]class.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	classes := make([]class.Class, 0, len(repo.db.classes))
	for _, cls := range repo.db.classes {
		classes = append(classes, repo.withTeacher(*cls))
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (repo *classRepository) GetClass(_ context.Context, id string, _ ...core.DBExecutor) (class.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if cls, ok := repo.db.classes[id]; ok {
		return repo.withTeacher(*cls), nil
	}
	return class.Class{}, class.ErrNotFound
}

func (repo *classRepository) GetClassByName(_ context.Context, name string, _ ...core.DBExecutor) (class.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, cls := range repo.db.classes {
		if cls.Name == name {
			return repo.withTeacher(*cls), nil
		}
	}
	return class.Class{}, class.ErrNotFound
}

func (repo *classRepository) SetClassTeacher(_ context.Context, id string, teacherID null.String, _ ...core.DBExecutor) (class.Class, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	cls, ok := repo.db.classes[id]
	if !ok {
		return class.Class{}, class.ErrNotFound
	}
	cls.ClassTeacherID = teacherID
	return repo.withTeacher(*cls), nil
}

func (repo *classRepository) DeleteClass(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.classes[id]; !ok {
		return class.ErrNotFound
	}
	delete(repo.db.classes, id)
	repo.db.cascadeClass(id)
	return nil
}
