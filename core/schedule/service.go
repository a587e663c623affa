package schedule

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/class"
	"github.com/trezcool/shkola/core/user"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("schedule item")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateItem(ctx context.Context, it Item, exec ...core.DBExecutor) (Item, error)
		// QueryItems returns the matching items sorted by start time, with their teacher.
		QueryItems(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Item, error)
		GetItem(ctx context.Context, id string, exec ...core.DBExecutor) (Item, error)
		UpdateItem(ctx context.Context, it Item, exec ...core.DBExecutor) (Item, error)
		DeleteItem(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	teacherResolver interface {
		GetOrCreateTeacher(ctx context.Context, name string, exec ...core.DBExecutor) (user.User, error)
	}

	classGetter interface {
		GetByID(ctx context.Context, id string) (class.Class, error)
	}

	Service struct {
		repo    Repository
		tx      core.Transactor
		users   teacherResolver
		classes classGetter
		loc     *time.Location
	}
)

// NewService returns a schedule Service resolving weekdays and clock times in loc.
func NewService(repo Repository, tx core.Transactor, users teacherResolver, classes classGetter, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, tx: tx, users: users, classes: classes, loc: loc}
}

// ForDay returns the lessons of a class on the given day of the current week.
func (svc *Service) ForDay(ctx context.Context, classID, dayName string) ([]Item, error) {
	day, err := ParseDay(dayName)
	if err != nil {
		return nil, core.NewValidationError(err, core.FieldError{Field: "day", Error: "unknown day"})
	}
	from, to := DayBounds(DateInCurrentWeek(nowFunc().In(svc.loc), day))
	return svc.repo.QueryItems(ctx, QueryFilter{ClassID: classID, From: from, To: to})
}

// ForClass returns every lesson of a class.
func (svc *Service) ForClass(ctx context.Context, classID string) ([]Item, error) {
	return svc.repo.QueryItems(ctx, QueryFilter{ClassID: classID})
}

func (svc *Service) Create(ctx context.Context, ni NewItem) (Item, error) {
	if _, err := svc.classes.GetByID(ctx, ni.ClassID); err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return Item{}, core.NewValidationError(err, core.FieldError{Field: "class_id", Error: err.Error()})
		}
		return Item{}, errors.Wrap(err, "finding class")
	}

	day, err := ParseDay(ni.Day)
	if err != nil {
		return Item{}, core.NewValidationError(err, core.FieldError{Field: "day", Error: "unknown day"})
	}
	date := DateInCurrentWeek(nowFunc().In(svc.loc), day)
	start, err := parseClock(ni.StartTime)
	if err != nil {
		return Item{}, core.NewValidationError(err, core.FieldError{Field: "start_time", Error: err.Error()})
	}
	end, err := parseClock(ni.EndTime)
	if err != nil {
		return Item{}, core.NewValidationError(err, core.FieldError{Field: "end_time", Error: err.Error()})
	}

	it := Item{
		Title:        ni.Title,
		LessonNumber: ni.LessonNumber,
		StartTime:    date.Add(start),
		EndTime:      date.Add(end),
		Location:     ni.Location,
		ClassID:      ni.ClassID,
		CreatedAt:    time.Now().UTC(),
	}
	err = svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		teacher, err := svc.users.GetOrCreateTeacher(ctx, ni.TeacherName, exec)
		if err != nil {
			return err
		}
		it.TeacherID = teacher.ID
		if it, err = svc.repo.CreateItem(ctx, it, exec); err != nil {
			return errors.Wrap(err, "creating schedule item")
		}
		it.Teacher = teacher.Person()
		return nil
	})
	return it, err
}

func (svc *Service) Update(ctx context.Context, id string, ui UpdateItem) (Item, error) {
	it, err := svc.repo.GetItem(ctx, id)
	if err != nil {
		return Item{}, err
	}

	it.Title = ui.Title
	it.Location = ui.Location
	it.StartTime = ui.StartTime
	it.EndTime = ui.EndTime
	err = svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		teacher, err := svc.users.GetOrCreateTeacher(ctx, ui.TeacherName, exec)
		if err != nil {
			return err
		}
		it.TeacherID = teacher.ID
		if it, err = svc.repo.UpdateItem(ctx, it, exec); err != nil {
			return errors.Wrap(err, "updating schedule item")
		}
		it.Teacher = teacher.Person()
		return nil
	})
	return it, err
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteItem(ctx, id)
}
