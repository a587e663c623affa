package class

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/user"
)

var (
	// errors
	ErrNotFound   = core.NewNotFoundError("class")
	ErrNameExists = errors.New("a class with this name already exists")
	ErrNotTeacher = errors.New("user cannot be a class teacher")
)

type (
	Repository interface {
		CreateClass(ctx context.Context, cls Class, exec ...core.DBExecutor) (Class, error)
		// QueryClasses returns every class sorted by name, with its class teacher.
		QueryClasses(ctx context.Context, exec ...core.DBExecutor) ([]Class, error)
		GetClass(ctx context.Context, id string, exec ...core.DBExecutor) (Class, error)
		GetClassByName(ctx context.Context, name string, exec ...core.DBExecutor) (Class, error)
		SetClassTeacher(ctx context.Context, id string, teacherID null.String, exec ...core.DBExecutor) (Class, error)
		DeleteClass(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	userGetter interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	Service struct {
		repo  Repository
		users userGetter
	}
)

func NewService(repo Repository, users userGetter) *Service {
	return &Service{repo: repo, users: users}
}

func (svc *Service) Create(ctx context.Context, nc NewClass) (Class, error) {
	if _, err := svc.repo.GetClassByName(ctx, nc.Name); err == nil {
		return Class{}, core.NewValidationError(ErrNameExists, core.FieldError{Field: "name", Error: ErrNameExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return Class{}, errors.Wrap(err, "checking class name")
	}

	cls, err := svc.repo.CreateClass(ctx, Class{Name: nc.Name, CreatedAt: time.Now().UTC()})
	return cls, errors.Wrap(err, "creating class")
}

// EnsureClasses creates the named classes that do not exist yet and returns all of them.
func (svc *Service) EnsureClasses(ctx context.Context, names ...string) ([]Class, error) {
	classes := make([]Class, 0, len(names))
	for _, name := range names {
		name = core.CleanString(name)
		if name == "" {
			continue
		}
		cls, err := svc.repo.GetClassByName(ctx, name)
		if err != nil {
			if errors.Cause(err) != ErrNotFound {
				return nil, errors.Wrapf(err, "finding class %q", name)
			}
			if cls, err = svc.repo.CreateClass(ctx, Class{Name: name, CreatedAt: time.Now().UTC()}); err != nil {
				return nil, errors.Wrapf(err, "creating class %q", name)
			}
		}
		classes = append(classes, cls)
	}
	return classes, nil
}

func (svc *Service) Query(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryClasses(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Class, error) {
	return svc.repo.GetClass(ctx, id)
}

// GetClassTeacher returns nil when the class has no class teacher.
func (svc *Service) GetClassTeacher(ctx context.Context, id string) (*user.Person, error) {
	cls, err := svc.repo.GetClass(ctx, id)
	if err != nil {
		return nil, err
	}
	return cls.ClassTeacher, nil
}

func (svc *Service) SetClassTeacher(ctx context.Context, id string, st SetClassTeacher) (*user.Person, error) {
	if _, err := svc.repo.GetClass(ctx, id); err != nil {
		return nil, err
	}

	teacher, err := svc.users.GetByID(ctx, st.TeacherID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return nil, core.NewValidationError(err, core.FieldError{Field: "teacher_id", Error: err.Error()})
		}
		return nil, errors.Wrap(err, "finding teacher")
	}
	if !teacher.HasRole(user.RoleTeacher) {
		return nil, core.NewValidationError(ErrNotTeacher, core.FieldError{Field: "teacher_id", Error: ErrNotTeacher.Error()})
	}

	cls, err := svc.repo.SetClassTeacher(ctx, id, null.StringFrom(teacher.ID))
	if err != nil {
		return nil, errors.Wrap(err, "setting class teacher")
	}
	return cls.ClassTeacher, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteClass(ctx, id)
}
