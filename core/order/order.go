package order

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/class"
	"github.com/trezcool/shkola/core/user"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("order")
)

// Order is a cafeteria order placed for a class.
type Order struct {
	ID        string       `json:"id"`
	ClassID   string       `json:"class_id"`
	Order     string       `json:"order"`
	CreatedBy string       `json:"created_by"`
	CreatedAt time.Time    `json:"created_at"` // UTC
	Class     *class.Ref   `json:"class,omitempty"`
	Creator   *user.Person `json:"creator,omitempty"`
}

type NewOrder struct {
	ClassID string `json:"class_id" validate:"required"`
	Order   string `json:"order" validate:"required,max=2000"`
}

func (no *NewOrder) Validate(validate *validator.Validate) error {
	no.ClassID = core.CleanString(no.ClassID)
	no.Order = core.CleanString(no.Order)
	return validate.Struct(no)
}

type (
	Repository interface {
		CreateOrder(ctx context.Context, ord Order, exec ...core.DBExecutor) (Order, error)
		// QueryOrders returns every order, newest first, with its class and creator.
		QueryOrders(ctx context.Context, exec ...core.DBExecutor) ([]Order, error)
		DeleteOrder(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	classGetter interface {
		GetByID(ctx context.Context, id string) (class.Class, error)
	}

	Service struct {
		repo    Repository
		classes classGetter
	}
)

func NewService(repo Repository, classes classGetter) *Service {
	return &Service{repo: repo, classes: classes}
}

func (svc *Service) Query(ctx context.Context) ([]Order, error) {
	return svc.repo.QueryOrders(ctx)
}

func (svc *Service) Create(ctx context.Context, creator user.User, no NewOrder) (Order, error) {
	cls, err := svc.classes.GetByID(ctx, no.ClassID)
	if err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return Order{}, core.NewValidationError(err, core.FieldError{Field: "class_id", Error: err.Error()})
		}
		return Order{}, errors.Wrap(err, "finding class")
	}

	ord, err := svc.repo.CreateOrder(ctx, Order{
		ClassID:   cls.ID,
		Order:     no.Order,
		CreatedBy: creator.ID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return Order{}, errors.Wrap(err, "creating order")
	}
	ord.Class = cls.Ref()
	ord.Creator = creator.Person()
	return ord, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteOrder(ctx, id)
}
