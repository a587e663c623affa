package ticket

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/user"
)

// Status is the lifecycle state of a Ticket.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusClosed     Status = "CLOSED"
)

var (
	Statuses = []Status{StatusOpen, StatusInProgress, StatusClosed}

	// errors
	ErrNotFound = core.NewNotFoundError("ticket")
)

// Ticket is a support request raised by staff.
type Ticket struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      Status       `json:"status"`
	CreatedBy   string       `json:"created_by"`
	Creator     *user.Person `json:"creator,omitempty"`
	CreatedAt   time.Time    `json:"created_at"` // UTC
	UpdatedAt   time.Time    `json:"updated_at"` // UTC
}

type NewTicket struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
}

func (nt *NewTicket) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)
	return validate.Struct(nt)
}

type UpdateStatus struct {
	Status Status `json:"status" validate:"required,oneof=OPEN IN_PROGRESS CLOSED"`
}

func (us *UpdateStatus) Validate(validate *validator.Validate) error {
	return validate.Struct(us)
}

// QueryFilter narrows QueryTickets; zero fields match everything.
type QueryFilter struct {
	CreatedBy     string
	ExcludeStatus Status
}

// VisibilityFor returns the tickets filter for usr:
// super admins see everything, system admins all but closed tickets and teachers their own.
func VisibilityFor(usr user.User) (QueryFilter, error) {
	switch {
	case usr.IsSuperAdmin():
		return QueryFilter{}, nil
	case usr.IsSysAdmin():
		return QueryFilter{ExcludeStatus: StatusClosed}, nil
	case usr.IsTeacher():
		return QueryFilter{CreatedBy: usr.ID}, nil
	default:
		return QueryFilter{}, core.ErrForbidden
	}
}

type (
	Repository interface {
		CreateTicket(ctx context.Context, tkt Ticket, exec ...core.DBExecutor) (Ticket, error)
		// QueryTickets returns the matching tickets, newest first, with their creator.
		QueryTickets(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Ticket, error)
		GetTicket(ctx context.Context, id string, exec ...core.DBExecutor) (Ticket, error)
		UpdateTicket(ctx context.Context, tkt Ticket, exec ...core.DBExecutor) (Ticket, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Query(ctx context.Context, usr user.User) ([]Ticket, error) {
	filter, err := VisibilityFor(usr)
	if err != nil {
		return nil, err
	}
	return svc.repo.QueryTickets(ctx, filter)
}

// Create opens a ticket. Students cannot raise tickets.
func (svc *Service) Create(ctx context.Context, creator user.User, nt NewTicket) (Ticket, error) {
	if creator.IsStudent() {
		return Ticket{}, core.ErrForbidden
	}

	now := time.Now().UTC()
	tkt, err := svc.repo.CreateTicket(ctx, Ticket{
		Title:       nt.Title,
		Description: nt.Description,
		Status:      StatusOpen,
		CreatedBy:   creator.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return Ticket{}, errors.Wrap(err, "creating ticket")
	}
	tkt.Creator = creator.Person()
	return tkt, nil
}

// SetStatus changes the status of a ticket. Only system admins and above may do so.
func (svc *Service) SetStatus(ctx context.Context, actor user.User, id string, us UpdateStatus) (Ticket, error) {
	if !actor.HasRole(user.RoleSysAdmin) {
		return Ticket{}, core.ErrForbidden
	}

	tkt, err := svc.repo.GetTicket(ctx, id)
	if err != nil {
		return Ticket{}, err
	}
	tkt.Status = us.Status
	tkt.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTicket(ctx, tkt)
}
