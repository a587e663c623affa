package user

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shkola/core"
)

var (
	// errors
	ErrNotFound          = core.NewNotFoundError("user")
	ErrEmailExists       = errors.New("a user with this email already exists")
	ErrWrongOldPassword  = errors.New("old password is incorrect")
	ErrInvalidResetToken = errors.New("invalid password reset token")

	// accounts created on the fly for schedule entries
	autoTeacherDomain   = "auto.local"
	autoTeacherPassword = "default"
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers []User, exec ...core.DBExecutor) error
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		// QueryUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of User.Name or User.Email.
		QueryUsers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]User, error)
		GetUser(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (User, error)
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		DeleteUsersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		tokens  tokenGenerator
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		tokens: tokenGenerator{
			secret:  []byte(conf.SecretKey),
			timeout: conf.PasswordResetTimeoutDelta,
		},
	}
}

// CheckUniqueness reports a field error if another user already owns email.
func (svc *Service) CheckUniqueness(ctx context.Context, email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, exclUsers); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return errors.Wrap(err, "checking email uniqueness")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]User, error) {
	return svc.repo.QueryUsers(ctx, filter, ordering)
}

// QueryTeachers returns every teacher sorted by name.
func (svc *Service) QueryTeachers(ctx context.Context) ([]User, error) {
	return svc.repo.QueryUsers(
		ctx,
		&QueryFilter{Roles: []Role{RoleTeacher}},
		[]core.DBOrdering{{Field: "name", Ascending: true}},
	)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

// GetOrCreateTeacher finds the user named exactly name, creating a teacher account if none exists.
func (svc *Service) GetOrCreateTeacher(ctx context.Context, name string, exec ...core.DBExecutor) (User, error) {
	name = core.CleanString(name)
	usr, err := svc.repo.GetUser(ctx, GetFilter{Name: name}, exec...)
	if err == nil {
		return usr, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return User{}, errors.Wrap(err, "finding teacher by name")
	}

	now := time.Now().UTC()
	usr = User{
		Name:      name,
		Email:     fmt.Sprintf("%d@%s", now.UnixNano()/int64(time.Millisecond), autoTeacherDomain),
		Role:      RoleTeacher,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = usr.SetPassword(autoTeacherPassword); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}
	usr, err = svc.repo.CreateUser(ctx, usr, exec...)
	return usr, errors.Wrap(err, "creating teacher")
}

func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr, err := svc.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	usr.Name = uu.Name
	usr.Email = uu.Email
	if uu.Role != nil {
		usr.Role = *uu.Role
	}
	if uu.IsActive != nil {
		usr.IsActive = *uu.IsActive
	}
	if uu.Password != "" {
		if err = usr.SetPassword(uu.Password); err != nil {
			return User{}, errors.Wrap(err, "setting password")
		}
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) UpdateProfile(ctx context.Context, usr User, up UpdateProfile) (User, error) {
	usr.Name = up.Name
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) ChangePassword(ctx context.Context, usr User, cp ChangePassword) error {
	if err := usr.CheckPassword(cp.OldPassword); err != nil {
		return core.NewValidationError(ErrWrongOldPassword, core.FieldError{Field: "old_password", Error: ErrWrongOldPassword.Error()})
	}
	if err := usr.SetPassword(cp.NewPassword); err != nil {
		return errors.Wrap(err, "setting password")
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err := svc.repo.UpdateUser(ctx, usr)
	return errors.Wrap(err, "updating password")
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := svc.repo.DeleteUsersByID(ctx, ids)
	return err
}

// RequestPasswordReset emails a password reset link to the active user owning email.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !usr.IsActive {
		return ErrNotFound
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Password Reset",
		TemplateName: "password_reset",
		TemplateData: map[string]interface{}{
			"Name":  strings.Split(usr.Name, " ")[0],
			"UID":   EncodeUID(usr),
			"Token": svc.tokens.makeToken(usr),
		},
	})
	return nil
}

func (svc *Service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	invalidErr := core.NewValidationError(ErrInvalidResetToken, core.FieldError{Field: "token", Error: ErrInvalidResetToken.Error()})

	id, err := decodeUID(rp.UID)
	if err != nil {
		return invalidErr
	}
	usr, err := svc.GetByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return invalidErr
		}
		return err
	}
	if err = svc.tokens.verifyToken(usr, rp.Token); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "token", Error: err.Error()})
	}

	if err = usr.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "setting password")
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateUser(ctx, usr)
	return errors.Wrap(err, "resetting password")
}
