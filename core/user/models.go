package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shkola/core"
)

// Role is the access level of a User. Higher values include the rights of lower ones.
type Role int

// Roles
const (
	RoleStudent Role = iota
	RoleTeacher
	RoleSysAdmin
	RoleSuperAdmin
)

var roleNames = map[Role]string{
	RoleStudent:    "Student",
	RoleTeacher:    "Teacher",
	RoleSysAdmin:   "System Admin",
	RoleSuperAdmin: "Super Admin",
}

// Roles lists every role, for display.
var Roles = []RoleInfo{
	{Name: roleNames[RoleStudent], Value: RoleStudent},
	{Name: roleNames[RoleTeacher], Value: RoleTeacher},
	{Name: roleNames[RoleSysAdmin], Value: RoleSysAdmin},
	{Name: roleNames[RoleSuperAdmin], Value: RoleSuperAdmin},
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Unknown"
}

func (r Role) Valid() bool {
	return r >= RoleStudent && r <= RoleSuperAdmin
}

type RoleInfo struct {
	Name  string `json:"name"`
	Value Role   `json:"value"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// HasRole reports whether the user's role is at least r.
func (u User) HasRole(r Role) bool { return u.Role >= r }

func (u User) IsStudent() bool    { return u.Role == RoleStudent }
func (u User) IsTeacher() bool    { return u.Role == RoleTeacher }
func (u User) IsSysAdmin() bool   { return u.Role == RoleSysAdmin }
func (u User) IsSuperAdmin() bool { return u.Role == RoleSuperAdmin }

// Person returns the public view of the user embedded in other resources.
func (u User) Person() *Person {
	return &Person{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Person is a User reference embedded in classes, schedules, events, orders and tickets.
type Person struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Role            Role   `json:"role" validate:"role"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name            string `json:"name"`
	Email           string `json:"email" validate:"omitempty,email"`
	Role            *Role  `json:"role" validate:"omitempty,role"`
	IsActive        *bool  `json:"is_active"`
	Password        string `json:"password" validate:"omitempty"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(ctx context.Context, origUsr User, validate *validator.Validate, svc *Service) error {
	if name := core.CleanString(uu.Name); name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}

	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if err := validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, uu.Email, origUsr)
}

// UpdateProfile is what a user may change about themselves.
type UpdateProfile struct {
	Name string `json:"name" validate:"required"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.Name = core.CleanString(up.Name)
	return validate.Struct(up)
}

type ChangePassword struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`

	usr User
}

func (cp *ChangePassword) Validate(usr User, validate *validator.Validate) error {
	cp.usr = usr
	return validate.Struct(cp)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp *ResetUserPassword) Validate(validate *validator.Validate) error { return validate.Struct(rp) }

type QueryFilter struct {
	Search   string `query:"search"`
	Roles    []Role `query:"role"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Roles == nil && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// GetFilter selects a single User; the first non-empty field wins.
type GetFilter struct {
	ID    string
	Email string
	Name  string
}
