package main

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/user"
)

var errInvalidRole = errors.New("invalid role")

var roleAliases = map[string]user.Role{
	"student":    user.RoleStudent,
	"teacher":    user.RoleTeacher,
	"sysadmin":   user.RoleSysAdmin,
	"superadmin": user.RoleSuperAdmin,
}

func parseRole(s string) (user.Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if role, ok := roleAliases[s]; ok {
		return role, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !user.Role(n).Valid() {
		return 0, errInvalidRole
	}
	return user.Role(n), nil
}

// addUser updates or creates an active user.User
func (cli *commandLine) addUser(email, name, pwd string, role user.Role) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)
	name = core.CleanString(name)
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: email})
	found := err == nil
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return errors.Wrap(err, "finding user")
		}
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		usr = user.User{Email: email, CreatedAt: now}
	}

	if name != "" {
		usr.Name = name
	}
	usr.Role = role
	usr.IsActive = true
	usr.UpdatedAt = now
	if err = usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "setting password")
	}

	if found {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
		return errors.Wrap(err, "updating user")
	}
	_, err = cli.usrRepo.CreateUser(ctx, usr)
	return errors.Wrap(err, "creating user")
}
