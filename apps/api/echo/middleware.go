package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/shkola/core/user"
)

// requireRole rejects users whose role is lower than min. It must run after the JWT middleware.
func (a *authenticator) requireRole(min user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := a.contextUser(ctx)
			if err != nil {
				return err
			}
			if !usr.HasRole(min) {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

func (a *authenticator) superAdminOnly() echo.MiddlewareFunc {
	return a.requireRole(user.RoleSuperAdmin)
}
