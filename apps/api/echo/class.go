package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shkola/core/class"
	"github.com/trezcool/shkola/core/schedule"
	"github.com/trezcool/shkola/core/user"
)

type classApi struct {
	svc       *class.Service
	schedules *schedule.Service
	validate  *validator.Validate
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps ServerDeps) {
	api := classApi{
		svc:       deps.ClassSvc,
		schedules: deps.ScheduleSvc,
		validate:  deps.Validate,
	}

	cg := g.Group("/classes", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create, auth.requireRole(user.RoleTeacher))
	cg.DELETE("/:id", api.destroy, auth.superAdminOnly())
	cg.GET("/:id/teacher", api.getTeacher, auth.superAdminOnly())
	cg.PUT("/:id/teacher", api.setTeacher, auth.superAdminOnly())
}

// ClassResponse is a Class optionally carrying its lessons.
type ClassResponse struct {
	class.Class
	Schedule []schedule.Item `json:"schedule,omitempty"`
}

func (api *classApi) query(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	classes, err := api.svc.Query(reqCtx)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}

	withSchedule, _ := strconv.ParseBool(ctx.QueryParam("with_schedule"))
	resp := make([]ClassResponse, 0, len(classes))
	for _, cls := range classes {
		cr := ClassResponse{Class: cls}
		if withSchedule {
			if cr.Schedule, err = api.schedules.ForClass(reqCtx, cls.ID); err != nil {
				return errors.Wrapf(err, "querying schedule of class %s", cls.ID)
			}
			if cr.Schedule == nil {
				cr.Schedule = []schedule.Item{}
			}
		}
		resp = append(resp, cr)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *classApi) create(ctx echo.Context) error {
	var data class.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cls, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *classApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *classApi) getTeacher(ctx echo.Context) error {
	teacher, err := api.svc.GetClassTeacher(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting class teacher")
	}
	return ctx.JSON(http.StatusOK, teacher)
}

func (api *classApi) setTeacher(ctx echo.Context) error {
	var data class.SetClassTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetClassTeacher")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	teacher, err := api.svc.SetClassTeacher(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "setting class teacher")
	}
	return ctx.JSON(http.StatusOK, teacher)
}
