package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/schedule"
)

type scheduleApi struct {
	svc      *schedule.Service
	validate *validator.Validate
}

func registerScheduleAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps ServerDeps) {
	api := scheduleApi{
		svc:      deps.ScheduleSvc,
		validate: deps.Validate,
	}

	g.GET("/schedule", api.query, jwt)

	ag := g.Group("/admin/schedule", jwt, auth.superAdminOnly())
	ag.POST("", api.create)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

// ScheduleQuery selects the lessons of a class, on a single day when Day is set.
type ScheduleQuery struct {
	ClassID string `query:"class_id" json:"class_id" validate:"required"`
	Day     string `query:"day" json:"day"`
}

func (sq *ScheduleQuery) Validate(validate *validator.Validate) error {
	sq.ClassID = core.CleanString(sq.ClassID)
	sq.Day = core.CleanString(sq.Day)
	return validate.Struct(sq)
}

func (api *scheduleApi) query(ctx echo.Context) error {
	var q ScheduleQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to ScheduleQuery")
	}
	if err := q.Validate(api.validate); err != nil {
		return err
	}

	var items []schedule.Item
	var err error
	if q.Day != "" {
		items, err = api.svc.ForDay(ctx.Request().Context(), q.ClassID, q.Day)
	} else {
		items, err = api.svc.ForClass(ctx.Request().Context(), q.ClassID)
	}
	if err != nil {
		return errors.Wrap(err, "querying schedule")
	}
	if items == nil {
		items = []schedule.Item{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *scheduleApi) create(ctx echo.Context) error {
	var data schedule.NewItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewItem")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	it, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating schedule item")
	}
	return ctx.JSON(http.StatusCreated, it)
}

func (api *scheduleApi) update(ctx echo.Context) error {
	var data schedule.UpdateItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateItem")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	it, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating schedule item")
	}
	return ctx.JSON(http.StatusOK, it)
}

func (api *scheduleApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting schedule item")
	}
	return ctx.NoContent(http.StatusNoContent)
}
