package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shkola/core/calendar"
)

type calendarApi struct {
	svc      *calendar.Service
	auth     *authenticator
	validate *validator.Validate
}

func registerCalendarAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps ServerDeps) {
	api := calendarApi{
		svc:      deps.CalendarSvc,
		auth:     auth,
		validate: deps.Validate,
	}

	cg := g.Group("/calendar", jwt)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.POST("", api.create, auth.superAdminOnly())
	cg.PUT("/:id", api.update, auth.superAdminOnly())
	cg.DELETE("/:id", api.destroy, auth.superAdminOnly())
}

func (api *calendarApi) query(ctx echo.Context) error {
	grouped, err := api.svc.Grouped(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	return ctx.JSON(http.StatusOK, grouped)
}

func (api *calendarApi) retrieve(ctx echo.Context) error {
	evt, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting event")
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *calendarApi) create(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return err
	}

	var data calendar.EventData
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EventData")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	evt, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, evt)
}

func (api *calendarApi) update(ctx echo.Context) error {
	var data calendar.EventData
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EventData")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	evt, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating event")
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *calendarApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}
