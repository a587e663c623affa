package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shkola/core/ticket"
)

type ticketApi struct {
	svc      *ticket.Service
	auth     *authenticator
	validate *validator.Validate
}

func registerTicketAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps ServerDeps) {
	api := ticketApi{
		svc:      deps.TicketSvc,
		auth:     auth,
		validate: deps.Validate,
	}

	// role checks live in ticket.Service
	tg := g.Group("/tickets", jwt)
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.PUT("/:id", api.setStatus)
}

func (api *ticketApi) query(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return err
	}

	tickets, err := api.svc.Query(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "querying tickets")
	}
	if tickets == nil {
		tickets = []ticket.Ticket{}
	}
	return ctx.JSON(http.StatusOK, tickets)
}

func (api *ticketApi) create(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return err
	}

	var data ticket.NewTicket
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTicket")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	tkt, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "creating ticket")
	}
	return ctx.JSON(http.StatusCreated, tkt)
}

func (api *ticketApi) setStatus(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return err
	}

	var data ticket.UpdateStatus
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStatus")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	tkt, err := api.svc.SetStatus(ctx.Request().Context(), usr, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "setting ticket status")
	}
	return ctx.JSON(http.StatusOK, tkt)
}
