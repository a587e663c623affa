package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shkola/core/order"
)

type orderApi struct {
	svc      *order.Service
	auth     *authenticator
	validate *validator.Validate
}

func registerOrderAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps ServerDeps) {
	api := orderApi{
		svc:      deps.OrderSvc,
		auth:     auth,
		validate: deps.Validate,
	}

	og := g.Group("/orders", jwt)
	og.GET("", api.query)
	og.POST("", api.create)
	og.DELETE("/:id", api.destroy, auth.superAdminOnly())
}

func (api *orderApi) query(ctx echo.Context) error {
	orders, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying orders")
	}
	if orders == nil {
		orders = []order.Order{}
	}
	return ctx.JSON(http.StatusOK, orders)
}

func (api *orderApi) create(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return err
	}

	var data order.NewOrder
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOrder")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	ord, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "creating order")
	}
	return ctx.JSON(http.StatusCreated, ord)
}

func (api *orderApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting order")
	}
	return ctx.NoContent(http.StatusNoContent)
}
