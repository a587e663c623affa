package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/bell"
)

var (
	errBadClock   = echo.NewHTTPError(http.StatusBadRequest, "time must be formatted as HH:MM")
	errBadWeekday = echo.NewHTTPError(http.StatusBadRequest, "weekday must be an integer between 0 (Sunday) and 6")
)

type bellApi struct {
	board *bell.Board
}

func registerBellAPI(g *echo.Group, deps ServerDeps) {
	api := bellApi{board: deps.Board}

	bg := g.Group("/bell")
	bg.GET("", api.current)
	bg.GET("/resolve", api.resolve)
}

// BellResponse is a bell State with its display texts.
type BellResponse struct {
	bell.State
	MinuteWord string     `json:"minute_word"`
	Label      string     `json:"label"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

func newBellResponse(st bell.State) BellResponse {
	resp := BellResponse{State: st}
	if !st.Finished {
		resp.MinuteWord = bell.MinuteWord(st.MinutesRemaining)
		resp.Label = st.Label()
	}
	return resp
}

func (api *bellApi) current(ctx echo.Context) error {
	st, updatedAt := api.board.Current()
	resp := newBellResponse(st)
	resp.UpdatedAt = &updatedAt
	return ctx.JSON(http.StatusOK, resp)
}

func (api *bellApi) resolve(ctx echo.Context) error {
	clock, err := time.Parse(core.ClockLayout, ctx.QueryParam("time"))
	if err != nil {
		return errBadClock
	}
	weekday, err := strconv.Atoi(ctx.QueryParam("weekday"))
	if err != nil || weekday < 0 || weekday > 6 {
		return errBadWeekday
	}

	st := bell.Resolve(bell.HHMM(clock), bell.VariantForDay(weekday))
	return ctx.JSON(http.StatusOK, newBellResponse(st))
}
