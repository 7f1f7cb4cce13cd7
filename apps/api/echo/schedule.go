package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core/planner"
)

type scheduleApi struct {
	svc planner.Service
}

func registerScheduleAPI(g *echo.Group, svc planner.Service) {
	api := scheduleApi{svc: svc}

	g.POST("/generate", api.generate)
	g.GET("/optimal-times", api.optimalTimes)
	g.GET("/prioritize", api.prioritize)
}

func (api *scheduleApi) generate(ctx echo.Context) error {
	var data GenerateScheduleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateScheduleRequest")
	}

	plan, err := api.svc.GenerateSchedule(ctx.Request().Context(), getOwner(ctx), data.Preferences)
	if err != nil {
		return errors.Wrap(err, "generating schedule")
	}
	return ctx.JSON(http.StatusOK, plan)
}

func (api *scheduleApi) optimalTimes(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, OptimalTimesResponse{
		OptimalTimes: planner.OptimalTimes(),
		Message:      planner.MessageOptimal,
	})
}

func (api *scheduleApi) prioritize(ctx echo.Context) error {
	prio, err := api.svc.Prioritize(ctx.Request().Context(), getOwner(ctx))
	if err != nil {
		return errors.Wrap(err, "prioritizing tasks")
	}
	return ctx.JSON(http.StatusOK, prio)
}

type (
	GenerateScheduleRequest struct {
		Preferences planner.Preferences `json:"preferences"`
	}

	OptimalTimesResponse struct {
		OptimalTimes []planner.OptimalTime `json:"optimalTimes"`
		Message      string                `json:"message"`
	}
)
