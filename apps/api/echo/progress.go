package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/dashboard"
	"github.com/VenusCh001/studytracker/core/progress"
)

type progressApi struct {
	svc          progress.Service
	dashboardSvc dashboard.Service
	validate     *validator.Validate
}

func registerProgressAPI(g *echo.Group, svc progress.Service, dashboardSvc dashboard.Service, validate *validator.Validate) {
	api := progressApi{svc: svc, dashboardSvc: dashboardSvc, validate: validate}

	g.GET("/today", api.today)
	g.GET("/range", api.dateRange)
	g.GET("/stats", api.stats)
	g.POST("/update", api.updateToday)
}

func (api *progressApi) today(ctx echo.Context) error {
	p, err := api.svc.Today(ctx.Request().Context(), getOwner(ctx))
	if err != nil {
		return errors.Wrap(err, "getting today's progress")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *progressApi) dateRange(ctx echo.Context) error {
	start, err := dateParam(ctx, "startDate")
	if err != nil {
		return err
	}
	end, err := dateParam(ctx, "endDate")
	if err != nil {
		return err
	}
	if end.Before(start) {
		return core.NewFieldError("endDate", "endDate must not be before startDate")
	}

	ps, err := api.svc.Range(ctx.Request().Context(), getOwner(ctx), start, end)
	if err != nil {
		return errors.Wrap(err, "querying progress range")
	}
	return ctx.JSON(http.StatusOK, nonNil(ps))
}

func (api *progressApi) stats(ctx echo.Context) error {
	st, err := api.dashboardSvc.Stats(ctx.Request().Context(), getOwner(ctx))
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *progressApi) updateToday(ctx echo.Context) error {
	var data progress.UpdateProgress
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProgress")
	}
	richTextPtr(data.Notes)
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.UpdateToday(ctx.Request().Context(), getOwner(ctx), data)
	if err != nil {
		return errors.Wrap(err, "updating today's progress")
	}
	return ctx.JSON(http.StatusOK, p)
}
