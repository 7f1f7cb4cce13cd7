package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core/dashboard"
)

func registerDashboardAPI(g *echo.Group, svc dashboard.Service) {
	g.GET("", func(ctx echo.Context) error {
		d, err := svc.Dashboard(ctx.Request().Context(), getOwner(ctx))
		if err != nil {
			return errors.Wrap(err, "computing dashboard")
		}
		return ctx.JSON(http.StatusOK, d)
	})

	g.GET("/analytics", func(ctx echo.Context) error {
		a, err := svc.Analytics(ctx.Request().Context(), getOwner(ctx))
		if err != nil {
			return errors.Wrap(err, "computing analytics")
		}
		return ctx.JSON(http.StatusOK, a)
	})
}
