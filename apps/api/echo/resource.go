package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core/resource"
)

type resourceApi struct {
	svc      resource.Service
	validate *validator.Validate
}

func registerResourceAPI(g *echo.Group, svc resource.Service, validate *validator.Validate) {
	api := resourceApi{svc: svc, validate: validate}

	g.GET("", api.query)
	g.POST("", api.create)
	g.GET("/:id", api.retrieve)
	g.PUT("/:id", api.update)
	g.PATCH("/:id/favorite", api.toggleFavorite)
	g.PATCH("/:id/progress", api.setProgress)
	g.DELETE("/:id", api.destroy)
}

func (api *resourceApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	rs, err := api.svc.Query(ctx.Request().Context(), getOwner(ctx), queryParams(ctx), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying resources")
	}
	return ctx.JSON(http.StatusOK, nonNil(rs))
}

func (api *resourceApi) retrieve(ctx echo.Context) error {
	r, err := api.svc.Get(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding resource")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *resourceApi) create(ctx echo.Context) error {
	var data resource.NewResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResource")
	}
	data.Title = plainText(data.Title)
	data.Description = richText(data.Description)
	data.Content = richText(data.Content)
	plainTexts(data.Tags)
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.Create(ctx.Request().Context(), getOwner(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating resource")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *resourceApi) update(ctx echo.Context) error {
	var data resource.UpdateResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateResource")
	}
	plainTextPtr(data.Title)
	richTextPtr(data.Description)
	richTextPtr(data.Content)
	if data.Tags != nil {
		plainTexts(*data.Tags)
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.Update(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating resource")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *resourceApi) toggleFavorite(ctx echo.Context) error {
	r, err := api.svc.ToggleFavorite(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "toggling favorite")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *resourceApi) setProgress(ctx echo.Context) error {
	var data ProgressRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProgressRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	r, err := api.svc.SetProgress(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"), *data.Progress)
	if err != nil {
		return errors.Wrap(err, "setting resource progress")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *resourceApi) destroy(ctx echo.Context) error {
	r, err := api.svc.Delete(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "deleting resource")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Resource deleted successfully", "resource": r})
}
