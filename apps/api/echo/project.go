package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core/project"
)

type projectApi struct {
	svc      project.Service
	validate *validator.Validate
}

func registerProjectAPI(g *echo.Group, svc project.Service, validate *validator.Validate) {
	api := projectApi{svc: svc, validate: validate}

	g.GET("", api.query)
	g.POST("", api.create)
	g.GET("/:id", api.retrieve)
	g.PUT("/:id", api.update)
	g.DELETE("/:id", api.destroy)
}

func (api *projectApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	ps, err := api.svc.Query(ctx.Request().Context(), getOwner(ctx), queryParams(ctx), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying projects")
	}
	return ctx.JSON(http.StatusOK, nonNil(ps))
}

func (api *projectApi) retrieve(ctx echo.Context) error {
	p, err := api.svc.Get(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding project")
	}
	return ctx.JSON(http.StatusOK, p)
}

func sanitizeMilestones(ms []project.Milestone) {
	for i := range ms {
		ms[i].Title = plainText(ms[i].Title)
		ms[i].Description = richText(ms[i].Description)
	}
}

func sanitizeTeam(members []project.TeamMember) {
	for i := range members {
		members[i].Name = plainText(members[i].Name)
		members[i].Role = plainText(members[i].Role)
	}
}

func (api *projectApi) create(ctx echo.Context) error {
	var data project.NewProject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProject")
	}
	data.Title = plainText(data.Title)
	data.Description = richText(data.Description)
	data.Notes = richText(data.Notes)
	plainTexts(data.Tags)
	sanitizeMilestones(data.Milestones)
	sanitizeTeam(data.TeamMembers)
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.Create(ctx.Request().Context(), getOwner(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating project")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *projectApi) update(ctx echo.Context) error {
	var data project.UpdateProject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProject")
	}
	plainTextPtr(data.Title)
	richTextPtr(data.Description)
	richTextPtr(data.Notes)
	if data.Tags != nil {
		plainTexts(*data.Tags)
	}
	if data.Milestones != nil {
		sanitizeMilestones(*data.Milestones)
	}
	if data.TeamMembers != nil {
		sanitizeTeam(*data.TeamMembers)
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.Update(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating project")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *projectApi) destroy(ctx echo.Context) error {
	p, err := api.svc.Delete(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "deleting project")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Project deleted successfully", "project": p})
}
