package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core/course"
)

type courseApi struct {
	svc      course.Service
	validate *validator.Validate
}

func registerCourseAPI(g *echo.Group, svc course.Service, validate *validator.Validate) {
	api := courseApi{svc: svc, validate: validate}

	g.GET("", api.query)
	g.POST("", api.create)
	g.GET("/:id", api.retrieve)
	g.PUT("/:id", api.update)
	g.PATCH("/:id/modules/:moduleIndex/complete", api.completeModule)
	g.DELETE("/:id", api.destroy)
}

func (api *courseApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	courses, err := api.svc.Query(ctx.Request().Context(), getOwner(ctx), queryParams(ctx), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, nonNil(courses))
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.Get(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func sanitizeModules(mods []course.Module) {
	for i := range mods {
		mods[i].Title = plainText(mods[i].Title)
	}
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	data.Title = plainText(data.Title)
	data.Code = plainText(data.Code)
	data.Instructor = plainText(data.Instructor)
	data.Semester = plainText(data.Semester)
	data.Description = richText(data.Description)
	data.Notes = richText(data.Notes)
	plainTexts(data.Tags)
	sanitizeModules(data.Modules)
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), getOwner(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *courseApi) update(ctx echo.Context) error {
	var data course.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	plainTextPtr(data.Title)
	plainTextPtr(data.Code)
	plainTextPtr(data.Instructor)
	plainTextPtr(data.Semester)
	richTextPtr(data.Description)
	richTextPtr(data.Notes)
	if data.Tags != nil {
		plainTexts(*data.Tags)
	}
	if data.Modules != nil {
		sanitizeModules(*data.Modules)
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Update(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) completeModule(ctx echo.Context) error {
	index, err := intParam(ctx, "moduleIndex")
	if err != nil {
		return err
	}
	var data CompleteModuleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CompleteModuleRequest")
	}

	c, err := api.svc.CompleteModule(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"), index, data.completed())
	if err != nil {
		return errors.Wrap(err, "completing course module")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	c, err := api.svc.Delete(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Course deleted successfully", "course": c})
}

// CompleteModuleRequest marks the module completed unless told otherwise.
type CompleteModuleRequest struct {
	Completed *bool `json:"completed"`
}

func (cr CompleteModuleRequest) completed() bool {
	return cr.Completed == nil || *cr.Completed
}
