package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/task"
)

const upcomingTasksLimit = 10

type taskApi struct {
	svc      task.Service
	validate *validator.Validate
}

func registerTaskAPI(g *echo.Group, svc task.Service, validate *validator.Validate) {
	api := taskApi{svc: svc, validate: validate}

	g.GET("", api.query)
	g.POST("", api.create)
	g.GET("/upcoming", api.upcoming)
	g.GET("/overdue", api.overdue)
	g.GET("/:id", api.retrieve)
	g.PUT("/:id", api.update)
	g.PATCH("/:id/progress", api.setProgress)
	g.DELETE("/:id", api.destroy)
}

func (api *taskApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	tasks, err := api.svc.Query(ctx.Request().Context(), getOwner(ctx), queryParams(ctx), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	return ctx.JSON(http.StatusOK, nonNil(tasks))
}

func (api *taskApi) upcoming(ctx echo.Context) error {
	tasks, err := api.svc.Upcoming(ctx.Request().Context(), getOwner(ctx), upcomingTasksLimit)
	if err != nil {
		return errors.Wrap(err, "querying upcoming tasks")
	}
	return ctx.JSON(http.StatusOK, nonNil(tasks))
}

func (api *taskApi) overdue(ctx echo.Context) error {
	tasks, err := api.svc.Overdue(ctx.Request().Context(), getOwner(ctx))
	if err != nil {
		return errors.Wrap(err, "querying overdue tasks")
	}
	return ctx.JSON(http.StatusOK, nonNil(tasks))
}

func (api *taskApi) retrieve(ctx echo.Context) error {
	t, err := api.svc.Get(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding task")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *taskApi) create(ctx echo.Context) error {
	var data task.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	data.Title = plainText(data.Title)
	data.Description = richText(data.Description)
	data.Notes = richText(data.Notes)
	plainTexts(data.Tags)
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), getOwner(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *taskApi) update(ctx echo.Context) error {
	var data task.UpdateTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTask")
	}
	plainTextPtr(data.Title)
	richTextPtr(data.Description)
	richTextPtr(data.Notes)
	if data.Tags != nil {
		plainTexts(*data.Tags)
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Update(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating task")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *taskApi) setProgress(ctx echo.Context) error {
	var data ProgressRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProgressRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	t, err := api.svc.SetProgress(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"), *data.Progress)
	if err != nil {
		return errors.Wrap(err, "setting task progress")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *taskApi) destroy(ctx echo.Context) error {
	t, err := api.svc.Delete(ctx.Request().Context(), getOwner(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Task deleted successfully", "task": t})
}

type (
	ProgressRequest struct {
		Progress *int `json:"progress"`
	}
)

func (pr ProgressRequest) Validate() error {
	if pr.Progress == nil {
		return core.NewFieldError("progress", "progress is a required field")
	}
	if !core.ValidProgress(*pr.Progress) {
		return core.NewFieldError("progress", "progress must be between 0 and 100")
	}
	return nil
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
