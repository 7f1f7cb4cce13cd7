package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/course"
	"github.com/VenusCh001/studytracker/core/dashboard"
	"github.com/VenusCh001/studytracker/core/planner"
	"github.com/VenusCh001/studytracker/core/progress"
	"github.com/VenusCh001/studytracker/core/project"
	"github.com/VenusCh001/studytracker/core/resource"
	"github.com/VenusCh001/studytracker/core/task"
	"github.com/VenusCh001/studytracker/core/user"
)

type (
	Options struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		Store      core.Store

		UserSvc      user.Service
		CourseSvc    course.Service
		TaskSvc      task.Service
		ResourceSvc  resource.Service
		ProjectSvc   project.Service
		ProgressSvc  progress.Service
		DashboardSvc dashboard.Service
		PlannerSvc   planner.Service
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(ctx context.Context) error
		Close() error
		// Errors receives the error that stopped the server, if any.
		Errors() <-chan error
		// ShutdownSignal receives OS interrupts and shutdown requests raised while serving.
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		opts     Options
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	if conf.Debug {
		s.app.Logger.SetLevel(log.DEBUG)
	} else {
		s.app.Logger.SetLevel(log.INFO)
	}

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableRequestLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.Secure())
	s.app.Use(middleware.BodyLimit("2M"))
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{conf.FrontendBaseURL},
		AllowCredentials: true,
	}))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.signalShutdown)

	s.app.GET("/health", s.health)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(jwtConfig(conf))
	authed := []echo.MiddlewareFunc{jwt, ownerMiddleware()}

	registerUserAPI(api, jwt, conf, s.opts.UserSvc, s.opts.Validate)
	registerTaskAPI(api.Group("/tasks", authed...), s.opts.TaskSvc, s.opts.Validate)
	registerCourseAPI(api.Group("/courses", authed...), s.opts.CourseSvc, s.opts.Validate)
	registerResourceAPI(api.Group("/resources", authed...), s.opts.ResourceSvc, s.opts.Validate)
	registerProjectAPI(api.Group("/projects", authed...), s.opts.ProjectSvc, s.opts.Validate)
	registerProgressAPI(api.Group("/progress", authed...), s.opts.ProgressSvc, s.opts.DashboardSvc, s.opts.Validate)
	registerDashboardAPI(api.Group("/dashboard", authed...), s.opts.DashboardSvc)
	registerScheduleAPI(api.Group("/schedule", authed...), s.opts.PlannerSvc)
}

func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.opts.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

func (s *server) health(ctx echo.Context) error {
	db := "connected"
	if s.opts.Store == nil || s.opts.Store.Ping(ctx.Request().Context()) != nil {
		db = "unavailable"
	}
	return ctx.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Message:   s.opts.Conf.AppName + " API is running",
		Database:  db,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
