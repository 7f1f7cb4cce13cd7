package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/VenusCh001/studytracker/apps/api/echo"
	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/course"
	"github.com/VenusCh001/studytracker/core/dashboard"
	"github.com/VenusCh001/studytracker/core/planner"
	"github.com/VenusCh001/studytracker/core/progress"
	"github.com/VenusCh001/studytracker/core/project"
	"github.com/VenusCh001/studytracker/core/resource"
	"github.com/VenusCh001/studytracker/core/task"
	"github.com/VenusCh001/studytracker/core/user"
	emailsvc "github.com/VenusCh001/studytracker/services/email"
	logsvc "github.com/VenusCh001/studytracker/services/logger"
	"github.com/VenusCh001/studytracker/storage"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	zl, err := logsvc.NewZap("API", conf)
	if err != nil {
		panic(fmt.Sprintf("setting up logger: %v", err))
	}
	logger := logsvc.NewRollbarLogger(zl, conf)
	logger.Enable(!conf.Debug)
	defer logger.Sync()

	dbZl, err := logsvc.NewZap("DB", conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up db logger: %v", err), err)
	}
	dbLogger := logsvc.NewRollbarLogger(dbZl, conf)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	// an unreachable store is not fatal: the dashboard falls back to demo data.
	cols, err := storage.Open(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = cols.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	if err = cols.Migrate(ctx); err != nil {
		dbLogger.Warn(fmt.Sprintf("database not ready, running in demo mode: %v", err), err)
	}
	cancel()

	dashboardStore := dashboard.Connected(dashboard.NewSource(cols.Dashboard()))

	// set up services
	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(cols.Users, mailSvc, conf)
	courseSvc := course.NewService(cols.Courses)
	taskSvc := task.NewService(cols.Tasks, mailSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)

	user.LoadCommonPasswords(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("database").Set(conf.Database.Engine)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.Options{
		Conf:         conf,
		Logger:       logger,
		Validate:     validate,
		Translator:   translator,
		Store:        cols.Store,
		UserSvc:      usrSvc,
		CourseSvc:    courseSvc,
		TaskSvc:      taskSvc,
		ResourceSvc:  resource.NewService(cols.Resources),
		ProjectSvc:   project.NewService(cols.Projects),
		ProgressSvc:  progress.NewService(cols.Progress),
		DashboardSvc: dashboard.NewService(dashboardStore),
		PlannerSvc:   planner.NewService(taskSvc, courseSvc),
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
