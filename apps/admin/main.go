package main

import (
	"context"
	"fmt"
	"os"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/task"
	"github.com/VenusCh001/studytracker/core/user"
	emailsvc "github.com/VenusCh001/studytracker/services/email"
	logsvc "github.com/VenusCh001/studytracker/services/logger"
	"github.com/VenusCh001/studytracker/storage"
	"github.com/VenusCh001/studytracker/storage/database"
)

var logger *logsvc.RollbarLogger

func main() {
	conf := core.NewConfig()

	zl, err := logsvc.NewZap("ADMIN", conf)
	if err != nil {
		panic(fmt.Sprintf("setting up logger: %v", err))
	}
	logger = logsvc.NewRollbarLogger(zl, conf)
	logger.Enable(!conf.Debug)

	// set up DB
	ctx := context.Background()
	cols, err := storage.Open(ctx, conf)
	errAndDie(err)
	errAndDie(cols.Store.Ping(ctx))

	// set up services
	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	core.ParseEmailTemplates(conf, logger)

	// start CLI
	cli := commandLine{
		usrRepo: cols.Users,
		usrSvc:  user.NewService(cols.Users, mailSvc, conf),
		taskSvc: task.NewService(cols.Tasks, mailSvc),
		runMigration: func(command string, args ...string) error {
			if conf.Database.Engine != core.EnginePostgres {
				if command != "up" {
					return fmt.Errorf("%q: not supported by the %s engine", command, conf.Database.Engine)
				}
				return cols.Migrate(ctx)
			}
			if err := database.CreateIfNotExist(conf); err != nil {
				return err
			}
			db, err := database.Open(conf)
			if err != nil {
				return err
			}
			defer db.Close()
			return database.RunMigrations(db, command, args...)
		},
	}
	code := 0
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %s", err), err)
		}
		code = 1
	}

	// flush queued emails & logs before leaving
	emailsvc.Wait()
	_ = cols.Close()
	logger.Sync()
	os.Exit(code)
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
