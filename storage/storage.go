// Package storage opens the document collections of the configured database engine.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/course"
	"github.com/VenusCh001/studytracker/core/dashboard"
	"github.com/VenusCh001/studytracker/core/progress"
	"github.com/VenusCh001/studytracker/core/project"
	"github.com/VenusCh001/studytracker/core/resource"
	"github.com/VenusCh001/studytracker/core/task"
	"github.com/VenusCh001/studytracker/core/user"
	"github.com/VenusCh001/studytracker/storage/database"
	inmemdb "github.com/VenusCh001/studytracker/storage/database/inmem"
	mongodb "github.com/VenusCh001/studytracker/storage/database/mongo"
	"github.com/VenusCh001/studytracker/storage/database/postgres"
)

// Collection names
const (
	Users     = "users"
	Courses   = "courses"
	Tasks     = "tasks"
	Resources = "resources"
	Projects  = "projects"
	Progress  = "progress"
)

// uniqueKeys are enforced by every engine.
var uniqueKeys = map[string][][]string{
	Users:    {{"username"}, {"email"}},
	Courses:  {{core.FieldOwner, "code"}},
	Progress: {{core.FieldOwner, "date"}},
}

// Collections are the repositories of one store.
type Collections struct {
	Store     core.Store
	Users     user.Repository
	Courses   course.Repository
	Tasks     task.Repository
	Resources resource.Repository
	Projects  project.Repository
	Progress  progress.Repository

	migrate func(ctx context.Context) error
}

// Dashboard returns the repositories read by the aggregations.
func (cs *Collections) Dashboard() dashboard.Repositories {
	return dashboard.Repositories{
		Store:     cs.Store,
		Courses:   cs.Courses,
		Tasks:     cs.Tasks,
		Resources: cs.Resources,
		Projects:  cs.Projects,
		Progress:  cs.Progress,
	}
}

// Migrate brings the store schema (tables, indexes) up to date.
func (cs *Collections) Migrate(ctx context.Context) error {
	if cs.migrate == nil {
		return nil
	}
	return cs.migrate(ctx)
}

func (cs *Collections) Close() error {
	return cs.Store.Close()
}

// Open connects to the store selected by conf.Database.Engine.
// Connections are lazy: an unreachable server surfaces as core.ErrUnavailable on use.
func Open(ctx context.Context, conf *core.Config) (*Collections, error) {
	switch conf.Database.Engine {
	case core.EngineMemory, "":
		return NewMemory(inmemdb.New()), nil
	case core.EnginePostgres:
		return openPostgres(conf)
	case core.EngineMongo:
		return openMongo(ctx, conf)
	}
	return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
}

// NewMemory returns collections kept in db.
func NewMemory(db *inmemdb.DB) *Collections {
	unique := func(name string) [][]string { return uniqueKeys[name] }
	return &Collections{
		Store:     db,
		Users:     inmemdb.NewCollection[user.Account](db, Users, unique(Users)...),
		Courses:   inmemdb.NewCollection[course.Course](db, Courses, unique(Courses)...),
		Tasks:     inmemdb.NewCollection[task.Task](db, Tasks),
		Resources: inmemdb.NewCollection[resource.Resource](db, Resources),
		Projects:  inmemdb.NewCollection[project.Project](db, Projects),
		Progress:  inmemdb.NewCollection[progress.Progress](db, Progress, unique(Progress)...),
	}
}

func openPostgres(conf *core.Config) (*Collections, error) {
	sqlDB, err := database.Open(conf)
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres")
	}
	db := postgres.NewDB(sqlDB)
	return &Collections{
		Store:     db,
		Users:     postgres.NewCollection[user.Account](db, Users),
		Courses:   postgres.NewCollection[course.Course](db, Courses),
		Tasks:     postgres.NewCollection[task.Task](db, Tasks),
		Resources: postgres.NewCollection[resource.Resource](db, Resources),
		Projects:  postgres.NewCollection[project.Project](db, Projects),
		Progress:  postgres.NewCollection[progress.Progress](db, Progress),
		migrate: func(context.Context) error {
			if err := database.CreateIfNotExist(conf); err != nil {
				return err
			}
			return database.Migrate(sqlDB)
		},
	}, nil
}

func openMongo(ctx context.Context, conf *core.Config) (*Collections, error) {
	db, err := mongodb.Connect(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &Collections{
		Store:     db,
		Users:     mongodb.NewCollection[user.Account](db, Users),
		Courses:   mongodb.NewCollection[course.Course](db, Courses),
		Tasks:     mongodb.NewCollection[task.Task](db, Tasks),
		Resources: mongodb.NewCollection[resource.Resource](db, Resources),
		Projects:  mongodb.NewCollection[project.Project](db, Projects),
		Progress:  mongodb.NewCollection[progress.Progress](db, Progress),
		migrate: func(ctx context.Context) error {
			var indexes []mongodb.Index
			for _, name := range []string{Users, Courses, Progress} {
				for _, fields := range uniqueKeys[name] {
					indexes = append(indexes, mongodb.Index{Collection: name, Fields: fields})
				}
			}
			return db.EnsureIndexes(ctx, indexes...)
		},
	}, nil
}
