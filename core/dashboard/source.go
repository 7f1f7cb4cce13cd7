package dashboard

import (
	"context"

	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/course"
	"github.com/VenusCh001/studytracker/core/progress"
	"github.com/VenusCh001/studytracker/core/project"
	"github.com/VenusCh001/studytracker/core/resource"
	"github.com/VenusCh001/studytracker/core/task"
)

// Dataset is everything one user owns that the aggregations read.
type Dataset struct {
	Courses   []course.Course
	Tasks     []task.Task
	Resources []resource.Resource
	Projects  []project.Project
	Progress  []progress.Progress
}

// Source loads datasets from a store.
type Source interface {
	Ping(ctx context.Context) error
	Load(ctx context.Context, owner string) (Dataset, error)
}

// StoreHandle tells the aggregations where to read from: a connected Source, or nowhere.
type StoreHandle struct {
	source Source
}

// Connected returns a handle reading from src.
func Connected(src Source) StoreHandle { return StoreHandle{source: src} }

// Unavailable returns a handle for which every aggregation falls back to demo data.
func Unavailable() StoreHandle { return StoreHandle{} }

func (h StoreHandle) IsAvailable() bool { return h.source != nil }

// Repositories groups the collections a store-backed Source reads.
type Repositories struct {
	Store     core.Store
	Courses   course.Repository
	Tasks     task.Repository
	Resources resource.Repository
	Projects  project.Repository
	Progress  progress.Repository
}

type storeSource struct {
	repos Repositories
}

var _ Source = (*storeSource)(nil)

func NewSource(repos Repositories) Source {
	return &storeSource{repos: repos}
}

func (src *storeSource) Ping(ctx context.Context) error {
	return src.repos.Store.Ping(ctx)
}

func (src *storeSource) Load(ctx context.Context, owner string) (Dataset, error) {
	var (
		ds     Dataset
		err    error
		filter = core.OwnedBy(owner)
	)
	if ds.Courses, err = src.repos.Courses.Find(ctx, filter); err != nil {
		return Dataset{}, errors.Wrap(err, "loading courses")
	}
	if ds.Tasks, err = src.repos.Tasks.Find(ctx, filter); err != nil {
		return Dataset{}, errors.Wrap(err, "loading tasks")
	}
	if ds.Resources, err = src.repos.Resources.Find(ctx, filter); err != nil {
		return Dataset{}, errors.Wrap(err, "loading resources")
	}
	if ds.Projects, err = src.repos.Projects.Find(ctx, filter); err != nil {
		return Dataset{}, errors.Wrap(err, "loading projects")
	}
	if ds.Progress, err = src.repos.Progress.Find(ctx, filter); err != nil {
		return Dataset{}, errors.Wrap(err, "loading progress")
	}
	return ds, nil
}
