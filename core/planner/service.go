package planner

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core/course"
	"github.com/VenusCh001/studytracker/core/query"
	"github.com/VenusCh001/studytracker/core/task"
)

var NowFunc = time.Now // mockable

const (
	MessagePrioritized = "Tasks prioritized by urgency and priority"
	MessageScheduled   = "Schedule generated successfully"
	MessageOptimal     = "Optimal study times based on typical cognitive patterns"

	Algorithm = "workload distribution"
)

// Preferences are opaque scheduling preferences, echoed back with the schedule.
type Preferences map[string]interface{}

type Priorities struct {
	Tasks   []Ranked `json:"prioritizedTasks"`
	Message string   `json:"message"`
}

type Plan struct {
	Message     string      `json:"message"`
	Schedule    []Session   `json:"schedule"`
	Algorithm   string      `json:"algorithmUsed"`
	Preferences Preferences `json:"preferences"`
}

type Service interface {
	Prioritize(ctx context.Context, owner string) (Priorities, error)
	GenerateSchedule(ctx context.Context, owner string, prefs Preferences) (Plan, error)
}

type service struct {
	tasks   task.Service
	courses course.Service
}

var _ Service = (*service)(nil)

func NewService(tasks task.Service, courses course.Service) Service {
	return &service{tasks: tasks, courses: courses}
}

func (svc *service) Prioritize(ctx context.Context, owner string) (Priorities, error) {
	open, err := svc.tasks.Open(ctx, owner)
	if err != nil {
		return Priorities{}, err
	}
	return Priorities{
		Tasks:   Prioritize(open, NowFunc().UTC()),
		Message: MessagePrioritized,
	}, nil
}

func (svc *service) GenerateSchedule(ctx context.Context, owner string, prefs Preferences) (Plan, error) {
	open, err := svc.tasks.Open(ctx, owner)
	if err != nil {
		return Plan{}, err
	}
	courses, err := svc.courses.Query(ctx, owner, query.Params{})
	if err != nil {
		return Plan{}, errors.Wrap(err, "loading course titles")
	}
	titles := make(map[string]string, len(courses))
	for _, c := range courses {
		titles[c.ID] = c.Title
	}
	if prefs == nil {
		prefs = Preferences{}
	}
	return Plan{
		Message:     MessageScheduled,
		Schedule:    Schedule(open, titles, NowFunc().UTC()),
		Algorithm:   Algorithm,
		Preferences: prefs,
	}, nil
}
