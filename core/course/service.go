package course

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/query"
)

var (
	NowFunc = time.Now // mockable

	ErrCodeExists     = errors.Wrap(core.ErrConflict, "a course with this code already exists")
	ErrModuleNotFound = errors.Wrap(core.ErrNotFound, "module not found")

	orderingFields  = []string{"createdAt", "updatedAt", "title", "progress", "status", "targetCompletionDate"}
	defaultOrdering = core.DBOrdering{Field: "createdAt"}
)

type (
	Repository = core.Collection[Course]

	Service interface {
		Create(ctx context.Context, owner string, nc NewCourse) (Course, error)
		Query(ctx context.Context, owner string, params query.Params, orderings ...core.DBOrdering) ([]Course, error)
		Get(ctx context.Context, owner, id string) (Course, error)
		Update(ctx context.Context, owner, id string, uc UpdateCourse) (Course, error)
		CompleteModule(ctx context.Context, owner, id string, index int, completed bool) (Course, error)
		Delete(ctx context.Context, owner, id string) (Course, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// checkCode enforces the uniqueness of a course code per owner.
func (svc *service) checkCode(ctx context.Context, owner, code, excludedID string) error {
	if code == "" {
		return nil
	}
	filter := core.OwnedBy(owner).Where("code", core.OpEq, code)
	if excludedID != "" {
		filter = filter.Where(core.FieldID, core.OpNe, excludedID)
	}
	n, err := svc.repo.Count(ctx, filter)
	if err != nil {
		return errors.Wrap(err, "counting courses by code")
	}
	if n > 0 {
		return ErrCodeExists
	}
	return nil
}

func (svc *service) Create(ctx context.Context, owner string, nc NewCourse) (Course, error) {
	if err := svc.checkCode(ctx, owner, nc.Code, ""); err != nil {
		return Course{}, err
	}

	now := NowFunc().UTC()
	c := Course{
		ID:                   uuid.NewString(),
		UserID:               owner,
		Title:                nc.Title,
		Description:          nc.Description,
		Code:                 nc.Code,
		Platform:             nc.Platform,
		URL:                  nc.URL,
		Instructor:           nc.Instructor,
		Credits:              nc.Credits,
		Semester:             nc.Semester,
		Color:                nc.Color,
		Duration:             nc.Duration,
		Modules:              nc.Modules,
		Progress:             nc.Progress,
		Status:               nc.Status,
		StartDate:            nc.StartDate,
		TargetCompletionDate: nc.TargetCompletionDate,
		Tags:                 nc.Tags,
		Notes:                nc.Notes,
		CreatedAt:            now,
	}
	if c.Platform == "" {
		c.Platform = PlatformCustom
	}
	if c.Modules == nil {
		c.Modules = []Module{}
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if err := resolve(&c, nc.Status, now); err != nil {
		return Course{}, err
	}

	c, err := svc.repo.Insert(ctx, c)
	return c, errors.Wrap(err, "inserting course")
}

func (svc *service) Query(ctx context.Context, owner string, params query.Params, orderings ...core.DBOrdering) ([]Course, error) {
	filter := query.Build(owner, params, FilterRules...)
	orderings = core.KeepOrderings(orderings, orderingFields, defaultOrdering)
	courses, err := svc.repo.Find(ctx, filter, orderings...)
	return courses, errors.Wrap(err, "finding courses")
}

func (svc *service) Get(ctx context.Context, owner, id string) (Course, error) {
	c, err := svc.repo.FindOne(ctx, core.OwnedBy(owner).ByID(id))
	return c, errors.Wrap(err, "finding course")
}

func (svc *service) Update(ctx context.Context, owner, id string, uc UpdateCourse) (Course, error) {
	prior, err := svc.Get(ctx, owner, id)
	if err != nil {
		return Course{}, err
	}
	if uc.Code != nil && *uc.Code != prior.Code {
		if err = svc.checkCode(ctx, owner, *uc.Code, id); err != nil {
			return Course{}, err
		}
	}
	return svc.save(ctx, prior, uc)
}

func (svc *service) CompleteModule(ctx context.Context, owner, id string, index int, completed bool) (Course, error) {
	prior, err := svc.Get(ctx, owner, id)
	if err != nil {
		return Course{}, err
	}
	if index < 0 || index >= len(prior.Modules) {
		return Course{}, ErrModuleNotFound
	}
	mods := append([]Module(nil), prior.Modules...)
	mods[index].Completed = completed
	return svc.save(ctx, prior, UpdateCourse{Modules: &mods})
}

func (svc *service) save(ctx context.Context, prior Course, uc UpdateCourse) (Course, error) {
	c, err := Derive(prior, uc, NowFunc().UTC())
	if err != nil {
		return Course{}, err
	}
	c, err = svc.repo.Replace(ctx, core.OwnedBy(prior.UserID).ByID(prior.ID), c)
	return c, errors.Wrap(err, "replacing course")
}

func (svc *service) Delete(ctx context.Context, owner, id string) (Course, error) {
	c, err := svc.repo.Delete(ctx, core.OwnedBy(owner).ByID(id))
	return c, errors.Wrap(err, "deleting course")
}
