package project

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

	orderingFields  = []string{"createdAt", "updatedAt", "title", "status", "progress", "endDate"}
	defaultOrdering = core.DBOrdering{Field: "createdAt"}
)

type (
	Repository = core.Collection[Project]

	Service interface {
		Create(ctx context.Context, owner string, np NewProject) (Project, error)
		Query(ctx context.Context, owner string, params query.Params, orderings ...core.DBOrdering) ([]Project, error)
		Get(ctx context.Context, owner, id string) (Project, error)
		Update(ctx context.Context, owner, id string, up UpdateProject) (Project, error)
		Delete(ctx context.Context, owner, id string) (Project, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, owner string, np NewProject) (Project, error) {
	now := NowFunc().UTC()
	p := Project{
		ID:          uuid.NewString(),
		UserID:      owner,
		Title:       np.Title,
		Description: np.Description,
		Type:        np.Type,
		CourseID:    np.CourseID,
		Status:      np.Status,
		Progress:    np.Progress,
		StartDate:   np.StartDate,
		EndDate:     np.EndDate,
		Milestones:  np.Milestones,
		TeamMembers: np.TeamMembers,
		Tags:        np.Tags,
		Notes:       np.Notes,
		CreatedAt:   now,
	}
	if p.Type == "" {
		p.Type = TypePersonal
	}
	if p.Milestones == nil {
		p.Milestones = []Milestone{}
	}
	if p.TeamMembers == nil {
		p.TeamMembers = []TeamMember{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if err := resolve(&p, now); err != nil {
		return Project{}, err
	}

	p, err := svc.repo.Insert(ctx, p)
	return p, errors.Wrap(err, "inserting project")
}

func (svc *service) Query(ctx context.Context, owner string, params query.Params, orderings ...core.DBOrdering) ([]Project, error) {
	filter := query.Build(owner, params, FilterRules...)
	orderings = core.KeepOrderings(orderings, orderingFields, defaultOrdering)
	ps, err := svc.repo.Find(ctx, filter, orderings...)
	return ps, errors.Wrap(err, "finding projects")
}

func (svc *service) Get(ctx context.Context, owner, id string) (Project, error) {
	p, err := svc.repo.FindOne(ctx, core.OwnedBy(owner).ByID(id))
	return p, errors.Wrap(err, "finding project")
}

func (svc *service) Update(ctx context.Context, owner, id string, up UpdateProject) (Project, error) {
	prior, err := svc.Get(ctx, owner, id)
	if err != nil {
		return Project{}, err
	}
	p, err := Derive(prior, up, NowFunc().UTC())
	if err != nil {
		return Project{}, err
	}
	p, err = svc.repo.Replace(ctx, core.OwnedBy(owner).ByID(id), p)
	return p, errors.Wrap(err, "replacing project")
}

func (svc *service) Delete(ctx context.Context, owner, id string) (Project, error) {
	p, err := svc.repo.Delete(ctx, core.OwnedBy(owner).ByID(id))
	return p, errors.Wrap(err, "deleting project")
}
