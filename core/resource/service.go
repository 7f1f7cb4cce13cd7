package resource

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

	orderingFields  = []string{"createdAt", "updatedAt", "title", "progress", "rating", "type"}
	defaultOrdering = core.DBOrdering{Field: "createdAt"}
)

type (
	Repository = core.Collection[Resource]

	Service interface {
		Create(ctx context.Context, owner string, nr NewResource) (Resource, error)
		Query(ctx context.Context, owner string, params query.Params, orderings ...core.DBOrdering) ([]Resource, error)
		Get(ctx context.Context, owner, id string) (Resource, error)
		Update(ctx context.Context, owner, id string, ur UpdateResource) (Resource, error)
		ToggleFavorite(ctx context.Context, owner, id string) (Resource, error)
		SetProgress(ctx context.Context, owner, id string, progress int) (Resource, error)
		Delete(ctx context.Context, owner, id string) (Resource, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, owner string, nr NewResource) (Resource, error) {
	now := NowFunc().UTC()
	r := Resource{
		ID:            uuid.NewString(),
		UserID:        owner,
		Title:         nr.Title,
		Description:   nr.Description,
		Type:          nr.Type,
		Category:      nr.Category,
		Platform:      nr.Platform,
		Content:       nr.Content,
		URL:           nr.URL,
		FileInfo:      nr.FileInfo,
		Tags:          nr.Tags,
		RelatedCourse: nr.RelatedCourse,
		RelatedTask:   nr.RelatedTask,
		IsFavorite:    nr.IsFavorite,
		Progress:      nr.Progress,
		Rating:        nr.Rating,
		CreatedAt:     now,
	}
	if r.Type == "" {
		r.Type = TypeNote
	}
	if r.Category == "" {
		r.Category = CategoryOther
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if err := resolve(&r, nr.Completed, now); err != nil {
		return Resource{}, err
	}

	r, err := svc.repo.Insert(ctx, r)
	return r, errors.Wrap(err, "inserting resource")
}

func (svc *service) Query(ctx context.Context, owner string, params query.Params, orderings ...core.DBOrdering) ([]Resource, error) {
	filter := query.Build(owner, params, FilterRules...)
	if fav, ok := params["favorite"]; ok && (fav == "true" || fav == "false") {
		filter = filter.Where("isFavorite", core.OpEq, fav == "true")
	}
	orderings = core.KeepOrderings(orderings, orderingFields, defaultOrdering)
	rs, err := svc.repo.Find(ctx, filter, orderings...)
	return rs, errors.Wrap(err, "finding resources")
}

func (svc *service) Get(ctx context.Context, owner, id string) (Resource, error) {
	r, err := svc.repo.FindOne(ctx, core.OwnedBy(owner).ByID(id))
	return r, errors.Wrap(err, "finding resource")
}

func (svc *service) Update(ctx context.Context, owner, id string, ur UpdateResource) (Resource, error) {
	prior, err := svc.Get(ctx, owner, id)
	if err != nil {
		return Resource{}, err
	}
	return svc.save(ctx, prior, ur)
}

func (svc *service) ToggleFavorite(ctx context.Context, owner, id string) (Resource, error) {
	prior, err := svc.Get(ctx, owner, id)
	if err != nil {
		return Resource{}, err
	}
	fav := !prior.IsFavorite
	return svc.save(ctx, prior, UpdateResource{IsFavorite: &fav})
}

func (svc *service) SetProgress(ctx context.Context, owner, id string, progress int) (Resource, error) {
	if !core.ValidProgress(progress) {
		return Resource{}, core.NewFieldError("progress", "progress must be between 0 and 100")
	}
	return svc.Update(ctx, owner, id, UpdateResource{Progress: &progress})
}

func (svc *service) save(ctx context.Context, prior Resource, ur UpdateResource) (Resource, error) {
	r, err := Derive(prior, ur, NowFunc().UTC())
	if err != nil {
		return Resource{}, err
	}
	r, err = svc.repo.Replace(ctx, core.OwnedBy(prior.UserID).ByID(prior.ID), r)
	return r, errors.Wrap(err, "replacing resource")
}

func (svc *service) Delete(ctx context.Context, owner, id string) (Resource, error) {
	r, err := svc.repo.Delete(ctx, core.OwnedBy(owner).ByID(id))
	return r, errors.Wrap(err, "deleting resource")
}
