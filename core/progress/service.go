package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core"
)

var NowFunc = time.Now // mockable

type (
	Repository = core.Collection[Progress]

	Service interface {
		// Today returns the record of the current UTC day, creating it on first access.
		Today(ctx context.Context, owner string) (Progress, error)
		// Range returns the records dated within [start, end], oldest first.
		Range(ctx context.Context, owner string, start, end time.Time) ([]Progress, error)
		// Since returns the records dated on or after `since`, most recent first.
		Since(ctx context.Context, owner string, since time.Time) ([]Progress, error)
		UpdateToday(ctx context.Context, owner string, up UpdateProgress) (Progress, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

// NewService expects repo to enforce a unique (userId, date) key.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Today(ctx context.Context, owner string) (Progress, error) {
	now := NowFunc().UTC()
	day := core.StartOfDay(now)
	filter := core.OwnedBy(owner).Where("date", core.OpEq, day)

	p, err := svc.repo.FindOne(ctx, filter)
	if err == nil || !core.IsNotFound(err) {
		return p, errors.Wrap(err, "finding today's progress")
	}

	p, err = svc.repo.Insert(ctx, Progress{
		ID:        uuid.NewString(),
		UserID:    owner,
		Date:      day,
		Mood:      MoodNeutral,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if core.IsConflict(err) {
		// lost the race against a concurrent first access
		p, err = svc.repo.FindOne(ctx, filter)
	}
	return p, errors.Wrap(err, "creating today's progress")
}

func (svc *service) Range(ctx context.Context, owner string, start, end time.Time) ([]Progress, error) {
	if end.Before(start) {
		return nil, core.NewFieldError("endDate", "endDate must not be before startDate")
	}
	filter := core.OwnedBy(owner).
		Where("date", core.OpGte, start.UTC()).
		Where("date", core.OpLte, end.UTC())
	ps, err := svc.repo.Find(ctx, filter, core.DBOrdering{Field: "date", Ascending: true})
	return ps, errors.Wrap(err, "finding progress range")
}

func (svc *service) Since(ctx context.Context, owner string, since time.Time) ([]Progress, error) {
	filter := core.OwnedBy(owner).Where("date", core.OpGte, since.UTC())
	ps, err := svc.repo.Find(ctx, filter, core.DBOrdering{Field: "date"})
	return ps, errors.Wrap(err, "finding recent progress")
}

func (svc *service) UpdateToday(ctx context.Context, owner string, up UpdateProgress) (Progress, error) {
	p, err := svc.Today(ctx, owner)
	if err != nil {
		return Progress{}, err
	}
	up.apply(&p)
	p.UpdatedAt = NowFunc().UTC()

	p, err = svc.repo.Replace(ctx, core.OwnedBy(owner).ByID(p.ID), p)
	return p, errors.Wrap(err, "updating today's progress")
}
