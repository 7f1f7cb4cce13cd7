package dashboard

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core"
)

var NowFunc = time.Now // mockable

// Service computes the read-only aggregates of one user.
// None of its operations write to the store.
type Service interface {
	Dashboard(ctx context.Context, owner string) (Dashboard, error)
	Analytics(ctx context.Context, owner string) (Analytics, error)
	Stats(ctx context.Context, owner string) (Stats, error)
}

type service struct {
	handle StoreHandle
}

var _ Service = (*service)(nil)

func NewService(handle StoreHandle) Service {
	return &service{handle: handle}
}

// load reads the owner's dataset; demo is true when the demo dataset was substituted.
func (svc *service) load(ctx context.Context, owner string, now time.Time) (ds Dataset, demo bool, err error) {
	if !svc.handle.IsAvailable() {
		return DemoDataset(now), true, nil
	}
	if err = svc.handle.source.Ping(ctx); err != nil {
		if core.IsUnavailable(err) {
			return DemoDataset(now), true, nil
		}
		return Dataset{}, false, errors.Wrap(err, "pinging store")
	}
	ds, err = svc.handle.source.Load(ctx, owner)
	if err != nil {
		if core.IsUnavailable(err) {
			return DemoDataset(now), true, nil
		}
		return Dataset{}, false, err
	}
	return ds, false, nil
}

func (svc *service) Dashboard(ctx context.Context, owner string) (Dashboard, error) {
	now := NowFunc().UTC()
	ds, demo, err := svc.load(ctx, owner, now)
	if err != nil {
		return Dashboard{}, err
	}
	dash := ComputeDashboard(ds, now)
	if demo {
		dash.markDemo()
	}
	return dash, nil
}

func (svc *service) Analytics(ctx context.Context, owner string) (Analytics, error) {
	now := NowFunc().UTC()
	ds, demo, err := svc.load(ctx, owner, now)
	if err != nil {
		return Analytics{}, err
	}
	an := ComputeAnalytics(ds, now)
	if demo {
		an.markDemo()
	}
	return an, nil
}

func (svc *service) Stats(ctx context.Context, owner string) (Stats, error) {
	now := NowFunc().UTC()
	ds, demo, err := svc.load(ctx, owner, now)
	if err != nil {
		return Stats{}, err
	}
	st := ComputeStats(ds, now)
	if demo {
		st.markDemo()
	}
	return st, nil
}
