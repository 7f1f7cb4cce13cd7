package course

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/query"
	inmemdb "github.com/VenusCh001/studytracker/storage/database/inmem"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	NowFunc = func() time.Time { return t0 }
	t.Cleanup(func() { NowFunc = time.Now })
	return NewService(inmemdb.NewCollection[Course](inmemdb.New(), "courses"))
}

func TestService_lifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	c, err := svc.Create(ctx, "u1", NewCourse{Title: "Go", Modules: modules(false, false, false, false)})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, PlatformCustom, c.Platform)
	assert.Equal(t, StatusNotStarted, c.Status)
	assert.Equal(t, 0, c.Progress)

	c, err = svc.CompleteModule(ctx, "u1", c.ID, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 25, c.Progress)
	assert.Equal(t, StatusInProgress, c.Status)

	for i := 1; i < 4; i++ {
		c, err = svc.CompleteModule(ctx, "u1", c.ID, i, true)
		require.NoError(t, err)
	}
	assert.Equal(t, 100, c.Progress)
	assert.Equal(t, StatusCompleted, c.Status)
	require.NotNil(t, c.CompletedAt)
	completedAt := *c.CompletedAt

	NowFunc = func() time.Time { return t1 }
	notes := "done"
	c, err = svc.Update(ctx, "u1", c.ID, UpdateCourse{Notes: &notes})
	require.NoError(t, err)
	assert.True(t, completedAt.Equal(*c.CompletedAt))
	assert.True(t, t1.Equal(c.UpdatedAt))

	_, err = svc.CompleteModule(ctx, "u1", c.ID, 4, true)
	assert.True(t, core.IsNotFound(err))

	_, err = svc.Get(ctx, "u2", c.ID)
	assert.True(t, core.IsNotFound(err), "other owners cannot see the course")

	deleted, err := svc.Delete(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, deleted.ID)
	_, err = svc.Get(ctx, "u1", c.ID)
	assert.True(t, core.IsNotFound(err))
}

func TestService_codeUniqueness(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	c1, err := svc.Create(ctx, "u1", NewCourse{Title: "Intro", Code: "CS101"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", NewCourse{Title: "Intro again", Code: "CS101"})
	assert.True(t, core.IsConflict(err))
	_, err = svc.Create(ctx, "u2", NewCourse{Title: "Intro", Code: "CS101"})
	assert.NoError(t, err, "codes are unique per owner")

	c2, err := svc.Create(ctx, "u1", NewCourse{Title: "DSA", Code: "CS201"})
	require.NoError(t, err)
	code := "CS101"
	_, err = svc.Update(ctx, "u1", c2.ID, UpdateCourse{Code: &code})
	assert.True(t, core.IsConflict(err))
	_, err = svc.Update(ctx, "u1", c1.ID, UpdateCourse{Code: &code})
	assert.NoError(t, err, "keeping its own code")
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	yt, err := svc.Create(ctx, "u1", NewCourse{Title: "A", Platform: PlatformYoutube, Tags: []string{"go"}})
	require.NoError(t, err)
	NowFunc = func() time.Time { return t1 }
	ud, err := svc.Create(ctx, "u1", NewCourse{Title: "B", Platform: PlatformUdemy, Progress: 50})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u2", NewCourse{Title: "C", Platform: PlatformYoutube})
	require.NoError(t, err)

	ids := func(cs []Course) []string {
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}

	tests := []struct {
		name      string
		params    query.Params
		orderings []core.DBOrdering
		want      []string
	}{
		{name: "all, newest first", want: []string{ud.ID, yt.ID}},
		{name: "platform", params: query.Params{"platform": "youtube"}, want: []string{yt.ID}},
		{name: "unknown platform ignored", params: query.Params{"platform": "netflix"}, want: []string{ud.ID, yt.ID}},
		{name: "status", params: query.Params{"status": StatusInProgress}, want: []string{ud.ID}},
		{name: "tags", params: query.Params{"tags": "go,rust"}, want: []string{yt.ID}},
		{name: "ordering", orderings: []core.DBOrdering{{Field: "title", Ascending: true}}, want: []string{yt.ID, ud.ID}},
		{name: "unknown ordering falls back", orderings: []core.DBOrdering{{Field: "userId"}}, want: []string{ud.ID, yt.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Query(ctx, "u1", tt.params, tt.orderings...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}
