package inmemdb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VenusCh001/studytracker/core"
)

type note struct {
	ID     string    `json:"id"`
	UserID string    `json:"userId"`
	Day    time.Time `json:"day"`
	Title  string    `json:"title"`
	Rank   int       `json:"rank"`
}

func (n note) DocID() string { return n.ID }

func newNotes() (*DB, *Collection[note]) {
	db := New()
	return db, NewCollection[note](db, "notes", Unique(core.FieldOwner, "day"))
}

func TestCollection_crud(t *testing.T) {
	ctx := context.Background()
	_, notes := newNotes()
	day := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	n1, err := notes.Insert(ctx, note{ID: "n1", UserID: "u1", Day: day, Title: "first", Rank: 2})
	require.NoError(t, err)
	_, err = notes.Insert(ctx, note{ID: "n2", UserID: "u1", Day: day.AddDate(0, 0, 1), Title: "second", Rank: 1})
	require.NoError(t, err)
	_, err = notes.Insert(ctx, note{ID: "n3", UserID: "u2", Day: day, Title: "other", Rank: 3})
	require.NoError(t, err)

	got, err := notes.FindOne(ctx, core.OwnedBy("u1").ByID("n1"))
	require.NoError(t, err)
	assert.Equal(t, n1, got)

	_, err = notes.FindOne(ctx, core.OwnedBy("u2").ByID("n1"))
	assert.Equal(t, core.ErrNotFound, err)

	all, err := notes.Find(ctx, core.OwnedBy("u1"), core.DBOrdering{Field: "rank", Ascending: true})
	require.NoError(t, err)
	if assert.Len(t, all, 2) {
		assert.Equal(t, "n2", all[0].ID)
		assert.Equal(t, "n1", all[1].ID)
	}

	n1.Title = "renamed"
	replaced, err := notes.Replace(ctx, core.OwnedBy("u1").ByID("n1"), n1)
	require.NoError(t, err)
	assert.Equal(t, "renamed", replaced.Title)

	_, err = notes.Replace(ctx, core.OwnedBy("u2").ByID("n1"), n1)
	assert.Equal(t, core.ErrNotFound, err)

	count, err := notes.Count(ctx, core.OwnedBy("u1"))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	deleted, err := notes.Delete(ctx, core.OwnedBy("u1").ByID("n1"))
	require.NoError(t, err)
	assert.Equal(t, "renamed", deleted.Title)

	_, err = notes.Delete(ctx, core.OwnedBy("u1").ByID("n1"))
	assert.Equal(t, core.ErrNotFound, err)
}

func TestCollection_unique(t *testing.T) {
	ctx := context.Background()
	_, notes := newNotes()
	day := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	_, err := notes.Insert(ctx, note{ID: "n1", UserID: "u1", Day: day})
	require.NoError(t, err)

	_, err = notes.Insert(ctx, note{ID: "n1", UserID: "u1", Day: day.AddDate(0, 0, 1)})
	assert.Equal(t, core.ErrConflict, err, "duplicate id")

	_, err = notes.Insert(ctx, note{ID: "n2", UserID: "u1", Day: day})
	assert.Equal(t, core.ErrConflict, err, "duplicate (owner, day)")

	_, err = notes.Insert(ctx, note{ID: "n3", UserID: "u2", Day: day})
	assert.NoError(t, err, "same day, other owner")
}

func TestCollection_concurrentInsert(t *testing.T) {
	ctx := context.Background()
	_, notes := newNotes()
	day := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = notes.Insert(ctx, note{ID: string(rune('a' + i)), UserID: "u1", Day: day})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.Equal(t, core.ErrConflict, err)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestDB_unavailable(t *testing.T) {
	ctx := context.Background()
	db, notes := newNotes()

	db.SetAvailable(false)
	assert.Equal(t, core.ErrUnavailable, db.Ping(ctx))
	_, err := notes.Find(ctx, core.OwnedBy("u1"))
	assert.Equal(t, core.ErrUnavailable, err)

	db.SetAvailable(true)
	assert.NoError(t, db.Ping(ctx))
}
