package planner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VenusCh001/studytracker/core/course"
	"github.com/VenusCh001/studytracker/core/task"
	inmemdb "github.com/VenusCh001/studytracker/storage/database/inmem"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	NowFunc = func() time.Time { return now }
	t.Cleanup(func() { NowFunc = time.Now })

	db := inmemdb.New()
	tasks := inmemdb.NewCollection[task.Task](db, "tasks")
	courses := inmemdb.NewCollection[course.Course](db, "courses")

	_, err := courses.Insert(ctx, course.Course{ID: "c1", UserID: "u1", Title: "Compilers"})
	require.NoError(t, err)
	for _, tk := range []task.Task{
		{ID: "t1", UserID: "u1", Title: "Parser", CourseID: "c1", Status: task.StatusPending, Priority: task.PriorityLow, DueDate: in(20 * day), EstimatedHours: 2},
		{ID: "t2", UserID: "u1", Title: "Lexer", Status: task.StatusInProgress, Priority: task.PriorityUrgent, DueDate: in(12 * time.Hour), EstimatedHours: 2},
		{ID: "t3", UserID: "u1", Title: "Done", Status: task.StatusCompleted, Priority: task.PriorityUrgent, DueDate: in(day)},
		{ID: "t4", UserID: "u2", Title: "Other", Status: task.StatusPending, DueDate: in(day)},
	} {
		_, err := tasks.Insert(ctx, tk)
		require.NoError(t, err)
	}

	svc := NewService(task.NewService(tasks, nil), course.NewService(courses))

	prio, err := svc.Prioritize(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, MessagePrioritized, prio.Message)
	require.Len(t, prio.Tasks, 2)
	assert.Equal(t, "t2", prio.Tasks[0].Task.ID)
	assert.Equal(t, "t1", prio.Tasks[1].Task.ID)

	plan, err := svc.GenerateSchedule(ctx, "u1", Preferences{"dailyHours": 3.0})
	require.NoError(t, err)
	assert.Equal(t, MessageScheduled, plan.Message)
	assert.Equal(t, Preferences{"dailyHours": 3.0}, plan.Preferences)
	require.Len(t, plan.Schedule, 2)
	assert.Equal(t, "t2", plan.Schedule[0].TaskID)
	assert.Equal(t, NoCourse, plan.Schedule[0].Course)
	assert.Equal(t, "Compilers", plan.Schedule[1].Course)

	plan, err = svc.GenerateSchedule(ctx, "nobody", nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Schedule)
	assert.NotNil(t, plan.Preferences)

	db.SetAvailable(false)
	_, err = svc.Prioritize(ctx, "u1")
	assert.Error(t, err)
}
