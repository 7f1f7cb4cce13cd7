package task

import (
	"context"
	"net/mail"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/query"
	inmemdb "github.com/VenusCh001/studytracker/storage/database/inmem"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []*core.EmailMessage
}

func (m *recordingMailer) SendMessages(messages ...*core.EmailMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, messages...)
}

func newTestService(t *testing.T) (Service, *recordingMailer) {
	t.Helper()
	NowFunc = func() time.Time { return now }
	t.Cleanup(func() { NowFunc = time.Now })
	mailer := new(recordingMailer)
	return NewService(inmemdb.NewCollection[Task](inmemdb.New(), "tasks"), mailer), mailer
}

// failingReplace rejects every write after creation.
type failingReplace struct {
	Repository
}

func (failingReplace) Replace(context.Context, core.Filter, Task) (Task, error) {
	return Task{}, core.ErrUnavailable
}

func ids(ts []Task) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tk, err := svc.Create(ctx, "u1", NewTask{Title: "Essay", DueDate: &nextWeek})
	require.NoError(t, err)
	assert.NotEmpty(t, tk.ID)
	assert.Equal(t, "u1", tk.UserID)
	assert.Equal(t, TypeGeneral, tk.Type)
	assert.Equal(t, PriorityMedium, tk.Priority)
	assert.Equal(t, StatusPending, tk.Status)
	assert.NotNil(t, tk.Tags)
	assert.NotNil(t, tk.Reminders)
	assert.True(t, now.Equal(tk.CreatedAt))

	tk, err = svc.Create(ctx, "u1", NewTask{Title: "Lab", DueDate: &yesterday})
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, tk.Status)

	tk, err = svc.Create(ctx, "u1", NewTask{Title: "Quiz", Status: StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, 100, tk.Progress)
	require.NotNil(t, tk.CompletedAt)

	_, err = svc.Create(ctx, "u1", NewTask{Title: "Bad", Progress: 101})
	assert.True(t, core.IsValidationError(err))
}

func TestService_lifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tk, err := svc.Create(ctx, "u1", NewTask{Title: "Essay", DueDate: &nextWeek})
	require.NoError(t, err)

	tk, err = svc.SetProgress(ctx, "u1", tk.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, tk.Status)

	_, err = svc.SetProgress(ctx, "u1", tk.ID, -1)
	assert.True(t, core.IsValidationError(err))

	tk, err = svc.SetProgress(ctx, "u1", tk.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, tk.Status)
	require.NotNil(t, tk.CompletedAt)

	_, err = svc.Update(ctx, "u1", tk.ID, UpdateTask{Status: sPtr(StatusPending)})
	assert.True(t, core.IsValidationError(err), "completed tasks cannot be reopened")

	_, err = svc.Update(ctx, "u2", tk.ID, UpdateTask{Title: sPtr("stolen")})
	assert.True(t, core.IsNotFound(err))

	deleted, err := svc.Delete(ctx, "u1", tk.ID)
	require.NoError(t, err)
	assert.Equal(t, tk.ID, deleted.ID)
	_, err = svc.Delete(ctx, "u1", tk.ID)
	assert.True(t, core.IsNotFound(err))
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	later := nextWeek.Add(24 * time.Hour)
	a, err := svc.Create(ctx, "u1", NewTask{Title: "A", DueDate: &later, Priority: PriorityHigh, Tags: []string{"math"}})
	require.NoError(t, err)
	b, err := svc.Create(ctx, "u1", NewTask{Title: "B", DueDate: &nextWeek, Type: TypeAssignment})
	require.NoError(t, err)
	c, err := svc.Create(ctx, "u1", NewTask{Title: "C"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u2", NewTask{Title: "D"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		params    query.Params
		orderings []core.DBOrdering
		want      []string
	}{
		{name: "default ordering, no due date first", want: []string{c.ID, b.ID, a.ID}},
		{name: "priority", params: query.Params{"priority": PriorityHigh}, want: []string{a.ID}},
		{name: "type", params: query.Params{"type": TypeAssignment}, want: []string{b.ID}},
		{name: "tags", params: query.Params{"tags": "math"}, want: []string{a.ID}},
		{name: "invalid status ignored", params: query.Params{"status": "nope"}, want: []string{c.ID, b.ID, a.ID}},
		{name: "title desc", orderings: []core.DBOrdering{{Field: "title"}}, want: []string{c.ID, b.ID, a.ID}},
		{name: "title asc", orderings: []core.DBOrdering{{Field: "title", Ascending: true}}, want: []string{a.ID, b.ID, c.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Query(ctx, "u1", tt.params, tt.orderings...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestService_UpcomingAndOverdue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tomorrow := now.Add(24 * time.Hour)
	late, err := svc.Create(ctx, "u1", NewTask{Title: "late", DueDate: &yesterday})
	require.NoError(t, err)
	soon, err := svc.Create(ctx, "u1", NewTask{Title: "soon", DueDate: &tomorrow})
	require.NoError(t, err)
	next, err := svc.Create(ctx, "u1", NewTask{Title: "next", DueDate: &nextWeek})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", NewTask{Title: "done", DueDate: &tomorrow, Status: StatusCompleted})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", NewTask{Title: "undated"})
	require.NoError(t, err)

	upcoming, err := svc.Upcoming(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{soon.ID, next.ID}, ids(upcoming))

	upcoming, err = svc.Upcoming(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{soon.ID}, ids(upcoming))

	overdue, err := svc.Overdue(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{late.ID}, ids(overdue))

	open, err := svc.Open(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, open, 3, "soon, next and undated")
}

func TestService_DispatchReminders(t *testing.T) {
	ctx := context.Background()
	svc, mailer := newTestService(t)

	due := now.Add(-time.Minute)
	tk, err := svc.Create(ctx, "u1", NewTask{
		Title:   "Essay",
		DueDate: &nextWeek,
		Reminders: []Reminder{
			{Date: due},
			{Date: due, Type: ReminderNotification},
			{Date: nextWeek.Add(-time.Hour), Type: ReminderEmail},
		},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", NewTask{Title: "Done", Status: StatusCompleted, Reminders: []Reminder{{Date: due}}})
	require.NoError(t, err)

	to := mail.Address{Name: "Jane", Address: "jane@example.com"}
	n, err := svc.DispatchReminders(ctx, "u1", to)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, []mail.Address{to}, msg.To)
	assert.Equal(t, "task_reminder", msg.TemplateName)
	assert.Equal(t, "Essay", msg.TemplateData.(reminderData).Title)

	tk, err = svc.Get(ctx, "u1", tk.ID)
	require.NoError(t, err)
	assert.True(t, tk.Reminders[0].Sent)
	assert.True(t, tk.Reminders[1].Sent)
	assert.False(t, tk.Reminders[2].Sent)

	n, err = svc.DispatchReminders(ctx, "u1", to)
	require.NoError(t, err)
	assert.Zero(t, n, "reminders are sent once")
	assert.Len(t, mailer.sent, 1)
}

func TestService_DispatchReminders_notificationOnly(t *testing.T) {
	ctx := context.Background()
	svc, mailer := newTestService(t)

	tk, err := svc.Create(ctx, "u1", NewTask{
		Title:     "Lab",
		Reminders: []Reminder{{Date: now.Add(-time.Hour), Type: ReminderNotification}},
	})
	require.NoError(t, err)

	n, err := svc.DispatchReminders(ctx, "u1", mail.Address{Address: "jane@example.com"})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, mailer.sent)

	tk, err = svc.Get(ctx, "u1", tk.ID)
	require.NoError(t, err)
	assert.True(t, tk.Reminders[0].Sent)
}

func TestService_DispatchReminders_saveFails(t *testing.T) {
	ctx := context.Background()
	NowFunc = func() time.Time { return now }
	t.Cleanup(func() { NowFunc = time.Now })

	repo := inmemdb.NewCollection[Task](inmemdb.New(), "tasks")
	mailer := new(recordingMailer)
	_, err := NewService(repo, mailer).Create(ctx, "u1", NewTask{
		Title:     "Essay",
		Reminders: []Reminder{{Date: now.Add(-time.Hour)}},
	})
	require.NoError(t, err)

	svc := NewService(failingReplace{Repository: repo}, mailer)
	n, err := svc.DispatchReminders(ctx, "u1", mail.Address{Address: "jane@example.com"})
	assert.True(t, core.IsUnavailable(err))
	assert.Zero(t, n)
	assert.Empty(t, mailer.sent, "nothing is emailed unless marked sent")
}
