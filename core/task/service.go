package task

import (
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/query"
)

var (
	NowFunc = time.Now // mockable

	orderingFields   = []string{"dueDate", "createdAt", "updatedAt", "title", "priority", "status", "progress"}
	defaultOrderings = []core.DBOrdering{{Field: "dueDate", Ascending: true}, {Field: "createdAt"}}

	reminderTemplate = "task_reminder"
)

type (
	Repository = core.Collection[Task]

	Service interface {
		Create(ctx context.Context, owner string, nt NewTask) (Task, error)
		Query(ctx context.Context, owner string, params query.Params, orderings ...core.DBOrdering) ([]Task, error)
		Get(ctx context.Context, owner, id string) (Task, error)
		Update(ctx context.Context, owner, id string, ut UpdateTask) (Task, error)
		SetProgress(ctx context.Context, owner, id string, progress int) (Task, error)
		Delete(ctx context.Context, owner, id string) (Task, error)
		// Upcoming returns the `limit` soonest not completed tasks that are not yet due.
		Upcoming(ctx context.Context, owner string, limit int) ([]Task, error)
		// Overdue returns the not completed tasks whose due date has passed, latest first.
		Overdue(ctx context.Context, owner string) ([]Task, error)
		// Open returns the pending and in-progress tasks.
		Open(ctx context.Context, owner string) ([]Task, error)
		// DispatchReminders marks every due reminder of the owner's tasks sent, then emails the tasks with a due email reminder.
		DispatchReminders(ctx context.Context, owner string, to mail.Address) (int, error)
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService) Service {
	return &service{repo: repo, mailSvc: mailSvc}
}

func (svc *service) Create(ctx context.Context, owner string, nt NewTask) (Task, error) {
	now := NowFunc().UTC()
	t := Task{
		ID:             uuid.NewString(),
		UserID:         owner,
		Title:          nt.Title,
		Description:    nt.Description,
		Type:           nt.Type,
		Priority:       nt.Priority,
		Status:         nt.Status,
		Progress:       nt.Progress,
		DueDate:        nt.DueDate,
		CourseID:       nt.CourseID,
		EstimatedHours: nt.EstimatedHours,
		ActualHours:    nt.ActualHours,
		Reminders:      nt.Reminders,
		Tags:           nt.Tags,
		Notes:          nt.Notes,
		CreatedAt:      now,
	}
	if t.Type == "" {
		t.Type = TypeGeneral
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Reminders == nil {
		t.Reminders = []Reminder{}
	}
	for i := range t.Reminders {
		if t.Reminders[i].Type == "" {
			t.Reminders[i].Type = ReminderEmail
		}
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if err := resolve(&t, "", nt.Status, now); err != nil {
		return Task{}, err
	}

	t, err := svc.repo.Insert(ctx, t)
	return t, errors.Wrap(err, "inserting task")
}

func (svc *service) Query(ctx context.Context, owner string, params query.Params, orderings ...core.DBOrdering) ([]Task, error) {
	filter := query.Build(owner, params, FilterRules...)
	orderings = core.KeepOrderings(orderings, orderingFields, defaultOrderings...)
	tasks, err := svc.repo.Find(ctx, filter, orderings...)
	return tasks, errors.Wrap(err, "finding tasks")
}

func (svc *service) Get(ctx context.Context, owner, id string) (Task, error) {
	t, err := svc.repo.FindOne(ctx, core.OwnedBy(owner).ByID(id))
	return t, errors.Wrap(err, "finding task")
}

func (svc *service) Update(ctx context.Context, owner, id string, ut UpdateTask) (Task, error) {
	prior, err := svc.Get(ctx, owner, id)
	if err != nil {
		return Task{}, err
	}
	return svc.save(ctx, prior, ut)
}

func (svc *service) SetProgress(ctx context.Context, owner, id string, progress int) (Task, error) {
	if !core.ValidProgress(progress) {
		return Task{}, core.NewFieldError("progress", "progress must be between 0 and 100")
	}
	return svc.Update(ctx, owner, id, UpdateTask{Progress: &progress})
}

func (svc *service) save(ctx context.Context, prior Task, ut UpdateTask) (Task, error) {
	t, err := Derive(prior, ut, NowFunc().UTC())
	if err != nil {
		return Task{}, err
	}
	t, err = svc.repo.Replace(ctx, core.OwnedBy(prior.UserID).ByID(prior.ID), t)
	return t, errors.Wrap(err, "replacing task")
}

func (svc *service) Delete(ctx context.Context, owner, id string) (Task, error) {
	t, err := svc.repo.Delete(ctx, core.OwnedBy(owner).ByID(id))
	return t, errors.Wrap(err, "deleting task")
}

func (svc *service) Upcoming(ctx context.Context, owner string, limit int) ([]Task, error) {
	filter := core.OwnedBy(owner).
		Where("dueDate", core.OpGte, NowFunc().UTC()).
		Where("status", core.OpNe, StatusCompleted)
	tasks, err := svc.repo.Find(ctx, filter, core.DBOrdering{Field: "dueDate", Ascending: true})
	if err != nil {
		return nil, errors.Wrap(err, "finding upcoming tasks")
	}
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

func (svc *service) Overdue(ctx context.Context, owner string) ([]Task, error) {
	filter := core.OwnedBy(owner).
		Where("dueDate", core.OpLt, NowFunc().UTC()).
		Where("status", core.OpNe, StatusCompleted)
	tasks, err := svc.repo.Find(ctx, filter, core.DBOrdering{Field: "dueDate"})
	return tasks, errors.Wrap(err, "finding overdue tasks")
}

func (svc *service) Open(ctx context.Context, owner string) ([]Task, error) {
	filter := core.OwnedBy(owner).Where("status", core.OpIn, []string{StatusPending, StatusInProgress})
	tasks, err := svc.repo.Find(ctx, filter, core.DBOrdering{Field: "dueDate", Ascending: true})
	return tasks, errors.Wrap(err, "finding open tasks")
}

type reminderData struct {
	Name     string
	Title    string
	DueDate  string
	Progress int
	TaskID   string
}

func (svc *service) DispatchReminders(ctx context.Context, owner string, to mail.Address) (int, error) {
	now := NowFunc().UTC()
	tasks, err := svc.repo.Find(ctx, core.OwnedBy(owner).Where("status", core.OpNe, StatusCompleted))
	if err != nil {
		return 0, errors.Wrap(err, "finding tasks with reminders")
	}

	var sent int
	for _, t := range tasks {
		reminders := append([]Reminder(nil), t.Reminders...)
		var changed, emailDue bool
		for i, r := range reminders {
			if r.Sent || r.Date.After(now) {
				continue
			}
			if r.Type == ReminderEmail || r.Type == "" {
				emailDue = true
			}
			reminders[i].Sent = true
			changed = true
		}
		if !changed {
			continue
		}

		// marked before sending: a reminder is emailed at most once
		if _, err = svc.save(ctx, t, UpdateTask{Reminders: &reminders}); err != nil {
			return sent, errors.Wrap(err, "marking reminders sent")
		}
		if !emailDue {
			continue
		}

		data := reminderData{Name: to.Name, Title: t.Title, Progress: t.Progress, TaskID: t.ID}
		if t.DueDate != nil {
			data.DueDate = t.DueDate.Format("Mon, 02 Jan 2006 15:04 MST")
		}
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{to},
			Subject:      "Reminder: " + t.Title,
			TemplateName: reminderTemplate,
			TemplateData: data,
		})
		sent++
	}
	return sent, nil
}
