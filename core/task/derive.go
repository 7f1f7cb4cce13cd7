package task

import (
	"time"

	"github.com/VenusCh001/studytracker/core"
)

const msgReopen = "a completed task cannot be reopened"

// Derive merges the changes into prior and runs the task state machine:
//
//	progress == 100                          -> completed (terminal)
//	dueDate < now and not completed          -> overdue (sticky until completion)
//	0 < progress < 100 while pending         -> in-progress
//
// Setting the status to completed is the same as setting the progress to 100.
// completedAt is stamped once, on the transition into completed.
func Derive(prior Task, changes UpdateTask, now time.Time) (Task, error) {
	t := prior
	changes.apply(&t)

	var requested string
	if changes.Status != nil {
		requested = *changes.Status
	}
	if err := resolve(&t, prior.Status, requested, now); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (ut UpdateTask) apply(t *Task) {
	if ut.Title != nil {
		t.Title = *ut.Title
	}
	if ut.Description != nil {
		t.Description = *ut.Description
	}
	if ut.Type != nil {
		t.Type = *ut.Type
	}
	if ut.Priority != nil {
		t.Priority = *ut.Priority
	}
	if ut.Status != nil {
		t.Status = *ut.Status
	}
	if ut.Progress != nil {
		t.Progress = *ut.Progress
	}
	if ut.DueDate != nil {
		t.DueDate = ut.DueDate
	}
	if ut.CourseID != nil {
		t.CourseID = *ut.CourseID
	}
	if ut.EstimatedHours != nil {
		t.EstimatedHours = *ut.EstimatedHours
	}
	if ut.ActualHours != nil {
		t.ActualHours = *ut.ActualHours
	}
	if ut.Reminders != nil {
		t.Reminders = append([]Reminder(nil), *ut.Reminders...)
	}
	if ut.Tags != nil {
		t.Tags = append([]string(nil), *ut.Tags...)
	}
	if ut.Notes != nil {
		t.Notes = *ut.Notes
	}
}

func resolve(t *Task, priorStatus, requested string, now time.Time) error {
	if requested == StatusCompleted {
		t.Progress = 100
	}
	if !core.ValidProgress(t.Progress) {
		return core.NewFieldError("progress", "progress must be between 0 and 100")
	}
	if priorStatus == StatusCompleted && (t.Progress < 100 || t.Status != StatusCompleted) {
		return core.NewFieldError("status", msgReopen)
	}
	if t.Status == "" {
		t.Status = StatusPending
	}

	switch {
	case t.Progress == 100:
		t.Status = StatusCompleted
	case t.DueDate != nil && t.DueDate.Before(now):
		t.Status = StatusOverdue
	case t.Status == StatusOverdue:
		// sticky
	case t.Progress > 0 && t.Status == StatusPending:
		t.Status = StatusInProgress
	}

	if t.Status == StatusCompleted && t.CompletedAt == nil {
		completedAt := now
		t.CompletedAt = &completedAt
	}
	t.UpdatedAt = now
	return nil
}
