package course

import (
	"time"

	"github.com/VenusCh001/studytracker/core"
)

// Derive merges the changes into prior and resolves the derived fields:
// progress from the modules ratio (when there are modules), the status and completedAt.
// It is deterministic for a given `now` and never overwrites a completedAt that is already set.
func Derive(prior Course, changes UpdateCourse, now time.Time) (Course, error) {
	c := prior
	changes.apply(&c)

	var requested string
	if changes.Status != nil {
		requested = *changes.Status
	}
	if err := resolve(&c, requested, now); err != nil {
		return Course{}, err
	}
	return c, nil
}

func (uc UpdateCourse) apply(c *Course) {
	if uc.Title != nil {
		c.Title = *uc.Title
	}
	if uc.Description != nil {
		c.Description = *uc.Description
	}
	if uc.Code != nil {
		c.Code = *uc.Code
	}
	if uc.Platform != nil {
		c.Platform = *uc.Platform
	}
	if uc.URL != nil {
		c.URL = *uc.URL
	}
	if uc.Instructor != nil {
		c.Instructor = *uc.Instructor
	}
	if uc.Credits != nil {
		c.Credits = *uc.Credits
	}
	if uc.Semester != nil {
		c.Semester = *uc.Semester
	}
	if uc.Color != nil {
		c.Color = *uc.Color
	}
	if uc.Duration != nil {
		c.Duration = *uc.Duration
	}
	if uc.Modules != nil {
		c.Modules = append([]Module(nil), *uc.Modules...)
	}
	if uc.Progress != nil {
		c.Progress = *uc.Progress
	}
	if uc.Status != nil {
		c.Status = *uc.Status
	}
	if uc.StartDate != nil {
		c.StartDate = uc.StartDate
	}
	if uc.TargetCompletionDate != nil {
		c.TargetCompletionDate = uc.TargetCompletionDate
	}
	if uc.Tags != nil {
		c.Tags = append([]string(nil), *uc.Tags...)
	}
	if uc.Notes != nil {
		c.Notes = *uc.Notes
	}
}

// resolve applies the derived-field rules in order: progress, status, completedAt, updatedAt.
// requested is the status explicitly asked for by the caller, if any.
func resolve(c *Course, requested string, now time.Time) error {
	if requested == StatusCompleted && len(c.Modules) == 0 {
		c.Progress = 100
	}
	if !core.ValidProgress(c.Progress) {
		return core.NewFieldError("progress", "progress must be between 0 and 100")
	}
	if c.Status == "" {
		c.Status = StatusNotStarted
	}

	if n := len(c.Modules); n > 0 {
		var done, doneMinutes int
		for _, m := range c.Modules {
			if m.Completed {
				done++
				doneMinutes += m.Duration
			}
		}
		c.Progress = core.Percent(done, n)
		c.Duration.Completed = doneMinutes
	}

	switch {
	case c.Progress == 100:
		c.Status = StatusCompleted
	case c.Status == StatusCompleted:
		// progress dropped below 100
		c.Status = StatusInProgress
	case c.Progress > 0 && c.Status == StatusNotStarted:
		c.Status = StatusInProgress
	}

	if c.Status == StatusCompleted && c.CompletedAt == nil {
		completedAt := now
		c.CompletedAt = &completedAt
	}
	c.UpdatedAt = now
	return nil
}
