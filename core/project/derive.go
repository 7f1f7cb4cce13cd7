package project

import (
	"time"

	"github.com/VenusCh001/studytracker/core"
)

// Derive merges the changes into prior. The status of a project is set by its owner, so only updatedAt is derived.
func Derive(prior Project, changes UpdateProject, now time.Time) (Project, error) {
	p := prior
	changes.apply(&p)
	if err := resolve(&p, now); err != nil {
		return Project{}, err
	}
	return p, nil
}

func (up UpdateProject) apply(p *Project) {
	if up.Title != nil {
		p.Title = *up.Title
	}
	if up.Description != nil {
		p.Description = *up.Description
	}
	if up.Type != nil {
		p.Type = *up.Type
	}
	if up.CourseID != nil {
		p.CourseID = *up.CourseID
	}
	if up.Status != nil {
		p.Status = *up.Status
	}
	if up.Progress != nil {
		p.Progress = *up.Progress
	}
	if up.StartDate != nil {
		p.StartDate = up.StartDate
	}
	if up.EndDate != nil {
		p.EndDate = up.EndDate
	}
	if up.Milestones != nil {
		p.Milestones = append([]Milestone(nil), *up.Milestones...)
	}
	if up.TeamMembers != nil {
		p.TeamMembers = append([]TeamMember(nil), *up.TeamMembers...)
	}
	if up.Tags != nil {
		p.Tags = append([]string(nil), *up.Tags...)
	}
	if up.Notes != nil {
		p.Notes = *up.Notes
	}
}

func resolve(p *Project, now time.Time) error {
	if !core.ValidProgress(p.Progress) {
		return core.NewFieldError("progress", "progress must be between 0 and 100")
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return core.NewFieldError("endDate", "endDate must not be before startDate")
	}
	if p.Status == "" {
		p.Status = StatusPlanning
	}
	p.UpdatedAt = now
	return nil
}
