package resource

import (
	"time"

	"github.com/VenusCh001/studytracker/core"
)

// Derive merges the changes into prior and keeps `completed` in step with a full progress.
func Derive(prior Resource, changes UpdateResource, now time.Time) (Resource, error) {
	r := prior
	changes.apply(&r)

	markCompleted := changes.Completed != nil && *changes.Completed
	if err := resolve(&r, markCompleted, now); err != nil {
		return Resource{}, err
	}
	return r, nil
}

func (ur UpdateResource) apply(r *Resource) {
	if ur.Title != nil {
		r.Title = *ur.Title
	}
	if ur.Description != nil {
		r.Description = *ur.Description
	}
	if ur.Type != nil {
		r.Type = *ur.Type
	}
	if ur.Category != nil {
		r.Category = *ur.Category
	}
	if ur.Platform != nil {
		r.Platform = *ur.Platform
	}
	if ur.Content != nil {
		r.Content = *ur.Content
	}
	if ur.URL != nil {
		r.URL = *ur.URL
	}
	if ur.FileInfo != nil {
		info := *ur.FileInfo
		r.FileInfo = &info
	}
	if ur.Tags != nil {
		r.Tags = append([]string(nil), *ur.Tags...)
	}
	if ur.RelatedCourse != nil {
		r.RelatedCourse = *ur.RelatedCourse
	}
	if ur.RelatedTask != nil {
		r.RelatedTask = *ur.RelatedTask
	}
	if ur.IsFavorite != nil {
		r.IsFavorite = *ur.IsFavorite
	}
	if ur.Progress != nil {
		r.Progress = *ur.Progress
	}
	if ur.Rating != nil {
		r.Rating = *ur.Rating
	}
}

func resolve(r *Resource, markCompleted bool, now time.Time) error {
	if markCompleted {
		r.Progress = 100
	}
	if !core.ValidProgress(r.Progress) {
		return core.NewFieldError("progress", "progress must be between 0 and 100")
	}
	if r.Rating < 0 || r.Rating > 5 {
		return core.NewFieldError("rating", "rating must be between 0 and 5")
	}

	r.Completed = r.Progress == 100
	if r.Completed && r.CompletedDate == nil {
		completedDate := now
		r.CompletedDate = &completedDate
	}
	r.UpdatedAt = now
	return nil
}
