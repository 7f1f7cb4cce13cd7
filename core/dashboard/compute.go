package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/course"
	"github.com/VenusCh001/studytracker/core/progress"
	"github.com/VenusCh001/studytracker/core/project"
	"github.com/VenusCh001/studytracker/core/task"
)

const (
	upcomingLimit       = 5
	recentActivityLimit = 10
	recentProgressLimit = 7

	recentActivityWindow = 7 * 24 * time.Hour
	analyticsWindow      = 30 * 24 * time.Hour
	progressWindowDays   = 30
)

// isOverdue does not trust a stale stored status alone: an open task past its due date counts too.
func isOverdue(t task.Task, now time.Time) bool {
	if t.IsCompleted() {
		return false
	}
	return t.Status == task.StatusOverdue || (t.DueDate != nil && t.DueDate.Before(now))
}

// ComputeDashboard folds a dataset into the dashboard summary as seen at `now`.
func ComputeDashboard(ds Dataset, now time.Time) Dashboard {
	now = now.UTC()
	dash := Dashboard{
		ByStatus: Breakdown{
			Courses:  StatusCounts{},
			Tasks:    StatusCounts{},
			Projects: StatusCounts{},
		},
		UpcomingDeadlines: []task.Task{},
		RecentActivity:    []task.Task{},
		ProgressByCourse:  []CourseProgress{},
		Timestamp:         now,
	}
	ov := &dash.Overview

	ov.TotalCourses = len(ds.Courses)
	for _, c := range ds.Courses {
		dash.ByStatus.Courses[c.Status]++
		if c.IsActive() {
			ov.ActiveCourses++
		}
	}

	ov.TotalAssignments = len(ds.Tasks)
	for _, t := range ds.Tasks {
		dash.ByStatus.Tasks[t.Status]++
		switch {
		case t.IsCompleted():
			ov.CompletedAssignments++
		case t.IsOpen():
			ov.PendingAssignments++
		}
		if isOverdue(t, now) {
			ov.OverdueAssignments++
		}
	}
	ov.CompletionRate = core.Percent(ov.CompletedAssignments, ov.TotalAssignments)

	ov.TotalProjects = len(ds.Projects)
	for _, p := range ds.Projects {
		dash.ByStatus.Projects[p.Status]++
		if p.Status == project.StatusInProgress {
			ov.ActiveProjects++
		}
	}

	ov.LearningResources = len(ds.Resources)
	for _, r := range ds.Resources {
		if r.Completed {
			ov.CompletedLearning++
		}
	}

	for _, t := range ds.Tasks {
		if t.DueDate != nil && !t.DueDate.Before(now) && !t.IsCompleted() {
			dash.UpcomingDeadlines = append(dash.UpcomingDeadlines, t)
		}
	}
	sort.SliceStable(dash.UpcomingDeadlines, func(i, j int) bool {
		return dash.UpcomingDeadlines[i].DueDate.Before(*dash.UpcomingDeadlines[j].DueDate)
	})
	dash.UpcomingDeadlines = limit(dash.UpcomingDeadlines, upcomingLimit)

	since := now.Add(-recentActivityWindow)
	for _, t := range ds.Tasks {
		if !t.UpdatedAt.Before(since) {
			dash.RecentActivity = append(dash.RecentActivity, t)
		}
	}
	sort.SliceStable(dash.RecentActivity, func(i, j int) bool {
		return dash.RecentActivity[i].UpdatedAt.After(dash.RecentActivity[j].UpdatedAt)
	})
	dash.RecentActivity = limit(dash.RecentActivity, recentActivityLimit)

	dash.RecentProgress = limit(latestFirst(ds.Progress), recentProgressLimit)
	dash.ProgressByCourse = progressByCourse(ds.Courses, ds.Tasks)
	return dash
}

func progressByCourse(courses []course.Course, tasks []task.Task) []CourseProgress {
	res := make([]CourseProgress, 0, len(courses))
	for _, c := range courses {
		if !c.IsActive() {
			continue
		}
		cp := CourseProgress{CourseID: c.ID, Course: c.Title}
		for _, t := range tasks {
			if t.CourseID != c.ID {
				continue
			}
			cp.Total++
			if t.IsCompleted() {
				cp.Completed++
			}
		}
		cp.Percentage = core.Percent(cp.Completed, cp.Total)
		res = append(res, cp)
	}
	return res
}

// ComputeAnalytics returns the 30-day completion count, the time tracking summary
// and the learning progress per platform.
func ComputeAnalytics(ds Dataset, now time.Time) Analytics {
	now = now.UTC()
	an := Analytics{LearningProgress: []PlatformProgress{}, Timestamp: now}

	since := now.Add(-analyticsWindow)
	for _, t := range ds.Tasks {
		if !t.IsCompleted() {
			continue
		}
		doneAt := t.UpdatedAt
		if t.CompletedAt != nil {
			doneAt = *t.CompletedAt
		}
		if !doneAt.Before(since) {
			an.CompletedLast30Days++
		}
	}

	tt := &an.TimeTracking
	for _, t := range ds.Tasks {
		if t.ActualHours > 0 {
			tt.TotalPlannedHours += t.EstimatedHours
			tt.TotalActualHours += t.ActualHours
		}
	}
	tt.Efficiency = efficiency(tt.TotalPlannedHours, tt.TotalActualHours)

	byPlatform := make(map[string]*PlatformProgress)
	sum := make(map[string]int)
	for _, r := range ds.Resources {
		if r.Platform == "" {
			continue
		}
		pp, ok := byPlatform[r.Platform]
		if !ok {
			pp = &PlatformProgress{Platform: r.Platform}
			byPlatform[r.Platform] = pp
		}
		pp.Count++
		sum[r.Platform] += r.Progress
		if r.Completed {
			pp.Completed++
		}
	}
	for platform, pp := range byPlatform {
		pp.AverageProgress = math.Round(float64(sum[platform])/float64(pp.Count)*100) / 100
		an.LearningProgress = append(an.LearningProgress, *pp)
	}
	sort.Slice(an.LearningProgress, func(i, j int) bool {
		return an.LearningProgress[i].Platform < an.LearningProgress[j].Platform
	})
	return an
}

// efficiency is planned over actual hours as a rounded percentage; 100 when either side is empty.
func efficiency(planned, actual float64) int {
	if planned == 0 || actual == 0 {
		return 100
	}
	return int(math.Round(planned / actual * 100))
}

// ComputeStats returns the task and course counters plus the streak and study time
// read from the daily records of the last 30 days.
func ComputeStats(ds Dataset, now time.Time) Stats {
	now = now.UTC()
	var st Stats

	st.Tasks.Total = len(ds.Tasks)
	for _, t := range ds.Tasks {
		switch {
		case t.IsCompleted():
			st.Tasks.Completed++
		case t.Status == task.StatusInProgress:
			st.Tasks.InProgress++
		}
		if isOverdue(t, now) {
			st.Tasks.Overdue++
		}
	}
	st.Tasks.CompletionRate = core.Percent(st.Tasks.Completed, st.Tasks.Total)

	st.Courses.Total = len(ds.Courses)
	for _, c := range ds.Courses {
		switch c.Status {
		case course.StatusCompleted:
			st.Courses.Completed++
		case course.StatusInProgress:
			st.Courses.InProgress++
		}
	}
	st.Courses.CompletionRate = core.Percent(st.Courses.Completed, st.Courses.Total)

	records := latestFirst(ds.Progress)
	windowStart := core.StartOfDay(now).AddDate(0, 0, -(progressWindowDays - 1)) // today included
	var window []progress.Progress
	for _, p := range records {
		if !p.Date.Before(windowStart) {
			window = append(window, p)
		}
	}
	if len(window) > 0 {
		st.Streaks.Current = window[0].Streak.Current
		for _, p := range window {
			if p.Streak.Longest > st.Streaks.Longest {
				st.Streaks.Longest = p.Streak.Longest
			}
			st.StudyTime.Last30Days += p.Metrics.StudyTime
		}
		st.StudyTime.Average = int(math.Round(float64(st.StudyTime.Last30Days) / float64(len(window))))
	}

	st.RecentActivity = limit(records, recentProgressLimit)
	return st
}

// latestFirst returns a copy of records sorted by date, most recent first.
func latestFirst(records []progress.Progress) []progress.Progress {
	res := make([]progress.Progress, len(records))
	copy(res, records)
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Date.After(res[j].Date)
	})
	return res
}

func limit[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
