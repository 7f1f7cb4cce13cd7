package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/course"
	"github.com/VenusCh001/studytracker/core/progress"
	"github.com/VenusCh001/studytracker/core/task"
)

var now = time.Date(2025, 11, 20, 15, 30, 0, 0, time.UTC)

func taskIDs(ts []task.Task) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func TestComputeDashboard_completionRate(t *testing.T) {
	dash := ComputeDashboard(Dataset{}, now)
	assert.Equal(t, 0, dash.Overview.CompletionRate)
	assert.Empty(t, dash.UpcomingDeadlines)
	assert.NotNil(t, dash.ProgressByCourse)

	ds := Dataset{Tasks: []task.Task{
		{ID: "1", Status: task.StatusCompleted},
		{ID: "2", Status: task.StatusCompleted},
		{ID: "3", Status: task.StatusCompleted},
		{ID: "4", Status: task.StatusPending},
	}}
	dash = ComputeDashboard(ds, now)
	assert.Equal(t, 75, dash.Overview.CompletionRate)
	assert.Equal(t, 3, dash.ByStatus.Tasks[task.StatusCompleted])
	assert.Equal(t, 1, dash.ByStatus.Tasks[task.StatusPending])
}

func TestComputeDashboard_demo(t *testing.T) {
	dash := ComputeDashboard(DemoDataset(now), now)

	assert.Equal(t, Overview{
		TotalCourses:         3,
		ActiveCourses:        3,
		TotalAssignments:     4,
		PendingAssignments:   3,
		CompletedAssignments: 1,
		OverdueAssignments:   0,
		TotalProjects:        1,
		ActiveProjects:       1,
		LearningResources:    2,
		CompletedLearning:    1,
		CompletionRate:       25,
	}, dash.Overview)
	assert.Equal(t, []string{"a2", "a1", "a3"}, taskIDs(dash.UpcomingDeadlines))
	assert.Equal(t, []string{"a1", "a2", "a3", "a4"}, taskIDs(dash.RecentActivity))
	assert.Len(t, dash.RecentProgress, 3)
	assert.Equal(t, []CourseProgress{
		{CourseID: "1", Course: "Introduction to Computer Science", Completed: 0, Total: 1, Percentage: 0},
		{CourseID: "2", Course: "Data Structures and Algorithms", Completed: 1, Total: 2, Percentage: 50},
		{CourseID: "3", Course: "Web Development", Completed: 0, Total: 1, Percentage: 0},
	}, dash.ProgressByCourse)
	assert.True(t, now.Equal(dash.Timestamp))
	assert.False(t, dash.DemoMode)
}

func TestComputeDashboard_windows(t *testing.T) {
	due := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}
	var tasks []task.Task
	for i := 0; i < 7; i++ {
		tasks = append(tasks, task.Task{
			ID:        string(rune('a' + i)),
			Status:    task.StatusPending,
			DueDate:   due(time.Duration(7-i) * 24 * time.Hour),
			UpdatedAt: now.Add(-time.Duration(i) * 48 * time.Hour),
		})
	}
	// stored status is stale, the due date already passed
	tasks = append(tasks, task.Task{ID: "late", Status: task.StatusPending, DueDate: due(-time.Hour), UpdatedAt: now.AddDate(0, -1, 0)})
	tasks = append(tasks, task.Task{ID: "done", Status: task.StatusCompleted, DueDate: due(time.Hour), UpdatedAt: now.AddDate(0, -1, 0)})

	dash := ComputeDashboard(Dataset{
		Tasks:   tasks,
		Courses: []course.Course{{ID: "c", Status: course.StatusPaused}},
	}, now)

	assert.Equal(t, []string{"g", "f", "e", "d", "c"}, taskIDs(dash.UpcomingDeadlines))
	assert.Equal(t, []string{"a", "b", "c", "d"}, taskIDs(dash.RecentActivity))
	assert.Equal(t, 1, dash.Overview.OverdueAssignments)
	assert.Equal(t, 0, dash.Overview.ActiveCourses)
	assert.Empty(t, dash.ProgressByCourse)
}

func TestComputeAnalytics(t *testing.T) {
	an := ComputeAnalytics(DemoDataset(now), now)

	assert.Equal(t, 1, an.CompletedLast30Days)
	assert.Equal(t, TimeTracking{TotalPlannedHours: 6, TotalActualHours: 7, Efficiency: 86}, an.TimeTracking)
	assert.Equal(t, []PlatformProgress{
		{Platform: course.PlatformCoursera, AverageProgress: 75, Count: 1, Completed: 0},
		{Platform: course.PlatformUdemy, AverageProgress: 100, Count: 1, Completed: 1},
	}, an.LearningProgress)

	an = ComputeAnalytics(Dataset{}, now)
	assert.Equal(t, 100, an.TimeTracking.Efficiency)
	assert.NotNil(t, an.LearningProgress)
}

func TestEfficiency(t *testing.T) {
	tests := []struct {
		planned, actual float64
		want            int
	}{
		{0, 0, 100},
		{10, 0, 100},
		{0, 5, 100},
		{6, 7, 86},
		{10, 5, 200},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, efficiency(tc.planned, tc.actual), "efficiency(%v, %v)", tc.planned, tc.actual)
	}
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats(DemoDataset(now), now)

	assert.Equal(t, TaskStats{Total: 4, Completed: 1, InProgress: 1, Overdue: 0, CompletionRate: 25}, st.Tasks)
	assert.Equal(t, CourseStats{Total: 3, Completed: 0, InProgress: 3, CompletionRate: 0}, st.Courses)
	assert.Equal(t, progress.Streak{Current: 3, Longest: 5}, st.Streaks)
	assert.Equal(t, StudyTime{Last30Days: 255, Average: 85}, st.StudyTime)
	assert.Len(t, st.RecentActivity, 3)
}

func TestComputeStats_window(t *testing.T) {
	day := func(n int) time.Time { return time.Date(2025, 11, 20+n, 0, 0, 0, 0, time.UTC) }
	ds := Dataset{Progress: []progress.Progress{
		{ID: "old", Date: day(-45), Streak: progress.Streak{Current: 9, Longest: 40}, Metrics: progress.Metrics{StudyTime: 600}},
		{ID: "d2", Date: day(-2), Streak: progress.Streak{Current: 1, Longest: 4}, Metrics: progress.Metrics{StudyTime: 30}},
		{ID: "d1", Date: day(-1), Streak: progress.Streak{Current: 2, Longest: 4}, Metrics: progress.Metrics{StudyTime: 45}},
	}}

	st := ComputeStats(ds, now)
	assert.Equal(t, progress.Streak{Current: 2, Longest: 4}, st.Streaks)
	assert.Equal(t, StudyTime{Last30Days: 75, Average: 38}, st.StudyTime)
	if assert.Len(t, st.RecentActivity, 3) {
		assert.Equal(t, "d1", st.RecentActivity[0].ID)
		assert.Equal(t, "old", st.RecentActivity[2].ID)
	}

	st = ComputeStats(Dataset{}, now)
	assert.Equal(t, StudyTime{}, st.StudyTime)
	assert.Equal(t, progress.Streak{}, st.Streaks)
}

func TestComputeStats_windowBoundary(t *testing.T) {
	today := core.StartOfDay(now)
	day := func(n int) time.Time { return today.AddDate(0, 0, n) }

	var records []progress.Progress
	for n := 0; n > -31; n-- {
		records = append(records, progress.Progress{Date: day(n), Metrics: progress.Metrics{StudyTime: 10}})
	}
	records[30].Streak.Longest = 50 // day(-30)
	records[29].Streak.Longest = 7  // day(-29)

	st := ComputeStats(Dataset{Progress: records}, now)
	assert.Equal(t, StudyTime{Last30Days: 300, Average: 10}, st.StudyTime)
	assert.Equal(t, 7, st.Streaks.Longest)
}
