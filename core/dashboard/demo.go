package dashboard

import (
	"time"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/course"
	"github.com/VenusCh001/studytracker/core/progress"
	"github.com/VenusCh001/studytracker/core/project"
	"github.com/VenusCh001/studytracker/core/resource"
	"github.com/VenusCh001/studytracker/core/task"
)

// DemoOwner owns every document of the demo dataset.
const DemoOwner = "demo-user"

// DemoDataset returns the fixed dataset served when no store is reachable.
// Dates are laid out relative to `now` so the deadlines stay meaningful.
func DemoDataset(now time.Time) Dataset {
	now = now.UTC()
	today := core.StartOfDay(now)
	day := func(n int) *time.Time {
		d := today.AddDate(0, 0, n)
		return &d
	}
	created := today.AddDate(0, -2, 0)

	courses := []course.Course{
		{
			ID: "1", UserID: DemoOwner, Code: "CS101", Title: "Introduction to Computer Science",
			Instructor: "Dr. Smith", Credits: 3, Semester: "Fall 2025", Color: "#3B82F6",
			Platform: course.PlatformCustom, Status: course.StatusInProgress, Progress: 40,
			Modules: []course.Module{}, Tags: []string{},
		},
		{
			ID: "2", UserID: DemoOwner, Code: "CS201", Title: "Data Structures and Algorithms",
			Instructor: "Dr. Johnson", Credits: 4, Semester: "Fall 2025", Color: "#10B981",
			Platform: course.PlatformCustom, Status: course.StatusInProgress, Progress: 55,
			Modules: []course.Module{}, Tags: []string{},
		},
		{
			ID: "3", UserID: DemoOwner, Code: "CS301", Title: "Web Development",
			Instructor: "Dr. Williams", Credits: 3, Semester: "Fall 2025", Color: "#F59E0B",
			Platform: course.PlatformCustom, Status: course.StatusInProgress, Progress: 10,
			Modules: []course.Module{}, Tags: []string{},
		},
	}

	tasks := []task.Task{
		{
			ID: "a1", Title: "Build a Calculator App", CourseID: "1", DueDate: day(12),
			Priority: task.PriorityHigh, Status: task.StatusInProgress, Progress: 60, EstimatedHours: 8,
		},
		{
			ID: "a2", Title: "Binary Search Tree Implementation", CourseID: "2", DueDate: day(7),
			Priority: task.PriorityUrgent, Status: task.StatusPending, Progress: 20, EstimatedHours: 12,
		},
		{
			ID: "a3", Title: "Portfolio Website", CourseID: "3", DueDate: day(17),
			Priority: task.PriorityMedium, Status: task.StatusPending, Progress: 10, EstimatedHours: 15,
		},
		{
			ID: "a4", Title: "Algorithm Analysis Paper", CourseID: "2", DueDate: day(-2),
			Priority: task.PriorityHigh, Status: task.StatusCompleted, Progress: 100,
			EstimatedHours: 6, ActualHours: 7, CompletedAt: day(-3),
		},
	}
	for i := range tasks {
		tasks[i].UserID = DemoOwner
		tasks[i].Type = task.TypeAssignment
		tasks[i].Reminders = []task.Reminder{}
		tasks[i].Tags = []string{}
		tasks[i].CreatedAt = created
		tasks[i].UpdatedAt = today.AddDate(0, 0, -i)
	}
	for i := range courses {
		courses[i].CreatedAt = created
		courses[i].UpdatedAt = created
	}

	projects := []project.Project{
		{
			ID: "p1", UserID: DemoOwner, Title: "Machine Learning Research",
			Description: "Research project on neural networks", Type: project.TypeResearch,
			Status: project.StatusInProgress, Progress: 45,
			StartDate: day(-60), EndDate: day(180),
			Milestones: []project.Milestone{}, TeamMembers: []project.TeamMember{}, Tags: []string{},
			CreatedAt: created, UpdatedAt: created,
		},
	}

	resources := []resource.Resource{
		{
			ID: "l1", UserID: DemoOwner, Title: "Python for Data Science", Platform: course.PlatformCoursera,
			Type: resource.TypeCourse, Category: resource.CategoryOther, Progress: 75,
			Tags: []string{}, CreatedAt: created, UpdatedAt: created,
		},
		{
			ID: "l2", UserID: DemoOwner, Title: "React Complete Guide", Platform: course.PlatformUdemy,
			Type: resource.TypeCourse, Category: resource.CategoryOther, Progress: 100, Completed: true,
			CompletedDate: day(-10), Tags: []string{}, CreatedAt: created, UpdatedAt: *day(-10),
		},
	}

	records := make([]progress.Progress, 0, 3)
	for i, minutes := range []int{90, 120, 45} {
		records = append(records, progress.Progress{
			ID:        "d" + string(rune('1'+i)),
			UserID:    DemoOwner,
			Date:      *day(-i),
			Metrics:   progress.Metrics{StudyTime: minutes},
			Streak:    progress.Streak{Current: 3 - i, Longest: 5},
			Mood:      progress.MoodGood,
			CreatedAt: *day(-i),
			UpdatedAt: *day(-i),
		})
	}

	return Dataset{
		Courses:   courses,
		Tasks:     tasks,
		Resources: resources,
		Projects:  projects,
		Progress:  records,
	}
}
