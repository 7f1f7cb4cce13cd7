package dashboard

import (
	"time"

	"github.com/VenusCh001/studytracker/core/progress"
	"github.com/VenusCh001/studytracker/core/task"
)

// DemoMessage is attached to every aggregate computed from the demo dataset.
const DemoMessage = "Demo mode: connect a database for full functionality"

// Fallback marks an aggregate that was computed from the demo dataset.
type Fallback struct {
	DemoMode bool   `json:"demoMode,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (f *Fallback) markDemo() {
	f.DemoMode = true
	f.Message = DemoMessage
}

type Overview struct {
	TotalCourses         int `json:"totalCourses"`
	ActiveCourses        int `json:"activeCourses"`
	TotalAssignments     int `json:"totalAssignments"`
	PendingAssignments   int `json:"pendingAssignments"`
	CompletedAssignments int `json:"completedAssignments"`
	OverdueAssignments   int `json:"overdueAssignments"`
	TotalProjects        int `json:"totalProjects"`
	ActiveProjects       int `json:"activeProjects"`
	LearningResources    int `json:"learningResources"`
	CompletedLearning    int `json:"completedLearning"`
	CompletionRate       int `json:"completionRate"`
}

// CourseProgress is the share of completed tasks linked to an active course.
type CourseProgress struct {
	CourseID   string `json:"courseId"`
	Course     string `json:"course"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// StatusCounts maps a status to the number of documents in it.
type StatusCounts map[string]int

type Breakdown struct {
	Courses  StatusCounts `json:"courses"`
	Tasks    StatusCounts `json:"tasks"`
	Projects StatusCounts `json:"projects"`
}

type Dashboard struct {
	Overview          Overview            `json:"overview"`
	ByStatus          Breakdown           `json:"byStatus"`
	UpcomingDeadlines []task.Task         `json:"upcomingDeadlines"`
	RecentActivity    []task.Task         `json:"recentActivity"`
	RecentProgress    []progress.Progress `json:"recentProgress"`
	ProgressByCourse  []CourseProgress    `json:"progressByCourse"`
	Timestamp         time.Time           `json:"timestamp"`
	Fallback
}

type TimeTracking struct {
	TotalPlannedHours float64 `json:"totalPlannedHours"`
	TotalActualHours  float64 `json:"totalActualHours"`
	Efficiency        int     `json:"efficiency"`
}

type PlatformProgress struct {
	Platform        string  `json:"platform"`
	AverageProgress float64 `json:"averageProgress"`
	Count           int     `json:"count"`
	Completed       int     `json:"completed"`
}

type Analytics struct {
	CompletedLast30Days int                `json:"completedLast30Days"`
	TimeTracking        TimeTracking       `json:"timeTracking"`
	LearningProgress    []PlatformProgress `json:"learningProgress"`
	Timestamp           time.Time          `json:"timestamp"`
	Fallback
}

type TaskStats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	InProgress     int `json:"inProgress"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completionRate"`
}

type CourseStats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	InProgress     int `json:"inProgress"`
	CompletionRate int `json:"completionRate"`
}

type StudyTime struct {
	Last30Days int `json:"last30Days"` // minutes
	Average    int `json:"average"`
}

type Stats struct {
	Tasks          TaskStats           `json:"tasks"`
	Courses        CourseStats         `json:"courses"`
	Streaks        progress.Streak     `json:"streaks"`
	StudyTime      StudyTime           `json:"studyTime"`
	RecentActivity []progress.Progress `json:"recentActivity"`
	Fallback
}
