// Package planner ranks open tasks by urgency and spreads the remaining work into study sessions.
package planner

import (
	"math"
	"sort"
	"time"

	"github.com/VenusCh001/studytracker/core/task"
)

const (
	day = 24 * time.Hour

	// SessionHours is the length of a planned study session.
	SessionHours = 2
	// DefaultEstimatedHours is assumed for tasks without an estimate.
	DefaultEstimatedHours = 5
	// MaxSessions caps the number of sessions a schedule returns.
	MaxSessions = 20

	SessionType = "study-session"
	NoCourse    = "N/A"
)

// Recommendations
const (
	RecommendStartNow     = "Start immediately"
	RecommendScheduleSoon = "Schedule soon"
	RecommendPlanAhead    = "Plan ahead"
)

var priorityWeights = map[string]float64{
	task.PriorityUrgent: 1.5,
	task.PriorityHigh:   1.2,
	task.PriorityMedium: 1.0,
	task.PriorityLow:    0.8,
}

type Ranked struct {
	Task           task.Task `json:"task"`
	Score          float64   `json:"score"`
	DaysUntilDue   *int      `json:"daysUntilDue"`
	Recommendation string    `json:"recommendation"`
}

type Session struct {
	TaskID   string    `json:"taskId"`
	Title    string    `json:"title"`
	Course   string    `json:"course"`
	Date     time.Time `json:"date"`
	Duration int       `json:"duration"` // hours
	Priority string    `json:"priority"`
	Type     string    `json:"type"`
}

type OptimalTime struct {
	TimeSlot string `json:"timeSlot"`
	Day      string `json:"day"`
	Reason   string `json:"reason"`
	Score    int    `json:"score"`
}

var optimalTimes = []OptimalTime{
	{TimeSlot: "09:00-11:00", Day: "Weekdays", Reason: "High cognitive performance in morning hours", Score: 95},
	{TimeSlot: "14:00-16:00", Day: "Weekdays", Reason: "Good focus after lunch break", Score: 85},
	{TimeSlot: "19:00-21:00", Day: "Weekdays", Reason: "Evening study session for review", Score: 80},
	{TimeSlot: "10:00-14:00", Day: "Weekends", Reason: "Extended focus periods available", Score: 90},
}

// OptimalTimes returns the recommended study time slots.
func OptimalTimes() []OptimalTime {
	res := make([]OptimalTime, len(optimalTimes))
	copy(res, optimalTimes)
	return res
}

// DaysUntilDue rounds the time left before `due` up to whole days.
func DaysUntilDue(due, now time.Time) int {
	return int(math.Ceil(float64(due.Sub(now)) / float64(day)))
}

func urgency(t task.Task, now time.Time) (base float64, days *int) {
	if t.DueDate == nil {
		return 30, nil
	}
	d := DaysUntilDue(*t.DueDate, now)
	switch {
	case d < 1:
		base = 100
	case d < 3:
		base = 90
	case d < 7:
		base = 70
	case d < 14:
		base = 50
	default:
		base = 30
	}
	return base, &d
}

func weight(priority string) float64 {
	if w, ok := priorityWeights[priority]; ok {
		return w
	}
	return 1
}

func recommend(base float64) string {
	switch {
	case base > 80:
		return RecommendStartNow
	case base > 50:
		return RecommendScheduleSoon
	default:
		return RecommendPlanAhead
	}
}

// Prioritize scores tasks by urgency times priority weight, highest first.
// Equal scores keep their input order.
func Prioritize(tasks []task.Task, now time.Time) []Ranked {
	ranked := make([]Ranked, 0, len(tasks))
	for _, t := range tasks {
		base, days := urgency(t, now)
		ranked = append(ranked, Ranked{
			Task:           t,
			Score:          base * weight(t.Priority),
			DaysUntilDue:   days,
			Recommendation: recommend(base),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Schedule splits every task with a due date into 2 hour sessions spread evenly
// between now and the due date, and returns the MaxSessions earliest ones.
// courseTitles resolves the task course references; unknown ones render as NoCourse.
func Schedule(tasks []task.Task, courseTitles map[string]string, now time.Time) []Session {
	sessions := make([]Session, 0)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		days := DaysUntilDue(*t.DueDate, now)
		if days < 0 {
			days = 0
		}
		hours := t.EstimatedHours
		if hours <= 0 {
			hours = DefaultEstimatedHours
		}
		needed := int(math.Ceil(hours / SessionHours))

		courseTitle, ok := courseTitles[t.CourseID]
		if !ok || t.CourseID == "" {
			courseTitle = NoCourse
		}
		for i := 0; i < needed; i++ {
			offset := int(math.Floor(float64(days) / float64(needed) * float64(i)))
			sessions = append(sessions, Session{
				TaskID:   t.ID,
				Title:    t.Title,
				Course:   courseTitle,
				Date:     now.AddDate(0, 0, offset),
				Duration: SessionHours,
				Priority: t.Priority,
				Type:     SessionType,
			})
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date.Before(sessions[j].Date)
	})
	if len(sessions) > MaxSessions {
		sessions = sessions[:MaxSessions]
	}
	return sessions
}
