package progress

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Moods
const (
	MoodExcellent = "excellent"
	MoodGood      = "good"
	MoodNeutral   = "neutral"
	MoodTired     = "tired"
	MoodStressed  = "stressed"
)

var Moods = []string{MoodExcellent, MoodGood, MoodNeutral, MoodTired, MoodStressed}

type Metrics struct {
	TasksCompleted   int `json:"tasksCompleted" bson:"tasksCompleted"`
	StudyTime        int `json:"studyTime" bson:"studyTime"` // minutes
	CoursesCompleted int `json:"coursesCompleted" bson:"coursesCompleted"`
	ModulesCompleted int `json:"modulesCompleted" bson:"modulesCompleted"`
}

type Streak struct {
	Current int `json:"current" bson:"current"`
	Longest int `json:"longest" bson:"longest"`
}

type Focus struct {
	PomodoroSessions int `json:"pomodoroSessions" bson:"pomodoroSessions"`
	TotalFocusTime   int `json:"totalFocusTime" bson:"totalFocusTime"` // minutes
}

// Progress holds the metrics of one user for one UTC day.
type Progress struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	Date      time.Time `json:"date" bson:"date"` // UTC midnight
	Metrics   Metrics   `json:"metrics" bson:"metrics"`
	Streak    Streak    `json:"streak" bson:"streak"`
	Focus     Focus     `json:"focus" bson:"focus"`
	Mood      string    `json:"mood" bson:"mood"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"` // UTC
}

func (p Progress) DocID() string { return p.ID }

type MetricsUpdate struct {
	TasksCompleted   *int `json:"tasksCompleted" validate:"omitempty,min=0"`
	StudyTime        *int `json:"studyTime" validate:"omitempty,min=0,max=1440"`
	CoursesCompleted *int `json:"coursesCompleted" validate:"omitempty,min=0"`
	ModulesCompleted *int `json:"modulesCompleted" validate:"omitempty,min=0"`
}

type StreakUpdate struct {
	Current *int `json:"current" validate:"omitempty,min=0"`
	Longest *int `json:"longest" validate:"omitempty,min=0"`
}

type FocusUpdate struct {
	PomodoroSessions *int `json:"pomodoroSessions" validate:"omitempty,min=0"`
	TotalFocusTime   *int `json:"totalFocusTime" validate:"omitempty,min=0,max=1440"`
}

// UpdateProgress is merged key by key into the record of the day.
type UpdateProgress struct {
	Metrics *MetricsUpdate `json:"metrics"`
	Streak  *StreakUpdate  `json:"streak"`
	Focus   *FocusUpdate   `json:"focus"`
	Mood    *string        `json:"mood" validate:"omitempty,oneof=excellent good neutral tired stressed"`
	Notes   *string        `json:"notes" validate:"omitempty,max=2000"`
}

func (up *UpdateProgress) Validate(validate *validator.Validate) error {
	return validate.Struct(up)
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func (up UpdateProgress) apply(p *Progress) {
	if m := up.Metrics; m != nil {
		setInt(&p.Metrics.TasksCompleted, m.TasksCompleted)
		setInt(&p.Metrics.StudyTime, m.StudyTime)
		setInt(&p.Metrics.CoursesCompleted, m.CoursesCompleted)
		setInt(&p.Metrics.ModulesCompleted, m.ModulesCompleted)
	}
	if s := up.Streak; s != nil {
		setInt(&p.Streak.Current, s.Current)
		setInt(&p.Streak.Longest, s.Longest)
	}
	if f := up.Focus; f != nil {
		setInt(&p.Focus.PomodoroSessions, f.PomodoroSessions)
		setInt(&p.Focus.TotalFocusTime, f.TotalFocusTime)
	}
	if up.Mood != nil && *up.Mood != "" {
		p.Mood = *up.Mood
	}
	if up.Notes != nil && *up.Notes != "" {
		p.Notes = *up.Notes
	}
}
