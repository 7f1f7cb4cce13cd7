package task

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/query"
)

// Statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusOverdue    = "overdue"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Types
const (
	TypeAssignment   = "assignment"
	TypeResearch     = "research"
	TypeProject      = "project"
	TypeOnlineCourse = "online-course"
	TypeGeneral      = "general"
)

// Reminder channels
const (
	ReminderEmail        = "email"
	ReminderNotification = "notification"
)

var (
	Statuses   = []string{StatusPending, StatusInProgress, StatusCompleted, StatusOverdue}
	Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	Types      = []string{TypeAssignment, TypeResearch, TypeProject, TypeOnlineCourse, TypeGeneral}

	// FilterRules are the query parameters accepted when listing tasks.
	FilterRules = []query.Rule{
		query.Enum("status", Statuses...),
		query.Enum("priority", Priorities...),
		query.Enum("type", Types...),
		query.Tags("tags"),
	}
)

type Reminder struct {
	Date time.Time `json:"date" bson:"date" validate:"required"`
	Type string    `json:"type" bson:"type" validate:"omitempty,oneof=email notification"`
	Sent bool      `json:"sent" bson:"sent"`
}

type Task struct {
	ID             string     `json:"id" bson:"_id"`
	UserID         string     `json:"userId" bson:"userId"`
	Title          string     `json:"title" bson:"title"`
	Description    string     `json:"description,omitempty" bson:"description,omitempty"`
	Type           string     `json:"type" bson:"type"`
	Priority       string     `json:"priority" bson:"priority"`
	Status         string     `json:"status" bson:"status"`
	Progress       int        `json:"progress" bson:"progress"`
	DueDate        *time.Time `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	CourseID       string     `json:"courseId,omitempty" bson:"courseId,omitempty"` // weak reference
	EstimatedHours float64    `json:"estimatedHours,omitempty" bson:"estimatedHours,omitempty"`
	ActualHours    float64    `json:"actualHours,omitempty" bson:"actualHours,omitempty"`
	Reminders      []Reminder `json:"reminders" bson:"reminders"`
	Tags           []string   `json:"tags" bson:"tags"`
	Notes          string     `json:"notes,omitempty" bson:"notes,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"` // UTC
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt"` // UTC
}

func (t Task) DocID() string { return t.ID }

func (t Task) IsCompleted() bool { return t.Status == StatusCompleted }

// IsOpen reports whether work remains to be scheduled on the task.
func (t Task) IsOpen() bool {
	return t.Status == StatusPending || t.Status == StatusInProgress
}

// NewTask contains information needed to create a new Task.
type NewTask struct {
	Title          string     `json:"title" validate:"required,max=200"`
	Description    string     `json:"description" validate:"max=2000"`
	Type           string     `json:"type" validate:"omitempty,oneof=assignment research project online-course general"`
	Priority       string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Status         string     `json:"status" validate:"omitempty,oneof=pending in-progress completed overdue"`
	Progress       int        `json:"progress" validate:"progress"`
	DueDate        *time.Time `json:"dueDate"`
	CourseID       string     `json:"courseId" validate:"max=64"`
	EstimatedHours float64    `json:"estimatedHours" validate:"min=0,max=10000"`
	ActualHours    float64    `json:"actualHours" validate:"min=0,max=10000"`
	Reminders      []Reminder `json:"reminders" validate:"omitempty,max=20,dive"`
	Tags           []string   `json:"tags" validate:"omitempty,taglist"`
	Notes          string     `json:"notes" validate:"max=5000"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.CourseID = core.CleanString(nt.CourseID)
	return validate.Struct(nt)
}

// UpdateTask defines what information may be provided to modify an existing Task.
// nil fields are left untouched.
type UpdateTask struct {
	Title          *string     `json:"title" validate:"omitempty,min=1,max=200"`
	Description    *string     `json:"description" validate:"omitempty,max=2000"`
	Type           *string     `json:"type" validate:"omitempty,oneof=assignment research project online-course general"`
	Priority       *string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Status         *string     `json:"status" validate:"omitempty,oneof=pending in-progress completed overdue"`
	Progress       *int        `json:"progress" validate:"omitempty,progress"`
	DueDate        *time.Time  `json:"dueDate"`
	CourseID       *string     `json:"courseId" validate:"omitempty,max=64"`
	EstimatedHours *float64    `json:"estimatedHours" validate:"omitempty,min=0,max=10000"`
	ActualHours    *float64    `json:"actualHours" validate:"omitempty,min=0,max=10000"`
	Reminders      *[]Reminder `json:"reminders" validate:"omitempty,max=20,dive"`
	Tags           *[]string   `json:"tags" validate:"omitempty,taglist"`
	Notes          *string     `json:"notes" validate:"omitempty,max=5000"`
}

func (ut *UpdateTask) Validate(validate *validator.Validate) error {
	if ut.Title != nil {
		title := core.CleanString(*ut.Title)
		ut.Title = &title
	}
	return validate.Struct(ut)
}
