package project

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/query"
)

// Types
const (
	TypeResearch      = "research"
	TypeCourseProject = "course-project"
	TypePersonal      = "personal"
	TypeGroup         = "group"
)

// Statuses
const (
	StatusPlanning   = "planning"
	StatusInProgress = "in-progress"
	StatusReview     = "review"
	StatusCompleted  = "completed"
	StatusOnHold     = "on-hold"
)

var (
	Types    = []string{TypeResearch, TypeCourseProject, TypePersonal, TypeGroup}
	Statuses = []string{StatusPlanning, StatusInProgress, StatusReview, StatusCompleted, StatusOnHold}

	FilterRules = []query.Rule{
		query.Enum("status", Statuses...),
		query.Enum("type", Types...),
		query.Tags("tags"),
	}
)

type Milestone struct {
	Title       string     `json:"title" bson:"title" validate:"required,max=200"`
	Description string     `json:"description,omitempty" bson:"description,omitempty" validate:"max=2000"`
	DueDate     *time.Time `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	Completed   bool       `json:"completed" bson:"completed"`
}

type TeamMember struct {
	Name  string `json:"name" bson:"name" validate:"required,max=100"`
	Role  string `json:"role,omitempty" bson:"role,omitempty" validate:"max=100"`
	Email string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
}

type Project struct {
	ID          string       `json:"id" bson:"_id"`
	UserID      string       `json:"userId" bson:"userId"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	Type        string       `json:"type" bson:"type"`
	CourseID    string       `json:"courseId,omitempty" bson:"courseId,omitempty"` // weak reference
	Status      string       `json:"status" bson:"status"`
	Progress    int          `json:"progress" bson:"progress"`
	StartDate   *time.Time   `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate     *time.Time   `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Milestones  []Milestone  `json:"milestones" bson:"milestones"`
	TeamMembers []TeamMember `json:"teamMembers" bson:"teamMembers"`
	Tags        []string     `json:"tags" bson:"tags"`
	Notes       string       `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt   time.Time    `json:"createdAt" bson:"createdAt"` // UTC
	UpdatedAt   time.Time    `json:"updatedAt" bson:"updatedAt"` // UTC
}

func (p Project) DocID() string { return p.ID }

type NewProject struct {
	Title       string       `json:"title" validate:"required,max=200"`
	Description string       `json:"description" validate:"max=5000"`
	Type        string       `json:"type" validate:"omitempty,oneof=research course-project personal group"`
	CourseID    string       `json:"courseId" validate:"max=64"`
	Status      string       `json:"status" validate:"omitempty,oneof=planning in-progress review completed on-hold"`
	Progress    int          `json:"progress" validate:"progress"`
	StartDate   *time.Time   `json:"startDate"`
	EndDate     *time.Time   `json:"endDate"`
	Milestones  []Milestone  `json:"milestones" validate:"omitempty,dive"`
	TeamMembers []TeamMember `json:"teamMembers" validate:"omitempty,dive"`
	Tags        []string     `json:"tags" validate:"omitempty,taglist"`
	Notes       string       `json:"notes" validate:"max=5000"`
}

func (np *NewProject) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	return validate.Struct(np)
}

type UpdateProject struct {
	Title       *string       `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string       `json:"description" validate:"omitempty,max=5000"`
	Type        *string       `json:"type" validate:"omitempty,oneof=research course-project personal group"`
	CourseID    *string       `json:"courseId" validate:"omitempty,max=64"`
	Status      *string       `json:"status" validate:"omitempty,oneof=planning in-progress review completed on-hold"`
	Progress    *int          `json:"progress" validate:"omitempty,progress"`
	StartDate   *time.Time    `json:"startDate"`
	EndDate     *time.Time    `json:"endDate"`
	Milestones  *[]Milestone  `json:"milestones" validate:"omitempty,dive"`
	TeamMembers *[]TeamMember `json:"teamMembers" validate:"omitempty,dive"`
	Tags        *[]string     `json:"tags" validate:"omitempty,taglist"`
	Notes       *string       `json:"notes" validate:"omitempty,max=5000"`
}

func (up *UpdateProject) Validate(validate *validator.Validate) error {
	if up.Title != nil {
		title := core.CleanString(*up.Title)
		up.Title = &title
	}
	return validate.Struct(up)
}
