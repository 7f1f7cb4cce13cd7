package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/query"
)

// Statuses
const (
	StatusNotStarted = "not-started"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusPaused     = "paused"
)

// Platforms
const (
	PlatformYoutube          = "youtube"
	PlatformUdemy            = "udemy"
	PlatformCoursera         = "coursera"
	PlatformEdx              = "edx"
	PlatformGeeksForGeeks    = "geeksforgeeks"
	PlatformKhanAcademy      = "khan-academy"
	PlatformLinkedInLearning = "linkedin-learning"
	PlatformCustom           = "custom"
	PlatformOther            = "other"
)

var (
	Statuses  = []string{StatusNotStarted, StatusInProgress, StatusCompleted, StatusPaused}
	Platforms = []string{
		PlatformYoutube, PlatformUdemy, PlatformCoursera, PlatformEdx, PlatformGeeksForGeeks,
		PlatformKhanAcademy, PlatformLinkedInLearning, PlatformCustom, PlatformOther,
	}

	// FilterRules are the query parameters accepted when listing courses.
	FilterRules = []query.Rule{
		query.Enum("status", Statuses...),
		query.Enum("platform", Platforms...),
		query.Tags("tags"),
	}
)

type Module struct {
	Title     string `json:"title" bson:"title" validate:"required,max=200"`
	Duration  int    `json:"duration" bson:"duration" validate:"min=0"` // minutes
	Completed bool   `json:"completed" bson:"completed"`
	Order     int    `json:"order" bson:"order"`
}

// Duration is expressed in minutes.
type Duration struct {
	Total     int `json:"total" bson:"total" validate:"min=0"`
	Completed int `json:"completed" bson:"completed" validate:"min=0"`
}

type Course struct {
	ID                   string     `json:"id" bson:"_id"`
	UserID               string     `json:"userId" bson:"userId"`
	Title                string     `json:"title" bson:"title"`
	Description          string     `json:"description,omitempty" bson:"description,omitempty"`
	Code                 string     `json:"code,omitempty" bson:"code,omitempty"`
	Platform             string     `json:"platform" bson:"platform"`
	URL                  string     `json:"url,omitempty" bson:"url,omitempty"`
	Instructor           string     `json:"instructor,omitempty" bson:"instructor,omitempty"`
	Credits              int        `json:"credits,omitempty" bson:"credits,omitempty"`
	Semester             string     `json:"semester,omitempty" bson:"semester,omitempty"`
	Color                string     `json:"color,omitempty" bson:"color,omitempty"`
	Duration             Duration   `json:"duration" bson:"duration"`
	Modules              []Module   `json:"modules" bson:"modules"`
	Progress             int        `json:"progress" bson:"progress"`
	Status               string     `json:"status" bson:"status"`
	StartDate            *time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	TargetCompletionDate *time.Time `json:"targetCompletionDate,omitempty" bson:"targetCompletionDate,omitempty"`
	CompletedAt          *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	Tags                 []string   `json:"tags" bson:"tags"`
	Notes                string     `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt            time.Time  `json:"createdAt" bson:"createdAt"` // UTC
	UpdatedAt            time.Time  `json:"updatedAt" bson:"updatedAt"` // UTC
}

func (c Course) DocID() string { return c.ID }

// IsActive reports whether the course is still being followed.
func (c Course) IsActive() bool {
	return c.Status == StatusNotStarted || c.Status == StatusInProgress
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title                string     `json:"title" validate:"required,max=200"`
	Description          string     `json:"description" validate:"max=2000"`
	Code                 string     `json:"code" validate:"omitempty,max=20"`
	Platform             string     `json:"platform" validate:"omitempty,oneof=youtube udemy coursera edx geeksforgeeks khan-academy linkedin-learning custom other"`
	URL                  string     `json:"url" validate:"omitempty,url"`
	Instructor           string     `json:"instructor" validate:"max=200"`
	Credits              int        `json:"credits" validate:"min=0,max=30"`
	Semester             string     `json:"semester" validate:"max=50"`
	Color                string     `json:"color" validate:"omitempty,hexcolor"`
	Duration             Duration   `json:"duration"`
	Modules              []Module   `json:"modules" validate:"omitempty,dive"`
	Progress             int        `json:"progress" validate:"progress"`
	Status               string     `json:"status" validate:"omitempty,oneof=not-started in-progress completed paused"`
	StartDate            *time.Time `json:"startDate"`
	TargetCompletionDate *time.Time `json:"targetCompletionDate"`
	Tags                 []string   `json:"tags" validate:"omitempty,taglist"`
	Notes                string     `json:"notes" validate:"max=5000"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Code = core.CleanString(nc.Code)
	nc.Platform = core.CleanString(nc.Platform, true /* lower */)
	return validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// nil fields are left untouched.
type UpdateCourse struct {
	Title                *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description          *string    `json:"description" validate:"omitempty,max=2000"`
	Code                 *string    `json:"code" validate:"omitempty,max=20"`
	Platform             *string    `json:"platform" validate:"omitempty,oneof=youtube udemy coursera edx geeksforgeeks khan-academy linkedin-learning custom other"`
	URL                  *string    `json:"url" validate:"omitempty,url"`
	Instructor           *string    `json:"instructor" validate:"omitempty,max=200"`
	Credits              *int       `json:"credits" validate:"omitempty,min=0,max=30"`
	Semester             *string    `json:"semester" validate:"omitempty,max=50"`
	Color                *string    `json:"color" validate:"omitempty,hexcolor"`
	Duration             *Duration  `json:"duration"`
	Modules              *[]Module  `json:"modules" validate:"omitempty,dive"`
	Progress             *int       `json:"progress" validate:"omitempty,progress"`
	Status               *string    `json:"status" validate:"omitempty,oneof=not-started in-progress completed paused"`
	StartDate            *time.Time `json:"startDate"`
	TargetCompletionDate *time.Time `json:"targetCompletionDate"`
	Tags                 *[]string  `json:"tags" validate:"omitempty,taglist"`
	Notes                *string    `json:"notes" validate:"omitempty,max=5000"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	if uc.Title != nil {
		title := core.CleanString(*uc.Title)
		uc.Title = &title
	}
	if uc.Code != nil {
		code := core.CleanString(*uc.Code)
		uc.Code = &code
	}
	return validate.Struct(uc)
}
