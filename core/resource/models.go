package resource

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/course"
	"github.com/VenusCh001/studytracker/core/query"
)

// Types
const (
	TypeNote          = "note"
	TypeLink          = "link"
	TypeFile          = "file"
	TypeReference     = "reference"
	TypeDocument      = "document"
	TypeVideo         = "video"
	TypeCourse        = "course"
	TypeArticle       = "article"
	TypeTutorial      = "tutorial"
	TypeDocumentation = "documentation"
)

// Categories
const (
	CategoryLectureNotes    = "lecture-notes"
	CategoryReadingMaterial = "reading-material"
	CategoryVideo           = "video"
	CategoryArticle         = "article"
	CategoryBook            = "book"
	CategoryOther           = "other"
)

var (
	Types = []string{
		TypeNote, TypeLink, TypeFile, TypeReference, TypeDocument,
		TypeVideo, TypeCourse, TypeArticle, TypeTutorial, TypeDocumentation,
	}
	Categories = []string{
		CategoryLectureNotes, CategoryReadingMaterial, CategoryVideo, CategoryArticle, CategoryBook, CategoryOther,
	}

	FilterRules = []query.Rule{
		query.Enum("type", Types...),
		query.Enum("category", Categories...),
		query.Enum("platform", course.Platforms...),
		query.Tags("tags"),
	}
)

type FileInfo struct {
	Filename string `json:"filename,omitempty" bson:"filename,omitempty" validate:"max=255"`
	FileSize int64  `json:"fileSize,omitempty" bson:"fileSize,omitempty" validate:"min=0"`
	MimeType string `json:"mimeType,omitempty" bson:"mimeType,omitempty" validate:"max=100"`
	FileURL  string `json:"fileUrl,omitempty" bson:"fileUrl,omitempty" validate:"omitempty,url"`
}

type Resource struct {
	ID            string     `json:"id" bson:"_id"`
	UserID        string     `json:"userId" bson:"userId"`
	Title         string     `json:"title" bson:"title"`
	Description   string     `json:"description,omitempty" bson:"description,omitempty"`
	Type          string     `json:"type" bson:"type"`
	Category      string     `json:"category" bson:"category"`
	Platform      string     `json:"platform,omitempty" bson:"platform,omitempty"`
	Content       string     `json:"content,omitempty" bson:"content,omitempty"`
	URL           string     `json:"url,omitempty" bson:"url,omitempty"`
	FileInfo      *FileInfo  `json:"fileInfo,omitempty" bson:"fileInfo,omitempty"`
	Tags          []string   `json:"tags" bson:"tags"`
	RelatedCourse string     `json:"relatedCourse,omitempty" bson:"relatedCourse,omitempty"` // weak reference
	RelatedTask   string     `json:"relatedTask,omitempty" bson:"relatedTask,omitempty"`     // weak reference
	IsFavorite    bool       `json:"isFavorite" bson:"isFavorite"`
	Progress      int        `json:"progress" bson:"progress"`
	Completed     bool       `json:"completed" bson:"completed"`
	CompletedDate *time.Time `json:"completedDate,omitempty" bson:"completedDate,omitempty"`
	Rating        int        `json:"rating,omitempty" bson:"rating,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"` // UTC
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"` // UTC
}

func (r Resource) DocID() string { return r.ID }

type NewResource struct {
	Title         string    `json:"title" validate:"required,max=200"`
	Description   string    `json:"description" validate:"max=2000"`
	Type          string    `json:"type" validate:"omitempty,oneof=note link file reference document video course article tutorial documentation"`
	Category      string    `json:"category" validate:"omitempty,oneof=lecture-notes reading-material video article book other"`
	Platform      string    `json:"platform" validate:"omitempty,oneof=youtube udemy coursera edx geeksforgeeks khan-academy linkedin-learning custom other"`
	Content       string    `json:"content" validate:"max=50000"`
	URL           string    `json:"url" validate:"omitempty,url"`
	FileInfo      *FileInfo `json:"fileInfo"`
	Tags          []string  `json:"tags" validate:"omitempty,taglist"`
	RelatedCourse string    `json:"relatedCourse" validate:"max=64"`
	RelatedTask   string    `json:"relatedTask" validate:"max=64"`
	IsFavorite    bool      `json:"isFavorite"`
	Progress      int       `json:"progress" validate:"progress"`
	Completed     bool      `json:"completed"`
	Rating        int       `json:"rating" validate:"min=0,max=5"`
}

func (nr *NewResource) Validate(validate *validator.Validate) error {
	nr.Title = core.CleanString(nr.Title)
	nr.Platform = core.CleanString(nr.Platform, true /* lower */)
	return validate.Struct(nr)
}

// UpdateResource defines what information may be provided to modify an existing Resource.
type UpdateResource struct {
	Title         *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string   `json:"description" validate:"omitempty,max=2000"`
	Type          *string   `json:"type" validate:"omitempty,oneof=note link file reference document video course article tutorial documentation"`
	Category      *string   `json:"category" validate:"omitempty,oneof=lecture-notes reading-material video article book other"`
	Platform      *string   `json:"platform" validate:"omitempty,oneof=youtube udemy coursera edx geeksforgeeks khan-academy linkedin-learning custom other"`
	Content       *string   `json:"content" validate:"omitempty,max=50000"`
	URL           *string   `json:"url" validate:"omitempty,url"`
	FileInfo      *FileInfo `json:"fileInfo"`
	Tags          *[]string `json:"tags" validate:"omitempty,taglist"`
	RelatedCourse *string   `json:"relatedCourse" validate:"omitempty,max=64"`
	RelatedTask   *string   `json:"relatedTask" validate:"omitempty,max=64"`
	IsFavorite    *bool     `json:"isFavorite"`
	Progress      *int      `json:"progress" validate:"omitempty,progress"`
	Completed     *bool     `json:"completed"`
	Rating        *int      `json:"rating" validate:"omitempty,min=0,max=5"`
}

func (ur *UpdateResource) Validate(validate *validator.Validate) error {
	if ur.Title != nil {
		title := core.CleanString(*ur.Title)
		ur.Title = &title
	}
	return validate.Struct(ur)
}
