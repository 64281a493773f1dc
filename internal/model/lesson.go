package model

type LessonType string

const (
	LessonVideo   LessonType = "video"
	LessonArticle LessonType = "article"
	LessonQuiz    LessonType = "quiz"
)

// swagger:model Lesson
type Lesson struct {
	BaseModel
	ModuleID    uint        `gorm:"index;not null;uniqueIndex:idx_module_lesson_order" json:"moduleId"`
	CourseID    uint        `gorm:"index;not null" json:"courseId"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	Type        LessonType  `gorm:"size:20;default:'article'" json:"type"`
	AccessLevel AccessLevel `gorm:"size:20;default:'registered'" json:"accessLevel"`
	Order       int         `gorm:"not null;uniqueIndex:idx_module_lesson_order" json:"order"`
	Content     string      `gorm:"type:text" json:"content,omitempty"`
	VideoURL    string      `gorm:"size:255" json:"videoUrl,omitempty"`
	DurationSec int         `gorm:"default:0" json:"durationSec"`
	FreePreview bool        `gorm:"default:false" json:"freePreview"`
}

func (Lesson) TableName() string {
	return "lessons"
}
