package model

import (
	"time"
)

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

// AccessLevel gates who may read a lesson's content.
type AccessLevel string

const (
	AccessGuest      AccessLevel = "guest"
	AccessRegistered AccessLevel = "registered"
	AccessPremium    AccessLevel = "premium"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title              string         `gorm:"size:255;not null" json:"title"`
	Slug               string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Subtitle           string         `gorm:"size:255" json:"subtitle"`
	Description        string         `gorm:"type:text" json:"description"`
	Category           string         `gorm:"size:100;index" json:"category"`
	Language           string         `gorm:"size:10;default:'en'" json:"language"`
	Status             CourseStatus   `gorm:"size:20;default:'draft';index" json:"status"`
	InstructorID       uint           `gorm:"index;not null" json:"instructorId"`
	CoverURL           string         `gorm:"size:255" json:"coverUrl"`
	EstimatedHours     int            `gorm:"default:0" json:"estimatedHours"`
	PublishedAt        *time.Time     `json:"publishedAt,omitempty"`
	ScheduledPublishAt *time.Time     `json:"scheduledPublishAt,omitempty"`
	Modules            []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseModule is an ordered section of a course. Order is 1-based and
// unique within its course.
type CourseModule struct {
	BaseModel
	CourseID uint     `gorm:"index;not null;uniqueIndex:idx_course_module_order" json:"courseId"`
	Title    string   `gorm:"size:255;not null" json:"title"`
	Summary  string   `gorm:"type:text" json:"summary"`
	Order    int      `gorm:"not null;uniqueIndex:idx_course_module_order" json:"order"`
	Lessons  []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}
