package model

import (
	"time"
)

// swagger:model Assessment
type Assessment struct {
	BaseModel
	CourseID    uint                 `gorm:"index;not null" json:"courseId"`
	Title       string               `gorm:"size:255;not null" json:"title"`
	Description string               `gorm:"type:text" json:"description"`
	TimeLimit   int                  `gorm:"default:0" json:"timeLimit"` // Minutes
	IsPublished bool                 `gorm:"default:false" json:"isPublished"`
	PublishedAt *time.Time           `json:"publishedAt,omitempty"`
	Questions   []AssessmentQuestion `gorm:"foreignKey:AssessmentID" json:"questions,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

type QuestionType string

const (
	QuestionSingleChoice QuestionType = "single_choice"
	QuestionMultiChoice  QuestionType = "multi_choice"
	QuestionTrueFalse    QuestionType = "true_false"
	QuestionFreeText     QuestionType = "free_text"
)

type AssessmentQuestion struct {
	BaseModel
	AssessmentID uint           `gorm:"index;not null" json:"assessmentId"`
	QuestionType QuestionType   `gorm:"size:50;not null" json:"questionType"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	Points       int            `gorm:"default:1" json:"points"`
	Order        int            `gorm:"default:0" json:"order"`
	Explanation  string         `gorm:"type:text" json:"explanation"`
	Options      []AnswerOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (AssessmentQuestion) TableName() string {
	return "assessment_questions"
}

type AnswerOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Content    string `gorm:"type:text;not null" json:"content"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
	Order      int    `gorm:"default:0" json:"order"`
}

func (AnswerOption) TableName() string {
	return "answer_options"
}
