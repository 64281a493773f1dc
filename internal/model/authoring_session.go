package model

import (
	"encoding/json"
	"time"
)

// EditorMode identifies which of the parallel authoring UIs produced a
// draft payload. All modes are normalized into one canonical draft shape
// before anything is stored.
type EditorMode string

const (
	ModeWizard      EditorMode = "wizard"
	ModeTraditional EditorMode = "traditional"
	ModeBuilder     EditorMode = "builder"
)

func (m EditorMode) Valid() bool {
	switch m {
	case ModeWizard, ModeTraditional, ModeBuilder:
		return true
	}
	return false
}

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionFinalized SessionStatus = "finalized"
	SessionAbandoned SessionStatus = "abandoned"
	SessionExpired   SessionStatus = "expired"
)

// AuthoringSession groups in-progress course-authoring state before the
// course is finalized. Draft holds the canonical draft JSON; Revision
// increases by exactly one per accepted save.
type AuthoringSession struct {
	UUIDBase
	InstructorID uint            `gorm:"index;not null" json:"instructorId"`
	CourseID     *uint           `gorm:"index" json:"courseId,omitempty"`
	Mode         EditorMode      `gorm:"size:20;not null" json:"mode"`
	Status       SessionStatus   `gorm:"size:20;default:'active';index" json:"status"`
	Revision     int             `gorm:"default:0" json:"revision"`
	Draft        json.RawMessage `gorm:"type:json" json:"-"`
	LastSavedAt  time.Time       `json:"lastSavedAt"`
	ExpiresAt    time.Time       `gorm:"index" json:"expiresAt"`
}

func (AuthoringSession) TableName() string {
	return "authoring_sessions"
}
