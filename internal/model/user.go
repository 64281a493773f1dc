package model

import (
	"time"
)

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"size:20;default:'student'" json:"role"`
	Language  string    `gorm:"size:10;default:'en'" json:"language"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `json:"lastLogin"`
	LastSeen  time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// InstructorProfile is the public face an instructor attaches to their account.
type InstructorProfile struct {
	BaseModel
	UserID      uint   `gorm:"uniqueIndex;not null" json:"userId"`
	DisplayName string `gorm:"size:100;not null" json:"displayName"`
	Headline    string `gorm:"size:255" json:"headline"`
	Bio         string `gorm:"type:text" json:"bio"`
	Website     string `gorm:"size:255" json:"website"`
	AvatarURL   string `gorm:"size:255" json:"avatarUrl"`
}

func (InstructorProfile) TableName() string {
	return "instructor_profiles"
}
