package repository

import (
	"course_studio_backend/internal/model"

	"gorm.io/gorm"
)

type InstructorRepository struct {
	DB *gorm.DB
}

func NewInstructorRepository(db *gorm.DB) *InstructorRepository {
	return &InstructorRepository{DB: db}
}

func (r *InstructorRepository) FindByUserID(userID uint) (*model.InstructorProfile, error) {
	var profile model.InstructorProfile
	err := r.DB.Where("user_id = ?", userID).First(&profile).Error
	return &profile, err
}

func (r *InstructorRepository) Create(profile *model.InstructorProfile) error {
	return r.DB.Create(profile).Error
}

func (r *InstructorRepository) Update(profile *model.InstructorProfile) error {
	return r.DB.Save(profile).Error
}

func (r *InstructorRepository) UpdateAvatar(userID uint, url string) error {
	return r.DB.Model(&model.InstructorProfile{}).
		Where("user_id = ?", userID).
		Update("avatar_url", url).
		Error
}
