package service

import (
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/repository"
	"errors"

	"gorm.io/gorm"
)

type InstructorService struct {
	InstructorRepo *repository.InstructorRepository
	UserRepo       *repository.UserRepository
}

func NewInstructorService(instructorRepo *repository.InstructorRepository, userRepo *repository.UserRepository) *InstructorService {
	return &InstructorService{
		InstructorRepo: instructorRepo,
		UserRepo:       userRepo,
	}
}

type ProfileRequest struct {
	DisplayName string `json:"displayName" binding:"required,max=100"`
	Headline    string `json:"headline" binding:"max=255"`
	Bio         string `json:"bio"`
	Website     string `json:"website" binding:"omitempty,url,max=255"`
}

// GetProfile returns the instructor's profile, creating a bare one from
// the account name on first access.
func (s *InstructorService) GetProfile(userID uint) (*model.InstructorProfile, error) {
	profile, err := s.InstructorRepo.FindByUserID(userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	profile = &model.InstructorProfile{
		UserID:      userID,
		DisplayName: user.Name,
	}
	if err := s.InstructorRepo.Create(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *InstructorService) UpdateProfile(userID uint, req ProfileRequest) (*model.InstructorProfile, error) {
	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	profile.DisplayName = req.DisplayName
	profile.Headline = req.Headline
	profile.Bio = req.Bio
	profile.Website = req.Website
	if err := s.InstructorRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *InstructorService) UpdateAvatar(userID uint, url string) error {
	if _, err := s.GetProfile(userID); err != nil {
		return err
	}
	return s.InstructorRepo.UpdateAvatar(userID, url)
}
