package service

import (
	"context"
	"course_studio_backend/internal/config"
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/repository"
	"course_studio_backend/internal/util"
	"course_studio_backend/pkg/logger"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
	ModuleRepo *repository.ModuleRepository
	Redis      *redis.Client
	Cfg        *config.Config
}

func NewCourseService(courseRepo *repository.CourseRepository, moduleRepo *repository.ModuleRepository, rdb *redis.Client, cfg *config.Config) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		ModuleRepo: moduleRepo,
		Redis:      rdb,
		Cfg:        cfg,
	}
}

type CourseRequest struct {
	Title          string `json:"title" binding:"required,max=255"`
	Subtitle       string `json:"subtitle" binding:"max=255"`
	Description    string `json:"description"`
	Category       string `json:"category" binding:"max=100"`
	Language       string `json:"language" binding:"max=10"`
	EstimatedHours int    `json:"estimatedHours"`
	CoverURL       string `json:"coverUrl" binding:"max=255"`
}

// TitleConflict carries suggested alternatives back with ErrTitleTaken.
type TitleConflict struct {
	Suggestions []string `json:"suggestions"`
}

// CreateCourse creates a draft course with a generated unique slug. A title
// the instructor already used is rejected together with free alternatives.
func (s *CourseService) CreateCourse(instructorID uint, req CourseRequest) (*model.Course, *TitleConflict, error) {
	taken, err := s.CourseRepo.TitleExists(instructorID, req.Title)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		suggestions := util.SuggestTitles(req.Title, 3, func(candidate string) bool {
			exists, err := s.CourseRepo.TitleExists(instructorID, candidate)
			return err == nil && exists
		})
		return nil, &TitleConflict{Suggestions: suggestions}, util.ErrTitleTaken
	}

	slug, err := s.uniqueSlug(req.Title)
	if err != nil {
		return nil, nil, err
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	course := &model.Course{
		Title:          req.Title,
		Slug:           slug,
		Subtitle:       req.Subtitle,
		Description:    req.Description,
		Category:       req.Category,
		Language:       language,
		Status:         model.CourseDraft,
		InstructorID:   instructorID,
		CoverURL:       req.CoverURL,
		EstimatedHours: req.EstimatedHours,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, nil, err
	}
	return course, nil, nil
}

func (s *CourseService) uniqueSlug(title string) (string, error) {
	base := util.Slugify(title)
	slug := base
	for n := 2; ; n++ {
		exists, err := s.CourseRepo.SlugExists(slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = util.SlugWithSuffix(base, n)
	}
}

// GetOwnedCourse loads a course and enforces ownership. Admins pass for any
// course.
func (s *CourseService) GetOwnedCourse(id, userID uint, role model.UserRole) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDFull(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	if course.InstructorID != userID && role != model.Admin {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}

func (s *CourseService) ListByInstructor(instructorID uint, status string, page, limit int) ([]model.Course, int64, error) {
	return s.CourseRepo.ListByInstructor(instructorID, status, page, limit)
}

// UpdateCourse updates course metadata. The slug is regenerated only when
// the title actually changes.
func (s *CourseService) UpdateCourse(id, userID uint, role model.UserRole, req CourseRequest) (*model.Course, *TitleConflict, error) {
	course, err := s.GetOwnedCourse(id, userID, role)
	if err != nil {
		return nil, nil, err
	}

	if req.Title != course.Title {
		taken, err := s.CourseRepo.TitleExists(course.InstructorID, req.Title)
		if err != nil {
			return nil, nil, err
		}
		if taken {
			suggestions := util.SuggestTitles(req.Title, 3, func(candidate string) bool {
				exists, err := s.CourseRepo.TitleExists(course.InstructorID, candidate)
				return err == nil && exists
			})
			return nil, &TitleConflict{Suggestions: suggestions}, util.ErrTitleTaken
		}
		slug, err := s.uniqueSlug(req.Title)
		if err != nil {
			return nil, nil, err
		}
		course.Title = req.Title
		course.Slug = slug
	}

	course.Subtitle = req.Subtitle
	course.Description = req.Description
	course.Category = req.Category
	if req.Language != "" {
		course.Language = req.Language
	}
	course.EstimatedHours = req.EstimatedHours
	if req.CoverURL != "" {
		course.CoverURL = req.CoverURL
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, nil, err
	}
	s.invalidateCatalogCache()
	return course, nil, nil
}

func (s *CourseService) DeleteCourse(id, userID uint, role model.UserRole) error {
	course, err := s.GetOwnedCourse(id, userID, role)
	if err != nil {
		return err
	}
	if err := s.CourseRepo.Delete(course.ID); err != nil {
		return err
	}
	s.invalidateCatalogCache()
	return nil
}

func (s *CourseService) Publish(id, userID uint, role model.UserRole) (*model.Course, error) {
	course, err := s.GetOwnedCourse(id, userID, role)
	if err != nil {
		return nil, err
	}
	if course.Status == model.CoursePublished {
		return nil, util.ErrAlreadyPublished
	}
	now := time.Now()
	course.Status = model.CoursePublished
	course.PublishedAt = &now
	course.ScheduledPublishAt = nil
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache()
	return course, nil
}

func (s *CourseService) Unpublish(id, userID uint, role model.UserRole) (*model.Course, error) {
	course, err := s.GetOwnedCourse(id, userID, role)
	if err != nil {
		return nil, err
	}
	if course.Status != model.CoursePublished {
		return nil, util.ErrNotPublished
	}
	course.Status = model.CourseDraft
	course.PublishedAt = nil
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache()
	return course, nil
}

func (s *CourseService) Archive(id, userID uint, role model.UserRole) (*model.Course, error) {
	course, err := s.GetOwnedCourse(id, userID, role)
	if err != nil {
		return nil, err
	}
	course.Status = model.CourseArchived
	course.ScheduledPublishAt = nil
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache()
	return course, nil
}

// SchedulePublish queues a draft for automatic publication.
func (s *CourseService) SchedulePublish(id, userID uint, role model.UserRole, at time.Time) (*model.Course, error) {
	course, err := s.GetOwnedCourse(id, userID, role)
	if err != nil {
		return nil, err
	}
	if course.Status == model.CoursePublished {
		return nil, util.ErrAlreadyPublished
	}
	course.ScheduledPublishAt = &at
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// ProcessScheduledPublishes publishes every due course. Driven by the
// background ticker.
func (s *CourseService) ProcessScheduledPublishes() error {
	courses, err := s.CourseRepo.FindDueScheduledPublishes(time.Now())
	if err != nil {
		return err
	}
	for i := range courses {
		course := &courses[i]
		now := time.Now()
		course.Status = model.CoursePublished
		course.PublishedAt = &now
		course.ScheduledPublishAt = nil
		if err := s.CourseRepo.Update(course); err != nil {
			logger.Log.Error("scheduled publish failed",
				zap.Uint("courseId", course.ID), zap.Error(err))
			continue
		}
	}
	if len(courses) > 0 {
		s.invalidateCatalogCache()
	}
	return nil
}

func (s *CourseService) invalidateCatalogCache() {
	if s.Redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Redis.Del(ctx, catalogCacheKey).Err(); err != nil && err != redis.Nil {
		logger.Log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
