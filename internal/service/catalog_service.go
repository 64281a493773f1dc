package service

import (
	"context"
	"course_studio_backend/internal/config"
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/repository"
	"course_studio_backend/internal/util"
	"course_studio_backend/pkg/logger"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const catalogCacheKey = "catalog:page1"

// CatalogService is the read side for learners: published courses only,
// lesson content gated by the viewer's access level.
type CatalogService struct {
	CourseRepo       *repository.CourseRepository
	LessonRepo       *repository.LessonRepository
	SubscriptionRepo *repository.SubscriptionRepository
	Redis            *redis.Client
	Cfg              *config.Config
}

func NewCatalogService(courseRepo *repository.CourseRepository, lessonRepo *repository.LessonRepository, subscriptionRepo *repository.SubscriptionRepository, rdb *redis.Client, cfg *config.Config) *CatalogService {
	return &CatalogService{
		CourseRepo:       courseRepo,
		LessonRepo:       lessonRepo,
		SubscriptionRepo: subscriptionRepo,
		Redis:            rdb,
		Cfg:              cfg,
	}
}

type CatalogPage struct {
	List  []model.Course `json:"list"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ListPublished serves the catalog. Only the unfiltered first page goes
// through the cache; it is the page everyone hits.
func (s *CatalogService) ListPublished(category, search string, page, limit int) (*CatalogPage, error) {
	cacheable := s.Redis != nil && category == "" && search == "" && page == 1

	if cacheable {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if val, err := s.Redis.Get(ctx, catalogCacheKey).Result(); err == nil {
			var cached CatalogPage
			if err := json.Unmarshal([]byte(val), &cached); err == nil && cached.Limit == limit {
				return &cached, nil
			}
		}
	}

	courses, total, err := s.CourseRepo.ListPublished(category, search, page, limit)
	if err != nil {
		return nil, err
	}
	result := &CatalogPage{List: courses, Total: total, Page: page, Limit: limit}

	if cacheable {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if val, err := json.Marshal(result); err == nil {
			ttl := time.Duration(s.Cfg.Catalog.CacheTTLSeconds) * time.Second
			if err := s.Redis.Set(ctx, catalogCacheKey, val, ttl).Err(); err != nil {
				logger.Log.Warn("catalog cache store failed", zap.Error(err))
			}
		}
	}
	return result, nil
}

// GetPublishedCourse returns a published course with its curriculum.
// Content bodies are stripped; the overview only discloses structure.
func (s *CatalogService) GetPublishedCourse(slug string) (*model.Course, error) {
	course, err := s.CourseRepo.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	if course.Status != model.CoursePublished {
		return nil, util.ErrCourseNotFound
	}
	for i := range course.Modules {
		for j := range course.Modules[i].Lessons {
			course.Modules[i].Lessons[j].Content = ""
		}
	}
	return course, nil
}

// Viewer describes who is asking for lesson content. A nil viewer is a
// guest.
type Viewer struct {
	UserID uint
	Role   model.UserRole
}

// GetLessonContent enforces the access-level gate: guest lessons are open,
// registered lessons need a login, premium lessons need an active premium
// subscription. Free-preview lessons are always open. Instructors see their
// own course regardless.
func (s *CatalogService) GetLessonContent(slug string, lessonID uint, viewer *Viewer) (*model.Lesson, error) {
	course, err := s.CourseRepo.FindBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	owner := viewer != nil && (viewer.UserID == course.InstructorID || viewer.Role == model.Admin)
	if course.Status != model.CoursePublished && !owner {
		return nil, util.ErrCourseNotFound
	}

	lesson, err := s.LessonRepo.FindByID(lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && lesson.CourseID != course.ID) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}

	if owner || lesson.FreePreview {
		return lesson, nil
	}

	switch lesson.AccessLevel {
	case model.AccessGuest:
		return lesson, nil
	case model.AccessRegistered:
		if viewer == nil {
			return nil, util.ErrLoginRequired
		}
		return lesson, nil
	case model.AccessPremium:
		if viewer == nil {
			return nil, util.ErrLoginRequired
		}
		sub, err := s.SubscriptionRepo.FindActiveByUser(viewer.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPremiumRequired
		}
		if err != nil {
			return nil, err
		}
		if !sub.IsActivePremium(time.Now()) {
			return nil, util.ErrPremiumRequired
		}
		return lesson, nil
	}
	return nil, util.ErrPremiumRequired
}
