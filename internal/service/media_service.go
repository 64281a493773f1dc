package service

import (
	"context"
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/repository"
	"course_studio_backend/internal/util"
	"course_studio_backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MediaService handles cover image and lesson video uploads for courses the
// caller owns. Video uploads record their stage under a Redis key so the
// client can poll while a large file is staged, probed and pushed to storage.
type MediaService struct {
	CourseService *CourseService
	LessonRepo    *repository.LessonRepository
	Storage       *StorageService
	Redis         *redis.Client
}

func NewMediaService(courseService *CourseService, lessonRepo *repository.LessonRepository, storage *StorageService, rdb *redis.Client) *MediaService {
	return &MediaService{
		CourseService: courseService,
		LessonRepo:    lessonRepo,
		Storage:       storage,
		Redis:         rdb,
	}
}

// Video upload stages, in order.
const (
	UploadStageStaging = "staging"
	UploadStageProbing = "probing"
	UploadStageStoring = "storing"
	UploadStageDone    = "done"
	UploadStageFailed  = "failed"
)

// UploadProgress is the last recorded stage of a lesson's video upload.
type UploadProgress struct {
	Stage     string    `json:"stage"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func uploadProgressKey(lessonID uint) string {
	return fmt.Sprintf("upload:lesson:%d", lessonID)
}

func (s *MediaService) setProgress(lessonID uint, stage string) {
	if s.Redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	val, err := json.Marshal(&UploadProgress{Stage: stage, UpdatedAt: time.Now()})
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, uploadProgressKey(lessonID), val, time.Hour).Err(); err != nil {
		logger.Log.Warn("upload progress store failed",
			zap.Uint("lesson_id", lessonID), zap.Error(err))
	}
}

// Progress returns the lesson's last recorded upload stage.
func (s *MediaService) Progress(userID uint, role model.UserRole, lessonID uint) (*UploadProgress, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.CourseService.GetOwnedCourse(lesson.CourseID, userID, role); err != nil {
		return nil, err
	}
	if s.Redis == nil {
		return nil, util.ErrNoUploadInProgress
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	val, err := s.Redis.Get(ctx, uploadProgressKey(lessonID)).Result()
	if err == redis.Nil {
		return nil, util.ErrNoUploadInProgress
	}
	if err != nil {
		return nil, err
	}
	var p UploadProgress
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, util.ErrNoUploadInProgress
	}
	return &p, nil
}

// UploadCover stores a course cover image and records its URL on the course.
func (s *MediaService) UploadCover(userID uint, role model.UserRole, courseID uint, file *multipart.FileHeader) (string, error) {
	course, err := s.CourseService.GetOwnedCourse(courseID, userID, role)
	if err != nil {
		return "", err
	}

	if !util.HasAllowedExtension(file.Filename, util.AllowedImageExtensions) {
		return "", util.ErrUnsupportedMedia
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("covers/%d/%s%s", course.ID, uuid.New().String(), filepath.Ext(file.Filename))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	url, err := s.Storage.Upload(ctx, objectName, src, file.Size, mimeType)
	if err != nil {
		return "", err
	}

	course.CoverURL = url
	if err := s.CourseService.CourseRepo.Update(course); err != nil {
		return "", err
	}
	return url, nil
}

// UploadLessonVideo stores a lesson video. The file is staged on local disk
// first so ffprobe can read its duration, then pushed to the configured
// storage backend.
func (s *MediaService) UploadLessonVideo(userID uint, role model.UserRole, lessonID uint, file *multipart.FileHeader) (*util.VideoInfo, string, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", util.ErrLessonNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if _, err := s.CourseService.GetOwnedCourse(lesson.CourseID, userID, role); err != nil {
		return nil, "", err
	}
	if lesson.Type != model.LessonVideo {
		return nil, "", util.ErrNotVideoLesson
	}

	if !util.HasAllowedExtension(file.Filename, util.AllowedVideoExtensions) {
		return nil, "", util.ErrUnsupportedMedia
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeVideo, util.MimeOctetStream})
	if err != nil {
		return nil, "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, "", err
	}

	s.setProgress(lessonID, UploadStageStaging)

	tmp, err := os.CreateTemp("", "lesson-video-*"+filepath.Ext(file.Filename))
	if err != nil {
		s.setProgress(lessonID, UploadStageFailed)
		return nil, "", err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		s.setProgress(lessonID, UploadStageFailed)
		return nil, "", err
	}
	tmp.Close()

	s.setProgress(lessonID, UploadStageProbing)
	info, err := util.GetVideoInfo(tmpPath)
	if err != nil {
		// Probe failures should not block the upload; duration stays 0.
		logger.Log.Warn("video probe failed", zap.Uint("lesson_id", lessonID), zap.Error(err))
		info = &util.VideoInfo{Size: file.Size}
	}

	objectName := fmt.Sprintf("videos/%d/%s%s", lesson.CourseID, uuid.New().String(), filepath.Ext(file.Filename))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	s.setProgress(lessonID, UploadStageStoring)
	url, err := s.Storage.UploadFile(ctx, objectName, tmpPath, mimeType)
	if err != nil {
		s.setProgress(lessonID, UploadStageFailed)
		return nil, "", err
	}

	lesson.VideoURL = url
	lesson.DurationSec = int(info.Duration)
	if err := s.LessonRepo.Update(lesson); err != nil {
		s.setProgress(lessonID, UploadStageFailed)
		return nil, "", err
	}
	s.setProgress(lessonID, UploadStageDone)
	return info, url, nil
}
