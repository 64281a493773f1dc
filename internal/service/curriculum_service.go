package service

import (
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/repository"
	"course_studio_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// CurriculumService owns the ordered module/lesson structure beneath a
// course.
type CurriculumService struct {
	CourseRepo *repository.CourseRepository
	ModuleRepo *repository.ModuleRepository
	LessonRepo *repository.LessonRepository
}

func NewCurriculumService(courseRepo *repository.CourseRepository, moduleRepo *repository.ModuleRepository, lessonRepo *repository.LessonRepository) *CurriculumService {
	return &CurriculumService{
		CourseRepo: courseRepo,
		ModuleRepo: moduleRepo,
		LessonRepo: lessonRepo,
	}
}

type ModuleRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Summary string `json:"summary"`
}

type LessonRequest struct {
	Title       string            `json:"title" binding:"required,max=255"`
	Type        model.LessonType  `json:"type" binding:"omitempty,oneof=video article quiz"`
	AccessLevel model.AccessLevel `json:"accessLevel" binding:"omitempty,oneof=guest registered premium"`
	Content     string            `json:"content"`
	VideoURL    string            `json:"videoUrl" binding:"max=255"`
	DurationSec int               `json:"durationSec"`
	FreePreview bool              `json:"freePreview"`
}

type ReorderRequest struct {
	OrderedIDs []uint `json:"orderedIds" binding:"required,min=1"`
}

type MoveLessonRequest struct {
	TargetModuleID uint `json:"targetModuleId" binding:"required"`
	Position       int  `json:"position" binding:"required,min=1"`
}

func (s *CurriculumService) ownedCourse(courseID, userID uint, role model.UserRole) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
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

func (s *CurriculumService) ownedModule(moduleID, userID uint, role model.UserRole) (*model.CourseModule, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedCourse(module.CourseID, userID, role); err != nil {
		return nil, err
	}
	return module, nil
}

// AddModule appends a module at the end of the course.
func (s *CurriculumService) AddModule(courseID, userID uint, role model.UserRole, req ModuleRequest) (*model.CourseModule, error) {
	if _, err := s.ownedCourse(courseID, userID, role); err != nil {
		return nil, err
	}
	order, err := s.ModuleRepo.NextOrder(courseID)
	if err != nil {
		return nil, err
	}
	module := &model.CourseModule{
		CourseID: courseID,
		Title:    req.Title,
		Summary:  req.Summary,
		Order:    order,
	}
	if err := s.ModuleRepo.Create(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *CurriculumService) UpdateModule(moduleID, userID uint, role model.UserRole, req ModuleRequest) (*model.CourseModule, error) {
	module, err := s.ownedModule(moduleID, userID, role)
	if err != nil {
		return nil, err
	}
	module.Title = req.Title
	module.Summary = req.Summary
	if err := s.ModuleRepo.Update(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *CurriculumService) DeleteModule(moduleID, userID uint, role model.UserRole) error {
	if _, err := s.ownedModule(moduleID, userID, role); err != nil {
		return err
	}
	return s.ModuleRepo.Delete(moduleID)
}

// ReorderModules persists a new module order. The ids must be exactly the
// course's current modules, otherwise the request is rejected and nothing
// changes.
func (s *CurriculumService) ReorderModules(courseID, userID uint, role model.UserRole, req ReorderRequest) ([]model.CourseModule, error) {
	if _, err := s.ownedCourse(courseID, userID, role); err != nil {
		return nil, err
	}
	existing, err := s.ModuleRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}
	if !isPermutation(req.OrderedIDs, existing) {
		return nil, util.ErrOrderMismatch
	}
	if err := s.ModuleRepo.Reorder(courseID, req.OrderedIDs); err != nil {
		return nil, err
	}
	return s.ModuleRepo.ListByCourse(courseID)
}

func isPermutation(ids []uint, modules []model.CourseModule) bool {
	if len(ids) != len(modules) {
		return false
	}
	seen := make(map[uint]bool, len(modules))
	for _, m := range modules {
		seen[m.ID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			return false
		}
		delete(seen, id)
	}
	return len(seen) == 0
}

// AddLesson appends a lesson at the end of the module.
func (s *CurriculumService) AddLesson(moduleID, userID uint, role model.UserRole, req LessonRequest) (*model.Lesson, error) {
	module, err := s.ownedModule(moduleID, userID, role)
	if err != nil {
		return nil, err
	}
	order, err := s.LessonRepo.NextOrder(moduleID)
	if err != nil {
		return nil, err
	}
	lesson := &model.Lesson{
		ModuleID:    moduleID,
		CourseID:    module.CourseID,
		Title:       req.Title,
		Type:        req.Type,
		AccessLevel: req.AccessLevel,
		Order:       order,
		Content:     req.Content,
		VideoURL:    req.VideoURL,
		DurationSec: req.DurationSec,
		FreePreview: req.FreePreview,
	}
	if lesson.Type == "" {
		lesson.Type = model.LessonArticle
	}
	if lesson.AccessLevel == "" {
		lesson.AccessLevel = model.AccessRegistered
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CurriculumService) ownedLesson(lessonID, userID uint, role model.UserRole) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedCourse(lesson.CourseID, userID, role); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CurriculumService) UpdateLesson(lessonID, userID uint, role model.UserRole, req LessonRequest) (*model.Lesson, error) {
	lesson, err := s.ownedLesson(lessonID, userID, role)
	if err != nil {
		return nil, err
	}
	lesson.Title = req.Title
	if req.Type != "" {
		lesson.Type = req.Type
	}
	if req.AccessLevel != "" {
		lesson.AccessLevel = req.AccessLevel
	}
	lesson.Content = req.Content
	lesson.VideoURL = req.VideoURL
	lesson.DurationSec = req.DurationSec
	lesson.FreePreview = req.FreePreview
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CurriculumService) DeleteLesson(lessonID, userID uint, role model.UserRole) error {
	if _, err := s.ownedLesson(lessonID, userID, role); err != nil {
		return err
	}
	return s.LessonRepo.Delete(lessonID)
}

// ReorderLessons mirrors ReorderModules within one module.
func (s *CurriculumService) ReorderLessons(moduleID, userID uint, role model.UserRole, req ReorderRequest) ([]model.Lesson, error) {
	if _, err := s.ownedModule(moduleID, userID, role); err != nil {
		return nil, err
	}
	existing, err := s.LessonRepo.ListByModule(moduleID)
	if err != nil {
		return nil, err
	}
	if !isLessonPermutation(req.OrderedIDs, existing) {
		return nil, util.ErrOrderMismatch
	}
	if err := s.LessonRepo.Reorder(moduleID, req.OrderedIDs); err != nil {
		return nil, err
	}
	return s.LessonRepo.ListByModule(moduleID)
}

func isLessonPermutation(ids []uint, lessons []model.Lesson) bool {
	if len(ids) != len(lessons) {
		return false
	}
	seen := make(map[uint]bool, len(lessons))
	for _, l := range lessons {
		seen[l.ID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			return false
		}
		delete(seen, id)
	}
	return len(seen) == 0
}

// MoveLesson reparents a lesson into another module of the same course.
func (s *CurriculumService) MoveLesson(lessonID, userID uint, role model.UserRole, req MoveLessonRequest) (*model.Lesson, error) {
	lesson, err := s.ownedLesson(lessonID, userID, role)
	if err != nil {
		return nil, err
	}
	target, err := s.ModuleRepo.FindByID(req.TargetModuleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}
	if target.CourseID != lesson.CourseID {
		return nil, util.ErrPermissionDenied
	}
	if err := s.LessonRepo.Move(lessonID, req.TargetModuleID, req.Position); err != nil {
		return nil, err
	}
	return s.LessonRepo.FindByID(lessonID)
}
