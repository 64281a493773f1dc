package service

import (
	"context"
	"course_studio_backend/internal/config"
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/repository"
	"course_studio_backend/internal/util"
	"course_studio_backend/pkg/logger"
	"course_studio_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DraftService manages authoring sessions: the temporary state grouping
// in-progress course edits across the three editor modes until the draft is
// finalized into real course rows.
type DraftService struct {
	SessionRepo *repository.SessionRepository
	CourseRepo  *repository.CourseRepository
	CourseSvc   *CourseService
	Redis       *redis.Client
	Cfg         *config.Config
	DB          *gorm.DB
}

func NewDraftService(sessionRepo *repository.SessionRepository, courseRepo *repository.CourseRepository, courseSvc *CourseService, rdb *redis.Client, cfg *config.Config, db *gorm.DB) *DraftService {
	return &DraftService{
		SessionRepo: sessionRepo,
		CourseRepo:  courseRepo,
		CourseSvc:   courseSvc,
		Redis:       rdb,
		Cfg:         cfg,
		DB:          db,
	}
}

type StartSessionRequest struct {
	Mode     model.EditorMode `json:"mode" binding:"required,oneof=wizard traditional builder"`
	CourseID *uint            `json:"courseId"`
}

type SessionView struct {
	ID          string              `json:"id"`
	Mode        model.EditorMode    `json:"mode"`
	Status      model.SessionStatus `json:"status"`
	Revision    int                 `json:"revision"`
	CourseID    *uint               `json:"courseId,omitempty"`
	Draft       json.RawMessage     `json:"draft"`
	LastSavedAt time.Time           `json:"lastSavedAt"`
	ExpiresAt   time.Time           `json:"expiresAt"`
}

func (s *DraftService) idleWindow() time.Duration {
	return time.Duration(s.Cfg.Authoring.SessionIdleHours) * time.Hour
}

// StartSession opens an authoring session. With a course id the draft is
// seeded from the saved curriculum, otherwise it starts empty.
func (s *DraftService) StartSession(instructorID uint, role model.UserRole, req StartSessionRequest) (*SessionView, error) {
	var draft *CourseDraft
	if req.CourseID != nil {
		course, err := s.CourseSvc.GetOwnedCourse(*req.CourseID, instructorID, role)
		if err != nil {
			return nil, err
		}
		draft = DraftFromCourse(course)
	} else {
		draft = &CourseDraft{Language: "en", Modules: []ModuleDraft{}}
	}

	canonical, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}

	session := &model.AuthoringSession{
		InstructorID: instructorID,
		CourseID:     req.CourseID,
		Mode:         req.Mode,
		Status:       model.SessionActive,
		Revision:     0,
		Draft:        canonical,
		LastSavedAt:  time.Now(),
		ExpiresAt:    time.Now().Add(s.idleWindow()),
	}
	if err := s.SessionRepo.Create(session); err != nil {
		return nil, err
	}
	return s.view(session)
}

func (s *DraftService) ownedSession(id string, instructorID uint) (*model.AuthoringSession, error) {
	session, err := s.SessionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if session.InstructorID != instructorID {
		return nil, util.ErrPermissionDenied
	}
	return session, nil
}

func (s *DraftService) GetSession(id string, instructorID uint) (*SessionView, error) {
	session, err := s.ownedSession(id, instructorID)
	if err != nil {
		return nil, err
	}
	return s.view(session)
}

func (s *DraftService) ListActive(instructorID uint) ([]model.AuthoringSession, error) {
	return s.SessionRepo.ListActiveByInstructor(instructorID)
}

// view renders the session with its draft in the session's editor mode.
func (s *DraftService) view(session *model.AuthoringSession) (*SessionView, error) {
	draft, err := NormalizeDraft(model.ModeTraditional, session.Draft)
	if err != nil {
		return nil, err
	}
	rendered, err := TransformForMode(draft, session.Mode)
	if err != nil {
		return nil, err
	}
	return &SessionView{
		ID:          session.ID,
		Mode:        session.Mode,
		Status:      session.Status,
		Revision:    session.Revision,
		CourseID:    session.CourseID,
		Draft:       rendered,
		LastSavedAt: session.LastSavedAt,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

type SaveDraftRequest struct {
	Mode     model.EditorMode `json:"mode" binding:"required,oneof=wizard traditional builder"`
	Revision int              `json:"revision"`
	Draft    json.RawMessage  `json:"draft" binding:"required"`
}

type SaveDraftResult struct {
	Revision    int       `json:"revision"`
	LastSavedAt time.Time `json:"lastSavedAt"`
	Replayed    bool      `json:"replayed,omitempty"`
}

// SaveDraft applies one auto-save. The revision in the request must match
// the stored one; a mismatch means the client lost a race and gets 409
// instead of silently clobbering newer work. An Idempotency-Key makes
// network-level retries of the same save return the original result rather
// than applying twice.
func (s *DraftService) SaveDraft(id string, instructorID uint, req SaveDraftRequest, idempotencyKey string) (*SaveDraftResult, error) {
	session, err := s.ownedSession(id, instructorID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionActive {
		return nil, util.ErrSessionNotActive
	}

	if idempotencyKey != "" {
		if result := s.replayResult(id, idempotencyKey); result != nil {
			monitoring.DraftSaveCounter.WithLabelValues("replayed").Inc()
			result.Replayed = true
			return result, nil
		}
	}

	draft, err := NormalizeDraft(req.Mode, req.Draft)
	if err != nil {
		return nil, err
	}
	canonical, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}

	ok, err := s.SessionRepo.SaveDraft(id, req.Revision, canonical, req.Mode, time.Now().Add(s.idleWindow()))
	if err != nil {
		return nil, err
	}
	if !ok {
		monitoring.DraftSaveCounter.WithLabelValues("stale").Inc()
		return nil, util.ErrStaleRevision
	}

	monitoring.DraftSaveCounter.WithLabelValues("accepted").Inc()
	result := &SaveDraftResult{
		Revision:    req.Revision + 1,
		LastSavedAt: time.Now(),
	}
	if idempotencyKey != "" {
		s.storeResult(id, idempotencyKey, result)
	}
	return result, nil
}

func autosaveKey(sessionID, idempotencyKey string) string {
	return fmt.Sprintf("autosave:%s:%s", sessionID, idempotencyKey)
}

func (s *DraftService) replayResult(sessionID, idempotencyKey string) *SaveDraftResult {
	if s.Redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	val, err := s.Redis.Get(ctx, autosaveKey(sessionID, idempotencyKey)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("idempotency lookup failed", zap.Error(err))
		}
		return nil
	}
	var result SaveDraftResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil
	}
	return &result
}

func (s *DraftService) storeResult(sessionID, idempotencyKey string, result *SaveDraftResult) {
	if s.Redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	val, err := json.Marshal(result)
	if err != nil {
		return
	}
	ttl := time.Duration(s.Cfg.Authoring.IdempotencyTTLHours) * time.Hour
	if err := s.Redis.Set(ctx, autosaveKey(sessionID, idempotencyKey), val, ttl).Err(); err != nil {
		logger.Log.Warn("idempotency store failed", zap.Error(err))
	}
}

type SwitchModeRequest struct {
	Mode model.EditorMode `json:"mode" binding:"required,oneof=wizard traditional builder"`
}

// SwitchMode re-renders the canonical draft in another editor mode. The
// draft itself is untouched, so no revision bump.
func (s *DraftService) SwitchMode(id string, instructorID uint, req SwitchModeRequest) (*SessionView, error) {
	session, err := s.ownedSession(id, instructorID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionActive {
		return nil, util.ErrSessionNotActive
	}
	session.Mode = req.Mode
	if err := s.SessionRepo.Update(session); err != nil {
		return nil, err
	}
	return s.view(session)
}

func (s *DraftService) Abandon(id string, instructorID uint) error {
	session, err := s.ownedSession(id, instructorID)
	if err != nil {
		return err
	}
	if session.Status != model.SessionActive {
		return util.ErrSessionNotActive
	}
	return s.SessionRepo.MarkStatus(id, model.SessionAbandoned)
}

type FinalizeResult struct {
	CourseID uint            `json:"courseId"`
	IDMap    map[string]uint `json:"idMap"` // temp ID → persisted ID
}

// Finalize materializes the draft into course/module/lesson rows in one
// transaction, flips the session to finalized in the same transaction, and
// returns the temp-ID map so every client-side reference can be reconciled
// at once. A failed finalize leaves the session active and writes nothing.
func (s *DraftService) Finalize(id string, instructorID uint, role model.UserRole) (*FinalizeResult, *TitleConflict, error) {
	session, err := s.ownedSession(id, instructorID)
	if err != nil {
		return nil, nil, err
	}
	if session.Status != model.SessionActive {
		return nil, nil, util.ErrSessionNotActive
	}

	draft, err := NormalizeDraft(model.ModeTraditional, session.Draft)
	if err != nil {
		return nil, nil, err
	}
	if draft.Title == "" {
		return nil, nil, errors.New("draft has no course title")
	}

	if conflict, err := s.checkDraftTitle(session, draft, instructorID); err != nil {
		return nil, conflict, err
	}

	idMap := make(map[string]uint)
	var courseID uint

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		course, err := s.materializeCourse(tx, session, draft, instructorID, role)
		if err != nil {
			return err
		}
		courseID = course.ID
		if err := s.materializeCurriculum(tx, course, draft, idMap); err != nil {
			return err
		}
		return tx.Model(&model.AuthoringSession{}).
			Where("id = ?", session.ID).
			Updates(map[string]interface{}{
				"status":    model.SessionFinalized,
				"course_id": courseID,
			}).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &FinalizeResult{CourseID: courseID, IDMap: idMap}, nil, nil
}

// checkDraftTitle applies the same per-instructor duplicate-title rule the
// create/update endpoints enforce, so a draft cannot finalize into a title
// those paths would have rejected.
func (s *DraftService) checkDraftTitle(session *model.AuthoringSession, draft *CourseDraft, instructorID uint) (*TitleConflict, error) {
	ownerID := instructorID
	if session.CourseID != nil {
		course, err := s.CourseRepo.FindByID(*session.CourseID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		if err != nil {
			return nil, err
		}
		if draft.Title == course.Title {
			return nil, nil
		}
		ownerID = course.InstructorID
	}

	taken, err := s.CourseRepo.TitleExists(ownerID, draft.Title)
	if err != nil {
		return nil, err
	}
	if taken {
		suggestions := util.SuggestTitles(draft.Title, 3, func(candidate string) bool {
			exists, err := s.CourseRepo.TitleExists(ownerID, candidate)
			return err == nil && exists
		})
		return &TitleConflict{Suggestions: suggestions}, util.ErrTitleTaken
	}
	return nil, nil
}

func (s *DraftService) materializeCourse(tx *gorm.DB, session *model.AuthoringSession, draft *CourseDraft, instructorID uint, role model.UserRole) (*model.Course, error) {
	if session.CourseID != nil {
		var course model.Course
		if err := tx.First(&course, *session.CourseID).Error; err != nil {
			return nil, err
		}
		if course.InstructorID != instructorID && role != model.Admin {
			return nil, util.ErrPermissionDenied
		}
		if draft.Title != course.Title {
			slug, err := s.uniqueSlugTx(tx, draft.Title)
			if err != nil {
				return nil, err
			}
			course.Title = draft.Title
			course.Slug = slug
		}
		course.Subtitle = draft.Subtitle
		course.Description = draft.Description
		course.Category = draft.Category
		course.Language = draft.Language
		course.EstimatedHours = draft.EstimatedHours
		course.CoverURL = draft.CoverURL
		if err := tx.Save(&course).Error; err != nil {
			return nil, err
		}
		return &course, nil
	}

	slug, err := s.uniqueSlugTx(tx, draft.Title)
	if err != nil {
		return nil, err
	}
	course := &model.Course{
		Title:          draft.Title,
		Slug:           slug,
		Subtitle:       draft.Subtitle,
		Description:    draft.Description,
		Category:       draft.Category,
		Language:       draft.Language,
		Status:         model.CourseDraft,
		InstructorID:   instructorID,
		EstimatedHours: draft.EstimatedHours,
		CoverURL:       draft.CoverURL,
	}
	if err := tx.Create(course).Error; err != nil {
		return nil, err
	}
	return course, nil
}

func (s *DraftService) uniqueSlugTx(tx *gorm.DB, title string) (string, error) {
	base := util.Slugify(title)
	slug := base
	for n := 2; ; n++ {
		var count int64
		if err := tx.Model(&model.Course{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = util.SlugWithSuffix(base, n)
	}
}

// materializeCurriculum reconciles the draft's modules and lessons against
// whatever the course currently has: rows the draft dropped are removed,
// referenced rows are updated in place, temp-only items become new rows.
// Orders are parked on negatives first so the unique indexes stay happy.
func (s *DraftService) materializeCurriculum(tx *gorm.DB, course *model.Course, draft *CourseDraft, idMap map[string]uint) error {
	keepModules := make([]uint, 0)
	keepLessons := make([]uint, 0)
	for _, m := range draft.Modules {
		if m.ModuleID != 0 {
			keepModules = append(keepModules, m.ModuleID)
		}
		for _, l := range m.Lessons {
			if l.LessonID != 0 {
				keepLessons = append(keepLessons, l.LessonID)
			}
		}
	}

	lessonDelete := tx.Where("course_id = ?", course.ID)
	if len(keepLessons) > 0 {
		lessonDelete = lessonDelete.Where("id NOT IN ?", keepLessons)
	}
	if err := lessonDelete.Unscoped().Delete(&model.Lesson{}).Error; err != nil {
		return err
	}

	moduleDelete := tx.Where("course_id = ?", course.ID)
	if len(keepModules) > 0 {
		moduleDelete = moduleDelete.Where("id NOT IN ?", keepModules)
	}
	if err := moduleDelete.Unscoped().Delete(&model.CourseModule{}).Error; err != nil {
		return err
	}

	if err := tx.Model(&model.CourseModule{}).
		Where("course_id = ?", course.ID).
		Update("order", gorm.Expr("-`order`")).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.Lesson{}).
		Where("course_id = ?", course.ID).
		Update("order", gorm.Expr("-`order`")).Error; err != nil {
		return err
	}

	for i, md := range draft.Modules {
		var moduleID uint
		if md.ModuleID != 0 {
			res := tx.Model(&model.CourseModule{}).
				Where("id = ? AND course_id = ?", md.ModuleID, course.ID).
				Updates(map[string]interface{}{
					"title":   md.Title,
					"summary": md.Summary,
					"order":   i + 1,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("draft references module %d not in course %d", md.ModuleID, course.ID)
			}
			moduleID = md.ModuleID
		} else {
			module := &model.CourseModule{
				CourseID: course.ID,
				Title:    md.Title,
				Summary:  md.Summary,
				Order:    i + 1,
			}
			if err := tx.Create(module).Error; err != nil {
				return err
			}
			moduleID = module.ID
		}
		idMap[md.TempID] = moduleID

		for j, ld := range md.Lessons {
			if ld.LessonID != 0 {
				res := tx.Model(&model.Lesson{}).
					Where("id = ? AND course_id = ?", ld.LessonID, course.ID).
					Updates(map[string]interface{}{
						"module_id":    moduleID,
						"title":        ld.Title,
						"type":         ld.Type,
						"access_level": ld.AccessLevel,
						"order":        j + 1,
						"content":      ld.Content,
						"video_url":    ld.VideoURL,
						"duration_sec": ld.DurationSec,
						"free_preview": ld.FreePreview,
					})
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return fmt.Errorf("draft references lesson %d not in course %d", ld.LessonID, course.ID)
				}
				idMap[ld.TempID] = ld.LessonID
			} else {
				lesson := &model.Lesson{
					ModuleID:    moduleID,
					CourseID:    course.ID,
					Title:       ld.Title,
					Type:        ld.Type,
					AccessLevel: ld.AccessLevel,
					Order:       j + 1,
					Content:     ld.Content,
					VideoURL:    ld.VideoURL,
					DurationSec: ld.DurationSec,
					FreePreview: ld.FreePreview,
				}
				if err := tx.Create(lesson).Error; err != nil {
					return err
				}
				idMap[ld.TempID] = lesson.ID
			}
		}
	}
	return nil
}

// ExpireIdleSessions flips idle sessions to expired and purges long-dead
// ones, returning both counts. Driven by the maintenance cron and the admin
// purge endpoint.
func (s *DraftService) ExpireIdleSessions() (int64, int64, error) {
	expired, err := s.SessionRepo.ExpireIdle(time.Now())
	if err != nil {
		return 0, 0, err
	}
	cutoff := time.Now().AddDate(0, 0, -s.Cfg.Authoring.PurgeAfterDays)
	purged, err := s.SessionRepo.PurgeExpired(cutoff)
	if err != nil {
		return expired, 0, err
	}
	if expired > 0 || purged > 0 {
		logger.Log.Info("authoring session maintenance",
			zap.Int64("expired", expired), zap.Int64("purged", purged))
	}
	return expired, purged, nil
}
