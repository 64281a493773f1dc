package repository

import (
	"course_studio_backend/internal/model"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.AuthoringSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id string) (*model.AuthoringSession, error) {
	var s model.AuthoringSession
	err := r.DB.Where("id = ?", id).First(&s).Error
	return &s, err
}

func (r *SessionRepository) ListActiveByInstructor(instructorID uint) ([]model.AuthoringSession, error) {
	var sessions []model.AuthoringSession
	err := r.DB.
		Where("instructor_id = ? AND status = ?", instructorID, model.SessionActive).
		Order("last_saved_at desc").
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) Update(session *model.AuthoringSession) error {
	return r.DB.Save(session).Error
}

// SaveDraft applies a draft at exactly expectedRevision+1. The guard on the
// stored revision is what makes concurrent or replayed saves safe: a stale
// writer matches zero rows.
func (r *SessionRepository) SaveDraft(id string, expectedRevision int, draft json.RawMessage, mode model.EditorMode, expiresAt time.Time) (bool, error) {
	res := r.DB.Model(&model.AuthoringSession{}).
		Where("id = ? AND revision = ? AND status = ?", id, expectedRevision, model.SessionActive).
		Updates(map[string]interface{}{
			"revision":      expectedRevision + 1,
			"draft":         draft,
			"mode":          mode,
			"last_saved_at": time.Now(),
			"expires_at":    expiresAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *SessionRepository) MarkStatus(id string, status model.SessionStatus) error {
	return r.DB.Model(&model.AuthoringSession{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

// ExpireIdle flips active sessions that have gone quiet past their expiry.
func (r *SessionRepository) ExpireIdle(now time.Time) (int64, error) {
	res := r.DB.Model(&model.AuthoringSession{}).
		Where("status = ? AND expires_at <= ?", model.SessionActive, now).
		Update("status", model.SessionExpired)
	return res.RowsAffected, res.Error
}

// PurgeExpired deletes sessions that expired before the cutoff.
func (r *SessionRepository) PurgeExpired(cutoff time.Time) (int64, error) {
	res := r.DB.
		Where("status IN ? AND updated_at <= ?", []model.SessionStatus{model.SessionExpired, model.SessionAbandoned}, cutoff).
		Unscoped().
		Delete(&model.AuthoringSession{})
	return res.RowsAffected, res.Error
}
