package service

import (
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/util"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftPayload(t *testing.T, draft *CourseDraft) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(draft)
	require.NoError(t, err)
	return raw
}

func TestStartSessionEmpty(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)

	view, err := env.draft.StartSession(instructor.ID, model.Instructor, StartSessionRequest{Mode: model.ModeWizard})
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, model.ModeWizard, view.Mode)
	assert.Equal(t, model.SessionActive, view.Status)
	assert.Equal(t, 0, view.Revision)
	assert.Nil(t, view.CourseID)
	assert.True(t, view.ExpiresAt.After(time.Now()))

	// The draft comes back rendered in the session's mode.
	var w struct {
		Steps json.RawMessage `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(view.Draft, &w))
	assert.NotNil(t, w.Steps)
}

func TestStartSessionSeededFromCourse(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")
	module, err := env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "Week 1"})
	require.NoError(t, err)
	lesson, err := env.curriculum.AddLesson(module.ID, instructor.ID, model.Instructor, LessonRequest{Title: "Kickoff"})
	require.NoError(t, err)

	view, err := env.draft.StartSession(instructor.ID, model.Instructor, StartSessionRequest{
		Mode:     model.ModeTraditional,
		CourseID: &course.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, view.CourseID)
	assert.Equal(t, course.ID, *view.CourseID)

	draft, err := NormalizeDraft(model.ModeTraditional, view.Draft)
	require.NoError(t, err)
	assert.Equal(t, "Go Basics", draft.Title)
	require.Len(t, draft.Modules, 1)
	assert.Equal(t, module.ID, draft.Modules[0].ModuleID)
	require.Len(t, draft.Modules[0].Lessons, 1)
	assert.Equal(t, lesson.ID, draft.Modules[0].Lessons[0].LessonID)
}

func TestStartSessionForeignCourse(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env.db, model.Instructor)
	other := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, owner.ID, "Go Basics")

	_, err := env.draft.StartSession(other.ID, model.Instructor, StartSessionRequest{
		Mode:     model.ModeTraditional,
		CourseID: &course.ID,
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestSaveDraftRevisions(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	view, err := env.draft.StartSession(instructor.ID, model.Instructor, StartSessionRequest{Mode: model.ModeTraditional})
	require.NoError(t, err)

	payload := draftPayload(t, &CourseDraft{Title: "First Save"})

	result, err := env.draft.SaveDraft(view.ID, instructor.ID, SaveDraftRequest{
		Mode:     model.ModeTraditional,
		Revision: 0,
		Draft:    payload,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Revision)

	// Replaying the old revision is rejected instead of clobbering.
	_, err = env.draft.SaveDraft(view.ID, instructor.ID, SaveDraftRequest{
		Mode:     model.ModeTraditional,
		Revision: 0,
		Draft:    payload,
	}, "")
	assert.ErrorIs(t, err, util.ErrStaleRevision)

	result, err = env.draft.SaveDraft(view.ID, instructor.ID, SaveDraftRequest{
		Mode:     model.ModeTraditional,
		Revision: 1,
		Draft:    draftPayload(t, &CourseDraft{Title: "Second Save"}),
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Revision)

	refreshed, err := env.draft.GetSession(view.ID, instructor.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, refreshed.Revision)
	draft, err := NormalizeDraft(model.ModeTraditional, refreshed.Draft)
	require.NoError(t, err)
	assert.Equal(t, "Second Save", draft.Title)
}

func TestSaveDraftCrossModeRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	view, err := env.draft.StartSession(instructor.ID, model.Instructor, StartSessionRequest{Mode: model.ModeWizard})
	require.NoError(t, err)

	// Save from the wizard, then read back through traditional: the canonical
	// draft is mode-agnostic.
	wizard := json.RawMessage(`{
		"steps": {
			"info": {"title": "Cross Mode"},
			"curriculum": {"sections": [{"tempId": "s-1", "title": "Only", "items": []}]},
			"settings": {}
		}
	}`)
	_, err = env.draft.SaveDraft(view.ID, instructor.ID, SaveDraftRequest{
		Mode:     model.ModeWizard,
		Revision: 0,
		Draft:    wizard,
	}, "")
	require.NoError(t, err)

	switched, err := env.draft.SwitchMode(view.ID, instructor.ID, SwitchModeRequest{Mode: model.ModeTraditional})
	require.NoError(t, err)
	assert.Equal(t, model.ModeTraditional, switched.Mode)
	// Switching modes re-renders without touching the draft.
	assert.Equal(t, 1, switched.Revision)

	draft, err := NormalizeDraft(model.ModeTraditional, switched.Draft)
	require.NoError(t, err)
	assert.Equal(t, "Cross Mode", draft.Title)
	require.Len(t, draft.Modules, 1)
	assert.Equal(t, "s-1", draft.Modules[0].TempID)
}

func TestAbandonedSessionRejectsSaves(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	view, err := env.draft.StartSession(instructor.ID, model.Instructor, StartSessionRequest{Mode: model.ModeTraditional})
	require.NoError(t, err)

	require.NoError(t, env.draft.Abandon(view.ID, instructor.ID))

	_, err = env.draft.SaveDraft(view.ID, instructor.ID, SaveDraftRequest{
		Mode:     model.ModeTraditional,
		Revision: 0,
		Draft:    draftPayload(t, &CourseDraft{Title: "Too Late"}),
	}, "")
	assert.ErrorIs(t, err, util.ErrSessionNotActive)

	err = env.draft.Abandon(view.ID, instructor.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotActive)
}

func TestSessionOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env.db, model.Instructor)
	other := seedUser(t, env.db, model.Instructor)
	view, err := env.draft.StartSession(owner.ID, model.Instructor, StartSessionRequest{Mode: model.ModeTraditional})
	require.NoError(t, err)

	_, err = env.draft.GetSession(view.ID, other.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = env.draft.GetSession("no-such-session", owner.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestFinalizeNewCourse(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	view, err := env.draft.StartSession(instructor.ID, model.Instructor, StartSessionRequest{Mode: model.ModeTraditional})
	require.NoError(t, err)

	draft := &CourseDraft{
		Title: "Brand New",
		Modules: []ModuleDraft{
			{TempID: "m-1", Title: "Intro", Lessons: []LessonDraft{
				{TempID: "l-1", Title: "One"},
				{TempID: "l-2", Title: "Two"},
			}},
			{TempID: "m-2", Title: "Outro", Lessons: []LessonDraft{
				{TempID: "l-3", Title: "Three"},
			}},
		},
	}
	_, err = env.draft.SaveDraft(view.ID, instructor.ID, SaveDraftRequest{
		Mode:     model.ModeTraditional,
		Revision: 0,
		Draft:    draftPayload(t, draft),
	}, "")
	require.NoError(t, err)

	result, _, err := env.draft.Finalize(view.ID, instructor.ID, model.Instructor)
	require.NoError(t, err)

	// Every temp ID is reconciled to a persisted row.
	require.Len(t, result.IDMap, 5)
	for _, tempID := range []string{"m-1", "m-2", "l-1", "l-2", "l-3"} {
		assert.NotZero(t, result.IDMap[tempID], tempID)
	}

	course, err := env.course.GetOwnedCourse(result.CourseID, instructor.ID, model.Instructor)
	require.NoError(t, err)
	assert.Equal(t, "Brand New", course.Title)
	assert.Equal(t, model.CourseDraft, course.Status)
	require.Len(t, course.Modules, 2)
	assert.Equal(t, result.IDMap["m-1"], course.Modules[0].ID)
	assert.Equal(t, 1, course.Modules[0].Order)
	require.Len(t, course.Modules[0].Lessons, 2)
	assert.Equal(t, result.IDMap["l-2"], course.Modules[0].Lessons[1].ID)
	assert.Equal(t, 2, course.Modules[0].Lessons[1].Order)

	session, err := env.sessions.FindByID(view.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionFinalized, session.Status)
	require.NotNil(t, session.CourseID)
	assert.Equal(t, result.CourseID, *session.CourseID)

	_, _, err = env.draft.Finalize(view.ID, instructor.ID, model.Instructor)
	assert.ErrorIs(t, err, util.ErrSessionNotActive)
}

func TestFinalizeEditReconciles(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")
	module, err := env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "Week 1"})
	require.NoError(t, err)
	kept, err := env.curriculum.AddLesson(module.ID, instructor.ID, model.Instructor, LessonRequest{Title: "Keep Me"})
	require.NoError(t, err)
	dropped, err := env.curriculum.AddLesson(module.ID, instructor.ID, model.Instructor, LessonRequest{Title: "Drop Me"})
	require.NoError(t, err)

	view, err := env.draft.StartSession(instructor.ID, model.Instructor, StartSessionRequest{
		Mode:     model.ModeTraditional,
		CourseID: &course.ID,
	})
	require.NoError(t, err)

	// Keep the module, rename the kept lesson, drop the other, add a new one.
	draft := &CourseDraft{
		Title: "Go Basics",
		Modules: []ModuleDraft{
			{TempID: "m-keep", ModuleID: module.ID, Title: "Week 1 Revised", Lessons: []LessonDraft{
				{TempID: "l-new", Title: "Brand New Lesson"},
				{TempID: "l-keep", LessonID: kept.ID, Title: "Kept and Renamed"},
			}},
		},
	}
	_, err = env.draft.SaveDraft(view.ID, instructor.ID, SaveDraftRequest{
		Mode:     model.ModeTraditional,
		Revision: 0,
		Draft:    draftPayload(t, draft),
	}, "")
	require.NoError(t, err)

	result, _, err := env.draft.Finalize(view.ID, instructor.ID, model.Instructor)
	require.NoError(t, err)
	assert.Equal(t, course.ID, result.CourseID)
	assert.Equal(t, module.ID, result.IDMap["m-keep"])
	assert.Equal(t, kept.ID, result.IDMap["l-keep"])
	assert.NotZero(t, result.IDMap["l-new"])

	refreshed, err := env.course.GetOwnedCourse(course.ID, instructor.ID, model.Instructor)
	require.NoError(t, err)
	require.Len(t, refreshed.Modules, 1)
	assert.Equal(t, "Week 1 Revised", refreshed.Modules[0].Title)
	require.Len(t, refreshed.Modules[0].Lessons, 2)
	assert.Equal(t, "Brand New Lesson", refreshed.Modules[0].Lessons[0].Title)
	assert.Equal(t, 1, refreshed.Modules[0].Lessons[0].Order)
	assert.Equal(t, "Kept and Renamed", refreshed.Modules[0].Lessons[1].Title)
	assert.Equal(t, kept.ID, refreshed.Modules[0].Lessons[1].ID)

	_, err = env.lessons.FindByID(dropped.ID)
	assert.Error(t, err)
}

func TestFinalizeRequiresTitle(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	view, err := env.draft.StartSession(instructor.ID, model.Instructor, StartSessionRequest{Mode: model.ModeTraditional})
	require.NoError(t, err)

	_, _, err = env.draft.Finalize(view.ID, instructor.ID, model.Instructor)
	require.Error(t, err)

	// The session stays active so the instructor can fix the draft.
	session, err := env.sessions.FindByID(view.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionActive, session.Status)
}

func TestFinalizeDuplicateTitle(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	seedCourse(t, env, instructor.ID, "Go Basics")

	view, err := env.draft.StartSession(instructor.ID, model.Instructor, StartSessionRequest{Mode: model.ModeTraditional})
	require.NoError(t, err)
	_, err = env.draft.SaveDraft(view.ID, instructor.ID, SaveDraftRequest{
		Mode:     model.ModeTraditional,
		Revision: 0,
		Draft:    draftPayload(t, &CourseDraft{Title: "Go Basics"}),
	}, "")
	require.NoError(t, err)

	// Finalizing under a title the instructor already uses is rejected the
	// same way the create endpoint rejects it.
	_, conflict, err := env.draft.Finalize(view.ID, instructor.ID, model.Instructor)
	assert.ErrorIs(t, err, util.ErrTitleTaken)
	require.NotNil(t, conflict)
	assert.Equal(t, []string{"Go Basics 2", "Go Basics 3", "Go Basics 4"}, conflict.Suggestions)

	var count int64
	require.NoError(t, env.db.Model(&model.Course{}).Where("title = ?", "Go Basics").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	session, err := env.sessions.FindByID(view.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionActive, session.Status)
}

func TestFinalizeEditKeepsOwnTitle(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")

	view, err := env.draft.StartSession(instructor.ID, model.Instructor, StartSessionRequest{
		Mode:     model.ModeTraditional,
		CourseID: &course.ID,
	})
	require.NoError(t, err)

	// Re-finalizing an edit session under the course's current title is not
	// a conflict with itself.
	result, conflict, err := env.draft.Finalize(view.ID, instructor.ID, model.Instructor)
	require.NoError(t, err)
	assert.Nil(t, conflict)
	assert.Equal(t, course.ID, result.CourseID)
}

func TestFinalizeFailureLeavesSessionActive(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	view, err := env.draft.StartSession(instructor.ID, model.Instructor, StartSessionRequest{Mode: model.ModeTraditional})
	require.NoError(t, err)

	// A lesson ID that belongs to no course makes materialization fail mid
	// transaction; everything rolls back, including the course row.
	draft := &CourseDraft{
		Title: "Doomed",
		Modules: []ModuleDraft{
			{TempID: "m-1", Title: "Intro", Lessons: []LessonDraft{
				{TempID: "l-ghost", LessonID: 9999, Title: "Ghost"},
			}},
		},
	}
	_, err = env.draft.SaveDraft(view.ID, instructor.ID, SaveDraftRequest{
		Mode:     model.ModeTraditional,
		Revision: 0,
		Draft:    draftPayload(t, draft),
	}, "")
	require.NoError(t, err)

	_, _, err = env.draft.Finalize(view.ID, instructor.ID, model.Instructor)
	require.Error(t, err)

	var count int64
	require.NoError(t, env.db.Model(&model.Course{}).Where("title = ?", "Doomed").Count(&count).Error)
	assert.Zero(t, count)

	session, err := env.sessions.FindByID(view.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionActive, session.Status)

	// The instructor can still retry once the draft is fixed.
	_, err = env.draft.SaveDraft(view.ID, instructor.ID, SaveDraftRequest{
		Mode:     model.ModeTraditional,
		Revision: 1,
		Draft:    draftPayload(t, &CourseDraft{Title: "Doomed"}),
	}, "")
	require.NoError(t, err)
	result, _, err := env.draft.Finalize(view.ID, instructor.ID, model.Instructor)
	require.NoError(t, err)
	assert.NotZero(t, result.CourseID)
}

func TestExpireIdleSessions(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	view, err := env.draft.StartSession(instructor.ID, model.Instructor, StartSessionRequest{Mode: model.ModeTraditional})
	require.NoError(t, err)

	// Backdate the expiry so the sweep picks it up.
	require.NoError(t, env.db.Model(&model.AuthoringSession{}).
		Where("id = ?", view.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	expired, purged, err := env.draft.ExpireIdleSessions()
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)
	assert.Zero(t, purged)

	session, err := env.sessions.FindByID(view.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionExpired, session.Status)

	active, err := env.draft.ListActive(instructor.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestPurgeLongExpiredSessions(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	view, err := env.draft.StartSession(instructor.ID, model.Instructor, StartSessionRequest{Mode: model.ModeTraditional})
	require.NoError(t, err)

	// Expired months ago: past the purge window, the row is deleted outright.
	require.NoError(t, env.db.Model(&model.AuthoringSession{}).
		Where("id = ?", view.ID).
		Updates(map[string]interface{}{
			"status":     model.SessionExpired,
			"updated_at": time.Now().AddDate(0, -2, 0),
		}).Error)

	expired, purged, err := env.draft.ExpireIdleSessions()
	require.NoError(t, err)
	assert.Zero(t, expired)
	assert.Equal(t, int64(1), purged)

	_, err = env.sessions.FindByID(view.ID)
	assert.Error(t, err)
}
