package service

import (
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoUploadProgressGating(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	other := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")
	module, err := env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "Week 1"})
	require.NoError(t, err)
	lesson, err := env.curriculum.AddLesson(module.ID, instructor.ID, model.Instructor, LessonRequest{
		Title: "Intro Video",
		Type:  model.LessonVideo,
	})
	require.NoError(t, err)

	media := NewMediaService(env.course, env.lessons, nil, nil)

	_, err = media.Progress(other.ID, model.Instructor, lesson.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = media.Progress(instructor.ID, model.Instructor, 9999)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)

	// No upload has run (and no Redis is wired), so there is nothing to report.
	_, err = media.Progress(instructor.ID, model.Instructor, lesson.ID)
	assert.ErrorIs(t, err, util.ErrNoUploadInProgress)
}
