package service

import (
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCourse(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)

	course, conflict, err := env.course.CreateCourse(instructor.ID, CourseRequest{Title: "Go Basics"})
	require.NoError(t, err)
	assert.Nil(t, conflict)
	assert.Equal(t, "go-basics", course.Slug)
	assert.Equal(t, model.CourseDraft, course.Status)
	assert.Equal(t, "en", course.Language)
	assert.Equal(t, instructor.ID, course.InstructorID)
}

func TestCreateCourseDuplicateTitle(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)

	_, _, err := env.course.CreateCourse(instructor.ID, CourseRequest{Title: "Go Basics"})
	require.NoError(t, err)

	_, conflict, err := env.course.CreateCourse(instructor.ID, CourseRequest{Title: "Go Basics"})
	assert.ErrorIs(t, err, util.ErrTitleTaken)
	require.NotNil(t, conflict)
	assert.Equal(t, []string{"Go Basics 2", "Go Basics 3", "Go Basics 4"}, conflict.Suggestions)
}

func TestCreateCourseSameTitleOtherInstructor(t *testing.T) {
	env := newTestEnv(t)
	first := seedUser(t, env.db, model.Instructor)
	second := seedUser(t, env.db, model.Instructor)

	a, _, err := env.course.CreateCourse(first.ID, CourseRequest{Title: "Go Basics"})
	require.NoError(t, err)
	assert.Equal(t, "go-basics", a.Slug)

	// Titles are only unique per instructor; the slug still has to differ.
	b, conflict, err := env.course.CreateCourse(second.ID, CourseRequest{Title: "Go Basics"})
	require.NoError(t, err)
	assert.Nil(t, conflict)
	assert.Equal(t, "go-basics-2", b.Slug)
}

func TestUpdateCourseKeepsSlugWhenTitleUnchanged(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course, _, err := env.course.CreateCourse(instructor.ID, CourseRequest{Title: "Go Basics"})
	require.NoError(t, err)

	updated, _, err := env.course.UpdateCourse(course.ID, instructor.ID, model.Instructor, CourseRequest{
		Title:       "Go Basics",
		Description: "reworked",
	})
	require.NoError(t, err)
	assert.Equal(t, "go-basics", updated.Slug)
	assert.Equal(t, "reworked", updated.Description)

	renamed, _, err := env.course.UpdateCourse(course.ID, instructor.ID, model.Instructor, CourseRequest{Title: "Advanced Go"})
	require.NoError(t, err)
	assert.Equal(t, "advanced-go", renamed.Slug)
}

func TestCourseOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env.db, model.Instructor)
	other := seedUser(t, env.db, model.Instructor)
	admin := seedUser(t, env.db, model.Admin)

	course, _, err := env.course.CreateCourse(owner.ID, CourseRequest{Title: "Go Basics"})
	require.NoError(t, err)

	_, err = env.course.GetOwnedCourse(course.ID, other.ID, model.Instructor)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = env.course.GetOwnedCourse(course.ID, admin.ID, model.Admin)
	assert.NoError(t, err)

	_, err = env.course.GetOwnedCourse(9999, owner.ID, model.Instructor)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestPublishLifecycle(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course, _, err := env.course.CreateCourse(instructor.ID, CourseRequest{Title: "Go Basics"})
	require.NoError(t, err)

	published, err := env.course.Publish(course.ID, instructor.ID, model.Instructor)
	require.NoError(t, err)
	assert.Equal(t, model.CoursePublished, published.Status)
	require.NotNil(t, published.PublishedAt)
	assert.Nil(t, published.ScheduledPublishAt)

	_, err = env.course.Publish(course.ID, instructor.ID, model.Instructor)
	assert.ErrorIs(t, err, util.ErrAlreadyPublished)

	unpublished, err := env.course.Unpublish(course.ID, instructor.ID, model.Instructor)
	require.NoError(t, err)
	assert.Equal(t, model.CourseDraft, unpublished.Status)
	assert.Nil(t, unpublished.PublishedAt)

	_, err = env.course.Unpublish(course.ID, instructor.ID, model.Instructor)
	assert.ErrorIs(t, err, util.ErrNotPublished)
}

func TestArchive(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course, _, err := env.course.CreateCourse(instructor.ID, CourseRequest{Title: "Go Basics"})
	require.NoError(t, err)

	archived, err := env.course.Archive(course.ID, instructor.ID, model.Instructor)
	require.NoError(t, err)
	assert.Equal(t, model.CourseArchived, archived.Status)
}

func TestSchedulePublish(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course, _, err := env.course.CreateCourse(instructor.ID, CourseRequest{Title: "Go Basics"})
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	scheduled, err := env.course.SchedulePublish(course.ID, instructor.ID, model.Instructor, past)
	require.NoError(t, err)
	require.NotNil(t, scheduled.ScheduledPublishAt)

	require.NoError(t, env.course.ProcessScheduledPublishes())

	refreshed, err := env.course.GetOwnedCourse(course.ID, instructor.ID, model.Instructor)
	require.NoError(t, err)
	assert.Equal(t, model.CoursePublished, refreshed.Status)
	assert.Nil(t, refreshed.ScheduledPublishAt)
	assert.NotNil(t, refreshed.PublishedAt)
}

func TestSchedulePublishRejectsPublished(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course, _, err := env.course.CreateCourse(instructor.ID, CourseRequest{Title: "Go Basics"})
	require.NoError(t, err)

	_, err = env.course.Publish(course.ID, instructor.ID, model.Instructor)
	require.NoError(t, err)

	_, err = env.course.SchedulePublish(course.ID, instructor.ID, model.Instructor, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, util.ErrAlreadyPublished)
}

func TestDeleteCourse(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course, _, err := env.course.CreateCourse(instructor.ID, CourseRequest{Title: "Go Basics"})
	require.NoError(t, err)

	require.NoError(t, env.course.DeleteCourse(course.ID, instructor.ID, model.Instructor))

	_, err = env.course.GetOwnedCourse(course.ID, instructor.ID, model.Instructor)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}
