package service

import (
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCourse(t *testing.T, env *testEnv, instructorID uint, title string) *model.Course {
	t.Helper()
	course, _, err := env.course.CreateCourse(instructorID, CourseRequest{Title: title})
	require.NoError(t, err)
	return course
}

func moduleOrders(t *testing.T, env *testEnv, courseID uint) map[uint]int {
	t.Helper()
	modules, err := env.modules.ListByCourse(courseID)
	require.NoError(t, err)
	orders := make(map[uint]int, len(modules))
	for _, m := range modules {
		orders[m.ID] = m.Order
	}
	return orders
}

func TestAddModuleAppends(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")

	first, err := env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "Week 1"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Order)

	second, err := env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "Week 2"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Order)
}

func TestReorderModules(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")

	var ids []uint
	for _, title := range []string{"A", "B", "C"} {
		m, err := env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: title})
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	reordered, err := env.curriculum.ReorderModules(course.ID, instructor.ID, model.Instructor, ReorderRequest{
		OrderedIDs: []uint{ids[2], ids[0], ids[1]},
	})
	require.NoError(t, err)
	require.Len(t, reordered, 3)
	assert.Equal(t, ids[2], reordered[0].ID)
	assert.Equal(t, ids[0], reordered[1].ID)
	assert.Equal(t, ids[1], reordered[2].ID)
	assert.Equal(t, []int{1, 2, 3}, []int{reordered[0].Order, reordered[1].Order, reordered[2].Order})
}

func TestReorderModulesRejectsPartialList(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")

	a, err := env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "A"})
	require.NoError(t, err)
	_, err = env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "B"})
	require.NoError(t, err)

	_, err = env.curriculum.ReorderModules(course.ID, instructor.ID, model.Instructor, ReorderRequest{
		OrderedIDs: []uint{a.ID},
	})
	assert.ErrorIs(t, err, util.ErrOrderMismatch)

	_, err = env.curriculum.ReorderModules(course.ID, instructor.ID, model.Instructor, ReorderRequest{
		OrderedIDs: []uint{a.ID, 9999},
	})
	assert.ErrorIs(t, err, util.ErrOrderMismatch)

	// Nothing moved.
	orders := moduleOrders(t, env, course.ID)
	assert.Equal(t, 1, orders[a.ID])
}

func TestDeleteModuleClosesGap(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")

	a, err := env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "A"})
	require.NoError(t, err)
	b, err := env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "B"})
	require.NoError(t, err)
	c, err := env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "C"})
	require.NoError(t, err)

	require.NoError(t, env.curriculum.DeleteModule(b.ID, instructor.ID, model.Instructor))

	orders := moduleOrders(t, env, course.ID)
	assert.Equal(t, 1, orders[a.ID])
	assert.Equal(t, 2, orders[c.ID])
}

func TestAddLessonDefaults(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")
	module, err := env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "Week 1"})
	require.NoError(t, err)

	lesson, err := env.curriculum.AddLesson(module.ID, instructor.ID, model.Instructor, LessonRequest{Title: "Kickoff"})
	require.NoError(t, err)
	assert.Equal(t, 1, lesson.Order)
	assert.Equal(t, model.LessonArticle, lesson.Type)
	assert.Equal(t, model.AccessRegistered, lesson.AccessLevel)
	assert.Equal(t, course.ID, lesson.CourseID)
}

func TestReorderLessons(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")
	module, err := env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "Week 1"})
	require.NoError(t, err)

	var ids []uint
	for _, title := range []string{"L1", "L2", "L3"} {
		l, err := env.curriculum.AddLesson(module.ID, instructor.ID, model.Instructor, LessonRequest{Title: title})
		require.NoError(t, err)
		ids = append(ids, l.ID)
	}

	reordered, err := env.curriculum.ReorderLessons(module.ID, instructor.ID, model.Instructor, ReorderRequest{
		OrderedIDs: []uint{ids[1], ids[2], ids[0]},
	})
	require.NoError(t, err)
	require.Len(t, reordered, 3)
	assert.Equal(t, ids[1], reordered[0].ID)
	assert.Equal(t, ids[2], reordered[1].ID)
	assert.Equal(t, ids[0], reordered[2].ID)
}

func TestMoveLessonAcrossModules(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")

	source, err := env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "Source"})
	require.NoError(t, err)
	target, err := env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "Target"})
	require.NoError(t, err)

	var sourceLessons []uint
	for _, title := range []string{"S1", "S2", "S3"} {
		l, err := env.curriculum.AddLesson(source.ID, instructor.ID, model.Instructor, LessonRequest{Title: title})
		require.NoError(t, err)
		sourceLessons = append(sourceLessons, l.ID)
	}
	t1, err := env.curriculum.AddLesson(target.ID, instructor.ID, model.Instructor, LessonRequest{Title: "T1"})
	require.NoError(t, err)

	moved, err := env.curriculum.MoveLesson(sourceLessons[1], instructor.ID, model.Instructor, MoveLessonRequest{
		TargetModuleID: target.ID,
		Position:       1,
	})
	require.NoError(t, err)
	assert.Equal(t, target.ID, moved.ModuleID)
	assert.Equal(t, 1, moved.Order)

	remaining, err := env.lessons.ListByModule(source.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, sourceLessons[0], remaining[0].ID)
	assert.Equal(t, 1, remaining[0].Order)
	assert.Equal(t, sourceLessons[2], remaining[1].ID)
	assert.Equal(t, 2, remaining[1].Order)

	targetList, err := env.lessons.ListByModule(target.ID)
	require.NoError(t, err)
	require.Len(t, targetList, 2)
	assert.Equal(t, t1.ID, targetList[1].ID)
	assert.Equal(t, 2, targetList[1].Order)
}

func TestMoveLessonIntoForeignCourse(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")
	otherCourse := seedCourse(t, env, instructor.ID, "Rust Basics")

	module, err := env.curriculum.AddModule(course.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "M"})
	require.NoError(t, err)
	foreign, err := env.curriculum.AddModule(otherCourse.ID, instructor.ID, model.Instructor, ModuleRequest{Title: "F"})
	require.NoError(t, err)

	lesson, err := env.curriculum.AddLesson(module.ID, instructor.ID, model.Instructor, LessonRequest{Title: "L"})
	require.NoError(t, err)

	_, err = env.curriculum.MoveLesson(lesson.ID, instructor.ID, model.Instructor, MoveLessonRequest{
		TargetModuleID: foreign.ID,
		Position:       1,
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestCurriculumOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env.db, model.Instructor)
	other := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, owner.ID, "Go Basics")

	_, err := env.curriculum.AddModule(course.ID, other.ID, model.Instructor, ModuleRequest{Title: "M"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	module, err := env.curriculum.AddModule(course.ID, owner.ID, model.Instructor, ModuleRequest{Title: "M"})
	require.NoError(t, err)

	err = env.curriculum.DeleteModule(module.ID, other.ID, model.Instructor)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = env.curriculum.AddLesson(module.ID, other.ID, model.Instructor, LessonRequest{Title: "L"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}
