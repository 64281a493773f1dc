package service

import (
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessmentCRUD(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")

	a, err := env.assessment.Create(course.ID, instructor.ID, model.Instructor, AssessmentRequest{
		Title:     "Final Quiz",
		TimeLimit: 30,
	})
	require.NoError(t, err)
	assert.False(t, a.IsPublished)

	updated, err := env.assessment.Update(a.ID, instructor.ID, model.Instructor, AssessmentRequest{Title: "Final Exam"})
	require.NoError(t, err)
	assert.Equal(t, "Final Exam", updated.Title)

	list, total, err := env.assessment.ListByCourse(course.ID, instructor.ID, model.Instructor, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)

	require.NoError(t, env.assessment.Delete(a.ID, instructor.ID, model.Instructor))
	_, err = env.assessment.Get(a.ID, instructor.ID, model.Instructor)
	assert.ErrorIs(t, err, util.ErrAssessmentNotFound)
}

func TestAssessmentOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env.db, model.Instructor)
	other := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, owner.ID, "Go Basics")

	_, err := env.assessment.Create(course.ID, other.ID, model.Instructor, AssessmentRequest{Title: "Quiz"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	a, err := env.assessment.Create(course.ID, owner.ID, model.Instructor, AssessmentRequest{Title: "Quiz"})
	require.NoError(t, err)

	_, err = env.assessment.Get(a.ID, other.ID, model.Instructor)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestQuestionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")
	a, err := env.assessment.Create(course.ID, instructor.ID, model.Instructor, AssessmentRequest{Title: "Quiz"})
	require.NoError(t, err)

	q, err := env.assessment.AddQuestion(a.ID, instructor.ID, model.Instructor, QuestionRequest{
		QuestionType: model.QuestionSingleChoice,
		Content:      "What does := do?",
		Options: []OptionRequest{
			{Content: "Declares and assigns", IsCorrect: true, Order: 1},
			{Content: "Compares", Order: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Points) // defaulted
	require.Len(t, q.Options, 2)

	q, err = env.assessment.UpdateQuestion(q.ID, instructor.ID, model.Instructor, QuestionRequest{
		QuestionType: model.QuestionSingleChoice,
		Content:      "What does := do in Go?",
		Points:       5,
		Options: []OptionRequest{
			{Content: "Declares and assigns", IsCorrect: true, Order: 1},
			{Content: "Compares", Order: 2},
			{Content: "Channels", Order: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, q.Points)
	require.Len(t, q.Options, 3)

	require.NoError(t, env.assessment.DeleteQuestion(q.ID, instructor.ID, model.Instructor))

	full, err := env.assessment.Get(a.ID, instructor.ID, model.Instructor)
	require.NoError(t, err)
	assert.Empty(t, full.Questions)
}

func TestReorderQuestions(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")
	a, err := env.assessment.Create(course.ID, instructor.ID, model.Instructor, AssessmentRequest{Title: "Quiz"})
	require.NoError(t, err)

	var ids []uint
	for _, content := range []string{"First", "Second", "Third"} {
		q, err := env.assessment.AddQuestion(a.ID, instructor.ID, model.Instructor, QuestionRequest{
			QuestionType: model.QuestionFreeText,
			Content:      content,
			Order:        len(ids) + 1,
		})
		require.NoError(t, err)
		ids = append(ids, q.ID)
	}

	questions, err := env.assessment.ReorderQuestions(a.ID, instructor.ID, model.Instructor, ReorderRequest{
		OrderedIDs: []uint{ids[2], ids[0], ids[1]},
	})
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "Third", questions[0].Content)
	assert.Equal(t, 1, questions[0].Order)
	assert.Equal(t, "First", questions[1].Content)
	assert.Equal(t, "Second", questions[2].Content)
	assert.Equal(t, 3, questions[2].Order)
}

func TestReorderQuestionsRejectsPartialList(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	other := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")
	a, err := env.assessment.Create(course.ID, instructor.ID, model.Instructor, AssessmentRequest{Title: "Quiz"})
	require.NoError(t, err)

	first, err := env.assessment.AddQuestion(a.ID, instructor.ID, model.Instructor, QuestionRequest{
		QuestionType: model.QuestionFreeText,
		Content:      "First",
		Order:        1,
	})
	require.NoError(t, err)
	_, err = env.assessment.AddQuestion(a.ID, instructor.ID, model.Instructor, QuestionRequest{
		QuestionType: model.QuestionFreeText,
		Content:      "Second",
		Order:        2,
	})
	require.NoError(t, err)

	_, err = env.assessment.ReorderQuestions(a.ID, instructor.ID, model.Instructor, ReorderRequest{
		OrderedIDs: []uint{first.ID},
	})
	assert.ErrorIs(t, err, util.ErrOrderMismatch)

	// Nothing moved.
	questions, err := env.assessment.Repo.ListQuestions(a.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "First", questions[0].Content)

	_, err = env.assessment.ReorderQuestions(a.ID, other.ID, model.Instructor, ReorderRequest{
		OrderedIDs: []uint{first.ID},
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestPublishAssessmentValidation(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")
	a, err := env.assessment.Create(course.ID, instructor.ID, model.Instructor, AssessmentRequest{Title: "Quiz"})
	require.NoError(t, err)

	// No questions yet.
	_, err = env.assessment.Publish(a.ID, instructor.ID, model.Instructor)
	assert.ErrorIs(t, err, util.ErrAssessmentEmpty)

	// A choice question with no correct option cannot go live.
	q, err := env.assessment.AddQuestion(a.ID, instructor.ID, model.Instructor, QuestionRequest{
		QuestionType: model.QuestionSingleChoice,
		Content:      "Pick one",
		Options: []OptionRequest{
			{Content: "A", Order: 1},
			{Content: "B", Order: 2},
		},
	})
	require.NoError(t, err)

	_, err = env.assessment.Publish(a.ID, instructor.ID, model.Instructor)
	assert.ErrorIs(t, err, util.ErrQuestionIncomplete)

	_, err = env.assessment.UpdateQuestion(q.ID, instructor.ID, model.Instructor, QuestionRequest{
		QuestionType: model.QuestionSingleChoice,
		Content:      "Pick one",
		Options: []OptionRequest{
			{Content: "A", IsCorrect: true, Order: 1},
			{Content: "B", Order: 2},
		},
	})
	require.NoError(t, err)

	published, err := env.assessment.Publish(a.ID, instructor.ID, model.Instructor)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
	assert.NotNil(t, published.PublishedAt)
}

func TestPublishAssessmentFreeTextNeedsNoOptions(t *testing.T) {
	env := newTestEnv(t)
	instructor := seedUser(t, env.db, model.Instructor)
	course := seedCourse(t, env, instructor.ID, "Go Basics")
	a, err := env.assessment.Create(course.ID, instructor.ID, model.Instructor, AssessmentRequest{Title: "Essay"})
	require.NoError(t, err)

	_, err = env.assessment.AddQuestion(a.ID, instructor.ID, model.Instructor, QuestionRequest{
		QuestionType: model.QuestionFreeText,
		Content:      "Explain goroutines.",
	})
	require.NoError(t, err)

	published, err := env.assessment.Publish(a.ID, instructor.ID, model.Instructor)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
}
