package service

import (
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/repository"
	"course_studio_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type AssessmentService struct {
	Repo       *repository.AssessmentRepository
	CourseRepo *repository.CourseRepository
}

func NewAssessmentService(repo *repository.AssessmentRepository, courseRepo *repository.CourseRepository) *AssessmentService {
	return &AssessmentService{Repo: repo, CourseRepo: courseRepo}
}

type AssessmentRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	TimeLimit   int    `json:"timeLimit"` // Minutes, 0 means unlimited
}

type QuestionRequest struct {
	QuestionType model.QuestionType `json:"questionType" binding:"required,oneof=single_choice multi_choice true_false free_text"`
	Content      string             `json:"content" binding:"required"`
	Points       int                `json:"points"`
	Order        int                `json:"order"`
	Explanation  string             `json:"explanation"`
	Options      []OptionRequest    `json:"options"`
}

type OptionRequest struct {
	Content   string `json:"content" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
	Order     int    `json:"order"`
}

func (s *AssessmentService) ownedCourse(courseID, userID uint, role model.UserRole) (*model.Course, error) {
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

func (s *AssessmentService) ownedAssessment(id, userID uint, role model.UserRole) (*model.Assessment, error) {
	a, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedCourse(a.CourseID, userID, role); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) Create(courseID, userID uint, role model.UserRole, req AssessmentRequest) (*model.Assessment, error) {
	if _, err := s.ownedCourse(courseID, userID, role); err != nil {
		return nil, err
	}
	a := &model.Assessment{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		TimeLimit:   req.TimeLimit,
	}
	if err := s.Repo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) Get(id, userID uint, role model.UserRole) (*model.Assessment, error) {
	if _, err := s.ownedAssessment(id, userID, role); err != nil {
		return nil, err
	}
	return s.Repo.FindByIDFull(id)
}

func (s *AssessmentService) ListByCourse(courseID, userID uint, role model.UserRole, page, limit int) ([]model.Assessment, int64, error) {
	if _, err := s.ownedCourse(courseID, userID, role); err != nil {
		return nil, 0, err
	}
	return s.Repo.ListByCourse(courseID, page, limit)
}

func (s *AssessmentService) Update(id, userID uint, role model.UserRole, req AssessmentRequest) (*model.Assessment, error) {
	a, err := s.ownedAssessment(id, userID, role)
	if err != nil {
		return nil, err
	}
	a.Title = req.Title
	a.Description = req.Description
	a.TimeLimit = req.TimeLimit
	if err := s.Repo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) Delete(id, userID uint, role model.UserRole) error {
	if _, err := s.ownedAssessment(id, userID, role); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

// Publish requires at least one question, and every choice question must
// have a correct option marked.
func (s *AssessmentService) Publish(id, userID uint, role model.UserRole) (*model.Assessment, error) {
	a, err := s.ownedAssessment(id, userID, role)
	if err != nil {
		return nil, err
	}
	questions, err := s.Repo.ListQuestions(id)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrAssessmentEmpty
	}
	for _, q := range questions {
		if q.QuestionType == model.QuestionFreeText {
			continue
		}
		hasCorrect := false
		for _, o := range q.Options {
			if o.IsCorrect {
				hasCorrect = true
				break
			}
		}
		if !hasCorrect {
			return nil, util.ErrQuestionIncomplete
		}
	}

	now := time.Now()
	a.IsPublished = true
	a.PublishedAt = &now
	if err := s.Repo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssessmentService) AddQuestion(assessmentID, userID uint, role model.UserRole, req QuestionRequest) (*model.AssessmentQuestion, error) {
	if _, err := s.ownedAssessment(assessmentID, userID, role); err != nil {
		return nil, err
	}
	q := &model.AssessmentQuestion{
		AssessmentID: assessmentID,
		QuestionType: req.QuestionType,
		Content:      req.Content,
		Points:       req.Points,
		Order:        req.Order,
		Explanation:  req.Explanation,
	}
	if q.Points == 0 {
		q.Points = 1
	}
	if err := s.Repo.CreateQuestion(q); err != nil {
		return nil, err
	}
	if len(req.Options) > 0 {
		options := optionsFromRequest(req.Options)
		if err := s.Repo.ReplaceOptions(q.ID, options); err != nil {
			return nil, err
		}
	}
	return s.Repo.FindQuestionByID(q.ID)
}

func (s *AssessmentService) UpdateQuestion(questionID, userID uint, role model.UserRole, req QuestionRequest) (*model.AssessmentQuestion, error) {
	q, err := s.Repo.FindQuestionByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedAssessment(q.AssessmentID, userID, role); err != nil {
		return nil, err
	}

	q.QuestionType = req.QuestionType
	q.Content = req.Content
	q.Points = req.Points
	q.Order = req.Order
	q.Explanation = req.Explanation
	if q.Points == 0 {
		q.Points = 1
	}
	q.Options = nil
	if err := s.Repo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	if req.Options != nil {
		options := optionsFromRequest(req.Options)
		if err := s.Repo.ReplaceOptions(q.ID, options); err != nil {
			return nil, err
		}
	}
	return s.Repo.FindQuestionByID(q.ID)
}

// ReorderQuestions mirrors module reordering for an assessment's questions:
// the ids must be exactly the current question set, otherwise nothing moves.
func (s *AssessmentService) ReorderQuestions(assessmentID, userID uint, role model.UserRole, req ReorderRequest) ([]model.AssessmentQuestion, error) {
	if _, err := s.ownedAssessment(assessmentID, userID, role); err != nil {
		return nil, err
	}
	existing, err := s.Repo.ListQuestions(assessmentID)
	if err != nil {
		return nil, err
	}
	if !isQuestionPermutation(req.OrderedIDs, existing) {
		return nil, util.ErrOrderMismatch
	}
	if err := s.Repo.ReorderQuestions(assessmentID, req.OrderedIDs); err != nil {
		return nil, err
	}
	return s.Repo.ListQuestions(assessmentID)
}

func isQuestionPermutation(ids []uint, questions []model.AssessmentQuestion) bool {
	if len(ids) != len(questions) {
		return false
	}
	seen := make(map[uint]bool, len(questions))
	for _, q := range questions {
		seen[q.ID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			return false
		}
		delete(seen, id)
	}
	return len(seen) == 0
}

func (s *AssessmentService) DeleteQuestion(questionID, userID uint, role model.UserRole) error {
	q, err := s.Repo.FindQuestionByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrAssessmentNotFound
	}
	if err != nil {
		return err
	}
	if _, err := s.ownedAssessment(q.AssessmentID, userID, role); err != nil {
		return err
	}
	return s.Repo.DeleteQuestion(questionID)
}

func optionsFromRequest(reqs []OptionRequest) []model.AnswerOption {
	options := make([]model.AnswerOption, len(reqs))
	for i, o := range reqs {
		options[i] = model.AnswerOption{
			Content:   o.Content,
			IsCorrect: o.IsCorrect,
			Order:     o.Order,
		}
	}
	return options
}
