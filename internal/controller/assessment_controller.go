package controller

import (
	"course_studio_backend/internal/service"
	"course_studio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	AssessmentService *service.AssessmentService
}

func NewAssessmentController(assessmentService *service.AssessmentService) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService}
}

// Create godoc
// @Summary Create an assessment for a course
// @Tags assessments
// @Accept  json
// @Produce  json
// @Param   id path int true "course id"
// @Param   body body service.AssessmentRequest true "assessment fields"
// @Success 201 {object} util.Response{data=model.Assessment}
// @Router /api/instructor/courses/{id}/assessments [post]
// @Security BearerAuth
func (c *AssessmentController) Create(ctx *gin.Context) {
	courseID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req service.AssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	assessment, err := c.AssessmentService.Create(courseID, claims.UserID, claims.Role, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Created(ctx, assessment)
}

// ListByCourse godoc
// @Summary List a course's assessments
// @Tags assessments
// @Produce  json
// @Param   id path int true "course id"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/instructor/courses/{id}/assessments [get]
// @Security BearerAuth
func (c *AssessmentController) ListByCourse(ctx *gin.Context) {
	courseID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	page, limit := pageParams(ctx)
	assessments, total, err := c.AssessmentService.ListByCourse(courseID, claims.UserID, claims.Role, page, limit)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: assessments, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Fetch an assessment with questions and options
// @Tags assessments
// @Produce  json
// @Param   id path int true "assessment id"
// @Success 200 {object} util.Response{data=model.Assessment}
// @Router /api/instructor/assessments/{id} [get]
// @Security BearerAuth
func (c *AssessmentController) Get(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	assessment, err := c.AssessmentService.Get(id, claims.UserID, claims.Role)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, assessment)
}

// Update godoc
// @Summary Update assessment fields
// @Tags assessments
// @Accept  json
// @Produce  json
// @Param   id path int true "assessment id"
// @Param   body body service.AssessmentRequest true "assessment fields"
// @Success 200 {object} util.Response{data=model.Assessment}
// @Router /api/instructor/assessments/{id} [put]
// @Security BearerAuth
func (c *AssessmentController) Update(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req service.AssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	assessment, err := c.AssessmentService.Update(id, claims.UserID, claims.Role, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, assessment)
}

// Delete godoc
// @Summary Delete an assessment
// @Tags assessments
// @Produce  json
// @Param   id path int true "assessment id"
// @Success 200 {object} util.Response
// @Router /api/instructor/assessments/{id} [delete]
// @Security BearerAuth
func (c *AssessmentController) Delete(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.AssessmentService.Delete(id, claims.UserID, claims.Role); err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Publish godoc
// @Summary Publish an assessment
// @Description Requires at least one question; choice questions need a correct option
// @Tags assessments
// @Produce  json
// @Param   id path int true "assessment id"
// @Success 200 {object} util.Response{data=model.Assessment}
// @Failure 400 {object} util.Response "incomplete assessment"
// @Router /api/instructor/assessments/{id}/publish [post]
// @Security BearerAuth
func (c *AssessmentController) Publish(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	assessment, err := c.AssessmentService.Publish(id, claims.UserID, claims.Role)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, assessment)
}

// ReorderQuestions godoc
// @Summary Reorder an assessment's questions
// @Description The body must list every question id exactly once; anything else is rejected and nothing moves
// @Tags assessments
// @Accept  json
// @Produce  json
// @Param   id path int true "assessment id"
// @Param   body body service.ReorderRequest true "question ids in the new order"
// @Success 200 {object} util.Response{data=[]model.AssessmentQuestion}
// @Failure 400 {object} util.Response "ids are not a permutation"
// @Router /api/instructor/assessments/{id}/questions/reorder [put]
// @Security BearerAuth
func (c *AssessmentController) ReorderQuestions(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req service.ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	questions, err := c.AssessmentService.ReorderQuestions(id, claims.UserID, claims.Role, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

// AddQuestion godoc
// @Summary Add a question to an assessment
// @Tags assessments
// @Accept  json
// @Produce  json
// @Param   id path int true "assessment id"
// @Param   body body service.QuestionRequest true "question fields"
// @Success 201 {object} util.Response{data=model.AssessmentQuestion}
// @Router /api/instructor/assessments/{id}/questions [post]
// @Security BearerAuth
func (c *AssessmentController) AddQuestion(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	question, err := c.AssessmentService.AddQuestion(id, claims.UserID, claims.Role, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Created(ctx, question)
}

// UpdateQuestion godoc
// @Summary Update a question and replace its options
// @Tags assessments
// @Accept  json
// @Produce  json
// @Param   id path int true "question id"
// @Param   body body service.QuestionRequest true "question fields"
// @Success 200 {object} util.Response{data=model.AssessmentQuestion}
// @Router /api/instructor/questions/{id} [put]
// @Security BearerAuth
func (c *AssessmentController) UpdateQuestion(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	question, err := c.AssessmentService.UpdateQuestion(id, claims.UserID, claims.Role, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags assessments
// @Produce  json
// @Param   id path int true "question id"
// @Success 200 {object} util.Response
// @Router /api/instructor/questions/{id} [delete]
// @Security BearerAuth
func (c *AssessmentController) DeleteQuestion(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.AssessmentService.DeleteQuestion(id, claims.UserID, claims.Role); err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
