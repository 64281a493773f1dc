package controller

import (
	"course_studio_backend/internal/service"
	"course_studio_backend/internal/util"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// Create godoc
// @Summary Create a draft course
// @Description Creates a course in draft status. A title the instructor already used returns 409 together with suggested alternatives.
// @Tags courses
// @Accept  json
// @Produce  json
// @Param   body body service.CourseRequest true "course fields"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 409 {object} util.Response{data=service.TitleConflict}
// @Router /api/instructor/courses [post]
// @Security BearerAuth
func (c *CourseController) Create(ctx *gin.Context) {
	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, conflict, err := c.CourseService.CreateCourse(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrTitleTaken) {
			util.ErrorWithData(ctx, http.StatusConflict, "Course title already in use", conflict)
			return
		}
		writeError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// List godoc
// @Summary List own courses
// @Tags courses
// @Produce  json
// @Param   status query string false "filter by status"
// @Param   page query int false "page"
// @Param   limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/instructor/courses [get]
// @Security BearerAuth
func (c *CourseController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, limit := pageParams(ctx)

	courses, total, err := c.CourseService.ListByInstructor(claims.UserID, ctx.Query("status"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Fetch an owned course with its curriculum
// @Tags courses
// @Produce  json
// @Param   id path int true "course id"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/instructor/courses/{id} [get]
// @Security BearerAuth
func (c *CourseController) Get(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, err := c.CourseService.GetOwnedCourse(id, claims.UserID, claims.Role)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// Update godoc
// @Summary Update course fields
// @Tags courses
// @Accept  json
// @Produce  json
// @Param   id path int true "course id"
// @Param   body body service.CourseRequest true "course fields"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 409 {object} util.Response{data=service.TitleConflict}
// @Router /api/instructor/courses/{id} [put]
// @Security BearerAuth
func (c *CourseController) Update(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, conflict, err := c.CourseService.UpdateCourse(id, claims.UserID, claims.Role, req)
	if err != nil {
		if errors.Is(err, util.ErrTitleTaken) {
			util.ErrorWithData(ctx, http.StatusConflict, "Course title already in use", conflict)
			return
		}
		writeError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// Delete godoc
// @Summary Delete a course and its curriculum
// @Tags courses
// @Produce  json
// @Param   id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{id} [delete]
// @Security BearerAuth
func (c *CourseController) Delete(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.CourseService.DeleteCourse(id, claims.UserID, claims.Role); err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Publish godoc
// @Summary Publish a course
// @Tags courses
// @Produce  json
// @Param   id path int true "course id"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 409 {object} util.Response "already published"
// @Router /api/instructor/courses/{id}/publish [post]
// @Security BearerAuth
func (c *CourseController) Publish(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, err := c.CourseService.Publish(id, claims.UserID, claims.Role)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// Unpublish godoc
// @Summary Take a published course back to draft
// @Tags courses
// @Produce  json
// @Param   id path int true "course id"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/instructor/courses/{id}/unpublish [post]
// @Security BearerAuth
func (c *CourseController) Unpublish(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, err := c.CourseService.Unpublish(id, claims.UserID, claims.Role)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// Archive godoc
// @Summary Archive a course
// @Tags courses
// @Produce  json
// @Param   id path int true "course id"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/instructor/courses/{id}/archive [post]
// @Security BearerAuth
func (c *CourseController) Archive(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, err := c.CourseService.Archive(id, claims.UserID, claims.Role)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

type SchedulePublishRequest struct {
	PublishAt time.Time `json:"publishAt" binding:"required"`
}

// SchedulePublish godoc
// @Summary Schedule a future publish
// @Tags courses
// @Accept  json
// @Produce  json
// @Param   id path int true "course id"
// @Param   body body SchedulePublishRequest true "publish time (RFC3339)"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/instructor/courses/{id}/schedule [post]
// @Security BearerAuth
func (c *CourseController) SchedulePublish(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req SchedulePublishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.PublishAt.Before(time.Now()) {
		util.BadRequest(ctx, "publishAt must be in the future")
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, err := c.CourseService.SchedulePublish(id, claims.UserID, claims.Role, req.PublishAt)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, course)
}
