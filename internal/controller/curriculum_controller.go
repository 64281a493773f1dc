package controller

import (
	"course_studio_backend/internal/service"
	"course_studio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CurriculumController struct {
	CurriculumService *service.CurriculumService
}

func NewCurriculumController(curriculumService *service.CurriculumService) *CurriculumController {
	return &CurriculumController{CurriculumService: curriculumService}
}

// AddModule godoc
// @Summary Append a module to a course
// @Tags curriculum
// @Accept  json
// @Produce  json
// @Param   id path int true "course id"
// @Param   body body service.ModuleRequest true "module fields"
// @Success 201 {object} util.Response{data=model.CourseModule}
// @Router /api/instructor/courses/{id}/modules [post]
// @Security BearerAuth
func (c *CurriculumController) AddModule(ctx *gin.Context) {
	courseID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	module, err := c.CurriculumService.AddModule(courseID, claims.UserID, claims.Role, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Created(ctx, module)
}

// UpdateModule godoc
// @Summary Update a module
// @Tags curriculum
// @Accept  json
// @Produce  json
// @Param   id path int true "module id"
// @Param   body body service.ModuleRequest true "module fields"
// @Success 200 {object} util.Response{data=model.CourseModule}
// @Router /api/instructor/modules/{id} [put]
// @Security BearerAuth
func (c *CurriculumController) UpdateModule(ctx *gin.Context) {
	moduleID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	module, err := c.CurriculumService.UpdateModule(moduleID, claims.UserID, claims.Role, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, module)
}

// DeleteModule godoc
// @Summary Delete a module and its lessons
// @Tags curriculum
// @Produce  json
// @Param   id path int true "module id"
// @Success 200 {object} util.Response
// @Router /api/instructor/modules/{id} [delete]
// @Security BearerAuth
func (c *CurriculumController) DeleteModule(ctx *gin.Context) {
	moduleID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.CurriculumService.DeleteModule(moduleID, claims.UserID, claims.Role); err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// ReorderModules godoc
// @Summary Reorder the modules of a course
// @Description orderedIds must be a permutation of the course's module ids
// @Tags curriculum
// @Accept  json
// @Produce  json
// @Param   id path int true "course id"
// @Param   body body service.ReorderRequest true "new order"
// @Success 200 {object} util.Response{data=[]model.CourseModule}
// @Failure 400 {object} util.Response "ids are not a permutation"
// @Router /api/instructor/courses/{id}/modules/reorder [put]
// @Security BearerAuth
func (c *CurriculumController) ReorderModules(ctx *gin.Context) {
	courseID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req service.ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	modules, err := c.CurriculumService.ReorderModules(courseID, claims.UserID, claims.Role, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, modules)
}

// AddLesson godoc
// @Summary Append a lesson to a module
// @Tags curriculum
// @Accept  json
// @Produce  json
// @Param   id path int true "module id"
// @Param   body body service.LessonRequest true "lesson fields"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Router /api/instructor/modules/{id}/lessons [post]
// @Security BearerAuth
func (c *CurriculumController) AddLesson(ctx *gin.Context) {
	moduleID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	lesson, err := c.CurriculumService.AddLesson(moduleID, claims.UserID, claims.Role, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags curriculum
// @Accept  json
// @Produce  json
// @Param   id path int true "lesson id"
// @Param   body body service.LessonRequest true "lesson fields"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/instructor/lessons/{id} [put]
// @Security BearerAuth
func (c *CurriculumController) UpdateLesson(ctx *gin.Context) {
	lessonID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	lesson, err := c.CurriculumService.UpdateLesson(lessonID, claims.UserID, claims.Role, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary Delete a lesson
// @Tags curriculum
// @Produce  json
// @Param   id path int true "lesson id"
// @Success 200 {object} util.Response
// @Router /api/instructor/lessons/{id} [delete]
// @Security BearerAuth
func (c *CurriculumController) DeleteLesson(ctx *gin.Context) {
	lessonID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.CurriculumService.DeleteLesson(lessonID, claims.UserID, claims.Role); err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// ReorderLessons godoc
// @Summary Reorder the lessons of a module
// @Tags curriculum
// @Accept  json
// @Produce  json
// @Param   id path int true "module id"
// @Param   body body service.ReorderRequest true "new order"
// @Success 200 {object} util.Response{data=[]model.Lesson}
// @Failure 400 {object} util.Response "ids are not a permutation"
// @Router /api/instructor/modules/{id}/lessons/reorder [put]
// @Security BearerAuth
func (c *CurriculumController) ReorderLessons(ctx *gin.Context) {
	moduleID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req service.ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	lessons, err := c.CurriculumService.ReorderLessons(moduleID, claims.UserID, claims.Role, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, lessons)
}

// MoveLesson godoc
// @Summary Move a lesson to another module
// @Tags curriculum
// @Accept  json
// @Produce  json
// @Param   id path int true "lesson id"
// @Param   body body service.MoveLessonRequest true "target module and position"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/instructor/lessons/{id}/move [put]
// @Security BearerAuth
func (c *CurriculumController) MoveLesson(ctx *gin.Context) {
	lessonID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req service.MoveLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	lesson, err := c.CurriculumService.MoveLesson(lessonID, claims.UserID, claims.Role, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, lesson)
}
