package controller

import (
	"course_studio_backend/internal/service"
	"course_studio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

func viewerFromContext(ctx *gin.Context) *service.Viewer {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		return nil
	}
	return &service.Viewer{UserID: claims.UserID, Role: claims.Role}
}

// List godoc
// @Summary Browse published courses
// @Tags catalog
// @Produce  json
// @Param   category query string false "filter by category"
// @Param   search query string false "title search"
// @Param   page query int false "page"
// @Param   limit query int false "page size"
// @Success 200 {object} util.Response{data=service.CatalogPage}
// @Router /api/courses [get]
func (c *CatalogController) List(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	result, err := c.CatalogService.ListPublished(ctx.Query("category"), ctx.Query("search"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// Get godoc
// @Summary Course overview by slug
// @Description Returns the published course with its curriculum outline; lesson bodies are omitted
// @Tags catalog
// @Produce  json
// @Param   slug path string true "course slug"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{slug} [get]
func (c *CatalogController) Get(ctx *gin.Context) {
	course, err := c.CatalogService.GetPublishedCourse(ctx.Param("slug"))
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// GetLesson godoc
// @Summary Lesson content with access gating
// @Description Guest lessons are open, registered lessons need a login, premium lessons need an active premium subscription
// @Tags catalog
// @Produce  json
// @Param   slug path string true "course slug"
// @Param   id path int true "lesson id"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 401 {object} util.Response "login required"
// @Failure 403 {object} util.Response "premium required"
// @Router /api/courses/{slug}/lessons/{id} [get]
func (c *CatalogController) GetLesson(ctx *gin.Context) {
	lessonID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	lesson, err := c.CatalogService.GetLessonContent(ctx.Param("slug"), lessonID, viewerFromContext(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, lesson)
}
