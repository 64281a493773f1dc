package controller

import (
	"course_studio_backend/internal/service"
	"course_studio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MediaController struct {
	MediaService *service.MediaService
}

func NewMediaController(mediaService *service.MediaService) *MediaController {
	return &MediaController{MediaService: mediaService}
}

// UploadCover godoc
// @Summary Upload a course cover image
// @Tags media
// @Accept  multipart/form-data
// @Produce  json
// @Param   id path int true "course id"
// @Param   file formData file true "cover image"
// @Success 200 {object} util.Response{data=object}
// @Router /api/instructor/courses/{id}/cover [post]
// @Security BearerAuth
func (c *MediaController) UploadCover(ctx *gin.Context) {
	courseID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	claims := util.GetUserFromContext(ctx)
	url, err := c.MediaService.UploadCover(claims.UserID, claims.Role, courseID, file)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}

// UploadLessonVideo godoc
// @Summary Upload a lesson video
// @Description Probes the file for duration and stores it on the configured backend
// @Tags media
// @Accept  multipart/form-data
// @Produce  json
// @Param   id path int true "lesson id"
// @Param   file formData file true "video file"
// @Success 200 {object} util.Response{data=object}
// @Router /api/instructor/lessons/{id}/video [post]
// @Security BearerAuth
func (c *MediaController) UploadLessonVideo(ctx *gin.Context) {
	lessonID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	claims := util.GetUserFromContext(ctx)
	info, url, err := c.MediaService.UploadLessonVideo(claims.UserID, claims.Role, lessonID, file)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url, "video": info})
}

// VideoProgress godoc
// @Summary Poll the stage of a lesson's video upload
// @Tags media
// @Produce  json
// @Param   id path int true "lesson id"
// @Success 200 {object} util.Response{data=service.UploadProgress}
// @Failure 404 {object} util.Response "no upload recorded"
// @Router /api/instructor/lessons/{id}/video/progress [get]
// @Security BearerAuth
func (c *MediaController) VideoProgress(ctx *gin.Context) {
	lessonID, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	progress, err := c.MediaService.Progress(claims.UserID, claims.Role, lessonID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}
