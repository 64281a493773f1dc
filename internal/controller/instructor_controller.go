package controller

import (
	"context"
	"course_studio_backend/internal/service"
	"course_studio_backend/internal/util"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InstructorController struct {
	InstructorService *service.InstructorService
	Storage           *service.StorageService
}

func NewInstructorController(instructorService *service.InstructorService, storage *service.StorageService) *InstructorController {
	return &InstructorController{InstructorService: instructorService, Storage: storage}
}

// GetProfile godoc
// @Summary Own instructor profile
// @Description Creates an empty profile on first access
// @Tags instructor
// @Produce  json
// @Success 200 {object} util.Response{data=model.InstructorProfile}
// @Router /api/me/profile [get]
// @Security BearerAuth
func (c *InstructorController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	profile, err := c.InstructorService.GetProfile(claims.UserID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// UpdateProfile godoc
// @Summary Update instructor profile
// @Tags instructor
// @Accept  json
// @Produce  json
// @Param   body body service.ProfileRequest true "profile fields"
// @Success 200 {object} util.Response{data=model.InstructorProfile}
// @Router /api/me/profile [put]
// @Security BearerAuth
func (c *InstructorController) UpdateProfile(ctx *gin.Context) {
	var req service.ProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	profile, err := c.InstructorService.UpdateProfile(claims.UserID, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// UploadAvatar godoc
// @Summary Upload a profile avatar
// @Tags instructor
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "avatar image"
// @Success 200 {object} util.Response{data=object}
// @Router /api/me/profile/avatar [post]
// @Security BearerAuth
func (c *InstructorController) UploadAvatar(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if !util.HasAllowedExtension(file.Filename, util.AllowedImageExtensions) {
		util.BadRequest(ctx, "unsupported image format")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	claims := util.GetUserFromContext(ctx)
	objectName := fmt.Sprintf("avatars/%d/%s%s", claims.UserID, uuid.New().String(), filepath.Ext(file.Filename))
	uploadCtx, cancel := context.WithTimeout(ctx.Request.Context(), time.Minute)
	defer cancel()

	url, err := c.Storage.Upload(uploadCtx, objectName, src, file.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.InstructorService.UpdateAvatar(claims.UserID, url); err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}
