package controller

import (
	"course_studio_backend/internal/util"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// writeError maps service sentinels to HTTP statuses. Anything unknown is
// logged and reported as a 500.
func writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrModuleNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrAssessmentNotFound),
		errors.Is(err, util.ErrSessionNotFound),
		errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrNoUploadInProgress):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrLoginRequired):
		util.Unauthorized(ctx)
	case errors.Is(err, util.ErrPremiumRequired):
		util.Error(ctx, http.StatusForbidden, "Premium subscription required")
	case errors.Is(err, util.ErrStaleRevision):
		util.Conflict(ctx, "Draft revision is stale, reload the session")
	case errors.Is(err, util.ErrTitleTaken):
		util.Conflict(ctx, "Course title already in use")
	case errors.Is(err, util.ErrSessionNotActive):
		util.Conflict(ctx, "Session is no longer active")
	case errors.Is(err, util.ErrAlreadyPublished):
		util.Conflict(ctx, "Already published")
	case errors.Is(err, util.ErrNotPublished):
		util.Conflict(ctx, "Not published")
	case errors.Is(err, util.ErrOrderMismatch):
		util.BadRequest(ctx, "Ordered IDs must be a permutation of the existing items")
	case errors.Is(err, util.ErrAssessmentEmpty):
		util.BadRequest(ctx, "Assessment needs at least one question before publishing")
	case errors.Is(err, util.ErrQuestionIncomplete):
		util.BadRequest(ctx, "Choice questions need at least one correct option")
	case errors.Is(err, util.ErrInvalidEditorMode):
		util.BadRequest(ctx, "Unknown editor mode")
	case errors.Is(err, util.ErrUnsupportedMedia):
		util.BadRequest(ctx, "Unsupported media format")
	case errors.Is(err, util.ErrNotVideoLesson):
		util.BadRequest(ctx, "Lesson is not a video lesson")
	default:
		util.LogInternalError(ctx, err)
	}
}

func paramUint(ctx *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

func pageParams(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
