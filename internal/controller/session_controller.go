package controller

import (
	"course_studio_backend/internal/service"
	"course_studio_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	DraftService *service.DraftService
}

func NewSessionController(draftService *service.DraftService) *SessionController {
	return &SessionController{DraftService: draftService}
}

// Start godoc
// @Summary Open an authoring session
// @Description Starts a session in the requested editor mode, seeded from an existing course when courseId is given
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   body body service.StartSessionRequest true "mode and optional course"
// @Success 201 {object} util.Response{data=service.SessionView}
// @Router /api/instructor/sessions [post]
// @Security BearerAuth
func (c *SessionController) Start(ctx *gin.Context) {
	var req service.StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	view, err := c.DraftService.StartSession(claims.UserID, claims.Role, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Created(ctx, view)
}

// List godoc
// @Summary List own active sessions
// @Tags sessions
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.AuthoringSession}
// @Router /api/instructor/sessions [get]
// @Security BearerAuth
func (c *SessionController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	sessions, err := c.DraftService.ListActive(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, sessions)
}

// Get godoc
// @Summary Fetch a session with its draft rendered in the session's mode
// @Tags sessions
// @Produce  json
// @Param   id path string true "session id"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Router /api/instructor/sessions/{id} [get]
// @Security BearerAuth
func (c *SessionController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	view, err := c.DraftService.GetSession(ctx.Param("id"), claims.UserID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// Save godoc
// @Summary Save the draft (auto-save)
// @Description The request revision must match the stored one; a mismatch returns 409. Repeating a save with the same Idempotency-Key replays the original result.
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   id path string true "session id"
// @Param   Idempotency-Key header string false "client retry key"
// @Param   body body service.SaveDraftRequest true "mode, revision and draft"
// @Success 200 {object} util.Response{data=service.SaveDraftResult}
// @Failure 409 {object} util.Response "stale revision"
// @Router /api/instructor/sessions/{id}/save [put]
// @Security BearerAuth
func (c *SessionController) Save(ctx *gin.Context) {
	var req service.SaveDraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	key := ctx.GetHeader(util.IdempotencyKeyHeader)
	result, err := c.DraftService.SaveDraft(ctx.Param("id"), claims.UserID, req, key)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// SwitchMode godoc
// @Summary Re-render the draft in another editor mode
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   id path string true "session id"
// @Param   body body service.SwitchModeRequest true "target mode"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Router /api/instructor/sessions/{id}/mode [put]
// @Security BearerAuth
func (c *SessionController) SwitchMode(ctx *gin.Context) {
	var req service.SwitchModeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	view, err := c.DraftService.SwitchMode(ctx.Param("id"), claims.UserID, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// Finalize godoc
// @Summary Materialize the draft into the course catalog
// @Description Writes the whole draft in one transaction and returns a map from client temp IDs to persisted IDs
// @Tags sessions
// @Produce  json
// @Param   id path string true "session id"
// @Success 200 {object} util.Response{data=service.FinalizeResult}
// @Failure 409 {object} util.Response{data=service.TitleConflict} "duplicate title or session no longer active"
// @Router /api/instructor/sessions/{id}/finalize [post]
// @Security BearerAuth
func (c *SessionController) Finalize(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	result, conflict, err := c.DraftService.Finalize(ctx.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		if errors.Is(err, util.ErrTitleTaken) {
			util.ErrorWithData(ctx, http.StatusConflict, "Course title already in use", conflict)
			return
		}
		writeError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// Abandon godoc
// @Summary Abandon a session without saving to the catalog
// @Tags sessions
// @Produce  json
// @Param   id path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/instructor/sessions/{id} [delete]
// @Security BearerAuth
func (c *SessionController) Abandon(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.DraftService.Abandon(ctx.Param("id"), claims.UserID); err != nil {
		writeError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
