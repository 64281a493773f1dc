package controller

import (
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/repository"
	"course_studio_backend/internal/service"
	"course_studio_backend/internal/util"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminController struct {
	UserRepo         *repository.UserRepository
	SubscriptionRepo *repository.SubscriptionRepository
	DraftService     *service.DraftService
}

func NewAdminController(userRepo *repository.UserRepository, subscriptionRepo *repository.SubscriptionRepository, draftService *service.DraftService) *AdminController {
	return &AdminController{UserRepo: userRepo, SubscriptionRepo: subscriptionRepo, DraftService: draftService}
}

// GetUsers godoc
// @Summary List accounts
// @Tags admin
// @Produce  json
// @Param   role query string false "filter by role"
// @Param   page query int false "page"
// @Param   limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/users [get]
// @Security BearerAuth
func (c *AdminController) GetUsers(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	users, total, err := c.UserRepo.List(page, limit, ctx.Query("role"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

// GetUser godoc
// @Summary Account detail with subscriptions
// @Tags admin
// @Produce  json
// @Param   id path int true "user id"
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/users/{id} [get]
// @Security BearerAuth
func (c *AdminController) GetUser(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	user, err := c.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.NotFound(ctx)
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	subs, err := c.SubscriptionRepo.ListByUser(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"user": user, "subscriptions": subs})
}

type SetDisabledRequest struct {
	Disabled bool `json:"disabled"`
}

// SetDisabled godoc
// @Summary Disable or re-enable an account
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path int true "user id"
// @Param   body body SetDisabledRequest true "disabled flag"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id}/disable [post]
// @Security BearerAuth
func (c *AdminController) SetDisabled(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req SetDisabledRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserRepo.SetDisabled(id, req.Disabled); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

type GrantSubscriptionRequest struct {
	Plan      model.SubscriptionPlan `json:"plan" binding:"required,oneof=free premium"`
	ExpiresAt *time.Time             `json:"expiresAt"`
}

// GrantSubscription godoc
// @Summary Grant a subscription to an account
// @Description Cancels any currently active subscription first
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path int true "user id"
// @Param   body body GrantSubscriptionRequest true "plan and optional expiry"
// @Success 201 {object} util.Response{data=model.Subscription}
// @Router /api/admin/users/{id}/subscriptions [post]
// @Security BearerAuth
func (c *AdminController) GrantSubscription(ctx *gin.Context) {
	id, ok := paramUint(ctx, "id")
	if !ok {
		return
	}

	var req GrantSubscriptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if _, err := c.UserRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	if current, err := c.SubscriptionRepo.FindActiveByUser(id); err == nil {
		current.Status = model.SubscriptionCanceled
		if err := c.SubscriptionRepo.Update(current); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
	}

	sub := &model.Subscription{
		UserID:    id,
		Plan:      req.Plan,
		Status:    model.SubscriptionActive,
		StartedAt: time.Now(),
		ExpiresAt: req.ExpiresAt,
	}
	if err := c.SubscriptionRepo.Create(sub); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, sub)
}

// PurgeSessions godoc
// @Summary Run the authoring-session cleanup now
// @Description Expires idle sessions and deletes long-expired ones, same sweep the cron runs
// @Tags admin
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/sessions/purge [post]
// @Security BearerAuth
func (c *AdminController) PurgeSessions(ctx *gin.Context) {
	expired, purged, err := c.DraftService.ExpireIdleSessions()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"expired": expired, "purged": purged})
}
