package controller

import (
	"shikkha_backend/internal/service"
	"shikkha_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService  *service.ContentService
	ProgressService *service.ProgressService
}

func NewContentController(content *service.ContentService, progress *service.ProgressService) *ContentController {
	return &ContentController{
		ContentService:  content,
		ProgressService: progress,
	}
}

// GetModuleSequence godoc
// @Summary Get the ordered lesson and exam sequence of a module
// @Description Returns every published item with its lock and completion state for the current student.
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "module ID"
// @Success 200 {object} util.Response{data=[]model.LockedItem}
// @Failure 404 {object} util.Response
// @Router /api/modules/{id}/sequence [get]
func (c *ContentController) GetModuleSequence(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	moduleID := util.MustParseUint(ctx.Param("id"))

	items, err := c.ContentService.GetModuleSequence(ctx.Request.Context(), claims.UserID, moduleID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, items)
}

// swagger:model WatchProgressRequest
type WatchProgressRequest struct {
	WatchedSeconds int `json:"watchedSeconds" binding:"min=0"`
	TotalSeconds   int `json:"totalSeconds" binding:"required,min=1"`
}

// MarkLessonWatched godoc
// @Summary Report watch progress for a lesson
// @Description Updates the student's watch percentage. Completion latches once 90% is reached.
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "lesson ID"
// @Param body body WatchProgressRequest true "watch progress"
// @Success 200 {object} util.Response{data=model.LessonProgress}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id}/progress [post]
func (c *ContentController) MarkLessonWatched(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	lessonID := util.MustParseUint(ctx.Param("id"))

	var req WatchProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ProgressService.MarkLessonWatched(claims.UserID, lessonID, req.WatchedSeconds, req.TotalSeconds)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// GetLessonProgress godoc
// @Summary Get the student's progress on a lesson
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "lesson ID"
// @Success 200 {object} util.Response{data=model.LessonProgress}
// @Router /api/lessons/{id}/progress [get]
func (c *ContentController) GetLessonProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	lessonID := util.MustParseUint(ctx.Param("id"))

	progress, err := c.ProgressService.GetLessonProgress(claims.UserID, lessonID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// MyProgress godoc
// @Summary List all lesson progress records of the current student
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.LessonProgress}
// @Router /api/progress [get]
func (c *ContentController) MyProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	records, err := c.ProgressService.ListByStudent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, records)
}
