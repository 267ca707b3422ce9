package controller

import (
	"strconv"

	"shikkha_backend/internal/service"
	"shikkha_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RetakeController struct {
	RetakeService *service.RetakeService
}

func NewRetakeController(retakeService *service.RetakeService) *RetakeController {
	return &RetakeController{RetakeService: retakeService}
}

// swagger:model RetakeRequestBody
type RetakeRequestBody struct {
	ExamID uint   `json:"examId" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// RequestRetake godoc
// @Summary Ask for another attempt at a failed exam
// @Description Only one pending request per exam is allowed, and only after a failed latest attempt.
// @Tags retakes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body RetakeRequestBody true "exam and reason"
// @Success 201 {object} util.Response{data=model.RetakeRequest}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/retakes [post]
func (c *RetakeController) RequestRetake(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RetakeRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	request, err := c.RetakeService.Request(claims.UserID, req.ExamID, req.Reason)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, request)
}

// MyRetakes godoc
// @Summary List the current student's retake requests
// @Tags retakes
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.RetakeRequest}
// @Router /api/retakes [get]
func (c *RetakeController) MyRetakes(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	requests, err := c.RetakeService.ListByStudent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, requests)
}

// ListPending godoc
// @Summary List pending retake requests for review
// @Tags retakes
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/retakes [get]
func (c *RetakeController) ListPending(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	requests, total, err := c.RetakeService.ListPending(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  requests,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// swagger:model RetakeDecisionRequest
type RetakeDecisionRequest struct {
	Approve bool `json:"approve"`
}

// DecideRetake godoc
// @Summary Approve or reject a pending retake request
// @Description The decision is terminal. An approval covers exactly one new attempt.
// @Tags retakes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "request ID"
// @Param body body RetakeDecisionRequest true "decision"
// @Success 200 {object} util.Response{data=model.RetakeRequest}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/admin/retakes/{id} [post]
func (c *RetakeController) DecideRetake(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	requestID := util.MustParseUint(ctx.Param("id"))

	var req RetakeDecisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	request, err := c.RetakeService.Decide(claims.UserID, requestID, req.Approve)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, request)
}

// swagger:model BulkApproveRequest
type BulkApproveRequest struct {
	RequestIDs []uint `json:"requestIds" binding:"required,min=1"`
}

// BulkApprove godoc
// @Summary Approve several retake requests at once
// @Description Each request is decided independently; one failure does not abort the batch.
// @Tags retakes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body BulkApproveRequest true "request IDs"
// @Success 200 {object} util.Response{data=[]service.BulkOutcome}
// @Router /api/admin/retakes/bulk-approve [post]
func (c *RetakeController) BulkApprove(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req BulkApproveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	outcomes := c.RetakeService.BulkApprove(claims.UserID, req.RequestIDs)
	util.Success(ctx, outcomes)
}
