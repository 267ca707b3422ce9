package controller

import (
	"shikkha_backend/internal/service"
	"shikkha_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	SessionService *service.ExamSessionService
}

func NewGradeController(sessionService *service.ExamSessionService) *GradeController {
	return &GradeController{SessionService: sessionService}
}

// ListNeedingManual godoc
// @Summary List attempts awaiting manual grading for an exam
// @Tags grading
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam ID"
// @Success 200 {object} util.Response{data=[]model.ExamAttempt}
// @Router /api/grading/exams/{id}/pending [get]
func (c *GradeController) ListNeedingManual(ctx *gin.Context) {
	examID := util.MustParseUint(ctx.Param("id"))

	attempts, err := c.SessionService.ListNeedingManual(examID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}

// swagger:model ManualGradeRequest
type ManualGradeRequest struct {
	Scores []service.ManualScore `json:"scores" binding:"required,min=1"`
}

// GradeAttempt godoc
// @Summary Score short and long answers of an attempt
// @Description Stores per-answer marks and re-aggregates the attempt's total, percentage and pass flag.
// @Tags grading
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "attempt ID"
// @Param body body ManualGradeRequest true "question scores"
// @Success 200 {object} util.Response{data=model.ExamAttempt}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/grading/attempts/{id} [post]
func (c *GradeController) GradeAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	attemptID := util.MustParseUint(ctx.Param("id"))

	var req ManualGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.SessionService.ManualGrade(claims.UserID, attemptID, req.Scores)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, attempt)
}
