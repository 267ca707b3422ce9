package controller

import (
	"shikkha_backend/internal/service"
	"shikkha_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService    *service.ExamService
	SessionService *service.ExamSessionService
}

func NewExamController(examService *service.ExamService, sessionService *service.ExamSessionService) *ExamController {
	return &ExamController{
		ExamService:    examService,
		SessionService: sessionService,
	}
}

// FetchForTaking godoc
// @Summary Fetch an exam for taking
// @Description Returns the exam without correct answers, or the stored result when the student has already finished and holds no approved retake.
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam ID"
// @Success 200 {object} util.Response{data=service.ExamView}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/exams/{id} [get]
func (c *ExamController) FetchForTaking(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	examID := util.MustParseUint(ctx.Param("id"))

	view, err := c.SessionService.FetchForTaking(ctx.Request.Context(), claims.UserID, examID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// StartExam godoc
// @Summary Start or resume a timed exam session
// @Description Checks publication, window, unlock state and retake eligibility, then opens a session with a fixed deadline. Re-entering returns the open session unchanged.
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam ID"
// @Success 201 {object} util.Response{data=model.ExamSession}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/exams/{id}/start [post]
func (c *ExamController) StartExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	examID := util.MustParseUint(ctx.Param("id"))

	session, err := c.SessionService.Start(ctx.Request.Context(), claims.UserID, examID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, session)
}

// swagger:model SubmitExamRequest
type SubmitExamRequest struct {
	Answers []service.AnswerInput `json:"answers"`
	Auto    bool                  `json:"auto"`
}

// SubmitExam godoc
// @Summary Submit answers for an open session
// @Description Grades the answers and records an immutable attempt. A second manual submit conflicts; an auto submit on a closed session returns the stored attempt.
// @Tags exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "session ID"
// @Param body body SubmitExamRequest true "answers"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/sessions/{id}/submit [post]
func (c *ExamController) SubmitExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	sessionID := util.MustParseUint(ctx.Param("id"))

	var req SubmitExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SessionService.Submit(ctx.Request.Context(), claims.UserID, sessionID, req.Answers, req.Auto)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// GetSessionState godoc
// @Summary Get the current state of an exam session
// @Description The status reflects deadline expiry lazily: an overdue open session reads as expired.
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "session ID"
// @Success 200 {object} util.Response{data=service.SessionState}
// @Failure 404 {object} util.Response
// @Router /api/sessions/{id} [get]
func (c *ExamController) GetSessionState(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	sessionID := util.MustParseUint(ctx.Param("id"))

	state, err := c.SessionService.GetState(claims.UserID, sessionID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, state)
}

// MyResults godoc
// @Summary List the current student's exam attempts
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ExamAttempt}
// @Router /api/results [get]
func (c *ExamController) MyResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.SessionService.MyResults(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}

// CreateExam godoc
// @Summary Create an exam draft
// @Description Total marks are recomputed from the questions, never taken from the client.
// @Tags exam-authoring
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ExamRequest true "exam definition"
// @Success 201 {object} util.Response{data=model.Exam}
// @Failure 400 {object} util.Response
// @Router /api/admin/exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.CreateExam(ctx.Request.Context(), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, exam)
}

// UpdateExam godoc
// @Summary Replace an exam's definition and questions
// @Tags exam-authoring
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam ID"
// @Param body body service.ExamRequest true "exam definition"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/exams/{id} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	examID := util.MustParseUint(ctx.Param("id"))

	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.UpdateExam(ctx.Request.Context(), examID, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, exam)
}

// PublishExam godoc
// @Summary Publish an exam
// @Description Refuses exams whose marks do not add up or whose pass marks fall outside the total.
// @Tags exam-authoring
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 404 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /api/admin/exams/{id}/publish [post]
func (c *ExamController) PublishExam(ctx *gin.Context) {
	examID := util.MustParseUint(ctx.Param("id"))

	exam, err := c.ExamService.Publish(ctx.Request.Context(), examID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, exam)
}

// GetExam godoc
// @Summary Get an exam with its full question set
// @Tags exam-authoring
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/admin/exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	examID := util.MustParseUint(ctx.Param("id"))

	exam, questions, err := c.ExamService.GetExam(examID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"exam": exam, "questions": questions})
}
