package controller

import (
	"errors"
	"net/http"
	"shikkha_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the engine's sentinel errors onto the HTTP
// taxonomy: missing resources, gate refusals, duplicate submissions,
// bad input, and authoring-side integrity faults.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrExamNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrModuleNotFound),
		errors.Is(err, util.ErrSessionNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrRetakeNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)

	case errors.Is(err, util.ErrExamLocked),
		errors.Is(err, util.ErrExamNotPublished),
		errors.Is(err, util.ErrOutsideWindow),
		errors.Is(err, util.ErrAlreadyPassed),
		errors.Is(err, util.ErrRetakeRequired),
		errors.Is(err, util.ErrRetakeNotEligible):
		util.Forbidden(ctx, err.Error())

	case errors.Is(err, util.ErrAlreadySubmitted),
		errors.Is(err, util.ErrRetakePending),
		errors.Is(err, util.ErrRetakeDecided):
		util.Conflict(ctx, err.Error())

	case errors.Is(err, util.ErrReasonTooShort),
		errors.Is(err, util.ErrBadQuestionIndex),
		errors.Is(err, util.ErrNotManualGradable),
		errors.Is(err, util.ErrMarksOutOfRange):
		util.BadRequest(ctx, err.Error())

	case errors.Is(err, util.ErrMarksMismatch),
		errors.Is(err, util.ErrNoQuestions):
		// authoring-side data corruption: halt this item loudly
		util.Error(ctx, http.StatusInternalServerError, err.Error())

	default:
		util.LogInternalError(ctx, err)
	}
}
