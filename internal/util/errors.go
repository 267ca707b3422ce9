package util

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailRegistered = errors.New("email already registered")

	ErrExamNotFound      = errors.New("exam not found")
	ErrLessonNotFound    = errors.New("lesson not found")
	ErrModuleNotFound    = errors.New("module not found")
	ErrExamLocked        = errors.New("exam is locked by an earlier unpassed exam")
	ErrExamNotPublished  = errors.New("exam not published or not accessible")
	ErrOutsideWindow     = errors.New("exam is outside its timing window")
	ErrAlreadyPassed     = errors.New("exam already passed")
	ErrRetakeRequired    = errors.New("an approved retake is required for another attempt")
	ErrSessionNotFound   = errors.New("exam session not found")
	ErrAlreadySubmitted  = errors.New("exam already submitted")
	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrMarksMismatch     = errors.New("exam total marks disagree with the question list")
	ErrNoQuestions       = errors.New("exam has no gradable total marks")
	ErrBadQuestionIndex  = errors.New("answer references a non-existent question index")
	ErrNotManualGradable = errors.New("question is auto-graded and cannot be rescored")
	ErrMarksOutOfRange   = errors.New("awarded marks outside the question's range")

	ErrRetakeNotFound    = errors.New("retake request not found")
	ErrRetakePending     = errors.New("a pending retake request already exists")
	ErrRetakeNotEligible = errors.New("retake requires a failed latest attempt")
	ErrRetakeDecided     = errors.New("retake request already decided")
	ErrReasonTooShort    = errors.New("retake reason too short")
)
