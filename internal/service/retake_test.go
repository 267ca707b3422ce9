package service

import (
	"context"
	"testing"

	"shikkha_backend/internal/model"
	"shikkha_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReason = "I misread the timer and could not finish"

// failExam takes the exam once with a failing answer set and returns
// the recorded attempt.
func failExam(t *testing.T, h *harness, studentID uint, examID uint) *model.ExamAttempt {
	t.Helper()
	ctx := context.Background()
	session, err := h.sessions.Start(ctx, studentID, examID)
	require.NoError(t, err)
	result, err := h.sessions.Submit(ctx, studentID, session.ID, failingAnswers(), false)
	require.NoError(t, err)
	require.False(t, result.Attempt.Passed)
	return result.Attempt
}

func TestRetakeFullCycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)
	const studentID = 1

	failed := failExam(t, h, studentID, exam.ID)

	request, err := h.retakes.Request(studentID, exam.ID, validReason)
	require.NoError(t, err)
	assert.Equal(t, model.RetakePending, request.Status)
	assert.Equal(t, failed.ObtainedMarks, request.PreviousScore)

	// a second pending request for the same pair is refused
	_, err = h.retakes.Request(studentID, exam.ID, validReason)
	assert.ErrorIs(t, err, util.ErrRetakePending)

	// still blocked from starting until the request is approved
	_, err = h.sessions.Start(ctx, studentID, exam.ID)
	assert.ErrorIs(t, err, util.ErrRetakeRequired)

	const adminID = 50
	decided, err := h.retakes.Decide(adminID, request.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.RetakeApproved, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.EqualValues(t, adminID, *decided.DecidedBy)

	session, err := h.sessions.Start(ctx, studentID, exam.ID)
	require.NoError(t, err)
	require.NotNil(t, session.RetakeRequestID)
	assert.Equal(t, request.ID, *session.RetakeRequestID)

	result, err := h.sessions.Submit(ctx, studentID, session.ID, passingAnswers(), false)
	require.NoError(t, err)
	assert.True(t, result.Attempt.Passed)

	// the new attempt is the only latest one; history is preserved
	latest, err := h.attemptRepo.LatestAttempt(studentID, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Attempt.ID, latest.ID)

	var latestCount, totalCount int64
	h.db.Model(&model.ExamAttempt{}).
		Where("student_id = ? AND exam_id = ? AND is_latest = ?", studentID, exam.ID, true).
		Count(&latestCount)
	h.db.Model(&model.ExamAttempt{}).
		Where("student_id = ? AND exam_id = ?", studentID, exam.ID).
		Count(&totalCount)
	assert.EqualValues(t, 1, latestCount)
	assert.EqualValues(t, 2, totalCount)

	// the approval is single-use
	consumed, err := h.retakeRepo.FindByID(request.ID)
	require.NoError(t, err)
	assert.NotNil(t, consumed.ConsumedAt)

	usable, err := h.retakeRepo.FindUsableApproved(studentID, exam.ID)
	require.NoError(t, err)
	assert.Nil(t, usable)
}

func TestRetakeRequestRejectsShortReason(t *testing.T) {
	h := newHarness(t)
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)
	failExam(t, h, 1, exam.ID)

	_, err := h.retakes.Request(1, exam.ID, "  short  ")
	assert.ErrorIs(t, err, util.ErrReasonTooShort)
}

func TestRetakeRequestRequiresFailedAttempt(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)

	// no attempt at all
	_, err := h.retakes.Request(1, exam.ID, validReason)
	assert.ErrorIs(t, err, util.ErrRetakeNotEligible)

	// passed attempt
	session, err := h.sessions.Start(ctx, 1, exam.ID)
	require.NoError(t, err)
	_, err = h.sessions.Submit(ctx, 1, session.ID, passingAnswers(), false)
	require.NoError(t, err)

	_, err = h.retakes.Request(1, exam.ID, validReason)
	assert.ErrorIs(t, err, util.ErrRetakeNotEligible)
}

func TestRetakeRequestUnknownExam(t *testing.T) {
	h := newHarness(t)
	_, err := h.retakes.Request(1, 12345, validReason)
	assert.ErrorIs(t, err, util.ErrExamNotFound)
}

func TestDecideIsTerminal(t *testing.T) {
	h := newHarness(t)
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)
	failExam(t, h, 1, exam.ID)

	request, err := h.retakes.Request(1, exam.ID, validReason)
	require.NoError(t, err)

	_, err = h.retakes.Decide(50, request.ID, false)
	require.NoError(t, err)

	_, err = h.retakes.Decide(50, request.ID, true)
	assert.ErrorIs(t, err, util.ErrRetakeDecided)
}

func TestRejectedRequestAllowsNewOne(t *testing.T) {
	h := newHarness(t)
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)
	failExam(t, h, 1, exam.ID)

	first, err := h.retakes.Request(1, exam.ID, validReason)
	require.NoError(t, err)
	_, err = h.retakes.Decide(50, first.ID, false)
	require.NoError(t, err)

	second, err := h.retakes.Request(1, exam.ID, validReason)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestBulkApproveReportsPerRequest(t *testing.T) {
	h := newHarness(t)
	module := h.createModule(t)
	examA := h.createPublishedExam(t, module.ID, 1)
	failExam(t, h, 1, examA.ID)

	request, err := h.retakes.Request(1, examA.ID, validReason)
	require.NoError(t, err)

	outcomes := h.retakes.BulkApprove(50, []uint{request.ID, 9999})
	require.Len(t, outcomes, 2)

	assert.True(t, outcomes[0].OK)
	assert.False(t, outcomes[1].OK)
	assert.NotEmpty(t, outcomes[1].Error)

	approved, err := h.retakeRepo.FindByID(request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RetakeApproved, approved.Status)
}
