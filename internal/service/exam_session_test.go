package service

import (
	"context"
	"testing"
	"time"

	"shikkha_backend/internal/model"
	"shikkha_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passingAnswers() []AnswerInput {
	return []AnswerInput{
		{QuestionIndex: 0, AnswerText: "a"},
		{QuestionIndex: 1, AnswerText: "b"},
		{QuestionIndex: 2, AnswerText: "c"},
	}
}

func failingAnswers() []AnswerInput {
	return []AnswerInput{
		{QuestionIndex: 0, AnswerText: "a"},
	}
}

func TestStartAndSubmitFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)
	const studentID = 1

	session, err := h.sessions.Start(ctx, studentID, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionInProgress, session.Status)
	assert.Equal(t, 30*time.Minute, session.Deadline.Sub(session.StartedAt))

	result, err := h.sessions.Submit(ctx, studentID, session.ID, passingAnswers(), false)
	require.NoError(t, err)

	assert.Equal(t, 75, result.Attempt.ObtainedMarks)
	assert.Equal(t, 75, result.Attempt.Percentage)
	assert.True(t, result.Attempt.Passed)
	assert.True(t, result.Attempt.IsLatest)
	assert.False(t, result.Attempt.IsLate)

	stored, err := h.sessionRepo.FindByID(session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionGraded, stored.Status)
	require.NotNil(t, stored.AttemptID)
	assert.Equal(t, result.Attempt.ID, *stored.AttemptID)

	latest, err := h.attemptRepo.LatestAttempt(studentID, exam.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, result.Attempt.ID, latest.ID)
}

func TestStartIsIdempotentWhileSessionOpen(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)

	first, err := h.sessions.Start(ctx, 1, exam.ID)
	require.NoError(t, err)
	second, err := h.sessions.Start(ctx, 1, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestStartRefusesDraftExam(t *testing.T) {
	h := newHarness(t)
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)
	exam.Status = model.ExamStatusDraft
	require.NoError(t, h.examRepo.Update(exam))

	_, err := h.sessions.Start(context.Background(), 1, exam.ID)
	assert.ErrorIs(t, err, util.ErrExamNotPublished)
}

func TestStartRefusesOutsideWindow(t *testing.T) {
	h := newHarness(t)
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)
	past := time.Now().Add(-time.Hour)
	exam.WindowEnd = &past
	require.NoError(t, h.examRepo.Update(exam))

	_, err := h.sessions.Start(context.Background(), 1, exam.ID)
	assert.ErrorIs(t, err, util.ErrOutsideWindow)
}

func TestStartRefusesLockedExam(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	h.createPublishedExam(t, module.ID, 1) // gate, never passed
	second := h.createPublishedExam(t, module.ID, 2)

	_, err := h.sessions.Start(ctx, 1, second.ID)
	assert.ErrorIs(t, err, util.ErrExamLocked)
}

func TestPassingFirstExamUnlocksSecond(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	first := h.createPublishedExam(t, module.ID, 1)
	second := h.createPublishedExam(t, module.ID, 2)
	const studentID = 1

	session, err := h.sessions.Start(ctx, studentID, first.ID)
	require.NoError(t, err)
	_, err = h.sessions.Submit(ctx, studentID, session.ID, passingAnswers(), false)
	require.NoError(t, err)

	_, err = h.sessions.Start(ctx, studentID, second.ID)
	assert.NoError(t, err)
}

func TestSubmitTwiceConflicts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)

	session, err := h.sessions.Start(ctx, 1, exam.ID)
	require.NoError(t, err)
	_, err = h.sessions.Submit(ctx, 1, session.ID, passingAnswers(), false)
	require.NoError(t, err)

	_, err = h.sessions.Submit(ctx, 1, session.ID, passingAnswers(), false)
	assert.ErrorIs(t, err, util.ErrAlreadySubmitted)
}

func TestAutoSubmitOnClosedSessionIsNoOp(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)

	session, err := h.sessions.Start(ctx, 1, exam.ID)
	require.NoError(t, err)
	first, err := h.sessions.Submit(ctx, 1, session.ID, passingAnswers(), false)
	require.NoError(t, err)

	// the expiry auto-submit races the manual one and must not record
	// a second attempt
	again, err := h.sessions.Submit(ctx, 1, session.ID, nil, true)
	require.NoError(t, err)
	assert.Equal(t, first.Attempt.ID, again.Attempt.ID)

	var count int64
	h.db.Model(&model.ExamAttempt{}).Where("exam_id = ?", exam.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestLateSubmissionAcceptedAndFlagged(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)

	session, err := h.sessions.Start(ctx, 1, exam.ID)
	require.NoError(t, err)

	session.Deadline = time.Now().Add(-time.Minute)
	require.NoError(t, h.sessionRepo.Update(session))

	state, err := h.sessions.GetState(1, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionExpired, state.Status)

	result, err := h.sessions.Submit(ctx, 1, session.ID, passingAnswers(), false)
	require.NoError(t, err)
	assert.True(t, result.Attempt.IsLate)
	assert.True(t, result.Attempt.Passed)
}

func TestStartAfterPassRefused(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)

	session, err := h.sessions.Start(ctx, 1, exam.ID)
	require.NoError(t, err)
	_, err = h.sessions.Submit(ctx, 1, session.ID, passingAnswers(), false)
	require.NoError(t, err)

	_, err = h.sessions.Start(ctx, 1, exam.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyPassed)
}

func TestStartAfterFailRequiresRetake(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)

	session, err := h.sessions.Start(ctx, 1, exam.ID)
	require.NoError(t, err)
	_, err = h.sessions.Submit(ctx, 1, session.ID, failingAnswers(), false)
	require.NoError(t, err)

	_, err = h.sessions.Start(ctx, 1, exam.ID)
	assert.ErrorIs(t, err, util.ErrRetakeRequired)
}

func TestFetchForTakingStripsCorrectAnswers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)

	view, err := h.sessions.FetchForTaking(ctx, 1, exam.ID)
	require.NoError(t, err)
	require.Len(t, view.Questions, 4)
	assert.Nil(t, view.Result)
	for _, q := range view.Questions {
		assert.Equal(t, []string{"a", "b", "c", "d"}, q.Options)
	}
}

func TestFetchForTakingReturnsResultAfterPass(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)

	session, err := h.sessions.Start(ctx, 1, exam.ID)
	require.NoError(t, err)
	result, err := h.sessions.Submit(ctx, 1, session.ID, passingAnswers(), false)
	require.NoError(t, err)

	view, err := h.sessions.FetchForTaking(ctx, 1, exam.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Result)
	assert.Equal(t, result.Attempt.ID, view.Result.ID)
	assert.Empty(t, view.Questions)
}

func TestManualGradeReaggregatesAttempt(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)

	exam := &model.Exam{
		ModuleID:        module.ID,
		Title:           "Essay Exam",
		DurationMinutes: 30,
		TotalMarks:      50,
		PassMarks:       30,
		Status:          model.ExamStatusPublished,
		Order:           1,
	}
	require.NoError(t, h.examRepo.Create(exam))
	require.NoError(t, h.examRepo.CreateQuestions([]model.ExamQuestion{
		{ExamID: exam.ID, QuestionType: model.QuestionTypeMCQ, CorrectAnswer: "a", Options: `["a","b"]`, Marks: 25, Order: 1},
		{ExamID: exam.ID, QuestionType: model.QuestionTypeLong, TextBn: "Explain", Marks: 25, Order: 2},
	}))

	session, err := h.sessions.Start(ctx, 1, exam.ID)
	require.NoError(t, err)
	result, err := h.sessions.Submit(ctx, 1, session.ID, []AnswerInput{
		{QuestionIndex: 0, AnswerText: "a"},
		{QuestionIndex: 1, AnswerText: "long essay text"},
	}, false)
	require.NoError(t, err)

	assert.True(t, result.Attempt.NeedsManual)
	assert.False(t, result.Attempt.Passed)
	assert.Equal(t, 25, result.Attempt.ObtainedMarks)

	const graderID = 99
	_, err = h.sessions.ManualGrade(graderID, result.Attempt.ID, []ManualScore{
		{QuestionIndex: 1, Marks: 30}, // above the question's 25
	})
	assert.ErrorIs(t, err, util.ErrMarksOutOfRange)

	graded, err := h.sessions.ManualGrade(graderID, result.Attempt.ID, []ManualScore{
		{QuestionIndex: 1, Marks: 20},
	})
	require.NoError(t, err)

	assert.Equal(t, 45, graded.ObtainedMarks)
	assert.Equal(t, 90, graded.Percentage)
	assert.True(t, graded.Passed)
	assert.False(t, graded.NeedsManual)

	answer, err := h.attemptRepo.FindAnswer(result.Attempt.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, answer.GraderID)
	assert.EqualValues(t, graderID, *answer.GraderID)
}

func TestManualGradeValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	exam := h.createPublishedExam(t, module.ID, 1)

	session, err := h.sessions.Start(ctx, 1, exam.ID)
	require.NoError(t, err)
	result, err := h.sessions.Submit(ctx, 1, session.ID, failingAnswers(), false)
	require.NoError(t, err)

	_, err = h.sessions.ManualGrade(99, result.Attempt.ID, []ManualScore{{QuestionIndex: 7, Marks: 5}})
	assert.ErrorIs(t, err, util.ErrBadQuestionIndex)

	// all questions are mcq: nothing to grade manually
	_, err = h.sessions.ManualGrade(99, result.Attempt.ID, []ManualScore{{QuestionIndex: 0, Marks: 5}})
	assert.ErrorIs(t, err, util.ErrNotManualGradable)
}
