package service

import (
	"context"
	"testing"
	"time"

	"shikkha_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExamService(h *harness) *ExamService {
	return NewExamService(h.examRepo, h.content, h.db)
}

func draftRequest(moduleID uint) ExamRequest {
	return ExamRequest{
		ModuleID:        moduleID,
		Title:           "Unit Exam",
		TitleBn:         "ইউনিট পরীক্ষা",
		DurationMinutes: 30,
		PassMarks:       30,
		Order:           1,
		Questions: []QuestionRequest{
			{QuestionType: model.QuestionTypeMCQ, TextBn: "Q1", Options: []string{"a", "b"}, CorrectAnswer: "a", Marks: 25},
			{QuestionType: model.QuestionTypeShort, TextBn: "Q2", Marks: 25},
		},
	}
}

func TestCreateExamRecomputesTotalMarks(t *testing.T) {
	h := newHarness(t)
	svc := newExamService(h)
	module := h.createModule(t)

	exam, err := svc.CreateExam(context.Background(), draftRequest(module.ID))
	require.NoError(t, err)

	assert.Equal(t, model.ExamStatusDraft, exam.Status)
	assert.Equal(t, 50, exam.TotalMarks)

	questions, err := h.examRepo.GetQuestions(exam.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, 1, questions[0].Order)
	assert.Equal(t, 2, questions[1].Order)
}

func TestCreateExamRejectsBadQuestions(t *testing.T) {
	h := newHarness(t)
	svc := newExamService(h)
	module := h.createModule(t)

	req := draftRequest(module.ID)
	req.Questions[0].Options = []string{"only-one"}
	_, err := svc.CreateExam(context.Background(), req)
	assert.Error(t, err)

	req = draftRequest(module.ID)
	req.Questions[1].Marks = 0
	_, err = svc.CreateExam(context.Background(), req)
	assert.Error(t, err)
}

func TestUpdateExamReplacesQuestions(t *testing.T) {
	h := newHarness(t)
	svc := newExamService(h)
	module := h.createModule(t)
	ctx := context.Background()

	exam, err := svc.CreateExam(ctx, draftRequest(module.ID))
	require.NoError(t, err)

	req := draftRequest(module.ID)
	req.Questions = []QuestionRequest{
		{QuestionType: model.QuestionTypeMCQ, TextBn: "New Q", Options: []string{"x", "y"}, CorrectAnswer: "x", Marks: 10},
	}
	updated, err := svc.UpdateExam(ctx, exam.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.TotalMarks)

	questions, err := h.examRepo.GetQuestions(exam.ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "New Q", questions[0].TextBn)
}

func TestPublishValidatesIntegrity(t *testing.T) {
	h := newHarness(t)
	svc := newExamService(h)
	module := h.createModule(t)
	ctx := context.Background()

	exam, err := svc.CreateExam(ctx, draftRequest(module.ID))
	require.NoError(t, err)

	published, err := svc.Publish(ctx, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExamStatusPublished, published.Status)

	// pass marks above the total are refused
	req := draftRequest(module.ID)
	req.PassMarks = 500
	bad, err := svc.CreateExam(ctx, req)
	require.NoError(t, err)
	_, err = svc.Publish(ctx, bad.ID)
	assert.Error(t, err)

	// an exam with no questions has no gradable total
	empty, err := svc.CreateExam(ctx, ExamRequest{ModuleID: module.ID, Title: "Empty", PassMarks: 10})
	require.NoError(t, err)
	_, err = svc.Publish(ctx, empty.ID)
	assert.Error(t, err)
}

func TestCompleteExpiredExams(t *testing.T) {
	h := newHarness(t)
	svc := newExamService(h)
	module := h.createModule(t)

	closed := h.createPublishedExam(t, module.ID, 1)
	past := time.Now().Add(-time.Hour)
	closed.WindowEnd = &past
	require.NoError(t, h.examRepo.Update(closed))

	open := h.createPublishedExam(t, module.ID, 2)

	require.NoError(t, svc.CompleteExpiredExams())

	reloaded, err := h.examRepo.FindByID(closed.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExamStatusCompleted, reloaded.Status)

	stillOpen, err := h.examRepo.FindByID(open.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExamStatusPublished, stillOpen.Status)
}
