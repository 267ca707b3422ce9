package service

import (
	"context"
	"testing"

	"shikkha_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkLessonWatchedComputesPercentage(t *testing.T) {
	h := newHarness(t)
	module := h.createModule(t)
	lesson := h.createLesson(t, module.ID, 1)

	progress, err := h.progress.MarkLessonWatched(1, lesson.ID, 300, 600)
	require.NoError(t, err)
	assert.Equal(t, 50, progress.Percentage)
	assert.False(t, progress.IsCompleted)
	assert.Nil(t, progress.CompletedAt)
}

func TestLessonCompletionIsSticky(t *testing.T) {
	h := newHarness(t)
	module := h.createModule(t)
	lesson := h.createLesson(t, module.ID, 1)
	const studentID = 1

	progress, err := h.progress.MarkLessonWatched(studentID, lesson.ID, 540, 600)
	require.NoError(t, err)
	assert.Equal(t, 90, progress.Percentage)
	assert.True(t, progress.IsCompleted)
	require.NotNil(t, progress.CompletedAt)
	completedAt := *progress.CompletedAt

	// a later report at a lower position must not revert completion
	progress, err = h.progress.MarkLessonWatched(studentID, lesson.ID, 60, 600)
	require.NoError(t, err)
	assert.Equal(t, 10, progress.Percentage)
	assert.True(t, progress.IsCompleted)
	require.NotNil(t, progress.CompletedAt)
	assert.Equal(t, completedAt.Unix(), progress.CompletedAt.Unix())
}

func TestMarkLessonWatchedClampsWatchedSeconds(t *testing.T) {
	h := newHarness(t)
	module := h.createModule(t)
	lesson := h.createLesson(t, module.ID, 1)

	progress, err := h.progress.MarkLessonWatched(1, lesson.ID, 900, 600)
	require.NoError(t, err)
	assert.Equal(t, 600, progress.WatchedSeconds)
	assert.Equal(t, 100, progress.Percentage)

	progress, err = h.progress.MarkLessonWatched(1, lesson.ID, -5, 600)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.WatchedSeconds)
}

func TestMarkLessonWatchedUnknownLesson(t *testing.T) {
	h := newHarness(t)
	_, err := h.progress.MarkLessonWatched(1, 999, 10, 600)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestMarkLessonWatchedIsIdempotent(t *testing.T) {
	h := newHarness(t)
	module := h.createModule(t)
	lesson := h.createLesson(t, module.ID, 1)

	first, err := h.progress.MarkLessonWatched(1, lesson.ID, 300, 600)
	require.NoError(t, err)
	second, err := h.progress.MarkLessonWatched(1, lesson.ID, 300, 600)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Percentage, second.Percentage)
}

func TestGetLessonProgressZeroValueWhenAbsent(t *testing.T) {
	h := newHarness(t)
	module := h.createModule(t)
	lesson := h.createLesson(t, module.ID, 1)

	progress, err := h.progress.GetLessonProgress(1, lesson.ID)
	require.NoError(t, err)
	assert.Zero(t, progress.Percentage)
	assert.False(t, progress.IsCompleted)
}

func TestModuleSequenceMergesLessonsAndExams(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	lesson1 := h.createLesson(t, module.ID, 1)
	exam := h.createPublishedExam(t, module.ID, 2)
	lesson2 := h.createLesson(t, module.ID, 3)
	const studentID = 1

	sequence, err := h.content.GetModuleSequence(ctx, studentID, module.ID)
	require.NoError(t, err)
	require.Len(t, sequence, 3)

	assert.Equal(t, lesson1.ID, sequence[0].ID)
	assert.Equal(t, exam.ID, sequence[1].ID)
	assert.Equal(t, lesson2.ID, sequence[2].ID)

	// the unpassed exam gates the trailing lesson only
	assert.False(t, sequence[0].IsLocked)
	assert.False(t, sequence[1].IsLocked)
	assert.True(t, sequence[2].IsLocked)
}

func TestModuleSequenceReflectsCompletion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	lesson := h.createLesson(t, module.ID, 1)
	exam := h.createPublishedExam(t, module.ID, 2)
	const studentID = 1

	h.completeLesson(t, studentID, lesson.ID)

	session, err := h.sessions.Start(ctx, studentID, exam.ID)
	require.NoError(t, err)
	_, err = h.sessions.Submit(ctx, studentID, session.ID, passingAnswers(), false)
	require.NoError(t, err)

	sequence, err := h.content.GetModuleSequence(ctx, studentID, module.ID)
	require.NoError(t, err)
	require.Len(t, sequence, 2)
	assert.True(t, sequence[0].IsCompleted)
	assert.True(t, sequence[1].IsCompleted)
	assert.False(t, sequence[1].IsLocked)
}

func TestModuleSequenceExcludesUnpublished(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	module := h.createModule(t)
	h.createLesson(t, module.ID, 1)

	draft := h.createLesson(t, module.ID, 2)
	draft.IsPublished = false
	require.NoError(t, h.catalogRepo.UpdateLesson(draft))

	exam := h.createPublishedExam(t, module.ID, 3)
	exam.Status = "draft"
	require.NoError(t, h.examRepo.Update(exam))

	sequence, err := h.content.GetModuleSequence(ctx, 1, module.ID)
	require.NoError(t, err)
	assert.Len(t, sequence, 1)
}
