package service

import (
	"testing"

	"shikkha_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func lessonItem(id uint, order int) model.ContentItem {
	return model.ContentItem{ID: id, Kind: model.KindLesson, Order: order}
}

func examItem(id uint, order int) model.ContentItem {
	return model.ContentItem{ID: id, Kind: model.KindExam, Order: order}
}

func lockStates(items []model.LockedItem) []bool {
	out := make([]bool, len(items))
	for i, item := range items {
		out[i] = item.IsLocked
	}
	return out
}

func TestSequenceEmpty(t *testing.T) {
	out := Sequence(nil, ProgressSnapshot{})
	assert.Empty(t, out)
}

func TestSequenceFirstItemAlwaysUnlocked(t *testing.T) {
	out := Sequence([]model.ContentItem{examItem(1, 1)}, ProgressSnapshot{})
	assert.False(t, out[0].IsLocked)
}

func TestSequenceUnpassedExamLocksEverythingAfter(t *testing.T) {
	items := []model.ContentItem{
		lessonItem(1, 1),
		examItem(10, 2),
		lessonItem(2, 3),
		examItem(11, 4),
	}
	snap := ProgressSnapshot{
		CompletedLessons: map[uint]bool{1: true},
		PassedExams:      map[uint]bool{}, // exam 10 failed
	}

	out := Sequence(items, snap)
	assert.Equal(t, []bool{false, false, true, true}, lockStates(out))
}

func TestSequencePassedExamOpensGate(t *testing.T) {
	items := []model.ContentItem{
		lessonItem(1, 1),
		examItem(10, 2),
		lessonItem(2, 3),
		examItem(11, 4),
	}
	snap := ProgressSnapshot{
		CompletedLessons: map[uint]bool{1: true},
		PassedExams:      map[uint]bool{10: true},
	}

	out := Sequence(items, snap)
	assert.Equal(t, []bool{false, false, false, false}, lockStates(out))
	assert.True(t, out[1].IsCompleted)
	assert.False(t, out[3].IsCompleted)
}

func TestSequenceLessonsNeverGate(t *testing.T) {
	// no lesson completed, but no exam either: everything stays open
	items := []model.ContentItem{
		lessonItem(1, 1),
		lessonItem(2, 2),
		lessonItem(3, 3),
	}
	out := Sequence(items, ProgressSnapshot{})
	assert.Equal(t, []bool{false, false, false}, lockStates(out))
}

func TestSequenceLockIsMonotone(t *testing.T) {
	items := []model.ContentItem{
		examItem(10, 1),
		examItem(11, 2),
		lessonItem(1, 3),
		examItem(12, 4),
		lessonItem(2, 5),
	}
	snap := ProgressSnapshot{PassedExams: map[uint]bool{11: true}}

	out := Sequence(items, snap)
	seenLocked := false
	for _, item := range out {
		if seenLocked {
			assert.True(t, item.IsLocked, "item %d follows a locked item", item.ID)
		}
		seenLocked = seenLocked || item.IsLocked
	}
	// exam 10 is unpassed, so everything after index 0 is locked
	assert.Equal(t, []bool{false, true, true, true, true}, lockStates(out))
}

func TestContentItemOrderingTieBreak(t *testing.T) {
	a := lessonItem(5, 2)
	b := examItem(3, 2)
	c := lessonItem(6, 2)

	// same order: lessons sort before exams
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))

	// same order and kind: lower id first
	assert.True(t, a.Before(c))

	// different order wins regardless of kind
	d := examItem(1, 1)
	assert.True(t, d.Before(a))
}

func TestExamSequenceOrderUnsetSortsLast(t *testing.T) {
	e := &model.Exam{Order: 0}
	assert.Equal(t, model.UnsetExamOrder, e.SequenceOrder())

	ordered := &model.Exam{Order: 3}
	assert.Equal(t, 3, ordered.SequenceOrder())
}
