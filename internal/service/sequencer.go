package service

import "shikkha_backend/internal/model"

// ProgressSnapshot is the read-only view of the progress ledger the
// sequencer needs: which lessons the student completed and which
// exams their latest attempt passed.
type ProgressSnapshot struct {
	CompletedLessons map[uint]bool
	PassedExams      map[uint]bool
}

func (s ProgressSnapshot) itemCompleted(item model.ContentItem) bool {
	switch item.Kind {
	case model.KindLesson:
		return s.CompletedLessons[item.ID]
	case model.KindExam:
		return s.PassedExams[item.ID]
	}
	return false
}

// Sequence annotates an ordered module sequence with lock decisions
// for one student. It is a pure function over the two snapshots.
//
// The first item is always accessible (enrollment checks are the
// caller's concern). An item is locked when any earlier item is
// locked, or when the immediately preceding item is an exam the
// student has not passed. Lessons never gate their successors, and
// the lock is monotone: once one item is locked, everything after it
// is locked too.
func Sequence(items []model.ContentItem, snap ProgressSnapshot) []model.LockedItem {
	out := make([]model.LockedItem, 0, len(items))
	locked := false
	for i, item := range items {
		if i > 0 {
			prev := out[i-1]
			if prev.Kind == model.KindExam && !prev.IsCompleted {
				locked = true
			}
		}
		out = append(out, model.LockedItem{
			ContentItem: item,
			IsLocked:    locked,
			IsCompleted: snap.itemCompleted(item),
		})
	}
	return out
}
