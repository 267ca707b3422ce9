package repository

import (
	"errors"
	"shikkha_backend/internal/model"

	"gorm.io/gorm"
)

// AttemptRepository is the write side of the progress ledger for exam
// results. Attempts are append-only; the only post-insert mutation is
// the latest-flag flip performed by RecordIn, and manual regrades of
// individual answers.
type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) FindByID(id uint) (*model.ExamAttempt, error) {
	var a model.ExamAttempt
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// LatestAttempt resolves the current attempt for a (student, exam)
// pair through the pointer row. Returns nil without error when no
// attempt exists yet.
func (r *AttemptRepository) LatestAttempt(studentID, examID uint) (*model.ExamAttempt, error) {
	var ptr model.ExamAttemptPointer
	err := r.DB.Where("student_id = ? AND exam_id = ?", studentID, examID).First(&ptr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.FindByID(ptr.AttemptID)
}

// ExamPassed reports the latest attempt's passed flag; an absent
// attempt counts as not passed.
func (r *AttemptRepository) ExamPassed(studentID, examID uint) (bool, error) {
	latest, err := r.LatestAttempt(studentID, examID)
	if err != nil {
		return false, err
	}
	return latest != nil && latest.Passed, nil
}

// PassedExamIDs returns the set of exams whose latest attempt passed,
// for the sequencer's progress snapshot.
func (r *AttemptRepository) PassedExamIDs(studentID uint) (map[uint]bool, error) {
	var rows []struct {
		ExamID uint
		Passed bool
	}
	err := r.DB.Model(&model.ExamAttemptPointer{}).
		Select("exam_attempt_pointers.exam_id, exam_attempts.passed").
		Joins("JOIN exam_attempts ON exam_attempts.id = exam_attempt_pointers.attempt_id").
		Where("exam_attempt_pointers.student_id = ?", studentID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	passed := make(map[uint]bool, len(rows))
	for _, row := range rows {
		if row.Passed {
			passed[row.ExamID] = true
		}
	}
	return passed, nil
}

// RecordIn inserts a new attempt with its answers and makes it the
// latest for the pair, inside the caller's transaction: the previous
// latest flag is demoted and the unique pointer row is moved in the
// same transaction, so concurrent submissions serialize on the
// pointer's (student_id, exam_id) constraint and exactly one attempt
// ends up latest.
func (r *AttemptRepository) RecordIn(tx *gorm.DB, attempt *model.ExamAttempt, answers []model.AttemptAnswer) error {
	if err := tx.Model(&model.ExamAttempt{}).
		Where("student_id = ? AND exam_id = ? AND is_latest = ?", attempt.StudentID, attempt.ExamID, true).
		Update("is_latest", false).Error; err != nil {
		return err
	}

	attempt.IsLatest = true
	if err := tx.Create(attempt).Error; err != nil {
		return err
	}

	var ptr model.ExamAttemptPointer
	err := tx.Where("student_id = ? AND exam_id = ?", attempt.StudentID, attempt.ExamID).First(&ptr).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		ptr = model.ExamAttemptPointer{
			StudentID: attempt.StudentID,
			ExamID:    attempt.ExamID,
			AttemptID: attempt.ID,
		}
		if err := tx.Create(&ptr).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		ptr.AttemptID = attempt.ID
		if err := tx.Save(&ptr).Error; err != nil {
			return err
		}
	}

	if len(answers) > 0 {
		for i := range answers {
			answers[i].AttemptID = attempt.ID
		}
		if err := tx.Create(&answers).Error; err != nil {
			return err
		}
	}
	return nil
}

// Record runs RecordIn in its own transaction.
func (r *AttemptRepository) Record(attempt *model.ExamAttempt, answers []model.AttemptAnswer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return r.RecordIn(tx, attempt, answers)
	})
}

func (r *AttemptRepository) GetAnswers(attemptID uint) ([]model.AttemptAnswer, error) {
	var answers []model.AttemptAnswer
	err := r.DB.Where("attempt_id = ?", attemptID).
		Order("question_index asc").Find(&answers).Error
	return answers, err
}

func (r *AttemptRepository) FindAnswer(attemptID uint, questionIndex int) (*model.AttemptAnswer, error) {
	var a model.AttemptAnswer
	err := r.DB.Where("attempt_id = ? AND question_index = ?", attemptID, questionIndex).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListNeedingManual returns attempts for an exam that still carry
// ungraded answers.
func (r *AttemptRepository) ListNeedingManual(examID uint) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.DB.Where("exam_id = ? AND needs_manual = ?", examID, true).Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByStudent(studentID uint) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.DB.Where("student_id = ?", studentID).
		Order("submitted_at desc").Find(&attempts).Error
	return attempts, err
}
