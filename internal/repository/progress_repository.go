package repository

import (
	"errors"
	"shikkha_backend/internal/model"

	"gorm.io/gorm"
)

// ProgressRepository is the lesson half of the progress ledger.
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Find(studentID, lessonID uint) (*model.LessonProgress, error) {
	var p model.LessonProgress
	err := r.DB.Where("student_id = ? AND lesson_id = ?", studentID, lessonID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) Save(p *model.LessonProgress) error {
	return r.DB.Save(p).Error
}

// CompletedLessonIDs returns the set of completed lessons for the
// sequencer's progress snapshot.
func (r *ProgressRepository) CompletedLessonIDs(studentID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.LessonProgress{}).
		Where("student_id = ? AND is_completed = ?", studentID, true).
		Pluck("lesson_id", &ids).Error
	if err != nil {
		return nil, err
	}
	completed := make(map[uint]bool, len(ids))
	for _, id := range ids {
		completed[id] = true
	}
	return completed, nil
}

func (r *ProgressRepository) ListByStudent(studentID uint) ([]model.LessonProgress, error) {
	var progresses []model.LessonProgress
	err := r.DB.Where("student_id = ?", studentID).Find(&progresses).Error
	return progresses, err
}
