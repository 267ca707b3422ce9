package repository

import (
	"errors"
	"shikkha_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(s *model.ExamSession) error {
	return r.DB.Create(s).Error
}

func (r *SessionRepository) Update(s *model.ExamSession) error {
	return r.DB.Save(s).Error
}

func (r *SessionRepository) FindByID(id uint) (*model.ExamSession, error) {
	var s model.ExamSession
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// FindOpen returns the student's in-progress session for the exam, or
// nil when none exists. An expired-but-unsubmitted session is still
// returned: it remains the active window until a submission closes it.
func (r *SessionRepository) FindOpen(studentID, examID uint) (*model.ExamSession, error) {
	var s model.ExamSession
	err := r.DB.Where("student_id = ? AND exam_id = ? AND status = ?",
		studentID, examID, model.SessionInProgress).
		Order("started_at desc").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
