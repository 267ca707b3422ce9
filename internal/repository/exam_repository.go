package repository

import (
	"shikkha_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) Create(exam *model.Exam) error {
	return r.DB.Create(exam).Error
}

func (r *ExamRepository) Update(exam *model.Exam) error {
	return r.DB.Save(exam).Error
}

func (r *ExamRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.DB.First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

// GetQuestions returns the exam's questions in grading order. The
// position in this slice is the question index answers refer to.
func (r *ExamRepository) GetQuestions(examID uint) ([]model.ExamQuestion, error) {
	var questions []model.ExamQuestion
	err := r.DB.Where("exam_id = ?", examID).
		Order("`order` asc, id asc").Find(&questions).Error
	return questions, err
}

func (r *ExamRepository) CreateQuestions(questions []model.ExamQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.Create(&questions).Error
}

func (r *ExamRepository) DeleteQuestionsByExam(examID uint) error {
	return r.DB.Where("exam_id = ?", examID).Delete(&model.ExamQuestion{}).Error
}

// ListExpiredPublished returns published exams whose window closed
// before now, for the background sweep that marks them completed.
func (r *ExamRepository) ListExpiredPublished(now time.Time) ([]model.Exam, error) {
	var exams []model.Exam
	err := r.DB.Where("status = ? AND window_end IS NOT NULL AND window_end < ?",
		model.ExamStatusPublished, now).Find(&exams).Error
	return exams, err
}
