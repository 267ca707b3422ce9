package repository

import (
	"errors"
	"shikkha_backend/internal/model"

	"gorm.io/gorm"
)

type RetakeRepository struct {
	DB *gorm.DB
}

func NewRetakeRepository(db *gorm.DB) *RetakeRepository {
	return &RetakeRepository{DB: db}
}

func (r *RetakeRepository) Create(req *model.RetakeRequest) error {
	return r.DB.Create(req).Error
}

func (r *RetakeRepository) Update(req *model.RetakeRequest) error {
	return r.DB.Save(req).Error
}

func (r *RetakeRepository) FindByID(id uint) (*model.RetakeRequest, error) {
	var req model.RetakeRequest
	if err := r.DB.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindPending returns the pending request for the pair, or nil. At
// most one can exist; requestRetake enforces that before creating.
func (r *RetakeRepository) FindPending(studentID, examID uint) (*model.RetakeRequest, error) {
	return r.findByStatus(studentID, examID, model.RetakePending)
}

// FindUsableApproved returns an approved, not-yet-consumed request for
// the pair, or nil.
func (r *RetakeRepository) FindUsableApproved(studentID, examID uint) (*model.RetakeRequest, error) {
	var req model.RetakeRequest
	err := r.DB.Where("student_id = ? AND exam_id = ? AND status = ? AND consumed_at IS NULL",
		studentID, examID, model.RetakeApproved).
		Order("id desc").First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RetakeRepository) findByStatus(studentID, examID uint, status string) (*model.RetakeRequest, error) {
	var req model.RetakeRequest
	err := r.DB.Where("student_id = ? AND exam_id = ? AND status = ?", studentID, examID, status).
		Order("id desc").First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RetakeRepository) ListPending(page, limit int) ([]model.RetakeRequest, int64, error) {
	var total int64
	if err := r.DB.Model(&model.RetakeRequest{}).
		Where("status = ?", model.RetakePending).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []model.RetakeRequest
	err := r.DB.Where("status = ?", model.RetakePending).
		Order("requested_at asc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&requests).Error
	return requests, total, err
}

func (r *RetakeRepository) ListByStudent(studentID uint) ([]model.RetakeRequest, error) {
	var requests []model.RetakeRequest
	err := r.DB.Where("student_id = ?", studentID).
		Order("requested_at desc").Find(&requests).Error
	return requests, err
}
