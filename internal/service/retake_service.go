package service

import (
	"shikkha_backend/internal/model"
	"shikkha_backend/internal/repository"
	"shikkha_backend/internal/util"
	"strings"
	"time"

	"shikkha_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// RetakeService runs the approval workflow that reopens a failed
// exam's gate: None -> Pending -> Approved|Rejected, with Approved
// being single-use.
type RetakeService struct {
	RetakeRepo  *repository.RetakeRepository
	AttemptRepo *repository.AttemptRepository
	ExamRepo    *repository.ExamRepository
	DB          *gorm.DB
}

func NewRetakeService(
	retakeRepo *repository.RetakeRepository,
	attemptRepo *repository.AttemptRepository,
	examRepo *repository.ExamRepository,
	db *gorm.DB,
) *RetakeService {
	return &RetakeService{
		RetakeRepo:  retakeRepo,
		AttemptRepo: attemptRepo,
		ExamRepo:    examRepo,
		DB:          db,
	}
}

// Request creates a pending retake request. Eligibility: the latest
// attempt for the pair exists and failed, and no other pending
// request exists for the pair. The pending-uniqueness check runs
// inside the creating transaction so two rapid requests cannot both
// slip through.
func (s *RetakeService) Request(studentID, examID uint, reason string) (*model.RetakeRequest, error) {
	if len(strings.TrimSpace(reason)) < util.MinRetakeReasonLength {
		return nil, util.ErrReasonTooShort
	}

	if _, err := s.ExamRepo.FindByID(examID); err != nil {
		return nil, util.ErrExamNotFound
	}

	latest, err := s.AttemptRepo.LatestAttempt(studentID, examID)
	if err != nil {
		return nil, err
	}
	if latest == nil || latest.Passed {
		return nil, util.ErrRetakeNotEligible
	}

	request := &model.RetakeRequest{
		StudentID:     studentID,
		ExamID:        examID,
		Reason:        strings.TrimSpace(reason),
		Status:        model.RetakePending,
		PreviousScore: latest.ObtainedMarks,
		RequestedAt:   time.Now(),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var pending int64
		if err := tx.Model(&model.RetakeRequest{}).
			Where("student_id = ? AND exam_id = ? AND status = ?", studentID, examID, model.RetakePending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return util.ErrRetakePending
		}
		return tx.Create(request).Error
	})
	if err != nil {
		return nil, err
	}

	monitoring.RetakeRequests.WithLabelValues(model.RetakePending).Inc()
	return request, nil
}

// Decide resolves a pending request. The transition is terminal; a
// request decided concurrently surfaces as ErrRetakeDecided rather
// than being overwritten.
func (s *RetakeService) Decide(deciderID, requestID uint, approve bool) (*model.RetakeRequest, error) {
	var request *model.RetakeRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var req model.RetakeRequest
		if err := tx.First(&req, requestID).Error; err != nil {
			return util.ErrRetakeNotFound
		}
		if req.Status != model.RetakePending {
			return util.ErrRetakeDecided
		}

		now := time.Now()
		if approve {
			req.Status = model.RetakeApproved
		} else {
			req.Status = model.RetakeRejected
		}
		req.DecidedBy = &deciderID
		req.DecidedAt = &now

		if err := tx.Save(&req).Error; err != nil {
			return err
		}
		request = &req
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.RetakeRequests.WithLabelValues(request.Status).Inc()
	return request, nil
}

// BulkOutcome reports one request's result in a bulk approval.
type BulkOutcome struct {
	RequestID uint   `json:"requestId"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

// BulkApprove applies Decide(approve) to each request independently:
// a request already decided concurrently fails alone without aborting
// the rest of the batch.
func (s *RetakeService) BulkApprove(deciderID uint, requestIDs []uint) []BulkOutcome {
	outcomes := make([]BulkOutcome, 0, len(requestIDs))
	for _, id := range requestIDs {
		outcome := BulkOutcome{RequestID: id, OK: true}
		if _, err := s.Decide(deciderID, id, true); err != nil {
			outcome.OK = false
			outcome.Error = err.Error()
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func (s *RetakeService) ListPending(page, limit int) ([]model.RetakeRequest, int64, error) {
	return s.RetakeRepo.ListPending(page, limit)
}

func (s *RetakeService) ListByStudent(studentID uint) ([]model.RetakeRequest, error) {
	return s.RetakeRepo.ListByStudent(studentID)
}
