package model

import "time"

const (
	RetakePending  = "pending"
	RetakeApproved = "approved"
	RetakeRejected = "rejected"
)

// RetakeRequest gates a second exam session after a failed attempt.
// Status transitions are terminal: pending -> approved|rejected, then
// only a brand-new request (after another failed attempt) can follow.
// An approved request is single-use; ConsumedAt marks the point a new
// attempt was recorded under its authority.
// swagger:model RetakeRequest
type RetakeRequest struct {
	BaseModel
	StudentID     uint       `gorm:"index:idx_retake_student_exam" json:"studentId"`
	ExamID        uint       `gorm:"index:idx_retake_student_exam" json:"examId"`
	Reason        string     `gorm:"type:text" json:"reason"`
	Status        string     `gorm:"size:20;default:'pending'" json:"status"`
	PreviousScore int        `json:"previousScore"`
	RequestedAt   time.Time  `json:"requestedAt"`
	DecidedBy     *uint      `json:"decidedBy,omitempty"`
	DecidedAt     *time.Time `json:"decidedAt,omitempty"`
	ConsumedAt    *time.Time `json:"consumedAt,omitempty"`
}

func (RetakeRequest) TableName() string {
	return "retake_requests"
}

// Usable reports whether the approval can still authorize a new
// session.
func (r *RetakeRequest) Usable() bool {
	return r.Status == RetakeApproved && r.ConsumedAt == nil
}
