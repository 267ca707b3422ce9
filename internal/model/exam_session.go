package model

import "time"

const (
	SessionInProgress = "in_progress"
	SessionSubmitted  = "submitted"
	SessionGraded     = "graded"
	SessionExpired    = "expired"
)

// ExamSession is one timed attempt window. Deadline is computed
// server-side at start; the client countdown is advisory only.
// There is no scheduled task that force-submits: expiry is detected
// lazily on read or on the next submit call.
// swagger:model ExamSession
type ExamSession struct {
	BaseModel
	StudentID uint      `gorm:"index:idx_session_student_exam" json:"studentId"`
	ExamID    uint      `gorm:"index:idx_session_student_exam" json:"examId"`
	Status    string    `gorm:"size:20;default:'in_progress'" json:"status"`
	StartedAt time.Time `json:"startedAt"`
	Deadline  time.Time `json:"deadline"`
	// RetakeRequestID links the session to the approved retake it was
	// started under, if any. The approval is consumed when the attempt
	// is recorded.
	RetakeRequestID *uint      `json:"retakeRequestId,omitempty"`
	AttemptID       *uint      `json:"attemptId,omitempty"`
	SubmittedAt     *time.Time `json:"submittedAt,omitempty"`
}

func (ExamSession) TableName() string {
	return "exam_sessions"
}

// EffectiveStatus reports SessionExpired for an in-progress session
// whose deadline has passed. The stored status is never mutated by
// reads.
func (s *ExamSession) EffectiveStatus(now time.Time) string {
	if s.Status == SessionInProgress && now.After(s.Deadline) {
		return SessionExpired
	}
	return s.Status
}

// Open reports whether the session can still accept a submission.
// A session past its deadline is still open: late submissions are
// accepted and flagged rather than dropped.
func (s *ExamSession) Open() bool {
	return s.Status == SessionInProgress
}
