package model

import "time"

// ExamAttempt is the immutable record of one graded submission.
// Only IsLatest is ever flipped after insert, and only inside the
// transaction that records the superseding attempt.
// swagger:model ExamAttempt
type ExamAttempt struct {
	BaseModel
	StudentID     uint      `gorm:"index:idx_attempt_student_exam" json:"studentId"`
	ExamID        uint      `gorm:"index:idx_attempt_student_exam" json:"examId"`
	SessionID     uint      `gorm:"index" json:"sessionId"`
	ObtainedMarks int       `json:"obtainedMarks"`
	TotalMarks    int       `json:"totalMarks"`
	Percentage    int       `json:"percentage"`
	Passed        bool      `gorm:"default:false" json:"passed"`
	IsLatest      bool      `gorm:"default:false" json:"isLatest"`
	IsLate        bool      `gorm:"default:false" json:"isLate"`
	NeedsManual   bool      `gorm:"default:false" json:"needsManual"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}

// ExamAttemptPointer is the single "current attempt" row per
// (student, exam). The unique index is what serializes concurrent
// submissions: whichever transaction updates the pointer last wins,
// and the IsLatest flags are flipped in the same transaction.
type ExamAttemptPointer struct {
	BaseModel
	StudentID uint `gorm:"uniqueIndex:idx_attempt_pointer" json:"studentId"`
	ExamID    uint `gorm:"uniqueIndex:idx_attempt_pointer" json:"examId"`
	AttemptID uint `gorm:"not null" json:"attemptId"`
}

func (ExamAttemptPointer) TableName() string {
	return "exam_attempt_pointers"
}

// AttemptAnswer stores one submitted answer plus its awarded score.
// AwardedMarks is mutable by a grader for short/long questions; every
// manual change goes through the re-aggregation path that recomputes
// the parent attempt.
// swagger:model AttemptAnswer
type AttemptAnswer struct {
	BaseModel
	AttemptID     uint       `gorm:"index:idx_answer_attempt_question,unique" json:"attemptId"`
	QuestionIndex int        `gorm:"index:idx_answer_attempt_question,unique" json:"questionIndex"`
	AnswerText    string     `gorm:"type:text" json:"answerText"`
	AwardedMarks  int        `gorm:"default:0" json:"awardedMarks"`
	IsCorrect     bool       `gorm:"default:false" json:"isCorrect"`
	Ungraded      bool       `gorm:"default:false" json:"ungraded"`
	GraderID      *uint      `json:"graderId,omitempty"`
	GradedAt      *time.Time `json:"gradedAt,omitempty"`
}

func (AttemptAnswer) TableName() string {
	return "attempt_answers"
}
