package model

import "time"

const (
	ExamStatusDraft     = "draft"
	ExamStatusPublished = "published"
	ExamStatusCompleted = "completed"
)

// UnsetExamOrder places exams without an explicit order at the end of
// the module sequence.
const UnsetExamOrder = 1 << 30

// swagger:model Exam
type Exam struct {
	BaseModel
	ModuleID        uint   `gorm:"index" json:"moduleId"`
	Title           string `gorm:"size:255;not null" json:"title"`
	TitleBn         string `gorm:"size:255" json:"titleBn"`
	DurationMinutes int    `gorm:"default:0" json:"durationMinutes"`
	TotalMarks      int    `gorm:"default:0" json:"totalMarks"`
	PassMarks       int    `gorm:"default:0" json:"passMarks"`
	Status          string `gorm:"size:20;default:'draft'" json:"status"`
	// Order of 0 means the exam was placed without an explicit order
	// and sorts after every ordered item in the module.
	Order       int        `gorm:"default:0" json:"order"`
	WindowStart *time.Time `json:"windowStart,omitempty"`
	WindowEnd   *time.Time `json:"windowEnd,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

// SequenceOrder maps the stored order to the position used by the
// content sequencer.
func (e *Exam) SequenceOrder() int {
	if e.Order <= 0 {
		return UnsetExamOrder
	}
	return e.Order
}

// InWindow reports whether t falls inside the exam's timing window.
// An unset bound does not constrain.
func (e *Exam) InWindow(t time.Time) bool {
	if e.WindowStart != nil && t.Before(*e.WindowStart) {
		return false
	}
	if e.WindowEnd != nil && t.After(*e.WindowEnd) {
		return false
	}
	return true
}

const (
	QuestionTypeMCQ   = "mcq"
	QuestionTypeShort = "short"
	QuestionTypeLong  = "long"
)

// swagger:model ExamQuestion
type ExamQuestion struct {
	BaseModel
	ExamID        uint   `gorm:"index" json:"examId"`
	QuestionType  string `gorm:"size:20;not null" json:"questionType"`
	TextBn        string `gorm:"type:text" json:"textBn"`
	Options       string `gorm:"type:json" json:"options"` // JSON array of strings, mcq only
	CorrectAnswer string `gorm:"size:512" json:"correctAnswer,omitempty"`
	Marks         int    `gorm:"default:1" json:"marks"`
	Order         int    `gorm:"default:0" json:"order"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

// AutoGradable reports whether the engine can score the question
// without a grader.
func (q *ExamQuestion) AutoGradable() bool {
	return q.QuestionType == QuestionTypeMCQ
}
