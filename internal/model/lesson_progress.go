package model

import "time"

// CompletionThreshold is the watch percentage at which a lesson counts
// as completed.
const CompletionThreshold = 90

// LessonProgress records per-student watch progress. Writes are
// recomputations from absolute watched/total seconds, not increments,
// so reporting the same position twice is harmless. IsCompleted is
// sticky: once true it never reverts.
// swagger:model LessonProgress
type LessonProgress struct {
	BaseModel
	StudentID      uint       `gorm:"index:idx_progress_student_lesson,unique" json:"studentId"`
	LessonID       uint       `gorm:"index:idx_progress_student_lesson,unique" json:"lessonId"`
	WatchedSeconds int        `gorm:"default:0" json:"watchedSeconds"`
	TotalSeconds   int        `gorm:"default:0" json:"totalSeconds"`
	Percentage     int        `gorm:"default:0" json:"percentage"`
	IsCompleted    bool       `gorm:"default:false" json:"isCompleted"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

func (LessonProgress) TableName() string {
	return "lesson_progresses"
}
