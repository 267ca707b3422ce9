package model

// ContentItemKind discriminates the two content variants placed in a
// module sequence.
type ContentItemKind string

const (
	KindLesson ContentItemKind = "lesson"
	KindExam   ContentItemKind = "exam"
)

// ContentItem is derived, never stored: the catalog merges lesson and
// exam rows for a module into one ordered sequence. Order values need
// not be unique; iteration order is made total by breaking ties on
// (kind, id), lessons first.
// swagger:model ContentItem
type ContentItem struct {
	ID       uint            `json:"id"`
	Kind     ContentItemKind `json:"kind"`
	Order    int             `json:"order"`
	ModuleID uint            `json:"moduleId"`
	Title    string          `json:"title"`
	TitleBn  string          `json:"titleBn,omitempty"`

	// Lesson fields.
	DurationSeconds int    `json:"durationSeconds,omitempty"`
	ContentURL      string `json:"contentUrl,omitempty"`

	// Exam fields.
	TotalMarks      int `json:"totalMarks,omitempty"`
	PassMarks       int `json:"passMarks,omitempty"`
	DurationMinutes int `json:"durationMinutes,omitempty"`
}

// Before reports whether a sorts before b in the module sequence.
func (a ContentItem) Before(b ContentItem) bool {
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	if a.Kind != b.Kind {
		return a.Kind == KindLesson
	}
	return a.ID < b.ID
}

// LockedItem is a ContentItem annotated with the sequencer's gate
// decision for one student.
// swagger:model LockedItem
type LockedItem struct {
	ContentItem
	IsLocked    bool `json:"isLocked"`
	IsCompleted bool `json:"isCompleted"`
}
