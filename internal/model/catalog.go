package model

// Semester groups course modules; ordering is curriculum order.
// swagger:model Semester
type Semester struct {
	BaseModel
	Title    string `gorm:"size:255;not null" json:"title"`
	TitleBn  string `gorm:"size:255" json:"titleBn"`
	Order    int    `gorm:"default:0" json:"order"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

func (Semester) TableName() string {
	return "semesters"
}

// swagger:model CourseModule
type CourseModule struct {
	BaseModel
	SemesterID uint   `gorm:"index" json:"semesterId"`
	Title      string `gorm:"size:255;not null" json:"title"`
	TitleBn    string `gorm:"size:255" json:"titleBn"`
	Order      int    `gorm:"default:0" json:"order"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

const (
	LessonTypeVideo = "video"
	LessonTypeFile  = "file"
)

// swagger:model Lesson
type Lesson struct {
	BaseModel
	ModuleID        uint   `gorm:"index" json:"moduleId"`
	Title           string `gorm:"size:255;not null" json:"title"`
	TitleBn         string `gorm:"size:255" json:"titleBn"`
	LessonType      string `gorm:"size:20;default:'video'" json:"lessonType"`
	ContentURL      string `gorm:"size:512" json:"contentUrl"`
	DurationSeconds int    `gorm:"default:0" json:"durationSeconds"`
	Order           int    `gorm:"default:0" json:"order"`
	IsPublished     bool   `gorm:"default:false" json:"isPublished"`
}

func (Lesson) TableName() string {
	return "lessons"
}
