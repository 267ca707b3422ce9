package repository

import (
	"shikkha_backend/internal/model"
	"sort"

	"gorm.io/gorm"
)

// CatalogRepository is the read side of the content catalog: ordered
// lessons and exams per module. The progression engine never mutates
// catalog rows during a session; authoring goes through the dedicated
// create/update methods used by the admin surface.
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) CreateSemester(s *model.Semester) error {
	return r.DB.Create(s).Error
}

func (r *CatalogRepository) ListSemesters() ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.DB.Order("`order` asc, id asc").Find(&semesters).Error
	return semesters, err
}

func (r *CatalogRepository) CreateModule(m *model.CourseModule) error {
	return r.DB.Create(m).Error
}

func (r *CatalogRepository) FindModuleByID(id uint) (*model.CourseModule, error) {
	var m model.CourseModule
	if err := r.DB.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *CatalogRepository) ListModules(semesterID uint) ([]model.CourseModule, error) {
	var modules []model.CourseModule
	err := r.DB.Where("semester_id = ?", semesterID).
		Order("`order` asc, id asc").Find(&modules).Error
	return modules, err
}

func (r *CatalogRepository) CreateLesson(l *model.Lesson) error {
	return r.DB.Create(l).Error
}

func (r *CatalogRepository) UpdateLesson(l *model.Lesson) error {
	return r.DB.Save(l).Error
}

func (r *CatalogRepository) FindLessonByID(id uint) (*model.Lesson, error) {
	var l model.Lesson
	if err := r.DB.First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// ListContentItems merges the module's published lessons and
// non-draft exams into the single gated sequence. Sorting is total
// and stable: order, then kind (lessons first), then id — lock
// propagation depends on every reader seeing the same sequence.
func (r *CatalogRepository) ListContentItems(moduleID uint) ([]model.ContentItem, error) {
	var lessons []model.Lesson
	if err := r.DB.Where("module_id = ? AND is_published = ?", moduleID, true).
		Find(&lessons).Error; err != nil {
		return nil, err
	}

	var exams []model.Exam
	if err := r.DB.Where("module_id = ? AND status <> ?", moduleID, model.ExamStatusDraft).
		Find(&exams).Error; err != nil {
		return nil, err
	}

	items := make([]model.ContentItem, 0, len(lessons)+len(exams))
	for _, l := range lessons {
		items = append(items, model.ContentItem{
			ID:              l.ID,
			Kind:            model.KindLesson,
			Order:           l.Order,
			ModuleID:        l.ModuleID,
			Title:           l.Title,
			TitleBn:         l.TitleBn,
			DurationSeconds: l.DurationSeconds,
			ContentURL:      l.ContentURL,
		})
	}
	for _, e := range exams {
		items = append(items, model.ContentItem{
			ID:              e.ID,
			Kind:            model.KindExam,
			Order:           e.SequenceOrder(),
			ModuleID:        e.ModuleID,
			Title:           e.Title,
			TitleBn:         e.TitleBn,
			TotalMarks:      e.TotalMarks,
			PassMarks:       e.PassMarks,
			DurationMinutes: e.DurationMinutes,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Before(items[j])
	})
	return items, nil
}
