package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"shikkha_backend/internal/config"
	"shikkha_backend/internal/model"
	"shikkha_backend/internal/repository"
	"shikkha_backend/pkg/database"
	"shikkha_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq int64

type harness struct {
	db *gorm.DB

	catalogRepo  *repository.CatalogRepository
	examRepo     *repository.ExamRepository
	sessionRepo  *repository.SessionRepository
	attemptRepo  *repository.AttemptRepository
	retakeRepo   *repository.RetakeRepository
	progressRepo *repository.ProgressRepository

	content  *ContentService
	sessions *ExamSessionService
	retakes  *RetakeService
	progress *ProgressService
}

// newHarness opens a private in-memory database, runs the full
// migration and wires the services without Redis.
func newHarness(t *testing.T) *harness {
	t.Helper()
	logger.Log = zap.NewNop()

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	h := &harness{
		db:           db,
		catalogRepo:  repository.NewCatalogRepository(db),
		examRepo:     repository.NewExamRepository(db),
		sessionRepo:  repository.NewSessionRepository(db),
		attemptRepo:  repository.NewAttemptRepository(db),
		retakeRepo:   repository.NewRetakeRepository(db),
		progressRepo: repository.NewProgressRepository(db),
	}
	cfg := &config.Config{}
	h.content = NewContentService(h.catalogRepo, h.progressRepo, h.attemptRepo, nil, cfg)
	h.sessions = NewExamSessionService(h.examRepo, h.sessionRepo, h.attemptRepo, h.retakeRepo, h.content, db)
	h.retakes = NewRetakeService(h.retakeRepo, h.attemptRepo, h.examRepo, db)
	h.progress = NewProgressService(h.progressRepo, h.catalogRepo)
	return h
}

func (h *harness) createModule(t *testing.T) *model.CourseModule {
	t.Helper()
	semester := &model.Semester{Title: "Semester 1", Order: 1}
	if err := h.catalogRepo.CreateSemester(semester); err != nil {
		t.Fatalf("create semester: %v", err)
	}
	module := &model.CourseModule{SemesterID: semester.ID, Title: "Algebra", Order: 1}
	if err := h.catalogRepo.CreateModule(module); err != nil {
		t.Fatalf("create module: %v", err)
	}
	return module
}

func (h *harness) createLesson(t *testing.T, moduleID uint, order int) *model.Lesson {
	t.Helper()
	lesson := &model.Lesson{
		ModuleID:        moduleID,
		Title:           fmt.Sprintf("Lesson %d", order),
		LessonType:      model.LessonTypeVideo,
		DurationSeconds: 600,
		Order:           order,
		IsPublished:     true,
	}
	if err := h.catalogRepo.CreateLesson(lesson); err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	return lesson
}

// createPublishedExam builds a four-question MCQ exam worth 100 marks
// with a pass mark of 60. Correct answers are a, b, c, d in order.
func (h *harness) createPublishedExam(t *testing.T, moduleID uint, order int) *model.Exam {
	t.Helper()
	exam := &model.Exam{
		ModuleID:        moduleID,
		Title:           "Unit Exam",
		DurationMinutes: 30,
		TotalMarks:      100,
		PassMarks:       60,
		Status:          model.ExamStatusPublished,
		Order:           order,
	}
	if err := h.examRepo.Create(exam); err != nil {
		t.Fatalf("create exam: %v", err)
	}
	correct := []string{"a", "b", "c", "d"}
	questions := make([]model.ExamQuestion, 4)
	for i := range questions {
		questions[i] = model.ExamQuestion{
			ExamID:        exam.ID,
			QuestionType:  model.QuestionTypeMCQ,
			TextBn:        fmt.Sprintf("Question %d", i+1),
			Options:       `["a","b","c","d"]`,
			CorrectAnswer: correct[i],
			Marks:         25,
			Order:         i + 1,
		}
	}
	if err := h.examRepo.CreateQuestions(questions); err != nil {
		t.Fatalf("create questions: %v", err)
	}
	return exam
}

func (h *harness) completeLesson(t *testing.T, studentID, lessonID uint) {
	t.Helper()
	if _, err := h.progress.MarkLessonWatched(studentID, lessonID, 600, 600); err != nil {
		t.Fatalf("complete lesson: %v", err)
	}
}
