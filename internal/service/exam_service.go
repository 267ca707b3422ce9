package service

import (
	"context"
	"encoding/json"
	"errors"
	"shikkha_backend/internal/model"
	"shikkha_backend/internal/repository"
	"shikkha_backend/internal/util"
	"shikkha_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ExamService is the authoring surface for exams. TotalMarks is never
// accepted from the client: it is recomputed from the question list
// on every write, which is what keeps the grading engine's integrity
// check from ever firing on well-behaved data.
type ExamService struct {
	ExamRepo *repository.ExamRepository
	Content  *ContentService
	DB       *gorm.DB
}

func NewExamService(examRepo *repository.ExamRepository, content *ContentService, db *gorm.DB) *ExamService {
	return &ExamService{ExamRepo: examRepo, Content: content, DB: db}
}

type QuestionRequest struct {
	QuestionType  string   `json:"questionType" binding:"required"`
	TextBn        string   `json:"textBn" binding:"required"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Marks         int      `json:"marks"`
}

type ExamRequest struct {
	ModuleID        uint              `json:"moduleId" binding:"required"`
	Title           string            `json:"title" binding:"required"`
	TitleBn         string            `json:"titleBn"`
	DurationMinutes int               `json:"durationMinutes"`
	PassMarks       int               `json:"passMarks"`
	Order           int               `json:"order"`
	WindowStart     *time.Time        `json:"windowStart"`
	WindowEnd       *time.Time        `json:"windowEnd"`
	Questions       []QuestionRequest `json:"questions"`
}

func validateQuestion(q QuestionRequest) error {
	switch q.QuestionType {
	case model.QuestionTypeMCQ:
		if len(q.Options) < 2 {
			return errors.New("mcq question needs at least two options")
		}
		if q.CorrectAnswer == "" {
			return errors.New("mcq question needs a correct answer")
		}
	case model.QuestionTypeShort, model.QuestionTypeLong:
	default:
		return errors.New("unknown question type")
	}
	if q.Marks <= 0 {
		return errors.New("question marks must be positive")
	}
	return nil
}

func buildQuestions(examID uint, reqs []QuestionRequest) ([]model.ExamQuestion, int, error) {
	questions := make([]model.ExamQuestion, 0, len(reqs))
	total := 0
	for i, q := range reqs {
		if err := validateQuestion(q); err != nil {
			return nil, 0, err
		}
		var options string
		if q.QuestionType == model.QuestionTypeMCQ {
			raw, _ := json.Marshal(q.Options)
			options = string(raw)
		}
		questions = append(questions, model.ExamQuestion{
			ExamID:        examID,
			QuestionType:  q.QuestionType,
			TextBn:        q.TextBn,
			Options:       options,
			CorrectAnswer: q.CorrectAnswer,
			Marks:         q.Marks,
			Order:         i + 1,
		})
		total += q.Marks
	}
	return questions, total, nil
}

func (s *ExamService) CreateExam(ctx context.Context, req ExamRequest) (*model.Exam, error) {
	var created *model.Exam
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		exam := &model.Exam{
			ModuleID:        req.ModuleID,
			Title:           req.Title,
			TitleBn:         req.TitleBn,
			DurationMinutes: req.DurationMinutes,
			PassMarks:       req.PassMarks,
			Status:          model.ExamStatusDraft,
			Order:           req.Order,
			WindowStart:     req.WindowStart,
			WindowEnd:       req.WindowEnd,
		}
		if err := tx.Create(exam).Error; err != nil {
			return err
		}

		questions, total, err := buildQuestions(exam.ID, req.Questions)
		if err != nil {
			return err
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}

		exam.TotalMarks = total
		if err := tx.Save(exam).Error; err != nil {
			return err
		}
		created = exam
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Content.InvalidateModule(ctx, created.ModuleID)
	return created, nil
}

// UpdateExam replaces the exam's scalar fields and question list.
// Published exams with recorded attempts keep their attempts as-is;
// results reference marks copied at grading time.
func (s *ExamService) UpdateExam(ctx context.Context, examID uint, req ExamRequest) (*model.Exam, error) {
	var updated *model.Exam
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		exam, err := s.ExamRepo.FindByID(examID)
		if err != nil {
			return util.ErrExamNotFound
		}

		exam.ModuleID = req.ModuleID
		exam.Title = req.Title
		exam.TitleBn = req.TitleBn
		exam.DurationMinutes = req.DurationMinutes
		exam.PassMarks = req.PassMarks
		exam.Order = req.Order
		exam.WindowStart = req.WindowStart
		exam.WindowEnd = req.WindowEnd

		if err := tx.Where("exam_id = ?", exam.ID).Delete(&model.ExamQuestion{}).Error; err != nil {
			return err
		}
		questions, total, err := buildQuestions(exam.ID, req.Questions)
		if err != nil {
			return err
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}

		exam.TotalMarks = total
		if err := tx.Save(exam).Error; err != nil {
			return err
		}
		updated = exam
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Content.InvalidateModule(ctx, updated.ModuleID)
	return updated, nil
}

// Publish flips a draft to published after the integrity checks the
// grading engine will later rely on: a positive pass mark within a
// positive, consistent total.
func (s *ExamService) Publish(ctx context.Context, examID uint) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		return nil, util.ErrExamNotFound
	}
	questions, err := s.ExamRepo.GetQuestions(examID)
	if err != nil {
		return nil, err
	}
	if err := ValidateExamIntegrity(exam, questions); err != nil {
		return nil, err
	}
	if exam.PassMarks <= 0 || exam.PassMarks > exam.TotalMarks {
		return nil, errors.New("pass marks must be positive and within total marks")
	}

	exam.Status = model.ExamStatusPublished
	if err := s.ExamRepo.Update(exam); err != nil {
		return nil, err
	}
	s.Content.InvalidateModule(ctx, exam.ModuleID)
	return exam, nil
}

func (s *ExamService) GetExam(examID uint) (*model.Exam, []model.ExamQuestion, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		return nil, nil, util.ErrExamNotFound
	}
	questions, err := s.ExamRepo.GetQuestions(examID)
	return exam, questions, err
}

// CompleteExpiredExams marks published exams whose window has closed
// as completed. Runs on the background ticker.
func (s *ExamService) CompleteExpiredExams() error {
	exams, err := s.ExamRepo.ListExpiredPublished(time.Now())
	if err != nil {
		return err
	}
	for i := range exams {
		exams[i].Status = model.ExamStatusCompleted
		if err := s.ExamRepo.Update(&exams[i]); err != nil {
			logger.Log.Error("failed to complete expired exam",
				zap.Uint("examId", exams[i].ID), zap.Error(err))
			continue
		}
		s.Content.InvalidateModule(context.Background(), exams[i].ModuleID)
	}
	return nil
}
