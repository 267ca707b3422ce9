package service

import (
	"errors"
	"shikkha_backend/internal/model"
	"shikkha_backend/internal/repository"
	"shikkha_backend/internal/util"
	"time"
)

// ProgressService is the lesson-watch half of the progress ledger.
type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	CatalogRepo  *repository.CatalogRepository
}

func NewProgressService(progressRepo *repository.ProgressRepository, catalogRepo *repository.CatalogRepository) *ProgressService {
	return &ProgressService{ProgressRepo: progressRepo, CatalogRepo: catalogRepo}
}

// MarkLessonWatched recomputes the student's progress from absolute
// watch position, not an increment, so replays and reconnects are
// harmless. Completion is sticky: once the watch percentage reaches
// the threshold the lesson stays completed even if a later report
// carries a lower position.
func (s *ProgressService) MarkLessonWatched(studentID, lessonID uint, watchedSeconds, totalSeconds int) (*model.LessonProgress, error) {
	if _, err := s.CatalogRepo.FindLessonByID(lessonID); err != nil {
		return nil, util.ErrLessonNotFound
	}
	if totalSeconds <= 0 {
		return nil, errors.New("totalSeconds must be positive")
	}
	if watchedSeconds < 0 {
		watchedSeconds = 0
	}
	if watchedSeconds > totalSeconds {
		watchedSeconds = totalSeconds
	}

	progress, err := s.ProgressRepo.Find(studentID, lessonID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = &model.LessonProgress{
			StudentID: studentID,
			LessonID:  lessonID,
		}
	}

	progress.WatchedSeconds = watchedSeconds
	progress.TotalSeconds = totalSeconds
	progress.Percentage = Percentage(watchedSeconds, totalSeconds)

	if !progress.IsCompleted && progress.Percentage >= model.CompletionThreshold {
		now := time.Now()
		progress.IsCompleted = true
		progress.CompletedAt = &now
	}

	if err := s.ProgressRepo.Save(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *ProgressService) GetLessonProgress(studentID, lessonID uint) (*model.LessonProgress, error) {
	progress, err := s.ProgressRepo.Find(studentID, lessonID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return &model.LessonProgress{StudentID: studentID, LessonID: lessonID}, nil
	}
	return progress, nil
}

func (s *ProgressService) ListByStudent(studentID uint) ([]model.LessonProgress, error) {
	return s.ProgressRepo.ListByStudent(studentID)
}
