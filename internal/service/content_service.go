package service

import (
	"context"
	"encoding/json"
	"fmt"
	"shikkha_backend/internal/config"
	"shikkha_backend/internal/model"
	"shikkha_backend/internal/repository"
	"shikkha_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ContentService composes the catalog with the progress ledger to
// produce the gated sequence students see.
type ContentService struct {
	CatalogRepo  *repository.CatalogRepository
	ProgressRepo *repository.ProgressRepository
	AttemptRepo  *repository.AttemptRepository
	Redis        *redis.Client
	Cfg          *config.Config
}

func NewContentService(
	catalogRepo *repository.CatalogRepository,
	progressRepo *repository.ProgressRepository,
	attemptRepo *repository.AttemptRepository,
	rdb *redis.Client,
	cfg *config.Config,
) *ContentService {
	return &ContentService{
		CatalogRepo:  catalogRepo,
		ProgressRepo: progressRepo,
		AttemptRepo:  attemptRepo,
		Redis:        rdb,
		Cfg:          cfg,
	}
}

func moduleItemsKey(moduleID uint) string {
	return fmt.Sprintf("catalog:module:%d:items", moduleID)
}

// ModuleItems returns the merged, ordered content items for a module.
// The catalog is read-only to the engine, so the merged sequence is
// cached briefly in Redis; authoring writes invalidate the key.
func (s *ContentService) ModuleItems(ctx context.Context, moduleID uint) ([]model.ContentItem, error) {
	key := moduleItemsKey(moduleID)

	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, key).Result()
		if err == nil {
			var items []model.ContentItem
			if json.Unmarshal([]byte(cached), &items) == nil {
				return items, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	items, err := s.CatalogRepo.ListContentItems(moduleID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(items); err == nil {
			ttl := time.Duration(s.Cfg.Catalog.CacheTTLSeconds) * time.Second
			if err := s.Redis.Set(ctx, key, payload, ttl).Err(); err != nil {
				logger.Log.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}
	return items, nil
}

// InvalidateModule drops the cached sequence after an authoring write.
func (s *ContentService) InvalidateModule(ctx context.Context, moduleID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, moduleItemsKey(moduleID)).Err(); err != nil {
		logger.Log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

func (s *ContentService) snapshot(studentID uint) (ProgressSnapshot, error) {
	completed, err := s.ProgressRepo.CompletedLessonIDs(studentID)
	if err != nil {
		return ProgressSnapshot{}, err
	}
	passed, err := s.AttemptRepo.PassedExamIDs(studentID)
	if err != nil {
		return ProgressSnapshot{}, err
	}
	return ProgressSnapshot{CompletedLessons: completed, PassedExams: passed}, nil
}

// GetModuleSequence returns the module's ordered items annotated with
// lock and completion state for one student.
func (s *ContentService) GetModuleSequence(ctx context.Context, studentID, moduleID uint) ([]model.LockedItem, error) {
	items, err := s.ModuleItems(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(studentID)
	if err != nil {
		return nil, err
	}
	return Sequence(items, snap), nil
}

// IsExamUnlocked reports the sequencer's gate decision for one exam.
// An exam missing from the sequence (unpublished, or from a module
// the catalog no longer lists) counts as locked.
func (s *ContentService) IsExamUnlocked(ctx context.Context, studentID uint, exam *model.Exam) (bool, error) {
	sequence, err := s.GetModuleSequence(ctx, studentID, exam.ModuleID)
	if err != nil {
		return false, err
	}
	for _, item := range sequence {
		if item.Kind == model.KindExam && item.ID == exam.ID {
			return !item.IsLocked, nil
		}
	}
	return false, nil
}
