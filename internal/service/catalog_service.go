package service

import (
	"context"
	"errors"
	"shikkha_backend/internal/model"
	"shikkha_backend/internal/repository"
	"shikkha_backend/internal/util"
)

// CatalogService is the thin authoring surface for semesters, modules
// and lessons. The progression engine only ever reads the catalog.
type CatalogService struct {
	CatalogRepo *repository.CatalogRepository
	Content     *ContentService
}

func NewCatalogService(catalogRepo *repository.CatalogRepository, content *ContentService) *CatalogService {
	return &CatalogService{CatalogRepo: catalogRepo, Content: content}
}

type SemesterRequest struct {
	Title   string `json:"title" binding:"required"`
	TitleBn string `json:"titleBn"`
	Order   int    `json:"order"`
}

func (s *CatalogService) CreateSemester(req SemesterRequest) (*model.Semester, error) {
	semester := &model.Semester{
		Title:    req.Title,
		TitleBn:  req.TitleBn,
		Order:    req.Order,
		IsActive: true,
	}
	if err := s.CatalogRepo.CreateSemester(semester); err != nil {
		return nil, err
	}
	return semester, nil
}

func (s *CatalogService) ListSemesters() ([]model.Semester, error) {
	return s.CatalogRepo.ListSemesters()
}

type ModuleRequest struct {
	SemesterID uint   `json:"semesterId" binding:"required"`
	Title      string `json:"title" binding:"required"`
	TitleBn    string `json:"titleBn"`
	Order      int    `json:"order"`
}

func (s *CatalogService) CreateModule(req ModuleRequest) (*model.CourseModule, error) {
	module := &model.CourseModule{
		SemesterID: req.SemesterID,
		Title:      req.Title,
		TitleBn:    req.TitleBn,
		Order:      req.Order,
	}
	if err := s.CatalogRepo.CreateModule(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *CatalogService) ListModules(semesterID uint) ([]model.CourseModule, error) {
	return s.CatalogRepo.ListModules(semesterID)
}

type LessonRequest struct {
	ModuleID        uint   `json:"moduleId" binding:"required"`
	Title           string `json:"title" binding:"required"`
	TitleBn         string `json:"titleBn"`
	LessonType      string `json:"lessonType"`
	ContentURL      string `json:"contentUrl"`
	DurationSeconds int    `json:"durationSeconds"`
	Order           int    `json:"order"`
	IsPublished     bool   `json:"isPublished"`
}

func (s *CatalogService) CreateLesson(ctx context.Context, req LessonRequest) (*model.Lesson, error) {
	if _, err := s.CatalogRepo.FindModuleByID(req.ModuleID); err != nil {
		return nil, util.ErrModuleNotFound
	}
	if req.LessonType == "" {
		req.LessonType = model.LessonTypeVideo
	}
	if req.LessonType != model.LessonTypeVideo && req.LessonType != model.LessonTypeFile {
		return nil, errors.New("unknown lesson type")
	}

	lesson := &model.Lesson{
		ModuleID:        req.ModuleID,
		Title:           req.Title,
		TitleBn:         req.TitleBn,
		LessonType:      req.LessonType,
		ContentURL:      req.ContentURL,
		DurationSeconds: req.DurationSeconds,
		Order:           req.Order,
		IsPublished:     req.IsPublished,
	}
	if err := s.CatalogRepo.CreateLesson(lesson); err != nil {
		return nil, err
	}
	s.Content.InvalidateModule(ctx, lesson.ModuleID)
	return lesson, nil
}

func (s *CatalogService) PublishLesson(ctx context.Context, lessonID uint, publish bool) (*model.Lesson, error) {
	lesson, err := s.CatalogRepo.FindLessonByID(lessonID)
	if err != nil {
		return nil, util.ErrLessonNotFound
	}
	lesson.IsPublished = publish
	if err := s.CatalogRepo.UpdateLesson(lesson); err != nil {
		return nil, err
	}
	s.Content.InvalidateModule(ctx, lesson.ModuleID)
	return lesson, nil
}
