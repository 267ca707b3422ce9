package controller

import (
	"shikkha_backend/internal/service"
	"shikkha_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

// CreateSemester godoc
// @Summary Create a semester
// @Tags catalog
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SemesterRequest true "semester"
// @Success 201 {object} util.Response{data=model.Semester}
// @Failure 400 {object} util.Response
// @Router /api/admin/semesters [post]
func (c *CatalogController) CreateSemester(ctx *gin.Context) {
	var req service.SemesterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	semester, err := c.CatalogService.CreateSemester(req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, semester)
}

// ListSemesters godoc
// @Summary List all semesters
// @Tags catalog
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Semester}
// @Router /api/semesters [get]
func (c *CatalogController) ListSemesters(ctx *gin.Context) {
	semesters, err := c.CatalogService.ListSemesters()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, semesters)
}

// CreateModule godoc
// @Summary Create a course module inside a semester
// @Tags catalog
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ModuleRequest true "module"
// @Success 201 {object} util.Response{data=model.CourseModule}
// @Failure 400 {object} util.Response
// @Router /api/admin/modules [post]
func (c *CatalogController) CreateModule(ctx *gin.Context) {
	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CatalogService.CreateModule(req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, module)
}

// ListModules godoc
// @Summary List modules of a semester
// @Tags catalog
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "semester ID"
// @Success 200 {object} util.Response{data=[]model.CourseModule}
// @Router /api/semesters/{id}/modules [get]
func (c *CatalogController) ListModules(ctx *gin.Context) {
	semesterID := util.MustParseUint(ctx.Param("id"))

	modules, err := c.CatalogService.ListModules(semesterID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, modules)
}

// CreateLesson godoc
// @Summary Create a lesson in a module
// @Tags catalog
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.LessonRequest true "lesson"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/lessons [post]
func (c *CatalogController) CreateLesson(ctx *gin.Context) {
	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CatalogService.CreateLesson(ctx.Request.Context(), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, lesson)
}

// swagger:model PublishLessonRequest
type PublishLessonRequest struct {
	Publish bool `json:"publish"`
}

// PublishLesson godoc
// @Summary Publish or unpublish a lesson
// @Tags catalog
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "lesson ID"
// @Param body body PublishLessonRequest true "publish flag"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/admin/lessons/{id}/publish [post]
func (c *CatalogController) PublishLesson(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))

	var req PublishLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CatalogService.PublishLesson(ctx.Request.Context(), lessonID, req.Publish)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, lesson)
}
