package app

import (
	"shikkha_backend/docs"
	"shikkha_backend/internal/config"
	"shikkha_backend/internal/middleware"
	"shikkha_backend/internal/model"
	"shikkha_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerGraderRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	// catalog browsing
	rg.GET("/semesters", c.catalog.ListSemesters)
	rg.GET("/semesters/:id/modules", c.catalog.ListModules)
	rg.GET("/modules/:id/sequence", c.content.GetModuleSequence)

	// lesson progress
	rg.POST("/lessons/:id/progress", c.content.MarkLessonWatched)
	rg.GET("/lessons/:id/progress", c.content.GetLessonProgress)
	rg.GET("/progress", c.content.MyProgress)

	// exam taking
	rg.GET("/exams/:id", c.exam.FetchForTaking)
	rg.POST("/exams/:id/start", c.exam.StartExam)
	rg.POST("/sessions/:id/submit", c.exam.SubmitExam)
	rg.GET("/sessions/:id", c.exam.GetSessionState)
	rg.GET("/results", c.exam.MyResults)

	// retakes
	rg.POST("/retakes", c.retake.RequestRetake)
	rg.GET("/retakes", c.retake.MyRetakes)
}

func (a *App) registerGraderRoutes(rg *gin.RouterGroup, c *controllers) {
	grading := rg.Group("/grading")
	grading.Use(middleware.RoleMiddleware(model.Grader))
	{
		grading.GET("/exams/:id/pending", c.grade.ListNeedingManual)
		grading.POST("/attempts/:id", c.grade.GradeAttempt)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		// catalog authoring
		admin.POST("/semesters", c.catalog.CreateSemester)
		admin.POST("/modules", c.catalog.CreateModule)
		admin.POST("/lessons", c.catalog.CreateLesson)
		admin.POST("/lessons/:id/publish", c.catalog.PublishLesson)

		// exam authoring
		admin.POST("/exams", c.exam.CreateExam)
		admin.GET("/exams/:id", c.exam.GetExam)
		admin.PUT("/exams/:id", c.exam.UpdateExam)
		admin.POST("/exams/:id/publish", c.exam.PublishExam)

		// retake review
		admin.GET("/retakes", c.retake.ListPending)
		admin.POST("/retakes/bulk-approve", c.retake.BulkApprove)
		admin.POST("/retakes/:id", c.retake.DecideRetake)
	}
}
