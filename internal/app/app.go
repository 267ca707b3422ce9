package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shikkha_backend/internal/config"
	"shikkha_backend/internal/controller"
	"shikkha_backend/internal/repository"
	"shikkha_backend/internal/service"
	"shikkha_backend/pkg/database"
	"shikkha_backend/pkg/logger"
	"shikkha_backend/pkg/monitoring"
	"shikkha_backend/pkg/security"
	"shikkha_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user     *repository.UserRepository
	catalog  *repository.CatalogRepository
	exam     *repository.ExamRepository
	session  *repository.SessionRepository
	attempt  *repository.AttemptRepository
	retake   *repository.RetakeRepository
	progress *repository.ProgressRepository
}

type services struct {
	auth     *service.AuthService
	content  *service.ContentService
	catalog  *service.CatalogService
	exam     *service.ExamService
	session  *service.ExamSessionService
	retake   *service.RetakeService
	progress *service.ProgressService
}

type controllers struct {
	auth    *controller.AuthController
	content *controller.ContentController
	catalog *controller.CatalogController
	exam    *controller.ExamController
	grade   *controller.GradeController
	retake  *controller.RetakeController
	health  *controller.HealthController
}

// ReloadConfig swaps in a freshly parsed config. Only settings read
// per-request pick up the change; listeners and routes keep their
// startup values.
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		catalog:  repository.NewCatalogRepository(db),
		exam:     repository.NewExamRepository(db),
		session:  repository.NewSessionRepository(db),
		attempt:  repository.NewAttemptRepository(db),
		retake:   repository.NewRetakeRepository(db),
		progress: repository.NewProgressRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.content = service.NewContentService(repos.catalog, repos.progress, repos.attempt, rdb, cfg)
	s.catalog = service.NewCatalogService(repos.catalog, s.content)
	s.exam = service.NewExamService(repos.exam, s.content, db)
	s.session = service.NewExamSessionService(repos.exam, repos.session, repos.attempt, repos.retake, s.content, db)
	s.retake = service.NewRetakeService(repos.retake, repos.attempt, repos.exam, db)
	s.progress = service.NewProgressService(repos.progress, repos.catalog)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		content: controller.NewContentController(s.content, s.progress),
		catalog: controller.NewCatalogController(s.catalog),
		exam:    controller.NewExamController(s.exam, s.session),
		grade:   controller.NewGradeController(s.session),
		retake:  controller.NewRetakeController(s.retake),
		health:  controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the window sweeper: published exams whose
// window has closed move to completed. Expired sessions need no
// sweeper, their status is derived lazily on read.
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			if err := s.exam.CompleteExpiredExams(); err != nil {
				logger.Log.Error("exam window sweep error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("shikkha-platform", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
