package app

import (
	"context"
	"course_studio_backend/internal/config"
	"course_studio_backend/internal/controller"
	"course_studio_backend/internal/repository"
	"course_studio_backend/internal/service"
	"course_studio_backend/internal/util"
	"course_studio_backend/pkg/database"
	"course_studio_backend/pkg/logger"
	"course_studio_backend/pkg/monitoring"
	"course_studio_backend/pkg/security"
	"course_studio_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	cron            *cron.Cron
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	instructor   *repository.InstructorRepository
	course       *repository.CourseRepository
	module       *repository.ModuleRepository
	lesson       *repository.LessonRepository
	assessment   *repository.AssessmentRepository
	subscription *repository.SubscriptionRepository
	session      *repository.SessionRepository
}

type services struct {
	storage    *service.StorageService
	auth       *service.AuthService
	instructor *service.InstructorService
	course     *service.CourseService
	curriculum *service.CurriculumService
	assessment *service.AssessmentService
	catalog    *service.CatalogService
	draft      *service.DraftService
	media      *service.MediaService
}

type controllers struct {
	auth       *controller.AuthController
	instructor *controller.InstructorController
	course     *controller.CourseController
	curriculum *controller.CurriculumController
	assessment *controller.AssessmentController
	session    *controller.SessionController
	catalog    *controller.CatalogController
	media      *controller.MediaController
	admin      *controller.AdminController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig swaps in a reloaded config and runs the registered callbacks.
// Only tunables read per request (cache TTLs, session windows) take effect;
// connections are not rebuilt.
func (a *App) ApplyConfig(cfg *config.Config) {
	*a.Config = *cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		instructor:   repository.NewInstructorRepository(db),
		course:       repository.NewCourseRepository(db),
		module:       repository.NewModuleRepository(db),
		lesson:       repository.NewLessonRepository(db),
		assessment:   repository.NewAssessmentRepository(db),
		subscription: repository.NewSubscriptionRepository(db),
		session:      repository.NewSessionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.instructor = service.NewInstructorService(repos.instructor, repos.user)
	s.course = service.NewCourseService(repos.course, repos.module, rdb, cfg)
	s.curriculum = service.NewCurriculumService(repos.course, repos.module, repos.lesson)
	s.assessment = service.NewAssessmentService(repos.assessment, repos.course)
	s.catalog = service.NewCatalogService(repos.course, repos.lesson, repos.subscription, rdb, cfg)
	s.draft = service.NewDraftService(repos.session, repos.course, s.course, rdb, cfg, db)
	s.media = service.NewMediaService(s.course, repos.lesson, s.storage, rdb)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		instructor: controller.NewInstructorController(s.instructor, s.storage),
		course:     controller.NewCourseController(s.course),
		curriculum: controller.NewCurriculumController(s.curriculum),
		assessment: controller.NewAssessmentController(s.assessment),
		session:    controller.NewSessionController(s.draft),
		catalog:    controller.NewCatalogController(s.catalog),
		media:      controller.NewMediaController(s.media),
		admin:      controller.NewAdminController(repos.user, repos.subscription, s.draft),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the scheduled-publish sweep every minute and the
// session expiry/purge job on a cron schedule.
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			if err := s.course.ProcessScheduledPublishes(); err != nil {
				logger.Log.Error("scheduled publish error", zap.Error(err))
			}
		}
	}()

	a.cron = cron.New()
	if _, err := a.cron.AddFunc("@every 15m", func() {
		if _, _, err := s.draft.ExpireIdleSessions(); err != nil {
			logger.Log.Error("session expiry error", zap.Error(err))
		}
	}); err != nil {
		logger.Log.Error("failed to schedule session expiry", zap.Error(err))
	}
	a.cron.Start()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Log.Info("Database migration completed")
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
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("course-studio", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

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

	if a.cron != nil {
		a.cron.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
