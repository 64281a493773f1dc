package app

import (
	"course_studio_backend/docs"
	"course_studio_backend/internal/config"
	"course_studio_backend/internal/middleware"
	"course_studio_backend/internal/model"
	"course_studio_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, repos)
	a.registerInstructorRoutes(router, c, repos, cfg)
	a.registerAdminRoutes(router, c, repos, cfg)
}

// registerPublicRoutes covers the learner-facing catalog. Lesson content is
// gated by access level, so those routes accept but do not require a token.
func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	catalog := router.Group("/api/courses")
	catalog.Use(middleware.TryAuthMiddleware(a.Config), middleware.ActivityMiddleware(repos.user))
	{
		catalog.GET("", c.catalog.List)
		catalog.GET("/:slug", c.catalog.Get)
		catalog.GET("/:slug/lessons/:id", c.catalog.GetLesson)
	}
}

func (a *App) registerInstructorRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	me := router.Group("/api/me")
	me.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		me.GET("", c.auth.Me)
		me.GET("/profile", c.instructor.GetProfile)
		me.PUT("/profile", c.instructor.UpdateProfile)
		me.POST("/profile/avatar", c.instructor.UploadAvatar)
	}

	instructor := router.Group("/api/instructor")
	instructor.Use(
		middleware.AuthMiddleware(cfg),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Instructor),
	)
	{
		// Courses
		instructor.POST("/courses", c.course.Create)
		instructor.GET("/courses", c.course.List)
		instructor.GET("/courses/:id", c.course.Get)
		instructor.PUT("/courses/:id", c.course.Update)
		instructor.DELETE("/courses/:id", c.course.Delete)
		instructor.POST("/courses/:id/publish", c.course.Publish)
		instructor.POST("/courses/:id/unpublish", c.course.Unpublish)
		instructor.POST("/courses/:id/archive", c.course.Archive)
		instructor.POST("/courses/:id/schedule", c.course.SchedulePublish)
		instructor.POST("/courses/:id/cover", c.media.UploadCover)

		// Curriculum
		instructor.POST("/courses/:id/modules", c.curriculum.AddModule)
		instructor.PUT("/courses/:id/modules/reorder", c.curriculum.ReorderModules)
		instructor.PUT("/modules/:id", c.curriculum.UpdateModule)
		instructor.DELETE("/modules/:id", c.curriculum.DeleteModule)
		instructor.POST("/modules/:id/lessons", c.curriculum.AddLesson)
		instructor.PUT("/modules/:id/lessons/reorder", c.curriculum.ReorderLessons)
		instructor.PUT("/lessons/:id", c.curriculum.UpdateLesson)
		instructor.DELETE("/lessons/:id", c.curriculum.DeleteLesson)
		instructor.PUT("/lessons/:id/move", c.curriculum.MoveLesson)
		instructor.POST("/lessons/:id/video", c.media.UploadLessonVideo)
		instructor.GET("/lessons/:id/video/progress", c.media.VideoProgress)

		// Assessments
		instructor.POST("/courses/:id/assessments", c.assessment.Create)
		instructor.GET("/courses/:id/assessments", c.assessment.ListByCourse)
		instructor.GET("/assessments/:id", c.assessment.Get)
		instructor.PUT("/assessments/:id", c.assessment.Update)
		instructor.DELETE("/assessments/:id", c.assessment.Delete)
		instructor.POST("/assessments/:id/publish", c.assessment.Publish)
		instructor.POST("/assessments/:id/questions", c.assessment.AddQuestion)
		instructor.PUT("/assessments/:id/questions/reorder", c.assessment.ReorderQuestions)
		instructor.PUT("/questions/:id", c.assessment.UpdateQuestion)
		instructor.DELETE("/questions/:id", c.assessment.DeleteQuestion)

		// Authoring sessions
		instructor.POST("/sessions", c.session.Start)
		instructor.GET("/sessions", c.session.List)
		instructor.GET("/sessions/:id", c.session.Get)
		instructor.PUT("/sessions/:id/save", c.session.Save)
		instructor.PUT("/sessions/:id/mode", c.session.SwitchMode)
		instructor.POST("/sessions/:id/finalize", c.session.Finalize)
		instructor.DELETE("/sessions/:id", c.session.Abandon)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Admin),
	)
	{
		admin.GET("/users", c.admin.GetUsers)
		admin.GET("/users/:id", c.admin.GetUser)
		admin.POST("/users/:id/disable", c.admin.SetDisabled)
		admin.POST("/users/:id/subscriptions", c.admin.GrantSubscription)
		admin.POST("/sessions/purge", c.admin.PurgeSessions)
	}
}
